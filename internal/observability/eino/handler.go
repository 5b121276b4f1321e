// Package eino 注册 eino 全局回调，统一采集 LLM 调用指标与链路
package eino

import (
	"context"
	"time"

	einocb "github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components/model"
	cbtemplate "github.com/cloudwego/eino/utils/callbacks"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	llmctx "reelsbot-ai-api/internal/domain/service"
	"reelsbot-ai-api/pkg/logger"
	"reelsbot-ai-api/pkg/metrics"
	"reelsbot-ai-api/pkg/tracer"
)

// startTimeKey 在 Context 中保存调用开始时间
type startTimeKey struct{}

// newChatModelCallbackHandler 记录调用次数、耗时、Token 与 Span
func newChatModelCallbackHandler() *cbtemplate.ModelCallbackHandler {
	return &cbtemplate.ModelCallbackHandler{
		OnStart: func(ctx context.Context, info *einocb.RunInfo, input *model.CallbackInput) context.Context {
			ctx = context.WithValue(ctx, startTimeKey{}, time.Now())

			call := llmctx.LLMCallFromContext(ctx)
			attrs := []attribute.KeyValue{
				attribute.String("eino.workflow", call.Workflow),
				attribute.String("llm.provider", call.Provider),
				attribute.String("llm.model", modelName(ctx, inputModel(input))),
			}
			if info != nil {
				attrs = append(attrs,
					attribute.String("eino.node_name", info.Name),
					attribute.String("eino.type", info.Type),
				)
			}

			ctx, _ = tracer.Start(ctx, "llm.generate", trace.WithAttributes(attrs...))
			return ctx
		},

		OnEnd: func(ctx context.Context, _ *einocb.RunInfo, output *model.CallbackOutput) context.Context {
			call := llmctx.LLMCallFromContext(ctx)
			name := modelName(ctx, outputModel(output))
			elapsed := elapsedSeconds(ctx)

			metrics.LLMCallTotal.WithLabelValues(call.Workflow, call.Provider, name, "success").Inc()
			if elapsed > 0 {
				metrics.LLMCallDuration.WithLabelValues(call.Workflow, call.Provider, name).Observe(elapsed)
			}

			span := trace.SpanFromContext(ctx)
			if output != nil && output.TokenUsage != nil {
				metrics.LLMTokensUsed.WithLabelValues(call.Workflow, call.Provider, name, "prompt").Add(float64(output.TokenUsage.PromptTokens))
				metrics.LLMTokensUsed.WithLabelValues(call.Workflow, call.Provider, name, "completion").Add(float64(output.TokenUsage.CompletionTokens))
				span.SetAttributes(
					attribute.Int("llm.prompt_tokens", output.TokenUsage.PromptTokens),
					attribute.Int("llm.completion_tokens", output.TokenUsage.CompletionTokens),
				)
			}

			logger.Debug(ctx, "llm call finished",
				"workflow", call.Workflow,
				"provider", call.Provider,
				"model", name,
				"duration_seconds", elapsed,
			)
			span.End()
			return ctx
		},

		OnError: func(ctx context.Context, _ *einocb.RunInfo, err error) context.Context {
			call := llmctx.LLMCallFromContext(ctx)
			name := modelName(ctx, "")

			metrics.LLMCallTotal.WithLabelValues(call.Workflow, call.Provider, name, "error").Inc()
			if d := elapsedSeconds(ctx); d > 0 {
				metrics.LLMCallDuration.WithLabelValues(call.Workflow, call.Provider, name).Observe(d)
			}

			span := trace.SpanFromContext(ctx)
			tracer.RecordError(span, err)
			span.End()
			return ctx
		},
	}
}

// elapsedSeconds 计算自 OnStart 起的耗时，未记录开始时间时返回 0
func elapsedSeconds(ctx context.Context) float64 {
	start, ok := ctx.Value(startTimeKey{}).(time.Time)
	if !ok || start.IsZero() {
		return 0
	}
	return time.Since(start).Seconds()
}

func inputModel(in *model.CallbackInput) string {
	if in == nil || in.Config == nil {
		return ""
	}
	return in.Config.Model
}

func outputModel(out *model.CallbackOutput) string {
	if out == nil || out.Config == nil {
		return ""
	}
	return out.Config.Model
}

// modelName 优先使用回调中的模型名，其次为 context 中的调用标签
func modelName(ctx context.Context, fromCallback string) string {
	if fromCallback != "" {
		return fromCallback
	}
	return llmctx.LLMCallFromContext(ctx).Model
}
