// Package chain 提供基于 eino compose 的 LLM 调用链
package chain

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	openaiopts "github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	llmctx "reelsbot-ai-api/internal/domain/service"
	wfmodel "reelsbot-ai-api/internal/workflow/model"
	wfnode "reelsbot-ai-api/internal/workflow/node"
	workflowport "reelsbot-ai-api/internal/workflow/port"
	workflowprompt "reelsbot-ai-api/internal/workflow/prompt"
	"reelsbot-ai-api/pkg/logger"
)

const contentWorkflow = "content_generate"

// jsonOutputInstruction 追加到提示词末尾，要求 JSON 输出
const jsonOutputInstruction = "\n\nRespond with a single JSON object using the keys \"hook\", \"storyline\", \"script\" and \"hashtags\" (an array of strings without the leading #). Do not wrap it in markdown."

// ContentChain 模板渲染 + 单次模型调用，无重试
type ContentChain struct {
	factory   workflowport.ChatModelFactory
	templates *workflowprompt.Registry

	chainOnce sync.Once
	chain     compose.Runnable[*wfmodel.ContentGenerateInput, *wfmodel.ContentGenerateOutput]
	chainErr  error
}

// NewContentChain 创建内容生成链
func NewContentChain(factory workflowport.ChatModelFactory, templates *workflowprompt.Registry) *ContentChain {
	return &ContentChain{factory: factory, templates: templates}
}

// Invoke 渲染模板并调用模型，返回原始文本
func (c *ContentChain) Invoke(ctx context.Context, in *wfmodel.ContentGenerateInput) (*wfmodel.ContentGenerateOutput, error) {
	if c == nil || c.factory == nil {
		return nil, fmt.Errorf("llm factory not configured")
	}
	if in == nil {
		return nil, fmt.Errorf("input is nil")
	}

	chain, err := c.getChain()
	if err != nil {
		return nil, err
	}
	return chain.Invoke(ctx, in)
}

type contentChainState struct {
	In       *wfmodel.ContentGenerateInput
	Prompt   string
	Messages []*schema.Message
	OutMsg   *schema.Message
	Duration time.Duration
}

func (c *ContentChain) getChain() (compose.Runnable[*wfmodel.ContentGenerateInput, *wfmodel.ContentGenerateOutput], error) {
	c.chainOnce.Do(func() {
		c.chain, c.chainErr = c.buildChain(context.Background())
	})
	return c.chain, c.chainErr
}

func (c *ContentChain) buildChain(ctx context.Context) (compose.Runnable[*wfmodel.ContentGenerateInput, *wfmodel.ContentGenerateOutput], error) {
	chain := compose.NewChain[*wfmodel.ContentGenerateInput, *wfmodel.ContentGenerateOutput]()

	chain.AppendLambda(
		compose.InvokableLambda(func(_ context.Context, in *wfmodel.ContentGenerateInput) (*contentChainState, error) {
			if in == nil {
				return nil, fmt.Errorf("input is nil")
			}
			return &contentChainState{In: in}, nil
		}),
		compose.WithNodeName("content.init"),
	)

	chain.AppendLambda(
		compose.InvokableLambda(func(ctx context.Context, st *contentChainState) (*contentChainState, error) {
			if st == nil || st.In == nil {
				return nil, fmt.Errorf("state is nil")
			}
			text, err := c.render(ctx, st.In)
			if err != nil {
				return nil, err
			}
			st.Prompt = text
			st.Messages = []*schema.Message{schema.UserMessage(text)}
			return st, nil
		}),
		compose.WithNodeName("content.template"),
	)

	chain.AppendLambda(
		compose.InvokableLambda(func(ctx context.Context, st *contentChainState) (*contentChainState, error) {
			if st == nil || st.In == nil {
				return nil, fmt.Errorf("state is nil")
			}

			provider := strings.TrimSpace(st.In.Provider)
			ctx = llmctx.WithLLMCall(ctx, llmctx.LLMCallInfo{
				Workflow: contentWorkflow,
				Provider: provider,
				Model:    strings.TrimSpace(st.In.Model),
			})
			chatModel, err := c.factory.Get(ctx, provider)
			if err != nil {
				return nil, err
			}

			start := time.Now()
			outMsg, err := chatModel.Generate(ctx, st.Messages, buildContentModelOptions(st.In, st.In.JSONOutput)...)
			if err != nil && st.In.JSONOutput && wfnode.IsResponseFormatUnsupportedError(err) {
				logger.Warn(ctx, "llm json output not supported, fallback to prompt-only",
					"provider", provider,
					"model", st.In.Model,
					"error", err.Error(),
				)
				outMsg, err = chatModel.Generate(ctx, st.Messages, buildContentModelOptions(st.In, false)...)
			}
			st.Duration = time.Since(start)
			if err != nil {
				return nil, err
			}
			if outMsg == nil {
				return nil, fmt.Errorf("empty llm response")
			}
			st.OutMsg = outMsg
			return st, nil
		}),
		compose.WithNodeName("content.llm"),
	)

	chain.AppendLambda(
		compose.InvokableLambda(func(_ context.Context, st *contentChainState) (*wfmodel.ContentGenerateOutput, error) {
			if st == nil || st.OutMsg == nil {
				return nil, fmt.Errorf("state is nil")
			}
			out := &wfmodel.ContentGenerateOutput{
				Prompt:  st.Prompt,
				RawText: st.OutMsg.Content,
				Meta: wfmodel.LLMUsageMeta{
					Provider: strings.TrimSpace(st.In.Provider),
					Model:    strings.TrimSpace(st.In.Model),
					Duration: st.Duration,
				},
			}
			if st.OutMsg.ResponseMeta != nil && st.OutMsg.ResponseMeta.Usage != nil {
				out.Meta.PromptTokens = st.OutMsg.ResponseMeta.Usage.PromptTokens
				out.Meta.CompletionTokens = st.OutMsg.ResponseMeta.Usage.CompletionTokens
			}
			return out, nil
		}),
		compose.WithNodeName("content.finalize"),
	)

	return chain.Compile(ctx)
}

func (c *ContentChain) render(ctx context.Context, in *wfmodel.ContentGenerateInput) (string, error) {
	templates := c.templates
	if templates == nil {
		templates = workflowprompt.NewRegistry(nil)
	}
	text, err := templates.Render(ctx, in.Kind, in.Platform, in.Vars)
	if err != nil {
		return "", err
	}
	if in.JSONOutput {
		text += jsonOutputInstruction
	}
	return text, nil
}

func buildContentModelOptions(in *wfmodel.ContentGenerateInput, jsonOutput bool) []model.Option {
	opts := make([]model.Option, 0, 4)
	if in == nil {
		return opts
	}

	if in.Temperature != nil {
		opts = append(opts, model.WithTemperature(*in.Temperature))
	}
	if in.MaxTokens != nil {
		opts = append(opts, model.WithMaxTokens(*in.MaxTokens))
	}
	if m := strings.TrimSpace(in.Model); m != "" {
		opts = append(opts, model.WithModel(m))
	}

	if jsonOutput {
		opts = append(opts, openaiopts.WithExtraFields(map[string]any{
			"response_format": map[string]any{"type": "json_object"},
		}))
	}

	return opts
}
