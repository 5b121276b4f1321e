// Package service 提供跨层共享的领域服务辅助
package service

import (
	"context"
	"strings"
)

type llmCtxKey string

const (
	llmCtxKeyWorkflow llmCtxKey = "llm_workflow"
	llmCtxKeyProvider llmCtxKey = "llm_provider"
	llmCtxKeyModel    llmCtxKey = "llm_model"
)

// Unknown 未设置时的标签值
const Unknown = "unknown"

// LLMCallInfo 一次 LLM 调用的标签
type LLMCallInfo struct {
	Workflow string
	Provider string
	Model    string
}

// WithLLMCall 将调用标签写入 context，空值字段不覆盖已有值
func WithLLMCall(ctx context.Context, info LLMCallInfo) context.Context {
	ctx = withValue(ctx, llmCtxKeyWorkflow, info.Workflow)
	ctx = withValue(ctx, llmCtxKeyProvider, info.Provider)
	return withValue(ctx, llmCtxKeyModel, info.Model)
}

// WithWorkflowProvider 设置工作流与提供商
func WithWorkflowProvider(ctx context.Context, workflow, provider string) context.Context {
	return WithLLMCall(ctx, LLMCallInfo{Workflow: workflow, Provider: provider})
}

// LLMCallFromContext 读取调用标签，缺失字段为 "unknown"
func LLMCallFromContext(ctx context.Context) LLMCallInfo {
	return LLMCallInfo{
		Workflow: valueOrUnknown(ctx, llmCtxKeyWorkflow),
		Provider: valueOrUnknown(ctx, llmCtxKeyProvider),
		Model:    valueOrUnknown(ctx, llmCtxKeyModel),
	}
}

// WorkflowFromContext 读取工作流名称
func WorkflowFromContext(ctx context.Context) string {
	return valueOrUnknown(ctx, llmCtxKeyWorkflow)
}

// ProviderFromContext 读取提供商名称
func ProviderFromContext(ctx context.Context) string {
	return valueOrUnknown(ctx, llmCtxKeyProvider)
}

func withValue(ctx context.Context, key llmCtxKey, value string) context.Context {
	if ctx == nil {
		return nil
	}
	v := strings.TrimSpace(value)
	if v == "" {
		return ctx
	}
	return context.WithValue(ctx, key, v)
}

func valueOrUnknown(ctx context.Context, key llmCtxKey) string {
	if ctx == nil {
		return Unknown
	}
	s, ok := ctx.Value(key).(string)
	if !ok || strings.TrimSpace(s) == "" {
		return Unknown
	}
	return s
}
