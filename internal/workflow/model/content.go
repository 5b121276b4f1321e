// Package model 定义工作流输入输出模型
package model

import (
	"time"

	"reelsbot-ai-api/internal/workflow/prompt"
)

// ContentGenerateInput 一次内容生成调用的完整输入，不依赖任何跨调用状态
type ContentGenerateInput struct {
	Kind     prompt.Kind
	Platform string
	Vars     map[string]any

	Provider    string
	Model       string
	Temperature *float32
	MaxTokens   *int

	// JSONOutput 要求模型输出 JSON 对象
	JSONOutput bool
}

// LLMUsageMeta 调用元信息
type LLMUsageMeta struct {
	Provider         string
	Model            string
	PromptTokens     int
	CompletionTokens int
	Duration         time.Duration
}

// ContentGenerateOutput 模型原始输出
type ContentGenerateOutput struct {
	Prompt  string
	RawText string
	Meta    LLMUsageMeta
}
