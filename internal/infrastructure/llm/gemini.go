package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const (
	geminiRoleUser  = "user"
	geminiRoleModel = "model"
)

// geminiRequest 单次 Gemini 调用参数
type geminiRequest struct {
	Model           string
	System          *genai.Content
	History         []*genai.Content
	Parts           []genai.Part
	Temperature     *float32
	MaxOutputTokens int32
}

// geminiContentAPI Gemini 调用的最小抽象
type geminiContentAPI interface {
	GenerateContent(ctx context.Context, req *geminiRequest) (*genai.GenerateContentResponse, error)
}

// geminiClientAPI 基于 genai.Client 的实现，每次调用构造 GenerativeModel
type geminiClientAPI struct {
	client *genai.Client
}

func (a *geminiClientAPI) GenerateContent(ctx context.Context, req *geminiRequest) (*genai.GenerateContentResponse, error) {
	gm := a.client.GenerativeModel(req.Model)
	gm.SystemInstruction = req.System
	if req.Temperature != nil {
		gm.SetTemperature(*req.Temperature)
	}
	if req.MaxOutputTokens > 0 {
		gm.SetMaxOutputTokens(req.MaxOutputTokens)
	}
	cs := gm.StartChat()
	cs.History = req.History
	return cs.SendMessage(ctx, req.Parts...)
}

// GeminiChatModelConfig Gemini 模型配置
type GeminiChatModelConfig struct {
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float32
	Timeout     time.Duration
}

// GeminiChatModel 基于 generative-ai-go SDK 的 eino ChatModel 实现
type GeminiChatModel struct {
	api         geminiContentAPI
	model       string
	maxTokens   int
	temperature float32
	timeout     time.Duration
}

// NewGeminiChatModel 创建 Gemini ChatModel
func NewGeminiChatModel(ctx context.Context, cfg *GeminiChatModelConfig) (*GeminiChatModel, error) {
	if cfg == nil || strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return newGeminiChatModel(&geminiClientAPI{client: client}, cfg), nil
}

func newGeminiChatModel(api geminiContentAPI, cfg *GeminiChatModelConfig) *GeminiChatModel {
	return &GeminiChatModel{
		api:         api,
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		timeout:     cfg.Timeout,
	}
}

// GetType 组件类型名
func (m *GeminiChatModel) GetType() string {
	return "Gemini"
}

// IsCallbacksEnabled 回调由本组件自行触发
func (m *GeminiChatModel) IsCallbacksEnabled() bool {
	return true
}

// Generate 单次生成
func (m *GeminiChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (outMsg *schema.Message, err error) {
	options := model.GetCommonOptions(&model.Options{
		Model:       &m.model,
		MaxTokens:   &m.maxTokens,
		Temperature: &m.temperature,
	}, opts...)

	cbConfig := &model.Config{}
	if options.Model != nil {
		cbConfig.Model = *options.Model
	}
	if options.MaxTokens != nil {
		cbConfig.MaxTokens = *options.MaxTokens
	}
	if options.Temperature != nil {
		cbConfig.Temperature = *options.Temperature
	}

	ctx = callbacks.EnsureRunInfo(ctx, m.GetType(), components.ComponentOfChatModel)
	ctx = callbacks.OnStart(ctx, &model.CallbackInput{Messages: input, Config: cbConfig})
	defer func() {
		if err != nil {
			callbacks.OnError(ctx, err)
		}
	}()

	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	contents, system := toGeminiContents(input)
	if len(contents) == 0 || contents[len(contents)-1].Role != geminiRoleUser {
		return nil, fmt.Errorf("gemini: no user content to send")
	}

	req := &geminiRequest{
		Model:   cbConfig.Model,
		System:  system,
		History: contents[:len(contents)-1],
		Parts:   contents[len(contents)-1].Parts,
	}
	if options.Temperature != nil {
		t := *options.Temperature
		req.Temperature = &t
	}
	if options.MaxTokens != nil && *options.MaxTokens > 0 {
		req.MaxOutputTokens = int32(*options.MaxTokens)
	}

	resp, err := m.api.GenerateContent(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("gemini generate content: %w", err)
	}

	text := responseText(resp)
	if text == "" {
		return nil, fmt.Errorf("gemini returned no text candidates")
	}

	outMsg = schema.AssistantMessage(text, nil)
	usage := &model.TokenUsage{}
	if resp.UsageMetadata != nil {
		usage.PromptTokens = int(resp.UsageMetadata.PromptTokenCount)
		usage.CompletionTokens = int(resp.UsageMetadata.CandidatesTokenCount)
		usage.TotalTokens = int(resp.UsageMetadata.TotalTokenCount)
	}
	outMsg.ResponseMeta = &schema.ResponseMeta{
		Usage: &schema.TokenUsage{
			PromptTokens:     usage.PromptTokens,
			CompletionTokens: usage.CompletionTokens,
			TotalTokens:      usage.TotalTokens,
		},
	}
	if len(resp.Candidates) > 0 {
		outMsg.ResponseMeta.FinishReason = resp.Candidates[0].FinishReason.String()
	}

	callbacks.OnEnd(ctx, &model.CallbackOutput{
		Message:    outMsg,
		Config:     cbConfig,
		TokenUsage: usage,
	})
	return outMsg, nil
}

// Stream 以单块流的形式返回完整结果
func (m *GeminiChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	msg, err := m.Generate(ctx, input, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{msg}), nil
}

// toGeminiContents 转换 eino 消息，system 消息合并为 SystemInstruction
func toGeminiContents(msgs []*schema.Message) ([]*genai.Content, *genai.Content) {
	var (
		contents   []*genai.Content
		systemText []string
	)
	for _, msg := range msgs {
		if msg == nil || strings.TrimSpace(msg.Content) == "" {
			continue
		}
		switch msg.Role {
		case schema.System:
			systemText = append(systemText, msg.Content)
		case schema.Assistant:
			contents = append(contents, &genai.Content{Role: geminiRoleModel, Parts: []genai.Part{genai.Text(msg.Content)}})
		default:
			contents = append(contents, &genai.Content{Role: geminiRoleUser, Parts: []genai.Part{genai.Text(msg.Content)}})
		}
	}

	var system *genai.Content
	if len(systemText) > 0 {
		system = &genai.Content{Parts: []genai.Part{genai.Text(strings.Join(systemText, "\n\n"))}}
	}
	return contents, system
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return sb.String()
}
