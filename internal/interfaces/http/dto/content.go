package dto

import (
	"encoding/json"
	"strings"
	"time"

	"reelsbot-ai-api/internal/application/content"
	"reelsbot-ai-api/internal/application/music"
	"reelsbot-ai-api/internal/domain/entity"
)

// GenerateContentRequest 内容生成请求
type GenerateContentRequest struct {
	Topic                  string `json:"topic" binding:"required,min=1,max=200"`
	Platform               string `json:"platform" binding:"required,oneof=instagram youtube tiktok"`
	Tone                   string `json:"tone" binding:"required,min=1,max=100"`
	TargetAudience         string `json:"target_audience" binding:"required,min=1,max=200"`
	AdditionalRequirements string `json:"additional_requirements" binding:"max=1000"`
	IncludeMusic           *bool  `json:"include_music"`
	IncludeTrends          *bool  `json:"include_trends"`
}

// ToBrief 转换为生成输入，include_* 缺省为 true
func (r *GenerateContentRequest) ToBrief() content.Brief {
	return content.Brief{
		Topic:                  strings.TrimSpace(r.Topic),
		Platform:               entity.Platform(r.Platform),
		Tone:                   strings.TrimSpace(r.Tone),
		TargetAudience:         strings.TrimSpace(r.TargetAudience),
		AdditionalRequirements: strings.TrimSpace(r.AdditionalRequirements),
		IncludeMusic:           boolOrDefault(r.IncludeMusic, true),
		IncludeTrends:          boolOrDefault(r.IncludeTrends, true),
	}
}

func boolOrDefault(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

// GenerateContentResponse 同步生成响应
type GenerateContentResponse struct {
	RequestID      string                 `json:"request_id"`
	ScriptID       string                 `json:"script_id"`
	Content        *ContentScriptResponse `json:"content"`
	GenerationTime float64                `json:"generation_time"`
}

// EnqueueContentResponse 异步提交响应
type EnqueueContentResponse struct {
	RequestID string `json:"request_id"`
	Status    string `json:"status"`
}

// ContentScriptResponse 脚本响应
type ContentScriptResponse struct {
	ID                    string                     `json:"id"`
	RequestID             string                     `json:"request_id"`
	Topic                 string                     `json:"topic"`
	Platform              string                     `json:"platform"`
	Tone                  string                     `json:"tone"`
	TargetAudience        string                     `json:"target_audience"`
	Hook                  string                     `json:"hook"`
	Storyline             string                     `json:"storyline"`
	Script                string                     `json:"script"`
	Timestamps            []content.TimestampSegment `json:"timestamps"`
	MusicSuggestions      []music.Suggestion         `json:"music_suggestions,omitempty"`
	Hashtags              []string                   `json:"hashtags"`
	GenerationTimeSeconds float64                    `json:"generation_time_seconds"`
	ModelUsed             string                     `json:"model_used"`
	QualityScore          int                        `json:"quality_score"`
	CreatedAt             string                     `json:"created_at"`
}

// ToContentScriptResponse 转换脚本实体
func ToContentScriptResponse(s *entity.ContentScript) *ContentScriptResponse {
	if s == nil {
		return nil
	}
	resp := &ContentScriptResponse{
		ID:                    s.ID,
		RequestID:             s.RequestID,
		Topic:                 s.Topic,
		Platform:              s.Platform.String(),
		Tone:                  s.Tone,
		TargetAudience:        s.TargetAudience,
		Hook:                  s.Hook,
		Storyline:             s.Storyline,
		Script:                s.Script,
		Timestamps:            []content.TimestampSegment{},
		Hashtags:              []string(s.Hashtags),
		GenerationTimeSeconds: s.GenerationTimeSeconds,
		ModelUsed:             s.ModelUsed,
		QualityScore:          s.QualityScore,
		CreatedAt:             s.CreatedAt.Format(time.RFC3339),
	}
	if resp.Hashtags == nil {
		resp.Hashtags = []string{}
	}
	if len(s.Timestamps) > 0 {
		_ = json.Unmarshal(s.Timestamps, &resp.Timestamps)
	}
	if len(s.MusicSuggestions) > 0 {
		_ = json.Unmarshal(s.MusicSuggestions, &resp.MusicSuggestions)
	}
	return resp
}

// ToContentScriptResponses 批量转换
func ToContentScriptResponses(items []*entity.ContentScript) []*ContentScriptResponse {
	out := make([]*ContentScriptResponse, 0, len(items))
	for _, it := range items {
		out = append(out, ToContentScriptResponse(it))
	}
	return out
}

// GenerationRequestResponse 生成请求状态响应
type GenerationRequestResponse struct {
	ID               string  `json:"id"`
	Topic            string  `json:"topic"`
	Platform         string  `json:"platform"`
	Tone             string  `json:"tone"`
	TargetAudience   string  `json:"target_audience"`
	Status           string  `json:"status"`
	ErrorMessage     string  `json:"error_message,omitempty"`
	FailureKind      string  `json:"failure_kind,omitempty"`
	Retryable        bool    `json:"retryable"`
	Attempts         int     `json:"attempts"`
	ContentScriptID  *string `json:"content_script_id,omitempty"`
	ProcessingTimeMs int64   `json:"processing_time_ms"`
	CreatedAt        string  `json:"created_at"`
	CompletedAt      *string `json:"completed_at,omitempty"`
}

// ToGenerationRequestResponse 转换请求实体
func ToGenerationRequestResponse(r *entity.GenerationRequest) *GenerationRequestResponse {
	if r == nil {
		return nil
	}
	resp := &GenerationRequestResponse{
		ID:               r.ID,
		Topic:            r.Topic,
		Platform:         r.Platform.String(),
		Tone:             r.Tone,
		TargetAudience:   r.TargetAudience,
		Status:           string(r.Status),
		ErrorMessage:     r.ErrorMessage,
		FailureKind:      r.FailureKind,
		Retryable:        r.Retryable,
		Attempts:         r.Attempts,
		ContentScriptID:  r.ContentScriptID,
		ProcessingTimeMs: r.ProcessingTimeMs,
		CreatedAt:        r.CreatedAt.Format(time.RFC3339),
	}
	if r.CompletedAt != nil {
		s := r.CompletedAt.Format(time.RFC3339)
		resp.CompletedAt = &s
	}
	return resp
}
