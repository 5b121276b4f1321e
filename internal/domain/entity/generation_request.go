package entity

import (
	"time"
)

// RequestStatus 生成请求状态
type RequestStatus string

const (
	RequestStatusPending RequestStatus = "pending"
	RequestStatusRunning RequestStatus = "running"
	RequestStatusSuccess RequestStatus = "success"
	RequestStatusFailed  RequestStatus = "failed"
)

// GenerationRequest 内容生成请求记录
type GenerationRequest struct {
	ID                     string        `json:"id" gorm:"type:uuid;primaryKey"`
	Topic                  string        `json:"topic" gorm:"size:200;not null"`
	Platform               Platform      `json:"platform" gorm:"size:20;not null;index"`
	Tone                   string        `json:"tone" gorm:"size:100"`
	TargetAudience         string        `json:"target_audience" gorm:"size:200"`
	AdditionalRequirements string        `json:"additional_requirements,omitempty" gorm:"type:text"`
	IncludeMusic           bool          `json:"include_music"`
	IncludeTrends          bool          `json:"include_trends"`
	UserIP                 string        `json:"user_ip,omitempty" gorm:"size:64"`
	UserAgent              string        `json:"user_agent,omitempty" gorm:"type:text"`
	SessionID              string        `json:"session_id,omitempty" gorm:"size:128;index"`
	Status                 RequestStatus `json:"status" gorm:"size:20;not null;index"`
	ErrorMessage           string        `json:"error_message,omitempty" gorm:"type:text"`
	FailureKind            string        `json:"failure_kind,omitempty" gorm:"size:32"`
	Retryable              bool          `json:"retryable"`
	Attempts               int           `json:"attempts"`
	ContentScriptID        *string       `json:"content_script_id,omitempty" gorm:"type:uuid"`
	ProcessingTimeMs       int64         `json:"processing_time_ms"`
	CreatedAt              time.Time     `json:"created_at"`
	UpdatedAt              time.Time     `json:"updated_at"`
	StartedAt              *time.Time    `json:"started_at,omitempty"`
	CompletedAt            *time.Time    `json:"completed_at,omitempty"`
}

// TableName 表名
func (GenerationRequest) TableName() string {
	return "generation_requests"
}

// NewGenerationRequest 创建待处理的生成请求
func NewGenerationRequest(id, topic string, platform Platform, tone, audience string) *GenerationRequest {
	return &GenerationRequest{
		ID:             id,
		Topic:          topic,
		Platform:       platform,
		Tone:           tone,
		TargetAudience: audience,
		Status:         RequestStatusPending,
		CreatedAt:      time.Now(),
	}
}

// Start 开始执行
func (r *GenerationRequest) Start() {
	now := time.Now()
	r.Status = RequestStatusRunning
	r.StartedAt = &now
	r.Attempts++
	r.ErrorMessage = ""
	r.FailureKind = ""
	r.Retryable = false
}

// Succeed 执行成功
func (r *GenerationRequest) Succeed(scriptID string) {
	now := time.Now()
	r.Status = RequestStatusSuccess
	r.ContentScriptID = &scriptID
	r.CompletedAt = &now
	r.ProcessingTimeMs = r.elapsedMs(now)
}

// Fail 执行失败
func (r *GenerationRequest) Fail(kind, message string, retryable bool) {
	now := time.Now()
	r.Status = RequestStatusFailed
	r.FailureKind = kind
	r.ErrorMessage = message
	r.Retryable = retryable
	r.CompletedAt = &now
	r.ProcessingTimeMs = r.elapsedMs(now)
}

// Finished 是否已结束
func (r *GenerationRequest) Finished() bool {
	return r.Status == RequestStatusSuccess || r.Status == RequestStatusFailed
}

// CanRetry 检查是否可以重试
func (r *GenerationRequest) CanRetry(maxAttempts int) bool {
	return r.Status == RequestStatusFailed && r.Retryable && r.Attempts < maxAttempts
}

func (r *GenerationRequest) elapsedMs(now time.Time) int64 {
	if r.StartedAt == nil {
		return 0
	}
	return now.Sub(*r.StartedAt).Milliseconds()
}
