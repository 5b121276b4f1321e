// Package content 实现短视频脚本生成流水线：模板渲染、模型调用、解析、时间轴、评分与富化。
package content

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"reelsbot-ai-api/internal/application/music"
	"reelsbot-ai-api/internal/domain/entity"
	apperrors "reelsbot-ai-api/pkg/errors"
)

// MaxTopicLength 主题最大字符数
const MaxTopicLength = 200

// SegmentTypeNarration 时间片段类型
const SegmentTypeNarration = "narration"

// TrendContext 可选的趋势上下文
type TrendContext struct {
	Hashtags       []string `json:"hashtags"`
	Topics         []string `json:"topics"`
	EngagementTips string   `json:"engagement_tips"`
}

// Brief 生成输入，构造后不可变
type Brief struct {
	Topic                  string
	Platform               entity.Platform
	Tone                   string
	TargetAudience         string
	AdditionalRequirements string
	IncludeMusic           bool
	// IncludeTrends 未提供 Trends 时是否主动查询趋势
	IncludeTrends bool
	Trends        *TrendContext
}

// Validate 校验必填字段
func (b Brief) Validate() error {
	topic := strings.TrimSpace(b.Topic)
	if topic == "" {
		return apperrors.ErrInvalidParam.WithDetail("topic is required")
	}
	if utf8.RuneCountInString(topic) > MaxTopicLength {
		return apperrors.ErrInvalidParam.WithDetail(fmt.Sprintf("topic must be at most %d characters", MaxTopicLength))
	}
	if !b.Platform.Valid() {
		return apperrors.ErrInvalidParam.WithDetail(fmt.Sprintf("unsupported platform %q", b.Platform))
	}
	return nil
}

// TimestampSegment 旁白时间片段，单位秒
type TimestampSegment struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Text  string `json:"text"`
	Type  string `json:"type"`
}

// Record 生成结果。文本字段缺省为空串，列表字段缺省为空切片。
type Record struct {
	Hook             string             `json:"hook"`
	Storyline        string             `json:"storyline"`
	Script           string             `json:"script"`
	Timestamps       []TimestampSegment `json:"timestamps"`
	Hashtags         []string           `json:"hashtags"`
	MusicSuggestions []music.Suggestion `json:"music_suggestions,omitempty"`
	ModelUsed        string             `json:"model_used"`
	QualityScore     int                `json:"quality_score"`
}

func newRecord() *Record {
	return &Record{
		Timestamps: []TimestampSegment{},
		Hashtags:   []string{},
	}
}

// usable 至少存在一个可用字段
func (r *Record) usable() bool {
	return r.Hook != "" || r.Storyline != "" || r.Script != "" || len(r.Hashtags) > 0
}
