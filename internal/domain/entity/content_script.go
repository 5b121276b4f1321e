package entity

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// ContentScript 已生成的短视频脚本
type ContentScript struct {
	ID                    string         `json:"id" gorm:"type:uuid;primaryKey"`
	RequestID             string         `json:"request_id" gorm:"type:uuid;index"`
	Topic                 string         `json:"topic" gorm:"size:200;not null"`
	Platform              Platform       `json:"platform" gorm:"size:20;not null;index"`
	Tone                  string         `json:"tone" gorm:"size:100"`
	TargetAudience        string         `json:"target_audience" gorm:"size:200"`
	Hook                  string         `json:"hook" gorm:"type:text"`
	Storyline             string         `json:"storyline" gorm:"type:text"`
	Script                string         `json:"script" gorm:"type:text"`
	Timestamps            datatypes.JSON `json:"timestamps" gorm:"type:jsonb"`
	MusicSuggestions      datatypes.JSON `json:"music_suggestions,omitempty" gorm:"type:jsonb"`
	Hashtags              pq.StringArray `json:"hashtags" gorm:"type:text[]"`
	GenerationTimeSeconds float64        `json:"generation_time_seconds"`
	ModelUsed             string         `json:"model_used" gorm:"size:100"`
	QualityScore          int            `json:"quality_score"`
	CreatedAt             time.Time      `json:"created_at"`
	UpdatedAt             time.Time      `json:"updated_at"`
}

// TableName 表名
func (ContentScript) TableName() string {
	return "content_scripts"
}
