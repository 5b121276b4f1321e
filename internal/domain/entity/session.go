package entity

import (
	"time"
)

// Session 匿名会话使用统计
type Session struct {
	SessionID             string    `json:"session_id" gorm:"size:128;primaryKey"`
	IPAddress             string    `json:"ip_address,omitempty" gorm:"size:64"`
	UserAgent             string    `json:"user_agent,omitempty" gorm:"type:text"`
	TotalRequests         int       `json:"total_requests"`
	SuccessfulGenerations int       `json:"successful_generations"`
	FailedGenerations     int       `json:"failed_generations"`
	PreferredPlatform     Platform  `json:"preferred_platform,omitempty" gorm:"size:20"`
	PreferredTone         string    `json:"preferred_tone,omitempty" gorm:"size:100"`
	FirstVisit            time.Time `json:"first_visit"`
	LastVisit             time.Time `json:"last_visit"`
}

// TableName 表名
func (Session) TableName() string {
	return "sessions"
}

// NewSession 创建会话
func NewSession(id, ip, userAgent string) *Session {
	now := time.Now()
	return &Session{
		SessionID:  id,
		IPAddress:  ip,
		UserAgent:  userAgent,
		FirstVisit: now,
		LastVisit:  now,
	}
}

// RecordOutcome 记录一次生成结果
func (s *Session) RecordOutcome(platform Platform, tone string, success bool) {
	s.TotalRequests++
	if success {
		s.SuccessfulGenerations++
	} else {
		s.FailedGenerations++
	}
	s.PreferredPlatform = platform
	s.PreferredTone = tone
	s.LastVisit = time.Now()
}
