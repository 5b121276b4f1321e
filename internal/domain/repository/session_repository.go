package repository

import (
	"context"

	"reelsbot-ai-api/internal/domain/entity"
)

// SessionRepository 会话统计仓储接口
type SessionRepository interface {
	// GetByID 获取会话，不存在时返回 nil, nil
	GetByID(ctx context.Context, sessionID string) (*entity.Session, error)

	// Save 创建或更新会话
	Save(ctx context.Context, session *entity.Session) error
}
