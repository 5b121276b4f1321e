package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"reelsbot-ai-api/internal/domain/entity"
)

// SessionRepository 会话统计仓储实现
type SessionRepository struct {
	client *Client
}

// NewSessionRepository 创建会话仓储
func NewSessionRepository(client *Client) *SessionRepository {
	return &SessionRepository{client: client}
}

// GetByID 获取会话
func (r *SessionRepository) GetByID(ctx context.Context, sessionID string) (*entity.Session, error) {
	ctx, span := tracer.Start(ctx, "postgres.SessionRepository.GetByID")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var session entity.Session
	if err := db.First(&session, "session_id = ?", sessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return &session, nil
}

// Save 创建或更新会话
func (r *SessionRepository) Save(ctx context.Context, session *entity.Session) error {
	ctx, span := tracer.Start(ctx, "postgres.SessionRepository.Save")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Save(session).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}
