// Package postgres 提供 PostgreSQL Repository 实现
package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"reelsbot-ai-api/internal/domain/entity"
)

// GenerationRequestRepository 生成请求仓储实现
type GenerationRequestRepository struct {
	client *Client
}

// NewGenerationRequestRepository 创建生成请求仓储
func NewGenerationRequestRepository(client *Client) *GenerationRequestRepository {
	return &GenerationRequestRepository{client: client}
}

// Create 创建请求记录
func (r *GenerationRequestRepository) Create(ctx context.Context, req *entity.GenerationRequest) error {
	ctx, span := tracer.Start(ctx, "postgres.GenerationRequestRepository.Create")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Create(req).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create generation request: %w", err)
	}
	return nil
}

// GetByID 根据 ID 获取请求
func (r *GenerationRequestRepository) GetByID(ctx context.Context, id string) (*entity.GenerationRequest, error) {
	ctx, span := tracer.Start(ctx, "postgres.GenerationRequestRepository.GetByID")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var req entity.GenerationRequest
	if err := db.First(&req, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get generation request: %w", err)
	}
	return &req, nil
}

// Update 更新请求记录
func (r *GenerationRequestRepository) Update(ctx context.Context, req *entity.GenerationRequest) error {
	ctx, span := tracer.Start(ctx, "postgres.GenerationRequestRepository.Update")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Save(req).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to update generation request: %w", err)
	}
	return nil
}
