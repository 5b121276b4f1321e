package repository

import (
	"context"

	"reelsbot-ai-api/internal/domain/entity"
)

// GenerationRequestRepository 生成请求仓储接口
type GenerationRequestRepository interface {
	// Create 创建请求记录
	Create(ctx context.Context, req *entity.GenerationRequest) error

	// GetByID 根据 ID 获取请求，不存在时返回 nil, nil
	GetByID(ctx context.Context, id string) (*entity.GenerationRequest, error)

	// Update 更新请求记录
	Update(ctx context.Context, req *entity.GenerationRequest) error
}
