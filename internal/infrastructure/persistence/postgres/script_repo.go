package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"reelsbot-ai-api/internal/domain/entity"
	"reelsbot-ai-api/internal/domain/repository"
)

// ContentScriptRepository 内容脚本仓储实现
type ContentScriptRepository struct {
	client *Client
}

// NewContentScriptRepository 创建内容脚本仓储
func NewContentScriptRepository(client *Client) *ContentScriptRepository {
	return &ContentScriptRepository{client: client}
}

// Create 保存脚本
func (r *ContentScriptRepository) Create(ctx context.Context, script *entity.ContentScript) error {
	ctx, span := tracer.Start(ctx, "postgres.ContentScriptRepository.Create")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Create(script).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create content script: %w", err)
	}
	return nil
}

// GetByID 根据 ID 获取脚本
func (r *ContentScriptRepository) GetByID(ctx context.Context, id string) (*entity.ContentScript, error) {
	ctx, span := tracer.Start(ctx, "postgres.ContentScriptRepository.GetByID")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var script entity.ContentScript
	if err := db.First(&script, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get content script: %w", err)
	}
	return &script, nil
}

// List 分页获取脚本列表
func (r *ContentScriptRepository) List(ctx context.Context, filter *repository.ScriptFilter, pagination repository.Pagination) (*repository.PagedResult[*entity.ContentScript], error) {
	ctx, span := tracer.Start(ctx, "postgres.ContentScriptRepository.List")
	defer span.End()

	db := getDB(ctx, r.client.db)
	query := db.Model(&entity.ContentScript{})

	if filter != nil {
		if filter.Platform != "" {
			query = query.Where("platform = ?", filter.Platform)
		}
		if filter.Topic != "" {
			query = query.Where("topic ILIKE ?", "%"+filter.Topic+"%")
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to count content scripts: %w", err)
	}

	var scripts []*entity.ContentScript
	if err := query.Order("created_at DESC").
		Offset(pagination.Offset()).
		Limit(pagination.Limit()).
		Find(&scripts).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list content scripts: %w", err)
	}

	return repository.NewPagedResult(scripts, total, pagination), nil
}
