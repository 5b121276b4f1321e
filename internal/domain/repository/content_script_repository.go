package repository

import (
	"context"

	"reelsbot-ai-api/internal/domain/entity"
)

// ScriptFilter 脚本过滤条件
type ScriptFilter struct {
	Platform entity.Platform
	Topic    string
}

// ContentScriptRepository 内容脚本仓储接口
type ContentScriptRepository interface {
	// Create 保存生成的脚本
	Create(ctx context.Context, script *entity.ContentScript) error

	// GetByID 根据 ID 获取脚本，不存在时返回 nil, nil
	GetByID(ctx context.Context, id string) (*entity.ContentScript, error)

	// List 分页获取脚本列表，按创建时间倒序
	List(ctx context.Context, filter *ScriptFilter, pagination Pagination) (*PagedResult[*entity.ContentScript], error)
}
