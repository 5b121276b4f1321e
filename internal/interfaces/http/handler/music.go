package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"reelsbot-ai-api/internal/application/music"
	"reelsbot-ai-api/internal/domain/entity"
	"reelsbot-ai-api/internal/interfaces/http/dto"
)

// MusicSuggester 音乐推荐
type MusicSuggester interface {
	Suggest(ctx context.Context, topic, tone string, platform entity.Platform, limit int) ([]music.Suggestion, error)
}

// MusicHandler 音乐推荐处理器
type MusicHandler struct {
	suggester    MusicSuggester
	defaultLimit int
}

// NewMusicHandler 创建音乐推荐处理器
func NewMusicHandler(suggester MusicSuggester, defaultLimit int) *MusicHandler {
	if defaultLimit <= 0 {
		defaultLimit = 5
	}
	return &MusicHandler{suggester: suggester, defaultLimit: defaultLimit}
}

// GetSuggestions 获取背景音乐推荐
// @Summary 背景音乐推荐
// @Tags Music
// @Produce json
// @Param topic query string true "主题"
// @Param tone query string true "语气"
// @Param platform query string true "平台"
// @Param limit query int false "数量"
// @Success 200 {object} dto.Response[[]music.Suggestion]
// @Router /v1/music/suggestions [get]
func (h *MusicHandler) GetSuggestions(c *gin.Context) {
	ctx := c.Request.Context()

	var q dto.MusicQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindingError(c, err)
		return
	}
	limit := q.Limit
	if limit == 0 {
		limit = h.defaultLimit
	}

	suggestions, err := h.suggester.Suggest(ctx, q.Topic, q.Tone, entity.Platform(q.Platform), limit)
	if err != nil {
		respondError(ctx, c, "failed to suggest music", err)
		return
	}
	dto.Success(c, suggestions)
}
