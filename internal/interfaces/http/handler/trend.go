package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"reelsbot-ai-api/internal/application/trend"
	"reelsbot-ai-api/internal/domain/entity"
	"reelsbot-ai-api/internal/interfaces/http/dto"
)

// TrendAnalyzer 趋势分析
type TrendAnalyzer interface {
	Analyze(ctx context.Context, topic string, platform entity.Platform) (*trend.Report, error)
	Insights(topic string, platform entity.Platform) *trend.Insights
}

// TrendHandler 趋势处理器
type TrendHandler struct {
	analyzer TrendAnalyzer
}

// NewTrendHandler 创建趋势处理器
func NewTrendHandler(analyzer TrendAnalyzer) *TrendHandler {
	return &TrendHandler{analyzer: analyzer}
}

// GetTrends 获取平台趋势
// @Summary 平台趋势分析
// @Tags Trends
// @Produce json
// @Param topic query string true "主题"
// @Param platform query string true "平台"
// @Success 200 {object} dto.Response[trend.Report]
// @Router /v1/trends [get]
func (h *TrendHandler) GetTrends(c *gin.Context) {
	ctx := c.Request.Context()

	var q dto.TrendQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindingError(c, err)
		return
	}

	report, err := h.analyzer.Analyze(ctx, q.Topic, entity.Platform(q.Platform))
	if err != nil {
		respondError(ctx, c, "failed to analyze trends", err)
		return
	}
	dto.Success(c, report)
}

// GetInsights 获取平台内容建议
// @Summary 平台内容建议
// @Tags Trends
// @Produce json
// @Param topic query string true "主题"
// @Param platform query string true "平台"
// @Success 200 {object} dto.Response[trend.Insights]
// @Router /v1/trends/insights [get]
func (h *TrendHandler) GetInsights(c *gin.Context) {
	var q dto.TrendQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindingError(c, err)
		return
	}
	dto.Success(c, h.analyzer.Insights(q.Topic, entity.Platform(q.Platform)))
}
