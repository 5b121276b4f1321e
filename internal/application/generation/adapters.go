package generation

import (
	"context"

	"reelsbot-ai-api/internal/application/content"
	"reelsbot-ai-api/internal/application/trend"
	"reelsbot-ai-api/internal/domain/entity"
)

// TrendAdapter 将趋势分析结果转换为提示词上下文
type TrendAdapter struct {
	analyzer *trend.Analyzer
}

// NewTrendAdapter 创建趋势适配器
func NewTrendAdapter(analyzer *trend.Analyzer) *TrendAdapter {
	return &TrendAdapter{analyzer: analyzer}
}

// TrendContext 实现 content.TrendSource
func (a *TrendAdapter) TrendContext(ctx context.Context, topic string, platform entity.Platform) (*content.TrendContext, error) {
	report, err := a.analyzer.Analyze(ctx, topic, platform)
	if err != nil {
		return nil, err
	}
	return &content.TrendContext{
		Hashtags:       report.Hashtags,
		Topics:         report.Topics,
		EngagementTips: report.EngagementTips,
	}, nil
}
