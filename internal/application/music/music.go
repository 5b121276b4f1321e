// Package music 根据主题、语气和平台推荐背景音乐，曲库不可用时返回固定的兜底列表。
package music

import (
	"context"
	"errors"
	"strings"

	"reelsbot-ai-api/internal/domain/entity"
	"reelsbot-ai-api/pkg/logger"
	"reelsbot-ai-api/pkg/metrics"
)

// DefaultLimit 默认推荐数量
const DefaultLimit = 5

// 能量等级
const (
	EnergyLow    = "low"
	EnergyMedium = "medium"
	EnergyHigh   = "high"
)

const (
	minPopularity          = 20
	defaultMaxDurationMs   = 90_000
	maxFallbackSuggestions = 3
)

// ErrCatalogUnavailable 曲库未配置
var ErrCatalogUnavailable = errors.New("music catalog not configured")

// Suggestion 单条音乐推荐
type Suggestion struct {
	Name             string `json:"name"`
	Artist           string `json:"artist"`
	ExternalURL      string `json:"external_url"`
	PreviewURL       string `json:"preview_url"`
	DurationMs       int    `json:"duration_ms"`
	Popularity       int    `json:"popularity"`
	EnergyLevel      string `json:"energy_level"`
	PlatformSuitable string `json:"platform_suitable"`
	ToneMatch        string `json:"tone_match"`
	Note             string `json:"note,omitempty"`
}

// Track 曲库返回的单曲
type Track struct {
	Name        string
	Artists     []string
	ExternalURL string
	PreviewURL  string
	DurationMs  int
	Popularity  int
}

// Catalog 曲库检索端口
type Catalog interface {
	SearchTracks(ctx context.Context, query string, limit int) ([]Track, error)
}

// Suggester 音乐推荐
type Suggester struct {
	catalog Catalog
}

// NewSuggester 创建推荐器，catalog 为 nil 表示未配置凭证
func NewSuggester(catalog Catalog) *Suggester {
	return &Suggester{catalog: catalog}
}

// Suggest 返回最多 limit 条推荐。任何曲库问题都降级为兜底列表，不返回错误。
func (s *Suggester) Suggest(ctx context.Context, topic, tone string, platform entity.Platform, limit int) ([]Suggestion, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if s == nil || s.catalog == nil {
		logger.Warn(ctx, "music catalog not configured, using fallback suggestions")
		metrics.EnrichmentTotal.WithLabelValues("music", "fallback").Inc()
		return FallbackSuggestions(tone, platform), nil
	}

	features := featuresForTone(tone)
	query := BuildSearchQuery(topic, tone, platform)
	logger.Debug(ctx, "searching music catalog",
		"query", query,
		"energy", features.Energy,
		"valence", features.Valence,
		"tempo", features.Tempo,
	)

	tracks, err := s.catalog.SearchTracks(ctx, query, limit*2)
	if err != nil {
		logger.Warn(ctx, "music catalog search failed, using fallback suggestions", "error", err.Error())
		metrics.EnrichmentTotal.WithLabelValues("music", "fallback").Inc()
		return FallbackSuggestions(tone, platform), nil
	}

	suggestions := make([]Suggestion, 0, limit)
	for _, t := range tracks {
		if len(suggestions) >= limit {
			break
		}
		if !suitable(t, platform) {
			continue
		}
		suggestions = append(suggestions, Suggestion{
			Name:             t.Name,
			Artist:           strings.Join(t.Artists, ", "),
			ExternalURL:      t.ExternalURL,
			PreviewURL:       t.PreviewURL,
			DurationMs:       t.DurationMs,
			Popularity:       t.Popularity,
			EnergyLevel:      energyLevel(t.Popularity),
			PlatformSuitable: platform.String(),
			ToneMatch:        tone,
		})
	}

	if len(suggestions) == 0 {
		logger.Info(ctx, "no suitable tracks found, using fallback suggestions", "query", query)
		metrics.EnrichmentTotal.WithLabelValues("music", "fallback").Inc()
		return FallbackSuggestions(tone, platform), nil
	}

	metrics.EnrichmentTotal.WithLabelValues("music", "ok").Inc()
	logger.Info(ctx, "music suggestions found", "count", len(suggestions))
	return suggestions, nil
}

// suitable 时长、试听片段和热度过滤
func suitable(t Track, platform entity.Platform) bool {
	if t.DurationMs > maxDurationMs(platform) {
		return false
	}
	if t.PreviewURL == "" {
		return false
	}
	return t.Popularity >= minPopularity
}

func maxDurationMs(p entity.Platform) int {
	switch p {
	case entity.PlatformTikTok:
		return 60_000
	case entity.PlatformInstagram:
		return 90_000
	case entity.PlatformYouTube:
		return 120_000
	default:
		return defaultMaxDurationMs
	}
}

// energyLevel 以热度近似能量等级
func energyLevel(popularity int) string {
	switch {
	case popularity > 70:
		return EnergyHigh
	case popularity > 40:
		return EnergyMedium
	default:
		return EnergyLow
	}
}
