// Package trend 提供平台趋势分析，结果用于丰富生成提示词。
package trend

import (
	"context"
	"fmt"
	"strings"
	"time"

	"reelsbot-ai-api/internal/domain/entity"
	"reelsbot-ai-api/pkg/logger"
	"reelsbot-ai-api/pkg/metrics"
)

const (
	maxHashtags         = 10
	maxTopics           = 5
	maxSampledForStats  = 5
	defaultMaxResults   = 10
	highEngagementRatio = 5.0
	midEngagementRatio  = 2.0
)

// Report 趋势分析结果
type Report struct {
	Hashtags        []string `json:"hashtags"`
	Topics          []string `json:"topics"`
	EngagementTips  string   `json:"engagement_tips"`
	TrendingAudio   []string `json:"trending_audio"`
	PopularCreators []string `json:"popular_creators"`
}

// Video 检索到的视频
type Video struct {
	ID          string
	Title       string
	Description string
}

// VideoStats 视频统计
type VideoStats struct {
	Views    uint64
	Likes    uint64
	Comments uint64
}

// VideoSource 视频平台数据源
type VideoSource interface {
	SearchShorts(ctx context.Context, query string, maxResults int64) ([]Video, error)
	Statistics(ctx context.Context, ids []string) ([]VideoStats, error)
}

// Cache 读穿缓存
type Cache interface {
	GetOrLoadSafe(ctx context.Context, key string, ttl time.Duration, loader func(ctx context.Context) (any, error)) ([]byte, error)
}

// Analyzer 趋势分析器
type Analyzer struct {
	youtube    VideoSource
	cache      Cache
	ttl        time.Duration
	maxResults int64
}

// NewAnalyzer 创建分析器，youtube 与 cache 均可为 nil
func NewAnalyzer(youtube VideoSource, cache Cache, ttl time.Duration, maxResults int64) *Analyzer {
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}
	return &Analyzer{youtube: youtube, cache: cache, ttl: ttl, maxResults: maxResults}
}

// Analyze 返回主题在平台上的趋势，失败时降级为生成的建议，不返回空结果
func (a *Analyzer) Analyze(ctx context.Context, topic string, platform entity.Platform) (*Report, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, fmt.Errorf("topic is required")
	}
	if a.cache == nil || a.ttl <= 0 {
		return a.analyze(ctx, topic, platform), nil
	}

	raw, err := a.cache.GetOrLoadSafe(ctx, cacheKey(topic, platform), a.ttl, func(ctx context.Context) (any, error) {
		return a.analyze(ctx, topic, platform), nil
	})
	if err != nil {
		logger.Warn(ctx, "trend cache unavailable", "error", err.Error())
		return a.analyze(ctx, topic, platform), nil
	}
	var report Report
	if err := unmarshalReport(raw, &report); err != nil {
		logger.Warn(ctx, "trend cache entry corrupted", "error", err.Error())
		return a.analyze(ctx, topic, platform), nil
	}
	return &report, nil
}

func (a *Analyzer) analyze(ctx context.Context, topic string, platform entity.Platform) (report *Report) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			logger.Error(ctx, "trend analysis failed", fmt.Errorf("panic: %v", r))
			metrics.EnrichmentTotal.WithLabelValues("trend", "fallback").Inc()
			report = failureReport(topic, platform)
		}
		metrics.EnrichmentDuration.WithLabelValues("trend").Observe(time.Since(start).Seconds())
	}()

	logger.Info(ctx, "analyzing trends", "topic", topic, "platform", platform.String())

	report = &Report{Hashtags: []string{}, Topics: []string{}, TrendingAudio: []string{}, PopularCreators: []string{}}
	var base *Report
	switch platform {
	case entity.PlatformYouTube:
		base = a.youtubeTrends(ctx, topic)
	case entity.PlatformTikTok:
		base = tiktokTrends(topic)
	case entity.PlatformInstagram:
		base = instagramTrends(topic)
	}
	if base != nil {
		report.Hashtags = append(report.Hashtags, base.Hashtags...)
		report.Topics = append(report.Topics, base.Topics...)
		report.EngagementTips = base.EngagementTips
	}

	report.Hashtags = append(report.Hashtags, GenerateHashtags(topic, platform)...)
	report.Hashtags = capDistinct(report.Hashtags, maxHashtags)
	report.Topics = capDistinct(report.Topics, maxTopics)

	metrics.EnrichmentTotal.WithLabelValues("trend", "ok").Inc()
	logger.Info(ctx, "trend analysis completed", "hashtags", len(report.Hashtags), "topics", len(report.Topics))
	return report
}

func (a *Analyzer) youtubeTrends(ctx context.Context, topic string) *Report {
	if a.youtube == nil {
		logger.Warn(ctx, "youtube api not configured, using placeholder trends")
		return youtubeFallback(topic)
	}

	videos, err := a.youtube.SearchShorts(ctx, topic+" shorts", a.maxResults)
	if err != nil {
		logger.Warn(ctx, "youtube search failed, using placeholder trends", "error", err.Error())
		return youtubeFallback(topic)
	}

	var tags, titles []string
	ids := make([]string, 0, len(videos))
	for _, v := range videos {
		tags = append(tags, ExtractHashtags(v.Title+" "+v.Description)...)
		if v.Title != "" {
			titles = append(titles, v.Title)
		}
		if v.ID != "" {
			ids = append(ids, v.ID)
		}
	}

	return &Report{
		Hashtags:       capDistinct(tags, maxHashtags),
		Topics:         capDistinct(titles, maxTopics),
		EngagementTips: a.engagementTip(ctx, ids),
	}
}

func (a *Analyzer) engagementTip(ctx context.Context, ids []string) string {
	const noData = "Focus on engaging thumbnails and clear titles"
	if len(ids) == 0 {
		return noData
	}
	if len(ids) > maxSampledForStats {
		ids = ids[:maxSampledForStats]
	}
	stats, err := a.youtube.Statistics(ctx, ids)
	if err != nil {
		logger.Warn(ctx, "youtube statistics failed", "error", err.Error())
		return noData
	}
	if len(stats) == 0 {
		return noData
	}
	return EngagementTip(stats)
}

// EngagementTip 根据 (点赞+评论)/播放 的百分比给出建议
func EngagementTip(stats []VideoStats) string {
	var views, interactions uint64
	for _, s := range stats {
		views += s.Views
		interactions += s.Likes + s.Comments
	}
	ratio := 0.0
	if views > 0 {
		ratio = float64(interactions) / float64(views) * 100
	}
	switch {
	case ratio > highEngagementRatio:
		return "High engagement content works well - focus on interactive elements"
	case ratio > midEngagementRatio:
		return "Moderate engagement - add call-to-actions and questions"
	default:
		return "Focus on hook optimization and audience retention"
	}
}

// ExtractHashtags 提取 #开头的词，去掉 # 并转小写
func ExtractHashtags(text string) []string {
	var tags []string
	for _, w := range strings.Fields(text) {
		if len(w) > 1 && strings.HasPrefix(w, "#") {
			tags = append(tags, strings.ToLower(w[1:]))
		}
	}
	return tags
}

func youtubeFallback(topic string) *Report {
	t := compact(topic)
	return &Report{
		Hashtags:       []string{t + "youtube", t + "shorts"},
		Topics:         []string{topic},
		EngagementTips: "Use engaging thumbnails and titles",
	}
}

func tiktokTrends(topic string) *Report {
	t := compact(topic)
	return &Report{
		Hashtags:       []string{t + "tiktok", t + "viral", "fyp", "foryou"},
		Topics:         []string{topic + " challenges", topic + " tips"},
		EngagementTips: "Use trending sounds, create engaging hooks, post at peak times",
	}
}

func instagramTrends(topic string) *Report {
	t := compact(topic)
	return &Report{
		Hashtags:       []string{t + "reels", t + "instagram", "reels", "trending"},
		Topics:         []string{topic + " content", topic + " ideas"},
		EngagementTips: "Use Instagram Reels features, add captions, use trending audio",
	}
}

func failureReport(topic string, platform entity.Platform) *Report {
	return &Report{
		Hashtags:        GenerateHashtags(topic, platform),
		Topics:          []string{topic},
		EngagementTips:  "Post during peak hours, use engaging captions, interact with comments",
		TrendingAudio:   []string{},
		PopularCreators: []string{},
	}
}

var platformHashtags = map[entity.Platform][]string{
	entity.PlatformInstagram: {"reels", "instagram", "viral", "trending", "explore"},
	entity.PlatformYouTube:   {"shorts", "youtube", "viral", "trending", "youtuber"},
	entity.PlatformTikTok:    {"tiktok", "fyp", "foryou", "viral", "trending"},
}

var generalHashtags = []string{"content", "creator", "socialmedia", "digital"}

// GenerateHashtags 基于主题与平台生成至多 10 个标签
func GenerateHashtags(topic string, platform entity.Platform) []string {
	t := compact(topic)
	tags := []string{t, t + "tips", t + "content"}
	tags = append(tags, platformHashtags[platform]...)
	tags = append(tags, generalHashtags...)
	if len(tags) > maxHashtags {
		tags = tags[:maxHashtags]
	}
	return tags
}

// compact 小写并去掉空格
func compact(topic string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(topic)), " ", "")
}

func capDistinct(items []string, n int) []string {
	out := make([]string, 0, min(len(items), n))
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		if it == "" {
			continue
		}
		if _, ok := seen[it]; ok {
			continue
		}
		seen[it] = struct{}{}
		out = append(out, it)
		if len(out) == n {
			break
		}
	}
	return out
}

func cacheKey(topic string, platform entity.Platform) string {
	return fmt.Sprintf("trend:%s:%s", platform, strings.Join(strings.Fields(strings.ToLower(topic)), " "))
}
