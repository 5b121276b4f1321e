// Package youtube 基于 YouTube Data API v3 的趋势数据源
package youtube

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	yt "google.golang.org/api/youtube/v3"

	"reelsbot-ai-api/internal/application/trend"
)

// Source 实现 trend.VideoSource
type Source struct {
	svc *yt.Service
}

// NewSource 创建数据源，apiKey 为空时返回 nil
func NewSource(ctx context.Context, apiKey string, opts ...option.ClientOption) (*Source, error) {
	if apiKey == "" {
		return nil, nil
	}
	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	svc, err := yt.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create youtube service: %w", err)
	}
	return &Source{svc: svc}, nil
}

// SearchShorts 检索短视频，按相关度排序
func (s *Source) SearchShorts(ctx context.Context, query string, maxResults int64) ([]trend.Video, error) {
	resp, err := s.svc.Search.List([]string{"snippet"}).
		Q(query).
		Type("video").
		MaxResults(maxResults).
		Order("relevance").
		VideoDuration("short").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("youtube search: %w", err)
	}

	videos := make([]trend.Video, 0, len(resp.Items))
	for _, item := range resp.Items {
		v := trend.Video{}
		if item.Id != nil {
			v.ID = item.Id.VideoId
		}
		if item.Snippet != nil {
			v.Title = item.Snippet.Title
			v.Description = item.Snippet.Description
		}
		videos = append(videos, v)
	}
	return videos, nil
}

// Statistics 查询视频统计
func (s *Source) Statistics(ctx context.Context, ids []string) ([]trend.VideoStats, error) {
	resp, err := s.svc.Videos.List([]string{"statistics"}).Id(ids...).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("youtube videos: %w", err)
	}

	stats := make([]trend.VideoStats, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.Statistics == nil {
			continue
		}
		stats = append(stats, trend.VideoStats{
			Views:    item.Statistics.ViewCount,
			Likes:    item.Statistics.LikeCount,
			Comments: item.Statistics.CommentCount,
		})
	}
	return stats, nil
}
