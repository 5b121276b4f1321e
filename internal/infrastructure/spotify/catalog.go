// Package spotify 基于 Spotify Web API 的曲库检索
package spotify

import (
	"context"
	"fmt"
	"time"

	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2/clientcredentials"

	"reelsbot-ai-api/internal/application/music"
	"reelsbot-ai-api/internal/config"
)

// Catalog 实现 music.Catalog
type Catalog struct {
	client  *spotify.Client
	market  string
	timeout time.Duration
}

// NewCatalog 使用 client credentials 流程创建曲库客户端，未配置凭证时返回 nil
func NewCatalog(ctx context.Context, cfg config.SpotifyConfig) *Catalog {
	if !cfg.Configured() {
		return nil
	}
	creds := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     spotifyauth.TokenURL,
	}
	return newCatalog(spotify.New(creds.Client(ctx)), cfg.Market, cfg.Timeout)
}

func newCatalog(client *spotify.Client, market string, timeout time.Duration) *Catalog {
	return &Catalog{client: client, market: market, timeout: timeout}
}

// SearchTracks 按关键词检索单曲
func (c *Catalog) SearchTracks(ctx context.Context, query string, limit int) ([]music.Track, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	opts := []spotify.RequestOption{spotify.Limit(limit)}
	if c.market != "" {
		opts = append(opts, spotify.Market(c.market))
	}
	res, err := c.client.Search(ctx, query, spotify.SearchTypeTrack, opts...)
	if err != nil {
		return nil, fmt.Errorf("spotify search: %w", err)
	}
	if res == nil || res.Tracks == nil {
		return nil, nil
	}

	tracks := make([]music.Track, 0, len(res.Tracks.Tracks))
	for _, t := range res.Tracks.Tracks {
		artists := make([]string, 0, len(t.Artists))
		for _, a := range t.Artists {
			artists = append(artists, a.Name)
		}
		tracks = append(tracks, music.Track{
			Name:        t.Name,
			Artists:     artists,
			ExternalURL: t.ExternalURLs["spotify"],
			PreviewURL:  t.PreviewURL,
			DurationMs:  int(t.Duration),
			Popularity:  int(t.Popularity),
		})
	}
	return tracks, nil
}
