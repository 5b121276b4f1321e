package content

import (
	"fmt"
	"strings"

	"reelsbot-ai-api/internal/domain/entity"
)

// platformSpecs 各平台的建议性规格说明
var platformSpecs = map[entity.Platform]string{
	entity.PlatformInstagram: `Instagram Reels Specifications:
- Duration: 15-90 seconds optimal
- Aspect ratio: 9:16 (vertical)
- Hook: First 3 seconds critical
- Text overlay: Keep minimal, use captions
- Trending audio: Essential for reach
- Hashtags: 3-5 targeted hashtags`,
	entity.PlatformYouTube: `YouTube Shorts Specifications:
- Duration: Up to 60 seconds
- Aspect ratio: 9:16 (vertical)
- Hook: First 5 seconds crucial
- Title: Include keywords
- Description: Brief but descriptive
- Hashtags: #Shorts + 2-3 relevant tags`,
	entity.PlatformTikTok: `TikTok Specifications:
- Duration: 15-60 seconds optimal
- Aspect ratio: 9:16 (vertical)
- Hook: First 3 seconds vital
- Trending sounds: Use popular audio
- Effects: Use trending effects
- Hashtags: Mix trending + niche hashtags`,
}

// PlatformSpecs 返回平台规格，未知平台按 Instagram 处理
func PlatformSpecs(p entity.Platform) string {
	if s, ok := platformSpecs[p]; ok {
		return s
	}
	return platformSpecs[entity.PlatformInstagram]
}

// TrendsBlock 渲染趋势上下文，未提供时返回空串
func TrendsBlock(t *TrendContext) string {
	if t == nil {
		return ""
	}
	tips := strings.TrimSpace(t.EngagementTips)
	if tips == "" {
		tips = "N/A"
	}
	return fmt.Sprintf("Current Trends:\n- Trending hashtags: %s\n- Popular topics: %s\n- Engagement patterns: %s",
		strings.Join(firstN(t.Hashtags, 5), ", "),
		strings.Join(firstN(t.Topics, 3), ", "),
		tips,
	)
}

func firstN(items []string, n int) []string {
	if len(items) <= n {
		return items
	}
	return items[:n]
}
