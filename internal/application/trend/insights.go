package trend

import (
	"encoding/json"

	"reelsbot-ai-api/internal/domain/entity"
)

// Insights 内容策略建议
type Insights struct {
	SuccessfulFormats    []string `json:"successful_formats"`
	OptimalTiming        string   `json:"optimal_timing"`
	EngagementStrategies []string `json:"engagement_strategies"`
}

var optimalTiming = map[entity.Platform]string{
	entity.PlatformInstagram: "6-9 PM weekdays",
	entity.PlatformYouTube:   "2-4 PM weekdays",
	entity.PlatformTikTok:    "6-10 PM weekdays",
}

// Insights 返回静态的格式、发布时间与互动策略建议
func (a *Analyzer) Insights(topic string, platform entity.Platform) *Insights {
	timing, ok := optimalTiming[platform]
	if !ok {
		timing = "Evening hours"
	}
	return &Insights{
		SuccessfulFormats: []string{
			"How-to tutorials",
			"Behind-the-scenes content",
			"Quick tips and tricks",
			"Before/after transformations",
		},
		OptimalTiming: timing,
		EngagementStrategies: []string{
			"Ask questions in captions",
			"Use call-to-action",
			"Create interactive content",
			"Respond to comments quickly",
		},
	}
}

func unmarshalReport(raw []byte, r *Report) error {
	return json.Unmarshal(raw, r)
}
