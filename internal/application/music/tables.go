package music

import (
	"strings"

	"reelsbot-ai-api/internal/domain/entity"
)

type toneKeywords struct {
	tone     string
	keywords []string
}

// toneKeywordTable 按顺序匹配，第一个命中的语气生效
var toneKeywordTable = []toneKeywords{
	{"energetic", []string{"upbeat", "energy", "pump"}},
	{"calm", []string{"chill", "ambient", "peaceful"}},
	{"happy", []string{"happy", "joyful", "uplifting"}},
	{"sad", []string{"melancholy", "emotional", "slow"}},
	{"motivational", []string{"motivational", "inspiring", "powerful"}},
	{"funny", []string{"fun", "comedy", "playful"}},
	{"professional", []string{"corporate", "business", "clean"}},
	{"casual", []string{"casual", "everyday", "simple"}},
}

var platformKeywords = map[entity.Platform][]string{
	entity.PlatformTikTok:    {"viral", "trending", "popular"},
	entity.PlatformInstagram: {"trendy", "lifestyle", "modern"},
	entity.PlatformYouTube:   {"background", "intro", "outro"},
}

// FeatureRange 闭区间
type FeatureRange struct {
	Min float64
	Max float64
}

// AudioFeatures 语气对应的音频特征目标区间
type AudioFeatures struct {
	Energy  FeatureRange
	Valence FeatureRange
	Tempo   FeatureRange
}

type toneFeatures struct {
	tone     string
	features AudioFeatures
}

var toneFeatureTable = []toneFeatures{
	{"energetic", AudioFeatures{FeatureRange{0.7, 1.0}, FeatureRange{0.6, 1.0}, FeatureRange{120, 180}}},
	{"calm", AudioFeatures{FeatureRange{0.0, 0.4}, FeatureRange{0.3, 0.7}, FeatureRange{60, 100}}},
	{"happy", AudioFeatures{FeatureRange{0.5, 1.0}, FeatureRange{0.7, 1.0}, FeatureRange{100, 160}}},
	{"sad", AudioFeatures{FeatureRange{0.0, 0.5}, FeatureRange{0.0, 0.3}, FeatureRange{60, 100}}},
	{"motivational", AudioFeatures{FeatureRange{0.6, 1.0}, FeatureRange{0.5, 1.0}, FeatureRange{110, 170}}},
	{"relaxed", AudioFeatures{FeatureRange{0.0, 0.5}, FeatureRange{0.4, 0.8}, FeatureRange{70, 110}}},
	{"upbeat", AudioFeatures{FeatureRange{0.7, 1.0}, FeatureRange{0.6, 1.0}, FeatureRange{120, 180}}},
	{"chill", AudioFeatures{FeatureRange{0.2, 0.6}, FeatureRange{0.4, 0.7}, FeatureRange{80, 120}}},
}

var defaultFeatures = AudioFeatures{FeatureRange{0.3, 0.7}, FeatureRange{0.3, 0.7}, FeatureRange{90, 130}}

// featuresForTone 双向子串匹配，未命中返回中间值
func featuresForTone(tone string) AudioFeatures {
	t := strings.ToLower(strings.TrimSpace(tone))
	if t == "" {
		return defaultFeatures
	}
	for _, tf := range toneFeatureTable {
		if strings.Contains(t, tf.tone) || strings.Contains(tf.tone, t) {
			return tf.features
		}
	}
	return defaultFeatures
}

// BuildSearchQuery 主题 + 至多两个语气关键词 + 一个平台关键词
func BuildSearchQuery(topic, tone string, platform entity.Platform) string {
	parts := []string{strings.TrimSpace(topic)}
	t := strings.ToLower(tone)
	for _, tk := range toneKeywordTable {
		if strings.Contains(t, tk.tone) {
			parts = append(parts, tk.keywords[:2]...)
			break
		}
	}
	if kw, ok := platformKeywords[platform]; ok {
		parts = append(parts, kw[0])
	}
	return strings.Join(parts, " ")
}

type fallbackTrack struct {
	name   string
	energy string
}

type toneFallback struct {
	tone   string
	tracks []fallbackTrack
}

var toneFallbackTable = []toneFallback{
	{"energetic", []fallbackTrack{{"High Energy Beat", EnergyHigh}, {"Pump Up Track", EnergyHigh}}},
	{"calm", []fallbackTrack{{"Peaceful Ambient", EnergyLow}, {"Gentle Background", EnergyLow}}},
	{"happy", []fallbackTrack{{"Joyful Melody", EnergyMedium}, {"Uplifting Tune", EnergyMedium}}},
}

const fallbackNote = "Music catalog not available - generic suggestion"

// FallbackSuggestions 确定性的兜底列表：一条通用推荐加至多两条语气匹配推荐
func FallbackSuggestions(tone string, platform entity.Platform) []Suggestion {
	base := Suggestion{
		Name:             "Upbeat Background Track",
		Artist:           "Generic Artist",
		DurationMs:       60_000,
		Popularity:       50,
		EnergyLevel:      EnergyMedium,
		PlatformSuitable: platform.String(),
		ToneMatch:        tone,
		Note:             fallbackNote,
	}
	out := []Suggestion{base}

	t := strings.ToLower(tone)
	for _, tf := range toneFallbackTable {
		if !strings.Contains(t, tf.tone) {
			continue
		}
		for _, ft := range tf.tracks {
			s := base
			s.Name = ft.name
			s.EnergyLevel = ft.energy
			out = append(out, s)
		}
		break
	}
	if len(out) > maxFallbackSuggestions {
		out = out[:maxFallbackSuggestions]
	}
	return out
}
