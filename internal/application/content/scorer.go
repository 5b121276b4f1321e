package content

import "unicode/utf8"

const maxQualityScore = 10

// ScoreQuality 仅根据结构完整性打分，范围 [0, 10]
func ScoreQuality(rec *Record) int {
	if rec == nil {
		return 0
	}
	score := 0
	if utf8.RuneCountInString(rec.Hook) > 10 {
		score += 2
	}
	if utf8.RuneCountInString(rec.Storyline) > 20 {
		score += 2
	}
	if utf8.RuneCountInString(rec.Script) > 50 {
		score += 3
	}
	if len(rec.Hashtags) >= 3 {
		score += 2
	}
	if len(rec.Timestamps) > 0 {
		score++
	}
	return min(maxQualityScore, score)
}
