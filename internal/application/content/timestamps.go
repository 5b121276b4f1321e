package content

import (
	"strings"
	"unicode/utf8"
)

const (
	minSegmentSeconds = 2
	maxSegmentSeconds = 4
	charsPerSecond    = 20
)

// SynthesizeTimestamps 按 "." 切分句子，依长度估算 2-4 秒并首尾相接排布
func SynthesizeTimestamps(script string) []TimestampSegment {
	segments := []TimestampSegment{}
	current := 0
	for _, part := range strings.Split(script, ".") {
		sentence := strings.TrimSpace(part)
		if sentence == "" {
			continue
		}
		d := segmentDuration(sentence)
		segments = append(segments, TimestampSegment{
			Start: current,
			End:   current + d,
			Text:  sentence,
			Type:  SegmentTypeNarration,
		})
		current += d
	}
	return segments
}

func segmentDuration(sentence string) int {
	d := utf8.RuneCountInString(sentence) / charsPerSecond
	return max(minSegmentSeconds, min(maxSegmentSeconds, d))
}
