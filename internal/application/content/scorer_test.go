package content

import "testing"

func TestScoreQuality(t *testing.T) {
	full := &Record{
		Hook:       "Great hook that's long enough",
		Storyline:  "A storyline that is definitely long",
		Script:     "This script has more than fifty characters in it for sure.",
		Hashtags:   []string{"a", "b", "c"},
		Timestamps: []TimestampSegment{{Start: 0, End: 2, Text: "x", Type: SegmentTypeNarration}},
	}

	tests := []struct {
		name string
		rec  *Record
		want int
	}{
		{"complete", full, 10},
		{"empty", newRecord(), 0},
		{"nil", nil, 0},
		{"boundaries not exceeded", &Record{Hook: "0123456789", Storyline: "01234567890123456789", Hashtags: []string{"a", "b"}}, 0},
		{"hook only", &Record{Hook: "01234567890"}, 2},
		{"script and timestamps", &Record{Script: full.Script, Timestamps: full.Timestamps}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScoreQuality(tt.rec)
			if got != tt.want {
				t.Errorf("score = %d, want %d", got, tt.want)
			}
			if got < 0 || got > 10 {
				t.Errorf("score %d out of range", got)
			}
		})
	}
}
