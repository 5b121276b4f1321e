package content

import (
	"fmt"
	"strings"
	"testing"
)

func TestSynthesizeTimestampsContiguous(t *testing.T) {
	scripts := []string{
		"One. Two. Three.",
		"A single sentence without a period",
		"Short. " + strings.Repeat("x", 45) + ". " + strings.Repeat("y", 120) + ".",
		"..Leading dots.. and. . empty fragments...",
		"Café au lait, très bon. Ünïcödé sentences count runes.",
	}
	for _, s := range scripts {
		t.Run(s[:min(len(s), 20)], func(t *testing.T) {
			want := 0
			for _, part := range strings.Split(s, ".") {
				if strings.TrimSpace(part) != "" {
					want++
				}
			}
			segs := SynthesizeTimestamps(s)
			if len(segs) != want {
				t.Fatalf("segments = %d, want %d", len(segs), want)
			}
			if segs[0].Start != 0 {
				t.Errorf("first start = %d", segs[0].Start)
			}
			for i, seg := range segs {
				if seg.End <= seg.Start || seg.Text == "" || seg.Type != SegmentTypeNarration {
					t.Errorf("segment %d invalid: %+v", i, seg)
				}
				if i+1 < len(segs) && seg.End != segs[i+1].Start {
					t.Errorf("gap between %d and %d: %d != %d", i, i+1, seg.End, segs[i+1].Start)
				}
			}
		})
	}
}

func TestSegmentDuration(t *testing.T) {
	for _, n := range []int{1, 19, 20, 39, 40, 59, 60, 79, 80, 99, 500} {
		sentence := strings.Repeat("a", n)
		want := max(2, min(4, n/20))
		if got := segmentDuration(sentence); got != want {
			t.Errorf("len %d: duration %d, want %d", n, got, want)
		}
	}
	if got := segmentDuration(strings.Repeat("é", 60)); got != 3 {
		t.Errorf("rune length not used: %d (bytes %d)", got, len(strings.Repeat("é", 60)))
	}
}

func TestSynthesizeTimestampsEmpty(t *testing.T) {
	for _, s := range []string{"", "   ", "...", ". . ."} {
		segs := SynthesizeTimestamps(s)
		if segs == nil || len(segs) != 0 {
			t.Errorf("SynthesizeTimestamps(%q) = %v, want empty", s, segs)
		}
	}
}

func TestSynthesizeTimestampsLayout(t *testing.T) {
	segs := SynthesizeTimestamps("Hi. " + strings.Repeat("w", 65) + ". " + strings.Repeat("z", 90))
	got := fmt.Sprintf("%d-%d %d-%d %d-%d", segs[0].Start, segs[0].End, segs[1].Start, segs[1].End, segs[2].Start, segs[2].End)
	if got != "0-2 2-5 5-9" {
		t.Errorf("layout = %s", got)
	}
}
