package content

import (
	"reflect"
	"strings"
	"testing"
)

func TestParseResponseJSON(t *testing.T) {
	rec, err := ParseResponse(`{"hook":"H","storyline":"S","script":"T","hashtags":["a","b"]}`)
	if err != nil {
		t.Fatalf("ParseResponse: %v", err)
	}
	if rec.Hook != "H" || rec.Storyline != "S" || rec.Script != "T" {
		t.Errorf("record = %+v", rec)
	}
	if !reflect.DeepEqual(rec.Hashtags, []string{"a", "b"}) {
		t.Errorf("hashtags = %v", rec.Hashtags)
	}
	if rec.Timestamps == nil || len(rec.Timestamps) != 0 {
		t.Errorf("timestamps = %v, want empty non-nil", rec.Timestamps)
	}
}

func TestParseResponseJSONVariants(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantTags []string
		wantHook string
	}{
		{"missing keys", `{"hook":"only"}`, []string{}, "only"},
		{"unknown keys ignored", `{"hook":"h","mood":"x","timestamps":[{"start":0}]}`, []string{}, "h"},
		{"hashtag string", `{"hook":"h","hashtags":"#Coffee, #brew #coffee"}`, []string{"coffee", "brew"}, "h"},
		{"hashtags with hash", `{"hashtags":["#One","two"]}`, []string{"one", "two"}, ""},
		{"leading whitespace", "  \n{\"hook\":\"h\"}", []string{}, "h"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := ParseResponse(tt.raw)
			if err != nil {
				t.Fatalf("ParseResponse: %v", err)
			}
			if rec.Hook != tt.wantHook {
				t.Errorf("hook = %q", rec.Hook)
			}
			if !reflect.DeepEqual(rec.Hashtags, tt.wantTags) {
				t.Errorf("hashtags = %#v, want %#v", rec.Hashtags, tt.wantTags)
			}
		})
	}
}

func TestParseResponseMalformedJSON(t *testing.T) {
	for _, raw := range []string{
		`{"hook": "H", "script": `,
		`{"hook": "H"} trailing`,
		`{"hashtags": 42}`,
	} {
		rec, err := ParseResponse(raw)
		if err == nil {
			t.Fatalf("ParseResponse(%q) expected error, got %+v", raw, rec)
		}
		genErr, ok := AsGenerationError(err)
		if !ok || genErr.Kind != FailureParse || genErr.Cause == "" {
			t.Errorf("error = %#v, want parse failure", err)
		}
	}
}

func TestParseResponseLabeled(t *testing.T) {
	rec, err := ParseResponse("HOOK: X\nSCRIPT: Y. Z.\nHASHTAGS: #a #b")
	if err != nil {
		t.Fatalf("ParseResponse: %v", err)
	}
	if rec.Hook != "X" || rec.Script != "Y. Z." {
		t.Errorf("record = %+v", rec)
	}
	if !reflect.DeepEqual(rec.Hashtags, []string{"a", "b"}) {
		t.Errorf("hashtags = %v", rec.Hashtags)
	}
	if got := SynthesizeTimestamps(rec.Script); len(got) != 2 {
		t.Errorf("segments = %d, want 2", len(got))
	}
}

func TestParseResponseLabeledMultiline(t *testing.T) {
	raw := `Sure! Here is your content.

**HOOK:** Stop scrolling!
You need this.

Storyline: A barista reveals
the secret to cold brew.

SCRIPT:
Step one, grind coarse.
Step two, steep overnight.

HASHTAGS:
#ColdBrew #coffee,
not a tag line
#Barista #coldbrew`

	rec, err := ParseResponse(raw)
	if err != nil {
		t.Fatalf("ParseResponse: %v", err)
	}
	if rec.Hook != "Stop scrolling! You need this." {
		t.Errorf("hook = %q", rec.Hook)
	}
	if rec.Storyline != "A barista reveals the secret to cold brew." {
		t.Errorf("storyline = %q", rec.Storyline)
	}
	if rec.Script != "Step one, grind coarse. Step two, steep overnight." {
		t.Errorf("script = %q", rec.Script)
	}
	if !reflect.DeepEqual(rec.Hashtags, []string{"coldbrew", "coffee", "barista"}) {
		t.Errorf("hashtags = %v", rec.Hashtags)
	}
}

func TestParseResponseLabeledTolerance(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"no labels", "just some chatter without structure"},
		{"empty", ""},
		{"only whitespace", " \n\t\n"},
		{"label without value", "HOOK:\nSTORYLINE:"},
		{"binary noise", "\x00\x01:\xff\nscript:\x00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := ParseResponse(tt.raw)
			if err != nil {
				t.Fatalf("text variant must not fail, got %v", err)
			}
			if rec.Hashtags == nil || rec.Timestamps == nil {
				t.Errorf("nil slices in %+v", rec)
			}
		})
	}
}

func TestParseResponseHashtagLabelInsideNarration(t *testing.T) {
	rec, _ := ParseResponse("SCRIPT: First line.\nremember the hashtags: they matter\n#one")
	if rec.Script != "First line." {
		t.Errorf("script = %q", rec.Script)
	}
	if !reflect.DeepEqual(rec.Hashtags, []string{"one"}) {
		t.Errorf("hashtags = %v", rec.Hashtags)
	}
}

func TestNormalizeHashtags(t *testing.T) {
	got := normalizeHashtags([]string{"#Coffee,", "coffee", " #Brew. ", "#", "##double", ""})
	want := []string{"coffee", "brew", "double"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
	for _, tag := range got {
		if strings.HasPrefix(tag, "#") || tag != strings.ToLower(tag) {
			t.Errorf("tag %q not normalized", tag)
		}
	}
}
