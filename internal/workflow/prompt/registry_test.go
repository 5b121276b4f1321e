package prompt

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

type fakeStore struct {
	mu    sync.Mutex
	texts map[string]string
	err   error
	reads int
}

func (s *fakeStore) Read(kind, platform string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads++
	if s.err != nil {
		return "", false, s.err
	}
	text, ok := s.texts[kind+"_"+platform]
	return text, ok, nil
}

func TestRegistryTemplateLookupOrder(t *testing.T) {
	store := &fakeStore{texts: map[string]string{
		"content_generation_tiktok":  "tiktok specific {topic}",
		"content_generation_general": "general {topic}",
	}}
	r := NewRegistry(store)
	ctx := context.Background()

	if got := r.Template(ctx, KindContentGeneration, "tiktok"); got != "tiktok specific {topic}" {
		t.Errorf("exact match: got %q", got)
	}
	if got := r.Template(ctx, KindContentGeneration, "youtube"); got != "general {topic}" {
		t.Errorf("general fallback: got %q", got)
	}
	if got := r.Template(ctx, KindHookGeneration, "youtube"); got != defaultTemplate(KindHookGeneration) {
		t.Errorf("built-in default: got %q", got)
	}
	if got := r.Template(ctx, Kind("caption_generation"), "instagram"); got != genericFallback {
		t.Errorf("unknown kind: got %q", got)
	}
}

func TestRegistryCachesPerPair(t *testing.T) {
	store := &fakeStore{texts: map[string]string{"content_generation_tiktok": "v1 {topic}"}}
	r := NewRegistry(store)
	ctx := context.Background()

	first := r.Template(ctx, KindContentGeneration, "tiktok")
	store.mu.Lock()
	store.texts["content_generation_tiktok"] = "v2 {topic}"
	readsAfterFirst := store.reads
	store.mu.Unlock()

	second := r.Template(ctx, KindContentGeneration, "tiktok")
	if first != second {
		t.Fatalf("cached template changed: %q -> %q", first, second)
	}
	if store.reads != readsAfterFirst {
		t.Fatalf("store read again after caching: %d -> %d", readsAfterFirst, store.reads)
	}
}

func TestRegistryReadErrorDegradesToDefault(t *testing.T) {
	r := NewRegistry(&fakeStore{err: errors.New("permission denied")})
	got := r.Template(context.Background(), KindContentGeneration, "instagram")
	if got != defaultTemplate(KindContentGeneration) {
		t.Fatalf("got %q, want built-in default", got)
	}
}

func TestRegistryNeverEmpty(t *testing.T) {
	r := NewRegistry(nil)
	kinds := []Kind{KindContentGeneration, KindHookGeneration, KindHashtagGeneration, "", "whatever"}
	platforms := []string{"instagram", "youtube", "tiktok", "general", "", "myspace"}
	for _, k := range kinds {
		for _, p := range platforms {
			if strings.TrimSpace(r.Template(context.Background(), k, p)) == "" {
				t.Errorf("empty template for (%q, %q)", k, p)
			}
		}
	}
}

func TestRegistryConcurrentReads(t *testing.T) {
	r := NewRegistry(&fakeStore{texts: map[string]string{}})
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = r.Template(context.Background(), KindContentGeneration, "tiktok")
		}()
	}
	wg.Wait()
}

func TestRegistryRender(t *testing.T) {
	vars := map[string]any{
		VarTopic:                  "cold brew",
		VarPlatform:               "tiktok",
		VarTone:                   "playful",
		VarTargetAudience:         "students",
		VarAdditionalRequirements: "None",
		VarTrendsData:             "",
		VarPlatformSpecs:          "- Duration: 15-60 seconds optimal",
	}

	t.Run("default content template", func(t *testing.T) {
		r := NewRegistry(nil)
		out, err := r.Render(context.Background(), KindContentGeneration, "tiktok", vars)
		if err != nil {
			t.Fatalf("Render: %v", err)
		}
		for _, want := range []string{`video about "cold brew"`, "Tone: playful", "Duration: 15-60 seconds"} {
			if !strings.Contains(out, want) {
				t.Errorf("rendered prompt missing %q", want)
			}
		}
		if strings.Contains(out, "{topic}") {
			t.Error("placeholder left unrendered")
		}
	})

	t.Run("broken stored template falls back", func(t *testing.T) {
		r := NewRegistry(&fakeStore{texts: map[string]string{
			"content_generation_tiktok": "Use {unknown_placeholder} for {topic}",
		}})
		out, err := r.Render(context.Background(), KindContentGeneration, "tiktok", vars)
		if err != nil {
			t.Fatalf("Render: %v", err)
		}
		if !strings.Contains(out, "HOOK (First 3-5 seconds):") {
			t.Errorf("expected built-in default, got %q", out)
		}
	})

	t.Run("generic fallback", func(t *testing.T) {
		r := NewRegistry(nil)
		out, err := r.Render(context.Background(), Kind("unknown"), "youtube", vars)
		if err != nil {
			t.Fatalf("Render: %v", err)
		}
		want := "Generate content about cold brew for tiktok with playful tone targeting students."
		if out != want {
			t.Errorf("got %q, want %q", out, want)
		}
	})
}

func TestFileStore(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "hook_generation_tiktok.txt"), []byte("hooks for {topic}"), 0o644); err != nil {
		t.Fatal(err)
	}
	s := NewFileStore(dir)

	text, found, err := s.Read("hook_generation", "tiktok")
	if err != nil || !found || text != "hooks for {topic}" {
		t.Fatalf("Read existing = %q,%v,%v", text, found, err)
	}

	_, found, err = s.Read("hook_generation", "youtube")
	if err != nil || found {
		t.Fatalf("Read missing = found %v err %v", found, err)
	}

	_, found, err = s.Read("../secrets", "tiktok")
	if err != nil || found {
		t.Fatalf("path traversal should be treated as not found, got found=%v err=%v", found, err)
	}
}
