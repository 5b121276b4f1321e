package entity

import "testing"

func TestGenerationRequestLifecycle(t *testing.T) {
	r := NewGenerationRequest("id-1", "coffee", PlatformTikTok, "funny", "students")
	if r.Status != RequestStatusPending {
		t.Fatalf("status = %s, want pending", r.Status)
	}

	r.Start()
	if r.Status != RequestStatusRunning || r.StartedAt == nil || r.Attempts != 1 {
		t.Fatalf("after Start: status=%s started=%v attempts=%d", r.Status, r.StartedAt, r.Attempts)
	}

	r.Fail("backend", "timeout", true)
	if !r.Finished() || !r.CanRetry(3) {
		t.Fatalf("failed retryable request should be retryable: %+v", r)
	}
	if r.CanRetry(1) {
		t.Fatal("attempt budget exhausted, CanRetry should be false")
	}

	r.Start()
	if r.ErrorMessage != "" || r.Retryable {
		t.Fatalf("Start should clear previous failure: %+v", r)
	}
	r.Succeed("script-1")
	if r.Status != RequestStatusSuccess || r.ContentScriptID == nil || *r.ContentScriptID != "script-1" {
		t.Fatalf("after Succeed: %+v", r)
	}
	if r.CanRetry(5) {
		t.Fatal("successful request must not be retryable")
	}
}

func TestParsePlatform(t *testing.T) {
	tests := []struct {
		in   string
		want Platform
		ok   bool
	}{
		{"instagram", PlatformInstagram, true},
		{" TikTok ", PlatformTikTok, true},
		{"YouTube", PlatformYouTube, true},
		{"snapchat", Platform("snapchat"), false},
		{"", Platform(""), false},
	}
	for _, tt := range tests {
		got, ok := ParsePlatform(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParsePlatform(%q) = %q,%v want %q,%v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestSessionRecordOutcome(t *testing.T) {
	s := NewSession("s1", "127.0.0.1", "curl")
	s.RecordOutcome(PlatformInstagram, "calm", true)
	s.RecordOutcome(PlatformTikTok, "energetic", false)

	if s.TotalRequests != 2 || s.SuccessfulGenerations != 1 || s.FailedGenerations != 1 {
		t.Fatalf("counters = %d/%d/%d", s.TotalRequests, s.SuccessfulGenerations, s.FailedGenerations)
	}
	if s.PreferredPlatform != PlatformTikTok || s.PreferredTone != "energetic" {
		t.Fatalf("preferences = %s/%s", s.PreferredPlatform, s.PreferredTone)
	}
}
