package generation

import (
	"context"
	"errors"
	"sync"
	"testing"

	"reelsbot-ai-api/internal/application/content"
	"reelsbot-ai-api/internal/domain/entity"
	"reelsbot-ai-api/internal/domain/repository"
	"reelsbot-ai-api/internal/infrastructure/messaging"
	apperrors "reelsbot-ai-api/pkg/errors"
)

type passthroughTx struct{}

func (passthroughTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type memRequests struct {
	mu    sync.Mutex
	items map[string]entity.GenerationRequest
}

func (r *memRequests) Create(_ context.Context, req *entity.GenerationRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.items == nil {
		r.items = map[string]entity.GenerationRequest{}
	}
	r.items[req.ID] = *req
	return nil
}

func (r *memRequests) GetByID(_ context.Context, id string) (*entity.GenerationRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	return &req, nil
}

func (r *memRequests) Update(ctx context.Context, req *entity.GenerationRequest) error {
	return r.Create(ctx, req)
}

type memScripts struct {
	mu    sync.Mutex
	items map[string]*entity.ContentScript
	err   error
}

func (s *memScripts) Create(_ context.Context, script *entity.ContentScript) error {
	if s.err != nil {
		return s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.items == nil {
		s.items = map[string]*entity.ContentScript{}
	}
	s.items[script.ID] = script
	return nil
}

func (s *memScripts) GetByID(_ context.Context, id string) (*entity.ContentScript, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items[id], nil
}

func (s *memScripts) List(_ context.Context, _ *repository.ScriptFilter, p repository.Pagination) (*repository.PagedResult[*entity.ContentScript], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var items []*entity.ContentScript
	for _, it := range s.items {
		items = append(items, it)
	}
	return repository.NewPagedResult(items, int64(len(items)), p), nil
}

type memSessions struct {
	mu    sync.Mutex
	items map[string]entity.Session
}

func (s *memSessions) GetByID(_ context.Context, id string) (*entity.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.items[id]
	if !ok {
		return nil, nil
	}
	return &sess, nil
}

func (s *memSessions) Save(_ context.Context, sess *entity.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.items == nil {
		s.items = map[string]entity.Session{}
	}
	s.items[sess.SessionID] = *sess
	return nil
}

type stubGenerator struct {
	rec   *content.Record
	err   error
	calls int
	brief content.Brief
}

func (g *stubGenerator) Generate(_ context.Context, brief content.Brief) (*content.Record, error) {
	g.calls++
	g.brief = brief
	if g.err != nil {
		return nil, g.err
	}
	return g.rec, nil
}

type stubPublisher struct {
	jobs []*messaging.ContentGenerateMessage
	err  error
}

func (p *stubPublisher) PublishContentGenerate(_ context.Context, job *messaging.ContentGenerateMessage) (string, error) {
	if p.err != nil {
		return "", p.err
	}
	p.jobs = append(p.jobs, job)
	return "1-0", nil
}

type fixture struct {
	svc       *Service
	requests  *memRequests
	scripts   *memScripts
	sessions  *memSessions
	gen       *stubGenerator
	publisher *stubPublisher
}

func newFixture() *fixture {
	f := &fixture{
		requests:  &memRequests{},
		scripts:   &memScripts{},
		sessions:  &memSessions{},
		publisher: &stubPublisher{},
		gen: &stubGenerator{rec: &content.Record{
			Hook:         "Stop scrolling",
			Storyline:    "A quick story",
			Script:       "One. Two.",
			Timestamps:   []content.TimestampSegment{{Start: 0, End: 2, Text: "One", Type: content.SegmentTypeNarration}},
			Hashtags:     []string{"coffee"},
			ModelUsed:    "gpt-4o",
			QualityScore: 7,
		}},
	}
	f.svc = NewService(passthroughTx{}, f.requests, f.scripts, f.sessions, f.gen, f.publisher)
	return f
}

func submitInput() *SubmitInput {
	return &SubmitInput{
		Brief: content.Brief{
			Topic:          "cold brew",
			Platform:       entity.PlatformTikTok,
			Tone:           "playful",
			TargetAudience: "students",
			IncludeMusic:   true,
			IncludeTrends:  true,
		},
		SessionID: "sess-1",
		UserIP:    "10.0.0.1",
		UserAgent: "test",
	}
}

func TestGenerateNowPersistsScript(t *testing.T) {
	f := newFixture()

	res, err := f.svc.GenerateNow(context.Background(), submitInput())
	if err != nil {
		t.Fatalf("GenerateNow: %v", err)
	}
	if res.Script == nil || res.Script.Hook != "Stop scrolling" || res.Script.QualityScore != 7 {
		t.Fatalf("script = %+v", res.Script)
	}
	if string(res.Script.Timestamps) == "" || res.Script.MusicSuggestions != nil {
		t.Errorf("timestamps = %s music = %s", res.Script.Timestamps, res.Script.MusicSuggestions)
	}

	req, _ := f.requests.GetByID(context.Background(), res.Request.ID)
	if req.Status != entity.RequestStatusSuccess || req.ContentScriptID == nil || *req.ContentScriptID != res.Script.ID {
		t.Errorf("request = %+v", req)
	}
	if req.Attempts != 1 {
		t.Errorf("attempts = %d", req.Attempts)
	}

	sess, _ := f.sessions.GetByID(context.Background(), "sess-1")
	if sess == nil || sess.TotalRequests != 1 || sess.SuccessfulGenerations != 1 || sess.PreferredPlatform != entity.PlatformTikTok {
		t.Errorf("session = %+v", sess)
	}
	if !f.gen.brief.IncludeTrends || f.gen.brief.Topic != "cold brew" {
		t.Errorf("brief = %+v", f.gen.brief)
	}
}

func TestGenerateNowRecordsFailure(t *testing.T) {
	f := newFixture()
	f.gen.err = &content.GenerationError{Kind: content.FailureBackend, Cause: "generation timed out", Retryable: true}

	res, err := f.svc.GenerateNow(context.Background(), submitInput())
	if _, ok := content.AsGenerationError(err); !ok {
		t.Fatalf("err = %v, want GenerationError", err)
	}
	if res == nil || res.Request == nil {
		t.Fatal("expected request in result")
	}

	req, _ := f.requests.GetByID(context.Background(), res.Request.ID)
	if req.Status != entity.RequestStatusFailed || req.FailureKind != "backend" || !req.Retryable || req.ErrorMessage != "generation timed out" {
		t.Errorf("request = %+v", req)
	}
	if len(f.scripts.items) != 0 {
		t.Error("no script should be stored on failure")
	}
	sess, _ := f.sessions.GetByID(context.Background(), "sess-1")
	if sess.FailedGenerations != 1 || sess.SuccessfulGenerations != 0 {
		t.Errorf("session = %+v", sess)
	}
}

func TestSubmitValidates(t *testing.T) {
	f := newFixture()
	in := submitInput()
	in.Brief.Topic = ""
	if _, err := f.svc.Submit(context.Background(), in); !errors.Is(err, apperrors.ErrInvalidParam) {
		t.Fatalf("err = %v", err)
	}
	if len(f.requests.items) != 0 {
		t.Error("invalid brief must not be persisted")
	}
}

func TestExecuteIsIdempotentAfterSuccess(t *testing.T) {
	f := newFixture()
	res, err := f.svc.GenerateNow(context.Background(), submitInput())
	if err != nil {
		t.Fatal(err)
	}

	again, err := f.svc.Execute(context.Background(), res.Request.ID)
	if err != nil {
		t.Fatal(err)
	}
	if f.gen.calls != 1 {
		t.Errorf("generator called %d times", f.gen.calls)
	}
	if again.Script.ID != res.Script.ID {
		t.Errorf("script id = %s, want %s", again.Script.ID, res.Script.ID)
	}
}

func TestExecuteUnknownRequest(t *testing.T) {
	f := newFixture()
	if _, err := f.svc.Execute(context.Background(), "missing"); !errors.Is(err, apperrors.ErrRequestNotFound) {
		t.Fatalf("err = %v", err)
	}
}

func TestEnqueue(t *testing.T) {
	t.Run("publishes job", func(t *testing.T) {
		f := newFixture()
		req, err := f.svc.Enqueue(context.Background(), submitInput())
		if err != nil {
			t.Fatal(err)
		}
		if req.Status != entity.RequestStatusPending {
			t.Errorf("status = %s", req.Status)
		}
		if len(f.publisher.jobs) != 1 || f.publisher.jobs[0].RequestID != req.ID || f.publisher.jobs[0].SessionID != "sess-1" {
			t.Errorf("jobs = %+v", f.publisher.jobs)
		}
		if f.gen.calls != 0 {
			t.Error("enqueue must not run the generator")
		}
	})

	t.Run("publish failure marks request failed", func(t *testing.T) {
		f := newFixture()
		f.publisher.err = errors.New("redis down")
		if _, err := f.svc.Enqueue(context.Background(), submitInput()); err == nil {
			t.Fatal("expected error")
		}
		for _, req := range f.requests.items {
			if req.Status != entity.RequestStatusFailed {
				t.Errorf("status = %s", req.Status)
			}
		}
	})

	t.Run("disabled without publisher", func(t *testing.T) {
		f := newFixture()
		svc := NewService(passthroughTx{}, f.requests, f.scripts, f.sessions, f.gen, nil)
		if _, err := svc.Enqueue(context.Background(), submitInput()); !errors.Is(err, apperrors.ErrServiceUnavailable) {
			t.Fatalf("err = %v", err)
		}
	})
}

func TestGetters(t *testing.T) {
	f := newFixture()
	if _, err := f.svc.GetScript(context.Background(), "nope"); !errors.Is(err, apperrors.ErrScriptNotFound) {
		t.Errorf("GetScript err = %v", err)
	}
	if _, err := f.svc.GetRequest(context.Background(), "nope"); !errors.Is(err, apperrors.ErrRequestNotFound) {
		t.Errorf("GetRequest err = %v", err)
	}

	res, err := f.svc.GenerateNow(context.Background(), submitInput())
	if err != nil {
		t.Fatal(err)
	}
	script, err := f.svc.GetScript(context.Background(), res.Script.ID)
	if err != nil || script.ID != res.Script.ID {
		t.Errorf("GetScript = %+v, %v", script, err)
	}
	page, err := f.svc.ListScripts(context.Background(), nil, repository.NewPagination(1, 10))
	if err != nil || page.Total != 1 {
		t.Errorf("ListScripts = %+v, %v", page, err)
	}
}
