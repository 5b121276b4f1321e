package generation

import (
	"context"
	"errors"
	"testing"

	"reelsbot-ai-api/internal/application/content"
	"reelsbot-ai-api/internal/infrastructure/messaging"
)

func jobMessage(t *testing.T, requestID string) *messaging.Message {
	t.Helper()
	msg, err := messaging.NewMessage("m-1", messaging.MessageTypeContentGenerate, &messaging.ContentGenerateMessage{RequestID: requestID})
	if err != nil {
		t.Fatal(err)
	}
	return msg
}

func TestJobHandler(t *testing.T) {
	tests := []struct {
		name    string
		genErr  error
		wantErr bool
	}{
		{name: "success acks", wantErr: false},
		{name: "parse failure acks", genErr: &content.GenerationError{Kind: content.FailureParse, Cause: "empty"}, wantErr: false},
		{name: "retryable failure redelivers", genErr: &content.GenerationError{Kind: content.FailureBackend, Cause: "timed out", Retryable: true}, wantErr: true},
		{name: "non-retryable backend acks", genErr: &content.GenerationError{Kind: content.FailureBackend, Cause: "bad key"}, wantErr: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.gen.err = tt.genErr
			req, err := f.svc.Submit(context.Background(), submitInput())
			if err != nil {
				t.Fatal(err)
			}

			h := NewJobHandler(f.svc, 3)
			err = h.Handle(context.Background(), jobMessage(t, req.ID))
			if (err != nil) != tt.wantErr {
				t.Fatalf("Handle err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestJobHandlerStopsAfterMaxAttempts(t *testing.T) {
	f := newFixture()
	f.gen.err = &content.GenerationError{Kind: content.FailureBackend, Cause: "timed out", Retryable: true}
	req, err := f.svc.Submit(context.Background(), submitInput())
	if err != nil {
		t.Fatal(err)
	}

	h := NewJobHandler(f.svc, 2)
	msg := jobMessage(t, req.ID)
	if err := h.Handle(context.Background(), msg); err == nil {
		t.Fatal("first attempt should request redelivery")
	}
	if err := h.Handle(context.Background(), msg); err != nil {
		t.Fatalf("second attempt should ack, got %v", err)
	}
	if f.gen.calls != 2 {
		t.Errorf("generator calls = %d", f.gen.calls)
	}
}

func TestJobHandlerUnknownRequest(t *testing.T) {
	f := newFixture()
	if err := NewJobHandler(f.svc, 3).Handle(context.Background(), jobMessage(t, "missing")); err != nil {
		t.Fatalf("unknown request should be acked, got %v", err)
	}
}

func TestJobHandlerInfraErrorRedelivers(t *testing.T) {
	f := newFixture()
	f.scripts.err = errors.New("db down")
	req, err := f.svc.Submit(context.Background(), submitInput())
	if err != nil {
		t.Fatal(err)
	}
	if err := NewJobHandler(f.svc, 3).Handle(context.Background(), jobMessage(t, req.ID)); err == nil {
		t.Fatal("storage error should be redelivered")
	}
}
