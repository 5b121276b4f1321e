package eino

import (
	"context"
	"errors"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/prometheus/client_golang/prometheus/testutil"

	llmctx "reelsbot-ai-api/internal/domain/service"
	"reelsbot-ai-api/pkg/metrics"
)

func TestChatModelCallbackHandlerRecordsMetrics(t *testing.T) {
	h := newChatModelCallbackHandler()
	ctx := llmctx.WithLLMCall(context.Background(), llmctx.LLMCallInfo{
		Workflow: "cb_test",
		Provider: "stub",
		Model:    "stub-model",
	})

	success := metrics.LLMCallTotal.WithLabelValues("cb_test", "stub", "stub-model", "success")
	failed := metrics.LLMCallTotal.WithLabelValues("cb_test", "stub", "stub-model", "error")
	prompt := metrics.LLMTokensUsed.WithLabelValues("cb_test", "stub", "stub-model", "prompt")
	beforeOK, beforeErr, beforePrompt := testutil.ToFloat64(success), testutil.ToFloat64(failed), testutil.ToFloat64(prompt)

	runCtx := h.OnStart(ctx, nil, &model.CallbackInput{Messages: []*schema.Message{schema.UserMessage("hi")}})
	if elapsedSeconds(runCtx) < 0 {
		t.Fatal("start time not recorded")
	}
	h.OnEnd(runCtx, nil, &model.CallbackOutput{
		TokenUsage: &model.TokenUsage{PromptTokens: 12, CompletionTokens: 3},
	})

	errCtx := h.OnStart(ctx, nil, &model.CallbackInput{})
	h.OnError(errCtx, nil, errors.New("boom"))

	if got := testutil.ToFloat64(success) - beforeOK; got != 1 {
		t.Errorf("success delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(failed) - beforeErr; got != 1 {
		t.Errorf("error delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(prompt) - beforePrompt; got != 12 {
		t.Errorf("prompt tokens delta = %v, want 12", got)
	}
}

func TestElapsedSecondsWithoutStart(t *testing.T) {
	if got := elapsedSeconds(context.Background()); got != 0 {
		t.Fatalf("elapsedSeconds = %v, want 0", got)
	}
}
