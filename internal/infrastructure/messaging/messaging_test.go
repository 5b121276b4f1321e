package messaging

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"reelsbot-ai-api/pkg/logger"
)

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestCalculateBackoff(t *testing.T) {
	b := BackoffConfig{Initial: time.Second, Max: 5 * time.Second, Multiplier: 2}
	want := []time.Duration{time.Second, 2 * time.Second, 4 * time.Second, 5 * time.Second, 5 * time.Second}
	for i, w := range want {
		if got := b.CalculateBackoff(i); got != w {
			t.Errorf("retry %d: %v, want %v", i, got, w)
		}
	}
}

func TestPublishContentGenerate(t *testing.T) {
	rdb := newTestRedis(t)
	p := NewProducer(rdb, 100)

	ctx := logger.WithContext(context.Background(), logger.RequestIDKey, "http-req-1")
	id, err := p.PublishContentGenerate(ctx, &ContentGenerateMessage{RequestID: "req-1", SessionID: "sess-1"})
	if err != nil || id == "" {
		t.Fatalf("publish: %q %v", id, err)
	}

	entries, err := rdb.XRange(context.Background(), string(StreamContentGen), "-", "+").Result()
	if err != nil || len(entries) != 1 {
		t.Fatalf("entries = %v, err = %v", entries, err)
	}
	msg, err := decodeMessage(entries[0])
	if err != nil {
		t.Fatal(err)
	}
	if msg.Type != MessageTypeContentGenerate || msg.GetMetadata("request_id") != "http-req-1" || msg.GetMetadata("session_id") != "sess-1" {
		t.Errorf("message = %+v", msg)
	}
	var payload ContentGenerateMessage
	if err := msg.UnmarshalPayload(&payload); err != nil || payload.RequestID != "req-1" {
		t.Errorf("payload = %+v err = %v", payload, err)
	}
}

func TestConsumerDeliversAndAcks(t *testing.T) {
	rdb := newTestRedis(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c := NewConsumer(rdb, ConsumerConfig{
		Stream:       StreamContentGen,
		Group:        ContentWorkerGroup("test"),
		ConsumerName: "worker-1",
		BlockTimeout: 50 * time.Millisecond,
	})

	var (
		mu  sync.Mutex
		got []string
	)
	done := make(chan struct{}, 1)
	c.RegisterHandler(MessageTypeContentGenerate, func(_ context.Context, msg *Message) error {
		var payload ContentGenerateMessage
		if err := msg.UnmarshalPayload(&payload); err != nil {
			return err
		}
		mu.Lock()
		got = append(got, payload.RequestID)
		mu.Unlock()
		done <- struct{}{}
		return nil
	})
	if err := c.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer c.Stop()

	if _, err := NewProducer(rdb, 0).PublishContentGenerate(ctx, &ContentGenerateMessage{RequestID: "req-42"}); err != nil {
		t.Fatal(err)
	}

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("handler not invoked")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(got) != 1 || got[0] != "req-42" {
		t.Errorf("handled = %v", got)
	}
}

func TestConsumerLeavesFailedMessagePending(t *testing.T) {
	rdb := newTestRedis(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	group := ContentWorkerGroup("test")
	c := NewConsumer(rdb, ConsumerConfig{
		Stream:       StreamContentGen,
		Group:        group,
		ConsumerName: "worker-1",
		BlockTimeout: 50 * time.Millisecond,
		Backoff:      BackoffConfig{Initial: time.Hour, Max: time.Hour, Multiplier: 1},
	})
	called := make(chan struct{}, 4)
	c.RegisterHandler(MessageTypeContentGenerate, func(context.Context, *Message) error {
		called <- struct{}{}
		return errors.New("model unavailable")
	})
	if err := c.Start(ctx); err != nil {
		t.Fatal(err)
	}

	if _, err := NewProducer(rdb, 0).PublishContentGenerate(ctx, &ContentGenerateMessage{RequestID: "req-1"}); err != nil {
		t.Fatal(err)
	}
	select {
	case <-called:
	case <-time.After(3 * time.Second):
		t.Fatal("handler not invoked")
	}
	c.Stop()

	summary, err := rdb.XPending(context.Background(), string(StreamContentGen), string(group)).Result()
	if err != nil {
		t.Fatal(err)
	}
	if summary.Count != 1 {
		t.Errorf("pending = %d, want 1", summary.Count)
	}
}

func TestStartTwice(t *testing.T) {
	rdb := newTestRedis(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c := NewConsumer(rdb, ConsumerConfig{Stream: StreamContentGen, Group: "g", ConsumerName: "w", BlockTimeout: 20 * time.Millisecond})
	if err := c.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer c.Stop()
	if err := c.Start(ctx); err == nil {
		t.Fatal("expected error on second start")
	}
}
