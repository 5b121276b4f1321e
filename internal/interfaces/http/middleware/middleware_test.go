package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"

	"reelsbot-ai-api/internal/config"
	"reelsbot-ai-api/internal/infrastructure/persistence/redis"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimitWithRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	limiter := redis.NewRateLimiter(redis.NewClientWithRedis(rdb, &config.RedisConfig{}))

	r := gin.New()
	r.Use(RateLimit(RateLimitConfig{Enabled: true, Requests: 2, Window: time.Minute}, limiter))
	r.GET("/v1/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 2; i++ {
		w := serve(r, httptest.NewRequest(http.MethodGet, "/v1/ping", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("request %d status = %d", i, w.Code)
		}
	}
	w := serve(r, httptest.NewRequest(http.MethodGet, "/v1/ping", nil))
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("third request status = %d", w.Code)
	}
	if w.Header().Get("Retry-After") != "60" || w.Header().Get("X-RateLimit-Remaining") != "0" {
		t.Errorf("headers = %v", w.Header())
	}
}

type failingLimiter struct{}

func (failingLimiter) Allow(context.Context, string, int, time.Duration) (bool, int, error) {
	return false, 0, errors.New("redis unavailable")
}

func TestRateLimitFailsOpen(t *testing.T) {
	r := gin.New()
	r.Use(RateLimit(RateLimitConfig{Enabled: true, Requests: 1, Window: time.Minute}, failingLimiter{}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	if w := serve(r, httptest.NewRequest(http.MethodGet, "/x", nil)); w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestRateLimitDisabled(t *testing.T) {
	r := gin.New()
	r.Use(RateLimit(RateLimitConfig{Enabled: false}, failingLimiter{}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/x", nil))
	if w.Code != http.StatusOK || w.Header().Get("X-RateLimit-Limit") != "" {
		t.Fatalf("status = %d headers = %v", w.Code, w.Header())
	}
}

func TestRequestIDAndSession(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), Session())
	var gotSession, gotRequest string
	r.GET("/x", func(c *gin.Context) {
		gotSession = GetSessionID(c)
		gotRequest = c.GetString("request_id")
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(SessionIDHeader, "  sess-42 ")
	w := serve(r, req)
	if gotSession != "sess-42" {
		t.Errorf("session = %q", gotSession)
	}
	if gotRequest == "" || w.Header().Get(RequestIDHeader) != gotRequest {
		t.Errorf("request id = %q header = %q", gotRequest, w.Header().Get(RequestIDHeader))
	}

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(RequestIDHeader, "client-id")
	serve(r, req)
	if gotRequest != "client-id" || gotSession != "" {
		t.Errorf("request id = %q session = %q", gotRequest, gotSession)
	}
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(Recovery())
	r.GET("/panic", func(*gin.Context) { panic("boom") })

	if w := serve(r, httptest.NewRequest(http.MethodGet, "/panic", nil)); w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", w.Code)
	}
}
