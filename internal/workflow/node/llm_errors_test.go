package node

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestIsRetryableLLMError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"deadline", fmt.Errorf("call: %w", context.DeadlineExceeded), true},
		{"canceled", context.Canceled, true},
		{"rate limit", errors.New("error, status code: 429, message: Rate limit reached"), true},
		{"server error", errors.New("status code: 503, service unavailable"), true},
		{"auth", errors.New("status code: 401, Incorrect API key provided"), false},
		{"bad request", errors.New("status code: 400, invalid model"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryableLLMError(tt.err); got != tt.want {
				t.Fatalf("IsRetryableLLMError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestIsResponseFormatUnsupportedError(t *testing.T) {
	if !IsResponseFormatUnsupportedError(errors.New("Invalid parameter: 'response_format' of type 'json_object' is not supported")) {
		t.Fatal("expected response_format error to be detected")
	}
	if IsResponseFormatUnsupportedError(errors.New("status code: 500")) {
		t.Fatal("unrelated error detected as response_format error")
	}
	if IsResponseFormatUnsupportedError(nil) {
		t.Fatal("nil error detected")
	}
}

func TestIsTimeoutError(t *testing.T) {
	if !IsTimeoutError(errors.New("Post \"https://api.openai.com\": net/http: request canceled (Client.Timeout exceeded)")) {
		t.Fatal("client timeout should be detected")
	}
	if IsTimeoutError(errors.New("invalid api key")) {
		t.Fatal("auth error is not a timeout")
	}
}
