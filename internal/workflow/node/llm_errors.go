package node

import (
	"context"
	"errors"
	"net"
	"regexp"
	"strings"
)

// retryableStatus 匹配错误信息中的 429/5xx 状态码
var retryableStatus = regexp.MustCompile(`\b(429|5\d\d)\b`)

// IsResponseFormatUnsupportedError 判断提供商是否不支持 response_format
func IsResponseFormatUnsupportedError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "response_format"):
		return true
	case strings.Contains(msg, "json_object") && strings.Contains(msg, "not supported"):
		return true
	case strings.Contains(msg, "unknown parameter") && strings.Contains(msg, "response"):
		return true
	case strings.Contains(msg, "response_mime_type"):
		return true
	default:
		return false
	}
}

// IsTimeoutError 判断是否为超时或取消
func IsTimeoutError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "timeout") || strings.Contains(msg, "deadline exceeded")
}

// IsRetryableLLMError 判断 LLM 调用错误是否值得调用方整体重试
func IsRetryableLLMError(err error) bool {
	if err == nil {
		return false
	}
	if IsTimeoutError(err) {
		return true
	}
	msg := strings.ToLower(err.Error())
	if retryableStatus.MatchString(msg) {
		return true
	}
	for _, marker := range []string{
		"rate limit", "rate_limit", "too many requests",
		"internal server error", "bad gateway", "service unavailable", "overloaded",
		"connection reset", "connection refused", "unexpected eof",
		"resource_exhausted", "unavailable",
	} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
