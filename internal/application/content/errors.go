package content

import (
	"errors"

	apperrors "reelsbot-ai-api/pkg/errors"
)

// FailureKind 生成失败类别
type FailureKind string

const (
	FailureBackend       FailureKind = "backend"
	FailureParse         FailureKind = "parse"
	FailureConfiguration FailureKind = "configuration"
)

// GenerationError 流水线对外暴露的唯一失败类型
type GenerationError struct {
	Kind      FailureKind
	Cause     string
	Retryable bool
	Err       error
}

// Error 实现 error 接口
func (e *GenerationError) Error() string {
	return "content generation failed: " + e.Cause
}

// Unwrap 返回底层错误
func (e *GenerationError) Unwrap() error {
	return e.Err
}

// AppError 转换为带 HTTP 语义的应用错误
func (e *GenerationError) AppError() *apperrors.AppError {
	var appErr *apperrors.AppError
	switch {
	case e.Kind == FailureParse:
		appErr = apperrors.ErrParseFailed
	case e.Kind == FailureConfiguration:
		appErr = apperrors.ErrConfiguration
	case e.Retryable:
		appErr = apperrors.ErrLLMTimeout.AsRetryable()
	default:
		appErr = apperrors.ErrLLMCallFailed
	}
	return appErr.WithDetail(e.Cause).WithError(e.Err)
}

// AsGenerationError 从错误链中提取 GenerationError
func AsGenerationError(err error) (*GenerationError, bool) {
	var genErr *GenerationError
	if errors.As(err, &genErr) {
		return genErr, true
	}
	return nil, false
}

func newParseError(cause string, err error) *GenerationError {
	return &GenerationError{Kind: FailureParse, Cause: cause, Err: err}
}
