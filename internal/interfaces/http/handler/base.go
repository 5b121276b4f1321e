package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"reelsbot-ai-api/internal/application/content"
	"reelsbot-ai-api/internal/interfaces/http/dto"
	apperrors "reelsbot-ai-api/pkg/errors"
	"reelsbot-ai-api/pkg/logger"
)

// defaultRetryAfterSeconds 可重试错误建议的重试间隔
const defaultRetryAfterSeconds = 30

// respondError 将错误映射为 HTTP 响应：
// 生成失败按类别映射，应用错误按错误码映射，其余为 500
func respondError(ctx context.Context, c *gin.Context, msg string, err error) {
	if genErr, ok := content.AsGenerationError(err); ok {
		appErr := genErr.AppError()
		if appErr.HTTPStatus >= 500 {
			logger.Error(ctx, msg, err, "failure_kind", string(genErr.Kind))
		} else {
			logger.Warn(ctx, msg, "failure_kind", string(genErr.Kind), "cause", genErr.Cause)
		}
		dto.AppError(c, appErr, defaultRetryAfterSeconds)
		return
	}

	if apperrors.IsAppError(err) {
		appErr := apperrors.AsAppError(err)
		if appErr.HTTPStatus >= 500 {
			logger.Error(ctx, msg, err)
		}
		dto.AppError(c, appErr, defaultRetryAfterSeconds)
		return
	}

	logger.Error(ctx, msg, err)
	dto.InternalError(c, msg)
}

// bindingError 参数绑定失败
func bindingError(c *gin.Context, err error) {
	dto.ErrorWithDetail(c, 400, "invalid request", &dto.ErrorDetail{
		ErrorCode: string(apperrors.CodeInvalidParam),
		Details:   err.Error(),
	})
}
