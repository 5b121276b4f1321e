package generation

import (
	"context"
	"errors"

	"reelsbot-ai-api/internal/application/content"
	"reelsbot-ai-api/internal/infrastructure/messaging"
	apperrors "reelsbot-ai-api/pkg/errors"
	"reelsbot-ai-api/pkg/logger"
)

// JobHandler 消费异步生成任务
type JobHandler struct {
	service     *Service
	maxAttempts int
}

// NewJobHandler 创建任务处理器
func NewJobHandler(service *Service, maxAttempts int) *JobHandler {
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	return &JobHandler{service: service, maxAttempts: maxAttempts}
}

// Handle 实现 messaging.MessageHandler。返回错误时消息保留待重投。
func (h *JobHandler) Handle(ctx context.Context, msg *messaging.Message) error {
	var job messaging.ContentGenerateMessage
	if err := msg.UnmarshalPayload(&job); err != nil {
		logger.Error(ctx, "invalid content generate payload", err, "message_id", msg.ID)
		return nil
	}

	res, err := h.service.Execute(ctx, job.RequestID)
	if err == nil {
		logger.Info(ctx, "queued generation finished", "request_id", job.RequestID, "script_id", res.Script.ID)
		return nil
	}

	if errors.Is(err, apperrors.ErrRequestNotFound) {
		logger.Warn(ctx, "queued request not found", "request_id", job.RequestID)
		return nil
	}
	if genErr, ok := content.AsGenerationError(err); ok {
		if !genErr.Retryable {
			return nil
		}
		req, getErr := h.service.GetRequest(ctx, job.RequestID)
		if getErr == nil && !req.CanRetry(h.maxAttempts) {
			logger.Warn(ctx, "queued request exhausted retries", "request_id", job.RequestID, "attempts", req.Attempts)
			return nil
		}
		return err
	}
	// 存储等基础设施错误，交给队列重投
	return err
}
