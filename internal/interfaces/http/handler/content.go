// Package handler 提供 HTTP 请求处理器
package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"reelsbot-ai-api/internal/application/generation"
	"reelsbot-ai-api/internal/domain/entity"
	"reelsbot-ai-api/internal/domain/repository"
	"reelsbot-ai-api/internal/interfaces/http/dto"
	"reelsbot-ai-api/internal/interfaces/http/middleware"
)

// ContentService 内容生成服务
type ContentService interface {
	GenerateNow(ctx context.Context, in *generation.SubmitInput) (*generation.Result, error)
	Enqueue(ctx context.Context, in *generation.SubmitInput) (*entity.GenerationRequest, error)
	GetScript(ctx context.Context, id string) (*entity.ContentScript, error)
	GetRequest(ctx context.Context, id string) (*entity.GenerationRequest, error)
	ListScripts(ctx context.Context, filter *repository.ScriptFilter, pagination repository.Pagination) (*repository.PagedResult[*entity.ContentScript], error)
}

// ContentHandler 内容生成处理器
type ContentHandler struct {
	svc ContentService
}

// NewContentHandler 创建内容生成处理器
func NewContentHandler(svc ContentService) *ContentHandler {
	return &ContentHandler{svc: svc}
}

// Generate 同步生成脚本
// @Summary 生成短视频脚本
// @Tags Content
// @Accept json
// @Produce json
// @Param body body dto.GenerateContentRequest true "生成参数"
// @Success 200 {object} dto.Response[dto.GenerateContentResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse "模型输出不可用"
// @Failure 502 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse "可重试"
// @Router /v1/content/generate [post]
func (h *ContentHandler) Generate(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.GenerateContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	res, err := h.svc.GenerateNow(ctx, submitInput(c, &req))
	if err != nil {
		respondError(ctx, c, "content generation failed", err)
		return
	}

	dto.Success(c, &dto.GenerateContentResponse{
		RequestID:      res.Request.ID,
		ScriptID:       res.Script.ID,
		Content:        dto.ToContentScriptResponse(res.Script),
		GenerationTime: res.GenerationTime,
	})
}

// GenerateAsync 异步提交生成请求
// @Summary 异步生成短视频脚本
// @Tags Content
// @Accept json
// @Produce json
// @Param body body dto.GenerateContentRequest true "生成参数"
// @Success 202 {object} dto.Response[dto.EnqueueContentResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /v1/content/generate/async [post]
func (h *ContentHandler) GenerateAsync(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.GenerateContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	genReq, err := h.svc.Enqueue(ctx, submitInput(c, &req))
	if err != nil {
		respondError(ctx, c, "failed to enqueue content generation", err)
		return
	}

	dto.Accepted(c, &dto.EnqueueContentResponse{
		RequestID: genReq.ID,
		Status:    string(genReq.Status),
	})
}

// GetScript 获取脚本
// @Summary 获取生成的脚本
// @Tags Content
// @Produce json
// @Param id path string true "脚本 ID"
// @Success 200 {object} dto.Response[dto.ContentScriptResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/content/scripts/{id} [get]
func (h *ContentHandler) GetScript(c *gin.Context) {
	ctx := c.Request.Context()

	script, err := h.svc.GetScript(ctx, dto.BindID(c))
	if err != nil {
		respondError(ctx, c, "failed to get content script", err)
		return
	}
	dto.Success(c, dto.ToContentScriptResponse(script))
}

// ListScripts 分页获取脚本
// @Summary 脚本列表
// @Tags Content
// @Produce json
// @Param platform query string false "平台"
// @Param topic query string false "主题关键字"
// @Success 200 {object} dto.Response[[]dto.ContentScriptResponse]
// @Router /v1/content/scripts [get]
func (h *ContentHandler) ListScripts(c *gin.Context) {
	ctx := c.Request.Context()
	pagination := dto.BindPagination(c)

	filter := &repository.ScriptFilter{Topic: c.Query("topic")}
	if raw := c.Query("platform"); raw != "" {
		p, ok := entity.ParsePlatform(raw)
		if !ok {
			dto.BadRequest(c, "unsupported platform")
			return
		}
		filter.Platform = p
	}

	res, err := h.svc.ListScripts(ctx, filter, pagination)
	if err != nil {
		respondError(ctx, c, "failed to list content scripts", err)
		return
	}
	dto.SuccessWithPage(c, dto.ToContentScriptResponses(res.Items),
		dto.NewPageMeta(res.Page, res.PageSize, res.Total, res.TotalPages))
}

// GetRequest 获取生成请求状态
// @Summary 获取生成请求状态
// @Tags Content
// @Produce json
// @Param id path string true "请求 ID"
// @Success 200 {object} dto.Response[dto.GenerationRequestResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/content/requests/{id} [get]
func (h *ContentHandler) GetRequest(c *gin.Context) {
	ctx := c.Request.Context()

	req, err := h.svc.GetRequest(ctx, dto.BindID(c))
	if err != nil {
		respondError(ctx, c, "failed to get generation request", err)
		return
	}
	dto.Success(c, dto.ToGenerationRequestResponse(req))
}

func submitInput(c *gin.Context, req *dto.GenerateContentRequest) *generation.SubmitInput {
	return &generation.SubmitInput{
		Brief:     req.ToBrief(),
		SessionID: middleware.GetSessionID(c),
		UserIP:    c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
}
