// Package generation 负责生成请求的持久化、执行与结果查询。
package generation

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/datatypes"

	"reelsbot-ai-api/internal/application/content"
	"reelsbot-ai-api/internal/domain/entity"
	"reelsbot-ai-api/internal/domain/repository"
	"reelsbot-ai-api/internal/infrastructure/messaging"
	apperrors "reelsbot-ai-api/pkg/errors"
	"reelsbot-ai-api/pkg/logger"
	"reelsbot-ai-api/pkg/tracer"
)

// failureKindInvalid 非流水线错误（参数校验等）
const failureKindInvalid = "invalid"

// Generator 内容生成流水线
type Generator interface {
	Generate(ctx context.Context, brief content.Brief) (*content.Record, error)
}

// JobPublisher 异步任务发布
type JobPublisher interface {
	PublishContentGenerate(ctx context.Context, job *messaging.ContentGenerateMessage) (string, error)
}

// SubmitInput 提交参数
type SubmitInput struct {
	Brief     content.Brief
	SessionID string
	UserIP    string
	UserAgent string
}

// Result 执行结果
type Result struct {
	Request        *entity.GenerationRequest
	Script         *entity.ContentScript
	Record         *content.Record
	GenerationTime float64
}

// Service 生成服务
type Service struct {
	tx        repository.Transactor
	requests  repository.GenerationRequestRepository
	scripts   repository.ContentScriptRepository
	sessions  repository.SessionRepository
	generator Generator
	publisher JobPublisher
}

// NewService 创建生成服务，publisher 为 nil 时不支持异步提交
func NewService(
	tx repository.Transactor,
	requests repository.GenerationRequestRepository,
	scripts repository.ContentScriptRepository,
	sessions repository.SessionRepository,
	generator Generator,
	publisher JobPublisher,
) *Service {
	return &Service{
		tx:        tx,
		requests:  requests,
		scripts:   scripts,
		sessions:  sessions,
		generator: generator,
		publisher: publisher,
	}
}

// Submit 校验并保存待处理请求
func (s *Service) Submit(ctx context.Context, in *SubmitInput) (*entity.GenerationRequest, error) {
	if in == nil {
		return nil, apperrors.ErrInvalidParam.WithDetail("submit input is required")
	}
	if err := in.Brief.Validate(); err != nil {
		return nil, err
	}

	b := in.Brief
	req := entity.NewGenerationRequest(uuid.NewString(), b.Topic, b.Platform, b.Tone, b.TargetAudience)
	req.AdditionalRequirements = b.AdditionalRequirements
	req.IncludeMusic = b.IncludeMusic
	req.IncludeTrends = b.IncludeTrends
	req.SessionID = in.SessionID
	req.UserIP = in.UserIP
	req.UserAgent = in.UserAgent

	err := s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.requests.Create(txCtx, req); err != nil {
			return err
		}
		return s.touchSession(txCtx, in)
	})
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to save generation request")
	}
	return req, nil
}

// touchSession 首次出现的会话创建记录，已有会话刷新访问时间
func (s *Service) touchSession(ctx context.Context, in *SubmitInput) error {
	if in.SessionID == "" || s.sessions == nil {
		return nil
	}
	sess, err := s.sessions.GetByID(ctx, in.SessionID)
	if err != nil {
		return err
	}
	if sess == nil {
		sess = entity.NewSession(in.SessionID, in.UserIP, in.UserAgent)
	} else {
		sess.LastVisit = time.Now()
	}
	return s.sessions.Save(ctx, sess)
}

// Execute 执行已保存的请求。已成功的请求直接返回已有脚本。
func (s *Service) Execute(ctx context.Context, requestID string) (*Result, error) {
	ctx = logger.WithContext(ctx, logger.GenerationIDKey, requestID)
	ctx, span := tracer.Start(ctx, "generation.Execute")
	span.SetAttributes(attribute.String("generation.request_id", requestID))
	defer span.End()

	req, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to load generation request")
	}
	if req == nil {
		return nil, apperrors.ErrRequestNotFound.WithDetail(requestID)
	}
	if req.SessionID != "" {
		ctx = logger.WithContext(ctx, logger.SessionIDKey, req.SessionID)
	}

	if req.Status == entity.RequestStatusSuccess && req.ContentScriptID != nil {
		script, err := s.scripts.GetByID(ctx, *req.ContentScriptID)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to load content script")
		}
		if script != nil {
			return &Result{Request: req, Script: script, GenerationTime: script.GenerationTimeSeconds}, nil
		}
	}

	req.Start()
	if err := s.requests.Update(ctx, req); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to mark request running")
	}

	start := time.Now()
	rec, genErr := s.generator.Generate(ctx, briefFromRequest(req))
	elapsed := time.Since(start).Seconds()
	if genErr != nil {
		tracer.RecordError(span, genErr)
		s.recordFailure(ctx, req, genErr)
		return nil, genErr
	}

	script, err := newContentScript(req, rec, elapsed)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternalError, "failed to encode content script")
	}

	err = s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.scripts.Create(txCtx, script); err != nil {
			return err
		}
		req.Succeed(script.ID)
		if err := s.requests.Update(txCtx, req); err != nil {
			return err
		}
		return s.recordSessionOutcome(txCtx, req, true)
	})
	if err != nil {
		tracer.RecordError(span, err)
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to save content script")
	}

	logger.Info(ctx, "generation request completed",
		"script_id", script.ID,
		"quality_score", script.QualityScore,
		"generation_time", elapsed,
	)
	return &Result{Request: req, Script: script, Record: rec, GenerationTime: elapsed}, nil
}

// GenerateNow 同步提交并执行
func (s *Service) GenerateNow(ctx context.Context, in *SubmitInput) (*Result, error) {
	req, err := s.Submit(ctx, in)
	if err != nil {
		return nil, err
	}
	res, err := s.Execute(ctx, req.ID)
	if err != nil {
		return &Result{Request: req}, err
	}
	return res, nil
}

// Enqueue 保存请求并投递到异步队列
func (s *Service) Enqueue(ctx context.Context, in *SubmitInput) (*entity.GenerationRequest, error) {
	if s.publisher == nil {
		return nil, apperrors.ErrServiceUnavailable.WithDetail("async generation is disabled")
	}
	req, err := s.Submit(ctx, in)
	if err != nil {
		return nil, err
	}

	if _, err := s.publisher.PublishContentGenerate(ctx, &messaging.ContentGenerateMessage{
		RequestID: req.ID,
		SessionID: req.SessionID,
	}); err != nil {
		req.Fail(failureKindInvalid, "failed to enqueue generation request", true)
		if uerr := s.requests.Update(ctx, req); uerr != nil {
			logger.Error(ctx, "failed to mark request as failed", uerr, "request_id", req.ID)
		}
		return nil, apperrors.Wrap(err, apperrors.CodeMessagingError, "failed to enqueue generation request")
	}
	return req, nil
}

// GetRequest 查询生成请求
func (s *Service) GetRequest(ctx context.Context, id string) (*entity.GenerationRequest, error) {
	req, err := s.requests.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to load generation request")
	}
	if req == nil {
		return nil, apperrors.ErrRequestNotFound.WithDetail(id)
	}
	return req, nil
}

// GetScript 查询生成脚本
func (s *Service) GetScript(ctx context.Context, id string) (*entity.ContentScript, error) {
	script, err := s.scripts.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to load content script")
	}
	if script == nil {
		return nil, apperrors.ErrScriptNotFound.WithDetail(id)
	}
	return script, nil
}

// ListScripts 分页查询脚本
func (s *Service) ListScripts(ctx context.Context, filter *repository.ScriptFilter, pagination repository.Pagination) (*repository.PagedResult[*entity.ContentScript], error) {
	res, err := s.scripts.List(ctx, filter, pagination)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to list content scripts")
	}
	return res, nil
}

func (s *Service) recordFailure(ctx context.Context, req *entity.GenerationRequest, cause error) {
	kind, message, retryable := failureKindInvalid, cause.Error(), false
	if genErr, ok := content.AsGenerationError(cause); ok {
		kind, message, retryable = string(genErr.Kind), genErr.Cause, genErr.Retryable
	}
	req.Fail(kind, message, retryable)

	// 生成已失败，持久化使用独立 ctx 避免被已取消的请求上下文中断
	persistCtx := context.WithoutCancel(ctx)
	err := s.tx.WithTransaction(persistCtx, func(txCtx context.Context) error {
		if err := s.requests.Update(txCtx, req); err != nil {
			return err
		}
		return s.recordSessionOutcome(txCtx, req, false)
	})
	if err != nil {
		logger.Error(ctx, "failed to persist generation failure", err, "request_id", req.ID)
	}
}

func (s *Service) recordSessionOutcome(ctx context.Context, req *entity.GenerationRequest, success bool) error {
	if req.SessionID == "" || s.sessions == nil {
		return nil
	}
	sess, err := s.sessions.GetByID(ctx, req.SessionID)
	if err != nil {
		return err
	}
	if sess == nil {
		sess = entity.NewSession(req.SessionID, req.UserIP, req.UserAgent)
	}
	sess.RecordOutcome(req.Platform, req.Tone, success)
	return s.sessions.Save(ctx, sess)
}

func briefFromRequest(req *entity.GenerationRequest) content.Brief {
	return content.Brief{
		Topic:                  req.Topic,
		Platform:               req.Platform,
		Tone:                   req.Tone,
		TargetAudience:         req.TargetAudience,
		AdditionalRequirements: req.AdditionalRequirements,
		IncludeMusic:           req.IncludeMusic,
		IncludeTrends:          req.IncludeTrends,
	}
}

func newContentScript(req *entity.GenerationRequest, rec *content.Record, elapsed float64) (*entity.ContentScript, error) {
	timestamps, err := json.Marshal(rec.Timestamps)
	if err != nil {
		return nil, err
	}
	script := &entity.ContentScript{
		ID:                    uuid.NewString(),
		RequestID:             req.ID,
		Topic:                 req.Topic,
		Platform:              req.Platform,
		Tone:                  req.Tone,
		TargetAudience:        req.TargetAudience,
		Hook:                  rec.Hook,
		Storyline:             rec.Storyline,
		Script:                rec.Script,
		Timestamps:            datatypes.JSON(timestamps),
		Hashtags:              rec.Hashtags,
		GenerationTimeSeconds: elapsed,
		ModelUsed:             rec.ModelUsed,
		QualityScore:          rec.QualityScore,
	}
	if rec.MusicSuggestions != nil {
		musicJSON, err := json.Marshal(rec.MusicSuggestions)
		if err != nil {
			return nil, err
		}
		script.MusicSuggestions = datatypes.JSON(musicJSON)
	}
	return script, nil
}
