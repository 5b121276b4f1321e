package content

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"reelsbot-ai-api/internal/application/music"
	"reelsbot-ai-api/internal/domain/entity"
	wfmodel "reelsbot-ai-api/internal/workflow/model"
	wfnode "reelsbot-ai-api/internal/workflow/node"
	workflowprompt "reelsbot-ai-api/internal/workflow/prompt"
	apperrors "reelsbot-ai-api/pkg/errors"
	"reelsbot-ai-api/pkg/logger"
	"reelsbot-ai-api/pkg/metrics"
	"reelsbot-ai-api/pkg/tracer"
)

// Backend 单次模型调用
type Backend interface {
	Invoke(ctx context.Context, in *wfmodel.ContentGenerateInput) (*wfmodel.ContentGenerateOutput, error)
}

// TrendSource 可选的趋势上下文来源
type TrendSource interface {
	TrendContext(ctx context.Context, topic string, platform entity.Platform) (*TrendContext, error)
}

// MusicSource 可选的音乐推荐来源
type MusicSource interface {
	Suggest(ctx context.Context, topic, tone string, platform entity.Platform, limit int) ([]music.Suggestion, error)
}

// Options 生成参数
type Options struct {
	Provider    string
	Model       string
	Temperature float32
	MaxTokens   int
	JSONOutput  bool

	MusicLimit        int
	MusicEnabled      bool
	TrendsEnabled     bool
	GenerationTimeout time.Duration
	EnrichmentTimeout time.Duration
}

// Generator 内容生成编排
type Generator struct {
	backend Backend
	trends  TrendSource
	music   MusicSource
	opts    Options
}

// NewGenerator 创建生成器，trends 与 music 可为 nil
func NewGenerator(backend Backend, trends TrendSource, music MusicSource, opts Options) *Generator {
	if opts.MusicLimit <= 0 {
		opts.MusicLimit = 5
	}
	return &Generator{backend: backend, trends: trends, music: music, opts: opts}
}

// Generate 执行一次完整生成。失败时只返回 *GenerationError（参数错误除外），不返回部分结果。
func (g *Generator) Generate(ctx context.Context, brief Brief) (*Record, error) {
	if err := brief.Validate(); err != nil {
		return nil, err
	}
	if g == nil || g.backend == nil {
		return nil, &GenerationError{Kind: FailureConfiguration, Cause: "generation backend not configured"}
	}

	start := time.Now()
	platform := brief.Platform.String()
	ctx = logger.WithContext(ctx, logger.PlatformKey, platform)
	ctx, span := tracer.Start(ctx, "content.Generate")
	span.SetAttributes(
		attribute.String("content.platform", platform),
		attribute.Bool("content.include_music", brief.IncludeMusic),
	)
	defer span.End()

	if g.opts.GenerationTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.opts.GenerationTimeout)
		defer cancel()
	}

	rec, err := g.run(ctx, brief)
	metrics.ContentGenerationDuration.WithLabelValues(platform).Observe(time.Since(start).Seconds())
	if err != nil {
		status := "invalid"
		if genErr, ok := AsGenerationError(err); ok {
			status = string(genErr.Kind)
		}
		metrics.ContentGenerationTotal.WithLabelValues(platform, status).Inc()
		tracer.RecordError(span, err)
		logger.Error(ctx, "content generation failed", err, "duration_ms", time.Since(start).Milliseconds())
		return nil, err
	}

	metrics.ContentGenerationTotal.WithLabelValues(platform, "success").Inc()
	metrics.ContentQualityScore.WithLabelValues(platform).Observe(float64(rec.QualityScore))
	metrics.ContentHashtagCount.WithLabelValues(platform).Observe(float64(len(rec.Hashtags)))
	logger.Info(ctx, "content generated",
		"quality_score", rec.QualityScore,
		"segments", len(rec.Timestamps),
		"hashtags", len(rec.Hashtags),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return rec, nil
}

func (g *Generator) run(ctx context.Context, brief Brief) (*Record, error) {
	enrichCtx, cancelEnrich := context.WithCancel(ctx)
	defer cancelEnrich()

	var (
		eg          errgroup.Group
		suggestions []music.Suggestion
	)
	wantTrends := brief.Trends == nil && brief.IncludeTrends && g.opts.TrendsEnabled && g.trends != nil
	wantMusic := brief.IncludeMusic && g.opts.MusicEnabled && g.music != nil

	trendsCh := make(chan *TrendContext, 1)
	if wantTrends {
		eg.Go(func() error {
			trendsCh <- g.fetchTrends(enrichCtx, brief)
			return nil
		})
	}
	if wantMusic {
		eg.Go(func() error {
			suggestions = g.fetchMusic(enrichCtx, brief)
			return nil
		})
	}

	trends := brief.Trends
	if wantTrends {
		select {
		case trends = <-trendsCh:
		case <-ctx.Done():
		}
	}

	out, err := g.backend.Invoke(ctx, g.buildInput(brief, trends))
	if err != nil {
		cancelEnrich()
		_ = eg.Wait()
		return nil, classifyBackendError(ctx, err)
	}

	rec, err := ParseResponse(out.RawText)
	if err != nil {
		cancelEnrich()
		_ = eg.Wait()
		return nil, err
	}
	if !rec.usable() {
		cancelEnrich()
		_ = eg.Wait()
		return nil, newParseError("model returned no usable content", nil)
	}

	if rec.Script != "" {
		rec.Timestamps = SynthesizeTimestamps(rec.Script)
	}
	rec.ModelUsed = g.modelUsed(out)
	rec.QualityScore = ScoreQuality(rec)

	_ = eg.Wait()
	if wantMusic {
		if suggestions == nil {
			suggestions = []music.Suggestion{}
		}
		rec.MusicSuggestions = suggestions
	}
	return rec, nil
}

func (g *Generator) buildInput(brief Brief, trends *TrendContext) *wfmodel.ContentGenerateInput {
	requirements := strings.TrimSpace(brief.AdditionalRequirements)
	if requirements == "" {
		requirements = "None"
	}
	in := &wfmodel.ContentGenerateInput{
		Kind:     workflowprompt.KindContentGeneration,
		Platform: brief.Platform.String(),
		Vars: map[string]any{
			workflowprompt.VarTopic:                  strings.TrimSpace(brief.Topic),
			workflowprompt.VarPlatform:               brief.Platform.String(),
			workflowprompt.VarTone:                   brief.Tone,
			workflowprompt.VarTargetAudience:         brief.TargetAudience,
			workflowprompt.VarAdditionalRequirements: requirements,
			workflowprompt.VarTrendsData:             TrendsBlock(trends),
			workflowprompt.VarPlatformSpecs:          PlatformSpecs(brief.Platform),
		},
		Provider:   g.opts.Provider,
		Model:      g.opts.Model,
		JSONOutput: g.opts.JSONOutput,
	}
	if g.opts.Temperature > 0 {
		t := g.opts.Temperature
		in.Temperature = &t
	}
	if g.opts.MaxTokens > 0 {
		n := g.opts.MaxTokens
		in.MaxTokens = &n
	}
	return in
}

func (g *Generator) fetchTrends(ctx context.Context, brief Brief) *TrendContext {
	if g.opts.EnrichmentTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.opts.EnrichmentTimeout)
		defer cancel()
	}
	tc, err := g.trends.TrendContext(ctx, brief.Topic, brief.Platform)
	if err != nil {
		metrics.EnrichmentTotal.WithLabelValues("trend", "error").Inc()
		logger.Warn(ctx, "trend lookup failed, continuing without trends", "error", err.Error())
		return nil
	}
	return tc
}

func (g *Generator) fetchMusic(ctx context.Context, brief Brief) []music.Suggestion {
	start := time.Now()
	defer func() {
		metrics.EnrichmentDuration.WithLabelValues("music").Observe(time.Since(start).Seconds())
	}()

	if g.opts.EnrichmentTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.opts.EnrichmentTimeout)
		defer cancel()
	}
	suggestions, err := g.music.Suggest(ctx, brief.Topic, brief.Tone, brief.Platform, g.opts.MusicLimit)
	if err != nil {
		metrics.EnrichmentTotal.WithLabelValues("music", "error").Inc()
		logger.Warn(ctx, "music suggestion failed, continuing without music", "error", err.Error())
		return []music.Suggestion{}
	}
	return suggestions
}

func (g *Generator) modelUsed(out *wfmodel.ContentGenerateOutput) string {
	if out != nil && out.Meta.Model != "" {
		return out.Meta.Model
	}
	if g.opts.Model != "" {
		return g.opts.Model
	}
	return g.opts.Provider
}

// classifyBackendError 将模型调用错误归类为配置错误、可重试或不可重试的后端错误
func classifyBackendError(ctx context.Context, err error) *GenerationError {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Code == apperrors.CodeConfigurationError {
		cause := appErr.Message
		if appErr.Detail != "" {
			cause = appErr.Detail
		}
		return &GenerationError{Kind: FailureConfiguration, Cause: cause, Err: err}
	}
	if ctx.Err() != nil || wfnode.IsTimeoutError(err) {
		return &GenerationError{Kind: FailureBackend, Cause: "generation timed out", Retryable: true, Err: err}
	}
	if wfnode.IsRetryableLLMError(err) {
		return &GenerationError{Kind: FailureBackend, Cause: "generative model temporarily unavailable: " + err.Error(), Retryable: true, Err: err}
	}
	return &GenerationError{Kind: FailureBackend, Cause: "generative model call failed: " + err.Error(), Err: err}
}
