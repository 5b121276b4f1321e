package wire

import (
	"context"
	"fmt"
	"os"

	"reelsbot-ai-api/internal/application/content"
	"reelsbot-ai-api/internal/application/generation"
	"reelsbot-ai-api/internal/application/music"
	"reelsbot-ai-api/internal/application/trend"
	"reelsbot-ai-api/internal/config"
	"reelsbot-ai-api/internal/infrastructure/llm"
	"reelsbot-ai-api/internal/infrastructure/messaging"
	"reelsbot-ai-api/internal/infrastructure/persistence/postgres"
	"reelsbot-ai-api/internal/infrastructure/persistence/redis"
	"reelsbot-ai-api/internal/infrastructure/spotify"
	"reelsbot-ai-api/internal/infrastructure/youtube"
	"reelsbot-ai-api/internal/interfaces/http/handler"
	"reelsbot-ai-api/internal/interfaces/http/middleware"
	workflowprompt "reelsbot-ai-api/internal/workflow/prompt"
	"reelsbot-ai-api/pkg/logger"
)

// PostgresOnlyDataLayer 仅包含 PostgreSQL 的数据层（用于 bootstrap）
type PostgresOnlyDataLayer struct {
	PgClient *postgres.Client
}

// Worker 异步生成任务执行器依赖
type Worker struct {
	Consumer *messaging.Consumer
}

// ProvidePostgresClient 提供 PostgreSQL 客户端
func ProvidePostgresClient(cfg *config.Config) (*postgres.Client, func(), error) {
	client, err := postgres.NewClient(&cfg.Database.Postgres)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		_ = client.Close()
	}
	return client, cleanup, nil
}

// ProvideRedisClient 提供 Redis 客户端
func ProvideRedisClient(cfg *config.Config) (*redis.Client, func(), error) {
	client, err := redis.NewClient(&cfg.Cache.Redis)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		_ = client.Close()
	}
	return client, cleanup, nil
}

// ProvideTrendCache 趋势结果缓存
func ProvideTrendCache(client *redis.Client) *redis.Cache {
	return redis.NewCache(client, "trend")
}

// ProvideMessagingProducer 提供消息生产者
func ProvideMessagingProducer(redisClient *redis.Client, cfg *config.Config) *messaging.Producer {
	return messaging.NewProducer(redisClient.Redis(), int64(cfg.Messaging.RedisStream.MaxLen))
}

// ProvideJobPublisher 异步生成关闭时返回 nil
func ProvideJobPublisher(cfg *config.Config, producer *messaging.Producer) generation.JobPublisher {
	if !cfg.Features.AsyncGeneration.Enabled {
		return nil
	}
	return producer
}

// ProvideWorkerPublisher 执行器只消费任务，不再投递
func ProvideWorkerPublisher() generation.JobPublisher {
	return nil
}

// ProvideTemplateRegistry 模板目录优先，缺失时回落到内置模板
func ProvideTemplateRegistry(cfg *config.Config) *workflowprompt.Registry {
	return workflowprompt.NewRegistry(workflowprompt.NewFileStore(cfg.Content.TemplatesDir))
}

// ProvideYouTubeSource 未配置 API key 时返回 nil，趋势分析走占位结果
func ProvideYouTubeSource(ctx context.Context, cfg *config.Config) (trend.VideoSource, error) {
	src, err := youtube.NewSource(ctx, cfg.Integrations.YouTube.APIKey)
	if err != nil {
		return nil, err
	}
	if src == nil {
		logger.Info(ctx, "youtube api key not configured, using placeholder trends")
		return nil, nil
	}
	return src, nil
}

// ProvideTrendAnalyzer 提供趋势分析器
func ProvideTrendAnalyzer(cfg *config.Config, source trend.VideoSource, cache *redis.Cache) *trend.Analyzer {
	return trend.NewAnalyzer(source, cache, cfg.Cache.Redis.TrendTTL, cfg.Integrations.YouTube.MaxResults)
}

// ProvideMusicCatalog 未配置 Spotify 凭证时返回 nil，推荐走兜底列表
func ProvideMusicCatalog(ctx context.Context, cfg *config.Config) music.Catalog {
	catalog := spotify.NewCatalog(ctx, cfg.Integrations.Spotify)
	if catalog == nil {
		logger.Info(ctx, "spotify credentials not configured, using fallback music suggestions")
		return nil
	}
	return catalog
}

// ProvideGenerator 组装内容生成流水线
func ProvideGenerator(cfg *config.Config, factory *llm.EinoFactory, backend content.Backend, trends *generation.TrendAdapter, suggester *music.Suggester) *content.Generator {
	provider := cfg.Content.Provider
	if provider == "" {
		provider = cfg.LLM.DefaultProvider
	}
	modelName := cfg.Content.Model
	if modelName == "" {
		modelName = factory.ModelName(provider)
	}

	return content.NewGenerator(backend, trends, suggester, content.Options{
		Provider:          provider,
		Model:             modelName,
		Temperature:       float32(cfg.Content.Temperature),
		MaxTokens:         cfg.Content.MaxTokens,
		JSONOutput:        cfg.Content.JSONOutput,
		MusicLimit:        cfg.Content.MusicLimit,
		MusicEnabled:      cfg.Features.Music.Enabled,
		TrendsEnabled:     cfg.Features.Trends.Enabled,
		GenerationTimeout: cfg.Content.GenerationTimeout,
		EnrichmentTimeout: cfg.Content.EnrichmentTimeout,
	})
}

// ProvideHealthHandler 就绪检查依赖 PostgreSQL 与 Redis
func ProvideHealthHandler(cfg *config.Config, pg *postgres.Client, rdb *redis.Client) *handler.HealthHandler {
	return handler.NewHealthHandler(cfg.App.Version, map[string]handler.HealthChecker{
		"postgres": pg,
		"redis":    rdb,
	})
}

// ProvideMusicHandler 提供音乐推荐处理器
func ProvideMusicHandler(cfg *config.Config, suggester *music.Suggester) *handler.MusicHandler {
	return handler.NewMusicHandler(suggester, cfg.Content.MusicLimit)
}

// ProvideRateLimiter 限流关闭时返回 nil
func ProvideRateLimiter(cfg *config.Config, limiter *redis.RateLimiter) middleware.RateLimiter {
	if !cfg.Security.RateLimit.Enabled {
		return nil
	}
	return limiter
}

// ProvideJobHandler 提供异步任务处理器
func ProvideJobHandler(cfg *config.Config, svc *generation.Service) *generation.JobHandler {
	return generation.NewJobHandler(svc, cfg.Messaging.RedisStream.RetryLimit)
}

// ProvideContentConsumer 创建生成任务消费者并注册处理器
func ProvideContentConsumer(cfg *config.Config, redisClient *redis.Client, jobHandler *generation.JobHandler) *messaging.Consumer {
	rs := cfg.Messaging.RedisStream
	consumer := messaging.NewConsumer(redisClient.Redis(), messaging.ConsumerConfig{
		Stream:        messaging.StreamContentGen,
		Group:         messaging.ContentWorkerGroup(rs.ConsumerGroupPrefix),
		ConsumerName:  hostnameConsumerName(),
		BlockTimeout:  rs.BlockTimeout,
		ClaimInterval: rs.ClaimInterval,
		RetryLimit:    rs.RetryLimit,
		Backoff: messaging.BackoffConfig{
			Initial:    rs.RetryBackoff.Initial,
			Max:        rs.RetryBackoff.Max,
			Multiplier: rs.RetryBackoff.Multiplier,
		},
	})
	consumer.RegisterHandler(messaging.MessageTypeContentGenerate, jobHandler.Handle)
	return consumer
}

func hostnameConsumerName() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "worker"
	}
	return fmt.Sprintf("%s-%d", host, os.Getpid())
}
