//go:build wireinject
// +build wireinject

// Package wire 提供依赖注入配置
package wire

import (
	"context"

	"github.com/google/wire"

	"reelsbot-ai-api/internal/application/content"
	"reelsbot-ai-api/internal/application/generation"
	"reelsbot-ai-api/internal/application/music"
	"reelsbot-ai-api/internal/application/trend"
	"reelsbot-ai-api/internal/config"
	"reelsbot-ai-api/internal/domain/repository"
	"reelsbot-ai-api/internal/infrastructure/llm"
	"reelsbot-ai-api/internal/infrastructure/persistence/postgres"
	"reelsbot-ai-api/internal/infrastructure/persistence/redis"
	"reelsbot-ai-api/internal/interfaces/http/handler"
	"reelsbot-ai-api/internal/interfaces/http/router"
	"reelsbot-ai-api/internal/workflow/chain"
	"reelsbot-ai-api/internal/workflow/port"
)

// InitializePostgresOnly 仅初始化 PostgreSQL 数据层（用于 bootstrap）
func InitializePostgresOnly(ctx context.Context, cfg *config.Config) (*PostgresOnlyDataLayer, func(), error) {
	wire.Build(
		ProvidePostgresClient,
		wire.Struct(new(PostgresOnlyDataLayer), "*"),
	)
	return nil, nil, nil
}

// InitializeApp 初始化 HTTP 应用
func InitializeApp(ctx context.Context, cfg *config.Config) (*router.Router, func(), error) {
	wire.Build(
		RepoSet,
		RedisSet,
		MessagingSet,
		GenerationSet,
		RouterSet,
	)
	return nil, nil, nil
}

// InitializeWorker 初始化异步生成任务执行器
func InitializeWorker(ctx context.Context, cfg *config.Config) (*Worker, func(), error) {
	wire.Build(
		RepoSet,
		RedisSet,
		GenerationSet,
		ProvideJobHandler,
		ProvideContentConsumer,
		ProvideWorkerPublisher,
		wire.Struct(new(Worker), "*"),
	)
	return nil, nil, nil
}

// RepoSet PostgreSQL 仓储及接口绑定
var RepoSet = wire.NewSet(
	ProvidePostgresClient,
	postgres.NewTxManager,
	postgres.NewGenerationRequestRepository,
	postgres.NewContentScriptRepository,
	postgres.NewSessionRepository,
	wire.Bind(new(repository.Transactor), new(*postgres.TxManager)),
	wire.Bind(new(repository.GenerationRequestRepository), new(*postgres.GenerationRequestRepository)),
	wire.Bind(new(repository.ContentScriptRepository), new(*postgres.ContentScriptRepository)),
	wire.Bind(new(repository.SessionRepository), new(*postgres.SessionRepository)),
)

// RedisSet Redis 提供者集合
var RedisSet = wire.NewSet(
	ProvideRedisClient,
	ProvideTrendCache,
	redis.NewRateLimiter,
)

// MessagingSet 消息队列提供者集合
var MessagingSet = wire.NewSet(
	ProvideMessagingProducer,
	ProvideJobPublisher,
)

// GenerationSet 生成流水线与富化来源
var GenerationSet = wire.NewSet(
	llm.NewEinoFactory,
	wire.Bind(new(port.ChatModelFactory), new(*llm.EinoFactory)),
	ProvideTemplateRegistry,
	chain.NewContentChain,
	wire.Bind(new(content.Backend), new(*chain.ContentChain)),
	ProvideYouTubeSource,
	ProvideTrendAnalyzer,
	generation.NewTrendAdapter,
	ProvideMusicCatalog,
	music.NewSuggester,
	ProvideGenerator,
	wire.Bind(new(generation.Generator), new(*content.Generator)),
	generation.NewService,
)

// RouterSet 路由器提供者集合
var RouterSet = wire.NewSet(
	ProvideHealthHandler,
	ProvideMusicHandler,
	ProvideRateLimiter,
	handler.NewContentHandler,
	wire.Bind(new(handler.ContentService), new(*generation.Service)),
	handler.NewTrendHandler,
	wire.Bind(new(handler.TrendAnalyzer), new(*trend.Analyzer)),
	wire.Struct(new(router.RouterHandlers), "*"),
	router.NewWithDeps,
)
