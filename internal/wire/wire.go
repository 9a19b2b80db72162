//go:build wireinject
// +build wireinject

// Package wire 提供依赖注入配置
package wire

import (
	"context"

	"github.com/google/wire"

	"github.com/viratco/idea/internal/config"
	"github.com/viratco/idea/internal/interfaces/http/router"
)

// RedisSet Redis 及其派生依赖（均可为 nil）
var RedisSet = wire.NewSet(
	ProvideRedisClient,
	ProvideRateLimiter,
	ProvideHealthChecker,
)

// LLMSet 上游补全与提示词
var LLMSet = wire.NewSet(
	ProvideOpenRouterClient,
	ProvideCompleter,
	ProvidePromptBuilder,
)

// GeneratorSet 三条生成流程
var GeneratorSet = wire.NewSet(
	ProvideIdeaGenerator,
	ProvidePlanGenerator,
	ProvideMetricsObservers,
	ProvideMetricsGenerator,
)

// HandlerSet HTTP 处理器
var HandlerSet = wire.NewSet(
	ProvideGenerationHandler,
	ProvideHealthHandler,
)

// InitializeApp 初始化应用
func InitializeApp(ctx context.Context, cfg *config.Config) (*router.Router, func(), error) {
	wire.Build(
		RedisSet,
		LLMSet,
		GeneratorSet,
		HandlerSet,
		router.New,
	)
	return nil, nil, nil
}
