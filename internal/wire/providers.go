package wire

import (
	"context"

	"github.com/viratco/idea/internal/application/idea"
	"github.com/viratco/idea/internal/application/metrics"
	"github.com/viratco/idea/internal/application/plan"
	"github.com/viratco/idea/internal/config"
	"github.com/viratco/idea/internal/domain/service"
	"github.com/viratco/idea/internal/infrastructure/llm"
	"github.com/viratco/idea/internal/infrastructure/messaging"
	"github.com/viratco/idea/internal/infrastructure/persistence/redis"
	"github.com/viratco/idea/internal/interfaces/http/handler"
	"github.com/viratco/idea/internal/interfaces/http/middleware"
	"github.com/viratco/idea/internal/workflow/prompt"
	"github.com/viratco/idea/pkg/logger"
)

// ProvideRedisClient 提供 Redis 客户端，未启用时返回 nil
func ProvideRedisClient(ctx context.Context, cfg *config.Config) (*redis.Client, func(), error) {
	if !cfg.Cache.Redis.Enabled {
		logger.Info(ctx, "redis disabled, rate limiting and event publishing are off")
		return nil, func() {}, nil
	}
	client, err := redis.NewClient(&cfg.Cache.Redis)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		_ = client.Close()
	}
	return client, cleanup, nil
}

// ProvideRateLimiter 提供限流器
// 返回接口类型，Redis 不可用或未开启限流时为真正的 nil
func ProvideRateLimiter(cfg *config.Config, client *redis.Client) middleware.RateLimiter {
	if client == nil || !cfg.Security.RateLimit.Enabled {
		return nil
	}
	return redis.NewRateLimiter(client)
}

// ProvideHealthChecker 提供就绪检查依赖
func ProvideHealthChecker(client *redis.Client) handler.HealthChecker {
	if client == nil {
		return nil
	}
	return client
}

// ProvideOpenRouterClient 提供上游补全客户端
func ProvideOpenRouterClient(cfg *config.Config) *llm.OpenRouterClient {
	return llm.NewOpenRouterClient(cfg.LLM.OpenRouter,
		llm.WithUsageRecorder(llm.NewMetricsUsageRecorder()))
}

// ProvideCompleter 将具体客户端暴露为 Completer
func ProvideCompleter(c *llm.OpenRouterClient) llm.Completer {
	return c
}

// ProvidePromptBuilder 提供提示词构建器
func ProvidePromptBuilder() *prompt.Builder {
	return prompt.NewBuilder(prompt.NewRegistry())
}

// ProvideIdeaGenerator 提供创意生成器
func ProvideIdeaGenerator(cfg *config.Config, completer llm.Completer, prompts *prompt.Builder) *idea.Generator {
	or := cfg.LLM.OpenRouter
	return idea.NewGenerator(completer, prompts, llm.OptionsForFlow(service.FlowIdea, or, or.Flows.Idea))
}

// ProvidePlanGenerator 提供商业计划生成器
func ProvidePlanGenerator(cfg *config.Config, completer llm.Completer, prompts *prompt.Builder) *plan.Generator {
	or := cfg.LLM.OpenRouter
	return plan.NewGenerator(completer, prompts, llm.OptionsForFlow(service.FlowPlanIntroduction, or, or.Flows.Plan))
}

// ProvideMetricsObservers 提供进程级指标观察者
// Redis 启用且配置了频道时额外发布到 Pub/Sub
func ProvideMetricsObservers(ctx context.Context, cfg *config.Config, client *redis.Client) []service.MetricsObserver {
	observers := []service.MetricsObserver{metrics.LogObserver{}, metrics.PrometheusObserver{}}
	channel := cfg.Messaging.MetricsChannel
	if client != nil && channel != "" {
		observers = append(observers, messaging.NewMetricsEventPublisher(client, channel))
		logger.Info(ctx, "metrics events will be published", "channel", channel)
	}
	return observers
}

// ProvideMetricsGenerator 提供指标生成器
func ProvideMetricsGenerator(cfg *config.Config, completer llm.Completer, prompts *prompt.Builder, observers []service.MetricsObserver) *metrics.Generator {
	or := cfg.LLM.OpenRouter
	return metrics.NewGenerator(completer, prompts, llm.OptionsForFlow(service.FlowMetrics, or, or.Flows.Metrics), observers...)
}

// ProvideGenerationHandler 提供生成接口处理器
func ProvideGenerationHandler(ideas *idea.Generator, plans *plan.Generator, metricsGen *metrics.Generator) *handler.GenerationHandler {
	return handler.NewGenerationHandler(ideas, plans, metricsGen)
}

// ProvideHealthHandler 提供健康检查处理器
func ProvideHealthHandler(cfg *config.Config, checker handler.HealthChecker) *handler.HealthHandler {
	return handler.NewHealthHandler(checker, cfg.LLM.OpenRouter.APIKey != "", cfg.App.Version)
}
