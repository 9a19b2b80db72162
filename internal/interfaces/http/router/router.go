// Package router 提供 HTTP 路由配置
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/viratco/idea/internal/config"
	"github.com/viratco/idea/internal/interfaces/http/handler"
	"github.com/viratco/idea/internal/interfaces/http/middleware"
)

// Router HTTP 路由器
type Router struct {
	engine *gin.Engine
	cfg    *config.Config

	health     *handler.HealthHandler
	generation *handler.GenerationHandler
	limiter    middleware.RateLimiter
}

// New 创建新的路由器，limiter 为 nil 时不限流
func New(cfg *config.Config, health *handler.HealthHandler, generation *handler.GenerationHandler, limiter middleware.RateLimiter) *Router {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := &Router{
		engine:     gin.New(),
		cfg:        cfg,
		health:     health,
		generation: generation,
		limiter:    limiter,
	}

	r.setupMiddleware()
	r.setupRoutes()

	return r
}

// Engine 返回 Gin Engine
func (r *Router) Engine() *gin.Engine {
	return r.engine
}

// setupMiddleware 配置中间件
func (r *Router) setupMiddleware() {
	r.engine.Use(middleware.Recovery())
	r.engine.Use(middleware.RequestID())

	r.engine.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins: r.cfg.Security.CORS.AllowedOrigins,
		AllowedMethods: r.cfg.Security.CORS.AllowedMethods,
		AllowedHeaders: r.cfg.Security.CORS.AllowedHeaders,
	}))

	if r.cfg.Observability.Tracing.Enabled {
		r.engine.Use(middleware.Trace(r.cfg.App.Name))
		r.engine.Use(middleware.TraceContext())
	}

	if r.cfg.Observability.Metrics.Enabled {
		r.engine.Use(middleware.Metrics())
	}
}

// setupRoutes 配置路由
func (r *Router) setupRoutes() {
	if r.cfg.Observability.Metrics.Enabled {
		path := r.cfg.Observability.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		r.engine.GET(path, gin.WrapH(promhttp.Handler()))
	}

	api := r.engine.Group("/api")
	{
		health := api.Group("/health")
		{
			health.GET("", r.health.Health)
			health.GET("/ready", r.health.Ready)
			health.GET("/live", r.health.Live)
		}

		rl := r.cfg.Security.RateLimit
		limited := api.Group("", middleware.RateLimit(middleware.RateLimitConfig{
			Enabled:   rl.Enabled,
			Requests:  rl.Requests,
			Window:    rl.Window,
			KeyPrefix: rl.KeyPrefix,
		}, r.limiter))
		{
			limited.POST("/generate-idea", r.generation.GenerateIdea)
			limited.POST("/business-plan/generate", r.generation.GenerateBusinessPlan)
			limited.POST("/metrics/generate", r.generation.GenerateMetrics)
		}
	}
}
