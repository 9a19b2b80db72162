package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/viratco/idea/internal/infrastructure/persistence/redis"
	"github.com/viratco/idea/internal/interfaces/http/dto"
	apperrors "github.com/viratco/idea/pkg/errors"
	"github.com/viratco/idea/pkg/logger"
	"github.com/viratco/idea/pkg/metrics"
)

// RateLimitConfig 限流配置
type RateLimitConfig struct {
	Enabled bool
	// Requests 每个窗口内每个客户端允许的请求数
	Requests  int
	Window    time.Duration
	KeyPrefix string
}

// RateLimiter 限流器接口
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
	Remaining(ctx context.Context, key string, limit int, window time.Duration) (int, error)
}

// 限流响应头
const (
	HeaderRateLimitLimit     = "X-RateLimit-Limit"
	HeaderRateLimitRemaining = "X-RateLimit-Remaining"
)

// MsgRateLimited 本地限流拒绝消息
const MsgRateLimited = "Too many generation requests. Please wait a moment."

// RateLimit 按客户端 IP 与路由限流
func RateLimit(cfg RateLimitConfig, limiter RateLimiter) gin.HandlerFunc {
	if !cfg.Enabled || limiter == nil {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	if cfg.Requests <= 0 {
		cfg.Requests = 20
	}
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}

	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		key := redis.BuildRateLimitKey(cfg.KeyPrefix, c.ClientIP(), route)

		allowed, err := limiter.Allow(c.Request.Context(), key, cfg.Requests, cfg.Window)
		if err != nil {
			// 限流器故障时放行
			logger.Warn(c.Request.Context(), "rate limiter unavailable", "error", err.Error())
			c.Next()
			return
		}

		c.Header(HeaderRateLimitLimit, strconv.Itoa(cfg.Requests))
		if !allowed {
			c.Header(HeaderRateLimitRemaining, "0")
			metrics.RateLimitRejected.WithLabelValues(route).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.ErrorResponse{
				Message: MsgRateLimited,
				Error:   apperrors.New(apperrors.CodeTooManyRequests, MsgRateLimited).Kind(),
				TraceID: c.GetString("trace_id"),
			})
			return
		}

		if remaining, err := limiter.Remaining(c.Request.Context(), key, cfg.Requests, cfg.Window); err == nil {
			c.Header(HeaderRateLimitRemaining, strconv.Itoa(remaining))
		}
		c.Next()
	}
}
