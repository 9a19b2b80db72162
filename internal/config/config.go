// Package config 提供配置加载和管理功能
package config

import (
	"fmt"
	"time"
)

// Config 应用配置根结构
type Config struct {
	App           AppConfig           `yaml:"app" mapstructure:"app"`
	Server        ServerConfig        `yaml:"server" mapstructure:"server"`
	LLM           LLMConfig           `yaml:"llm" mapstructure:"llm"`
	Cache         CacheConfig         `yaml:"cache" mapstructure:"cache"`
	Messaging     MessagingConfig     `yaml:"messaging" mapstructure:"messaging"`
	Observability ObservabilityConfig `yaml:"observability" mapstructure:"observability"`
	Security      SecurityConfig      `yaml:"security" mapstructure:"security"`
}

// AppConfig 应用基础配置
type AppConfig struct {
	Name    string `yaml:"name" mapstructure:"name"`
	Version string `yaml:"version" mapstructure:"version"`
	Env     string `yaml:"env" mapstructure:"env"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	HTTP HTTPServerConfig `yaml:"http" mapstructure:"http"`
}

// HTTPServerConfig HTTP 服务器配置
type HTTPServerConfig struct {
	Host            string        `yaml:"host" mapstructure:"host"`
	Port            int           `yaml:"port" mapstructure:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
}

// LLMConfig LLM 配置
type LLMConfig struct {
	OpenRouter OpenRouterConfig `yaml:"openrouter" mapstructure:"openrouter"`
}

// OpenRouterConfig OpenRouter 聊天补全接口配置
type OpenRouterConfig struct {
	// APIKey 为空时服务仍可启动，调用时返回配置错误
	APIKey  string `yaml:"api_key" mapstructure:"api_key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	// Model 默认模型，不做自动降级
	Model string `yaml:"model" mapstructure:"model"`
	// MaxConcurrency 上游并发上限，0 表示不限制
	MaxConcurrency int         `yaml:"max_concurrency" mapstructure:"max_concurrency"`
	Retry          RetryConfig `yaml:"retry" mapstructure:"retry"`
	Flows          FlowsConfig `yaml:"flows" mapstructure:"flows"`
}

// RetryConfig 429 重试配置（固定间隔）
type RetryConfig struct {
	MaxAttempts int           `yaml:"max_attempts" mapstructure:"max_attempts"`
	Delay       time.Duration `yaml:"delay" mapstructure:"delay"`
}

// FlowsConfig 各生成流程的调用参数
type FlowsConfig struct {
	Idea    FlowConfig `yaml:"idea" mapstructure:"idea"`
	Plan    FlowConfig `yaml:"plan" mapstructure:"plan"`
	Metrics FlowConfig `yaml:"metrics" mapstructure:"metrics"`
}

// FlowConfig 单个流程的调用参数
type FlowConfig struct {
	// Model 为空时使用 OpenRouterConfig.Model
	Model       string        `yaml:"model" mapstructure:"model"`
	Temperature float64       `yaml:"temperature" mapstructure:"temperature"`
	MaxTokens   int           `yaml:"max_tokens" mapstructure:"max_tokens"`
	TopP        float64       `yaml:"top_p" mapstructure:"top_p"`
	Timeout     time.Duration `yaml:"timeout" mapstructure:"timeout"`
	Referer     string        `yaml:"referer" mapstructure:"referer"`
	Title       string        `yaml:"title" mapstructure:"title"`
}

// CacheConfig 缓存配置
type CacheConfig struct {
	Redis RedisConfig `yaml:"redis" mapstructure:"redis"`
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Enabled      bool          `yaml:"enabled" mapstructure:"enabled"`
	Host         string        `yaml:"host" mapstructure:"host"`
	Port         int           `yaml:"port" mapstructure:"port"`
	Password     string        `yaml:"password" mapstructure:"password"`
	DB           int           `yaml:"db" mapstructure:"db"`
	PoolSize     int           `yaml:"pool_size" mapstructure:"pool_size"`
	MinIdleConns int           `yaml:"min_idle_conns" mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `yaml:"dial_timeout" mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
}

// Addr 返回 host:port
func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// MessagingConfig 消息发布配置
type MessagingConfig struct {
	// MetricsChannel 指标生命周期事件的 Pub/Sub 频道，为空则不发布
	MetricsChannel string `yaml:"metrics_channel" mapstructure:"metrics_channel"`
}

// ObservabilityConfig 可观测性配置
type ObservabilityConfig struct {
	Logging LoggingConfig `yaml:"logging" mapstructure:"logging"`
	Tracing TracingConfig `yaml:"tracing" mapstructure:"tracing"`
	Metrics MetricsConfig `yaml:"metrics" mapstructure:"metrics"`
}

// LoggingConfig 日志配置
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// TracingConfig 追踪配置
type TracingConfig struct {
	Enabled    bool    `yaml:"enabled" mapstructure:"enabled"`
	Endpoint   string  `yaml:"endpoint" mapstructure:"endpoint"`
	SampleRate float64 `yaml:"sample_rate" mapstructure:"sample_rate"`
}

// MetricsConfig 指标配置
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Path    string `yaml:"path" mapstructure:"path"`
}

// SecurityConfig 安全配置
type SecurityConfig struct {
	RateLimit RateLimitConfig `yaml:"rate_limit" mapstructure:"rate_limit"`
	CORS      CORSConfig      `yaml:"cors" mapstructure:"cors"`
}

// RateLimitConfig 生成接口限流配置（滑动窗口，依赖 Redis）
type RateLimitConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Requests  int           `yaml:"requests" mapstructure:"requests"`
	Window    time.Duration `yaml:"window" mapstructure:"window"`
	KeyPrefix string        `yaml:"key_prefix" mapstructure:"key_prefix"`
}

// CORSConfig CORS 配置
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
	AllowedMethods []string `yaml:"allowed_methods" mapstructure:"allowed_methods"`
	AllowedHeaders []string `yaml:"allowed_headers" mapstructure:"allowed_headers"`
}

// Validate 校验结构性配置错误，API Key 缺失不在此处报错
func (c *Config) Validate() error {
	if c.Server.HTTP.Port <= 0 || c.Server.HTTP.Port > 65535 {
		return fmt.Errorf("server.http.port out of range: %d", c.Server.HTTP.Port)
	}
	or := c.LLM.OpenRouter
	if or.BaseURL == "" {
		return fmt.Errorf("llm.openrouter.base_url is required")
	}
	if or.Retry.MaxAttempts < 1 {
		return fmt.Errorf("llm.openrouter.retry.max_attempts must be >= 1, got %d", or.Retry.MaxAttempts)
	}
	if or.Retry.Delay < 0 {
		return fmt.Errorf("llm.openrouter.retry.delay must not be negative")
	}
	if or.MaxConcurrency < 0 {
		return fmt.Errorf("llm.openrouter.max_concurrency must not be negative")
	}
	for name, flow := range map[string]FlowConfig{"idea": or.Flows.Idea, "plan": or.Flows.Plan, "metrics": or.Flows.Metrics} {
		if flow.Timeout <= 0 {
			return fmt.Errorf("llm.openrouter.flows.%s.timeout must be positive", name)
		}
		if flow.MaxTokens <= 0 {
			return fmt.Errorf("llm.openrouter.flows.%s.max_tokens must be positive", name)
		}
	}
	if c.Security.RateLimit.Enabled && c.Security.RateLimit.Requests <= 0 {
		return fmt.Errorf("security.rate_limit.requests must be positive when enabled")
	}
	return nil
}
