// Package config 提供配置加载功能
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/viper"
)

// DefaultConfigDir 默认配置目录
const DefaultConfigDir = "configs"

var envPlaceholder = regexp.MustCompile(`\${(\w+)(:([^}]*))?}`)

// Load 从默认目录加载配置
// 按优先级加载：默认配置 -> 环境配置 -> 环境变量
func Load() (*Config, error) {
	return LoadFromDir(DefaultConfigDir)
}

// LoadFromDir 从指定目录加载 config.yaml 及 config.<APP_ENV>.yaml
func LoadFromDir(dir string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	// 1. 加载默认配置
	if err := loadConfigFile(v, filepath.Join(dir, "config.yaml"), false); err != nil {
		return nil, err
	}

	// 2. 加载环境特定配置
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}
	if err := loadConfigFile(v, filepath.Join(dir, fmt.Sprintf("config.%s.yaml", env)), true); err != nil {
		return nil, err
	}

	// 3. 绑定环境变量 (直接覆盖)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 设置默认值 (兜底)
	setDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// OPENROUTER_API_KEY 是约定俗成的变量名，未通过配置文件引用时也生效
	if cfg.LLM.OpenRouter.APIKey == "" {
		cfg.LLM.OpenRouter.APIKey = os.Getenv("OPENROUTER_API_KEY")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// loadConfigFile 读取文件，执行环境变量替换，并加载到 viper
func loadConfigFile(v *viper.Viper, path string, optional bool) error {
	content, err := os.ReadFile(path)
	if err != nil {
		if optional && os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	reader := strings.NewReader(expandEnv(string(content)))
	if v.ConfigFileUsed() == "" {
		if err := v.ReadConfig(reader); err != nil {
			return fmt.Errorf("failed to read processed config %s: %w", path, err)
		}
		v.SetConfigFile(path)
	} else {
		if err := v.MergeConfig(reader); err != nil {
			return fmt.Errorf("failed to merge processed config %s: %w", path, err)
		}
	}

	return nil
}

// expandEnv 替换字符串中的 ${VAR:default} 占位符
// 未设置且无默认值的变量保留原样，便于排查
func expandEnv(s string) string {
	return envPlaceholder.ReplaceAllStringFunc(s, func(match string) string {
		submatch := envPlaceholder.FindStringSubmatch(match)
		key := submatch[1]
		hasDefault := submatch[2] != ""
		defVal := submatch[3]

		if val, ok := os.LookupEnv(key); ok {
			return val
		}
		if hasDefault {
			return defVal
		}
		return match
	})
}

// MustLoad 加载配置，失败时 panic
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	return cfg
}

// setDefaults 设置配置默认值
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "idea-gen-api")
	v.SetDefault("app.version", "v0.0.0")
	v.SetDefault("app.env", "development")

	// HTTP 服务器默认值
	v.SetDefault("server.http.host", "0.0.0.0")
	v.SetDefault("server.http.port", 3001)
	v.SetDefault("server.http.read_timeout", "30s")
	v.SetDefault("server.http.write_timeout", "150s")
	v.SetDefault("server.http.idle_timeout", "120s")
	v.SetDefault("server.http.shutdown_timeout", "30s")

	// OpenRouter 默认值
	v.SetDefault("llm.openrouter.base_url", "https://openrouter.ai/api/v1/chat/completions")
	v.SetDefault("llm.openrouter.model", "qwen/qwen2.5-vl-72b-instruct:free")
	v.SetDefault("llm.openrouter.max_concurrency", 8)
	v.SetDefault("llm.openrouter.retry.max_attempts", 3)
	v.SetDefault("llm.openrouter.retry.delay", "2s")

	v.SetDefault("llm.openrouter.flows.idea.temperature", 0.7)
	v.SetDefault("llm.openrouter.flows.idea.max_tokens", 2000)
	v.SetDefault("llm.openrouter.flows.idea.timeout", "60s")
	v.SetDefault("llm.openrouter.flows.idea.referer", "https://github.com/vikaschauhan1995")
	v.SetDefault("llm.openrouter.flows.idea.title", "Trendgen Cofounder")

	v.SetDefault("llm.openrouter.flows.plan.temperature", 0.5)
	v.SetDefault("llm.openrouter.flows.plan.max_tokens", 400)
	v.SetDefault("llm.openrouter.flows.plan.top_p", 0.9)
	v.SetDefault("llm.openrouter.flows.plan.timeout", "30s")
	v.SetDefault("llm.openrouter.flows.plan.referer", "http://localhost:3001")
	v.SetDefault("llm.openrouter.flows.plan.title", "Business Plan Generator")

	v.SetDefault("llm.openrouter.flows.metrics.temperature", 0.5)
	v.SetDefault("llm.openrouter.flows.metrics.max_tokens", 400)
	v.SetDefault("llm.openrouter.flows.metrics.top_p", 0.9)
	v.SetDefault("llm.openrouter.flows.metrics.timeout", "30s")
	v.SetDefault("llm.openrouter.flows.metrics.referer", "http://localhost:3001")
	v.SetDefault("llm.openrouter.flows.metrics.title", "Business Plan Generator")

	// Redis 默认值
	v.SetDefault("cache.redis.enabled", false)
	v.SetDefault("cache.redis.host", "localhost")
	v.SetDefault("cache.redis.port", 6379)
	v.SetDefault("cache.redis.db", 0)
	v.SetDefault("cache.redis.pool_size", 20)
	v.SetDefault("cache.redis.min_idle_conns", 2)
	v.SetDefault("cache.redis.dial_timeout", "5s")
	v.SetDefault("cache.redis.read_timeout", "3s")
	v.SetDefault("cache.redis.write_timeout", "3s")

	v.SetDefault("messaging.metrics_channel", "idea:metrics:events")

	// 可观测性默认值
	v.SetDefault("observability.logging.level", "info")
	v.SetDefault("observability.logging.format", "json")
	v.SetDefault("observability.tracing.enabled", false)
	v.SetDefault("observability.tracing.endpoint", "localhost:4317")
	v.SetDefault("observability.tracing.sample_rate", 1.0)
	v.SetDefault("observability.metrics.enabled", true)
	v.SetDefault("observability.metrics.path", "/metrics")

	// 安全默认值
	v.SetDefault("security.rate_limit.enabled", false)
	v.SetDefault("security.rate_limit.requests", 20)
	v.SetDefault("security.rate_limit.window", "1m")
	v.SetDefault("security.rate_limit.key_prefix", "ratelimit")
	v.SetDefault("security.cors.allowed_origins", []string{
		"http://localhost:8080",
		"http://localhost:8081",
		"http://localhost:8082",
		"http://localhost:3000",
		"http://localhost:5173",
	})
	v.SetDefault("security.cors.allowed_methods", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})
}
