package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}

func TestLoadFromDir_Defaults(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.yaml", "app:\n  name: idea-gen-api\n")
	t.Setenv("APP_ENV", "test")
	t.Setenv("OPENROUTER_API_KEY", "")

	cfg, err := LoadFromDir(dir)
	require.NoError(t, err)

	assert.Equal(t, 3001, cfg.Server.HTTP.Port)
	or := cfg.LLM.OpenRouter
	assert.Equal(t, "https://openrouter.ai/api/v1/chat/completions", or.BaseURL)
	assert.Equal(t, "qwen/qwen2.5-vl-72b-instruct:free", or.Model)
	assert.Equal(t, 3, or.Retry.MaxAttempts)
	assert.Equal(t, 2*time.Second, or.Retry.Delay)
	assert.Empty(t, or.APIKey)

	assert.Equal(t, 0.5, or.Flows.Plan.Temperature)
	assert.Equal(t, 400, or.Flows.Plan.MaxTokens)
	assert.Equal(t, 0.9, or.Flows.Plan.TopP)
	assert.Equal(t, 30*time.Second, or.Flows.Plan.Timeout)
	assert.Equal(t, "Business Plan Generator", or.Flows.Plan.Title)

	assert.Equal(t, 0.7, or.Flows.Idea.Temperature)
	assert.Equal(t, 2000, or.Flows.Idea.MaxTokens)
	assert.Zero(t, or.Flows.Idea.TopP)
	assert.Equal(t, 60*time.Second, or.Flows.Idea.Timeout)

	assert.Len(t, cfg.Security.CORS.AllowedOrigins, 5)
	assert.Contains(t, cfg.Security.CORS.AllowedOrigins, "http://localhost:5173")
	assert.False(t, cfg.Cache.Redis.Enabled)
}

func TestLoadFromDir_EnvExpansionAndOverlay(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.yaml", `
server:
  http:
    port: ${IDEA_TEST_PORT:4000}
llm:
  openrouter:
    api_key: ${IDEA_TEST_KEY:}
`)
	writeConfig(t, dir, "config.staging.yaml", `
llm:
  openrouter:
    model: meta/llama-3
`)
	t.Setenv("APP_ENV", "staging")
	t.Setenv("IDEA_TEST_PORT", "5050")
	t.Setenv("IDEA_TEST_KEY", "sk-test")

	cfg, err := LoadFromDir(dir)
	require.NoError(t, err)
	assert.Equal(t, 5050, cfg.Server.HTTP.Port)
	assert.Equal(t, "sk-test", cfg.LLM.OpenRouter.APIKey)
	assert.Equal(t, "meta/llama-3", cfg.LLM.OpenRouter.Model)
}

func TestLoadFromDir_FallsBackToConventionalKeyVariable(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.yaml", "app:\n  env: test\n")
	t.Setenv("APP_ENV", "test")
	t.Setenv("OPENROUTER_API_KEY", "sk-env")

	cfg, err := LoadFromDir(dir)
	require.NoError(t, err)
	assert.Equal(t, "sk-env", cfg.LLM.OpenRouter.APIKey)
}

func TestLoadFromDir_MissingFile(t *testing.T) {
	_, err := LoadFromDir(t.TempDir())
	assert.ErrorContains(t, err, "failed to read config file")
}

func TestLoadFromDir_InvalidRetry(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.yaml", "llm:\n  openrouter:\n    retry:\n      max_attempts: 0\n")
	t.Setenv("APP_ENV", "test")

	_, err := LoadFromDir(dir)
	assert.ErrorContains(t, err, "max_attempts")
}

func TestExpandEnv(t *testing.T) {
	t.Setenv("IDEA_SET", "value")

	assert.Equal(t, "a=value", expandEnv("a=${IDEA_SET}"))
	assert.Equal(t, "b=fallback", expandEnv("b=${IDEA_UNSET_VAR:fallback}"))
	assert.Equal(t, "c=", expandEnv("c=${IDEA_UNSET_VAR:}"))
	assert.Equal(t, "d=${IDEA_UNSET_VAR}", expandEnv("d=${IDEA_UNSET_VAR}"))
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.yaml", "app:\n  env: test\n")
	t.Setenv("APP_ENV", "test")
	cfg, err := LoadFromDir(dir)
	require.NoError(t, err)

	cfg.Server.HTTP.Port = 70000
	assert.ErrorContains(t, cfg.Validate(), "port")

	cfg.Server.HTTP.Port = 3001
	cfg.LLM.OpenRouter.Flows.Metrics.Timeout = 0
	assert.ErrorContains(t, cfg.Validate(), "flows.metrics.timeout")
}
