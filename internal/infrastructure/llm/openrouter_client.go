// Package llm 提供 OpenRouter 聊天补全客户端
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/semaphore"

	"github.com/viratco/idea/internal/config"
	"github.com/viratco/idea/internal/domain/entity"
	"github.com/viratco/idea/internal/domain/service"
	"github.com/viratco/idea/internal/workflow/node"
	apperrors "github.com/viratco/idea/pkg/errors"
	"github.com/viratco/idea/pkg/logger"
	"github.com/viratco/idea/pkg/metrics"
	"github.com/viratco/idea/pkg/tracer"
)

const (
	// maxResponseBytes 上游响应体读取上限
	maxResponseBytes = 4 << 20
	previewRunes     = 200
)

// SleepFunc 重试等待函数，ctx 取消时应提前返回
type SleepFunc func(ctx context.Context, d time.Duration) error

// CallOptions 单次补全调用参数
type CallOptions struct {
	Flow        string
	Model       string
	Temperature float64
	MaxTokens   int
	// TopP 为 0 时不发送
	TopP    float64
	Timeout time.Duration
	Referer string
	Title   string
}

// OptionsForFlow 根据流程配置生成调用参数，流程未指定模型时使用默认模型
func OptionsForFlow(flow string, cfg config.OpenRouterConfig, fc config.FlowConfig) CallOptions {
	model := fc.Model
	if model == "" {
		model = cfg.Model
	}
	return CallOptions{
		Flow:        flow,
		Model:       model,
		Temperature: fc.Temperature,
		MaxTokens:   fc.MaxTokens,
		TopP:        fc.TopP,
		Timeout:     fc.Timeout,
		Referer:     fc.Referer,
		Title:       fc.Title,
	}
}

// Completion 一次成功的补全调用结果
// Raw 为解码后的原始 JSON，结构校验交给 node.ValidateCompletion
type Completion struct {
	Raw      any
	Model    string
	Attempts int
	Usage    Usage
}

// Usage 上游返回的 token 用量，缺失时为零值
type Usage struct {
	PromptTokens     int
	CompletionTokens int
}

type chatRequest struct {
	Model       string               `json:"model"`
	Messages    []entity.ChatMessage `json:"messages"`
	Temperature float64              `json:"temperature"`
	MaxTokens   int                  `json:"max_tokens"`
	Stream      bool                 `json:"stream"`
	TopP        float64              `json:"top_p,omitempty"`
}

// OpenRouterClient OpenRouter 聊天补全客户端
// 429 按固定间隔重试，其余错误立即返回
type OpenRouterClient struct {
	apiKey      string
	baseURL     string
	maxAttempts int
	delay       time.Duration

	httpClient    *http.Client
	sleep         SleepFunc
	sem           *semaphore.Weighted
	usageRecorder service.LLMUsageRecorder
}

// Option 客户端选项
type Option func(*OpenRouterClient)

// WithHTTPClient 替换 HTTP 客户端
func WithHTTPClient(hc *http.Client) Option {
	return func(c *OpenRouterClient) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithSleep 替换重试等待函数
func WithSleep(fn SleepFunc) Option {
	return func(c *OpenRouterClient) {
		if fn != nil {
			c.sleep = fn
		}
	}
}

// WithUsageRecorder 设置用量记录器
func WithUsageRecorder(r service.LLMUsageRecorder) Option {
	return func(c *OpenRouterClient) {
		c.usageRecorder = r
	}
}

// NewOpenRouterClient 创建 OpenRouter 客户端
func NewOpenRouterClient(cfg config.OpenRouterConfig, opts ...Option) *OpenRouterClient {
	maxAttempts := cfg.Retry.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	c := &OpenRouterClient{
		apiKey:      strings.TrimSpace(cfg.APIKey),
		baseURL:     cfg.BaseURL,
		maxAttempts: maxAttempts,
		delay:       cfg.Retry.Delay,
		httpClient:  &http.Client{},
		sleep:       sleepContext,
	}
	if cfg.MaxConcurrency > 0 {
		c.sem = semaphore.NewWeighted(int64(cfg.MaxConcurrency))
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Complete 发送补全请求并返回解码后的响应
func (c *OpenRouterClient) Complete(ctx context.Context, opts CallOptions, messages []entity.ChatMessage) (*Completion, error) {
	if c.apiKey == "" {
		return nil, apperrors.NewConfigurationError(apperrors.MsgMissingAPIKey)
	}

	ctx = service.WithModel(service.WithFlow(ctx, opts.Flow), opts.Model)
	flow := service.FlowFromContext(ctx)
	model := service.ModelFromContext(ctx)

	ctx, span := tracer.Start(ctx, "llm.complete", trace.WithAttributes(
		attribute.String("llm.flow", flow),
		attribute.String("llm.model", model),
		attribute.Int("llm.max_tokens", opts.MaxTokens),
	))
	defer span.End()

	body, err := json.Marshal(chatRequest{
		Model:       opts.Model,
		Messages:    messages,
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
		Stream:      false,
		TopP:        opts.TopP,
	})
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternalError, "failed to encode completion request")
	}

	logger.Info(ctx, "sending completion request",
		"flow", flow,
		"model", model,
		"messages", len(messages),
		"max_tokens", opts.MaxTokens,
	)

	start := time.Now()
	completion, err := c.completeWithRetry(ctx, opts, body)
	elapsed := time.Since(start)

	metrics.LLMCallDuration.WithLabelValues(flow, model).Observe(elapsed.Seconds())
	if err != nil {
		metrics.LLMCallTotal.WithLabelValues(flow, model, "error").Inc()
		tracer.RecordError(span, err)
		logger.Error(ctx, "completion request failed", err,
			"flow", flow,
			"kind", apperrors.Kind(err),
			"duration_ms", elapsed.Milliseconds(),
		)
		return nil, err
	}

	metrics.LLMCallTotal.WithLabelValues(flow, model, "success").Inc()
	span.SetAttributes(
		attribute.Int("llm.attempts", completion.Attempts),
		attribute.Int("llm.prompt_tokens", completion.Usage.PromptTokens),
		attribute.Int("llm.completion_tokens", completion.Usage.CompletionTokens),
	)
	c.recordUsage(ctx, flow, model, completion, elapsed)

	logger.Info(ctx, "completion response received",
		"flow", flow,
		"attempts", completion.Attempts,
		"duration_ms", elapsed.Milliseconds(),
		"prompt_tokens", completion.Usage.PromptTokens,
		"completion_tokens", completion.Usage.CompletionTokens,
	)
	return completion, nil
}

func (c *OpenRouterClient) completeWithRetry(ctx context.Context, opts CallOptions, body []byte) (*Completion, error) {
	flow := service.FlowFromContext(ctx)
	for attempt := 1; ; attempt++ {
		raw, status, err := c.attempt(ctx, opts, body)
		if err != nil {
			metrics.LLMAttemptsTotal.WithLabelValues(flow, "error").Inc()
			if node.IsTimeoutError(err) {
				return nil, apperrors.NewTimeoutError(err)
			}
			return nil, apperrors.Wrap(err, apperrors.CodeInternalError, "Failed to reach AI service")
		}
		metrics.LLMAttemptsTotal.WithLabelValues(flow, strconv.Itoa(status)).Inc()

		if status == http.StatusTooManyRequests {
			if attempt >= c.maxAttempts {
				logger.Warn(ctx, "rate limit retries exhausted", "flow", flow, "attempts", attempt)
				return nil, apperrors.NewUpstreamHTTPError(status, upstreamMessage(raw))
			}
			logger.Warn(ctx, "rate limited by upstream, retrying",
				"flow", flow,
				"attempt", attempt,
				"delay_ms", c.delay.Milliseconds(),
			)
			if err := c.sleep(ctx, c.delay); err != nil {
				if node.IsTimeoutError(err) {
					return nil, apperrors.NewTimeoutError(err)
				}
				return nil, apperrors.Wrap(err, apperrors.CodeInternalError, "Request cancelled")
			}
			continue
		}

		if status < 200 || status >= 300 {
			return nil, apperrors.NewUpstreamHTTPError(status, upstreamMessage(raw))
		}

		return &Completion{
			Raw:      raw,
			Model:    opts.Model,
			Attempts: attempt,
			Usage:    parseUsage(raw),
		}, nil
	}
}

// attempt 执行单次 HTTP 请求，超时按次计算
func (c *OpenRouterClient) attempt(ctx context.Context, opts CallOptions, body []byte) (any, int, error) {
	if c.sem != nil {
		if err := c.sem.Acquire(ctx, 1); err != nil {
			return nil, 0, err
		}
		defer c.sem.Release(1)
	}
	metrics.InflightUpstreamCalls.Inc()
	defer metrics.InflightUpstreamCalls.Dec()

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	if opts.Referer != "" {
		req.Header.Set("HTTP-Referer", opts.Referer)
	}
	if opts.Title != "" {
		req.Header.Set("X-Title", opts.Title)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, resp.StatusCode, err
	}

	var raw any
	if len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, &raw); err != nil {
			// 非 JSON 响应体按空响应处理，交由校验器报告
			logger.Warn(ctx, "upstream returned non-JSON body",
				"status", resp.StatusCode,
				"body", node.TruncateByRunes(string(data), previewRunes),
			)
			raw = nil
		}
	}
	return raw, resp.StatusCode, nil
}

func (c *OpenRouterClient) recordUsage(ctx context.Context, flow, model string, completion *Completion, elapsed time.Duration) {
	if c.usageRecorder == nil {
		return
	}
	if err := c.usageRecorder.Record(ctx, service.LLMUsageInput{
		Flow:             flow,
		Model:            model,
		PromptTokens:     completion.Usage.PromptTokens,
		CompletionTokens: completion.Usage.CompletionTokens,
		Attempts:         completion.Attempts,
		DurationMs:       int(elapsed.Milliseconds()),
	}); err != nil {
		logger.Warn(ctx, "failed to record llm usage", "error", err.Error())
	}
}

// upstreamMessage 读取上游错误描述：error.message 或字符串形式的 error
func upstreamMessage(raw any) string {
	obj, ok := raw.(map[string]any)
	if !ok {
		return ""
	}
	switch e := obj["error"].(type) {
	case string:
		return e
	case map[string]any:
		if msg, ok := e["message"].(string); ok {
			return msg
		}
	}
	if msg, ok := obj["message"].(string); ok {
		return msg
	}
	return ""
}

func parseUsage(raw any) Usage {
	obj, ok := raw.(map[string]any)
	if !ok {
		return Usage{}
	}
	usage, ok := obj["usage"].(map[string]any)
	if !ok {
		return Usage{}
	}
	return Usage{
		PromptTokens:     intField(usage, "prompt_tokens"),
		CompletionTokens: intField(usage, "completion_tokens"),
	}
}

func intField(m map[string]any, key string) int {
	if v, ok := m[key].(float64); ok && v > 0 {
		return int(v)
	}
	return 0
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
