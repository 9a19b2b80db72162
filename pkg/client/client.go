// Package client 创意生成服务的 Go SDK
//
// 商业计划调用带有调用方一侧的超时重试：单次 45s 超时，超时后间隔 5s 最多再试 2 次。
// 该策略只针对客户端超时，与服务端对上游 429 的重试相互独立。
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/viratco/idea/internal/domain/entity"
	"github.com/viratco/idea/internal/interfaces/http/dto"
)

const (
	DefaultBaseURL = "http://localhost:3001"

	DefaultPlanAttemptTimeout = 45 * time.Second
	DefaultPlanMaxRetries     = 2
	DefaultPlanRetryDelay     = 5 * time.Second
)

var (
	// ErrNoIntroduction 200 响应中没有 introduction
	ErrNoIntroduction = errors.New("No introduction was generated")
	// ErrInvalidResponse 响应体无法解析
	ErrInvalidResponse = errors.New("Invalid response from server")
	// ErrGenerationTimedOut 所有尝试均超时
	ErrGenerationTimedOut = errors.New("Generation timed out. The model might be busy, please try again in a moment.")
)

// APIError 服务端返回的非 2xx 响应
type APIError struct {
	StatusCode int
	Message    string
	Kind       string
}

func (e *APIError) Error() string {
	if e.Kind != "" {
		return fmt.Sprintf("%d %s: %s", e.StatusCode, e.Kind, e.Message)
	}
	return fmt.Sprintf("%d: %s", e.StatusCode, e.Message)
}

// SleepFunc 可被测试替换的等待函数
type SleepFunc func(ctx context.Context, d time.Duration) error

// RetryHook 每次超时重试前回调，attempt 从 1 开始
type RetryHook func(attempt, maxRetries int)

// Client 服务端 HTTP 客户端
type Client struct {
	baseURL    string
	httpClient *http.Client
	sleep      SleepFunc
	onRetry    RetryHook

	planAttemptTimeout time.Duration
	planMaxRetries     int
	planRetryDelay     time.Duration
}

// Option 客户端选项
type Option func(*Client)

// WithHTTPClient 替换底层 http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithSleep 替换重试等待函数
func WithSleep(fn SleepFunc) Option {
	return func(c *Client) { c.sleep = fn }
}

// WithRetryHook 设置重试回调
func WithRetryHook(fn RetryHook) Option {
	return func(c *Client) { c.onRetry = fn }
}

// WithPlanRetry 覆盖商业计划调用的超时重试策略
func WithPlanRetry(attemptTimeout time.Duration, maxRetries int, delay time.Duration) Option {
	return func(c *Client) {
		c.planAttemptTimeout = attemptTimeout
		c.planMaxRetries = maxRetries
		c.planRetryDelay = delay
	}
}

// New 创建客户端，baseURL 为空时使用本地默认地址
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:            strings.TrimRight(baseURL, "/"),
		httpClient:         &http.Client{},
		sleep:              sleepContext,
		planAttemptTimeout: DefaultPlanAttemptTimeout,
		planMaxRetries:     DefaultPlanMaxRetries,
		planRetryDelay:     DefaultPlanRetryDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.planMaxRetries < 0 {
		c.planMaxRetries = 0
	}
	return c
}

// GenerateIdea 生成创意文本
func (c *Client) GenerateIdea(ctx context.Context, params entity.GenerationParameters) (string, error) {
	var text string
	if err := c.post(ctx, "/api/generate-idea", params, &text); err != nil {
		return "", err
	}
	return text, nil
}

// GenerateBusinessPlan 生成商业计划，客户端超时时按策略重试
func (c *Client) GenerateBusinessPlan(ctx context.Context, title, ideaFitness string) (*entity.BusinessPlanResult, error) {
	req := dto.BusinessPlanRequest{Title: title, IdeaFitness: ideaFitness}

	for attempt := 0; ; attempt++ {
		result, err := c.planAttempt(ctx, req)
		if err == nil {
			return result, nil
		}
		if !errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
			return nil, err
		}
		if attempt >= c.planMaxRetries {
			return nil, fmt.Errorf("%w (after %d attempts)", ErrGenerationTimedOut, attempt+1)
		}
		if c.onRetry != nil {
			c.onRetry(attempt+1, c.planMaxRetries)
		}
		if err := c.sleep(ctx, c.planRetryDelay); err != nil {
			return nil, err
		}
	}
}

func (c *Client) planAttempt(ctx context.Context, req dto.BusinessPlanRequest) (*entity.BusinessPlanResult, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.planAttemptTimeout)
	defer cancel()

	var result entity.BusinessPlanResult
	if err := c.post(attemptCtx, "/api/business-plan/generate", req, &result); err != nil {
		// 只有本次尝试自身的超时才算客户端超时
		if attemptCtx.Err() == context.DeadlineExceeded && ctx.Err() == nil {
			return nil, context.DeadlineExceeded
		}
		return nil, err
	}
	if strings.TrimSpace(result.Introduction) == "" {
		return nil, ErrNoIntroduction
	}
	return &result, nil
}

// GenerateMetrics 生成独立指标快照
func (c *Client) GenerateMetrics(ctx context.Context, ideaTitle, ideaFitness string) (*entity.ExtractedMetrics, error) {
	var metrics entity.ExtractedMetrics
	req := dto.MetricsRequest{IdeaTitle: ideaTitle, IdeaFitness: ideaFitness}
	if err := c.post(ctx, "/api/metrics/generate", req, &metrics); err != nil {
		return nil, err
	}
	return &metrics, nil
}

// Health 查询健康状态
func (c *Client) Health(ctx context.Context) (*dto.HealthResponse, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/health", nil)
	if err != nil {
		return nil, err
	}
	var out dto.HealthResponse
	if err := c.do(httpReq, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	return c.do(httpReq, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var errResp dto.ErrorResponse
		if json.Unmarshal(body, &errResp) == nil && errResp.Message != "" {
			apiErr.Message = errResp.Message
			apiErr.Kind = errResp.Error
		}
		return apiErr
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return nil
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
