package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viratco/idea/internal/config"
	"github.com/viratco/idea/internal/domain/entity"
	"github.com/viratco/idea/internal/domain/service"
	apperrors "github.com/viratco/idea/pkg/errors"
)

const okBody = `{"choices":[{"message":{"role":"assistant","content":"Title: X"}}],"usage":{"prompt_tokens":12,"completion_tokens":34}}`

type sleepRecorder struct {
	mu     sync.Mutex
	delays []time.Duration
}

func (s *sleepRecorder) sleep(_ context.Context, d time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delays = append(s.delays, d)
	return nil
}

type usageSpy struct {
	mu     sync.Mutex
	inputs []service.LLMUsageInput
}

func (u *usageSpy) Record(_ context.Context, in service.LLMUsageInput) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.inputs = append(u.inputs, in)
	return nil
}

func testConfig(url string) config.OpenRouterConfig {
	return config.OpenRouterConfig{
		APIKey:  "sk-test",
		BaseURL: url,
		Model:   "anthropic/claude-3-haiku",
		Retry:   config.RetryConfig{MaxAttempts: 3, Delay: 2 * time.Second},
	}
}

func planOptions() CallOptions {
	return CallOptions{
		Flow:        service.FlowPlanIntroduction,
		Model:       "anthropic/claude-3-haiku",
		Temperature: 0.5,
		MaxTokens:   400,
		TopP:        0.9,
		Timeout:     5 * time.Second,
		Referer:     "http://localhost:3001",
		Title:       "Business Plan Generator",
	}
}

func messages() []entity.ChatMessage {
	return []entity.ChatMessage{entity.SystemMessage("sys"), entity.UserMessage("hello")}
}

func TestComplete_Success(t *testing.T) {
	var captured map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "http://localhost:3001", r.Header.Get("HTTP-Referer"))
		assert.Equal(t, "Business Plan Generator", r.Header.Get("X-Title"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		_, _ = w.Write([]byte(okBody))
	}))
	defer srv.Close()

	spy := &usageSpy{}
	c := NewOpenRouterClient(testConfig(srv.URL), WithUsageRecorder(spy))
	got, err := c.Complete(context.Background(), planOptions(), messages())
	require.NoError(t, err)

	assert.Equal(t, 1, got.Attempts)
	assert.Equal(t, Usage{PromptTokens: 12, CompletionTokens: 34}, got.Usage)
	assert.NotNil(t, got.Raw)

	assert.Equal(t, "anthropic/claude-3-haiku", captured["model"])
	assert.Equal(t, 0.5, captured["temperature"])
	assert.Equal(t, float64(400), captured["max_tokens"])
	assert.Equal(t, false, captured["stream"])
	assert.Equal(t, 0.9, captured["top_p"])
	msgs, ok := captured["messages"].([]any)
	require.True(t, ok)
	assert.Len(t, msgs, 2)

	require.Len(t, spy.inputs, 1)
	assert.Equal(t, service.FlowPlanIntroduction, spy.inputs[0].Flow)
	assert.Equal(t, 34, spy.inputs[0].CompletionTokens)
}

func TestComplete_OmitsTopPWhenUnset(t *testing.T) {
	var captured map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		_, _ = w.Write([]byte(okBody))
	}))
	defer srv.Close()

	opts := planOptions()
	opts.TopP = 0
	_, err := NewOpenRouterClient(testConfig(srv.URL)).Complete(context.Background(), opts, messages())
	require.NoError(t, err)
	_, present := captured["top_p"]
	assert.False(t, present)
}

func TestComplete_RetriesRateLimitThenSucceeds(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) <= 2 {
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":{"message":"slow down"}}`))
			return
		}
		_, _ = w.Write([]byte(okBody))
	}))
	defer srv.Close()

	sleeper := &sleepRecorder{}
	c := NewOpenRouterClient(testConfig(srv.URL), WithSleep(sleeper.sleep))
	got, err := c.Complete(context.Background(), planOptions(), messages())
	require.NoError(t, err)

	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	assert.Equal(t, 3, got.Attempts)
	assert.Equal(t, []time.Duration{2 * time.Second, 2 * time.Second}, sleeper.delays)
}

func TestComplete_RateLimitExhausted(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	sleeper := &sleepRecorder{}
	c := NewOpenRouterClient(testConfig(srv.URL), WithSleep(sleeper.sleep))
	_, err := c.Complete(context.Background(), planOptions(), messages())
	require.Error(t, err)

	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	assert.Len(t, sleeper.delays, 2)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeUpstreamHTTP))
	assert.True(t, apperrors.HasReason(err, apperrors.ReasonRateLimited))
	assert.Equal(t, apperrors.MsgRateLimited, apperrors.UserMessage(err, ""))
}

func TestComplete_MissingAPIKeyMakesNoRequest(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.APIKey = "   "
	_, err := NewOpenRouterClient(cfg).Complete(context.Background(), planOptions(), messages())
	require.Error(t, err)

	assert.True(t, apperrors.IsCode(err, apperrors.CodeConfiguration))
	assert.Equal(t, apperrors.MsgMissingAPIKey, apperrors.UserMessage(err, ""))
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestComplete_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	opts := planOptions()
	opts.Timeout = 50 * time.Millisecond
	_, err := NewOpenRouterClient(testConfig(srv.URL)).Complete(context.Background(), opts, messages())
	require.Error(t, err)

	assert.True(t, apperrors.IsCode(err, apperrors.CodeUpstreamTimeout))
	assert.Equal(t, apperrors.MsgTimeout, apperrors.UserMessage(err, ""))
	assert.Equal(t, "timeout", apperrors.Kind(err))
}

func TestComplete_StatusMapping(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		reason  apperrors.Reason
		message string
	}{
		{name: "unauthorized", status: 401, reason: apperrors.ReasonUnauthorized, message: apperrors.MsgUnauthorized},
		{name: "payment", status: 402, reason: apperrors.ReasonPaymentRequired, message: apperrors.MsgPaymentRequired},
		{name: "model", status: 404, reason: apperrors.ReasonModelNotFound, message: apperrors.MsgModelNotFound},
		{name: "nested message", status: 500, body: `{"error":{"message":"upstream exploded"}}`, reason: apperrors.ReasonOther, message: "upstream exploded"},
		{name: "string error", status: 503, body: `{"error":"overloaded"}`, reason: apperrors.ReasonOther, message: "overloaded"},
		{name: "no body", status: 502, reason: apperrors.ReasonOther, message: apperrors.MsgUpstreamDefault},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				atomic.AddInt32(&calls, 1)
				w.WriteHeader(tt.status)
				if tt.body != "" {
					_, _ = w.Write([]byte(tt.body))
				}
			}))
			defer srv.Close()

			sleeper := &sleepRecorder{}
			c := NewOpenRouterClient(testConfig(srv.URL), WithSleep(sleeper.sleep))
			_, err := c.Complete(context.Background(), planOptions(), messages())
			require.Error(t, err)

			assert.True(t, apperrors.HasReason(err, tt.reason))
			assert.Equal(t, tt.message, apperrors.UserMessage(err, ""))
			assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "non-429 errors are not retried")
			assert.Empty(t, sleeper.delays)
		})
	}
}

func TestComplete_NonJSONBodyYieldsNilRaw(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>oops</html>"))
	}))
	defer srv.Close()

	got, err := NewOpenRouterClient(testConfig(srv.URL)).Complete(context.Background(), planOptions(), messages())
	require.NoError(t, err)
	assert.Nil(t, got.Raw)
}

func TestComplete_CancelledDuringRetryWait(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	c := NewOpenRouterClient(testConfig(srv.URL), WithSleep(func(ctx context.Context, d time.Duration) error {
		cancel()
		return sleepContext(ctx, d)
	}))
	_, err := c.Complete(ctx, planOptions(), messages())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOptionsForFlow(t *testing.T) {
	cfg := config.OpenRouterConfig{Model: "default-model"}
	fc := config.FlowConfig{Temperature: 0.7, MaxTokens: 2000, Timeout: time.Minute, Title: "Trendgen Cofounder"}

	opts := OptionsForFlow(service.FlowIdea, cfg, fc)
	assert.Equal(t, "default-model", opts.Model)
	assert.Equal(t, 2000, opts.MaxTokens)
	assert.Zero(t, opts.TopP)

	fc.Model = "override"
	assert.Equal(t, "override", OptionsForFlow(service.FlowIdea, cfg, fc).Model)
}

func TestConcurrencyLimit(t *testing.T) {
	var inflight, peak int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&inflight, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		atomic.AddInt32(&inflight, -1)
		_, _ = w.Write([]byte(okBody))
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.MaxConcurrency = 1
	c := NewOpenRouterClient(cfg)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.Complete(context.Background(), planOptions(), messages())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), atomic.LoadInt32(&peak))
}
