package llm

import (
	"context"

	"github.com/viratco/idea/internal/domain/service"
	"github.com/viratco/idea/pkg/logger"
	"github.com/viratco/idea/pkg/metrics"
)

// MetricsUsageRecorder 将用量写入 Prometheus 并输出 debug 日志
type MetricsUsageRecorder struct{}

// NewMetricsUsageRecorder 创建用量记录器
func NewMetricsUsageRecorder() *MetricsUsageRecorder {
	return &MetricsUsageRecorder{}
}

// Record 实现 service.LLMUsageRecorder
func (r *MetricsUsageRecorder) Record(ctx context.Context, in service.LLMUsageInput) error {
	if in.PromptTokens > 0 || in.CompletionTokens > 0 {
		metrics.LLMTokensUsed.WithLabelValues(in.Flow, in.Model, "prompt").Add(float64(in.PromptTokens))
		metrics.LLMTokensUsed.WithLabelValues(in.Flow, in.Model, "completion").Add(float64(in.CompletionTokens))
	}
	logger.Debug(ctx, "llm usage recorded",
		"flow", in.Flow,
		"model", in.Model,
		"prompt_tokens", in.PromptTokens,
		"completion_tokens", in.CompletionTokens,
		"attempts", in.Attempts,
		"duration_ms", in.DurationMs,
	)
	return nil
}

var _ service.LLMUsageRecorder = (*MetricsUsageRecorder)(nil)
