// Package service 定义跨层共享的领域契约
package service

import (
	"context"
	"strings"
)

type llmCtxKey string

const (
	llmCtxKeyFlow  llmCtxKey = "llm_flow"
	llmCtxKeyModel llmCtxKey = "llm_model"
)

// 生成流程名称，用于日志、指标和追踪标签
const (
	FlowIdea             = "idea"
	FlowPlanIntroduction = "plan_introduction"
	FlowPlanMetrics      = "plan_metrics"
	FlowMetrics          = "metrics"
)

// WithFlow 将流程名写入 context
func WithFlow(ctx context.Context, flow string) context.Context {
	if ctx == nil {
		return nil
	}
	f := strings.TrimSpace(flow)
	if f == "" {
		return ctx
	}
	return context.WithValue(ctx, llmCtxKeyFlow, f)
}

// WithModel 将模型名写入 context
func WithModel(ctx context.Context, model string) context.Context {
	if ctx == nil {
		return nil
	}
	m := strings.TrimSpace(model)
	if m == "" {
		return ctx
	}
	return context.WithValue(ctx, llmCtxKeyModel, m)
}

// FlowFromContext 读取流程名，缺省为 unknown
func FlowFromContext(ctx context.Context) string {
	return stringFromContext(ctx, llmCtxKeyFlow)
}

// ModelFromContext 读取模型名，缺省为 unknown
func ModelFromContext(ctx context.Context) string {
	return stringFromContext(ctx, llmCtxKeyModel)
}

func stringFromContext(ctx context.Context, key llmCtxKey) string {
	if ctx == nil {
		return "unknown"
	}
	s, ok := ctx.Value(key).(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "unknown"
	}
	return strings.TrimSpace(s)
}
