package service

import "context"

// LLMUsageInput 表示一次补全调用的可观测数据。
// 说明：位于 domain/service 作为稳定契约，基础设施层实现记录方式。
type LLMUsageInput struct {
	Flow  string
	Model string

	PromptTokens     int
	CompletionTokens int
	Attempts         int
	DurationMs       int
}

// LLMUsageRecorder 记录补全调用的用量。
// 约定：实现应为 best-effort，不能阻塞或中断生成流程。
type LLMUsageRecorder interface {
	Record(ctx context.Context, in LLMUsageInput) error
}
