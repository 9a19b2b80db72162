package service

import (
	"context"

	"github.com/viratco/idea/internal/domain/entity"
)

// MetricsObserver 接收指标流程的生命周期通知。
// 约定：通知同步投递且为 best-effort，返回的错误只会被记录，不影响生成结果。
type MetricsObserver interface {
	Notify(ctx context.Context, ev entity.MetricsEvent) error
}

// MetricsObserverFunc 函数适配器
type MetricsObserverFunc func(ctx context.Context, ev entity.MetricsEvent) error

// Notify 实现 MetricsObserver
func (f MetricsObserverFunc) Notify(ctx context.Context, ev entity.MetricsEvent) error {
	return f(ctx, ev)
}
