package metrics

import (
	"context"
	"fmt"

	"github.com/viratco/idea/internal/domain/entity"
	"github.com/viratco/idea/internal/domain/service"
	"github.com/viratco/idea/pkg/logger"
	pkgmetrics "github.com/viratco/idea/pkg/metrics"
)

// ObserverSet 按注册顺序同步投递通知
// 单个观察者出错或 panic 只记录日志，不影响其余观察者和生成流程
type ObserverSet struct {
	observers []service.MetricsObserver
}

// NewObserverSet 创建观察者集合，忽略 nil
func NewObserverSet(observers ...service.MetricsObserver) *ObserverSet {
	s := &ObserverSet{}
	return s.With(observers...)
}

// With 返回追加了观察者的新集合，原集合不变
func (s *ObserverSet) With(observers ...service.MetricsObserver) *ObserverSet {
	merged := make([]service.MetricsObserver, 0, s.Len()+len(observers))
	if s != nil {
		merged = append(merged, s.observers...)
	}
	for _, o := range observers {
		if o != nil {
			merged = append(merged, o)
		}
	}
	return &ObserverSet{observers: merged}
}

// Len 观察者数量
func (s *ObserverSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.observers)
}

// Notify 实现 service.MetricsObserver
func (s *ObserverSet) Notify(ctx context.Context, ev entity.MetricsEvent) error {
	if s == nil {
		return nil
	}
	for i, o := range s.observers {
		if err := notifySafely(ctx, o, ev); err != nil {
			logger.Warn(ctx, "metrics observer failed",
				"observer", i,
				"event", ev.Label(),
				"error", err.Error(),
			)
		}
	}
	return nil
}

func notifySafely(ctx context.Context, o service.MetricsObserver, ev entity.MetricsEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("observer panic: %v", r)
		}
	}()
	return o.Notify(ctx, ev)
}

// LogObserver 以结构化日志输出通知
type LogObserver struct{}

// Notify 实现 service.MetricsObserver
func (LogObserver) Notify(ctx context.Context, ev entity.MetricsEvent) error {
	args := []any{"event", ev.Label(), "title", ev.Title}
	if ev.Error != "" {
		args = append(args, "error", ev.Error)
	}
	logger.Info(ctx, "metrics lifecycle", args...)
	return nil
}

// PrometheusObserver 按事件计数
type PrometheusObserver struct{}

// Notify 实现 service.MetricsObserver
func (PrometheusObserver) Notify(_ context.Context, ev entity.MetricsEvent) error {
	pkgmetrics.MetricsLifecycleEvents.WithLabelValues(ev.Label()).Inc()
	return nil
}
