package entity

// MetricsEventType 指标流程通知类型
type MetricsEventType string

const (
	// MetricsEventUpdate 指标快照更新（processing/complete/error）
	MetricsEventUpdate MetricsEventType = "metrics_update"
	// MetricsEventFailed 指标流程失败，在 error 快照之后单独发送
	MetricsEventFailed MetricsEventType = "metrics_error"
)

// MetricsEvent 指标流程生命周期通知
type MetricsEvent struct {
	Event   MetricsEventType  `json:"event"`
	Title   string            `json:"ideaTitle,omitempty"`
	Metrics *ExtractedMetrics `json:"metrics,omitempty"`
	Error   string            `json:"error,omitempty"`
}

// Label 用于日志和指标标签：更新事件取快照状态，失败事件取 failed
func (e MetricsEvent) Label() string {
	if e.Event == MetricsEventFailed {
		return "failed"
	}
	if e.Metrics != nil && e.Metrics.Status != "" {
		return string(e.Metrics.Status)
	}
	return string(e.Event)
}
