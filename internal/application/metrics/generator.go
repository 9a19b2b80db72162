// Package metrics 编排独立指标生成流程并发布生命周期通知
package metrics

import (
	"context"
	"time"

	"github.com/viratco/idea/internal/domain/entity"
	"github.com/viratco/idea/internal/domain/service"
	"github.com/viratco/idea/internal/infrastructure/llm"
	"github.com/viratco/idea/internal/workflow/node"
	"github.com/viratco/idea/internal/workflow/prompt"
	apperrors "github.com/viratco/idea/pkg/errors"
	"github.com/viratco/idea/pkg/logger"
	pkgmetrics "github.com/viratco/idea/pkg/metrics"
)

// MsgExtractionFailed 未提取到任何指标
const MsgExtractionFailed = "Failed to extract valid metrics from AI service response"

// MsgGenerateFailed 失败通知的兜底消息
const MsgGenerateFailed = "Failed to generate metrics"

// Generator 指标生成器
// 进程级观察者在构造时确定，单次请求可追加自己的观察者，互不串扰
type Generator struct {
	completer llm.Completer
	prompts   *prompt.Builder
	opts      llm.CallOptions
	observers *ObserverSet
	now       func() time.Time
}

// NewGenerator 创建指标生成器
func NewGenerator(completer llm.Completer, prompts *prompt.Builder, opts llm.CallOptions, observers ...service.MetricsObserver) *Generator {
	if prompts == nil {
		prompts = prompt.NewBuilder(nil)
	}
	opts.Flow = service.FlowMetrics
	return &Generator{
		completer: completer,
		prompts:   prompts,
		opts:      opts,
		observers: NewObserverSet(observers...),
		now:       time.Now,
	}
}

// Generate 生成指标快照
// 通知顺序：processing 快照，然后 complete 快照；失败时为全 N/A 的 error 快照加一条失败通知
func (g *Generator) Generate(ctx context.Context, req entity.MetricsRequest, extra ...service.MetricsObserver) (result *entity.ExtractedMetrics, err error) {
	ctx = logger.WithContext(service.WithFlow(ctx, service.FlowMetrics), logger.FlowKey, service.FlowMetrics)
	start := time.Now()
	defer func() {
		kind := ""
		if err != nil {
			kind = apperrors.Kind(err)
		}
		pkgmetrics.ObserveGeneration(service.FlowMetrics, kind, time.Since(start))
	}()

	if err := req.Validate(); err != nil {
		return nil, err
	}

	observers := g.observers.With(extra...)
	g.publish(ctx, observers, req.IdeaTitle, g.snapshot(entity.PlaceholderProcessing, entity.MetricsProcessing))

	extracted, err := g.extract(ctx, req)
	if err != nil {
		g.publish(ctx, observers, req.IdeaTitle, g.snapshot(entity.PlaceholderNA, entity.MetricsError))
		_ = observers.Notify(ctx, entity.MetricsEvent{
			Event: entity.MetricsEventFailed,
			Title: req.IdeaTitle,
			Error: apperrors.UserMessage(err, MsgGenerateFailed),
		})
		return nil, err
	}

	extracted.Status = entity.MetricsComplete
	extracted.LastUpdated = g.timestamp()
	g.publish(ctx, observers, req.IdeaTitle, extracted)
	return &extracted, nil
}

func (g *Generator) extract(ctx context.Context, req entity.MetricsRequest) (entity.ExtractedMetrics, error) {
	messages, err := g.prompts.MetricsSnapshot(req.IdeaTitle, req.IdeaFitness)
	if err != nil {
		return entity.ExtractedMetrics{}, apperrors.Wrap(err, apperrors.CodeInternalError, "Failed to build metrics prompt")
	}

	text, err := llm.CompleteText(ctx, g.completer, g.opts, messages)
	if err != nil {
		return entity.ExtractedMetrics{}, err
	}

	res := node.ExtractMetrics(text, entity.PlaceholderNA)
	for _, name := range res.Matched {
		pkgmetrics.MetricsExtracted.WithLabelValues(service.FlowMetrics, name, "matched").Inc()
	}
	for _, name := range res.Defaulted {
		pkgmetrics.MetricsExtracted.WithLabelValues(service.FlowMetrics, name, "defaulted").Inc()
	}
	if res.AllDefaulted() {
		logger.Warn(ctx, "no metrics matched in response", "preview", node.TruncateByRunes(text, 200))
		return entity.ExtractedMetrics{}, apperrors.NewExtractionError(MsgExtractionFailed)
	}
	return res.Metrics, nil
}

func (g *Generator) snapshot(value string, status entity.MetricsStatus) entity.ExtractedMetrics {
	m := entity.FilledMetrics(value)
	m.Status = status
	m.LastUpdated = g.timestamp()
	return m
}

func (g *Generator) timestamp() string {
	return g.now().UTC().Format(time.RFC3339)
}

func (g *Generator) publish(ctx context.Context, observers *ObserverSet, title string, m entity.ExtractedMetrics) {
	_ = observers.Notify(ctx, entity.MetricsEvent{
		Event:   entity.MetricsEventUpdate,
		Title:   title,
		Metrics: &m,
	})
}
