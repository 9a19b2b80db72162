// Package plan 编排商业计划生成流程
package plan

import (
	"context"
	"strings"
	"time"

	"github.com/viratco/idea/internal/domain/entity"
	"github.com/viratco/idea/internal/domain/service"
	"github.com/viratco/idea/internal/infrastructure/llm"
	"github.com/viratco/idea/internal/workflow/node"
	"github.com/viratco/idea/internal/workflow/prompt"
	apperrors "github.com/viratco/idea/pkg/errors"
	"github.com/viratco/idea/pkg/logger"
	"github.com/viratco/idea/pkg/metrics"
)

const flowPlan = "plan"

// 失败消息
const (
	MsgEmptyIntroduction = "Empty introduction received from AI service"
	MsgEmptyMetrics      = "Empty metrics received from AI service"
	MsgExtractionFailed  = "Failed to extract valid metrics from AI service response"
)

// Generator 商业计划生成器
// 简介与指标两次调用顺序执行，避免重试等待期间加倍上游并发
type Generator struct {
	completer llm.Completer
	prompts   *prompt.Builder
	opts      llm.CallOptions
}

// NewGenerator 创建商业计划生成器
func NewGenerator(completer llm.Completer, prompts *prompt.Builder, opts llm.CallOptions) *Generator {
	if prompts == nil {
		prompts = prompt.NewBuilder(nil)
	}
	return &Generator{completer: completer, prompts: prompts, opts: opts}
}

// Generate 生成简介与指标，任一步失败则整体失败
func (g *Generator) Generate(ctx context.Context, req entity.BusinessPlanRequest) (result *entity.BusinessPlanResult, err error) {
	ctx = logger.WithContext(ctx, logger.FlowKey, flowPlan)
	start := time.Now()
	defer func() {
		kind := ""
		if err != nil {
			kind = apperrors.Kind(err)
		}
		metrics.ObserveGeneration(flowPlan, kind, time.Since(start))
	}()

	if err := req.Validate(); err != nil {
		return nil, err
	}

	introduction, err := g.introduction(ctx, req)
	if err != nil {
		return nil, err
	}

	extracted, err := g.metrics(ctx, req)
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "business plan generated", "title", req.Title)
	return &entity.BusinessPlanResult{
		Title:        req.Title,
		Introduction: introduction,
		Metrics:      extracted,
	}, nil
}

func (g *Generator) introduction(ctx context.Context, req entity.BusinessPlanRequest) (string, error) {
	messages, err := g.prompts.PlanIntroduction(req)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.CodeInternalError, "Failed to build introduction prompt")
	}

	opts := g.opts
	opts.Flow = service.FlowPlanIntroduction
	text, err := llm.CompleteText(ctx, g.completer, opts, messages)
	if err != nil {
		return "", err
	}

	introduction := strings.TrimSpace(text)
	if introduction == "" {
		return "", apperrors.NewIncompleteContentError(apperrors.ReasonEmptyIntroduction, MsgEmptyIntroduction)
	}
	return introduction, nil
}

func (g *Generator) metrics(ctx context.Context, req entity.BusinessPlanRequest) (entity.ExtractedMetrics, error) {
	messages, err := g.prompts.PlanMetrics(req)
	if err != nil {
		return entity.ExtractedMetrics{}, apperrors.Wrap(err, apperrors.CodeInternalError, "Failed to build metrics prompt")
	}

	opts := g.opts
	opts.Flow = service.FlowPlanMetrics
	text, err := llm.CompleteText(ctx, g.completer, opts, messages)
	if err != nil {
		return entity.ExtractedMetrics{}, err
	}
	if strings.TrimSpace(text) == "" {
		return entity.ExtractedMetrics{}, apperrors.NewIncompleteContentError(apperrors.ReasonEmptyMetrics, MsgEmptyMetrics)
	}

	res := node.ExtractMetrics(text, entity.PlaceholderZero)
	recordExtraction(service.FlowPlanMetrics, res)
	if res.AllDefaulted() {
		logger.Warn(ctx, "no metrics matched in plan response", "preview", node.TruncateByRunes(text, 200))
		return entity.ExtractedMetrics{}, apperrors.NewExtractionError(MsgExtractionFailed)
	}
	if len(res.Defaulted) > 0 {
		logger.Info(ctx, "plan metrics partially defaulted", "defaulted", res.Defaulted)
	}
	return res.Metrics, nil
}

func recordExtraction(flow string, res node.ExtractionResult) {
	for _, name := range res.Matched {
		metrics.MetricsExtracted.WithLabelValues(flow, name, "matched").Inc()
	}
	for _, name := range res.Defaulted {
		metrics.MetricsExtracted.WithLabelValues(flow, name, "defaulted").Inc()
	}
}
