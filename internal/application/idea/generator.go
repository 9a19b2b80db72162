// Package idea 编排创意生成流程
package idea

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
	"github.com/viratco/idea/pkg/metrics"
)

// Generator 创意生成器：构建提示词、调用一次补全、校验必需段落
type Generator struct {
	completer llm.Completer
	prompts   *prompt.Builder
	opts      llm.CallOptions
}

// NewGenerator 创建创意生成器
func NewGenerator(completer llm.Completer, prompts *prompt.Builder, opts llm.CallOptions) *Generator {
	if prompts == nil {
		prompts = prompt.NewBuilder(nil)
	}
	opts.Flow = service.FlowIdea
	return &Generator{completer: completer, prompts: prompts, opts: opts}
}

// Generate 根据用户参数生成创意文本
func (g *Generator) Generate(ctx context.Context, p *entity.GenerationParameters) (text string, err error) {
	ctx = logger.WithContext(service.WithFlow(ctx, service.FlowIdea), logger.FlowKey, service.FlowIdea)
	start := time.Now()
	defer func() {
		metrics.ObserveGeneration(service.FlowIdea, errorKind(err), time.Since(start))
	}()

	if err := p.Validate(); err != nil {
		return "", err
	}

	messages, err := g.prompts.Idea(*p)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.CodeInternalError, "Failed to build idea prompt")
	}

	raw, err := llm.CompleteText(ctx, g.completer, g.opts, messages)
	if err != nil {
		return "", err
	}

	text, patched, err := node.CompleteIdeaText(raw)
	if err != nil {
		logger.Warn(ctx, "idea response incomplete",
			"detail", apperrors.AsAppError(err).Detail,
			"preview", node.TruncateByRunes(raw, 200),
		)
		return "", err
	}
	if patched {
		logger.Info(ctx, "deep insights section missing, default block appended")
	}

	logger.Info(ctx, "idea generated", "chars", len(text))
	return text, nil
}

func errorKind(err error) string {
	if err == nil {
		return ""
	}
	return apperrors.Kind(err)
}
