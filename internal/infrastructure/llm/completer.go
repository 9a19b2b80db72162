package llm

import (
	"context"

	"github.com/viratco/idea/internal/domain/entity"
	"github.com/viratco/idea/internal/workflow/node"
)

// Completer 补全调用抽象，应用层依赖此接口以便测试替换
type Completer interface {
	Complete(ctx context.Context, opts CallOptions, messages []entity.ChatMessage) (*Completion, error)
}

var _ Completer = (*OpenRouterClient)(nil)

// CompleteText 调用补全并校验响应结构，返回首个回答的文本
func CompleteText(ctx context.Context, c Completer, opts CallOptions, messages []entity.ChatMessage) (string, error) {
	resp, err := c.Complete(ctx, opts, messages)
	if err != nil {
		return "", err
	}
	return node.ValidateCompletion(resp.Raw)
}
