package plan

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viratco/idea/internal/domain/entity"
	"github.com/viratco/idea/internal/domain/service"
	"github.com/viratco/idea/internal/infrastructure/llm"
	apperrors "github.com/viratco/idea/pkg/errors"
)

// scriptedCompleter 按调用顺序返回预设内容
type scriptedCompleter struct {
	replies []string
	errs    []error
	flows   []string
}

func (s *scriptedCompleter) Complete(_ context.Context, opts llm.CallOptions, _ []entity.ChatMessage) (*llm.Completion, error) {
	i := len(s.flows)
	s.flows = append(s.flows, opts.Flow)
	if i < len(s.errs) && s.errs[i] != nil {
		return nil, s.errs[i]
	}
	content := ""
	if i < len(s.replies) {
		content = s.replies[i]
	}
	return &llm.Completion{Raw: map[string]any{
		"choices": []any{map[string]any{"message": map[string]any{"content": content}}},
	}}, nil
}

const metricsReply = `Annual Revenue Potential: $1.2 M
Market Size: 50B
Projected Users: 25 K
Time to Breakeven: 14
Initial Investment: $80K
Competitive Edge: 7.5`

func request() entity.BusinessPlanRequest {
	return entity.BusinessPlanRequest{Title: "EcoBox", IdeaFitness: "Strong fit."}
}

func TestGenerate(t *testing.T) {
	c := &scriptedCompleter{replies: []string{"  EcoBox ships compostable packaging.  \n", metricsReply}}

	res, err := NewGenerator(c, nil, llm.CallOptions{}).Generate(context.Background(), request())
	require.NoError(t, err)

	assert.Equal(t, "EcoBox", res.Title)
	assert.Equal(t, "EcoBox ships compostable packaging.", res.Introduction)
	assert.Equal(t, entity.ExtractedMetrics{
		AnnualRevenuePotential: "1.2M",
		MarketSize:             "50B",
		ProjectedUsers:         "25K",
		TimeToBreakeven:        "14",
		InitialInvestment:      "80K",
		CompetitiveEdge:        "7.5",
	}, res.Metrics)
	assert.Equal(t, []string{service.FlowPlanIntroduction, service.FlowPlanMetrics}, c.flows)
}

func TestGenerate_PartialMetricsUseZero(t *testing.T) {
	c := &scriptedCompleter{replies: []string{"Intro.", "Market Size: 3B"}}

	res, err := NewGenerator(c, nil, llm.CallOptions{}).Generate(context.Background(), request())
	require.NoError(t, err)
	assert.Equal(t, "3B", res.Metrics.MarketSize)
	assert.Equal(t, "0", res.Metrics.AnnualRevenuePotential)
	assert.Equal(t, "0", res.Metrics.CompetitiveEdge)
}

func TestGenerate_Failures(t *testing.T) {
	tests := []struct {
		name      string
		completer *scriptedCompleter
		code      apperrors.ErrorCode
		message   string
		calls     int
	}{
		{
			name:      "empty introduction",
			completer: &scriptedCompleter{replies: []string{"   "}},
			code:      apperrors.CodeIncompleteContent,
			message:   MsgEmptyIntroduction,
			calls:     1,
		},
		{
			name:      "empty metrics",
			completer: &scriptedCompleter{replies: []string{"Intro.", "\n"}},
			code:      apperrors.CodeIncompleteContent,
			message:   MsgEmptyMetrics,
			calls:     2,
		},
		{
			name:      "nothing extracted",
			completer: &scriptedCompleter{replies: []string{"Intro.", "I cannot estimate these numbers."}},
			code:      apperrors.CodeExtraction,
			message:   MsgExtractionFailed,
			calls:     2,
		},
		{
			name:      "introduction upstream error",
			completer: &scriptedCompleter{errs: []error{apperrors.NewTimeoutError(context.DeadlineExceeded)}},
			code:      apperrors.CodeUpstreamTimeout,
			message:   apperrors.MsgTimeout,
			calls:     1,
		},
		{
			name:      "metrics upstream error",
			completer: &scriptedCompleter{replies: []string{"Intro."}, errs: []error{nil, apperrors.NewUpstreamHTTPError(401, "")}},
			code:      apperrors.CodeUpstreamHTTP,
			message:   apperrors.MsgUnauthorized,
			calls:     2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := NewGenerator(tt.completer, nil, llm.CallOptions{}).Generate(context.Background(), request())
			require.Error(t, err)
			assert.Nil(t, res)
			assert.True(t, apperrors.IsCode(err, tt.code), err.Error())
			assert.Equal(t, tt.message, apperrors.UserMessage(err, ""))
			assert.Len(t, tt.completer.flows, tt.calls)
		})
	}
}

func TestGenerate_InvalidRequest(t *testing.T) {
	c := &scriptedCompleter{}
	_, err := NewGenerator(c, nil, llm.CallOptions{}).Generate(context.Background(), entity.BusinessPlanRequest{Title: " ", IdeaFitness: "x"})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeInvalidParam))
	assert.Equal(t, "Title and idea fitness assessment are required", apperrors.UserMessage(err, ""))
	assert.Empty(t, c.flows)
}
