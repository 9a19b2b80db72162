package node

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/viratco/idea/internal/domain/entity"
)

func TestExtractMetrics_AllFields(t *testing.T) {
	text := "Annual Revenue Potential: $5 M\n" +
		"Market Size: 2.5B\n" +
		"Projected Users: 10 K\n" +
		"Time to Breakeven: 18 months\n" +
		"Initial Investment: $250K\n" +
		"Competitive Edge: 8.5\n"

	res := ExtractMetrics(text, entity.PlaceholderZero)
	assert.Equal(t, entity.ExtractedMetrics{
		AnnualRevenuePotential: "5M",
		MarketSize:             "2.5B",
		ProjectedUsers:         "10K",
		TimeToBreakeven:        "18",
		InitialInvestment:      "250K",
		CompetitiveEdge:        "8.5",
	}, res.Metrics)
	assert.Len(t, res.Matched, 6)
	assert.Empty(t, res.Defaulted)
	assert.False(t, res.AllDefaulted())
}

func TestExtractMetrics_CaseInsensitiveAndPartial(t *testing.T) {
	text := "annual revenue potential: 3m\nMARKET SIZE: $40 b\nsome noise"

	res := ExtractMetrics(text, entity.PlaceholderNA)
	assert.Equal(t, "3m", res.Metrics.AnnualRevenuePotential)
	assert.Equal(t, "40b", res.Metrics.MarketSize)
	assert.Equal(t, entity.PlaceholderNA, res.Metrics.ProjectedUsers)
	assert.Equal(t, entity.PlaceholderNA, res.Metrics.TimeToBreakeven)
	assert.Equal(t, entity.PlaceholderNA, res.Metrics.InitialInvestment)
	assert.Equal(t, entity.PlaceholderNA, res.Metrics.CompetitiveEdge)
	assert.Equal(t, []string{"annualRevenuePotential", "marketSize"}, res.Matched)
}

func TestExtractMetrics_UnitsRestricted(t *testing.T) {
	// 用户数只接受 K，初始投资不接受 B
	text := "Projected Users: 2M\nInitial Investment: 1B"
	res := ExtractMetrics(text, entity.PlaceholderZero)
	assert.Equal(t, "0", res.Metrics.ProjectedUsers)
	assert.Equal(t, "0", res.Metrics.InitialInvestment)
	assert.True(t, res.AllDefaulted())
}

func TestExtractMetrics_FirstMatchWins(t *testing.T) {
	res := ExtractMetrics("Competitive Edge: 7\nCompetitive Edge: 9", entity.PlaceholderNA)
	assert.Equal(t, "7", res.Metrics.CompetitiveEdge)
}

func TestExtractMetrics_Empty(t *testing.T) {
	res := ExtractMetrics("", entity.PlaceholderNA)
	assert.Equal(t, entity.FilledMetrics(entity.PlaceholderNA), res.Metrics)
	assert.Equal(t, MetricFieldNames(), res.Defaulted)
	assert.True(t, res.AllDefaulted())
}
