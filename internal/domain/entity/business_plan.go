package entity

import (
	"strings"

	apperrors "github.com/viratco/idea/pkg/errors"
)

// MetricsStatus 指标快照状态
type MetricsStatus string

const (
	MetricsProcessing MetricsStatus = "processing"
	MetricsComplete   MetricsStatus = "complete"
	MetricsError      MetricsStatus = "error"
)

// 缺失字段占位符：商业计划流程用 "0"，指标流程用 "N/A"
const (
	PlaceholderZero       = "0"
	PlaceholderNA         = "N/A"
	PlaceholderProcessing = "Processing..."
)

// ExtractedMetrics 从模型输出中提取的商业指标
type ExtractedMetrics struct {
	AnnualRevenuePotential string        `json:"annualRevenuePotential"`
	MarketSize             string        `json:"marketSize"`
	ProjectedUsers         string        `json:"projectedUsers"`
	TimeToBreakeven        string        `json:"timeToBreakeven"`
	InitialInvestment      string        `json:"initialInvestment"`
	CompetitiveEdge        string        `json:"competitiveEdge"`
	LastUpdated            string        `json:"lastUpdated,omitempty"`
	Status                 MetricsStatus `json:"status,omitempty"`
}

// FilledMetrics 六个字段全部为 value 的快照
func FilledMetrics(value string) ExtractedMetrics {
	return ExtractedMetrics{
		AnnualRevenuePotential: value,
		MarketSize:             value,
		ProjectedUsers:         value,
		TimeToBreakeven:        value,
		InitialInvestment:      value,
		CompetitiveEdge:        value,
	}
}

// Fields 按固定顺序返回六个字段值
func (m ExtractedMetrics) Fields() []string {
	return []string{
		m.AnnualRevenuePotential,
		m.MarketSize,
		m.ProjectedUsers,
		m.TimeToBreakeven,
		m.InitialInvestment,
		m.CompetitiveEdge,
	}
}

// BusinessPlanRequest 商业计划生成请求
type BusinessPlanRequest struct {
	Title       string `json:"title"`
	IdeaFitness string `json:"ideaFitness"`
}

// Validate 标题和适配度评估均不能为空
func (r BusinessPlanRequest) Validate() error {
	if strings.TrimSpace(r.Title) == "" || strings.TrimSpace(r.IdeaFitness) == "" {
		return apperrors.NewInvalidParamError("Title and idea fitness assessment are required")
	}
	return nil
}

// BusinessPlanResult 商业计划生成结果
type BusinessPlanResult struct {
	Title        string           `json:"title"`
	Introduction string           `json:"introduction"`
	Metrics      ExtractedMetrics `json:"metrics"`
}

// MetricsRequest 独立指标生成请求
type MetricsRequest struct {
	IdeaTitle   string `json:"ideaTitle"`
	IdeaFitness string `json:"ideaFitness"`
}

// Validate 标题和适配度均不能为空
func (r MetricsRequest) Validate() error {
	if strings.TrimSpace(r.IdeaTitle) == "" || strings.TrimSpace(r.IdeaFitness) == "" {
		return apperrors.NewInvalidParamError("Idea title and fitness are required")
	}
	return nil
}
