package node

import (
	"regexp"
	"strings"

	"github.com/viratco/idea/internal/domain/entity"
)

// metricField 单个指标字段的提取规则
type metricField struct {
	Name    string
	Pattern *regexp.Regexp
	// Compact 为 true 的金额/规模字段去除所有空白（"5 M" -> "5M"），其余字段只 trim
	Compact bool
	set     func(m *entity.ExtractedMetrics, v string)
}

// metricFields 六个字段相互独立匹配，只取第一个捕获组
var metricFields = []metricField{
	{
		Name:    "annualRevenuePotential",
		Pattern: regexp.MustCompile(`(?i)Annual Revenue Potential:\s*\$?(\d+(?:\.\d+)?\s*[KMB])`),
		Compact: true,
		set:     func(m *entity.ExtractedMetrics, v string) { m.AnnualRevenuePotential = v },
	},
	{
		Name:    "marketSize",
		Pattern: regexp.MustCompile(`(?i)Market Size:\s*\$?(\d+(?:\.\d+)?\s*[KMB])`),
		Compact: true,
		set:     func(m *entity.ExtractedMetrics, v string) { m.MarketSize = v },
	},
	{
		Name:    "projectedUsers",
		Pattern: regexp.MustCompile(`(?i)Projected Users:\s*(\d+(?:\.\d+)?\s*K)`),
		Compact: true,
		set:     func(m *entity.ExtractedMetrics, v string) { m.ProjectedUsers = v },
	},
	{
		Name:    "timeToBreakeven",
		Pattern: regexp.MustCompile(`(?i)Time to Breakeven:\s*(\d+(?:\.\d+)?)`),
		set:     func(m *entity.ExtractedMetrics, v string) { m.TimeToBreakeven = v },
	},
	{
		Name:    "initialInvestment",
		Pattern: regexp.MustCompile(`(?i)Initial Investment:\s*\$?(\d+(?:\.\d+)?\s*[KM])`),
		Compact: true,
		set:     func(m *entity.ExtractedMetrics, v string) { m.InitialInvestment = v },
	},
	{
		Name:    "competitiveEdge",
		Pattern: regexp.MustCompile(`(?i)Competitive Edge:\s*(\d+(?:\.\d+)?)`),
		set:     func(m *entity.ExtractedMetrics, v string) { m.CompetitiveEdge = v },
	},
}

// MetricFieldNames 按固定顺序返回字段名
func MetricFieldNames() []string {
	names := make([]string, 0, len(metricFields))
	for _, f := range metricFields {
		names = append(names, f.Name)
	}
	return names
}

// ExtractionResult 字段提取结果
type ExtractionResult struct {
	Metrics entity.ExtractedMetrics
	// Matched 命中的字段名
	Matched []string
	// Defaulted 使用占位符的字段名
	Defaulted []string
}

// AllDefaulted 六个字段都未命中
func (r ExtractionResult) AllDefaulted() bool {
	return len(r.Matched) == 0
}

// ExtractMetrics 从模型输出中提取六个指标，未命中的字段填入 placeholder
func ExtractMetrics(text string, placeholder string) ExtractionResult {
	var res ExtractionResult
	for _, f := range metricFields {
		value := ""
		if m := f.Pattern.FindStringSubmatch(text); len(m) > 1 {
			value = strings.TrimSpace(m[1])
		}
		if value == "" {
			f.set(&res.Metrics, placeholder)
			res.Defaulted = append(res.Defaulted, f.Name)
			continue
		}
		if f.Compact {
			value = StripWhitespace(value)
		}
		f.set(&res.Metrics, value)
		res.Matched = append(res.Matched, f.Name)
	}
	return res
}
