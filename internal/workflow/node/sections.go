package node

import (
	"strings"

	apperrors "github.com/viratco/idea/pkg/errors"
)

// RequiredIdeaSections 创意文本必须包含的段落标题
var RequiredIdeaSections = []string{"Title:", "Description:", "Market Analysis:", "Required Skills:"}

// DeepInsightsHeader 可选段落标题，缺失时补默认内容
const DeepInsightsHeader = "Deep Insights:"

// DefaultDeepInsights 模型遗漏 Deep Insights 段时追加的默认内容
const DefaultDeepInsights = `1. Market Demand: The idea targets a growing market segment with clear customer needs. Initial research suggests strong potential for early adoption among the target audience. Focus on validating market assumptions through customer interviews and surveys.

2. Technological Feasibility: Implementation can be achieved using readily available tools and technologies. The MVP can be built using low-code solutions and free-tier services initially. Technical complexity is kept minimal to match the budget constraints.

3. Customer Retention: Focus on delivering core value proposition effectively. Build strong customer relationships through personalized support and regular feedback collection. Implement basic but effective engagement strategies.

4. Growth Strategy: Start with a focused niche market and expand gradually. Use organic growth and word-of-mouth marketing initially. Scale operations based on validated demand and customer feedback.`

// MissingSections 返回文本中缺失的必需段落（大小写敏感的子串匹配）
func MissingSections(text string, required []string) []string {
	var missing []string
	for _, h := range required {
		if !strings.Contains(text, h) {
			missing = append(missing, h)
		}
	}
	return missing
}

// CompleteIdeaText 校验必需段落并在缺失时补上 Deep Insights
// 返回值 patched 表示是否追加了默认内容
func CompleteIdeaText(text string) (result string, patched bool, err error) {
	if missing := MissingSections(text, RequiredIdeaSections); len(missing) > 0 {
		return "", false, apperrors.NewIncompleteContentError(apperrors.ReasonMissingSections,
			"Incomplete AI response - missing core sections").
			WithDetail("missing: " + strings.Join(missing, ", "))
	}
	if strings.Contains(text, DeepInsightsHeader) {
		return text, false, nil
	}
	return text + "\n\n" + DeepInsightsHeader + "\n" + DefaultDeepInsights, true, nil
}
