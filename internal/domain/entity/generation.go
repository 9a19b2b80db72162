// Package entity 定义领域实体
package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	apperrors "github.com/viratco/idea/pkg/errors"
)

// RiskLevel 风险偏好
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Valid 判断风险偏好是否合法（大小写不敏感）
func (r RiskLevel) Valid() bool {
	switch RiskLevel(strings.ToLower(strings.TrimSpace(string(r)))) {
	case RiskLow, RiskMedium, RiskHigh:
		return true
	default:
		return false
	}
}

// Budget 预算区间，JSON 形式为 [min, max]
type Budget struct {
	Min float64
	Max float64
}

// MarshalJSON 输出为二元数组
func (b Budget) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{b.Min, b.Max})
}

// UnmarshalJSON 接受 [min, max]；单值 [v] 视为 [0, v]（前端滑块只给出上限）
// null 与缺省字段一致，保持零值
func (b *Budget) UnmarshalJSON(data []byte) error {
	if string(bytes.TrimSpace(data)) == "null" {
		return nil
	}
	var values []float64
	if err := json.Unmarshal(data, &values); err != nil {
		return fmt.Errorf("budget must be an array of numbers: %w", err)
	}
	switch len(values) {
	case 1:
		b.Min, b.Max = 0, values[0]
	case 2:
		b.Min, b.Max = values[0], values[1]
	default:
		return fmt.Errorf("budget must contain one or two bounds, got %d", len(values))
	}
	return nil
}

// Range 返回提示词中使用的 "$lo - $hi" 形式
func (b Budget) Range() string {
	return "$" + FormatAmount(b.Min) + " - $" + FormatAmount(b.Max)
}

// FormatAmount 以最短十进制形式输出金额（2000 -> "2000", 2500.5 -> "2500.5"）
func FormatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// GenerationParameters 创意生成参数
type GenerationParameters struct {
	Budget             Budget    `json:"budget"`
	UserType           string    `json:"userType"`
	Industries         []string  `json:"industries"`
	TechnicalSkills    []string  `json:"technicalSkills"`
	TimeCommitment     string    `json:"timeCommitment"`
	RiskLevel          RiskLevel `json:"riskLevel"`
	Challenges         []string  `json:"challenges"`
	FocusNiche         string    `json:"focusNiche,omitempty"`
	SuggestTrending    bool      `json:"suggestTrending"`
	SuggestCompetitors bool      `json:"suggestCompetitors"`
}

// Validate 校验生成参数，失败返回 InvalidParam 错误
func (p *GenerationParameters) Validate() error {
	if p == nil {
		return apperrors.NewInvalidParamError("Generation parameters are required")
	}

	hasIndustry := false
	for _, ind := range p.Industries {
		if strings.TrimSpace(ind) != "" {
			hasIndustry = true
			break
		}
	}
	if !hasIndustry {
		return apperrors.NewInvalidParamError("At least one industry is required")
	}

	lo, hi := p.Budget.Min, p.Budget.Max
	if math.IsNaN(lo) || math.IsNaN(hi) || math.IsInf(lo, 0) || math.IsInf(hi, 0) {
		return apperrors.NewInvalidParamError("Budget bounds must be finite numbers")
	}
	if lo < 0 || hi < 0 {
		return apperrors.NewInvalidParamError("Budget bounds must be non-negative")
	}
	if lo > hi {
		return apperrors.NewInvalidParamError("Budget minimum must not exceed maximum").
			WithDetail(p.Budget.Range())
	}

	if !p.RiskLevel.Valid() {
		return apperrors.NewInvalidParamError("Risk level must be one of low, medium, high").
			WithDetail(string(p.RiskLevel))
	}
	return nil
}
