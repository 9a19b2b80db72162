package dto

import (
	"github.com/viratco/idea/internal/domain/entity"
)

// GenerateIdeaRequest 创意生成请求体，字段与 entity.GenerationParameters 一致
type GenerateIdeaRequest = entity.GenerationParameters

// BusinessPlanRequest 商业计划请求体
type BusinessPlanRequest struct {
	Title       string `json:"title"`
	IdeaFitness string `json:"ideaFitness"`
}

// ToEntity 转换为领域请求
func (r BusinessPlanRequest) ToEntity() entity.BusinessPlanRequest {
	return entity.BusinessPlanRequest{Title: r.Title, IdeaFitness: r.IdeaFitness}
}

// MetricsRequest 指标生成请求体
type MetricsRequest struct {
	IdeaTitle   string `json:"ideaTitle"`
	IdeaFitness string `json:"ideaFitness"`
}

// ToEntity 转换为领域请求
func (r MetricsRequest) ToEntity() entity.MetricsRequest {
	return entity.MetricsRequest{IdeaTitle: r.IdeaTitle, IdeaFitness: r.IdeaFitness}
}
