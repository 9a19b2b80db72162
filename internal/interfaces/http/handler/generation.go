// Package handler 提供 HTTP 请求处理器
package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/viratco/idea/internal/domain/entity"
	"github.com/viratco/idea/internal/domain/service"
	"github.com/viratco/idea/internal/interfaces/http/dto"
	apperrors "github.com/viratco/idea/pkg/errors"
	"github.com/viratco/idea/pkg/logger"
)

// IdeaGenerator 创意生成流程
type IdeaGenerator interface {
	Generate(ctx context.Context, p *entity.GenerationParameters) (string, error)
}

// PlanGenerator 商业计划生成流程
type PlanGenerator interface {
	Generate(ctx context.Context, req entity.BusinessPlanRequest) (*entity.BusinessPlanResult, error)
}

// MetricsGenerator 指标生成流程
type MetricsGenerator interface {
	Generate(ctx context.Context, req entity.MetricsRequest, extra ...service.MetricsObserver) (*entity.ExtractedMetrics, error)
}

// 兜底错误消息
const (
	MsgIdeaFailed        = "Failed to generate idea"
	MsgPlanFailed        = "Failed to generate business plan"
	MsgMetricsFailed     = "Failed to generate metrics"
	MsgInvalidBody       = "Invalid request body"
	MsgPlanFieldsMissing = "Title and idea fitness assessment are required"
	MsgMetricsMissing    = "Idea title and fitness are required"
)

// GenerationHandler 生成接口处理器
type GenerationHandler struct {
	ideas   IdeaGenerator
	plans   PlanGenerator
	metrics MetricsGenerator
}

// NewGenerationHandler 创建生成接口处理器
func NewGenerationHandler(ideas IdeaGenerator, plans PlanGenerator, metrics MetricsGenerator) *GenerationHandler {
	return &GenerationHandler{ideas: ideas, plans: plans, metrics: metrics}
}

// GenerateIdea 生成创意
// @Summary 生成创意
// @Tags Generation
// @Accept json
// @Produce json
// @Param body body dto.GenerateIdeaRequest true "生成参数"
// @Success 200 {string} string "创意文本"
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/generate-idea [post]
func (h *GenerationHandler) GenerateIdea(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.GenerateIdeaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.ErrorWithKind(c, http.StatusBadRequest, MsgInvalidBody,
			"invalid request body: "+err.Error())
		return
	}

	text, err := h.ideas.Generate(ctx, &req)
	if err != nil {
		logger.Error(ctx, "idea generation failed", err, "kind", apperrors.Kind(err))
		dto.ErrorWithKind(c, dto.StatusOf(err), apperrors.UserMessage(err, MsgIdeaFailed), apperrors.Kind(err))
		return
	}

	c.JSON(http.StatusOK, text)
}

// GenerateBusinessPlan 生成商业计划
// @Summary 生成商业计划
// @Tags Generation
// @Accept json
// @Produce json
// @Param body body dto.BusinessPlanRequest true "标题与适配度评估"
// @Success 200 {object} entity.BusinessPlanResult
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/business-plan/generate [post]
func (h *GenerationHandler) GenerateBusinessPlan(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.BusinessPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, MsgPlanFieldsMissing)
		return
	}

	result, err := h.plans.Generate(ctx, req.ToEntity())
	if err != nil {
		logger.Error(ctx, "business plan generation failed", err, "kind", apperrors.Kind(err))
		dto.Error(c, dto.StatusOf(err), apperrors.UserMessage(err, MsgPlanFailed))
		return
	}

	c.JSON(http.StatusOK, result)
}

// GenerateMetrics 生成指标快照
// @Summary 生成指标快照
// @Tags Generation
// @Accept json
// @Produce json
// @Param body body dto.MetricsRequest true "创意标题与适配度"
// @Success 200 {object} entity.ExtractedMetrics
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/metrics/generate [post]
func (h *GenerationHandler) GenerateMetrics(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.MetricsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, MsgMetricsMissing)
		return
	}

	result, err := h.metrics.Generate(ctx, req.ToEntity())
	if err != nil {
		logger.Error(ctx, "metrics generation failed", err, "kind", apperrors.Kind(err))
		dto.Error(c, dto.StatusOf(err), apperrors.UserMessage(err, MsgMetricsFailed))
		return
	}

	c.JSON(http.StatusOK, result)
}
