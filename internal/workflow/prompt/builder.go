package prompt

import (
	"strings"

	"github.com/viratco/idea/internal/domain/entity"
)

// Builder 将领域参数渲染为补全消息。同样的输入总是得到字节一致的输出
type Builder struct {
	registry *Registry
}

// NewBuilder 创建提示词构建器
func NewBuilder(registry *Registry) *Builder {
	if registry == nil {
		registry = NewRegistry()
	}
	return &Builder{registry: registry}
}

type ideaView struct {
	Budget             string
	MaxBudget          string
	UserType           string
	Industries         string
	TechnicalSkills    string
	TimeCommitment     string
	RiskLevel          string
	Challenges         string
	FocusNiche         string
	SuggestTrending    bool
	SuggestCompetitors bool
}

type planView struct {
	Title       string
	IdeaFitness string
}

// Idea 渲染创意生成消息
func (b *Builder) Idea(p entity.GenerationParameters) ([]entity.ChatMessage, error) {
	return b.render(PromptIdeaGenerationV1, ideaView{
		Budget:             p.Budget.Range(),
		MaxBudget:          "$" + entity.FormatAmount(p.Budget.Max),
		UserType:           p.UserType,
		Industries:         joinList(p.Industries),
		TechnicalSkills:    joinList(p.TechnicalSkills),
		TimeCommitment:     p.TimeCommitment,
		RiskLevel:          string(p.RiskLevel),
		Challenges:         joinList(p.Challenges),
		FocusNiche:         strings.TrimSpace(p.FocusNiche),
		SuggestTrending:    p.SuggestTrending,
		SuggestCompetitors: p.SuggestCompetitors,
	})
}

// PlanIntroduction 渲染商业计划简介消息
func (b *Builder) PlanIntroduction(req entity.BusinessPlanRequest) ([]entity.ChatMessage, error) {
	return b.render(PromptPlanIntroductionV1, planView{Title: req.Title, IdeaFitness: req.IdeaFitness})
}

// PlanMetrics 渲染商业计划指标消息
func (b *Builder) PlanMetrics(req entity.BusinessPlanRequest) ([]entity.ChatMessage, error) {
	return b.render(PromptPlanMetricsV1, planView{Title: req.Title, IdeaFitness: req.IdeaFitness})
}

// MetricsSnapshot 渲染独立指标接口消息
func (b *Builder) MetricsSnapshot(title, ideaFitness string) ([]entity.ChatMessage, error) {
	return b.render(PromptMetricsSnapshotV1, planView{Title: title, IdeaFitness: ideaFitness})
}

func (b *Builder) render(id PromptID, data any) ([]entity.ChatMessage, error) {
	c, err := b.registry.get(id)
	if err != nil {
		return nil, err
	}
	user, err := execute(c.user, data)
	if err != nil {
		return nil, err
	}
	return []entity.ChatMessage{
		entity.SystemMessage(c.system),
		entity.UserMessage(user),
	}, nil
}

// joinList 以逗号连接非空项，空列表输出 none
func joinList(items []string) string {
	kept := make([]string, 0, len(items))
	for _, it := range items {
		if s := strings.TrimSpace(it); s != "" {
			kept = append(kept, s)
		}
	}
	if len(kept) == 0 {
		return "none"
	}
	return strings.Join(kept, ", ")
}
