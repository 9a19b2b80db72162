package prompt

import (
	"embed"
	"fmt"
	"strings"
	"sync"
	"text/template"
)

//go:embed templates/*.txt
var templatesFS embed.FS

// compiled 已加载的提示词：system 文本 + 解析后的用户模板
type compiled struct {
	system string
	user   *template.Template
}

// Registry 按 PromptID 加载并缓存模板
type Registry struct {
	mu    sync.RWMutex
	cache map[PromptID]*compiled
}

// NewRegistry 创建模板注册表
func NewRegistry() *Registry {
	return &Registry{
		cache: make(map[PromptID]*compiled),
	}
}

func (r *Registry) get(id PromptID) (*compiled, error) {
	if r == nil {
		return nil, fmt.Errorf("prompt registry is nil")
	}

	r.mu.RLock()
	if c, ok := r.cache[id]; ok {
		r.mu.RUnlock()
		return c, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.cache[id]; ok {
		return c, nil
	}

	tpl, err := resolveTemplate(id)
	if err != nil {
		return nil, err
	}
	system, err := readEmbeddedText(fmt.Sprintf("templates/%s.system.txt", id))
	if err != nil {
		return nil, err
	}
	user, err := tpl.compile()
	if err != nil {
		return nil, err
	}

	c := &compiled{system: system, user: user}
	r.cache[id] = c
	return c, nil
}

// Template 返回 id 对应的结构化模板
func (r *Registry) Template(id PromptID) (Template, error) {
	return resolveTemplate(id)
}

func resolveTemplate(id PromptID) (Template, error) {
	switch id {
	case PromptIdeaGenerationV1:
		return IdeaGenerationV1, nil
	case PromptPlanIntroductionV1:
		return PlanIntroductionV1, nil
	case PromptPlanMetricsV1:
		return PlanMetricsV1, nil
	case PromptMetricsSnapshotV1:
		return MetricsSnapshotV1, nil
	default:
		return Template{}, fmt.Errorf("unknown prompt id: %s", id)
	}
}

func readEmbeddedText(path string) (string, error) {
	b, err := templatesFS.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}
