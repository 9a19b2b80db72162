// Package prompt 提供版本化的提示词模板与渲染
package prompt

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"text/template"
)

// PromptID 模板标识，包含版本后缀
type PromptID string

const (
	PromptIdeaGenerationV1   PromptID = "idea_generation_v1"
	PromptPlanIntroductionV1 PromptID = "plan_introduction_v1"
	PromptPlanMetricsV1      PromptID = "plan_metrics_v1"
	PromptMetricsSnapshotV1  PromptID = "metrics_snapshot_v1"
)

// Section 模板中的一个输出段落
// Instruction 为 text/template 片段，可引用渲染数据
type Section struct {
	Name        string
	Instruction string
	// Inline 为 true 时指令与段名同行（"Title: [...]"），否则另起一行
	Inline bool
}

// Template 版本化的用户提示词模板
// 渲染顺序：Preamble、SectionsHeading + Sections、RulesHeading + Rules、Closing，非空部分以空行分隔
type Template struct {
	ID              PromptID
	Version         string
	Preamble        string
	SectionsHeading string
	Sections        []Section
	// Compact 为 true 时段落之间只用单个换行
	Compact      bool
	RulesHeading string
	Rules        []string
	Closing      string
}

// SectionNames 按顺序返回段落名
func (t Template) SectionNames() []string {
	names := make([]string, 0, len(t.Sections))
	for _, s := range t.Sections {
		names = append(names, s.Name)
	}
	return names
}

// source 将结构化模板展开为单个 text/template 源文本
func (t Template) source() string {
	parts := make([]string, 0, 5)
	if t.Preamble != "" {
		parts = append(parts, t.Preamble)
	}
	joiner := "\n\n"
	if t.Compact {
		joiner = "\n"
	}
	if len(t.Sections) > 0 {
		rendered := make([]string, 0, len(t.Sections)+1)
		if t.SectionsHeading != "" {
			rendered = append(rendered, t.SectionsHeading)
		}
		for _, s := range t.Sections {
			sep := "\n"
			if s.Inline {
				sep = " "
			}
			rendered = append(rendered, s.Name+":"+sep+s.Instruction)
		}
		parts = append(parts, strings.Join(rendered, joiner))
	} else if t.SectionsHeading != "" {
		parts = append(parts, t.SectionsHeading)
	}

	if len(t.Rules) > 0 {
		var b strings.Builder
		b.WriteString(t.RulesHeading)
		for i, rule := range t.Rules {
			b.WriteString("\n")
			b.WriteString(strconv.Itoa(i + 1))
			b.WriteString(". ")
			b.WriteString(rule)
		}
		parts = append(parts, b.String())
	}

	if t.Closing != "" {
		parts = append(parts, t.Closing)
	}
	return strings.Join(parts, "\n\n")
}

// compile 解析模板，missingkey=error 保证字段名错误在测试中暴露
func (t Template) compile() (*template.Template, error) {
	tpl, err := template.New(string(t.ID)).Option("missingkey=error").Parse(t.source())
	if err != nil {
		return nil, fmt.Errorf("parse prompt %s: %w", t.ID, err)
	}
	return tpl, nil
}

func execute(tpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render prompt %s: %w", tpl.Name(), err)
	}
	return buf.String(), nil
}
