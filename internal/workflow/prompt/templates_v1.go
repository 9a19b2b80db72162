package prompt

// IdeaGenerationV1 创意生成模板。预算区间在约束声明、市场分析和规则中重复出现
var IdeaGenerationV1 = Template{
	ID:      PromptIdeaGenerationV1,
	Version: "v1",
	Preamble: `Generate a practical, budget-conscious business idea based on the following parameters:

STRICT BUDGET CONSTRAINT: {{.Budget}}
This budget limit is ABSOLUTE - do not suggest anything requiring more capital.

Consider:
- User Type: {{.UserType}}
- Industries of Interest: {{.Industries}}
- Technical Skills: {{.TechnicalSkills}}
- Time Available: {{.TimeCommitment}}
- Risk Tolerance: {{.RiskLevel}}
- Key Challenges: {{.Challenges}}
{{- if .FocusNiche}}
- Target Niche: {{.FocusNiche}}
{{- end}}
{{- if .SuggestTrending}}
- Consider current market trends and emerging technologies
{{- end}}
{{- if .SuggestCompetitors}}
- Include competitor analysis
{{- end}}`,
	SectionsHeading: "Format the response as follows:",
	Sections: []Section{
		{Name: "Title", Inline: true, Instruction: "[Practical, budget-friendly product/service name]"},
		{Name: "Description", Inline: true, Instruction: "[Two sentences: First describing the core offering, second explaining how it fits within the budget]"},
		{Name: "Market Analysis", Instruction: `- Market Size: [High/Medium/Low]
- Competition Level: [High/Medium/Low]
- Industry: [Single-word category]
- Business Model: [Specific revenue model]
- Initial Investment: [Must be within {{.Budget}}]`},
		{Name: "Required Skills", Instruction: `- [Technical Skill]
- [Business Skill]
- [Optional Additional Skill]`},
		{Name: "Idea Fitness", Instruction: "[3-4 sentences: First on market fit, second on skill match, third on budget feasibility, optional fourth on growth potential]"},
		{Name: "MVP Features", Instruction: `1. [Essential Feature Name - Include approximate cost]
Description: [One sentence explaining the feature and its budget-conscious implementation]
2. [Core Feature Name - Include approximate cost]
Description: [One sentence explaining the feature and its budget-conscious implementation]
3. [Basic Feature Name - Include approximate cost]
Description: [One sentence explaining the feature and its budget-conscious implementation]`},
		{Name: "Differentiation", Instruction: `1. [Cost-effective Unique Selling Point]
Description: [One sentence on competitive advantage within budget constraints]
2. [Resource-efficient Unique Selling Point]
Description: [One sentence on lean implementation approach]
3. [Market-focused Unique Selling Point]
Description: [One sentence on customer value proposition]`},
		{Name: "Revenue Model", Instruction: `Primary Revenue: [Main revenue stream with ROI timeline]
Secondary Revenue: [Additional revenue stream requiring minimal extra investment]`},
		{Name: "Scalability Plan", Instruction: `1. [Launch Phase - First 3 months]
- Timeline: [Specific milestones]
- Costs: [Breakdown of initial expenses]
- Goals: [Measurable targets]

2. [Growth Phase - Months 4-12]
- Expansion: [Key growth areas]
- Investment: [Profit reinvestment strategy]
- Metrics: [Success indicators]

3. [Scale Phase - Year 2+]
- Market: [Target market expansion]
- Operations: [Team and process scaling]
- Technology: [Platform/service improvements]`},
		{Name: "Deep Insights", Instruction: `1. Market Demand:
[2-3 sentences analyzing:
- Target market size and demographics
- Current market gaps and needs
- Growth potential within budget constraints]

2. Technological Feasibility:
[2-3 sentences covering:
- Required technical infrastructure
- Implementation complexity
- Available tools and resources within budget]

3. Customer Retention:
[2-3 sentences explaining:
- User engagement strategies
- Loyalty program implementation
- Cost-effective retention tactics]

4. Growth Strategy:
[2-3 sentences detailing:
- Initial market entry approach
- Scaling roadmap
- Resource allocation plan]`},
		{Name: "Cost Breakdown", Instruction: `Initial Setup ({{.MaxBudget}} max):
- Technology: [Software/tools costs]
- Marketing: [Initial promotion budget]
- Legal/Admin: [Registration/compliance costs]
- Emergency Fund: [10-20% of total budget]

Monthly Operations:
- Fixed Costs: [List with amounts]
- Variable Costs: [List with estimates]
- Marketing Budget: [Monthly allocation]
- Profit Margin: [Expected percentage]`},
	},
	RulesHeading: "CRITICAL RULES:",
	Rules: []string{
		"All costs MUST stay within {{.Budget}}",
		"Each deep insight section MUST be detailed and actionable",
		"Scalability plan MUST be realistic for the budget",
		"All features and strategies MUST be implementable with available resources",
	},
}

// PlanIntroductionV1 商业计划简介模板
var PlanIntroductionV1 = Template{
	ID:      PromptPlanIntroductionV1,
	Version: "v1",
	Preamble: `Write a very brief business introduction (max 3-5 sentences) for this idea:

Title: {{.Title}}
Idea Fitness Assessment:
{{.IdeaFitness}}`,
	Closing: "Focus on the core concept and its unique value proposition. Be concise and professional.",
}

// metricSections 指标输出格式，标签与字段提取的正则一致
var metricSections = []Section{
	{Name: "Annual Revenue Potential", Inline: true, Instruction: "[number]K/M/B"},
	{Name: "Market Size", Inline: true, Instruction: "[number]K/M/B"},
	{Name: "Projected Users", Inline: true, Instruction: "[number]K"},
	{Name: "Time to Breakeven", Inline: true, Instruction: "[number]"},
	{Name: "Initial Investment", Inline: true, Instruction: "[number]K/M"},
	{Name: "Competitive Edge", Inline: true, Instruction: "[number]"},
}

// PlanMetricsV1 商业计划指标模板
var PlanMetricsV1 = Template{
	ID:      PromptPlanMetricsV1,
	Version: "v1",
	Preamble: `Analyze this business idea and provide STRICTLY numerical values ONLY. Use K for thousands, M for millions, B for billions. DO NOT include any explanatory text, just the numbers in the exact format below:

Title: {{.Title}}
Idea Fitness Assessment:
{{.IdeaFitness}}`,
	SectionsHeading: "Required EXACT format - numbers only:",
	Sections:        metricSections,
	Compact:         true,
	Closing:         "IMPORTANT: Respond with ONLY the numerical values in the exact format above. No additional text or explanations.",
}

// MetricsSnapshotV1 独立指标接口模板
var MetricsSnapshotV1 = Template{
	ID:      PromptMetricsSnapshotV1,
	Version: "v1",
	Preamble: `Given a business idea titled "{{.Title}}" with a fitness assessment of {{.IdeaFitness}}, provide only numerical values for the following metrics:
- Annual Revenue Potential (e.g., 5M, 100K)
- Market Size (e.g., 1B, 500M)
- Projected Users in thousands (e.g., 100K, 750K)
- Time to Breakeven in months (e.g., 12, 24)
- Initial Investment (e.g., 500K, 2M)
- Competitive Edge score from 1-10`,
	SectionsHeading: "Provide ONLY the numerical values in this exact format:",
	Sections:        metricSections,
	Compact:         true,
}
