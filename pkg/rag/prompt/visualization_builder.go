package prompt

import (
	"fmt"
	"strings"

	"legal-analysis-be/pkg/rag/risk"
)

// VisualizationBuilder composes the instruction for the risk visualization
// stage: two Plotly.js charts driven by the parsed risk breakdown.
type VisualizationBuilder struct {
	breakdown risk.Breakdown
}

func NewVisualizationBuilder(breakdown risk.Breakdown) *VisualizationBuilder {
	return &VisualizationBuilder{breakdown: breakdown}
}

func (b *VisualizationBuilder) Build() string {
	var prompt strings.Builder

	b.writeData(&prompt)
	b.writeTask(&prompt)
	b.writeGuidelines(&prompt)

	return prompt.String()
}

func (b *VisualizationBuilder) writeData(prompt *strings.Builder) {
	prompt.WriteString("<risk_data>\n")
	prompt.WriteString("Risk counts by severity:\n")
	for _, s := range risk.Severities {
		prompt.WriteString(fmt.Sprintf("- %s: %d\n", s, b.breakdown.SeverityCounts[s]))
	}
	prompt.WriteString("Risk counts by category:\n")
	for _, c := range risk.Categories {
		prompt.WriteString(fmt.Sprintf("- %s: %d\n", c, b.breakdown.CategoryCounts[c]))
	}
	prompt.WriteString("</risk_data>\n\n")
}

func (b *VisualizationBuilder) writeTask(prompt *strings.Builder) {
	prompt.WriteString("<task>\n")
	prompt.WriteString("Generate two Plotly.js visualizations for legal risk analysis using the data above:\n")
	prompt.WriteString("- A bar chart showing the number of risks across three severity levels: High, Medium, Low.\n")
	prompt.WriteString("- A pie chart categorizing risks into five categories: Contract, Compliance, Intellectual Property, Privacy, and Litigation.\n")
	prompt.WriteString("</task>\n\n")
}

func (b *VisualizationBuilder) writeGuidelines(prompt *strings.Builder) {
	prompt.WriteString("<guidelines>\n")
	prompt.WriteString("1. The code must be browser-compatible JavaScript and always render into the div with class \"plot\".\n")
	prompt.WriteString("2. Apply professional visualization standards for legal analytics: titles, axis labels, legends, tooltips, and a clear color scheme.\n")
	prompt.WriteString("3. Return the code in a single fenced ```javascript block.\n")
	prompt.WriteString("4. Before the code block, write one short paragraph summarizing what the charts show.\n")
	prompt.WriteString("</guidelines>\n")
}
