package prompt

import (
	"strings"

	"legal-analysis-be/pkg/store"
)

// SummaryBuilder composes the augmented risk-analysis prompt: retrieved
// context first, then the structured four-section instruction template.
type SummaryBuilder struct {
	context []store.Document
	query   string
}

func NewSummaryBuilder(context []store.Document, query string) *SummaryBuilder {
	return &SummaryBuilder{
		context: context,
		query:   query,
	}
}

func (b *SummaryBuilder) Build() string {
	var prompt strings.Builder

	b.writeReferenceMaterial(&prompt)
	b.writeUserQuery(&prompt)
	b.writeInstructions(&prompt)

	return prompt.String()
}

func (b *SummaryBuilder) writeReferenceMaterial(prompt *strings.Builder) {
	prompt.WriteString("<reference_material>\n")
	for i, doc := range b.context {
		if i > 0 {
			prompt.WriteString("\n---\n")
		}
		prompt.WriteString(doc.Content)
	}
	prompt.WriteString("\n</reference_material>\n\n")
}

func (b *SummaryBuilder) writeUserQuery(prompt *strings.Builder) {
	if b.query == "" {
		return
	}
	prompt.WriteString("<user_question>\n")
	prompt.WriteString(b.query)
	prompt.WriteString("\n</user_question>\n\n")
}

func (b *SummaryBuilder) writeInstructions(prompt *strings.Builder) {
	prompt.WriteString("You are analyzing legal documents to help an individual understand potential risks. Provide a comprehensive, structured summary that includes the following:\n")
	prompt.WriteString("1. Risk Categorization:\n")
	prompt.WriteString("Clearly differentiate between financial risks (e.g., penalties, damages, costs, loss of assets, payment obligations) and legal risks (e.g., contract breaches, regulatory violations, compliance failures, lawsuits).\n")
	prompt.WriteString("\n")
	prompt.WriteString("2. Lawsuits & Breaches:\n")
	prompt.WriteString("Identify any lawsuits, disputes, breaches of contract, or potential violations explicitly stated or implied in the document.\n")
	prompt.WriteString("Summarize the possible outcomes or consequences if such breaches occur.\n")
	prompt.WriteString("\n")
	prompt.WriteString("3. Difficult Terms & Explanations:\n")
	prompt.WriteString("Extract difficult or uncommon legal/financial terms as a bulleted list, each with a simplified explanation so that a non-lawyer can easily understand them.\n")
	prompt.WriteString("\n")
	prompt.WriteString("4. Overall Summary:\n")
	prompt.WriteString("End with a clear executive summary that brings together the key financial and legal risks, the most critical threats, and any urgent issues to be addressed.\n")
}
