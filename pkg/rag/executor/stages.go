package executor

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"legal-analysis-be/pkg/llm"
	"legal-analysis-be/pkg/rag/dictionary"
	"legal-analysis-be/pkg/rag/prompt"
	"legal-analysis-be/pkg/rag/risk"
	"legal-analysis-be/pkg/rag/stage"
	"legal-analysis-be/pkg/rag/state"
	"legal-analysis-be/pkg/rag/summarizer"
)

const (
	StageRetrieval      = "retrieval"
	StageTermResolution = "term_resolution"
	StageVisualization  = "risk_visualization"
)

// RetrievalStage produces the structured risk summary and seeds the shared
// state every later stage reads from.
type RetrievalStage struct {
	summarizer *summarizer.Summarizer
}

func NewRetrievalStage(s *summarizer.Summarizer) *RetrievalStage {
	return &RetrievalStage{summarizer: s}
}

func (r *RetrievalStage) Name() string { return StageRetrieval }

func (r *RetrievalStage) Stream(ctx context.Context, st *state.Pipeline, out chan<- stage.Event) error {
	summary, err := r.summarizer.Summarize(ctx, st.DocumentPath, st.Query, st.History())
	if err != nil {
		return err
	}

	st.SetSummary(summary.Text, summary.Breakdown, summary.DifficultTerms)
	out <- stage.Event{Kind: stage.KindText, Payload: summary.Text, Final: true}
	return nil
}

// TermResolutionStage resolves every difficult term the summary surfaced,
// in parallel, and renders the glossary. Output order follows the input
// term order regardless of which lookup finishes first.
type TermResolutionStage struct {
	resolver *dictionary.Resolver
}

func NewTermResolutionStage(r *dictionary.Resolver) *TermResolutionStage {
	return &TermResolutionStage{resolver: r}
}

func (t *TermResolutionStage) Name() string { return StageTermResolution }

func (t *TermResolutionStage) Stream(ctx context.Context, st *state.Pipeline, out chan<- stage.Event) error {
	terms := st.DifficultTerms()
	if len(terms) == 0 {
		out <- stage.Event{Kind: stage.KindText, Payload: "No difficult terms were identified in this document.", Final: true}
		return nil
	}

	results := make([]dictionary.Result, len(terms))
	var wg sync.WaitGroup
	for i, term := range terms {
		wg.Add(1)
		go func(i int, term string) {
			defer wg.Done()
			results[i] = t.resolver.Resolve(ctx, term)
		}(i, term)
	}
	wg.Wait()

	st.SetDefinitions(results)

	var glossary strings.Builder
	glossary.WriteString("Glossary of difficult terms:\n")
	for _, result := range results {
		line := renderDefinition(result)
		out <- stage.Event{Kind: stage.KindText, Payload: line + "\n"}
		glossary.WriteString(line)
		glossary.WriteString("\n")
	}

	out <- stage.Event{Kind: stage.KindText, Payload: glossary.String(), Final: true}
	return nil
}

func renderDefinition(result dictionary.Result) string {
	if result.Tier == dictionary.TierNone {
		return fmt.Sprintf("- %s: No definition found.", result.Term)
	}
	return fmt.Sprintf("- %s: %s", result.Term, result.Definition)
}

// VisualizationStage turns the parsed risk breakdown into Plotly.js chart
// code. When the model response carries no usable code block, a
// deterministic chart built from the breakdown stands in.
type VisualizationStage struct {
	provider llm.LLMProvider
}

func NewVisualizationStage(provider llm.LLMProvider) *VisualizationStage {
	return &VisualizationStage{provider: provider}
}

func (v *VisualizationStage) Name() string { return StageVisualization }

func (v *VisualizationStage) Stream(ctx context.Context, st *state.Pipeline, out chan<- stage.Event) error {
	breakdown := st.Breakdown()

	response, err := v.provider.Generate(ctx, prompt.NewVisualizationBuilder(breakdown).Build())
	if err != nil {
		// The breakdown is already parsed; charts can still render.
		out <- stage.Event{Kind: stage.KindCode, Payload: fallbackChartCode(breakdown)}
		out <- stage.Event{Kind: stage.KindText, Payload: "Charts generated from the parsed risk breakdown.", Final: true}
		return nil
	}

	code, remainder := prompt.ExtractCodeBlock(response)
	if code == "" {
		code = fallbackChartCode(breakdown)
	}

	out <- stage.Event{Kind: stage.KindCode, Payload: code}
	if strings.TrimSpace(remainder) != "" {
		out <- stage.Event{Kind: stage.KindText, Payload: remainder, Final: true}
	}
	return nil
}

func fallbackChartCode(breakdown risk.Breakdown) string {
	var severityValues []string
	for _, s := range risk.Severities {
		severityValues = append(severityValues, fmt.Sprintf("%d", breakdown.SeverityCounts[s]))
	}
	var categoryValues []string
	for _, c := range risk.Categories {
		categoryValues = append(categoryValues, fmt.Sprintf("%d", breakdown.CategoryCounts[c]))
	}

	return fmt.Sprintf(`const plot = document.querySelector('.plot');
const severityBar = {
  x: ['High', 'Medium', 'Low'],
  y: [%s],
  type: 'bar',
  name: 'Risks by Severity',
  marker: { color: ['#d62728', '#ff7f0e', '#2ca02c'] }
};
const categoryPie = {
  labels: ['Contract', 'Compliance', 'Intellectual Property', 'Privacy', 'Litigation'],
  values: [%s],
  type: 'pie',
  name: 'Risks by Category',
  domain: { row: 0, column: 1 }
};
Plotly.newPlot(plot, [severityBar, categoryPie], {
  title: 'Legal Risk Analysis',
  grid: { rows: 1, columns: 2 },
  xaxis: { title: 'Severity' },
  yaxis: { title: 'Number of Risks' }
});`,
		strings.Join(severityValues, ", "),
		strings.Join(categoryValues, ", "),
	)
}
