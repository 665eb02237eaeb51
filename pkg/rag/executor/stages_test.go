package executor

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"legal-analysis-be/pkg/llm"
	"legal-analysis-be/pkg/rag/dictionary"
	"legal-analysis-be/pkg/rag/risk"
	"legal-analysis-be/pkg/rag/stage"
	"legal-analysis-be/pkg/rag/state"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type dictionaryFetcher struct{}

func (dictionaryFetcher) Fetch(ctx context.Context, term string) (string, error) {
	return fmt.Sprintf("definition of %s", term), nil
}

func (dictionaryFetcher) Search(ctx context.Context, query string) (string, error) {
	return "", nil
}

type fakeLLM struct {
	response string
	err      error
}

func (p *fakeLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return p.response, p.err
}

func (p *fakeLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return p.response, p.err
}

func runSingleStage(t *testing.T, s stage.Stage, st *state.Pipeline) stage.Result {
	t.Helper()
	result, err := stage.NewRunner(noopLogger{}).Run(context.Background(), s, st)
	require.NoError(t, err)
	return result
}

func testBreakdown() risk.Breakdown {
	return risk.Breakdown{
		SeverityCounts: map[string]int{"High": 2, "Medium": 1, "Low": 0},
		CategoryCounts: map[string]int{"Contract": 1, "Privacy": 2},
	}
}

func TestTermResolutionNoTerms(t *testing.T) {
	s := NewTermResolutionStage(dictionary.NewResolver(dictionaryFetcher{}, &fakeLLM{}, nil, noopLogger{}))
	st := state.NewPipeline("doc.txt", "")

	result := runSingleStage(t, s, st)

	assert.Equal(t, "No difficult terms were identified in this document.", result.Narrative)
	assert.False(t, result.Degraded)
}

func TestTermResolutionGlossaryKeepsInputOrder(t *testing.T) {
	s := NewTermResolutionStage(dictionary.NewResolver(dictionaryFetcher{}, &fakeLLM{}, nil, noopLogger{}))
	st := state.NewPipeline("doc.txt", "")
	st.SetSummary("summary", testBreakdown(), []string{"Estoppel", "Indemnification", "Novation"})

	result := runSingleStage(t, s, st)

	want := "Glossary of difficult terms:\n" +
		"- Estoppel: definition of Estoppel\n" +
		"- Indemnification: definition of Indemnification\n" +
		"- Novation: definition of Novation\n"
	assert.Equal(t, want, result.Narrative)

	definitions := st.Definitions()
	require.Len(t, definitions, 3)
	assert.Equal(t, "Estoppel", definitions[0].Term)
	assert.Equal(t, dictionary.TierSpecialized, definitions[0].Tier)
}

func TestVisualizationExtractsModelCode(t *testing.T) {
	provider := &fakeLLM{response: "Charts below.\n```javascript\nPlotly.newPlot(plot, data);\n```"}
	s := NewVisualizationStage(provider)
	st := state.NewPipeline("doc.txt", "")
	st.SetSummary("summary", testBreakdown(), nil)

	result := runSingleStage(t, s, st)

	assert.Equal(t, "Plotly.newPlot(plot, data);", result.Code)
	assert.Equal(t, "Charts below.", result.Narrative)
}

func TestVisualizationFallsBackWhenNoCodeBlock(t *testing.T) {
	provider := &fakeLLM{response: "I could not produce a chart this time."}
	s := NewVisualizationStage(provider)
	st := state.NewPipeline("doc.txt", "")
	st.SetSummary("summary", testBreakdown(), nil)

	result := runSingleStage(t, s, st)

	assert.Contains(t, result.Code, "document.querySelector('.plot')")
	assert.Contains(t, result.Code, "y: [2, 1, 0]")
	assert.Equal(t, "I could not produce a chart this time.", result.Narrative)
}

func TestVisualizationFallsBackOnModelError(t *testing.T) {
	provider := &fakeLLM{err: errors.New("model unavailable")}
	s := NewVisualizationStage(provider)
	st := state.NewPipeline("doc.txt", "")
	st.SetSummary("summary", testBreakdown(), nil)

	result := runSingleStage(t, s, st)

	assert.False(t, result.Degraded)
	assert.Contains(t, result.Code, "values: [1, 0, 0, 2, 0]")
	assert.Equal(t, "Charts generated from the parsed risk breakdown.", result.Narrative)
}
