package executor

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"legal-analysis-be/pkg/rag"
	"legal-analysis-be/pkg/rag/stage"
	"legal-analysis-be/pkg/rag/state"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noopLogger struct{}

func (noopLogger) Debug(module, message string, details map[string]interface{}) {}
func (noopLogger) Info(module, message string, details map[string]interface{})  {}
func (noopLogger) Warn(module, message string, details map[string]interface{})  {}
func (noopLogger) Error(module, message string, details map[string]interface{}) {}
func (noopLogger) Sync() error                                                  { return nil }

type fakeStage struct {
	name   string
	text   string
	code   string
	err    error
	panics bool
}

func (s *fakeStage) Name() string { return s.name }

func (s *fakeStage) Stream(ctx context.Context, st *state.Pipeline, out chan<- stage.Event) error {
	if s.panics {
		panic("stage blew up")
	}
	if s.text != "" {
		out <- stage.Event{Kind: stage.KindText, Payload: s.text, Final: true}
	}
	if s.code != "" {
		out <- stage.Event{Kind: stage.KindCode, Payload: s.code}
	}
	return s.err
}

type recordingPublisher struct {
	topics   []string
	payloads []map[string]interface{}
	err      error
}

func (p *recordingPublisher) Publish(topic string, messages ...*message.Message) error {
	if p.err != nil {
		return p.err
	}
	for _, msg := range messages {
		p.topics = append(p.topics, topic)
		var payload map[string]interface{}
		if err := json.Unmarshal(msg.Payload, &payload); err == nil {
			p.payloads = append(p.payloads, payload)
		}
	}
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func newTestExecutor(publisher message.Publisher, stages ...stage.Stage) *PipelineExecutor {
	return NewPipelineExecutor(stage.NewRunner(noopLogger{}), stages, publisher, "", noopLogger{})
}

func run(t *testing.T, e *PipelineExecutor) *FinalResult {
	t.Helper()
	final, err := e.Run(context.Background(), "session-1", state.NewPipeline("doc.txt", ""))
	require.NoError(t, err)
	return final
}

func TestRunPreservesStageOrder(t *testing.T) {
	e := newTestExecutor(nil,
		&fakeStage{name: "retrieval", text: "summary text"},
		&fakeStage{name: "term_resolution", text: "glossary text"},
		&fakeStage{name: "risk_visualization", text: "chart note", code: "chart();"},
	)

	final := run(t, e)

	require.Len(t, final.Outcomes, 3)
	assert.Equal(t, "retrieval", final.Outcomes[0].Stage)
	assert.Equal(t, "term_resolution", final.Outcomes[1].Stage)
	assert.Equal(t, "risk_visualization", final.Outcomes[2].Stage)
}

func TestRunCombinesNarrativesWithHeaders(t *testing.T) {
	e := newTestExecutor(nil,
		&fakeStage{name: "retrieval", text: "summary"},
		&fakeStage{name: "term_resolution", text: "glossary"},
	)

	final := run(t, e)

	want := "[retrieval]:\nsummary\n\n[term_resolution]:\nglossary"
	assert.Equal(t, want, final.CombinedNarrative)
}

func TestRunPrefersVisualizationCode(t *testing.T) {
	e := newTestExecutor(nil,
		&fakeStage{name: "retrieval", text: "summary", code: "early();"},
		&fakeStage{name: StageVisualization, text: "charts", code: "viz();"},
	)

	final := run(t, e)

	assert.Equal(t, "viz();", final.CombinedCode)
}

func TestRunFallsBackToFirstCode(t *testing.T) {
	e := newTestExecutor(nil,
		&fakeStage{name: "retrieval", text: "summary", code: "early();"},
		&fakeStage{name: StageVisualization, text: "no code this time"},
	)

	final := run(t, e)

	assert.Equal(t, "early();", final.CombinedCode)
}

func TestRunContinuesPastDegradedStage(t *testing.T) {
	e := newTestExecutor(nil,
		&fakeStage{name: "retrieval", text: "summary"},
		&fakeStage{name: "term_resolution", err: errors.New("dictionary unreachable")},
		&fakeStage{name: StageVisualization, text: "charts", code: "viz();"},
	)

	final := run(t, e)

	require.Len(t, final.Outcomes, 3)
	assert.False(t, final.Outcomes[0].Degraded)
	assert.True(t, final.Outcomes[1].Degraded)
	assert.False(t, final.Outcomes[2].Degraded)
	assert.Equal(t, "viz();", final.CombinedCode)
}

func TestRunAbortsOnFatalError(t *testing.T) {
	e := newTestExecutor(nil,
		&fakeStage{name: "retrieval", err: rag.NewDocumentProcessingError("document unreadable", nil)},
		&fakeStage{name: "term_resolution", text: "never reached"},
	)

	final, err := e.Run(context.Background(), "session-1", state.NewPipeline("doc.txt", ""))

	require.Error(t, err)
	assert.Nil(t, final)
	assert.Equal(t, rag.CodeDocumentProcessing, rag.CodeOf(err))
}

func TestRunPublishesProgressEvents(t *testing.T) {
	publisher := &recordingPublisher{}
	e := newTestExecutor(publisher,
		&fakeStage{name: "retrieval", text: "summary"},
	)

	run(t, e)

	// started, completed, then the analysis-completed wrap-up.
	require.Len(t, publisher.payloads, 3)
	assert.Equal(t, "STAGE_STARTED", publisher.payloads[0]["type"])
	assert.Equal(t, "STAGE_COMPLETED", publisher.payloads[1]["type"])
	assert.Equal(t, "ANALYSIS_COMPLETED", publisher.payloads[2]["type"])
	for _, topic := range publisher.topics {
		assert.Equal(t, DefaultProgressTopic, topic)
	}
}

func TestRunSurvivesPublishFailure(t *testing.T) {
	publisher := &recordingPublisher{err: errors.New("bus closed")}
	e := newTestExecutor(publisher, &fakeStage{name: "retrieval", text: "summary"})

	final := run(t, e)

	require.Len(t, final.Outcomes, 1)
	assert.Equal(t, "summary", final.Outcomes[0].Narrative)
}

func TestRenderAppendsCodeBlock(t *testing.T) {
	final := &FinalResult{
		CombinedNarrative: "[risk_visualization]:\ncharts below",
		CombinedCode:      "Plotly.newPlot(plot, data);",
	}

	rendered := final.Render()

	assert.Contains(t, rendered, "charts below")
	assert.Contains(t, rendered, "```javascript\nPlotly.newPlot(plot, data);\n```")
}

func TestRenderWithoutCode(t *testing.T) {
	final := &FinalResult{CombinedNarrative: "narrative only"}

	assert.Equal(t, "narrative only", final.Render())
}
