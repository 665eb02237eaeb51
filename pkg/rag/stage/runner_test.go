package stage

import (
	"context"
	"errors"
	"testing"
	"time"

	"legal-analysis-be/pkg/rag"
	"legal-analysis-be/pkg/rag/state"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noopLogger struct{}

func (noopLogger) Debug(module, message string, details map[string]interface{}) {}
func (noopLogger) Info(module, message string, details map[string]interface{})  {}
func (noopLogger) Warn(module, message string, details map[string]interface{})  {}
func (noopLogger) Error(module, message string, details map[string]interface{}) {}
func (noopLogger) Sync() error                                                  { return nil }

type scriptedStage struct {
	name   string
	events []Event
	err    error
}

func (s *scriptedStage) Name() string { return s.name }

func (s *scriptedStage) Stream(ctx context.Context, st *state.Pipeline, out chan<- Event) error {
	for _, e := range s.events {
		out <- e
	}
	return s.err
}

func runStage(t *testing.T, s Stage) (Result, error) {
	t.Helper()
	runner := NewRunner(noopLogger{})
	return runner.Run(context.Background(), s, state.NewPipeline("doc.txt", ""))
}

func TestRunEmptyStreamYieldsPlaceholder(t *testing.T) {
	result, err := runStage(t, &scriptedStage{name: "empty"})

	require.NoError(t, err)
	assert.Equal(t, NoFinalText, result.Narrative)
	assert.Empty(t, result.Code)
	assert.False(t, result.Degraded)
}

func TestRunLastFinalTextWins(t *testing.T) {
	result, err := runStage(t, &scriptedStage{
		name: "finals",
		events: []Event{
			{Kind: KindText, Payload: "first final", Final: true},
			{Kind: KindText, Payload: "second final", Final: true},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "second final", result.Narrative)
}

func TestRunFinalSupersedesPartials(t *testing.T) {
	result, err := runStage(t, &scriptedStage{
		name: "mixed",
		events: []Event{
			{Kind: KindText, Payload: "partial one "},
			{Kind: KindText, Payload: "the real answer", Final: true},
			{Kind: KindCode, Payload: "chart();"},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "the real answer", result.Narrative)
	assert.Equal(t, "chart();", result.Code)
}

func TestRunConcatenatesPartialsWithoutFinal(t *testing.T) {
	result, err := runStage(t, &scriptedStage{
		name: "partials",
		events: []Event{
			{Kind: KindText, Payload: "alpha "},
			{Kind: KindText, Payload: "   "}, // whitespace-only is dropped
			{Kind: KindText, Payload: "beta"},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "alpha beta", result.Narrative)
}

func TestRunEmptyFinalDoesNotErasePartials(t *testing.T) {
	result, err := runStage(t, &scriptedStage{
		name: "empty-final",
		events: []Event{
			{Kind: KindText, Payload: "kept partial"},
			{Kind: KindText, Payload: "", Final: true},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "kept partial", result.Narrative)
}

func TestRunFirstCodeWins(t *testing.T) {
	result, err := runStage(t, &scriptedStage{
		name: "codes",
		events: []Event{
			{Kind: KindCode, Payload: "  "}, // whitespace-only never claims the slot
			{Kind: KindCode, Payload: "first();"},
			{Kind: KindCode, Payload: "second();"},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "first();", result.Code)
}

func TestRunRecoverableErrorDegrades(t *testing.T) {
	result, err := runStage(t, &scriptedStage{
		name: "flaky",
		events: []Event{
			{Kind: KindText, Payload: "got this far"},
		},
		err: errors.New("upstream hiccup"),
	})

	require.NoError(t, err)
	assert.True(t, result.Degraded)
	assert.Equal(t, "got this far", result.Narrative)
}

func TestRunDocumentProcessingErrorAborts(t *testing.T) {
	fatal := rag.NewDocumentProcessingError("could not load document", nil)

	_, err := runStage(t, &scriptedStage{name: "fatal", err: fatal})

	require.Error(t, err)
	assert.Equal(t, rag.CodeDocumentProcessing, rag.CodeOf(err))
}

func TestRunPanicDegrades(t *testing.T) {
	runner := NewRunner(noopLogger{})
	s := &panickyStage{}

	result, err := runner.Run(context.Background(), s, state.NewPipeline("doc.txt", ""))

	require.NoError(t, err)
	assert.True(t, result.Degraded)
	assert.Equal(t, NoFinalText, result.Narrative)
}

type panickyStage struct{}

func (p *panickyStage) Name() string { return "panicky" }

func (p *panickyStage) Stream(ctx context.Context, st *state.Pipeline, out chan<- Event) error {
	panic("boom")
}

func TestRunContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runner := NewRunner(noopLogger{})
	blocked := &blockingStage{release: make(chan struct{})}
	defer close(blocked.release)

	_, err := runner.Run(ctx, blocked, state.NewPipeline("doc.txt", ""))
	require.ErrorIs(t, err, context.Canceled)
}

type blockingStage struct {
	release chan struct{}
}

func (b *blockingStage) Name() string { return "blocking" }

func (b *blockingStage) Stream(ctx context.Context, st *state.Pipeline, out chan<- Event) error {
	<-b.release
	return nil
}

func TestRunCancellationUnblocksEventSend(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runner := NewRunner(noopLogger{})
	s := &sendingStage{exited: make(chan struct{})}

	_, err := runner.Run(ctx, s, state.NewPipeline("doc.txt", ""))
	require.ErrorIs(t, err, context.Canceled)

	select {
	case <-s.exited:
	case <-time.After(time.Second):
		t.Fatal("stage goroutine still blocked on event send after cancellation")
	}
}

type sendingStage struct {
	exited chan struct{}
}

func (s *sendingStage) Name() string { return "sending" }

func (s *sendingStage) Stream(ctx context.Context, st *state.Pipeline, out chan<- Event) error {
	defer close(s.exited)
	// Let the runner observe the cancellation first, then send.
	time.Sleep(50 * time.Millisecond)
	out <- Event{Kind: KindText, Payload: "sent after cancellation"}
	return nil
}
