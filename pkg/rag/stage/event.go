package stage

import (
	"context"

	"legal-analysis-be/pkg/rag/state"
)

// Kind discriminates the payload of a streamed event.
type Kind string

const (
	KindText Kind = "text"
	KindCode Kind = "code"
)

// Event is one streamed fragment from a running stage. A Final text event
// carries the stage's complete narrative and supersedes earlier partials.
type Event struct {
	Kind    Kind
	Payload string
	Final   bool
}

// Result is the aggregated output of one stage run. Degraded marks a run
// whose stream ended in a recoverable error; whatever was aggregated before
// the failure is kept.
type Result struct {
	Narrative string
	Code      string
	Degraded  bool
}

// NoFinalText is the placeholder narrative when a stream produced no usable
// text at all.
const NoFinalText = "No final text response captured."

// Stage is one step of the analysis pipeline. Stream emits events on out as
// they become available and returns once the stage is done; the runner owns
// the channel and aggregation.
type Stage interface {
	Name() string
	Stream(ctx context.Context, st *state.Pipeline, out chan<- Event) error
}
