package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "STAGE_COMPLETED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent helps embed common logic if needed,
// strictly creating valid implementations is preferred though.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

const (
	TypeStageStarted      = "STAGE_STARTED"
	TypeStageCompleted    = "STAGE_COMPLETED"
	TypeAnalysisCompleted = "ANALYSIS_COMPLETED"
)

// NewStageStartedEvent marks the beginning of one pipeline stage.
func NewStageStartedEvent(sessionId, stageName string) Event {
	return BaseEvent{
		Type: TypeStageStarted,
		Data: map[string]interface{}{
			"session_id": sessionId,
			"stage":      stageName,
		},
		OccurredAt: time.Now(),
	}
}

// NewStageCompletedEvent marks the end of one pipeline stage.
func NewStageCompletedEvent(sessionId, stageName string, degraded bool) Event {
	return BaseEvent{
		Type: TypeStageCompleted,
		Data: map[string]interface{}{
			"session_id": sessionId,
			"stage":      stageName,
			"degraded":   degraded,
		},
		OccurredAt: time.Now(),
	}
}

// NewAnalysisCompletedEvent marks the end of a full analysis run.
func NewAnalysisCompletedEvent(sessionId string, stages, degraded int) Event {
	return BaseEvent{
		Type: TypeAnalysisCompleted,
		Data: map[string]interface{}{
			"session_id":      sessionId,
			"stages":          stages,
			"degraded_stages": degraded,
		},
		OccurredAt: time.Now(),
	}
}
