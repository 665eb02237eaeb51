package executor

import (
	"context"
	"encoding/json"
	"strings"

	"legal-analysis-be/internal/pkg/logger"
	"legal-analysis-be/pkg/events"
	"legal-analysis-be/pkg/rag/prompt"
	"legal-analysis-be/pkg/rag/stage"
	"legal-analysis-be/pkg/rag/state"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

// DefaultProgressTopic is the in-process topic pipeline progress events go
// out on when no topic is configured.
const DefaultProgressTopic = "analysis.progress"

// StageOutcome is the aggregated result of one stage run.
type StageOutcome struct {
	Stage     string `json:"stage"`
	Narrative string `json:"narrative"`
	Code      string `json:"code,omitempty"`
	Degraded  bool   `json:"degraded"`
}

// FinalResult collects every stage outcome plus the combined rendering.
type FinalResult struct {
	Outcomes          []StageOutcome `json:"outcomes"`
	CombinedNarrative string         `json:"combined_narrative"`
	CombinedCode      string         `json:"combined_code,omitempty"`
}

// Render produces the full transcript: each stage's narrative under its
// header, with the chart code appended as a fenced javascript block.
func (r *FinalResult) Render() string {
	var out strings.Builder
	out.WriteString(r.CombinedNarrative)
	if r.CombinedCode != "" {
		out.WriteString("\n\n")
		out.WriteString(prompt.WrapCodeBlock(r.CombinedCode))
	}
	return out.String()
}

// PipelineExecutor runs the analysis stages in their fixed order, publishing
// progress events as it goes. A degraded stage never stops the run; a fatal
// stage error aborts it.
type PipelineExecutor struct {
	runner    *stage.Runner
	stages    []stage.Stage
	publisher message.Publisher
	topic     string
	log       logger.ILogger
}

func NewPipelineExecutor(runner *stage.Runner, stages []stage.Stage, publisher message.Publisher, topic string, log logger.ILogger) *PipelineExecutor {
	if topic == "" {
		topic = DefaultProgressTopic
	}
	return &PipelineExecutor{
		runner:    runner,
		stages:    stages,
		publisher: publisher,
		topic:     topic,
		log:       log,
	}
}

// DefaultStages wires the canonical stage order: retrieval first (it seeds
// the shared state), then term resolution, then visualization.
func DefaultStages(retrieval *RetrievalStage, terms *TermResolutionStage, viz *VisualizationStage) []stage.Stage {
	return []stage.Stage{retrieval, terms, viz}
}

func (e *PipelineExecutor) Run(ctx context.Context, sessionId string, st *state.Pipeline) (*FinalResult, error) {
	final := &FinalResult{}
	degradedCount := 0

	for _, s := range e.stages {
		e.publish(events.NewStageStartedEvent(sessionId, s.Name()))

		result, err := e.runner.Run(ctx, s, st)
		if err != nil {
			e.log.Error("executor", "pipeline aborted", map[string]interface{}{
				"session_id": sessionId,
				"stage":      s.Name(),
				"error":      err.Error(),
			})
			return nil, err
		}
		if result.Degraded {
			degradedCount++
		}

		final.Outcomes = append(final.Outcomes, StageOutcome{
			Stage:     s.Name(),
			Narrative: result.Narrative,
			Code:      result.Code,
			Degraded:  result.Degraded,
		})

		e.publish(events.NewStageCompletedEvent(sessionId, s.Name(), result.Degraded))
	}

	final.CombinedNarrative = combineNarratives(final.Outcomes)
	final.CombinedCode = selectCode(final.Outcomes)

	e.publish(events.NewAnalysisCompletedEvent(sessionId, len(final.Outcomes), degradedCount))
	return final, nil
}

func (e *PipelineExecutor) publish(event events.Event) {
	if e.publisher == nil {
		return
	}

	payload := map[string]interface{}{
		"type":        event.EventType(),
		"occurred_at": event.Timestamp(),
		"data":        event.Payload(),
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}

	msg := message.NewMessage(watermill.NewUUID(), data)
	if err := e.publisher.Publish(e.topic, msg); err != nil {
		e.log.Warn("executor", "progress publish failed", map[string]interface{}{
			"event": event.EventType(),
			"error": err.Error(),
		})
	}
}

// combineNarratives renders each stage's narrative under a stage header.
func combineNarratives(outcomes []StageOutcome) string {
	sections := make([]string, 0, len(outcomes))
	for _, o := range outcomes {
		sections = append(sections, "["+o.Stage+"]:\n"+o.Narrative)
	}
	return strings.Join(sections, "\n\n")
}

// selectCode prefers the visualization stage's code; any other stage's code
// is a fallback in pipeline order.
func selectCode(outcomes []StageOutcome) string {
	for _, o := range outcomes {
		if o.Stage == StageVisualization && o.Code != "" {
			return o.Code
		}
	}
	for _, o := range outcomes {
		if o.Code != "" {
			return o.Code
		}
	}
	return ""
}
