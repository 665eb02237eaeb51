package stage

import (
	"context"
	"fmt"
	"strings"

	"legal-analysis-be/internal/pkg/logger"
	"legal-analysis-be/pkg/rag"
	"legal-analysis-be/pkg/rag/state"
)

// Runner executes a stage and aggregates its event stream into a Result.
//
// Aggregation rules:
//   - The last non-empty final text event wins as the narrative.
//   - Without a final text event, all non-whitespace partials concatenate in
//     arrival order.
//   - If neither produced text, the narrative falls back to NoFinalText.
//   - The first non-empty code event wins as the code; later ones are ignored.
type Runner struct {
	log logger.ILogger
}

func NewRunner(log logger.ILogger) *Runner {
	return &Runner{log: log}
}

// Run drives one stage to completion. Recoverable stream errors produce a
// degraded Result so the pipeline can continue; document-processing failures
// and context cancellation abort the whole run.
func (r *Runner) Run(ctx context.Context, s Stage, st *state.Pipeline) (Result, error) {
	events := make(chan Event)
	errCh := make(chan error, 1)

	go func() {
		defer close(events)
		defer func() {
			if rec := recover(); rec != nil {
				errCh <- fmt.Errorf("stage %s panicked: %v", s.Name(), rec)
			}
		}()
		errCh <- s.Stream(ctx, st, events)
	}()

	var (
		finalText string
		partials  strings.Builder
		code      string
	)

	for {
		select {
		case <-ctx.Done():
			// The stage goroutine may be blocked on an event send; drain
			// until it returns and the channel closes.
			go func() {
				for range events {
				}
			}()
			return Result{}, ctx.Err()
		case event, ok := <-events:
			if !ok {
				return r.finish(s, finalText, partials.String(), code, <-errCh)
			}
			switch event.Kind {
			case KindCode:
				if code == "" && strings.TrimSpace(event.Payload) != "" {
					code = event.Payload
				}
			case KindText:
				if event.Final {
					if strings.TrimSpace(event.Payload) != "" {
						finalText = event.Payload
					}
					continue
				}
				if strings.TrimSpace(event.Payload) != "" {
					partials.WriteString(event.Payload)
				}
			}
		}
	}
}

func (r *Runner) finish(s Stage, finalText, partials, code string, streamErr error) (Result, error) {
	result := Result{
		Narrative: narrative(finalText, partials),
		Code:      code,
	}

	if streamErr == nil {
		return result, nil
	}

	if rag.CodeOf(streamErr) == rag.CodeDocumentProcessing {
		return Result{}, streamErr
	}

	r.log.Warn("stage-runner", "stage failed, continuing degraded", map[string]interface{}{
		"stage": s.Name(),
		"error": streamErr.Error(),
	})
	result.Degraded = true
	return result, nil
}

func narrative(finalText, partials string) string {
	if finalText != "" {
		return finalText
	}
	if strings.TrimSpace(partials) != "" {
		return partials
	}
	return NoFinalText
}
