package state

import (
	"sync"

	"legal-analysis-be/pkg/llm"
	"legal-analysis-be/pkg/rag/dictionary"
	"legal-analysis-be/pkg/rag/risk"
)

// Pipeline carries the shared state that flows through an analysis run.
// Stages read the outputs of earlier stages from here and record their own.
type Pipeline struct {
	mu sync.RWMutex

	// Inputs, fixed for the lifetime of the run.
	DocumentPath string
	Query        string

	history        []llm.Message
	summary        string
	breakdown      risk.Breakdown
	difficultTerms []string
	definitions    []dictionary.Result
}

func NewPipeline(documentPath, query string) *Pipeline {
	return &Pipeline{
		DocumentPath: documentPath,
		Query:        query,
	}
}

// SetHistory attaches prior session turns so follow-up analysis carries
// conversational context. Set once, before the run starts.
func (p *Pipeline) SetHistory(history []llm.Message) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.history = history
}

func (p *Pipeline) History() []llm.Message {
	p.mu.RLock()
	defer p.mu.RUnlock()
	history := make([]llm.Message, len(p.history))
	copy(history, p.history)
	return history
}

func (p *Pipeline) SetSummary(summary string, breakdown risk.Breakdown, terms []string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.summary = summary
	p.breakdown = breakdown
	p.difficultTerms = terms
}

func (p *Pipeline) Summary() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.summary
}

func (p *Pipeline) Breakdown() risk.Breakdown {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.breakdown
}

func (p *Pipeline) DifficultTerms() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	terms := make([]string, len(p.difficultTerms))
	copy(terms, p.difficultTerms)
	return terms
}

func (p *Pipeline) SetDefinitions(definitions []dictionary.Result) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.definitions = definitions
}

func (p *Pipeline) Definitions() []dictionary.Result {
	p.mu.RLock()
	defer p.mu.RUnlock()
	defs := make([]dictionary.Result, len(p.definitions))
	copy(defs, p.definitions)
	return defs
}
