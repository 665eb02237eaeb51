package index

import (
	"context"
	"math"
	"sort"
	"sync"

	"legal-analysis-be/pkg/store"
)

// MemoryIndex is a per-run, in-process cosine similarity index. Entries live
// only as long as the index; a pipeline run builds it, queries it, and lets
// it go.
type MemoryIndex struct {
	mu      sync.RWMutex
	entries map[string][]Entry
}

var _ Index = &MemoryIndex{}

func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{
		entries: make(map[string][]Entry),
	}
}

func (m *MemoryIndex) Build(ctx context.Context, documentID string, entries []Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[documentID] = entries
	return nil
}

func (m *MemoryIndex) Query(ctx context.Context, documentID string, vector []float32, k int) ([]store.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	entries := m.entries[documentID]
	m.mu.RUnlock()

	scored := make([]store.Document, 0, len(entries))
	for _, e := range entries {
		doc := e.Document
		doc.Score = cosineSimilarity(vector, e.Vector)
		scored = append(scored, doc)
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if k > 0 && len(scored) > k {
		scored = scored[:k]
	}
	return scored, nil
}

func cosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}

	// Vectors from the embedding providers are already normalized, but the
	// norms are cheap to carry and keep the math correct for raw vectors.
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
