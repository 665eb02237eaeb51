package index

import (
	"context"

	"legal-analysis-be/pkg/store"
)

// Entry pairs a document with its embedding vector.
type Entry struct {
	Document store.Document
	Vector   []float32
}

// Index is a similarity index over embedded chunks. Build replaces the
// entries for one document; Query returns the k entries most similar to the
// query vector, best first.
type Index interface {
	Build(ctx context.Context, documentID string, entries []Entry) error
	Query(ctx context.Context, documentID string, vector []float32, k int) ([]store.Document, error)
}
