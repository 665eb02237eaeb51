package index

import (
	"context"

	"legal-analysis-be/internal/entity"
	"legal-analysis-be/internal/repository/contract"
	"legal-analysis-be/pkg/store"

	"github.com/google/uuid"
)

// PgvectorIndex persists embedded chunks in Postgres and ranks them with
// pgvector's cosine distance. Unlike MemoryIndex it survives restarts, so
// repeated runs over the same document skip nothing but the retrieval query.
type PgvectorIndex struct {
	embeddings contract.DocumentEmbeddingRepository
}

func NewPgvectorIndex(embeddings contract.DocumentEmbeddingRepository) *PgvectorIndex {
	return &PgvectorIndex{embeddings: embeddings}
}

func (i *PgvectorIndex) Build(ctx context.Context, documentID string, entries []Entry) error {
	rows := make([]*entity.DocumentEmbedding, 0, len(entries))
	for n, e := range entries {
		rows = append(rows, &entity.DocumentEmbedding{
			Id:         uuid.New(),
			DocumentId: documentID,
			Content:    e.Document.Content,
			Embedding:  e.Vector,
			ChunkIndex: chunkIndex(e, n),
		})
	}
	return i.embeddings.ReplaceForDocument(ctx, documentID, rows)
}

func (i *PgvectorIndex) Query(ctx context.Context, documentID string, vector []float32, k int) ([]store.Document, error) {
	scored, err := i.embeddings.SearchSimilarWithScore(ctx, documentID, vector, k)
	if err != nil {
		return nil, err
	}

	docs := make([]store.Document, 0, len(scored))
	for _, s := range scored {
		docs = append(docs, store.Document{
			ID:      s.Embedding.Id.String(),
			Content: s.Embedding.Content,
			Score:   float32(s.Similarity),
			Metadata: map[string]interface{}{
				"chunk_index": s.Embedding.ChunkIndex,
			},
		})
	}
	return docs, nil
}

func chunkIndex(e Entry, fallback int) int {
	if e.Document.Metadata != nil {
		if idx, ok := e.Document.Metadata["chunk_index"].(int); ok {
			return idx
		}
	}
	return fallback
}
