package contract

import (
	"context"

	"legal-analysis-be/internal/entity"
)

// ScoredDocumentEmbedding wraps DocumentEmbedding with its similarity score
type ScoredDocumentEmbedding struct {
	Embedding  *entity.DocumentEmbedding
	Similarity float64 // 0.0 to 1.0 (1.0 = identical)
}

type DocumentEmbeddingRepository interface {
	// ReplaceForDocument drops any stored chunks for the document and stores
	// the new set in one transaction.
	ReplaceForDocument(ctx context.Context, documentId string, embeddings []*entity.DocumentEmbedding) error
	// SearchSimilarWithScore returns the stored chunks of one document ranked
	// by cosine similarity to the query vector.
	SearchSimilarWithScore(ctx context.Context, documentId string, embedding []float32, limit int) ([]*ScoredDocumentEmbedding, error)
	DeleteByDocumentId(ctx context.Context, documentId string) error
}
