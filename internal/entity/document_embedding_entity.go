package entity

import (
	"time"

	"github.com/google/uuid"
)

// DocumentEmbedding is one embedded chunk of an analyzed document, keyed by
// the document's content identity so repeated runs over the same file reuse
// the stored vectors.
type DocumentEmbedding struct {
	Id         uuid.UUID
	DocumentId string
	Content    string
	Embedding  []float32
	ChunkIndex int
	CreatedAt  time.Time
}
