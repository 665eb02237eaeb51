package mapper

import (
	"legal-analysis-be/internal/entity"
	"legal-analysis-be/internal/model"

	"github.com/pgvector/pgvector-go"
)

type DocumentEmbeddingMapper struct{}

func NewDocumentEmbeddingMapper() *DocumentEmbeddingMapper {
	return &DocumentEmbeddingMapper{}
}

func (m *DocumentEmbeddingMapper) ToEntity(e *model.DocumentEmbedding) *entity.DocumentEmbedding {
	if e == nil {
		return nil
	}

	return &entity.DocumentEmbedding{
		Id:         e.Id,
		DocumentId: e.DocumentId,
		Content:    e.Content,
		Embedding:  e.Embedding.Slice(),
		ChunkIndex: e.ChunkIndex,
		CreatedAt:  e.CreatedAt,
	}
}

func (m *DocumentEmbeddingMapper) ToModel(e *entity.DocumentEmbedding) *model.DocumentEmbedding {
	if e == nil {
		return nil
	}

	return &model.DocumentEmbedding{
		Id:         e.Id,
		DocumentId: e.DocumentId,
		Content:    e.Content,
		Embedding:  pgvector.NewVector(e.Embedding),
		ChunkIndex: e.ChunkIndex,
		CreatedAt:  e.CreatedAt,
	}
}
