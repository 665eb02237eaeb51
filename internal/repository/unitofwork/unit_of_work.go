package unitofwork

import (
	"context"

	"legal-analysis-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	ChatSessionRepository() contract.ChatSessionRepository
	ChatMessageRepository() contract.ChatMessageRepository
	DocumentEmbeddingRepository() contract.DocumentEmbeddingRepository
}
