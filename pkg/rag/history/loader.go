package history

import (
	"context"

	"legal-analysis-be/internal/constant"
	"legal-analysis-be/internal/repository/specification"
	"legal-analysis-be/internal/repository/unitofwork"
	"legal-analysis-be/pkg/llm"

	"github.com/google/uuid"
)

const defaultLimit = 20

// Loader reads the recent turns of a session back as provider messages so
// follow-up analysis carries conversational context.
type Loader struct {
	uowFactory unitofwork.RepositoryFactory
	limit      int
}

func NewLoader(uowFactory unitofwork.RepositoryFactory, limit int) *Loader {
	if limit <= 0 {
		limit = defaultLimit
	}
	return &Loader{uowFactory: uowFactory, limit: limit}
}

// Load returns the last turns of the session in chronological order.
func (l *Loader) Load(ctx context.Context, sessionId uuid.UUID) ([]llm.Message, error) {
	entities, err := l.uowFactory.NewUnitOfWork(ctx).ChatMessageRepository().FindAll(ctx,
		specification.ByChatSessionID{ChatSessionID: sessionId},
		specification.NotDeleted{},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: l.limit, Offset: 0},
	)
	if err != nil {
		return nil, err
	}

	// Query is newest-first for the limit; flip back to chronological.
	messages := make([]llm.Message, 0, len(entities))
	for i := len(entities) - 1; i >= 0; i-- {
		role := "user"
		if entities[i].Role == constant.ChatMessageRoleModel {
			role = "assistant"
		}
		messages = append(messages, llm.Message{
			Role:    role,
			Content: entities[i].Chat,
		})
	}
	return messages, nil
}
