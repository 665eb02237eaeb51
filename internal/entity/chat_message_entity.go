package entity

import (
	"time"

	"github.com/google/uuid"
)

// ChatMessage is one turn of a session. Metadata carries per-stage provenance
// for model turns (stage names, whether a code payload was attached).
type ChatMessage struct {
	Id            uuid.UUID
	Chat          string
	Role          string
	ChatSessionId uuid.UUID
	Metadata      map[string]interface{}
	CreatedAt     time.Time
	UpdatedAt     *time.Time
	DeletedAt     *time.Time
	IsDeleted     bool
}
