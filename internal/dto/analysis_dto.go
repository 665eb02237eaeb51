package dto

import (
	"time"

	"github.com/google/uuid"
)

type AnalyzeRequest struct {
	DocumentPath  string     `json:"document_path" validate:"required"`
	Query         string     `json:"query,omitempty"`
	ChatSessionId *uuid.UUID `json:"chat_session_id,omitempty"`
}

type StageResultDTO struct {
	Stage     string `json:"stage"`
	Narrative string `json:"narrative"`
	Code      string `json:"code,omitempty"`
	Degraded  bool   `json:"degraded"`
}

type TermDefinitionDTO struct {
	Term       string `json:"term"`
	Source     string `json:"source"`
	Definition string `json:"definition,omitempty"`
}

type RiskBreakdownDTO struct {
	SeverityCounts map[string]int `json:"severity_counts"`
	CategoryCounts map[string]int `json:"category_counts"`
}

type AnalyzeResponse struct {
	ChatSessionId    uuid.UUID           `json:"chat_session_id"`
	ChatSessionTitle string              `json:"title"`
	SessionCreated   bool                `json:"session_created"`
	Stages           []StageResultDTO    `json:"stages"`
	Combined         string              `json:"combined"`
	Code             string              `json:"code,omitempty"`
	Breakdown        RiskBreakdownDTO    `json:"breakdown"`
	Definitions      []TermDefinitionDTO `json:"definitions,omitempty"`
}

type GetAllSessionsResponse struct {
	Id        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

type GetChatHistoryResponse struct {
	Id        uuid.UUID              `json:"id"`
	Role      string                 `json:"role"`
	Chat      string                 `json:"chat"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}
