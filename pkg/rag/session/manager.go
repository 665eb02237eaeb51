package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"legal-analysis-be/internal/entity"
	"legal-analysis-be/internal/pkg/logger"
	"legal-analysis-be/internal/repository/specification"
	"legal-analysis-be/internal/repository/unitofwork"
	"legal-analysis-be/pkg/rag"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
)

// ContinuationPolicy selects which existing session an unanchored request
// continues.
type ContinuationPolicy string

const (
	// ContinueMostRecent picks the most recently created session.
	ContinueMostRecent ContinuationPolicy = "most_recent"
	// ContinueOldest picks the user's first session.
	ContinueOldest ContinuationPolicy = "oldest"
)

const (
	latestSessionTTL = 5 * time.Minute
	maxTitleLength   = 80
)

// Manager resolves the session an analysis run belongs to. An explicit
// session id is honored after an ownership check; otherwise the continuation
// policy picks an existing session, and only when the user has none is a new
// one created.
type Manager struct {
	uowFactory unitofwork.RepositoryFactory
	policy     ContinuationPolicy
	cache      *gocache.Cache
	log        logger.ILogger
}

func NewManager(uowFactory unitofwork.RepositoryFactory, policy ContinuationPolicy, log logger.ILogger) *Manager {
	if policy == "" {
		policy = ContinueMostRecent
	}
	return &Manager{
		uowFactory: uowFactory,
		policy:     policy,
		cache:      gocache.New(latestSessionTTL, 10*time.Minute),
		log:        log,
	}
}

// Resolve returns the session for this run and whether it was newly created.
func (m *Manager) Resolve(ctx context.Context, userId uuid.UUID, explicit *uuid.UUID, title string) (*entity.ChatSession, bool, error) {
	repo := m.uowFactory.NewUnitOfWork(ctx).ChatSessionRepository()

	if explicit != nil {
		session, err := repo.FindOne(ctx,
			specification.ByID{ID: *explicit},
			specification.UserOwnedBy{UserID: userId},
			specification.NotDeleted{},
		)
		if err != nil {
			return nil, false, err
		}
		if session == nil {
			return nil, false, rag.NewInputValidationError(fmt.Sprintf("session %s not found", explicit))
		}
		return session, false, nil
	}

	if session := m.cachedLatest(userId); session != nil {
		return session, false, nil
	}

	session, err := m.findByPolicy(ctx, userId)
	if err != nil {
		return nil, false, err
	}
	if session != nil {
		m.cache.Set(cacheKey(userId), session, gocache.DefaultExpiration)
		return session, false, nil
	}

	created, err := m.create(ctx, userId, title)
	if err != nil {
		return nil, false, err
	}
	m.cache.Set(cacheKey(userId), created, gocache.DefaultExpiration)
	return created, true, nil
}

// Invalidate drops the cached session for a user, forcing the next Resolve
// to hit the database. Called after deletes.
func (m *Manager) Invalidate(userId uuid.UUID) {
	m.cache.Delete(cacheKey(userId))
}

func (m *Manager) cachedLatest(userId uuid.UUID) *entity.ChatSession {
	if cached, found := m.cache.Get(cacheKey(userId)); found {
		if session, ok := cached.(*entity.ChatSession); ok {
			return session
		}
	}
	return nil
}

func (m *Manager) findByPolicy(ctx context.Context, userId uuid.UUID) (*entity.ChatSession, error) {
	order := specification.OrderBy{Field: "created_at", Desc: true}
	if m.policy == ContinueOldest {
		order = specification.OrderBy{Field: "created_at", Desc: false}
	}

	sessions, err := m.uowFactory.NewUnitOfWork(ctx).ChatSessionRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.NotDeleted{},
		order,
		specification.Pagination{Limit: 1, Offset: 0},
	)
	if err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return nil, nil
	}
	return sessions[0], nil
}

func (m *Manager) create(ctx context.Context, userId uuid.UUID, title string) (*entity.ChatSession, error) {
	session := &entity.ChatSession{
		Id:     uuid.New(),
		UserId: userId,
		Title:  DeriveTitle(title),
	}
	if err := m.uowFactory.NewUnitOfWork(ctx).ChatSessionRepository().Create(ctx, session); err != nil {
		return nil, rag.NewSessionCreationError("could not create analysis session", err)
	}

	m.log.Info("session", "created analysis session", map[string]interface{}{
		"session_id": session.Id.String(),
		"user_id":    userId.String(),
	})
	return session, nil
}

// DeriveTitle produces a session title from the first request. Empty input
// falls back to a generic title; long input is cut at the cap.
func DeriveTitle(seed string) string {
	seed = strings.TrimSpace(seed)
	if seed == "" {
		return "Document Analysis"
	}
	runes := []rune(seed)
	if len(runes) > maxTitleLength {
		return string(runes[:maxTitleLength])
	}
	return seed
}

func cacheKey(userId uuid.UUID) string {
	return "latest-session:" + userId.String()
}
