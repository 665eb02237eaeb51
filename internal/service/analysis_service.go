package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"legal-analysis-be/internal/constant"
	"legal-analysis-be/internal/dto"
	"legal-analysis-be/internal/entity"
	"legal-analysis-be/internal/pkg/logger"
	"legal-analysis-be/internal/repository/specification"
	"legal-analysis-be/internal/repository/unitofwork"
	"legal-analysis-be/pkg/rag"
	"legal-analysis-be/pkg/rag/executor"
	"legal-analysis-be/pkg/rag/history"
	"legal-analysis-be/pkg/rag/session"
	"legal-analysis-be/pkg/rag/state"

	"github.com/google/uuid"
)

// IAnalysisService defines the analysis service interface
type IAnalysisService interface {
	Analyze(ctx context.Context, userId uuid.UUID, request *dto.AnalyzeRequest) (*dto.AnalyzeResponse, error)
	GetAllSessions(ctx context.Context, userId uuid.UUID) ([]*dto.GetAllSessionsResponse, error)
	GetChatHistory(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) ([]*dto.GetChatHistoryResponse, error)
	DeleteSession(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) error
}

type analysisService struct {
	uowFactory       unitofwork.RepositoryFactory
	sessionManager   *session.Manager
	historyLoader    *history.Loader
	pipelineExecutor *executor.PipelineExecutor
	log              logger.ILogger
}

func NewAnalysisService(
	uowFactory unitofwork.RepositoryFactory,
	sessionManager *session.Manager,
	historyLoader *history.Loader,
	pipelineExecutor *executor.PipelineExecutor,
	log logger.ILogger,
) IAnalysisService {
	return &analysisService{
		uowFactory:       uowFactory,
		sessionManager:   sessionManager,
		historyLoader:    historyLoader,
		pipelineExecutor: pipelineExecutor,
		log:              log,
	}
}

// Analyze runs the full risk-analysis pipeline for one document and records
// the exchange as a session turn.
func (as *analysisService) Analyze(ctx context.Context, userId uuid.UUID, request *dto.AnalyzeRequest) (*dto.AnalyzeResponse, error) {
	path := strings.TrimSpace(request.DocumentPath)
	if path == "" {
		return nil, rag.NewInputValidationError("document_path must not be empty")
	}
	if info, err := os.Stat(path); err != nil || info.IsDir() {
		return nil, rag.NewInputValidationError(fmt.Sprintf("document_path %q does not point to a readable file", path))
	}

	chatSession, created, err := as.sessionManager.Resolve(ctx, userId, request.ChatSessionId, titleSeed(request))
	if err != nil {
		return nil, err
	}

	st := state.NewPipeline(path, strings.TrimSpace(request.Query))
	if !created {
		priorTurns, err := as.historyLoader.Load(ctx, chatSession.Id)
		if err != nil {
			as.log.Warn("analysis", "could not load session history", map[string]interface{}{
				"session_id": chatSession.Id.String(),
				"error":      err.Error(),
			})
		} else {
			st.SetHistory(priorTurns)
		}
	}

	final, err := as.pipelineExecutor.Run(ctx, chatSession.Id.String(), st)
	if err != nil {
		return nil, err
	}

	if err := as.persistTurn(ctx, chatSession, request, final); err != nil {
		// The analysis already succeeded; a persistence failure should not
		// discard the result.
		as.log.Error("analysis", "could not persist session turn", map[string]interface{}{
			"session_id": chatSession.Id.String(),
			"error":      err.Error(),
		})
	}

	return as.buildResponse(chatSession, created, st, final), nil
}

func (as *analysisService) persistTurn(ctx context.Context, chatSession *entity.ChatSession, request *dto.AnalyzeRequest, final *executor.FinalResult) error {
	now := time.Now()

	userChat := fmt.Sprintf("Analyze document: %s", request.DocumentPath)
	if strings.TrimSpace(request.Query) != "" {
		userChat = fmt.Sprintf("%s\n%s", userChat, strings.TrimSpace(request.Query))
	}

	stageNames := make([]string, 0, len(final.Outcomes))
	degraded := make([]string, 0)
	for _, o := range final.Outcomes {
		stageNames = append(stageNames, o.Stage)
		if o.Degraded {
			degraded = append(degraded, o.Stage)
		}
	}

	userMessage := &entity.ChatMessage{
		Id:            uuid.New(),
		Chat:          userChat,
		Role:          constant.ChatMessageRoleUser,
		ChatSessionId: chatSession.Id,
		CreatedAt:     now,
	}
	modelMessage := &entity.ChatMessage{
		Id:            uuid.New(),
		Chat:          final.Render(),
		Role:          constant.ChatMessageRoleModel,
		ChatSessionId: chatSession.Id,
		Metadata: map[string]interface{}{
			"stages":          stageNames,
			"degraded_stages": degraded,
			"has_code":        final.CombinedCode != "",
		},
		CreatedAt: now.Add(1 * time.Second),
	}

	uow := as.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.ChatMessageRepository().CreateBulk(ctx, []*entity.ChatMessage{userMessage, modelMessage}); err != nil {
		return err
	}

	touched := *chatSession
	touched.UpdatedAt = &now
	if err := uow.ChatSessionRepository().Update(ctx, &touched); err != nil {
		return err
	}

	return uow.Commit()
}

func (as *analysisService) buildResponse(chatSession *entity.ChatSession, created bool, st *state.Pipeline, final *executor.FinalResult) *dto.AnalyzeResponse {
	stages := make([]dto.StageResultDTO, 0, len(final.Outcomes))
	for _, o := range final.Outcomes {
		stages = append(stages, dto.StageResultDTO{
			Stage:     o.Stage,
			Narrative: o.Narrative,
			Code:      o.Code,
			Degraded:  o.Degraded,
		})
	}

	definitions := make([]dto.TermDefinitionDTO, 0)
	for _, d := range st.Definitions() {
		definitions = append(definitions, dto.TermDefinitionDTO{
			Term:       d.Term,
			Source:     string(d.Tier),
			Definition: d.Definition,
		})
	}

	breakdown := st.Breakdown()
	return &dto.AnalyzeResponse{
		ChatSessionId:    chatSession.Id,
		ChatSessionTitle: chatSession.Title,
		SessionCreated:   created,
		Stages:           stages,
		Combined:         final.Render(),
		Code:             final.CombinedCode,
		Breakdown: dto.RiskBreakdownDTO{
			SeverityCounts: breakdown.SeverityCounts,
			CategoryCounts: breakdown.CategoryCounts,
		},
		Definitions: definitions,
	}
}

// GetAllSessions retrieves all analysis sessions for a user
func (as *analysisService) GetAllSessions(ctx context.Context, userId uuid.UUID) ([]*dto.GetAllSessionsResponse, error) {
	uow := as.uowFactory.NewUnitOfWork(ctx)

	chatSessions, err := uow.ChatSessionRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.NotDeleted{},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	response := make([]*dto.GetAllSessionsResponse, 0, len(chatSessions))
	for _, s := range chatSessions {
		response = append(response, &dto.GetAllSessionsResponse{
			Id:        s.Id,
			Title:     s.Title,
			CreatedAt: s.CreatedAt,
			UpdatedAt: s.UpdatedAt,
		})
	}

	return response, nil
}

// GetChatHistory retrieves the recorded turns of one session
func (as *analysisService) GetChatHistory(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) ([]*dto.GetChatHistoryResponse, error) {
	uow := as.uowFactory.NewUnitOfWork(ctx)

	sess, err := uow.ChatSessionRepository().FindOne(ctx,
		specification.ByID{ID: sessionId},
		specification.UserOwnedBy{UserID: userId},
		specification.NotDeleted{},
	)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, rag.NewInputValidationError("session not found or access denied")
	}

	chatMessages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatSessionID{ChatSessionID: sessionId},
		specification.NotDeleted{},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	response := make([]*dto.GetChatHistoryResponse, 0, len(chatMessages))
	for _, msg := range chatMessages {
		response = append(response, &dto.GetChatHistoryResponse{
			Id:        msg.Id,
			Role:      msg.Role,
			Chat:      msg.Chat,
			Metadata:  msg.Metadata,
			CreatedAt: msg.CreatedAt,
		})
	}

	return response, nil
}

// DeleteSession removes a session and invalidates the continuation cache
func (as *analysisService) DeleteSession(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) error {
	uow := as.uowFactory.NewUnitOfWork(ctx)

	sess, err := uow.ChatSessionRepository().FindOne(ctx,
		specification.ByID{ID: sessionId},
		specification.UserOwnedBy{UserID: userId},
		specification.NotDeleted{},
	)
	if err != nil {
		return err
	}
	if sess == nil {
		return rag.NewInputValidationError("session not found or access denied")
	}

	if err := uow.ChatSessionRepository().Delete(ctx, sessionId); err != nil {
		return err
	}

	as.sessionManager.Invalidate(userId)
	return nil
}

func titleSeed(request *dto.AnalyzeRequest) string {
	if strings.TrimSpace(request.Query) != "" {
		return strings.TrimSpace(request.Query)
	}
	return fmt.Sprintf("Analysis of %s", filepath.Base(request.DocumentPath))
}
