package summarizer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"legal-analysis-be/internal/pkg/logger"
	"legal-analysis-be/pkg/embedding"
	"legal-analysis-be/pkg/llm"
	"legal-analysis-be/pkg/loader"
	"legal-analysis-be/pkg/rag"
	"legal-analysis-be/pkg/rag/index"
	"legal-analysis-be/pkg/rag/prompt"
	"legal-analysis-be/pkg/rag/risk"
	"legal-analysis-be/pkg/rag/splitter"
	"legal-analysis-be/pkg/store"
)

const (
	// TopK is how many chunks feed the summary prompt.
	TopK = 20

	// AnalysisQuery is the retrieval query used when the caller asks no
	// specific question.
	AnalysisQuery = "summarize the document for risk"
)

// Summary is the retrieval stage's structured output.
type Summary struct {
	DocumentID     string
	Text           string
	Breakdown      risk.Breakdown
	DifficultTerms []string
	ChunkCount     int
	RetrievedCount int
}

// Summarizer runs the retrieval-augmented summary: load the document, chunk
// it, embed and index the chunks, retrieve the most relevant ones, and ask
// the model for the structured risk summary.
type Summarizer struct {
	loader   loader.Loader
	splitter *splitter.Splitter
	embedder embedding.EmbeddingProvider
	index    index.Index
	provider llm.LLMProvider
	log      logger.ILogger
}

func New(
	docLoader loader.Loader,
	split *splitter.Splitter,
	embedder embedding.EmbeddingProvider,
	idx index.Index,
	provider llm.LLMProvider,
	log logger.ILogger,
) *Summarizer {
	if split == nil {
		split = splitter.New(splitter.DefaultChunkSize, splitter.DefaultOverlap)
	}
	return &Summarizer{
		loader:   docLoader,
		splitter: split,
		embedder: embedder,
		index:    idx,
		provider: provider,
		log:      log,
	}
}

// Summarize produces the structured risk summary for the document at path.
// The query refines retrieval when present; AnalysisQuery is used otherwise.
// Prior session turns, when given, precede the prompt so follow-up requests
// stay anchored to the conversation. Any failure in the
// load-chunk-index-retrieve chain is a document processing failure and
// aborts the run.
func (s *Summarizer) Summarize(ctx context.Context, path, query string, history []llm.Message) (*Summary, error) {
	text, err := s.loader.Load(ctx, path)
	if err != nil {
		return nil, rag.NewDocumentProcessingError("could not load document", err)
	}
	if strings.TrimSpace(text) == "" {
		return nil, rag.NewDocumentProcessingError("document is empty", nil)
	}

	documentID := fingerprint(text)
	chunks := s.splitter.Split(text)

	entries, err := s.embedChunks(ctx, documentID, chunks)
	if err != nil {
		return nil, rag.NewDocumentProcessingError("could not embed document chunks", err)
	}

	if err := s.index.Build(ctx, documentID, entries); err != nil {
		return nil, rag.NewDocumentProcessingError("could not index document chunks", err)
	}

	retrievalQuery := strings.TrimSpace(query)
	if retrievalQuery == "" {
		retrievalQuery = AnalysisQuery
	}

	queryResponse, err := s.embedder.Generate(ctx, retrievalQuery, "RETRIEVAL_QUERY")
	if err != nil {
		return nil, rag.NewDocumentProcessingError("could not embed retrieval query", err)
	}

	retrieved, err := s.index.Query(ctx, documentID, queryResponse.Embedding.Values, TopK)
	if err != nil {
		return nil, rag.NewDocumentProcessingError("could not query document index", err)
	}

	s.log.Info("summarizer", "retrieval complete", map[string]interface{}{
		"document_id": documentID,
		"chunks":      len(chunks),
		"retrieved":   len(retrieved),
	})

	summaryText, err := s.generate(ctx, prompt.NewSummaryBuilder(retrieved, query).Build(), history)
	if err != nil {
		return nil, rag.NewDocumentProcessingError("summary generation failed", err)
	}

	return &Summary{
		DocumentID:     documentID,
		Text:           summaryText,
		Breakdown:      risk.ParseBreakdown(summaryText),
		DifficultTerms: risk.ExtractDifficultTerms(summaryText),
		ChunkCount:     len(chunks),
		RetrievedCount: len(retrieved),
	}, nil
}

func (s *Summarizer) generate(ctx context.Context, promptText string, history []llm.Message) (string, error) {
	if len(history) == 0 {
		return s.provider.Generate(ctx, promptText)
	}
	messages := append(append([]llm.Message{}, history...), llm.Message{
		Role:    "user",
		Content: promptText,
	})
	return s.provider.Chat(ctx, messages)
}

func (s *Summarizer) embedChunks(ctx context.Context, documentID string, chunks []splitter.Chunk) ([]index.Entry, error) {
	entries := make([]index.Entry, 0, len(chunks))
	for _, chunk := range chunks {
		response, err := s.embedder.Generate(ctx, chunk.Text, "RETRIEVAL_DOCUMENT")
		if err != nil {
			return nil, fmt.Errorf("chunk %d: %w", chunk.Index, err)
		}
		entries = append(entries, index.Entry{
			Document: store.Document{
				ID:      fmt.Sprintf("%s:%d", documentID, chunk.Index),
				Content: chunk.Text,
				Metadata: map[string]interface{}{
					"chunk_index": chunk.Index,
				},
			},
			Vector: response.Embedding.Values,
		})
	}
	return entries, nil
}

// fingerprint derives a stable document id from content, so re-analyzing the
// same text reuses the persistent index instead of duplicating it.
func fingerprint(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:16])
}
