package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"rag-api/cmd/configs"
	"rag-api/pkg/weaviate"

	fylogger "github.com/FyersDev/trading-logger-go"
	"github.com/google/uuid"
)

// FallbackAnswer is the single non-streamed response used when
// retrieval finds no relevant context.
const FallbackAnswer = "I could not find any relevant information in the knowledge base for your question."

const groundingInstruction = `You are an assistant for a document knowledge base. Answer the question using ONLY the context provided below. Do not use any outside knowledge. If the context does not contain enough information to answer the question, say that you cannot answer it from the knowledge base.`

// QueryRequest is one natural-language question against the knowledge
// base.
type QueryRequest struct {
	Query     string `json:"query" binding:"required"`
	SessionID string `json:"session_id"`
}

// QueryService answers questions with streamed, citation-backed
// responses grounded in the stored chunks.
type QueryService struct {
	gateway   VectorGateway
	embedder  Embedder
	generator Generator
	config    configs.QueryConfig
}

// NewQueryService creates the query engine
func NewQueryService(gateway VectorGateway, embedder Embedder, generator Generator, config configs.QueryConfig) *QueryService {
	if config.TopK <= 0 {
		config.TopK = 3
	}
	if config.StoreTimeout <= 0 {
		config.StoreTimeout = 30 * time.Second
	}
	return &QueryService{
		gateway:   gateway,
		embedder:  embedder,
		generator: generator,
		config:    config,
	}
}

// Answer runs one query to completion, pushing the ordered event
// sequence through emit. An emit error means the caller disconnected:
// generation is abandoned and nothing is persisted. Exactly one
// terminal event (llm_sources, llm_response or error) is emitted per
// call.
func (s *QueryService) Answer(ctx context.Context, req QueryRequest, emit func(StreamEvent) error) {
	query := strings.TrimSpace(req.Query)
	if query == "" || (s.config.MaxQueryLength > 0 && len(query) > s.config.MaxQueryLength) {
		_ = emit(NewErrorEvent("query must be between 1 and 2000 characters"))
		return
	}

	vector, err := s.embedder.EmbedQuery(ctx, query)
	if err != nil {
		fylogger.ErrorLog(ctx, "Query embedding failed", err, nil)
		_ = emit(NewErrorEvent("failed to process the question"))
		return
	}
	if err := emit(NewEmbeddingResultEvent(len(vector))); err != nil {
		return
	}

	searchCtx, cancelSearch := context.WithTimeout(ctx, s.config.StoreTimeout)
	records, err := s.gateway.NearestNeighbors(searchCtx, vector, s.config.TopK)
	cancelSearch()
	if err != nil {
		fylogger.ErrorLog(ctx, "Context retrieval failed", err, nil)
		_ = emit(NewErrorEvent("failed to search the knowledge base"))
		return
	}
	if err := emit(NewRetrievedContextEvent(records)); err != nil {
		return
	}

	// Ungrounded: answer with the canned fallback and stop. No
	// interaction is persisted for fallback answers.
	if len(records) == 0 {
		_ = emit(NewLLMResponseEvent(FallbackAnswer))
		return
	}

	stream, err := s.generator.StreamChat(ctx, groundingInstruction, buildPrompt(query, records))
	if err != nil {
		fylogger.ErrorLog(ctx, "Failed to start generation", err, nil)
		_ = emit(NewErrorEvent("failed to generate an answer"))
		return
	}
	defer stream.Close()

	var answer strings.Builder
	for {
		fragment, err := stream.Recv()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			fylogger.ErrorLog(ctx, "Generation failed mid-stream", err, nil)
			_ = emit(NewErrorEvent("answer generation was interrupted"))
			return
		}
		if fragment == "" {
			continue
		}
		if err := emit(NewLLMChunkEvent(fragment)); err != nil {
			return
		}
		answer.WriteString(fragment)
	}

	if err := emit(NewLLMSourcesEvent(records)); err != nil {
		return
	}

	// The answer is already delivered; a failed interaction write is
	// logged and never surfaces to the caller.
	if err := s.persistInteraction(ctx, req.SessionID, query, answer.String(), records); err != nil {
		fylogger.ErrorLog(ctx, "Failed to persist chat interaction", err, nil)
	}
}

// buildPrompt composes the grounded prompt from the retrieved chunks
// only.
func buildPrompt(query string, records []weaviate.ChunkRecord) string {
	var b strings.Builder
	b.WriteString("Context:\n")
	for i, r := range records {
		fmt.Fprintf(&b, "\n[%d] %s (%s)\n%s\n", i+1, r.DocTitle, r.SourceURL, r.Content)
	}
	b.WriteString("\nQuestion: ")
	b.WriteString(query)
	return b.String()
}

func (s *QueryService) persistInteraction(ctx context.Context, sessionID, prompt, answer string, records []weaviate.ChunkRecord) error {
	citationIDs := make([]string, len(records))
	for i, r := range records {
		citationIDs[i] = r.ID
	}

	properties := map[string]interface{}{
		"sessionId":        sessionID,
		"prompt":           prompt,
		"answer":           answer,
		"citationChunkIds": citationIDs,
		"askedAt":          time.Now().UTC().Format(time.RFC3339),
	}

	storeCtx, cancel := context.WithTimeout(ctx, s.config.StoreTimeout)
	defer cancel()
	_, err := s.gateway.CreateObject(storeCtx, weaviate.ClassChatInteraction, properties, uuid.New().String(), nil)
	return err
}
