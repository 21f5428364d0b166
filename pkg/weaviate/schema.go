package weaviate

import (
	"context"
	"fmt"

	fylogger "github.com/FyersDev/trading-logger-go"
	"github.com/weaviate/weaviate/entities/models"
)

// classDefinitions returns the four classes of the knowledge base.
// Vectors are supplied by the embedder, so every class runs with
// vectorizer "none"; only KnowledgeChunk objects carry one.
func classDefinitions() []*models.Class {
	return []*models.Class{
		{
			Class:      ClassIngestJob,
			Vectorizer: "none",
			Properties: []*models.Property{
				{Name: "sourceUrl", DataType: []string{"text"}},
				{Name: "status", DataType: []string{"text"}},
				{Name: "queuedAt", DataType: []string{"date"}},
				{Name: "completedAt", DataType: []string{"date"}},
				{Name: "errorMessage", DataType: []string{"text"}},
			},
		},
		{
			Class:      ClassRawDocument,
			Vectorizer: "none",
			Properties: []*models.Property{
				{Name: "jobId", DataType: []string{"text"}},
				{Name: "sourceUrl", DataType: []string{"text"}},
				{Name: "title", DataType: []string{"text"}},
				{Name: "createdAt", DataType: []string{"date"}},
			},
		},
		{
			Class:           ClassKnowledgeChunk,
			Vectorizer:      "none",
			VectorIndexType: "hnsw",
			VectorIndexConfig: map[string]interface{}{
				"distance": "cosine",
			},
			Properties: []*models.Property{
				{Name: "docId", DataType: []string{"text"}},
				{Name: "chunkIndex", DataType: []string{"int"}},
				{Name: "content", DataType: []string{"text"}},
				{Name: "sourceUrl", DataType: []string{"text"}},
				{Name: "docTitle", DataType: []string{"text"}},
				{Name: "pageNumber", DataType: []string{"int"}},
				{Name: "createdAt", DataType: []string{"date"}},
			},
		},
		{
			Class:      ClassChatInteraction,
			Vectorizer: "none",
			Properties: []*models.Property{
				{Name: "sessionId", DataType: []string{"text"}},
				{Name: "prompt", DataType: []string{"text"}},
				{Name: "answer", DataType: []string{"text"}},
				{Name: "citationChunkIds", DataType: []string{"text[]"}},
				{Name: "askedAt", DataType: []string{"date"}},
			},
		},
	}
}

// EnsureSchema creates the knowledge-base classes, skipping any that
// already exist.
func (w *WeaviateClient) EnsureSchema(ctx context.Context) error {
	for _, class := range classDefinitions() {
		err := w.Client.Schema().ClassCreator().
			WithClass(class).
			Do(ctx)

		if err != nil {
			exists, _ := w.Client.Schema().ClassExistenceChecker().WithClassName(class.Class).Do(ctx)
			if exists {
				continue
			}
			return fmt.Errorf("failed to create class %s: %w", class.Class, err)
		}

		fylogger.InfoLog(ctx, fmt.Sprintf("Created weaviate class %s", class.Class), nil)
	}
	return nil
}
