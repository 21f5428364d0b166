package weaviate

import (
	"context"
	"fmt"
	"time"

	apperrors "rag-api/pkg/errors"

	fylogger "github.com/FyersDev/trading-logger-go"
	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
	"github.com/weaviate/weaviate-go-client/v5/weaviate/graphql"
	"github.com/weaviate/weaviate/entities/models"
)

// CreateObject creates one record in the given class. An empty id lets
// the store assign a fresh one; a caller-supplied id makes the write
// idempotent. A nil vector creates an unindexed record. The returned id
// is the stored object's id; the call waits for store acknowledgment.
func (w *WeaviateClient) CreateObject(ctx context.Context, class string, properties map[string]interface{}, id string, vector []float32) (string, error) {
	if id == "" {
		id = uuid.New().String()
	}

	creator := w.Client.Data().Creator().
		WithClassName(class).
		WithID(id).
		WithProperties(properties)
	if vector != nil {
		creator = creator.WithVector(vector)
	}

	if _, err := creator.Do(ctx); err != nil {
		return "", apperrors.Store(fmt.Sprintf("failed to create %s object", class), err)
	}
	return id, nil
}

// UpdateObject merges the given properties into an existing object.
// A missing target id is an error, never an implicit create.
func (w *WeaviateClient) UpdateObject(ctx context.Context, class, id string, properties map[string]interface{}) error {
	err := w.Client.Data().Updater().
		WithMerge().
		WithClassName(class).
		WithID(id).
		WithProperties(properties).
		Do(ctx)
	if err != nil {
		return apperrors.Store(fmt.Sprintf("failed to update %s object %s", class, id), err)
	}
	return nil
}

// GetJob reads an ingestion job record by id.
func (w *WeaviateClient) GetJob(ctx context.Context, jobID string) (*JobRecord, error) {
	objects, err := w.Client.Data().ObjectsGetter().
		WithClassName(ClassIngestJob).
		WithID(jobID).
		Do(ctx)
	if err != nil {
		return nil, apperrors.Store(fmt.Sprintf("failed to read job %s", jobID), err)
	}
	if len(objects) == 0 {
		return nil, apperrors.ErrNotFound
	}

	props, ok := objects[0].Properties.(map[string]interface{})
	if !ok {
		return nil, apperrors.Store(fmt.Sprintf("malformed job record %s", jobID), nil)
	}

	job := &JobRecord{
		ID:           jobID,
		SourceURL:    stringProp(props, "sourceUrl"),
		Status:       stringProp(props, "status"),
		ErrorMessage: stringProp(props, "errorMessage"),
	}
	if t, err := time.Parse(time.RFC3339, stringProp(props, "queuedAt")); err == nil {
		job.QueuedAt = t
	}
	if raw := stringProp(props, "completedAt"); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			job.CompletedAt = &t
		}
	}
	return job, nil
}

// BatchInsertChunks inserts chunk objects with their vectors in batches.
// Each batch waits for acknowledgment and reports per-object failures.
func (w *WeaviateClient) BatchInsertChunks(ctx context.Context, chunks []ChunkObject, batchSize int) error {
	if len(chunks) == 0 {
		return nil
	}
	if batchSize <= 0 {
		batchSize = 10
	}

	batcher := w.Client.Batch().ObjectsBatcher()

	for i, chunk := range chunks {
		properties := map[string]interface{}{
			"docId":      chunk.DocID,
			"chunkIndex": chunk.ChunkIndex,
			"content":    chunk.Content,
			"sourceUrl":  chunk.SourceURL,
			"docTitle":   chunk.DocTitle,
			"pageNumber": chunk.PageNumber,
			"createdAt":  chunk.CreatedAt.Format(time.RFC3339),
		}

		batcher = batcher.WithObjects(&models.Object{
			Class:      ClassKnowledgeChunk,
			ID:         strfmt.UUID(chunk.ID),
			Properties: properties,
			Vector:     models.C11yVector(chunk.Vector),
		})

		// Execute batch when reaching batch size or at the end
		if (i+1)%batchSize == 0 || i == len(chunks)-1 {
			resp, err := batcher.Do(ctx)
			if err != nil {
				return apperrors.Store(fmt.Sprintf("batch insert failed at chunk %d", i), err)
			}
			for _, res := range resp {
				if res.Result != nil && res.Result.Errors != nil && len(res.Result.Errors.Error) > 0 {
					return apperrors.Store(fmt.Sprintf("batch insert rejected object %s", res.ID),
						fmt.Errorf("%s", res.Result.Errors.Error[0].Message))
				}
			}
			// Create new batcher for next batch
			if i < len(chunks)-1 {
				batcher = w.Client.Batch().ObjectsBatcher()
			}
		}
	}
	return nil
}

// NearestNeighbors returns up to k chunks ordered by ascending cosine
// distance to the query vector. An empty store yields an empty slice.
func (w *WeaviateClient) NearestNeighbors(ctx context.Context, vector []float32, k int) ([]ChunkRecord, error) {
	fields := []graphql.Field{
		{Name: "docId"},
		{Name: "chunkIndex"},
		{Name: "content"},
		{Name: "sourceUrl"},
		{Name: "docTitle"},
		{Name: "pageNumber"},
		{Name: "_additional", Fields: []graphql.Field{{Name: "id"}, {Name: "distance"}}},
	}

	nearVector := w.Client.GraphQL().NearVectorArgBuilder().
		WithVector(vector)

	response, err := w.Client.GraphQL().Get().
		WithClassName(ClassKnowledgeChunk).
		WithFields(fields...).
		WithNearVector(nearVector).
		WithLimit(k).
		Do(ctx)
	if err != nil {
		fylogger.ErrorLog(ctx, "nearest-neighbor search failed", err, map[string]interface{}{
			"k": k,
		})
		return nil, apperrors.Store("nearest-neighbor search failed", err)
	}
	if len(response.Errors) > 0 {
		return nil, apperrors.Store("nearest-neighbor search failed",
			fmt.Errorf("%s", response.Errors[0].Message))
	}

	if response.Data == nil {
		return []ChunkRecord{}, nil
	}
	data, ok := response.Data["Get"].(map[string]interface{})
	if !ok {
		return []ChunkRecord{}, nil
	}
	return parseChunks(data, ClassKnowledgeChunk), nil
}

func parseChunks(data map[string]interface{}, collection string) []ChunkRecord {
	results := []ChunkRecord{}

	collectionData, ok := data[collection].([]any)
	if !ok {
		return results
	}

	for _, item := range collectionData {
		itemMap, ok := item.(map[string]interface{})
		if !ok {
			continue
		}

		record := ChunkRecord{
			DocID:      stringProp(itemMap, "docId"),
			ChunkIndex: intProp(itemMap, "chunkIndex"),
			Content:    stringProp(itemMap, "content"),
			SourceURL:  stringProp(itemMap, "sourceUrl"),
			DocTitle:   stringProp(itemMap, "docTitle"),
			PageNumber: intProp(itemMap, "pageNumber"),
		}

		if additional, ok := itemMap["_additional"].(map[string]interface{}); ok {
			record.ID = stringProp(additional, "id")
			if dist, ok := additional["distance"].(float64); ok {
				record.Distance = dist
			}
		}

		results = append(results, record)
	}
	return results
}

func stringProp(props map[string]interface{}, key string) string {
	if v, ok := props[key].(string); ok {
		return v
	}
	return ""
}

func intProp(props map[string]interface{}, key string) int {
	if v, ok := props[key].(float64); ok {
		return int(v)
	}
	return 0
}
