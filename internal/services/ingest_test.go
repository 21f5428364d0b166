package services

import (
	"context"
	"testing"
	"time"

	"rag-api/cmd/configs"
	"rag-api/internal/extractor"
	apperrors "rag-api/pkg/errors"
	"rag-api/pkg/weaviate"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ingestConfig() configs.IngestConfig {
	return configs.IngestConfig{
		WorkerCount:  1,
		QueueKey:     "test:jobs",
		ChunkSize:    1000,
		ChunkOverlap: 200,
		BatchSize:    10,
		StoreTimeout: 5 * time.Second,
	}
}

func TestSubmit_RejectsInvalidURL(t *testing.T) {
	gateway := &fakeGateway{}
	queue := &fakeQueue{}
	svc := NewIngestService(gateway, queue, &fakeExtractor{}, &fakeEmbedder{}, ingestConfig())

	for _, raw := range []string{"", "   ", "not-a-url", "ftp://example.com/x", "http://"} {
		_, err := svc.Submit(context.Background(), raw)
		require.Error(t, err, "url %q", raw)
		assert.Equal(t, apperrors.CodeValidation, apperrors.CodeOf(err))
	}

	assert.Empty(t, gateway.created)
	assert.Empty(t, queue.enqueued)
}

func TestSubmit_RecordsPendingJobAndEnqueues(t *testing.T) {
	gateway := &fakeGateway{}
	queue := &fakeQueue{}
	svc := NewIngestService(gateway, queue, &fakeExtractor{}, &fakeEmbedder{}, ingestConfig())

	jobID, err := svc.Submit(context.Background(), "https://example.com/article")
	require.NoError(t, err)
	require.NotEmpty(t, jobID)
	_, err = uuid.Parse(jobID)
	require.NoError(t, err)

	jobs := gateway.createdOfClass(weaviate.ClassIngestJob)
	require.Len(t, jobs, 1)
	assert.Equal(t, jobID, jobs[0].id)
	assert.Equal(t, "https://example.com/article", jobs[0].properties["sourceUrl"])
	assert.Equal(t, "pending", jobs[0].properties["status"])
	assert.NotEmpty(t, jobs[0].properties["queuedAt"])

	assert.Equal(t, []string{jobID}, queue.enqueued)
}

func TestSubmit_EnqueueFailureMarksJobFailed(t *testing.T) {
	gateway := &fakeGateway{}
	queue := &fakeQueue{enqueueErr: assert.AnError}
	svc := NewIngestService(gateway, queue, &fakeExtractor{}, &fakeEmbedder{}, ingestConfig())

	_, err := svc.Submit(context.Background(), "https://example.com/article")
	require.Error(t, err)

	last := gateway.lastStatus()
	require.NotNil(t, last)
	assert.Equal(t, "failed", last["status"])
	assert.NotEmpty(t, last["errorMessage"])
}

func TestGetJob_RejectsMalformedID(t *testing.T) {
	svc := NewIngestService(&fakeGateway{}, &fakeQueue{}, &fakeExtractor{}, &fakeEmbedder{}, ingestConfig())

	_, err := svc.GetJob(context.Background(), "not-a-uuid")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeValidation, apperrors.CodeOf(err))
}

func TestProcessJob_CompletedFlow(t *testing.T) {
	jobID := uuid.New().String()
	gateway := &fakeGateway{
		job: &weaviate.JobRecord{ID: jobID, SourceURL: "https://example.com/article", Status: "pending"},
	}
	ext := &fakeExtractor{result: &extractor.Result{
		Title: "Example Article",
		Text:  "First paragraph of the article.\n\nSecond paragraph of the article.",
	}}
	svc := NewIngestService(gateway, &fakeQueue{}, ext, &fakeEmbedder{}, ingestConfig())

	svc.processJob(jobID, 0)

	// processing first, completed last
	require.GreaterOrEqual(t, len(gateway.updates), 2)
	assert.Equal(t, "processing", gateway.updates[0].properties["status"])
	last := gateway.lastStatus()
	assert.Equal(t, "completed", last["status"])
	assert.NotEmpty(t, last["completedAt"])
	assert.NotContains(t, last, "errorMessage")

	docs := gateway.createdOfClass(weaviate.ClassRawDocument)
	require.Len(t, docs, 1)
	assert.Equal(t, "Example Article", docs[0].properties["title"])
	assert.Equal(t, jobID, docs[0].properties["jobId"])

	require.Len(t, gateway.batches, 1)
	chunks := gateway.batches[0]
	require.NotEmpty(t, chunks)
	for i, chunk := range chunks {
		assert.Equal(t, i, chunk.ChunkIndex)
		assert.Equal(t, docs[0].id, chunk.DocID)
		assert.Equal(t, "https://example.com/article", chunk.SourceURL)
		assert.NotEmpty(t, chunk.Vector)
		assert.Equal(t, 0, chunk.PageNumber)
	}
}

func TestProcessJob_ExtractionFailure(t *testing.T) {
	jobID := uuid.New().String()
	gateway := &fakeGateway{
		job: &weaviate.JobRecord{ID: jobID, SourceURL: "https://example.com/slow", Status: "pending"},
	}
	ext := &fakeExtractor{err: apperrors.Extraction("timeout", context.DeadlineExceeded)}
	svc := NewIngestService(gateway, &fakeQueue{}, ext, &fakeEmbedder{}, ingestConfig())

	svc.processJob(jobID, 0)

	last := gateway.lastStatus()
	assert.Equal(t, "failed", last["status"])
	assert.Equal(t, "content extraction failed (timeout)", last["errorMessage"])
	assert.NotEmpty(t, last["completedAt"])

	// nothing was stored for the failed job
	assert.Empty(t, gateway.createdOfClass(weaviate.ClassRawDocument))
	assert.Empty(t, gateway.batches)
}

func TestProcessJob_NoChunksFailsJob(t *testing.T) {
	jobID := uuid.New().String()
	gateway := &fakeGateway{
		job: &weaviate.JobRecord{ID: jobID, SourceURL: "https://example.com/empty", Status: "pending"},
	}
	ext := &fakeExtractor{result: &extractor.Result{Title: "Empty", Text: "   "}}
	svc := NewIngestService(gateway, &fakeQueue{}, ext, &fakeEmbedder{}, ingestConfig())

	svc.processJob(jobID, 0)

	last := gateway.lastStatus()
	assert.Equal(t, "failed", last["status"])
	assert.Equal(t, "no chunks generated from extracted content", last["errorMessage"])
	assert.Empty(t, gateway.createdOfClass(weaviate.ClassRawDocument))
}

func TestProcessJob_SplitterPanicFailsJob(t *testing.T) {
	original := splitter
	splitter = func(text string, maxChunkSize, overlap int) []string {
		panic("splitter blew up")
	}
	defer func() { splitter = original }()

	jobID := uuid.New().String()
	gateway := &fakeGateway{
		job: &weaviate.JobRecord{ID: jobID, SourceURL: "https://example.com/article", Status: "pending"},
	}
	ext := &fakeExtractor{result: &extractor.Result{Title: "Doc", Text: "Some extracted body text."}}
	svc := NewIngestService(gateway, &fakeQueue{}, ext, &fakeEmbedder{}, ingestConfig())

	// the panic stays inside the coordinator and fails the job through
	// the zero-chunks path
	require.NotPanics(t, func() { svc.processJob(jobID, 0) })

	last := gateway.lastStatus()
	assert.Equal(t, "failed", last["status"])
	assert.Equal(t, "no chunks generated from extracted content", last["errorMessage"])
	assert.Empty(t, gateway.createdOfClass(weaviate.ClassRawDocument))
	assert.Empty(t, gateway.batches)
}

func TestProcessJob_EmbeddingFailure(t *testing.T) {
	jobID := uuid.New().String()
	gateway := &fakeGateway{
		job: &weaviate.JobRecord{ID: jobID, SourceURL: "https://example.com/article", Status: "pending"},
	}
	ext := &fakeExtractor{result: &extractor.Result{Title: "Doc", Text: "Some extracted body text."}}
	embedder := &fakeEmbedder{err: apperrors.Embedding("embedding request failed", assert.AnError)}
	svc := NewIngestService(gateway, &fakeQueue{}, ext, embedder, ingestConfig())

	svc.processJob(jobID, 0)

	last := gateway.lastStatus()
	assert.Equal(t, "failed", last["status"])
	assert.Equal(t, "embedding request failed", last["errorMessage"])
	assert.Empty(t, gateway.batches)
}

func TestProcessJob_PageNumbersFromOffsets(t *testing.T) {
	jobID := uuid.New().String()
	page1 := "Content of the first page."
	page2 := "Content of the second page."
	gateway := &fakeGateway{
		job: &weaviate.JobRecord{ID: jobID, SourceURL: "https://example.com/doc.pdf", Status: "pending"},
	}
	ext := &fakeExtractor{result: &extractor.Result{
		Title:       "doc.pdf",
		Text:        page1 + "\n\n" + page2,
		PageOffsets: []int{0, len(page1) + 2},
	}}
	cfg := ingestConfig()
	cfg.ChunkSize = len(page1) + 1 // force one chunk per page
	cfg.ChunkOverlap = 0
	svc := NewIngestService(gateway, &fakeQueue{}, ext, &fakeEmbedder{}, cfg)

	svc.processJob(jobID, 0)

	require.Len(t, gateway.batches, 1)
	chunks := gateway.batches[0]
	require.Len(t, chunks, 2)
	assert.Equal(t, 1, chunks[0].PageNumber)
	assert.Equal(t, 2, chunks[1].PageNumber)
}

func TestWorkerPool_DrainsQueue(t *testing.T) {
	jobID := uuid.New().String()
	gateway := &fakeGateway{
		job: &weaviate.JobRecord{ID: jobID, SourceURL: "https://example.com/article", Status: "pending"},
	}
	queue := &fakeQueue{enqueued: []string{jobID}}
	ext := &fakeExtractor{result: &extractor.Result{Title: "Doc", Text: "Some extracted body text."}}
	svc := NewIngestService(gateway, queue, ext, &fakeEmbedder{}, ingestConfig())

	svc.StartWorkers()
	require.Eventually(t, func() bool {
		last := gateway.lastStatus()
		return last != nil && last["status"] == "completed"
	}, 3*time.Second, 10*time.Millisecond)
	svc.StopWorkers()
}
