package services

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"rag-api/cmd/configs"
	"rag-api/cmd/defines"
	"rag-api/internal/chunker"
	apperrors "rag-api/pkg/errors"
	"rag-api/pkg/weaviate"

	fylogger "github.com/FyersDev/trading-logger-go"
	"github.com/google/uuid"
)

// splitter is the chunking function, indirected so tests can exercise
// the splitter failure boundary.
var splitter = chunker.Split

// dequeueWait bounds each blocking pop so workers re-check shutdown
// regularly.
const dequeueWait = 5 * time.Second

// IngestService owns the ingestion job state machine. It accepts URL
// submissions, hands the ids to a bounded worker pool through the job
// queue, and drives each job through extract, chunk, embed and store.
// Every downstream failure is absorbed here and recorded on the job;
// nothing propagates out of the processing path.
type IngestService struct {
	gateway   VectorGateway
	queue     JobQueue
	extractor ContentExtractor
	embedder  Embedder
	config    configs.IngestConfig

	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

// NewIngestService creates the ingestion coordinator
func NewIngestService(
	gateway VectorGateway,
	queue JobQueue,
	contentExtractor ContentExtractor,
	embedder Embedder,
	config configs.IngestConfig,
) *IngestService {
	if config.WorkerCount <= 0 {
		config.WorkerCount = 3
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &IngestService{
		gateway:   gateway,
		queue:     queue,
		extractor: contentExtractor,
		embedder:  embedder,
		config:    config,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Submit validates the URL syntax, records a Pending job and enqueues
// it. It returns the job id immediately; processing outcome is
// observable only through the job record.
func (s *IngestService) Submit(ctx context.Context, rawURL string) (string, error) {
	rawURL = strings.TrimSpace(rawURL)
	u, err := url.ParseRequestURI(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", apperrors.WrapError(err, apperrors.CodeValidation, "a valid http(s) URL is required", 400)
	}

	jobID := uuid.New().String()
	properties := map[string]interface{}{
		"sourceUrl": rawURL,
		"status":    string(defines.JobStatusPending),
		"queuedAt":  time.Now().UTC().Format(time.RFC3339),
	}

	storeCtx, cancel := context.WithTimeout(ctx, s.config.StoreTimeout)
	defer cancel()
	if _, err := s.gateway.CreateObject(storeCtx, weaviate.ClassIngestJob, properties, jobID, nil); err != nil {
		return "", err
	}

	if err := s.queue.Enqueue(ctx, s.config.QueueKey, jobID); err != nil {
		s.markFailed(ctx, jobID, "failed to enqueue job for processing")
		return "", apperrors.Store("failed to enqueue job", err)
	}

	fylogger.InfoLog(ctx, fmt.Sprintf("Job %s submitted for %s", jobID, rawURL), nil)
	return jobID, nil
}

// GetJob returns the persisted job record.
func (s *IngestService) GetJob(ctx context.Context, jobID string) (*weaviate.JobRecord, error) {
	if _, err := uuid.Parse(jobID); err != nil {
		return nil, apperrors.WrapError(err, apperrors.CodeValidation, "invalid job id", 400)
	}
	return s.gateway.GetJob(ctx, jobID)
}

// StartWorkers launches the bounded worker pool.
func (s *IngestService) StartWorkers() {
	for i := 0; i < s.config.WorkerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}
	fylogger.InfoLog(s.ctx, fmt.Sprintf("Started %d ingestion workers", s.config.WorkerCount), nil)
}

// StopWorkers gracefully shuts down all workers. A dequeued job runs to
// completion or failure before its worker exits.
func (s *IngestService) StopWorkers() {
	s.cancel()
	s.wg.Wait()
	fylogger.InfoLog(context.Background(), "Ingestion worker pool stopped", nil)
}

// worker is the main worker loop
func (s *IngestService) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case <-s.ctx.Done():
			return
		default:
		}

		jobID, ok, err := s.queue.Dequeue(s.ctx, s.config.QueueKey, dequeueWait)
		if err != nil {
			if s.ctx.Err() != nil {
				return
			}
			fylogger.ErrorLog(s.ctx, fmt.Sprintf("Worker %d: dequeue failed", id), err, nil)
			time.Sleep(time.Second)
			continue
		}
		if !ok {
			continue
		}

		s.processJob(jobID, id)
	}
}

// processJob runs one job through the pipeline. All errors end as a
// Failed job with a readable message; the job record is the only
// failure channel.
func (s *IngestService) processJob(jobID string, workerID int) {
	ctx := s.ctx

	defer func() {
		if r := recover(); r != nil {
			fylogger.ErrorLog(ctx, fmt.Sprintf("Worker %d: panic processing job %s", workerID, jobID),
				fmt.Errorf("%v", r), nil)
			s.markFailed(ctx, jobID, "internal error while processing the document")
		}
	}()

	fylogger.InfoLog(ctx, fmt.Sprintf("Worker %d processing job %s", workerID, jobID), nil)
	s.markProcessing(ctx, jobID)

	job, err := s.gateway.GetJob(ctx, jobID)
	if err != nil {
		s.markFailed(ctx, jobID, "job record could not be read")
		return
	}

	result, err := s.extractor.Extract(ctx, job.SourceURL)
	if err != nil {
		fylogger.ErrorLog(ctx, fmt.Sprintf("Worker %d: extraction failed for job %s", workerID, jobID), err, map[string]interface{}{
			"source_url": job.SourceURL,
		})
		s.markFailed(ctx, jobID, failureMessage(err))
		return
	}

	chunks := s.splitChunks(result.Text)
	if len(chunks) == 0 {
		s.markFailed(ctx, jobID, "no chunks generated from extracted content")
		return
	}

	docID := uuid.New().String()
	docProps := map[string]interface{}{
		"jobId":     jobID,
		"sourceUrl": job.SourceURL,
		"title":     result.Title,
		"createdAt": time.Now().UTC().Format(time.RFC3339),
	}
	storeCtx, cancelDoc := context.WithTimeout(ctx, s.config.StoreTimeout)
	_, err = s.gateway.CreateObject(storeCtx, weaviate.ClassRawDocument, docProps, docID, nil)
	cancelDoc()
	if err != nil {
		fylogger.ErrorLog(ctx, fmt.Sprintf("Worker %d: document write failed for job %s", workerID, jobID), err, nil)
		s.markFailed(ctx, jobID, "failed to store the document record")
		return
	}

	vectors, err := s.embedder.EmbedTexts(ctx, chunks)
	if err != nil {
		fylogger.ErrorLog(ctx, fmt.Sprintf("Worker %d: embedding failed for job %s", workerID, jobID), err, nil)
		s.markFailed(ctx, jobID, failureMessage(err))
		return
	}

	objects := buildChunkObjects(docID, job.SourceURL, result.Title, result.Text, result.PageOffsets, chunks, vectors)
	storeCtx, cancelChunks := context.WithTimeout(ctx, s.config.StoreTimeout)
	err = s.gateway.BatchInsertChunks(storeCtx, objects, s.config.BatchSize)
	cancelChunks()
	if err != nil {
		fylogger.ErrorLog(ctx, fmt.Sprintf("Worker %d: chunk insert failed for job %s", workerID, jobID), err, nil)
		s.markFailed(ctx, jobID, "failed to store document chunks")
		return
	}

	s.markCompleted(ctx, jobID)
	fylogger.InfoLog(ctx, fmt.Sprintf("Worker %d: job %s completed with %d chunks", workerID, jobID, len(chunks)), nil)
}

// splitChunks isolates the splitter behind the coordinator's error
// boundary: a panicking splitter yields zero chunks, which fails the
// job through the regular "no chunks generated" path.
func (s *IngestService) splitChunks(text string) (chunks []string) {
	defer func() {
		if r := recover(); r != nil {
			fylogger.ErrorLog(s.ctx, "Chunk splitter failed", fmt.Errorf("%v", r), nil)
			chunks = nil
		}
	}()
	return splitter(text, s.config.ChunkSize, s.config.ChunkOverlap)
}

func buildChunkObjects(docID, sourceURL, title, text string, pageOffsets []int, chunks []string, vectors [][]float32) []weaviate.ChunkObject {
	now := time.Now().UTC()
	objects := make([]weaviate.ChunkObject, len(chunks))
	searchFrom := 0
	for i, chunk := range chunks {
		offset := searchFrom
		if idx := strings.Index(text[searchFrom:], chunk); idx >= 0 {
			offset = searchFrom + idx
			searchFrom = offset + 1
		}
		objects[i] = weaviate.ChunkObject{
			ID:         uuid.New().String(),
			DocID:      docID,
			ChunkIndex: i,
			Content:    chunk,
			SourceURL:  sourceURL,
			DocTitle:   title,
			PageNumber: pageForOffset(pageOffsets, offset),
			Vector:     vectors[i],
			CreatedAt:  now,
		}
	}
	return objects
}

// pageForOffset returns the 1-based page that contains the offset, or 0
// when the source has no pages.
func pageForOffset(pageOffsets []int, offset int) int {
	if len(pageOffsets) == 0 {
		return 0
	}
	page := 1
	for i, start := range pageOffsets {
		if offset >= start {
			page = i + 1
		}
	}
	return page
}

// failureMessage extracts the human-readable message recorded on the
// job; internal detail stays in the logs.
func failureMessage(err error) string {
	if appErr, ok := err.(*apperrors.AppError); ok {
		return appErr.Message
	}
	return "document processing failed"
}

func (s *IngestService) markProcessing(ctx context.Context, jobID string) {
	s.updateJobStatus(ctx, jobID, defines.JobStatusProcessing, "")
}

func (s *IngestService) markCompleted(ctx context.Context, jobID string) {
	s.updateJobStatus(ctx, jobID, defines.JobStatusCompleted, "")
}

func (s *IngestService) markFailed(ctx context.Context, jobID, message string) {
	s.updateJobStatus(ctx, jobID, defines.JobStatusFailed, message)
}

// updateJobStatus merges the transition into the job record. A failed
// status write is logged; there is no further fallback channel.
func (s *IngestService) updateJobStatus(ctx context.Context, jobID string, status defines.JobStatus, errorMessage string) {
	properties := map[string]interface{}{
		"status": string(status),
	}
	if status.Terminal() {
		properties["completedAt"] = time.Now().UTC().Format(time.RFC3339)
	}
	if errorMessage != "" {
		properties["errorMessage"] = errorMessage
	}

	storeCtx, cancel := context.WithTimeout(ctx, s.config.StoreTimeout)
	defer cancel()
	if err := s.gateway.UpdateObject(storeCtx, weaviate.ClassIngestJob, jobID, properties); err != nil {
		fylogger.ErrorLog(ctx, fmt.Sprintf("Failed to update job %s to %s", jobID, status), err, nil)
	}
}
