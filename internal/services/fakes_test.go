package services

import (
	"context"
	"io"
	"sync"
	"time"

	"rag-api/internal/extractor"
	"rag-api/pkg/llm"
	"rag-api/pkg/weaviate"
)

type createdObject struct {
	class      string
	properties map[string]interface{}
	id         string
	vector     []float32
}

type statusUpdate struct {
	class      string
	id         string
	properties map[string]interface{}
}

// fakeGateway records every write so tests can assert on persistence.
type fakeGateway struct {
	mu      sync.Mutex
	created []createdObject
	updates []statusUpdate
	batches [][]weaviate.ChunkObject

	job     *weaviate.JobRecord
	records []weaviate.ChunkRecord

	createErr error
	getJobErr error
	batchErr  error
	nearErr   error

	createHadDeadline bool
	nearHadDeadline   bool
}

func (g *fakeGateway) CreateObject(ctx context.Context, class string, properties map[string]interface{}, id string, vector []float32) (string, error) {
	if g.createErr != nil {
		return "", g.createErr
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	_, g.createHadDeadline = ctx.Deadline()
	g.created = append(g.created, createdObject{class: class, properties: properties, id: id, vector: vector})
	return id, nil
}

func (g *fakeGateway) UpdateObject(ctx context.Context, class, id string, properties map[string]interface{}) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.updates = append(g.updates, statusUpdate{class: class, id: id, properties: properties})
	return nil
}

func (g *fakeGateway) GetJob(ctx context.Context, jobID string) (*weaviate.JobRecord, error) {
	if g.getJobErr != nil {
		return nil, g.getJobErr
	}
	return g.job, nil
}

func (g *fakeGateway) BatchInsertChunks(ctx context.Context, chunks []weaviate.ChunkObject, batchSize int) error {
	if g.batchErr != nil {
		return g.batchErr
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.batches = append(g.batches, chunks)
	return nil
}

func (g *fakeGateway) NearestNeighbors(ctx context.Context, vector []float32, k int) ([]weaviate.ChunkRecord, error) {
	if g.nearErr != nil {
		return nil, g.nearErr
	}
	g.mu.Lock()
	_, g.nearHadDeadline = ctx.Deadline()
	g.mu.Unlock()
	return g.records, nil
}

// createdOfClass returns the recorded writes for one class.
func (g *fakeGateway) createdOfClass(class string) []createdObject {
	g.mu.Lock()
	defer g.mu.Unlock()
	var out []createdObject
	for _, c := range g.created {
		if c.class == class {
			out = append(out, c)
		}
	}
	return out
}

// lastStatus returns the status value of the most recent job update.
func (g *fakeGateway) lastStatus() map[string]interface{} {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.updates) == 0 {
		return nil
	}
	return g.updates[len(g.updates)-1].properties
}

type fakeQueue struct {
	mu         sync.Mutex
	enqueued   []string
	enqueueErr error
}

func (q *fakeQueue) Enqueue(ctx context.Context, queue, jobID string) error {
	if q.enqueueErr != nil {
		return q.enqueueErr
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.enqueued = append(q.enqueued, jobID)
	return nil
}

func (q *fakeQueue) Dequeue(ctx context.Context, queue string, timeout time.Duration) (string, bool, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.enqueued) == 0 {
		return "", false, nil
	}
	jobID := q.enqueued[0]
	q.enqueued = q.enqueued[1:]
	return jobID, true, nil
}

type fakeExtractor struct {
	result *extractor.Result
	err    error
}

func (e *fakeExtractor) Extract(ctx context.Context, rawURL string) (*extractor.Result, error) {
	if e.err != nil {
		return nil, e.err
	}
	return e.result, nil
}

type fakeEmbedder struct {
	queryVector []float32
	err         error
}

func (e *fakeEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if e.err != nil {
		return nil, e.err
	}
	vectors := make([][]float32, len(texts))
	for i := range vectors {
		vectors[i] = []float32{0.1, 0.2, 0.3}
	}
	return vectors, nil
}

func (e *fakeEmbedder) EmbedQuery(ctx context.Context, query string) ([]float32, error) {
	if e.err != nil {
		return nil, e.err
	}
	return e.queryVector, nil
}

type fakeGenerator struct {
	fragments []string
	recvErr   error // returned after fragments are drained; nil means io.EOF
	startErr  error
}

func (g *fakeGenerator) StreamChat(ctx context.Context, systemPrompt, userPrompt string) (llm.TokenStream, error) {
	if g.startErr != nil {
		return nil, g.startErr
	}
	finalErr := g.recvErr
	if finalErr == nil {
		finalErr = io.EOF
	}
	return &fakeStream{fragments: g.fragments, finalErr: finalErr}, nil
}

type fakeStream struct {
	fragments []string
	finalErr  error
	closed    bool
}

func (s *fakeStream) Recv() (string, error) {
	if len(s.fragments) == 0 {
		return "", s.finalErr
	}
	fragment := s.fragments[0]
	s.fragments = s.fragments[1:]
	return fragment, nil
}

func (s *fakeStream) Close() { s.closed = true }
