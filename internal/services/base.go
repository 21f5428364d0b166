package services

import (
	"context"
	"time"

	"rag-api/cmd/configs"
	"rag-api/internal/extractor"
	"rag-api/pkg/llm"
	"rag-api/pkg/memorydb"
	"rag-api/pkg/weaviate"
)

// VectorGateway is the slice of the vector store the pipelines use.
type VectorGateway interface {
	CreateObject(ctx context.Context, class string, properties map[string]interface{}, id string, vector []float32) (string, error)
	UpdateObject(ctx context.Context, class, id string, properties map[string]interface{}) error
	GetJob(ctx context.Context, jobID string) (*weaviate.JobRecord, error)
	BatchInsertChunks(ctx context.Context, chunks []weaviate.ChunkObject, batchSize int) error
	NearestNeighbors(ctx context.Context, vector []float32, k int) ([]weaviate.ChunkRecord, error)
}

// JobQueue hands ingestion job ids from submitters to workers.
type JobQueue interface {
	Enqueue(ctx context.Context, queue, jobID string) error
	Dequeue(ctx context.Context, queue string, timeout time.Duration) (string, bool, error)
}

// ContentExtractor turns a source URL into title plus normalized text.
type ContentExtractor interface {
	Extract(ctx context.Context, rawURL string) (*extractor.Result, error)
}

// Embedder converts texts to fixed-dimension vectors.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, query string) ([]float32, error)
}

// Generator drives streamed answer generation.
type Generator interface {
	StreamChat(ctx context.Context, systemPrompt, userPrompt string) (llm.TokenStream, error)
}

// BaseService provides common dependencies for all services
type BaseService struct {
	weaviateClient *weaviate.WeaviateClient
	redis          *memorydb.RedisClient
	llmClient      *llm.Client
	extractor      *extractor.Extractor
}

// NewBaseService creates a new base service with the required dependencies
func NewBaseService(
	weaviateClient *weaviate.WeaviateClient,
	redis *memorydb.RedisClient,
	llmClient *llm.Client,
	contentExtractor *extractor.Extractor,
) *BaseService {
	return &BaseService{
		weaviateClient: weaviateClient,
		redis:          redis,
		llmClient:      llmClient,
		extractor:      contentExtractor,
	}
}

// GetWeaviateClient returns the Weaviate client
func (s *BaseService) GetWeaviateClient() *weaviate.WeaviateClient {
	return s.weaviateClient
}

// GetRedis returns the Redis client
func (s *BaseService) GetRedis() *memorydb.RedisClient {
	return s.redis
}

// Services holds all service instances
type Services struct {
	base   *BaseService
	Health *HealthService
	Ingest *IngestService
	Query  *QueryService
}

func NewServices(base *BaseService, cfg *configs.Config) *Services {
	ingestService := NewIngestService(base.weaviateClient, base.redis, base.extractor, base.llmClient, cfg.Ingest)
	ingestService.StartWorkers()

	queryService := NewQueryService(base.weaviateClient, base.llmClient, base.llmClient, cfg.Query)
	healthService := NewHealthService(base.weaviateClient, base.redis, cfg.Ingest)

	return &Services{
		base:   base,
		Health: healthService,
		Ingest: ingestService,
		Query:  queryService,
	}
}

// Close gracefully shuts down all services
func (s *Services) Close() {
	if s.Ingest != nil {
		s.Ingest.StopWorkers()
	}
	if s.base != nil && s.base.extractor != nil {
		s.base.extractor.Close()
	}
}
