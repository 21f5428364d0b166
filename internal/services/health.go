package services

import (
	"context"

	"rag-api/cmd/configs"
	"rag-api/pkg/memorydb"
	"rag-api/pkg/weaviate"
)

// HealthService reports the liveness of the backing stores.
type HealthService struct {
	weaviateClient *weaviate.WeaviateClient
	redis          *memorydb.RedisClient
	queueKey       string
}

// NewHealthService creates a new health service
func NewHealthService(weaviateClient *weaviate.WeaviateClient, redis *memorydb.RedisClient, cfg configs.IngestConfig) *HealthService {
	return &HealthService{
		weaviateClient: weaviateClient,
		redis:          redis,
		queueKey:       cfg.QueueKey,
	}
}

// HealthStatus captures the per-dependency check results.
type HealthStatus struct {
	Healthy    bool   `json:"healthy"`
	Weaviate   string `json:"weaviate"`
	Redis      string `json:"redis"`
	QueuedJobs int64  `json:"queued_jobs"`
}

// Check pings Weaviate and Redis and reports their status, including
// the current ingestion queue depth.
func (s *HealthService) Check(ctx context.Context) HealthStatus {
	status := HealthStatus{Healthy: true, Weaviate: "ok", Redis: "ok"}

	if err := s.weaviateClient.Ready(ctx); err != nil {
		status.Healthy = false
		status.Weaviate = "unreachable"
	}
	if err := s.redis.Ping(ctx); err != nil {
		status.Healthy = false
		status.Redis = "unreachable"
	} else if depth, err := s.redis.QueueLen(ctx, s.queueKey); err == nil {
		status.QueuedJobs = depth
	}

	return status
}
