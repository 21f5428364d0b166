package weaviate

import (
	"time"

	"github.com/weaviate/weaviate-go-client/v5/weaviate"
)

type WeaviateClient struct {
	*weaviate.Client
}

// Class names for every persisted record of the knowledge base.
const (
	ClassIngestJob       = "IngestJob"
	ClassRawDocument     = "RawDocument"
	ClassKnowledgeChunk  = "KnowledgeChunk"
	ClassChatInteraction = "ChatInteraction"
)

// ChunkRecord is a stored knowledge chunk, optionally carrying the
// search distance when returned from NearestNeighbors.
type ChunkRecord struct {
	ID         string  `json:"id"`
	DocID      string  `json:"doc_id"`
	ChunkIndex int     `json:"chunk_index"`
	Content    string  `json:"content"`
	SourceURL  string  `json:"source_url"`
	DocTitle   string  `json:"doc_title"`
	PageNumber int     `json:"page_number"`
	Distance   float64 `json:"distance,omitempty"`
}

// ChunkObject is a chunk prepared for insertion: properties plus its
// embedding vector.
type ChunkObject struct {
	ID         string
	DocID      string
	ChunkIndex int
	Content    string
	SourceURL  string
	DocTitle   string
	PageNumber int
	Vector     []float32
	CreatedAt  time.Time
}

// JobRecord is the persisted state of an ingestion job.
type JobRecord struct {
	ID           string     `json:"job_id"`
	SourceURL    string     `json:"url"`
	Status       string     `json:"status"`
	QueuedAt     time.Time  `json:"queued_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	ErrorMessage string     `json:"error_message,omitempty"`
}
