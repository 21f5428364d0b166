package services

import (
	"rag-api/cmd/defines"
	"rag-api/pkg/weaviate"
)

// StreamEvent is one event of the query answer stream. The set of
// implementations is closed; every payload carries its discriminator in
// the "type" field.
type StreamEvent interface {
	EventType() defines.EventType
}

// EmbeddingResultEvent signals that the query embedding is ready.
type EmbeddingResultEvent struct {
	Type      defines.EventType `json:"type"`
	Dimension int               `json:"dimension"`
}

func (e EmbeddingResultEvent) EventType() defines.EventType { return e.Type }

func NewEmbeddingResultEvent(dimension int) EmbeddingResultEvent {
	return EmbeddingResultEvent{Type: defines.EventEmbeddingResult, Dimension: dimension}
}

// RetrievedChunk is one retrieved context chunk as exposed to callers.
type RetrievedChunk struct {
	ChunkID    string  `json:"chunk_id"`
	DocTitle   string  `json:"doc_title"`
	SourceURL  string  `json:"source_url"`
	Content    string  `json:"content"`
	ChunkIndex int     `json:"chunk_index"`
	PageNumber int     `json:"page_number"`
	Distance   float64 `json:"distance"`
}

// RetrievedContextEvent reports the nearest-neighbor hits, possibly
// empty.
type RetrievedContextEvent struct {
	Type   defines.EventType `json:"type"`
	Chunks []RetrievedChunk  `json:"chunks"`
}

func (e RetrievedContextEvent) EventType() defines.EventType { return e.Type }

func NewRetrievedContextEvent(records []weaviate.ChunkRecord) RetrievedContextEvent {
	chunks := make([]RetrievedChunk, len(records))
	for i, r := range records {
		chunks[i] = RetrievedChunk{
			ChunkID:    r.ID,
			DocTitle:   r.DocTitle,
			SourceURL:  r.SourceURL,
			Content:    r.Content,
			ChunkIndex: r.ChunkIndex,
			PageNumber: r.PageNumber,
			Distance:   r.Distance,
		}
	}
	return RetrievedContextEvent{Type: defines.EventRetrievedContext, Chunks: chunks}
}

// LLMChunkEvent carries one generated text fragment.
type LLMChunkEvent struct {
	Type    defines.EventType `json:"type"`
	Content string            `json:"content"`
}

func (e LLMChunkEvent) EventType() defines.EventType { return e.Type }

func NewLLMChunkEvent(content string) LLMChunkEvent {
	return LLMChunkEvent{Type: defines.EventLLMChunk, Content: content}
}

// Citation points from the answer back to a grounding chunk.
type Citation struct {
	ChunkID string `json:"chunk_id"`
	Title   string `json:"title"`
	URL     string `json:"url"`
	Page    int    `json:"page"`
}

// LLMSourcesEvent terminates a grounded stream with its citations.
type LLMSourcesEvent struct {
	Type    defines.EventType `json:"type"`
	Sources []Citation        `json:"sources"`
}

func (e LLMSourcesEvent) EventType() defines.EventType { return e.Type }

func NewLLMSourcesEvent(records []weaviate.ChunkRecord) LLMSourcesEvent {
	sources := make([]Citation, len(records))
	for i, r := range records {
		sources[i] = Citation{
			ChunkID: r.ID,
			Title:   r.DocTitle,
			URL:     r.SourceURL,
			Page:    r.PageNumber,
		}
	}
	return LLMSourcesEvent{Type: defines.EventLLMSources, Sources: sources}
}

// LLMResponseEvent is the single non-streamed fallback answer used when
// retrieval found no context. Sources is always empty.
type LLMResponseEvent struct {
	Type    defines.EventType `json:"type"`
	Content string            `json:"content"`
	Sources []Citation        `json:"sources"`
}

func (e LLMResponseEvent) EventType() defines.EventType { return e.Type }

func NewLLMResponseEvent(content string) LLMResponseEvent {
	return LLMResponseEvent{Type: defines.EventLLMResponse, Content: content, Sources: []Citation{}}
}

// ErrorEvent terminates the stream with a generic, non-leaking message.
type ErrorEvent struct {
	Type    defines.EventType `json:"type"`
	Message string            `json:"message"`
}

func (e ErrorEvent) EventType() defines.EventType { return e.Type }

func NewErrorEvent(message string) ErrorEvent {
	return ErrorEvent{Type: defines.EventError, Message: message}
}
