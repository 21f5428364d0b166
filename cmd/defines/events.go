package defines

// EventType discriminates the query stream event payloads
type EventType string

const (
	EventEmbeddingResult  EventType = "embedding_result"
	EventRetrievedContext EventType = "retrieved_context"
	EventLLMChunk         EventType = "llm_chunk"
	EventLLMSources       EventType = "llm_sources"
	EventLLMResponse      EventType = "llm_response"
	EventError            EventType = "error"
)
