package weaviate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseChunks(t *testing.T) {
	data := map[string]interface{}{
		ClassKnowledgeChunk: []any{
			map[string]interface{}{
				"docId":      "doc-1",
				"chunkIndex": float64(2),
				"content":    "Chunk body.",
				"sourceUrl":  "https://example.com/article",
				"docTitle":   "Example",
				"pageNumber": float64(0),
				"_additional": map[string]interface{}{
					"id":       "chunk-1",
					"distance": 0.12,
				},
			},
			map[string]interface{}{
				"docId":   "doc-2",
				"content": "Another chunk.",
			},
		},
	}

	records := parseChunks(data, ClassKnowledgeChunk)
	require.Len(t, records, 2)

	assert.Equal(t, "chunk-1", records[0].ID)
	assert.Equal(t, "doc-1", records[0].DocID)
	assert.Equal(t, 2, records[0].ChunkIndex)
	assert.Equal(t, "Chunk body.", records[0].Content)
	assert.Equal(t, 0.12, records[0].Distance)

	// missing fields fall back to zero values
	assert.Empty(t, records[1].ID)
	assert.Equal(t, "doc-2", records[1].DocID)
	assert.Zero(t, records[1].Distance)
}

func TestParseChunks_EmptyOrMalformed(t *testing.T) {
	assert.Empty(t, parseChunks(map[string]interface{}{}, ClassKnowledgeChunk))
	assert.Empty(t, parseChunks(map[string]interface{}{
		ClassKnowledgeChunk: "not-a-list",
	}, ClassKnowledgeChunk))
	assert.Empty(t, parseChunks(map[string]interface{}{
		ClassKnowledgeChunk: []any{"not-a-map"},
	}, ClassKnowledgeChunk))
}
