package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"rag-api/cmd/configs"
	apperrors "rag-api/pkg/errors"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient points the OpenAI client at a local stub server.
func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := openai.DefaultConfig("test-key")
	cfg.BaseURL = srv.URL + "/v1"

	return &Client{
		client:         openai.NewClientWithConfig(cfg),
		embeddingModel: "text-embedding-3-small",
		chatModel:      "gpt-4o-mini",
		config: configs.OpenAIConfig{
			EmbedTimeout: 5 * time.Second,
			ChatTimeout:  5 * time.Second,
		},
	}
}

func embeddingResponse(t *testing.T, vectors [][]float32) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		resp := openai.EmbeddingResponse{Model: "text-embedding-3-small"}
		for i, v := range vectors {
			resp.Data = append(resp.Data, openai.Embedding{Index: i, Embedding: v})
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}
}

func TestEmbedTexts_OrderPreserved(t *testing.T) {
	c := newTestClient(t, embeddingResponse(t, [][]float32{
		{0.1, 0.2},
		{0.3, 0.4},
		{0.5, 0.6},
	}))

	vectors, err := c.EmbedTexts(context.Background(), []string{"one", "two", "three"})
	require.NoError(t, err)
	require.Len(t, vectors, 3)
	assert.Equal(t, []float32{0.1, 0.2}, vectors[0])
	assert.Equal(t, []float32{0.5, 0.6}, vectors[2])
}

func TestEmbedTexts_EmptyInputNoCall(t *testing.T) {
	called := false
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	vectors, err := c.EmbedTexts(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, vectors)
	assert.False(t, called)
}

func TestEmbedTexts_CountMismatchDiscardsBatch(t *testing.T) {
	c := newTestClient(t, embeddingResponse(t, [][]float32{
		{0.1, 0.2},
	}))

	vectors, err := c.EmbedTexts(context.Background(), []string{"one", "two"})
	require.Error(t, err)
	assert.Nil(t, vectors)
	assert.Equal(t, apperrors.CodeEmbedding, apperrors.CodeOf(err))
}

func TestEmbedTexts_DimensionMismatchDiscardsBatch(t *testing.T) {
	c := newTestClient(t, embeddingResponse(t, [][]float32{
		{0.1, 0.2, 0.3},
		{0.4, 0.5},
	}))

	vectors, err := c.EmbedTexts(context.Background(), []string{"one", "two"})
	require.Error(t, err)
	assert.Nil(t, vectors)
	assert.Equal(t, apperrors.CodeEmbedding, apperrors.CodeOf(err))
}

func TestEmbedTexts_ServerErrorWrapped(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": {"message": "rate limited"}}`, http.StatusTooManyRequests)
	})

	_, err := c.EmbedTexts(context.Background(), []string{"one"})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeEmbedding, apperrors.CodeOf(err))
}

func TestEmbedQuery(t *testing.T) {
	c := newTestClient(t, embeddingResponse(t, [][]float32{
		{0.7, 0.8, 0.9},
	}))

	vector, err := c.EmbedQuery(context.Background(), "what is this about?")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.7, 0.8, 0.9}, vector)
}

func TestNewClient_MissingKey(t *testing.T) {
	_, err := NewClient(&configs.Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OPENAI_API_KEY")
}
