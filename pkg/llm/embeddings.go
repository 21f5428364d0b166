package llm

import (
	"context"
	"fmt"

	apperrors "rag-api/pkg/errors"

	openai "github.com/sashabaranov/go-openai"
)

// EmbedTexts maps texts to equal-length vectors, order preserved. The
// batch is atomic: any failure, count mismatch or uneven dimension
// discards the whole batch, because callers zip texts to vectors
// positionally. Empty input returns an empty result without a call.
func (c *Client) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.config.EmbedTimeout)
	defer cancel()

	resp, err := c.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: texts,
		Model: openai.EmbeddingModel(c.embeddingModel),
	})
	if err != nil {
		return nil, apperrors.Embedding("embedding request failed", err)
	}

	if len(resp.Data) != len(texts) {
		return nil, apperrors.Embedding("embedding count mismatch",
			fmt.Errorf("sent %d texts, got %d embeddings", len(texts), len(resp.Data)))
	}

	vectors := make([][]float32, len(texts))
	dimension := 0
	for _, item := range resp.Data {
		if item.Index < 0 || item.Index >= len(texts) {
			return nil, apperrors.Embedding("embedding index out of range", nil)
		}
		if dimension == 0 {
			dimension = len(item.Embedding)
		}
		if len(item.Embedding) == 0 || len(item.Embedding) != dimension {
			return nil, apperrors.Embedding("embedding dimension mismatch", nil)
		}
		vectors[item.Index] = item.Embedding
	}
	for i, v := range vectors {
		if v == nil {
			return nil, apperrors.Embedding("embedding missing for input",
				fmt.Errorf("no embedding returned for text %d", i))
		}
	}

	return vectors, nil
}

// EmbedQuery maps a single query string to one vector.
func (c *Client) EmbedQuery(ctx context.Context, query string) ([]float32, error) {
	vectors, err := c.EmbedTexts(ctx, []string{query})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}
