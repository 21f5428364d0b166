// Package llm wraps the OpenAI API for embedding and streamed
// generation.
package llm

import (
	"fmt"

	"rag-api/cmd/configs"

	openai "github.com/sashabaranov/go-openai"
)

type Client struct {
	client         *openai.Client
	embeddingModel string
	chatModel      string
	config         configs.OpenAIConfig
}

// NewClient builds the OpenAI client. A missing API key is a fatal
// configuration error caught here, before any network call.
func NewClient(config *configs.Config) (*Client, error) {
	if config.OpenAI.APIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is not set")
	}

	return &Client{
		client:         openai.NewClient(config.OpenAI.APIKey),
		embeddingModel: config.OpenAI.EmbeddingModel,
		chatModel:      config.OpenAI.ChatModel,
		config:         config.OpenAI,
	}, nil
}
