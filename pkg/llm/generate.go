package llm

import (
	"context"
	"errors"
	"io"

	apperrors "rag-api/pkg/errors"

	openai "github.com/sashabaranov/go-openai"
)

// TokenStream yields generated text fragments in order. Recv returns
// io.EOF when the stream completed normally.
type TokenStream interface {
	Recv() (string, error)
	Close()
}

// StreamChat starts streamed generation for the grounded prompt. The
// returned stream is cancellable through ctx.
func (c *Client) StreamChat(ctx context.Context, systemPrompt, userPrompt string) (TokenStream, error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.ChatTimeout)

	stream, err := c.client.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
		Model: c.chatModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		Stream: true,
	})
	if err != nil {
		cancel()
		return nil, apperrors.Generation(err)
	}

	return &chatStream{stream: stream, cancel: cancel}, nil
}

type chatStream struct {
	stream *openai.ChatCompletionStream
	cancel context.CancelFunc
}

func (s *chatStream) Recv() (string, error) {
	for {
		resp, err := s.stream.Recv()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return "", io.EOF
			}
			return "", apperrors.Generation(err)
		}
		if len(resp.Choices) == 0 {
			continue
		}
		return resp.Choices[0].Delta.Content, nil
	}
}

func (s *chatStream) Close() {
	s.stream.Close()
	s.cancel()
}
