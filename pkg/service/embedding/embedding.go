package embedding

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"

	"github.com/enishi-chat/enishi/pkg/domain/interfaces"
	"github.com/enishi-chat/enishi/pkg/domain/model"
)

// client implements interfaces.EmbeddingClient on top of a gollem LLM client
type client struct {
	llmClient gollem.LLMClient
}

// New creates an embedding client with the provided LLM client
func New(llmClient gollem.LLMClient) (interfaces.EmbeddingClient, error) {
	if llmClient == nil {
		return nil, goerr.New("LLM client is required")
	}

	return &client{llmClient: llmClient}, nil
}

// Embed generates an embedding vector for the given topic text
func (c *client) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, goerr.New("text is required")
	}

	embeddings, err := c.llmClient.GenerateEmbedding(ctx, model.EmbeddingDimension, []string{text})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to generate embedding", goerr.V("text", text))
	}

	if len(embeddings) == 0 {
		return nil, goerr.New("no embedding returned")
	}

	result := make([]float32, len(embeddings[0]))
	for i, v := range embeddings[0] {
		result[i] = float32(v)
	}

	return result, nil
}
