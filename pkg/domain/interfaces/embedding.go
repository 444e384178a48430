package interfaces

import "context"

// EmbeddingClient produces vector embeddings for topic strings. It is
// network-fallible; callers degrade to rule-table-only scoring on error.
type EmbeddingClient interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Companion generates chat replies for rooms paired with a server-side
// companion identity
type Companion interface {
	Reply(ctx context.Context, topic, message string) (string, error)
}
