package model

import (
	"time"

	"github.com/enishi-chat/enishi/pkg/domain/types"
)

// EmbeddingDimension is the dimension of the topic embedding vector.
// Gemini text-embedding-004 uses 768 dimensions.
const EmbeddingDimension = 768

// SearchRequest is one identity's live request for a conversation partner.
// The waiting pool holds at most one per identity; a newer request
// supersedes the older one wholesale.
type SearchRequest struct {
	ID         types.RequestID
	Identity   types.IdentityID
	Topic      string
	Embedding  []float32 // nil when the embedding service was unavailable
	EnqueuedAt time.Time
}

// NewSearchRequest creates a search request with a fresh RequestID
func NewSearchRequest(identity types.IdentityID, topic string, embedding []float32) *SearchRequest {
	return &SearchRequest{
		ID:         types.NewRequestID(),
		Identity:   identity,
		Topic:      topic,
		Embedding:  embedding,
		EnqueuedAt: time.Now().UTC(),
	}
}

// Clone creates a deep copy of the search request
func (r *SearchRequest) Clone() *SearchRequest {
	copied := &SearchRequest{
		ID:         r.ID,
		Identity:   r.Identity,
		Topic:      r.Topic,
		EnqueuedAt: r.EnqueuedAt,
	}
	if r.Embedding != nil {
		copied.Embedding = make([]float32, len(r.Embedding))
		copy(copied.Embedding, r.Embedding)
	}
	return copied
}
