package interfaces

import (
	"context"

	"github.com/enishi-chat/enishi/pkg/domain/model"
	"github.com/enishi-chat/enishi/pkg/domain/types"
)

// PoolRepository holds the waiting pool of active search requests.
// The pool contains at most one request per identity.
type PoolRepository interface {
	// Upsert inserts the request, replacing any prior request of the same
	// identity. It returns the replaced request, or nil if none existed.
	Upsert(ctx context.Context, req *model.SearchRequest) (*model.SearchRequest, error)

	// Remove deletes the identity's request and returns it.
	// Returns ErrNotFound if the identity is not pooled.
	Remove(ctx context.Context, id types.IdentityID) (*model.SearchRequest, error)

	// Get retrieves the identity's request without removing it
	Get(ctx context.Context, id types.IdentityID) (*model.SearchRequest, error)

	// List returns all pooled requests ordered by enqueue time, oldest first
	List(ctx context.Context) ([]*model.SearchRequest, error)

	// Size returns the number of pooled requests
	Size(ctx context.Context) (int, error)
}
