package interfaces

import (
	"context"

	"github.com/enishi-chat/enishi/pkg/domain/model"
	"github.com/enishi-chat/enishi/pkg/domain/types"
)

// InvitationRepository tracks outstanding recall invitations. Only PENDING
// invitations are stored; resolving one removes it.
type InvitationRepository interface {
	// Put stores a PENDING invitation, replacing any pending invitation for
	// the same (inviter, invitee) pair. It returns the replaced invitation,
	// or nil if none existed.
	Put(ctx context.Context, inv *model.Invitation) (*model.Invitation, error)

	// Get retrieves a pending invitation by ID
	Get(ctx context.Context, id types.InvitationID) (*model.Invitation, error)

	// GetPending retrieves the pending invitation for the directed pair
	GetPending(ctx context.Context, inviter, invitee types.IdentityID) (*model.Invitation, error)

	// ListByIdentity returns pending invitations where the identity is
	// inviter or invitee
	ListByIdentity(ctx context.Context, id types.IdentityID) ([]*model.Invitation, error)

	// Resolve transitions a pending invitation to the given terminal status
	// and removes it, returning the resolved invitation. Returns ErrNotFound
	// if the invitation is unknown (already resolved).
	Resolve(ctx context.Context, id types.InvitationID, status types.InvitationStatus) (*model.Invitation, error)
}
