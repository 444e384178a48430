package model

import (
	"time"

	"github.com/enishi-chat/enishi/pkg/domain/types"
)

// Invitation is an outstanding recall attempt: the inviter's search found a
// historical topic of a currently idle identity. The inviter's original
// request is parked on the invitation so a decline or expiry can re-enqueue
// it with topic and embedding intact.
type Invitation struct {
	ID        types.InvitationID
	Inviter   types.IdentityID
	Invitee   types.IdentityID
	Topic     string // the inviter's live topic
	Info      string // presentation text, e.g. "chess & chess openings"
	Request   *SearchRequest
	Status    types.InvitationStatus
	CreatedAt time.Time
	ExpiresAt time.Time
}

// NewInvitation creates a PENDING invitation parking the given request
func NewInvitation(inviter, invitee types.IdentityID, info string, req *SearchRequest, ttl time.Duration) *Invitation {
	now := time.Now().UTC()
	return &Invitation{
		ID:        types.NewInvitationID(),
		Inviter:   inviter,
		Invitee:   invitee,
		Topic:     req.Topic,
		Info:      info,
		Request:   req,
		Status:    types.InvitationPending,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// Clone creates a deep copy of the invitation
func (inv *Invitation) Clone() *Invitation {
	copied := *inv
	if inv.Request != nil {
		copied.Request = inv.Request.Clone()
	}
	return &copied
}
