package types

import (
	"strings"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

// IdentityID is a stable, client-chosen opaque token identifying a
// participant across connections. It is never minted by the server.
type IdentityID string

// CompanionPrefix marks server-side companion identities. They hold no
// connection and are excluded from the pool, history, and recall.
const CompanionPrefix = "bot:"

// Validate checks if the identity token is acceptable
func (id IdentityID) Validate() error {
	if id == "" {
		return goerr.New("identity token is required")
	}
	if len(id) > 128 {
		return goerr.New("identity token too long", goerr.V("length", len(id)))
	}
	return nil
}

// IsCompanion reports whether the identity is a server-side companion
func (id IdentityID) IsCompanion() bool {
	return strings.HasPrefix(string(id), CompanionPrefix)
}

// String returns the string representation of the identity
func (id IdentityID) String() string {
	return string(id)
}

// NewCompanionID generates a fresh companion identity
func NewCompanionID() IdentityID {
	return IdentityID(CompanionPrefix + uuid.New().String())
}

// RoomID is a UUID-based identifier for Room
type RoomID string

// NewRoomID generates a new UUID v4 RoomID
func NewRoomID() RoomID {
	return RoomID(uuid.New().String())
}

// String returns the string representation of the room ID
func (id RoomID) String() string {
	return string(id)
}

// RequestID is a UUID-based identifier for a single SearchRequest. A new
// search by the same identity gets a fresh RequestID, so timers keyed by
// RequestID never act on a superseding request.
type RequestID string

// NewRequestID generates a new UUID v4 RequestID
func NewRequestID() RequestID {
	return RequestID(uuid.New().String())
}

// InvitationID is a UUID-based identifier for Invitation
type InvitationID string

// NewInvitationID generates a new UUID v4 InvitationID
func NewInvitationID() InvitationID {
	return InvitationID(uuid.New().String())
}
