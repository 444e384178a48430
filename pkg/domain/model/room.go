package model

import (
	"math/rand/v2"
	"time"

	"github.com/enishi-chat/enishi/pkg/domain/types"
)

// presentationSeedRange bounds the cosmetic per-side seed used by clients
// for avatar rendering. The seed carries no identity semantics.
const presentationSeedRange = 1000

// Room is an ephemeral two-party chat session. There is no explicit destroy
// operation; the record is removed when either participant disconnects.
type Room struct {
	ID           types.RoomID
	ParticipantA types.IdentityID
	ParticipantB types.IdentityID
	SeedA        int
	SeedB        int
	Topic        string // matched topic info shown to both sides
	CreatedAt    time.Time
}

// NewRoom creates a room for two distinct participants
func NewRoom(a, b types.IdentityID, topic string) *Room {
	return &Room{
		ID:           types.NewRoomID(),
		ParticipantA: a,
		ParticipantB: b,
		SeedA:        rand.IntN(presentationSeedRange),
		SeedB:        rand.IntN(presentationSeedRange),
		Topic:        topic,
		CreatedAt:    time.Now().UTC(),
	}
}

// Has reports whether the identity is a participant of the room
func (r *Room) Has(id types.IdentityID) bool {
	return r.ParticipantA == id || r.ParticipantB == id
}

// Peer returns the other participant. ok is false when the identity is not
// a participant of the room.
func (r *Room) Peer(id types.IdentityID) (types.IdentityID, bool) {
	switch id {
	case r.ParticipantA:
		return r.ParticipantB, true
	case r.ParticipantB:
		return r.ParticipantA, true
	default:
		return "", false
	}
}

// Seed returns the presentation seed assigned to the given participant
func (r *Room) Seed(id types.IdentityID) int {
	if id == r.ParticipantB {
		return r.SeedB
	}
	return r.SeedA
}

// Clone creates a copy of the room
func (r *Room) Clone() *Room {
	copied := *r
	return &copied
}
