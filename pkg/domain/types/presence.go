package types

// Presence classifies what a connected identity is currently doing. It is
// always derived from pool, invitation, and room state, never stored.
type Presence string

const (
	// PresenceIdle means no active search request and no room membership
	PresenceIdle Presence = "IDLE"
	// PresenceQueueing means an active search request exists, either pooled
	// or parked on an outstanding recall invitation
	PresenceQueueing Presence = "QUEUEING"
	// PresenceInRoom means the identity is a participant of a live room
	PresenceInRoom Presence = "IN_ROOM"
)

// String returns the string representation of the presence
func (p Presence) String() string {
	return string(p)
}
