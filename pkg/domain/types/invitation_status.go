package types

// InvitationStatus represents the state of a recall invitation.
// PENDING is the only non-terminal state.
type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "PENDING"
	InvitationAccepted InvitationStatus = "ACCEPTED"
	InvitationDeclined InvitationStatus = "DECLINED"
	InvitationExpired  InvitationStatus = "EXPIRED"
)

// IsTerminal reports whether the status is terminal
func (s InvitationStatus) IsTerminal() bool {
	switch s {
	case InvitationAccepted, InvitationDeclined, InvitationExpired:
		return true
	default:
		return false
	}
}

// String returns the string representation of the invitation status
func (s InvitationStatus) String() string {
	return string(s)
}
