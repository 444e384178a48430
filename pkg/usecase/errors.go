package usecase

// User-visible invitation failure reasons
const (
	ReasonInvitationExpired  = "invitation expired"
	ReasonInviterUnavailable = "partner already matched with someone else"
)

// DefaultTopic substitutes a blank search input
const DefaultTopic = "随便"
