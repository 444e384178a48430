package model

import (
	"github.com/enishi-chat/enishi/pkg/domain/types"
)

// Envelope is one outbound event delivered over a client channel
type Envelope struct {
	Type    types.EventType `json:"type"`
	Payload any             `json:"payload,omitempty"`
}

// MatchFoundPayload announces a newly created room to one side
type MatchFoundPayload struct {
	Room        string `json:"room"`
	Topic       string `json:"topic"`
	MySeed      int    `json:"mySeed"`
	PartnerSeed int    `json:"partnerSeed"`
}

// WaitingInQueuePayload confirms the topic a search was enqueued with
type WaitingInQueuePayload struct {
	Topic string `json:"topic"`
}

// MatchInvitePayload asks an idle identity to join the inviter
type MatchInvitePayload struct {
	InviterID string `json:"inviterId"`
	Topic     string `json:"topic"`
}

// InviteErrorPayload carries a user-visible invitation failure
type InviteErrorPayload struct {
	Reason string `json:"reason"`
}

// SystemMessagePayload carries an in-band notice
type SystemMessagePayload struct {
	Kind types.SystemMessageKind `json:"kind"`
}

// ChatPayload carries a relayed chat message
type ChatPayload struct {
	Room string `json:"room"`
	Text string `json:"text"`
	Time int64  `json:"time"`
}

// TypingPayload carries the peer's typing state
type TypingPayload struct {
	IsTyping bool `json:"isTyping"`
}

// OnlineCountPayload carries the number of live connections
type OnlineCountPayload struct {
	Count int `json:"count"`
}

// NewMatchFoundEvent builds the match_found envelope for one participant
func NewMatchFoundEvent(room *Room, me types.IdentityID) *Envelope {
	peer, _ := room.Peer(me)
	return &Envelope{
		Type: types.EventMatchFound,
		Payload: MatchFoundPayload{
			Room:        room.ID.String(),
			Topic:       room.Topic,
			MySeed:      room.Seed(me),
			PartnerSeed: room.Seed(peer),
		},
	}
}

// NewWaitingInQueueEvent builds the waiting_in_queue envelope
func NewWaitingInQueueEvent(topic string) *Envelope {
	return &Envelope{
		Type:    types.EventWaitingInQueue,
		Payload: WaitingInQueuePayload{Topic: topic},
	}
}

// NewMatchInviteEvent builds the match_invite envelope for the invitee
func NewMatchInviteEvent(inv *Invitation) *Envelope {
	return &Envelope{
		Type: types.EventMatchInvite,
		Payload: MatchInvitePayload{
			InviterID: inv.Inviter.String(),
			Topic:     inv.Info,
		},
	}
}

// NewWaitingForInviteEvent builds the waiting_for_invite envelope
func NewWaitingForInviteEvent() *Envelope {
	return &Envelope{Type: types.EventWaitingForInvite}
}

// NewInviteTimeoutEvent builds the invite_timeout envelope
func NewInviteTimeoutEvent() *Envelope {
	return &Envelope{Type: types.EventInviteTimeout}
}

// NewInviteErrorEvent builds the invite_error envelope
func NewInviteErrorEvent(reason string) *Envelope {
	return &Envelope{
		Type:    types.EventInviteError,
		Payload: InviteErrorPayload{Reason: reason},
	}
}

// NewSystemMessageEvent builds the system_message envelope
func NewSystemMessageEvent(kind types.SystemMessageKind) *Envelope {
	return &Envelope{
		Type:    types.EventSystemMessage,
		Payload: SystemMessagePayload{Kind: kind},
	}
}

// NewMessageReceivedEvent builds the message_received envelope
func NewMessageReceivedEvent(room types.RoomID, text string, at int64) *Envelope {
	return &Envelope{
		Type:    types.EventMessageReceived,
		Payload: ChatPayload{Room: room.String(), Text: text, Time: at},
	}
}

// NewPartnerTypingEvent builds the partner_typing envelope
func NewPartnerTypingEvent(isTyping bool) *Envelope {
	return &Envelope{
		Type:    types.EventPartnerTyping,
		Payload: TypingPayload{IsTyping: isTyping},
	}
}

// NewOnlineCountEvent builds the online_count envelope
func NewOnlineCountEvent(n int) *Envelope {
	return &Envelope{
		Type:    types.EventOnlineCount,
		Payload: OnlineCountPayload{Count: n},
	}
}
