package types

// EventType identifies an outbound event sent over a client channel
type EventType string

const (
	EventMatchFound       EventType = "match_found"
	EventWaitingInQueue   EventType = "waiting_in_queue"
	EventMatchInvite      EventType = "match_invite"
	EventWaitingForInvite EventType = "waiting_for_invite"
	EventInviteTimeout    EventType = "invite_timeout"
	EventInviteError      EventType = "invite_error"
	EventSystemMessage    EventType = "system_message"
	EventMessageReceived  EventType = "message_received"
	EventPartnerTyping    EventType = "partner_typing"
	EventOnlineCount      EventType = "online_count"
)

// SystemMessageKind identifies the reason carried by a system_message event
type SystemMessageKind string

const (
	SystemSearchingContinues SystemMessageKind = "searching_continues"
	SystemPartnerLeft        SystemMessageKind = "partner_left"
	SystemRoomClosed         SystemMessageKind = "room_closed"
)
