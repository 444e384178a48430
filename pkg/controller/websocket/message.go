package websocket

import (
	"context"
	"encoding/json"

	"github.com/m-mizutani/goerr/v2"

	"github.com/enishi-chat/enishi/pkg/domain/types"
)

// Inbound message types
const (
	msgSearchMatch   = "search_match"
	msgChatMessage   = "chat_message"
	msgTyping        = "typing"
	msgAcceptInvite  = "accept_invite"
	msgDeclineInvite = "decline_invite"
	msgRejoinRoom    = "rejoin_room"
)

// inboundMessage is the superset of every client-to-server message shape.
// Client-asserted timestamps are accepted but ignored; the server stamps
// relayed messages itself.
type inboundMessage struct {
	Type      string `json:"type"`
	Topic     string `json:"topic,omitempty"`
	Room      string `json:"room,omitempty"`
	Text      string `json:"text,omitempty"`
	Time      int64  `json:"time,omitempty"`
	IsTyping  bool   `json:"isTyping,omitempty"`
	InviterID string `json:"inviterId,omitempty"`
}

// dispatch routes one raw client message to the bound handler. Unknown
// message types are logged and ignored rather than dropping the connection.
func (c *client) dispatch(ctx context.Context, data []byte) error {
	if c.hub.handler == nil {
		return goerr.New("no handler bound to hub")
	}

	var msg inboundMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return goerr.Wrap(err, "malformed client message", goerr.V("identity", c.identity))
	}

	switch msg.Type {
	case msgSearchMatch:
		return c.hub.handler.HandleSearch(ctx, c.identity, msg.Topic)

	case msgChatMessage:
		return c.hub.handler.HandleChatMessage(ctx, c.identity, types.RoomID(msg.Room), msg.Text)

	case msgTyping:
		return c.hub.handler.HandleTyping(ctx, c.identity, types.RoomID(msg.Room), msg.IsTyping)

	case msgAcceptInvite:
		return c.hub.handler.HandleAcceptInvite(ctx, c.identity, types.IdentityID(msg.InviterID))

	case msgDeclineInvite:
		return c.hub.handler.HandleDeclineInvite(ctx, c.identity, types.IdentityID(msg.InviterID))

	case msgRejoinRoom:
		return c.hub.handler.HandleRejoinRoom(ctx, c.identity, types.RoomID(msg.Room))

	default:
		return goerr.New("unknown message type",
			goerr.V("type", msg.Type), goerr.V("identity", c.identity))
	}
}
