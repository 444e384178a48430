package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/enishi-chat/enishi/pkg/domain/model"
	"github.com/enishi-chat/enishi/pkg/domain/types"
	"github.com/enishi-chat/enishi/pkg/utils/errutil"
	"github.com/enishi-chat/enishi/pkg/utils/logging"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4 * 1024

	// sendBufferSize bounds pending outbound events per connection. A full
	// buffer drops the event rather than stalling orchestration.
	sendBufferSize = 32
)

// client is one live websocket connection bound to an identity
type client struct {
	hub      *Hub
	identity types.IdentityID
	conn     *websocket.Conn

	outbound  chan []byte
	closeOnce sync.Once
	closed    chan struct{}
}

func newClient(hub *Hub, identity types.IdentityID, conn *websocket.Conn) *client {
	return &client{
		hub:      hub,
		identity: identity,
		conn:     conn,
		outbound: make(chan []byte, sendBufferSize),
		closed:   make(chan struct{}),
	}
}

// send queues the event without blocking. Events to a stalled connection
// are dropped and logged.
func (c *client) send(ctx context.Context, event *model.Envelope) {
	data, err := json.Marshal(event)
	if err != nil {
		logging.From(ctx).Error("failed to marshal event",
			"identity", c.identity, "type", event.Type, "error", err)
		return
	}

	select {
	case c.outbound <- data:
	case <-c.closed:
	default:
		logging.From(ctx).Warn("dropping event for slow connection",
			"identity", c.identity, "type", event.Type)
	}
}

func (c *client) close() {
	c.closeOnce.Do(func() {
		close(c.closed)
		c.conn.Close() //nolint:errcheck // connection is being discarded
	})
}

// readPump consumes inbound messages until the connection drops, then
// unregisters the client
func (c *client) readPump(ctx context.Context) {
	defer func() {
		c.hub.unregister(ctx, c)
		c.close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logging.From(ctx).Warn("websocket read error",
					"identity", c.identity, "error", err)
			}
			return
		}

		if err := c.dispatch(ctx, data); err != nil {
			errutil.Handle(ctx, err, "failed to handle client message")
		}
	}
}

// writePump flushes queued events and keeps the connection alive with pings
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case data := <-c.outbound:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.closed:
			return
		}
	}
}
