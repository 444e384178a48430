package websocket

import (
	"context"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/enishi-chat/enishi/pkg/domain/model"
	"github.com/enishi-chat/enishi/pkg/domain/types"
	"github.com/enishi-chat/enishi/pkg/utils/async"
	"github.com/enishi-chat/enishi/pkg/utils/logging"
)

// Handler receives inbound client events. The orchestrator implements it.
type Handler interface {
	HandleSearch(ctx context.Context, identity types.IdentityID, topic string) error
	HandleChatMessage(ctx context.Context, sender types.IdentityID, room types.RoomID, text string) error
	HandleTyping(ctx context.Context, sender types.IdentityID, room types.RoomID, isTyping bool) error
	HandleAcceptInvite(ctx context.Context, invitee, inviter types.IdentityID) error
	HandleDeclineInvite(ctx context.Context, invitee, inviter types.IdentityID) error
	HandleRejoinRoom(ctx context.Context, identity types.IdentityID, room types.RoomID) error
	HandleDisconnect(ctx context.Context, identity types.IdentityID) error
}

// Hub owns every live websocket connection, keyed by identity. It is the
// concrete Channel the orchestrator delivers events through.
type Hub struct {
	mu      sync.RWMutex
	clients map[types.IdentityID]*client
	handler Handler

	upgrader websocket.Upgrader
}

// NewHub creates an empty hub. Bind the orchestrator with SetHandler before
// serving connections.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[types.IdentityID]*client),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Identity is client-asserted; origin enforcement adds nothing
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// SetHandler binds the inbound event handler. The hub and the orchestrator
// reference each other, so binding happens after both are constructed.
func (h *Hub) SetHandler(handler Handler) {
	h.handler = handler
}

// ServeHTTP upgrades a GET /ws?id=<identity> request into a live connection
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	identity := types.IdentityID(r.URL.Query().Get("id"))
	if err := identity.Validate(); err != nil {
		http.Error(w, "missing or invalid id", http.StatusBadRequest)
		return
	}
	if identity.IsCompanion() {
		http.Error(w, "reserved identity", http.StatusForbidden)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.From(r.Context()).Warn("websocket upgrade failed", "error", err)
		return
	}

	c := newClient(h, identity, conn)
	h.register(r.Context(), c)

	go c.writePump()
	go c.readPump(r.Context())
}

// register binds the client to its identity. A reconnect replaces the old
// connection wholesale; orchestration state survives the swap.
func (h *Hub) register(ctx context.Context, c *client) {
	h.mu.Lock()
	old := h.clients[c.identity]
	h.clients[c.identity] = c
	count := len(h.clients)
	h.mu.Unlock()

	if old != nil {
		old.close()
	}

	logging.From(ctx).Info("client connected", "identity", c.identity, "online", count)
	h.Broadcast(ctx, model.NewOnlineCountEvent(count))
}

// unregister drops the client if it is still the identity's current
// connection, then tears down the identity's orchestration state
func (h *Hub) unregister(ctx context.Context, c *client) {
	h.mu.Lock()
	current, exists := h.clients[c.identity]
	if !exists || current != c {
		// Superseded by a reconnect; the identity stays online
		h.mu.Unlock()
		return
	}
	delete(h.clients, c.identity)
	count := len(h.clients)
	h.mu.Unlock()

	logging.From(ctx).Info("client disconnected", "identity", c.identity, "online", count)
	h.Broadcast(ctx, model.NewOnlineCountEvent(count))

	if h.handler != nil {
		identity := c.identity
		async.Dispatch(ctx, func(ctx context.Context) error {
			return h.handler.HandleDisconnect(ctx, identity)
		})
	}
}

// Send delivers the event to the identity's live connection, if any.
// Delivery to an offline identity is a silent no-op.
func (h *Hub) Send(ctx context.Context, id types.IdentityID, event *model.Envelope) error {
	h.mu.RLock()
	c, exists := h.clients[id]
	h.mu.RUnlock()

	if !exists {
		return nil
	}

	c.send(ctx, event)
	return nil
}

// Broadcast delivers the event to every live connection
func (h *Hub) Broadcast(ctx context.Context, event *model.Envelope) {
	h.mu.RLock()
	targets := make([]*client, 0, len(h.clients))
	for _, c := range h.clients {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	for _, c := range targets {
		c.send(ctx, event)
	}
}

// IsOnline reports whether the identity holds a live connection
func (h *Hub) IsOnline(id types.IdentityID) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, exists := h.clients[id]
	return exists
}

// OnlineCount returns the number of live connections
func (h *Hub) OnlineCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Shutdown closes every live connection
func (h *Hub) Shutdown(ctx context.Context) {
	h.mu.Lock()
	clients := make([]*client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.clients = make(map[types.IdentityID]*client)
	h.mu.Unlock()

	for _, c := range clients {
		c.close()
	}

	logging.From(ctx).Info("websocket hub shut down", "closed", len(clients))
}
