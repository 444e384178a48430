package interfaces

import (
	"context"

	"github.com/enishi-chat/enishi/pkg/domain/model"
	"github.com/enishi-chat/enishi/pkg/domain/types"
)

// Channel is the connection layer seen from the orchestrator: it binds
// identities to live connections and delivers outbound events. Delivery is
// best effort; sending to an offline identity is not an error.
type Channel interface {
	// Send delivers the event to the identity's live connection, if any
	Send(ctx context.Context, id types.IdentityID, event *model.Envelope) error

	// Broadcast delivers the event to every live connection
	Broadcast(ctx context.Context, event *model.Envelope)

	// IsOnline reports whether the identity holds a live connection
	IsOnline(id types.IdentityID) bool

	// OnlineCount returns the number of live connections
	OnlineCount() int
}
