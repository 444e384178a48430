package interfaces

import (
	"context"

	"github.com/enishi-chat/enishi/pkg/domain/model"
	"github.com/enishi-chat/enishi/pkg/domain/types"
)

// RoomRepository holds live two-party chat sessions
type RoomRepository interface {
	// Create stores the room
	Create(ctx context.Context, room *model.Room) (*model.Room, error)

	// Get retrieves a room by ID
	Get(ctx context.Context, id types.RoomID) (*model.Room, error)

	// FindByParticipant returns the room the identity belongs to
	FindByParticipant(ctx context.Context, id types.IdentityID) (*model.Room, error)

	// Delete removes the room
	Delete(ctx context.Context, id types.RoomID) error

	// Size returns the number of live rooms
	Size(ctx context.Context) (int, error)
}
