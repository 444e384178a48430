package usecase

import (
	"context"

	"github.com/enishi-chat/enishi/pkg/domain/types"
)

// Presence derives the identity's current lifecycle state from the room,
// pool, and invitation records. There is no stored presence field.
func (uc *UseCases) Presence(ctx context.Context, id types.IdentityID) types.Presence {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.presenceLocked(ctx, id)
}

// presenceLocked is Presence for callers already holding the lock.
// IN_ROOM dominates QUEUEING; an identity waiting on its own invitation
// counts as QUEUEING even though it left the pool.
func (uc *UseCases) presenceLocked(ctx context.Context, id types.IdentityID) types.Presence {
	if _, err := uc.repo.Room().FindByParticipant(ctx, id); err == nil {
		return types.PresenceInRoom
	}

	if _, err := uc.repo.Pool().Get(ctx, id); err == nil {
		return types.PresenceQueueing
	}

	if invs, err := uc.repo.Invitation().ListByIdentity(ctx, id); err == nil {
		for _, inv := range invs {
			if inv.Inviter == id {
				return types.PresenceQueueing
			}
		}
	}

	return types.PresenceIdle
}

// isIdle reports whether the identity is online and eligible as a recall
// target. Callers hold the orchestration lock.
func (uc *UseCases) isIdle(ctx context.Context, id types.IdentityID) bool {
	return uc.channel.IsOnline(id) && uc.presenceLocked(ctx, id) == types.PresenceIdle
}

// Stats is a point-in-time snapshot of engine load
type Stats struct {
	Online   int `json:"online"`
	Queueing int `json:"queueing"`
	Rooms    int `json:"rooms"`
}

// GetStats reports current connection, pool, and room counts
func (uc *UseCases) GetStats(ctx context.Context) (*Stats, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	queueing, err := uc.repo.Pool().Size(ctx)
	if err != nil {
		return nil, err
	}
	rooms, err := uc.repo.Room().Size(ctx)
	if err != nil {
		return nil, err
	}

	return &Stats{
		Online:   uc.channel.OnlineCount(),
		Queueing: queueing,
		Rooms:    rooms,
	}, nil
}
