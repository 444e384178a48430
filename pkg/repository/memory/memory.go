package memory

import (
	"time"

	"github.com/enishi-chat/enishi/pkg/domain/interfaces"
)

// Memory is the in-memory repository. It is the sole backend: all
// orchestration state is ephemeral by design and owned by one process.
type Memory struct {
	pool        *poolRepository
	history     *historyRepository
	invitations *invitationRepository
	rooms       *roomRepository
}

var _ interfaces.Repository = &Memory{}

// Option is a functional option for repository configuration
type Option func(*Memory)

// WithHistoryBounds overrides the history TTL and per-identity capacity
func WithHistoryBounds(ttl time.Duration, limit int) Option {
	return func(m *Memory) {
		m.history.ttl = ttl
		m.history.limit = limit
	}
}

// New creates an in-memory repository with default history bounds
func New(opts ...Option) *Memory {
	m := &Memory{
		pool:        newPoolRepository(),
		history:     newHistoryRepository(),
		invitations: newInvitationRepository(),
		rooms:       newRoomRepository(),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

func (m *Memory) Pool() interfaces.PoolRepository {
	return m.pool
}

func (m *Memory) History() interfaces.HistoryRepository {
	return m.history
}

func (m *Memory) Invitation() interfaces.InvitationRepository {
	return m.invitations
}

func (m *Memory) Room() interfaces.RoomRepository {
	return m.rooms
}

// Close is a no-op for the in-memory backend
func (m *Memory) Close() error {
	return nil
}
