package interfaces

import (
	"context"

	"github.com/enishi-chat/enishi/pkg/domain/model"
	"github.com/enishi-chat/enishi/pkg/domain/types"
)

// HistoryRepository is the bounded, TTL'd per-identity log of past topics
type HistoryRepository interface {
	// Record prepends the entry to the identity's history, dropping expired
	// entries and any prior entry sharing the same topic, then truncates to
	// the configured capacity
	Record(ctx context.Context, id types.IdentityID, entry *model.HistoryEntry) error

	// List returns the identity's unexpired entries, newest first
	List(ctx context.Context, id types.IdentityID) ([]*model.HistoryEntry, error)

	// Identities returns all identities that currently hold history
	Identities(ctx context.Context) ([]types.IdentityID, error)

	// PruneExpired drops expired entries across all identities and returns
	// the number of entries removed
	PruneExpired(ctx context.Context) (int, error)
}
