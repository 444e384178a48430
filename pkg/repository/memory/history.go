package memory

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/enishi-chat/enishi/pkg/domain/model"
	"github.com/enishi-chat/enishi/pkg/domain/types"
)

const (
	defaultHistoryTTL   = 12 * time.Hour
	defaultHistoryLimit = 5
)

type historyRepository struct {
	mu      sync.RWMutex
	entries map[types.IdentityID][]*model.HistoryEntry
	ttl     time.Duration
	limit   int
}

func newHistoryRepository() *historyRepository {
	return &historyRepository{
		entries: make(map[types.IdentityID][]*model.HistoryEntry),
		ttl:     defaultHistoryTTL,
		limit:   defaultHistoryLimit,
	}
}

func (r *historyRepository) Record(ctx context.Context, id types.IdentityID, entry *model.HistoryEntry) error {
	if entry == nil || entry.Topic == "" {
		return goerr.New("history entry with topic is required", goerr.V("identity", id))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	recorded := entry.Clone()
	if recorded.RecordedAt.IsZero() {
		recorded.RecordedAt = now
	}

	// Drop expired entries and any prior entry sharing the topic
	kept := make([]*model.HistoryEntry, 0, r.limit)
	kept = append(kept, recorded)
	for _, e := range r.entries[id] {
		if e.Expired(now, r.ttl) || e.Topic == recorded.Topic {
			continue
		}
		if len(kept) >= r.limit {
			break
		}
		kept = append(kept, e)
	}

	r.entries[id] = kept
	return nil
}

func (r *historyRepository) List(ctx context.Context, id types.IdentityID) ([]*model.HistoryEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	now := time.Now().UTC()
	entries := r.entries[id]

	result := make([]*model.HistoryEntry, 0, len(entries))
	for _, e := range entries {
		if e.Expired(now, r.ttl) {
			continue
		}
		result = append(result, e.Clone())
	}

	return result, nil
}

func (r *historyRepository) Identities(ctx context.Context) ([]types.IdentityID, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]types.IdentityID, 0, len(r.entries))
	for id := range r.entries {
		result = append(result, id)
	}

	return result, nil
}

func (r *historyRepository) PruneExpired(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	removed := 0

	for id, entries := range r.entries {
		kept := entries[:0]
		for _, e := range entries {
			if e.Expired(now, r.ttl) {
				removed++
				continue
			}
			kept = append(kept, e)
		}
		if len(kept) == 0 {
			delete(r.entries, id)
			continue
		}
		r.entries[id] = kept
	}

	return removed, nil
}
