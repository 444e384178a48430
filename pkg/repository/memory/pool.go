package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/m-mizutani/goerr/v2"

	"github.com/enishi-chat/enishi/pkg/domain/model"
	"github.com/enishi-chat/enishi/pkg/domain/types"
)

type poolEntry struct {
	req *model.SearchRequest
	seq uint64
}

type poolRepository struct {
	mu      sync.RWMutex
	entries map[types.IdentityID]*poolEntry
	nextSeq uint64
}

func newPoolRepository() *poolRepository {
	return &poolRepository{
		entries: make(map[types.IdentityID]*poolEntry),
	}
}

func (r *poolRepository) Upsert(ctx context.Context, req *model.SearchRequest) (*model.SearchRequest, error) {
	if req == nil {
		return nil, goerr.New("search request is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var replaced *model.SearchRequest
	if prior, exists := r.entries[req.Identity]; exists {
		replaced = prior.req.Clone()
	}

	r.nextSeq++
	r.entries[req.Identity] = &poolEntry{req: req.Clone(), seq: r.nextSeq}

	return replaced, nil
}

func (r *poolRepository) Remove(ctx context.Context, id types.IdentityID) (*model.SearchRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, exists := r.entries[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "identity not in pool", goerr.V("identity", id))
	}

	delete(r.entries, id)
	return entry.req.Clone(), nil
}

func (r *poolRepository) Get(ctx context.Context, id types.IdentityID) (*model.SearchRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, exists := r.entries[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "identity not in pool", goerr.V("identity", id))
	}

	return entry.req.Clone(), nil
}

func (r *poolRepository) List(ctx context.Context) ([]*model.SearchRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]*poolEntry, 0, len(r.entries))
	for _, e := range r.entries {
		entries = append(entries, e)
	}

	// Enqueue order; the sequence breaks ties between equal timestamps
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].seq < entries[j].seq
	})

	result := make([]*model.SearchRequest, len(entries))
	for i, e := range entries {
		result[i] = e.req.Clone()
	}

	return result, nil
}

func (r *poolRepository) Size(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.entries), nil
}
