package memory

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"

	"github.com/enishi-chat/enishi/pkg/domain/model"
	"github.com/enishi-chat/enishi/pkg/domain/types"
)

// pairKey identifies a directed (inviter, invitee) pair
type pairKey struct {
	inviter types.IdentityID
	invitee types.IdentityID
}

type invitationRepository struct {
	mu     sync.RWMutex
	byID   map[types.InvitationID]*model.Invitation
	byPair map[pairKey]types.InvitationID
}

func newInvitationRepository() *invitationRepository {
	return &invitationRepository{
		byID:   make(map[types.InvitationID]*model.Invitation),
		byPair: make(map[pairKey]types.InvitationID),
	}
}

func (r *invitationRepository) Put(ctx context.Context, inv *model.Invitation) (*model.Invitation, error) {
	if inv == nil {
		return nil, goerr.New("invitation is required")
	}
	if inv.Status != types.InvitationPending {
		return nil, goerr.New("only pending invitations can be stored", goerr.V("status", inv.Status))
	}
	if inv.Inviter == inv.Invitee {
		return nil, goerr.New("inviter and invitee must differ", goerr.V("identity", inv.Inviter))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := pairKey{inviter: inv.Inviter, invitee: inv.Invitee}

	// Latest invitation for the same directed pair supersedes
	var replaced *model.Invitation
	if priorID, exists := r.byPair[key]; exists {
		if prior, ok := r.byID[priorID]; ok {
			replaced = prior.Clone()
		}
		delete(r.byID, priorID)
	}

	r.byID[inv.ID] = inv.Clone()
	r.byPair[key] = inv.ID

	return replaced, nil
}

func (r *invitationRepository) Get(ctx context.Context, id types.InvitationID) (*model.Invitation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	inv, exists := r.byID[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "invitation not found", goerr.V("id", id))
	}

	return inv.Clone(), nil
}

func (r *invitationRepository) GetPending(ctx context.Context, inviter, invitee types.IdentityID) (*model.Invitation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, exists := r.byPair[pairKey{inviter: inviter, invitee: invitee}]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "no pending invitation for pair",
			goerr.V("inviter", inviter), goerr.V("invitee", invitee))
	}

	return r.byID[id].Clone(), nil
}

func (r *invitationRepository) ListByIdentity(ctx context.Context, id types.IdentityID) ([]*model.Invitation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*model.Invitation
	for _, inv := range r.byID {
		if inv.Inviter == id || inv.Invitee == id {
			result = append(result, inv.Clone())
		}
	}

	return result, nil
}

func (r *invitationRepository) Resolve(ctx context.Context, id types.InvitationID, status types.InvitationStatus) (*model.Invitation, error) {
	if !status.IsTerminal() {
		return nil, goerr.New("resolution status must be terminal", goerr.V("status", status))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	inv, exists := r.byID[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "invitation not found", goerr.V("id", id))
	}

	delete(r.byID, id)
	key := pairKey{inviter: inv.Inviter, invitee: inv.Invitee}
	if r.byPair[key] == id {
		delete(r.byPair, key)
	}

	resolved := inv.Clone()
	resolved.Status = status
	return resolved, nil
}
