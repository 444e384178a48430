package usecase

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/enishi-chat/enishi/pkg/domain/model"
	"github.com/enishi-chat/enishi/pkg/domain/types"
	"github.com/enishi-chat/enishi/pkg/utils/logging"
)

// HandleAcceptInvite commits a recall invitation: the invitee agreed, so
// re-validate the inviter is still available and create the room.
func (uc *UseCases) HandleAcceptInvite(ctx context.Context, invitee, inviter types.IdentityID) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	inv, err := uc.repo.Invitation().GetPending(ctx, inviter, invitee)
	if err != nil {
		uc.notify(ctx, invitee, model.NewInviteErrorEvent(ReasonInvitationExpired))
		return nil
	}

	uc.cancelDeadline(inv.ID)
	if _, err := uc.repo.Invitation().Resolve(ctx, inv.ID, types.InvitationAccepted); err != nil {
		return goerr.Wrap(err, "failed to resolve invitation", goerr.V("id", inv.ID))
	}

	// The inviter may have vanished or been matched while the invitation
	// was pending
	if !uc.channel.IsOnline(inviter) || uc.presenceLocked(ctx, inviter) == types.PresenceInRoom {
		uc.notify(ctx, invitee, model.NewInviteErrorEvent(ReasonInviterUnavailable))
		return nil
	}

	// Clear any pooled requests of both sides before pairing
	if pooled, err := uc.repo.Pool().Remove(ctx, inviter); err == nil {
		uc.cancelEscalation(pooled.ID)
	}
	if pooled, err := uc.repo.Pool().Remove(ctx, invitee); err == nil {
		uc.cancelEscalation(pooled.ID)
	}

	logging.From(ctx).Info("invitation accepted", "inviter", inviter, "invitee", invitee)
	return uc.createRoom(ctx, inviter, invitee, inv.Info)
}

// HandleDeclineInvite resolves the invitation and resumes the inviter's
// original request in the pool, topic and embedding intact.
func (uc *UseCases) HandleDeclineInvite(ctx context.Context, invitee, inviter types.IdentityID) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	inv, err := uc.repo.Invitation().GetPending(ctx, inviter, invitee)
	if err != nil {
		return nil // already resolved
	}

	uc.cancelDeadline(inv.ID)
	resolved, err := uc.repo.Invitation().Resolve(ctx, inv.ID, types.InvitationDeclined)
	if err != nil {
		return goerr.Wrap(err, "failed to resolve invitation", goerr.V("id", inv.ID))
	}

	logging.From(ctx).Info("invitation declined", "inviter", inviter, "invitee", invitee)

	// waiting_in_queue is the inviter's single terminal notification
	return uc.resumeInviter(ctx, resolved, true)
}

// expireInvitation fires at the invitation deadline. Firing on an already
// resolved invitation is a safe no-op.
func (uc *UseCases) expireInvitation(ctx context.Context, invID types.InvitationID) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	delete(uc.deadlines, invID)

	inv, err := uc.repo.Invitation().Get(ctx, invID)
	if err != nil {
		return
	}

	resolved, err := uc.repo.Invitation().Resolve(ctx, inv.ID, types.InvitationExpired)
	if err != nil {
		return
	}

	logging.From(ctx).Info("invitation expired", "inviter", inv.Inviter, "invitee", inv.Invitee)

	// invite_timeout is the inviter's single terminal notification; the
	// request resumes matching silently
	uc.notify(ctx, inv.Inviter, model.NewInviteTimeoutEvent())
	if err := uc.resumeInviter(ctx, resolved, false); err != nil {
		logging.From(ctx).Error("failed to resume inviter after expiry", "error", err)
	}
}

// resumeInviter re-enqueues the request parked on a resolved invitation
func (uc *UseCases) resumeInviter(ctx context.Context, inv *model.Invitation, announce bool) error {
	if inv.Request == nil || !uc.channel.IsOnline(inv.Inviter) {
		return nil
	}
	// A new search or an accepted match may have claimed the inviter while
	// the invitation was being resolved
	if uc.presenceLocked(ctx, inv.Inviter) != types.PresenceIdle {
		return nil
	}

	req := inv.Request.Clone()
	req.EnqueuedAt = time.Now().UTC()
	return uc.enqueue(ctx, req, announce)
}

// withdrawInvitations discards outstanding invitations issued by the
// identity; a new search supersedes the old recall attempt
func (uc *UseCases) withdrawInvitations(ctx context.Context, inviter types.IdentityID) {
	invs, err := uc.repo.Invitation().ListByIdentity(ctx, inviter)
	if err != nil {
		return
	}

	for _, inv := range invs {
		if inv.Inviter != inviter {
			continue
		}
		uc.cancelDeadline(inv.ID)
		if _, err := uc.repo.Invitation().Resolve(ctx, inv.ID, types.InvitationExpired); err == nil {
			logging.From(ctx).Debug("invitation withdrawn", "inviter", inviter, "invitee", inv.Invitee)
		}
	}
}
