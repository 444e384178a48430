package usecase

import (
	"context"

	"github.com/enishi-chat/enishi/pkg/domain/model"
	"github.com/enishi-chat/enishi/pkg/domain/types"
	"github.com/enishi-chat/enishi/pkg/utils/logging"
)

// HandleDisconnect clears every piece of orchestration state belonging to a
// departed identity: pool entry, invitations in both directions, and room
// membership. The departed party receives no notifications.
func (uc *UseCases) HandleDisconnect(ctx context.Context, id types.IdentityID) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	// Invalidate any embedding fetch still in flight for this identity
	uc.searchSeq[id]++

	if pooled, err := uc.repo.Pool().Remove(ctx, id); err == nil {
		uc.cancelEscalation(pooled.ID)
	}

	if invs, err := uc.repo.Invitation().ListByIdentity(ctx, id); err == nil {
		for _, inv := range invs {
			uc.cancelDeadline(inv.ID)
			resolved, err := uc.repo.Invitation().Resolve(ctx, inv.ID, types.InvitationExpired)
			if err != nil {
				continue
			}

			if inv.Inviter == id {
				// The invitee loses nothing but the pending prompt
				uc.notify(ctx, inv.Invitee, model.NewInviteErrorEvent(ReasonInviterUnavailable))
			} else {
				// The inviter's parked request resumes matching
				uc.notify(ctx, inv.Inviter, model.NewInviteTimeoutEvent())
				if err := uc.resumeInviter(ctx, resolved, false); err != nil {
					logging.From(ctx).Error("failed to resume inviter after disconnect",
						"inviter", inv.Inviter, "error", err)
				}
			}
		}
	}

	if room, err := uc.repo.Room().FindByParticipant(ctx, id); err == nil {
		if err := uc.repo.Room().Delete(ctx, room.ID); err != nil {
			logging.From(ctx).Warn("failed to delete room on disconnect",
				"room", room.ID, "error", err)
		} else if peer, ok := room.Peer(id); ok && !peer.IsCompanion() {
			uc.notify(ctx, peer, model.NewSystemMessageEvent(types.SystemPartnerLeft))
		}
	}

	logging.From(ctx).Info("identity disconnected", "identity", id)
	return nil
}
