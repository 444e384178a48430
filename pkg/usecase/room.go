package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/enishi-chat/enishi/pkg/domain/model"
	"github.com/enishi-chat/enishi/pkg/domain/types"
	"github.com/enishi-chat/enishi/pkg/utils/async"
	"github.com/enishi-chat/enishi/pkg/utils/logging"
)

// createRoom pairs two identities into a fresh room and announces it to both
// sides. Callers hold the orchestration lock.
func (uc *UseCases) createRoom(ctx context.Context, a, b types.IdentityID, info string) error {
	// Either side may still be a member of an abandoned room
	uc.detachFromRoom(ctx, a)
	uc.detachFromRoom(ctx, b)

	room, err := uc.repo.Room().Create(ctx, model.NewRoom(a, b, info))
	if err != nil {
		return goerr.Wrap(err, "failed to create room",
			goerr.V("a", a), goerr.V("b", b))
	}

	uc.notify(ctx, a, model.NewMatchFoundEvent(room, a))
	if !b.IsCompanion() {
		uc.notify(ctx, b, model.NewMatchFoundEvent(room, b))
	}

	logging.From(ctx).Info("room created",
		"room", room.ID, "a", a, "b", b, "info", info)

	return nil
}

// detachFromRoom silently removes the identity's current room, if any,
// without notifying anyone. Used when re-pairing an identity that is known
// to be leaving.
func (uc *UseCases) detachFromRoom(ctx context.Context, id types.IdentityID) {
	room, err := uc.repo.Room().FindByParticipant(ctx, id)
	if err != nil {
		return
	}
	if err := uc.repo.Room().Delete(ctx, room.ID); err != nil {
		logging.From(ctx).Warn("failed to delete stale room", "room", room.ID, "error", err)
	}
}

// leaveCurrentRoom tears down the identity's room and tells the remaining
// peer their partner left. Callers hold the orchestration lock.
func (uc *UseCases) leaveCurrentRoom(ctx context.Context, id types.IdentityID) {
	room, err := uc.repo.Room().FindByParticipant(ctx, id)
	if err != nil {
		return
	}

	if err := uc.repo.Room().Delete(ctx, room.ID); err != nil {
		logging.From(ctx).Warn("failed to delete room", "room", room.ID, "error", err)
		return
	}

	if peer, ok := room.Peer(id); ok && !peer.IsCompanion() {
		uc.notify(ctx, peer, model.NewSystemMessageEvent(types.SystemPartnerLeft))
	}

	logging.From(ctx).Info("room closed", "room", room.ID, "left", id)
}

// pairWithCompanion pairs a lone pooled searcher with a server-side
// companion identity. Callers hold the orchestration lock.
func (uc *UseCases) pairWithCompanion(ctx context.Context, req *model.SearchRequest) {
	if _, err := uc.repo.Pool().Remove(ctx, req.Identity); err != nil {
		return
	}
	uc.cancelEscalation(req.ID)

	if err := uc.createRoom(ctx, req.Identity, types.NewCompanionID(), req.Topic); err != nil {
		logging.From(ctx).Error("failed to pair with companion", "error", err)
	}
}

// HandleChatMessage relays a chat message to the sender's room peer. When
// the peer is a companion, a generated reply is delivered instead.
func (uc *UseCases) HandleChatMessage(ctx context.Context, sender types.IdentityID, roomID types.RoomID, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	room, err := uc.repo.Room().Get(ctx, roomID)
	if err != nil {
		uc.notify(ctx, sender, model.NewSystemMessageEvent(types.SystemRoomClosed))
		return nil
	}
	if !room.Has(sender) {
		return nil
	}

	peer, _ := room.Peer(sender)
	now := time.Now().UnixMilli()

	if peer.IsCompanion() {
		uc.replyAsCompanion(ctx, sender, room, text)
		return nil
	}

	uc.notify(ctx, peer, model.NewMessageReceivedEvent(room.ID, text, now))
	return nil
}

// replyAsCompanion generates a companion reply off the lock and delivers it
// only if the room still exists on resumption
func (uc *UseCases) replyAsCompanion(ctx context.Context, sender types.IdentityID, room *model.Room, text string) {
	if uc.companion == nil {
		return
	}

	roomID := room.ID
	topic := room.Topic

	async.Dispatch(ctx, func(ctx context.Context) error {
		reply, err := uc.companion.Reply(ctx, topic, text)
		if err != nil {
			return goerr.Wrap(err, "companion reply failed", goerr.V("room", roomID))
		}

		uc.mu.Lock()
		defer uc.mu.Unlock()

		// Suspension point ended; the room may have closed while generating
		if _, err := uc.repo.Room().Get(ctx, roomID); err != nil {
			return nil
		}

		uc.notify(ctx, sender, model.NewMessageReceivedEvent(roomID, reply, time.Now().UnixMilli()))
		return nil
	})
}

// HandleTyping forwards the sender's typing state to the room peer
func (uc *UseCases) HandleTyping(ctx context.Context, sender types.IdentityID, roomID types.RoomID, isTyping bool) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	room, err := uc.repo.Room().Get(ctx, roomID)
	if err != nil || !room.Has(sender) {
		return nil
	}

	if peer, ok := room.Peer(sender); ok && !peer.IsCompanion() {
		uc.notify(ctx, peer, model.NewPartnerTypingEvent(isTyping))
	}

	return nil
}

// HandleRejoinRoom re-attaches a reconnecting client to its room. The room
// record is authoritative; a vanished room yields a room_closed notice so
// the client can return to idle.
func (uc *UseCases) HandleRejoinRoom(ctx context.Context, id types.IdentityID, roomID types.RoomID) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	room, err := uc.repo.Room().Get(ctx, roomID)
	if err != nil || !room.Has(id) {
		uc.notify(ctx, id, model.NewSystemMessageEvent(types.SystemRoomClosed))
		return nil
	}

	uc.notify(ctx, id, model.NewMatchFoundEvent(room, id))
	return nil
}
