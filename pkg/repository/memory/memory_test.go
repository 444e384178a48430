package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/enishi-chat/enishi/pkg/domain/model"
	"github.com/enishi-chat/enishi/pkg/domain/types"
	"github.com/enishi-chat/enishi/pkg/repository/memory"
)

func TestPoolUpsertSupersedes(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()

	first := model.NewSearchRequest("u1", "chess", nil)
	replaced, err := repo.Pool().Upsert(ctx, first)
	gt.NoError(t, err)
	gt.Value(t, replaced).Nil()

	second := model.NewSearchRequest("u1", "cooking", nil)
	replaced, err = repo.Pool().Upsert(ctx, second)
	gt.NoError(t, err)
	gt.Value(t, replaced).NotNil()
	gt.Value(t, replaced.ID).Equal(first.ID)

	// At most one entry per identity
	size, err := repo.Pool().Size(ctx)
	gt.NoError(t, err)
	gt.Number(t, size).Equal(1)

	got, err := repo.Pool().Get(ctx, "u1")
	gt.NoError(t, err)
	gt.String(t, got.Topic).Equal("cooking")
}

func TestPoolRemoveNotFound(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()

	_, err := repo.Pool().Remove(ctx, "ghost")
	gt.Value(t, err).NotNil()
	gt.Bool(t, errors.Is(err, memory.ErrNotFound)).True()
}

func TestPoolListEnqueueOrder(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()

	for _, id := range []types.IdentityID{"a", "b", "c"} {
		_, err := repo.Pool().Upsert(ctx, model.NewSearchRequest(id, "topic", nil))
		gt.NoError(t, err)
	}

	// Re-upserting "a" moves it to the back
	_, err := repo.Pool().Upsert(ctx, model.NewSearchRequest("a", "topic2", nil))
	gt.NoError(t, err)

	reqs, err := repo.Pool().List(ctx)
	gt.NoError(t, err)
	gt.Array(t, reqs).Length(3)
	gt.Value(t, reqs[0].Identity).Equal(types.IdentityID("b"))
	gt.Value(t, reqs[1].Identity).Equal(types.IdentityID("c"))
	gt.Value(t, reqs[2].Identity).Equal(types.IdentityID("a"))
}

func TestPoolCloneIsolation(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()

	req := model.NewSearchRequest("u1", "chess", []float32{1, 2, 3})
	_, err := repo.Pool().Upsert(ctx, req)
	gt.NoError(t, err)

	// Mutating the caller's copy must not leak into the stored entry
	req.Embedding[0] = 99

	got, err := repo.Pool().Get(ctx, "u1")
	gt.NoError(t, err)
	gt.Number(t, got.Embedding[0]).Equal(float32(1))
}

func TestHistoryCapAndDedupe(t *testing.T) {
	ctx := context.Background()
	repo := memory.New(memory.WithHistoryBounds(time.Hour, 3))

	topics := []string{"t1", "t2", "t3", "t4"}
	for _, topic := range topics {
		err := repo.History().Record(ctx, "u1", &model.HistoryEntry{Topic: topic})
		gt.NoError(t, err)
	}

	entries, err := repo.History().List(ctx, "u1")
	gt.NoError(t, err)
	gt.Array(t, entries).Length(3)
	// Newest first, oldest dropped
	gt.String(t, entries[0].Topic).Equal("t4")
	gt.String(t, entries[2].Topic).Equal("t2")

	// Recording an existing topic refreshes it instead of duplicating
	err = repo.History().Record(ctx, "u1", &model.HistoryEntry{Topic: "t2"})
	gt.NoError(t, err)

	entries, err = repo.History().List(ctx, "u1")
	gt.NoError(t, err)
	gt.Array(t, entries).Length(3)
	gt.String(t, entries[0].Topic).Equal("t2")
}

func TestHistoryExpiry(t *testing.T) {
	ctx := context.Background()
	repo := memory.New(memory.WithHistoryBounds(time.Minute, 5))

	err := repo.History().Record(ctx, "u1", &model.HistoryEntry{
		Topic:      "stale",
		RecordedAt: time.Now().UTC().Add(-2 * time.Minute),
	})
	gt.NoError(t, err)
	err = repo.History().Record(ctx, "u1", &model.HistoryEntry{Topic: "fresh"})
	gt.NoError(t, err)

	entries, err := repo.History().List(ctx, "u1")
	gt.NoError(t, err)
	gt.Array(t, entries).Length(1)
	gt.String(t, entries[0].Topic).Equal("fresh")
}

func TestHistoryPruneExpired(t *testing.T) {
	ctx := context.Background()
	repo := memory.New(memory.WithHistoryBounds(time.Minute, 5))

	err := repo.History().Record(ctx, "u1", &model.HistoryEntry{
		Topic:      "stale",
		RecordedAt: time.Now().UTC().Add(-2 * time.Minute),
	})
	gt.NoError(t, err)
	err = repo.History().Record(ctx, "u2", &model.HistoryEntry{Topic: "fresh"})
	gt.NoError(t, err)

	removed, err := repo.History().PruneExpired(ctx)
	gt.NoError(t, err)
	gt.Number(t, removed).Equal(1)

	// The identity with nothing left disappears from the index
	ids, err := repo.History().Identities(ctx)
	gt.NoError(t, err)
	gt.Array(t, ids).Length(1)
	gt.Value(t, ids[0]).Equal(types.IdentityID("u2"))
}

func TestInvitationPairReplace(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()

	req := model.NewSearchRequest("inviter", "chess", nil)
	first := model.NewInvitation("inviter", "invitee", "chess & chess", req, time.Minute)
	replaced, err := repo.Invitation().Put(ctx, first)
	gt.NoError(t, err)
	gt.Value(t, replaced).Nil()

	second := model.NewInvitation("inviter", "invitee", "go & chess", req, time.Minute)
	replaced, err = repo.Invitation().Put(ctx, second)
	gt.NoError(t, err)
	gt.Value(t, replaced).NotNil()
	gt.Value(t, replaced.ID).Equal(first.ID)

	// The superseded invitation is gone
	_, err = repo.Invitation().Get(ctx, first.ID)
	gt.Bool(t, errors.Is(err, memory.ErrNotFound)).True()

	got, err := repo.Invitation().GetPending(ctx, "inviter", "invitee")
	gt.NoError(t, err)
	gt.Value(t, got.ID).Equal(second.ID)
}

func TestInvitationResolve(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()

	req := model.NewSearchRequest("inviter", "chess", nil)
	inv := model.NewInvitation("inviter", "invitee", "chess", req, time.Minute)
	_, err := repo.Invitation().Put(ctx, inv)
	gt.NoError(t, err)

	resolved, err := repo.Invitation().Resolve(ctx, inv.ID, types.InvitationDeclined)
	gt.NoError(t, err)
	gt.Value(t, resolved.Status).Equal(types.InvitationDeclined)
	gt.Value(t, resolved.Request).NotNil()
	gt.String(t, resolved.Request.Topic).Equal("chess")

	// Resolving twice fails; the record is gone
	_, err = repo.Invitation().Resolve(ctx, inv.ID, types.InvitationExpired)
	gt.Bool(t, errors.Is(err, memory.ErrNotFound)).True()

	// A pending status is not a valid resolution
	other := model.NewInvitation("inviter", "someone", "chess", req, time.Minute)
	_, err = repo.Invitation().Put(ctx, other)
	gt.NoError(t, err)
	_, err = repo.Invitation().Resolve(ctx, other.ID, types.InvitationPending)
	gt.Value(t, err).NotNil()
}

func TestInvitationListByIdentity(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()

	req := model.NewSearchRequest("a", "chess", nil)
	_, err := repo.Invitation().Put(ctx, model.NewInvitation("a", "b", "chess", req, time.Minute))
	gt.NoError(t, err)
	_, err = repo.Invitation().Put(ctx, model.NewInvitation("c", "a", "go", model.NewSearchRequest("c", "go", nil), time.Minute))
	gt.NoError(t, err)
	_, err = repo.Invitation().Put(ctx, model.NewInvitation("c", "d", "go", model.NewSearchRequest("c", "go", nil), time.Minute))
	gt.NoError(t, err)

	invs, err := repo.Invitation().ListByIdentity(ctx, "a")
	gt.NoError(t, err)
	gt.Array(t, invs).Length(2)
}

func TestInvitationRejectsSelfPair(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()

	req := model.NewSearchRequest("a", "chess", nil)
	_, err := repo.Invitation().Put(ctx, model.NewInvitation("a", "a", "chess", req, time.Minute))
	gt.Value(t, err).NotNil()
}

func TestRoomLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()

	room, err := repo.Room().Create(ctx, model.NewRoom("a", "b", "chess & go"))
	gt.NoError(t, err)
	gt.Value(t, room).NotNil()

	got, err := repo.Room().Get(ctx, room.ID)
	gt.NoError(t, err)
	gt.Bool(t, got.Has("a")).True()
	gt.Bool(t, got.Has("b")).True()
	gt.Bool(t, got.Has("c")).False()

	byMember, err := repo.Room().FindByParticipant(ctx, "b")
	gt.NoError(t, err)
	gt.Value(t, byMember.ID).Equal(room.ID)

	size, err := repo.Room().Size(ctx)
	gt.NoError(t, err)
	gt.Number(t, size).Equal(1)

	gt.NoError(t, repo.Room().Delete(ctx, room.ID))

	_, err = repo.Room().Get(ctx, room.ID)
	gt.Bool(t, errors.Is(err, memory.ErrNotFound)).True()
	_, err = repo.Room().FindByParticipant(ctx, "a")
	gt.Bool(t, errors.Is(err, memory.ErrNotFound)).True()
}

func TestRoomRejectsSelfPair(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()

	_, err := repo.Room().Create(ctx, model.NewRoom("a", "a", "chess"))
	gt.Value(t, err).NotNil()
}
