package worker_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/enishi-chat/enishi/pkg/domain/model"
	"github.com/enishi-chat/enishi/pkg/repository/memory"
	"github.com/enishi-chat/enishi/pkg/service/worker"
)

func TestHistoryPruneWorker(t *testing.T) {
	ctx := context.Background()
	repo := memory.New(memory.WithHistoryBounds(time.Minute, 5))

	gt.NoError(t, repo.History().Record(ctx, "stale-user", &model.HistoryEntry{
		Topic:      "old topic",
		RecordedAt: time.Now().UTC().Add(-2 * time.Minute),
	}))
	gt.NoError(t, repo.History().Record(ctx, "fresh-user", &model.HistoryEntry{
		Topic: "current topic",
	}))

	w := worker.NewHistoryPruneWorker(repo, 10*time.Millisecond)
	gt.NoError(t, w.Start(ctx))

	deadline := time.Now().Add(2 * time.Second)
	for {
		ids, err := repo.History().Identities(ctx)
		gt.NoError(t, err)
		if len(ids) == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("expired history was not pruned")
		}
		time.Sleep(5 * time.Millisecond)
	}

	w.Stop()

	entries, err := repo.History().List(ctx, "fresh-user")
	gt.NoError(t, err)
	gt.Array(t, entries).Length(1)
}
