package worker

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/enishi-chat/enishi/pkg/domain/interfaces"
	"github.com/enishi-chat/enishi/pkg/utils/logging"
)

// HistoryPruneWorker periodically drops expired history entries so an idle
// server does not accumulate dead recall state.
//
// Architecture assumptions:
// - Single server instance (no distributed locking)
type HistoryPruneWorker struct {
	repo     interfaces.Repository
	interval time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewHistoryPruneWorker creates a worker pruning expired history entries
func NewHistoryPruneWorker(repo interfaces.Repository, interval time.Duration) *HistoryPruneWorker {
	return &HistoryPruneWorker{
		repo:     repo,
		interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background prune loop. It does not block server startup.
func (w *HistoryPruneWorker) Start(ctx context.Context) error {
	logging.Default().Info("History prune worker starting",
		"interval", w.interval.String())

	go w.run(ctx)

	return nil
}

// Stop signals the worker to stop and waits for completion
func (w *HistoryPruneWorker) Stop() {
	close(w.stopCh)
	<-w.doneCh
	logging.Default().Info("History prune worker stopped")
}

// run is the main worker loop (runs in goroutine)
func (w *HistoryPruneWorker) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := w.prune(ctx); err != nil {
				// Log error but continue worker
				logging.Default().Error("History prune failed (will retry next interval)",
					"error", err.Error())
			}

		case <-w.stopCh:
			return

		case <-ctx.Done():
			logging.Default().Info("History prune worker context cancelled")
			return
		}
	}
}

// prune performs a single prune cycle
func (w *HistoryPruneWorker) prune(ctx context.Context) error {
	removed, err := w.repo.History().PruneExpired(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to prune expired history")
	}

	if removed > 0 {
		logging.Default().Info("Pruned expired history entries", "removed", removed)
	}

	return nil
}
