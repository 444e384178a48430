package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/enishi-chat/enishi/pkg/domain/interfaces"
	"github.com/enishi-chat/enishi/pkg/domain/model"
	"github.com/enishi-chat/enishi/pkg/domain/model/config"
	"github.com/enishi-chat/enishi/pkg/domain/types"
	"github.com/enishi-chat/enishi/pkg/service/scoring"
	"github.com/enishi-chat/enishi/pkg/utils/logging"
)

// UseCases is the single orchestration-state owner. Every pool, history,
// invitation, and room mutation runs under one mutex; the only suspension
// points are the external LLM calls, which execute outside the lock and
// re-validate state on resumption.
type UseCases struct {
	repo     interfaces.Repository
	channel  interfaces.Channel
	scorer   *scoring.Scorer
	matching *config.Matching

	embedder  interfaces.EmbeddingClient
	companion interfaces.Companion

	mu sync.Mutex
	// searchSeq invalidates embedding fetches that resume after a newer
	// search or a disconnect of the same identity
	searchSeq map[types.IdentityID]uint64
	// timers are keyed by entity ID, never by captured live references;
	// handlers re-check current state at fire time
	escalations map[types.RequestID]*time.Timer
	deadlines   map[types.InvitationID]*time.Timer
}

// Option is a functional option for UseCases configuration
type Option func(*UseCases)

// WithEmbedding enables embedding-based scoring. Without it the engine
// runs on the rule table alone.
func WithEmbedding(client interfaces.EmbeddingClient) Option {
	return func(uc *UseCases) {
		uc.embedder = client
	}
}

// WithCompanion enables pairing with an AI companion when escalation finds
// an empty pool
func WithCompanion(companion interfaces.Companion) Option {
	return func(uc *UseCases) {
		uc.companion = companion
	}
}

// WithMatching overrides the matching thresholds and timers
func WithMatching(cfg *config.Matching) Option {
	return func(uc *UseCases) {
		uc.matching = cfg
	}
}

// New creates the orchestrator
func New(repo interfaces.Repository, channel interfaces.Channel, scorer *scoring.Scorer, opts ...Option) *UseCases {
	uc := &UseCases{
		repo:        repo,
		channel:     channel,
		scorer:      scorer,
		matching:    config.DefaultMatching(),
		searchSeq:   make(map[types.IdentityID]uint64),
		escalations: make(map[types.RequestID]*time.Timer),
		deadlines:   make(map[types.InvitationID]*time.Timer),
	}

	for _, opt := range opts {
		opt(uc)
	}

	return uc
}

// notify delivers an event best effort; delivery failures are logged, never
// propagated into orchestration
func (uc *UseCases) notify(ctx context.Context, id types.IdentityID, event *model.Envelope) {
	if err := uc.channel.Send(ctx, id, event); err != nil {
		logging.From(ctx).Warn("failed to deliver event",
			"identity", id, "type", event.Type, "error", err)
	}
}

func (uc *UseCases) scheduleEscalation(reqID types.RequestID, identity types.IdentityID) {
	uc.escalations[reqID] = time.AfterFunc(uc.matching.EscalationDelay, func() {
		uc.escalate(context.Background(), reqID, identity)
	})
}

func (uc *UseCases) cancelEscalation(reqID types.RequestID) {
	if timer, exists := uc.escalations[reqID]; exists {
		timer.Stop()
		delete(uc.escalations, reqID)
	}
}

func (uc *UseCases) scheduleDeadline(invID types.InvitationID) {
	uc.deadlines[invID] = time.AfterFunc(uc.matching.InviteTTL, func() {
		uc.expireInvitation(context.Background(), invID)
	})
}

func (uc *UseCases) cancelDeadline(invID types.InvitationID) {
	if timer, exists := uc.deadlines[invID]; exists {
		timer.Stop()
		delete(uc.deadlines, invID)
	}
}
