package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m-mizutani/goerr/v2"

	"github.com/enishi-chat/enishi/pkg/domain/model"
	"github.com/enishi-chat/enishi/pkg/domain/types"
	"github.com/enishi-chat/enishi/pkg/repository/memory"
	"github.com/enishi-chat/enishi/pkg/utils/logging"
)

// HandleSearch runs the full matching pipeline for one search request:
// live pool scan, historical recall, then enqueue with escalation.
func (uc *UseCases) HandleSearch(ctx context.Context, identity types.IdentityID, rawTopic string) error {
	if err := identity.Validate(); err != nil {
		return goerr.Wrap(err, "invalid identity")
	}
	if identity.IsCompanion() {
		return goerr.New("companion identities cannot search", goerr.V("identity", identity))
	}

	topic := strings.TrimSpace(rawTopic)
	if topic == "" {
		topic = DefaultTopic
	}

	uc.mu.Lock()
	uc.searchSeq[identity]++
	seq := uc.searchSeq[identity]
	uc.mu.Unlock()

	// Suspension point: the embedding call runs outside the lock and other
	// events may interleave
	vec := uc.fetchEmbedding(ctx, topic)

	uc.mu.Lock()
	defer uc.mu.Unlock()

	// Re-validate on resumption; a newer search or a disconnect makes this
	// result stale and it is discarded as a no-op
	if uc.searchSeq[identity] != seq || !uc.channel.IsOnline(identity) {
		logging.From(ctx).Debug("discarding stale search", "identity", identity, "topic", topic)
		return nil
	}

	// A fresh search abandons the current room and withdraws any
	// outstanding recall invitation of this identity
	uc.leaveCurrentRoom(ctx, identity)
	uc.withdrawInvitations(ctx, identity)

	if err := uc.repo.History().Record(ctx, identity, &model.HistoryEntry{
		Topic:     topic,
		Embedding: vec,
	}); err != nil {
		return goerr.Wrap(err, "failed to record search history")
	}

	req := model.NewSearchRequest(identity, topic, vec)

	// 1. Immediate partner among live pool members
	reqs, err := uc.repo.Pool().List(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to list waiting pool")
	}
	if cand, score := uc.scorer.BestMatch(reqs, topic, vec, identity, uc.matching.MatchThreshold); cand != nil {
		logging.From(ctx).Info("live match",
			"identity", identity, "partner", cand.Identity, "score", score)
		return uc.commitMatch(ctx, req, cand)
	}

	// 2. Historical recall of a currently idle identity
	if invited, err := uc.tryRecall(ctx, req); err != nil {
		return err
	} else if invited {
		return nil
	}

	// 3. Enqueue and wait for escalation
	return uc.enqueue(ctx, req, true)
}

// fetchEmbedding produces a topic vector, degrading silently to nil when
// the embedding service is absent or failing
func (uc *UseCases) fetchEmbedding(ctx context.Context, topic string) []float32 {
	if uc.embedder == nil {
		return nil
	}

	vec, err := uc.embedder.Embed(ctx, topic)
	if err != nil {
		logging.From(ctx).Warn("embedding unavailable, falling back to rule-only scoring",
			"topic", topic, "error", err)
		return nil
	}

	return vec
}

// commitMatch pairs the searcher with a pooled candidate. Both parties
// leave the pool within this locked step.
func (uc *UseCases) commitMatch(ctx context.Context, req, cand *model.SearchRequest) error {
	if _, err := uc.repo.Pool().Remove(ctx, cand.Identity); err != nil {
		if errors.Is(err, memory.ErrNotFound) {
			// Stale counterpart: retry via the normal queue path
			return uc.enqueue(ctx, req, true)
		}
		return goerr.Wrap(err, "failed to remove matched candidate from pool")
	}
	uc.cancelEscalation(cand.ID)

	// The searcher may itself be pooled when escalation committed the match
	if pooled, err := uc.repo.Pool().Remove(ctx, req.Identity); err == nil {
		uc.cancelEscalation(pooled.ID)
	}

	info := fmt.Sprintf("%s & %s", req.Topic, cand.Topic)
	return uc.createRoom(ctx, req.Identity, cand.Identity, info)
}

// tryRecall scans the history of currently idle identities and issues an
// invitation to the best candidate at or above the recall threshold. The
// inviter's request is parked on the invitation, not pooled.
func (uc *UseCases) tryRecall(ctx context.Context, req *model.SearchRequest) (bool, error) {
	ids, err := uc.repo.History().Identities(ctx)
	if err != nil {
		return false, goerr.Wrap(err, "failed to list history identities")
	}

	var invitee types.IdentityID
	var matched *model.HistoryEntry
	bestScore := -1.0

	for _, id := range ids {
		if id == req.Identity {
			continue
		}
		// An identity that is IN_ROOM or QUEUEING is never a recall target
		if !uc.isIdle(ctx, id) {
			continue
		}

		entries, err := uc.repo.History().List(ctx, id)
		if err != nil {
			return false, goerr.Wrap(err, "failed to list history", goerr.V("identity", id))
		}

		entry, score, ok := uc.scorer.BestHistorical(req.Topic, req.Embedding, entries, uc.matching.RecallThreshold)
		if ok && score > bestScore {
			bestScore = score
			invitee = id
			matched = entry
		}
	}

	if invitee == "" {
		return false, nil
	}

	info := fmt.Sprintf("%s & %s", req.Topic, matched.Topic)
	inv := model.NewInvitation(req.Identity, invitee, info, req, uc.matching.InviteTTL)

	replaced, err := uc.repo.Invitation().Put(ctx, inv)
	if err != nil {
		return false, goerr.Wrap(err, "failed to store invitation")
	}
	if replaced != nil {
		uc.cancelDeadline(replaced.ID)
	}
	uc.scheduleDeadline(inv.ID)

	uc.notify(ctx, invitee, model.NewMatchInviteEvent(inv))
	uc.notify(ctx, req.Identity, model.NewWaitingForInviteEvent())

	logging.From(ctx).Info("recall invitation issued",
		"inviter", req.Identity, "invitee", invitee, "score", bestScore)

	return true, nil
}

// enqueue adds the request to the waiting pool and schedules escalation
func (uc *UseCases) enqueue(ctx context.Context, req *model.SearchRequest, announce bool) error {
	replaced, err := uc.repo.Pool().Upsert(ctx, req)
	if err != nil {
		return goerr.Wrap(err, "failed to enqueue search request")
	}
	if replaced != nil {
		uc.cancelEscalation(replaced.ID)
	}

	uc.scheduleEscalation(req.ID, req.Identity)

	if announce {
		uc.notify(ctx, req.Identity, model.NewWaitingInQueueEvent(req.Topic))
	}

	return nil
}

// escalate fires after EscalationDelay: if the request is still pooled, it
// is force-paired with the best remaining pool member regardless of score.
// Firing on an already-resolved request is a safe no-op.
func (uc *UseCases) escalate(ctx context.Context, reqID types.RequestID, identity types.IdentityID) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	delete(uc.escalations, reqID)

	req, err := uc.repo.Pool().Get(ctx, identity)
	if err != nil || req.ID != reqID {
		return
	}

	reqs, err := uc.repo.Pool().List(ctx)
	if err != nil {
		logging.From(ctx).Error("escalation failed to list pool", "error", err)
		return
	}

	if cand, score := uc.scorer.BestMatch(reqs, req.Topic, req.Embedding, identity, 0); cand != nil {
		logging.From(ctx).Info("escalated match",
			"identity", identity, "partner", cand.Identity, "score", score)
		if err := uc.commitMatch(ctx, req, cand); err != nil {
			logging.From(ctx).Error("escalated match failed", "error", err)
		}
		return
	}

	// Pool is empty besides the searcher
	if uc.companion != nil {
		uc.pairWithCompanion(ctx, req)
		return
	}

	// Remain queued; the next arrival triggers a fresh top-of-pool scan
	uc.notify(ctx, identity, model.NewSystemMessageEvent(types.SystemSearchingContinues))
}
