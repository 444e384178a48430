package config

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
)

// Matching holds the thresholds and timers of the matchmaking engine
type Matching struct {
	// MatchThreshold is the minimum score for pairing two live pool members
	MatchThreshold float64
	// RecallThreshold is the minimum score for inviting an idle identity
	// based on its history. Stricter than MatchThreshold to avoid noisy
	// recalls.
	RecallThreshold float64
	// EscalationDelay is how long a request waits in the pool before the
	// threshold is dropped to zero
	EscalationDelay time.Duration
	// InviteTTL is the deadline for answering a recall invitation
	InviteTTL time.Duration
	// HistoryTTL is how long a history entry stays eligible for recall
	HistoryTTL time.Duration
	// HistoryLimit caps the number of history entries kept per identity
	HistoryLimit int
}

// DefaultMatching returns the production defaults
func DefaultMatching() *Matching {
	return &Matching{
		MatchThreshold:  0.5,
		RecallThreshold: 0.6,
		EscalationDelay: 8 * time.Second,
		InviteTTL:       15 * time.Second,
		HistoryTTL:      12 * time.Hour,
		HistoryLimit:    5,
	}
}

// Validate checks if the matching configuration is consistent
func (m *Matching) Validate() error {
	if m.MatchThreshold < 0 || m.MatchThreshold > 1 {
		return goerr.New("match threshold must be in [0,1]", goerr.V("value", m.MatchThreshold))
	}
	if m.RecallThreshold < m.MatchThreshold || m.RecallThreshold > 1 {
		return goerr.New("recall threshold must be in [match threshold, 1]",
			goerr.V("recall", m.RecallThreshold), goerr.V("match", m.MatchThreshold))
	}
	if m.EscalationDelay <= 0 {
		return goerr.New("escalation delay must be positive")
	}
	if m.InviteTTL <= 0 {
		return goerr.New("invite TTL must be positive")
	}
	if m.HistoryTTL <= 0 {
		return goerr.New("history TTL must be positive")
	}
	if m.HistoryLimit < 1 {
		return goerr.New("history limit must be at least 1", goerr.V("value", m.HistoryLimit))
	}
	return nil
}
