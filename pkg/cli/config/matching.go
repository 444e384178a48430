package config

import (
	"log/slog"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	modelconfig "github.com/enishi-chat/enishi/pkg/domain/model/config"
)

// Matching holds CLI flags for the matchmaking thresholds and timers
type Matching struct {
	matchThreshold  float64
	recallThreshold float64
	escalationDelay time.Duration
	inviteTTL       time.Duration
	historyTTL      time.Duration
	historyLimit    int
}

// Flags returns CLI flags for matching configuration
func (m *Matching) Flags() []cli.Flag {
	defaults := modelconfig.DefaultMatching()

	return []cli.Flag{
		&cli.FloatFlag{
			Name:        "match-threshold",
			Usage:       "Minimum similarity score for pairing two waiting searchers",
			Value:       defaults.MatchThreshold,
			Sources:     cli.EnvVars("ENISHI_MATCH_THRESHOLD"),
			Destination: &m.matchThreshold,
		},
		&cli.FloatFlag{
			Name:        "recall-threshold",
			Usage:       "Minimum similarity score for inviting an idle user by history",
			Value:       defaults.RecallThreshold,
			Sources:     cli.EnvVars("ENISHI_RECALL_THRESHOLD"),
			Destination: &m.recallThreshold,
		},
		&cli.DurationFlag{
			Name:        "escalation-delay",
			Usage:       "How long a searcher waits before being force-paired",
			Value:       defaults.EscalationDelay,
			Sources:     cli.EnvVars("ENISHI_ESCALATION_DELAY"),
			Destination: &m.escalationDelay,
		},
		&cli.DurationFlag{
			Name:        "invite-ttl",
			Usage:       "Deadline for answering a recall invitation",
			Value:       defaults.InviteTTL,
			Sources:     cli.EnvVars("ENISHI_INVITE_TTL"),
			Destination: &m.inviteTTL,
		},
		&cli.DurationFlag{
			Name:        "history-ttl",
			Usage:       "How long a search topic stays eligible for recall",
			Value:       defaults.HistoryTTL,
			Sources:     cli.EnvVars("ENISHI_HISTORY_TTL"),
			Destination: &m.historyTTL,
		},
		&cli.IntFlag{
			Name:        "history-limit",
			Usage:       "Maximum recall topics kept per user",
			Value:       defaults.HistoryLimit,
			Sources:     cli.EnvVars("ENISHI_HISTORY_LIMIT"),
			Destination: &m.historyLimit,
		},
	}
}

// LogValue renders the configuration for startup logging
func (m *Matching) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Float64("match_threshold", m.matchThreshold),
		slog.Float64("recall_threshold", m.recallThreshold),
		slog.Duration("escalation_delay", m.escalationDelay),
		slog.Duration("invite_ttl", m.inviteTTL),
		slog.Duration("history_ttl", m.historyTTL),
		slog.Int("history_limit", m.historyLimit),
	)
}

// Configure validates the flags and builds the matching configuration
func (m *Matching) Configure() (*modelconfig.Matching, error) {
	cfg := &modelconfig.Matching{
		MatchThreshold:  m.matchThreshold,
		RecallThreshold: m.recallThreshold,
		EscalationDelay: m.escalationDelay,
		InviteTTL:       m.inviteTTL,
		HistoryTTL:      m.historyTTL,
		HistoryLimit:    m.historyLimit,
	}

	if err := cfg.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid matching configuration")
	}

	return cfg, nil
}
