package model

import (
	"time"
)

// HistoryEntry is one past topic of an identity, kept for recall matching.
// Entries live in a newest-first list per identity, capped in length and
// expired by TTL; no two entries share a topic within the TTL window.
type HistoryEntry struct {
	Topic      string
	Embedding  []float32
	RecordedAt time.Time
}

// Clone creates a deep copy of the history entry
func (e *HistoryEntry) Clone() *HistoryEntry {
	copied := &HistoryEntry{
		Topic:      e.Topic,
		RecordedAt: e.RecordedAt,
	}
	if e.Embedding != nil {
		copied.Embedding = make([]float32, len(e.Embedding))
		copy(copied.Embedding, e.Embedding)
	}
	return copied
}

// Expired reports whether the entry is older than ttl at the given time
func (e *HistoryEntry) Expired(now time.Time, ttl time.Duration) bool {
	return now.Sub(e.RecordedAt) >= ttl
}
