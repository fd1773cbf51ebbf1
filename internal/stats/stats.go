// Package stats accumulates session statistics across application runs.
package stats

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/stillpoint/breathbox/internal/store"
)

// storageKey is the key-value entry holding the serialized Stats.
const storageKey = "stats"

// Stats holds the durable aggregate counters.
type Stats struct {
	Sessions    int `json:"sessions"`
	TotalCycles int `json:"totalCycles"`
}

// Store reads and updates persisted Stats. Commits are serialized so that the
// persisted value always reflects the last committed update.
type Store struct {
	mu sync.Mutex
	kv *store.KV
}

// NewStore creates a stats store on top of the key-value layer.
func NewStore(kv *store.KV) *Store {
	return &Store{kv: kv}
}

// Load returns the persisted Stats. A missing or malformed value falls back
// to zero-valued Stats and is never surfaced as an error.
func (s *Store) Load() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

func (s *Store) loadLocked() Stats {
	raw, ok, err := s.kv.Get(storageKey)
	if err != nil {
		slog.Debug("failed to read stats, using defaults", "error", err)
		return Stats{}
	}
	if !ok {
		return Stats{}
	}

	var stats Stats
	if err := json.Unmarshal([]byte(raw), &stats); err != nil {
		slog.Debug("malformed stats value, using defaults", "error", err)
		return Stats{}
	}
	return stats
}

// Commit adds the deltas to the persisted Stats and writes the result back
// synchronously. It returns the updated Stats.
func (s *Store) Commit(sessionsDelta, cyclesDelta int) (Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := s.loadLocked()
	stats.Sessions += sessionsDelta
	stats.TotalCycles += cyclesDelta

	raw, err := json.Marshal(stats)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to serialize stats: %w", err)
	}
	if err := s.kv.Set(storageKey, string(raw)); err != nil {
		return Stats{}, fmt.Errorf("failed to persist stats: %w", err)
	}

	return stats, nil
}
