// Package idempotency provides the stores behind ports.IdempotencyStore: a
// redis-backed one for multi-process deployments and an in-memory one for
// tests and single-process runs. NewStore picks between them from config.
package idempotency

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	outcome   string
	expiresAt time.Time
}

// MemoryStore is a process-local idempotency store. Safe for concurrent use.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry)}
}

// MarkProcessed records the key and its outcome unless a live entry exists.
func (s *MemoryStore) MarkProcessed(_ context.Context, key, outcome string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if entry, ok := s.entries[key]; ok && now.Before(entry.expiresAt) {
		return false, nil
	}

	s.entries[key] = memoryEntry{outcome: outcome, expiresAt: now.Add(ttl)}
	return true, nil
}

// ProcessedOutcome returns the outcome recorded for the key, if it is still live.
func (s *MemoryStore) ProcessedOutcome(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok {
		return "", false, nil
	}
	if !time.Now().Before(entry.expiresAt) {
		delete(s.entries, key)
		return "", false, nil
	}
	return entry.outcome, true, nil
}
