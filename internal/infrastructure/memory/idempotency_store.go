package memory

import (
	"context"
	"sync"
	"time"
)

type idempotencyEntry struct {
	orderID   string
	expiresAt time.Time
}

// IdempotencyStore is the single process stand-in for the Redis store. An
// entry with an empty orderID is a held lock.
type IdempotencyStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]idempotencyEntry
	now     func() time.Time
}

func NewIdempotencyStore(ttl time.Duration) *IdempotencyStore {
	return &IdempotencyStore{
		ttl:     ttl,
		entries: make(map[string]idempotencyEntry),
		now:     time.Now,
	}
}

func (s *IdempotencyStore) TryLock(ctx context.Context, scope, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := scope + ":" + key
	if entry, ok := s.entries[k]; ok && s.now().Before(entry.expiresAt) {
		return false, nil
	}
	s.entries[k] = idempotencyEntry{expiresAt: s.now().Add(s.ttl)}
	return true, nil
}

func (s *IdempotencyStore) Release(ctx context.Context, scope, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := scope + ":" + key
	if entry, ok := s.entries[k]; ok && entry.orderID == "" {
		delete(s.entries, k)
	}
	return nil
}

func (s *IdempotencyStore) Remember(ctx context.Context, scope, key, orderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[scope+":"+key] = idempotencyEntry{orderID: orderID, expiresAt: s.now().Add(s.ttl)}
	return nil
}

func (s *IdempotencyStore) Recall(ctx context.Context, scope, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[scope+":"+key]
	if !ok || entry.orderID == "" || !s.now().Before(entry.expiresAt) {
		return "", false, nil
	}
	return entry.orderID, true, nil
}
