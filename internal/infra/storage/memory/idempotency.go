package memory

import (
	"context"
	"sync"
	"time"

	"hotelbooking/internal/app/middleware"
)

// IdempotencyStore keeps replayable booking results for one process. Each
// entry expires ttl after it was saved, matching the Mongo store; expired
// entries are dropped on the next Save.
type IdempotencyStore struct {
	mu      sync.Mutex
	entries map[string]idempotencyEntry
	ttl     time.Duration
	now     func() time.Time
}

type idempotencyEntry struct {
	record    middleware.IdempotencyRecord
	expiresAt time.Time
}

// NewIdempotencyStore keeps entries forever when ttl is not positive.
func NewIdempotencyStore(ttl time.Duration) *IdempotencyStore {
	return &IdempotencyStore{entries: map[string]idempotencyEntry{}, ttl: ttl, now: time.Now}
}

func (s *IdempotencyStore) Get(_ context.Context, key string) (middleware.IdempotencyRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok || s.expired(e) {
		return middleware.IdempotencyRecord{}, false, nil
	}
	return e.record, true, nil
}

func (s *IdempotencyStore) Save(_ context.Context, rec middleware.IdempotencyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, e := range s.entries {
		if s.expired(e) {
			delete(s.entries, k)
		}
	}
	e := idempotencyEntry{record: rec}
	if s.ttl > 0 {
		e.expiresAt = s.now().Add(s.ttl)
	}
	s.entries[rec.Key] = e
	return nil
}

func (s *IdempotencyStore) expired(e idempotencyEntry) bool {
	return !e.expiresAt.IsZero() && !s.now().Before(e.expiresAt)
}

var _ middleware.IdempotencyStore = (*IdempotencyStore)(nil)
