package ratelimiter

import (
	"context"
	"sync"
	"time"
)

// staleAfter is how long an untouched bucket is kept. Buckets this old are
// full again anyway.
const staleAfter = time.Hour

type bucketState struct {
	tokens     int
	refilledAt time.Time
	touchedAt  time.Time
}

// MemoryStore keeps buckets in process memory. Stale buckets are swept
// lazily, at most once per sweepEvery.
type MemoryStore struct {
	mu         sync.Mutex
	buckets    map[string]*bucketState
	sweepEvery time.Duration
	sweptAt    time.Time
	now        func() time.Time
}

type MemoryStoreOption func(*MemoryStore)

// WithSweepInterval sets how often stale buckets are removed. Defaults to
// five minutes.
func WithSweepInterval(d time.Duration) MemoryStoreOption {
	return func(s *MemoryStore) {
		if d > 0 {
			s.sweepEvery = d
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) MemoryStoreOption {
	return func(s *MemoryStore) {
		if now != nil {
			s.now = now
		}
	}
}

func NewMemoryStore(opts ...MemoryStoreOption) *MemoryStore {
	s := &MemoryStore{
		buckets:    make(map[string]*bucketState),
		sweepEvery: 5 * time.Minute,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.sweptAt = s.now()
	return s
}

func (s *MemoryStore) Take(_ context.Context, key string, n int, cfg Config) (int, time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweep(now)

	b, ok := s.buckets[key]
	if !ok {
		b = &bucketState{tokens: cfg.Capacity, refilledAt: now}
		s.buckets[key] = b
	}

	// Whole intervals only; the partial one carries over to the next call.
	if intervals := now.Sub(b.refilledAt) / cfg.RefillInterval; intervals > 0 {
		// Capped so the multiplication cannot overflow.
		full := time.Duration(cfg.Capacity/cfg.RefillRate + 1)
		b.tokens = min(b.tokens+int(min(intervals, full))*cfg.RefillRate, cfg.Capacity)
		b.refilledAt = b.refilledAt.Add(intervals * cfg.RefillInterval)
	}

	// A refused request does not spend tokens, so a hammering client is
	// readmitted as soon as the bucket refills.
	remaining := b.tokens - n
	if remaining >= 0 {
		b.tokens = remaining
	}
	b.touchedAt = now

	return remaining, b.refilledAt.Add(cfg.RefillInterval), nil
}

func (s *MemoryStore) Reset(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.buckets, key)
	return nil
}

// Len returns the number of tracked keys.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.buckets)
}

func (s *MemoryStore) sweep(now time.Time) {
	if now.Sub(s.sweptAt) < s.sweepEvery {
		return
	}
	s.sweptAt = now
	for key, b := range s.buckets {
		if now.Sub(b.touchedAt) > staleAfter {
			delete(s.buckets, key)
		}
	}
}
