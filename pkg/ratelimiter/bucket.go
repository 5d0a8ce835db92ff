package ratelimiter

import (
	"context"
	"fmt"
	"time"
)

// Store keeps bucket state per key.
type Store interface {
	// Take refills the bucket of key, removes n tokens and returns what is
	// left. A negative result means the request must be refused. n may be 0
	// to read the state.
	Take(ctx context.Context, key string, n int, cfg Config) (remaining int, resetAt time.Time, err error)
	Reset(ctx context.Context, key string) error
}

// Result is the outcome of one check.
type Result struct {
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// Allowed reports whether the request may proceed.
func (r Result) Allowed() bool {
	return r.Remaining >= 0
}

// RetryAfter is how long a refused client should wait; 0 when allowed.
func (r Result) RetryAfter() time.Duration {
	if r.Allowed() {
		return 0
	}
	return max(time.Until(r.ResetAt), 0)
}

// Bucket is a token bucket limiter over a Store.
type Bucket struct {
	store Store
	cfg   Config
}

func NewBucket(store Store, cfg Config) (*Bucket, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Bucket{store: store, cfg: cfg}, nil
}

// Allow spends one token of key.
func (b *Bucket) Allow(ctx context.Context, key string) (Result, error) {
	return b.AllowN(ctx, key, 1)
}

func (b *Bucket) AllowN(ctx context.Context, key string, n int) (Result, error) {
	if n <= 0 {
		return Result{}, fmt.Errorf("%w: must be positive, got %d", ErrInvalidTokenCount, n)
	}
	return b.take(ctx, key, n)
}

// Status returns the state of key without spending tokens.
func (b *Bucket) Status(ctx context.Context, key string) (Result, error) {
	return b.take(ctx, key, 0)
}

func (b *Bucket) Reset(ctx context.Context, key string) error {
	return b.store.Reset(ctx, key)
}

func (b *Bucket) take(ctx context.Context, key string, n int) (Result, error) {
	remaining, resetAt, err := b.store.Take(ctx, key, n, b.cfg)
	if err != nil {
		return Result{}, err
	}
	return Result{Limit: b.cfg.Capacity, Remaining: remaining, ResetAt: resetAt}, nil
}
