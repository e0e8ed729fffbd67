package repository

import (
	"context"
	"time"
)

// StateStore abstracts ephemeral key-value state: revoked refresh-token JTIs,
// USSD session state, and per-IP rate-limit counters.
// Implementations: Redis (production) or in-memory (local dev / single instance).
type StateStore interface {
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)

	// Incr atomically increments a counter, starting its expiry window on
	// first increment, and returns the post-increment value.
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}
