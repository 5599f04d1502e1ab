package port

import (
	"context"
	"time"
)

// Cache is the key-value contract used by the read paths.
// Implementations are safe for concurrent use and honour ctx cancellation.
type Cache interface {
	// Get returns ErrMiss when the key is absent.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value with ttl. A ttl <= 0 keeps the key until evicted.
	Set(ctx context.Context, key string, value string, ttl time.Duration) error

	// Del removes keys and returns how many existed.
	Del(ctx context.Context, keys ...string) (int64, error)

	Ping(ctx context.Context) error
	Close() error
}

// ErrMiss signals a cache miss, distinct from transport errors.
var ErrMiss = errMiss{}

type errMiss struct{}

func (e errMiss) Error() string { return "cache: miss" }
