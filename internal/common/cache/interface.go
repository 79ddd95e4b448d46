package cache

import (
	"context"
	"time"
)

// Cache is the key-value store the CLI keeps judge reads in.
type Cache interface {
	// Get returns "" with a nil error on a miss.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key. A zero ttl never expires.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	Del(ctx context.Context, keys ...string) error

	// TTL returns -2 when the key does not exist.
	TTL(ctx context.Context, key string) (time.Duration, error)

	Ping(ctx context.Context) error
	Close() error
}
