package cache

import (
	"context"
	"time"
)

// Cache is the key/value contract used for read-through caching, permission
// lookups and login throttling. Values are JSON encoded.
type Cache interface {
	// Get reports whether key was found; on a hit the value is decoded into dest.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	DeletePattern(ctx context.Context, pattern string) error
	Ping(ctx context.Context) error

	// Counter helpers for attempt tracking.
	Increment(ctx context.Context, key string) (int64, error)
	Expire(ctx context.Context, key string, ttl time.Duration) error
	TTL(ctx context.Context, key string) (time.Duration, error)
}
