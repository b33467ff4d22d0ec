// Package cache provides the key/value stores behind the video view cache.
package cache

import (
	"context"
	"time"
)

// Store is a byte-oriented cache with glob-pattern eviction.
// Patterns follow redis MATCH syntax (`*`, `?`, `[...]`).
type Store interface {
	// Get reports a miss with ok == false and a nil error.
	Get(ctx context.Context, key string) (val []byte, ok bool, err error)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
	// Evict removes every key matching pattern and returns how many were removed.
	Evict(ctx context.Context, pattern string) (int64, error)
	// EvictAll removes the whole namespace, i.e. every key under `namespace:`.
	EvictAll(ctx context.Context, namespace string) (int64, error)

	// Generation reads an invalidation counter; an absent counter is 0.
	Generation(ctx context.Context, genKey string) (int64, error)
	// Bump increments an invalidation counter.
	Bump(ctx context.Context, genKey string) error
	// SetIfGeneration stores val only while genKey still holds gen.
	// The check and the write are atomic with respect to Bump.
	SetIfGeneration(ctx context.Context, key string, val []byte, ttl time.Duration, genKey string, gen int64) (bool, error)
}

func namespacePattern(namespace string) string {
	return namespace + ":*"
}
