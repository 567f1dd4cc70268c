// Package cache provides the TTL-on-read caches used for environmental
// snapshots and regulatory requirement bundles.
//
// An entry is a hit only while now - fetchedAt < TTL. Stale entries are not
// evicted in the background; the next load simply overwrites them.
package cache

import (
	"context"
	"time"
)

// Cache stores values of type V by key.
type Cache[V any] interface {
	// Get returns the value and true on a fresh hit.
	Get(ctx context.Context, key string) (V, bool, error)
	Set(ctx context.Context, key string, value V) error
}

// Clock returns the current time.
type Clock func() time.Time

// Fetch returns the cached value for key, or calls load and stores the result.
// Cache failures degrade to a miss; the cache implementations log them.
func Fetch[V any](ctx context.Context, c Cache[V], key string, load func(context.Context) (V, error)) (V, bool, error) {
	if v, ok, err := c.Get(ctx, key); err == nil && ok {
		return v, true, nil
	}
	v, err := load(ctx)
	if err != nil {
		var zero V
		return zero, false, err
	}
	_ = c.Set(ctx, key, v)
	return v, false, nil
}

func fresh(now, fetchedAt time.Time, ttl time.Duration) bool {
	return now.Sub(fetchedAt) < ttl
}
