package cache

import (
	"context"
	"sync"
	"time"
)

type entry[V any] struct {
	fetchedAt time.Time
	value     V
}

// Memory is a mutex-guarded in-process cache.
type Memory[V any] struct {
	mu         sync.Mutex
	name       string
	ttl        time.Duration
	maxEntries int
	clock      Clock
	metrics    *Metrics
	entries    map[string]entry[V]
}

// MemoryOption configures a Memory cache.
type MemoryOption func(*memoryOptions)

type memoryOptions struct {
	maxEntries int
	clock      Clock
	metrics    *Metrics
}

// WithMaxEntries caps the number of entries. When full, the entry with the
// oldest fetch time is evicted. Zero means unbounded.
func WithMaxEntries(n int) MemoryOption {
	return func(o *memoryOptions) {
		if n > 0 {
			o.maxEntries = n
		}
	}
}

// WithClock overrides time.Now.
func WithClock(clock Clock) MemoryOption {
	return func(o *memoryOptions) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// WithMetrics records hits and misses.
func WithMetrics(m *Metrics) MemoryOption {
	return func(o *memoryOptions) {
		o.metrics = m
	}
}

// NewMemory creates an in-memory cache named name (used as a metrics label).
func NewMemory[V any](name string, ttl time.Duration, opts ...MemoryOption) *Memory[V] {
	o := memoryOptions{clock: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return &Memory[V]{
		name:       name,
		ttl:        ttl,
		maxEntries: o.maxEntries,
		clock:      o.clock,
		metrics:    o.metrics,
		entries:    make(map[string]entry[V]),
	}
}

// Get returns the value if it was stored less than TTL ago.
func (m *Memory[V]) Get(_ context.Context, key string) (V, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok || !fresh(m.clock(), e.fetchedAt, m.ttl) {
		m.metrics.IncrementMiss(m.name)
		var zero V
		return zero, false, nil
	}
	m.metrics.IncrementHit(m.name)
	return e.value, true, nil
}

// Set stores value under key, overwriting any previous entry.
func (m *Memory[V]) Set(_ context.Context, key string, value V) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.entries[key]; !exists && m.maxEntries > 0 && len(m.entries) >= m.maxEntries {
		m.evictOldestLocked()
	}
	m.entries[key] = entry[V]{fetchedAt: m.clock(), value: value}
	return nil
}

// Len returns the number of stored entries, stale ones included.
func (m *Memory[V]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Health always succeeds for the in-process cache.
func (m *Memory[V]) Health(context.Context) error { return nil }

func (m *Memory[V]) evictOldestLocked() {
	var (
		oldestKey string
		oldestAt  time.Time
		found     bool
	)
	for k, e := range m.entries {
		if !found || e.fetchedAt.Before(oldestAt) {
			oldestKey, oldestAt, found = k, e.fetchedAt, true
		}
	}
	if found {
		delete(m.entries, oldestKey)
	}
}
