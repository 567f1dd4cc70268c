package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

type redisEnvelope[V any] struct {
	FetchedAt time.Time `json:"fetched_at"`
	Value     V         `json:"value"`
}

// Redis is a cache backed by Redis. Values are JSON encoded together with
// their fetch time; the key also carries a Redis expiry equal to the TTL.
type Redis[V any] struct {
	client  redis.UniversalClient
	name    string
	prefix  string
	ttl     time.Duration
	clock   Clock
	metrics *Metrics
	logger  *slog.Logger
}

// RedisOption configures a Redis cache.
type RedisOption func(*redisOptions)

type redisOptions struct {
	clock   Clock
	metrics *Metrics
	logger  *slog.Logger
}

// WithRedisClock overrides time.Now for freshness checks.
func WithRedisClock(clock Clock) RedisOption {
	return func(o *redisOptions) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// WithRedisMetrics records hits and misses.
func WithRedisMetrics(m *Metrics) RedisOption {
	return func(o *redisOptions) {
		o.metrics = m
	}
}

// WithRedisLogger sets the logger used for backend failures.
func WithRedisLogger(logger *slog.Logger) RedisOption {
	return func(o *redisOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// NewRedis creates a Redis cache whose keys are prefixed with "herbcheck:<name>:".
func NewRedis[V any](client redis.UniversalClient, name string, ttl time.Duration, opts ...RedisOption) *Redis[V] {
	o := redisOptions{clock: time.Now, logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Redis[V]{
		client:  client,
		name:    name,
		prefix:  "herbcheck:" + name + ":",
		ttl:     ttl,
		clock:   o.clock,
		metrics: o.metrics,
		logger:  o.logger,
	}
}

// Get returns the value if it was stored less than TTL ago.
func (r *Redis[V]) Get(ctx context.Context, key string) (V, bool, error) {
	var zero V
	raw, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		r.metrics.IncrementMiss(r.name)
		return zero, false, nil
	}
	if err != nil {
		r.metrics.IncrementMiss(r.name)
		r.logger.WarnContext(ctx, "cache read failed", "cache", r.name, "key", key, "error", err)
		return zero, false, fmt.Errorf("redis get %s: %w", key, err)
	}

	var env redisEnvelope[V]
	if err := json.Unmarshal(raw, &env); err != nil {
		r.metrics.IncrementMiss(r.name)
		r.logger.WarnContext(ctx, "cache entry undecodable", "cache", r.name, "key", key, "error", err)
		return zero, false, fmt.Errorf("decode cache entry %s: %w", key, err)
	}
	if !fresh(r.clock(), env.FetchedAt, r.ttl) {
		r.metrics.IncrementMiss(r.name)
		return zero, false, nil
	}
	r.metrics.IncrementHit(r.name)
	return env.Value, true, nil
}

// Set stores value under key with the cache TTL as Redis expiry.
func (r *Redis[V]) Set(ctx context.Context, key string, value V) error {
	raw, err := json.Marshal(redisEnvelope[V]{FetchedAt: r.clock(), Value: value})
	if err != nil {
		return fmt.Errorf("encode cache entry %s: %w", key, err)
	}
	if err := r.client.Set(ctx, r.prefix+key, raw, r.ttl).Err(); err != nil {
		r.logger.WarnContext(ctx, "cache write failed", "cache", r.name, "key", key, "error", err)
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Health pings Redis.
func (r *Redis[V]) Health(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
