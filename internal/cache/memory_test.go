package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 10, 1, 12, 0, 0, 0, time.UTC)}
}

func TestMemory_TTLOnRead(t *testing.T) {
	ctx := context.Background()
	clock := newClock()
	c := NewMemory[string]("snapshots", time.Hour, WithClock(clock.Now))

	require.NoError(t, c.Set(ctx, "k", "v1"))

	v, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v1", v)

	clock.Advance(59 * time.Minute)
	_, ok, _ = c.Get(ctx, "k")
	assert.True(t, ok, "entry younger than TTL is a hit")

	clock.Advance(time.Minute)
	_, ok, _ = c.Get(ctx, "k")
	assert.False(t, ok, "entry exactly TTL old is stale")
	assert.Equal(t, 1, c.Len(), "stale entries are not evicted in the background")

	require.NoError(t, c.Set(ctx, "k", "v2"))
	v, ok, _ = c.Get(ctx, "k")
	assert.True(t, ok)
	assert.Equal(t, "v2", v)
}

func TestMemory_MaxEntriesEvictsOldest(t *testing.T) {
	ctx := context.Background()
	clock := newClock()
	c := NewMemory[int]("requirements", time.Hour, WithClock(clock.Now), WithMaxEntries(2))

	require.NoError(t, c.Set(ctx, "a", 1))
	clock.Advance(time.Second)
	require.NoError(t, c.Set(ctx, "b", 2))
	clock.Advance(time.Second)
	require.NoError(t, c.Set(ctx, "c", 3))

	assert.Equal(t, 2, c.Len())
	_, ok, _ := c.Get(ctx, "a")
	assert.False(t, ok)
	_, ok, _ = c.Get(ctx, "c")
	assert.True(t, ok)

	// overwriting an existing key never evicts
	require.NoError(t, c.Set(ctx, "c", 4))
	assert.Equal(t, 2, c.Len())
}

func TestMemory_Metrics(t *testing.T) {
	ctx := context.Background()
	m := NewMetrics(prometheus.NewRegistry())
	c := NewMemory[int]("snapshots", time.Hour, WithMetrics(m))

	_, _, _ = c.Get(ctx, "missing")
	_ = c.Set(ctx, "k", 1)
	_, _, _ = c.Get(ctx, "k")
	_, _, _ = c.Get(ctx, "k")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Misses.WithLabelValues("snapshots")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Hits.WithLabelValues("snapshots")))
}

func TestMemory_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	c := NewMemory[int]("snapshots", time.Hour, WithMaxEntries(16))

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("k%d", i%20)
			_ = c.Set(ctx, key, i)
			_, _, _ = c.Get(ctx, key)
		}(i)
	}
	wg.Wait()
	assert.LessOrEqual(t, c.Len(), 16)
}

func TestFetch(t *testing.T) {
	ctx := context.Background()
	c := NewMemory[string]("requirements", time.Hour)
	calls := 0
	load := func(context.Context) (string, error) {
		calls++
		return "bundle", nil
	}

	v, hit, err := Fetch(ctx, c, "tulsi_central", load)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, "bundle", v)

	v, hit, err = Fetch(ctx, c, "tulsi_central", load)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "bundle", v)
	assert.Equal(t, 1, calls)
}

func TestFetch_LoadErrorNotCached(t *testing.T) {
	ctx := context.Background()
	c := NewMemory[string]("requirements", time.Hour)
	boom := errors.New("boom")

	_, _, err := Fetch(ctx, c, "k", func(context.Context) (string, error) { return "", boom })
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, c.Len())
}
