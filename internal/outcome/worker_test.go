package outcome

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"herbcheck/internal/outcome/metrics"
)

type recordingSink struct {
	mu     sync.Mutex
	events []Event
	err    error
}

func (s *recordingSink) Publish(_ context.Context, e Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.events = append(s.events, e)
	return nil
}

func (s *recordingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

func TestWorker_PublishesQueuedEvents(t *testing.T) {
	sink := &recordingSink{}
	m := metrics.NewWithRegisterer(prometheus.NewRegistry())
	w := NewWorker(sink, 8, WithMetrics(m))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	require.True(t, w.Enqueue(outcomeFor("evt-1")))
	require.True(t, w.Enqueue(outcomeFor("evt-2")))

	assert.Eventually(t, func() bool { return sink.count() == 2 }, time.Second, 5*time.Millisecond)
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Published))
	assert.False(t, w.Enqueue(outcomeFor("evt-3")), "stopped worker rejects events")
}

func TestWorker_DropsWhenFull(t *testing.T) {
	m := metrics.NewWithRegisterer(prometheus.NewRegistry())
	w := NewWorker(&recordingSink{}, 1, WithMetrics(m))

	assert.True(t, w.Enqueue(outcomeFor("a")))
	assert.False(t, w.Enqueue(outcomeFor("b")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Dropped))
}

func TestWorker_SinkFailureIsCounted(t *testing.T) {
	sink := &recordingSink{err: errors.New("broker down")}
	m := metrics.NewWithRegisterer(prometheus.NewRegistry())
	w := NewWorker(sink, 4, WithMetrics(m))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Run(ctx) }()

	require.True(t, w.Enqueue(outcomeFor("evt-1")))
	assert.Eventually(t, func() bool { return testutil.ToFloat64(m.Failed) == 1 }, time.Second, 5*time.Millisecond)
}

func TestWorker_DrainsOnShutdown(t *testing.T) {
	sink := &recordingSink{}
	w := NewWorker(sink, 4)
	require.True(t, w.Enqueue(outcomeFor("a")))
	require.True(t, w.Enqueue(outcomeFor("b")))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = w.Run(ctx)

	assert.Equal(t, 2, sink.count())
}
