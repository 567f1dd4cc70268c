package outcome

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"herbcheck/internal/outcome/metrics"
)

// DefaultBufferSize is the worker queue length when none is configured.
const DefaultBufferSize = 256

// Worker decouples validation from publishing: Enqueue never blocks, and a
// single goroutine drains the queue into the sink. Sink failures are logged
// and counted, never surfaced to the validation caller.
type Worker struct {
	sink    Sink
	inbox   chan Event
	logger  *slog.Logger
	metrics *metrics.Metrics
	timeout time.Duration

	closeOnce sync.Once
	done      chan struct{}
}

type WorkerOption func(*Worker)

func WithLogger(logger *slog.Logger) WorkerOption {
	return func(w *Worker) {
		if logger != nil {
			w.logger = logger
		}
	}
}

func WithMetrics(m *metrics.Metrics) WorkerOption {
	return func(w *Worker) {
		w.metrics = m
	}
}

// WithPublishTimeout bounds each sink call.
func WithPublishTimeout(d time.Duration) WorkerOption {
	return func(w *Worker) {
		if d > 0 {
			w.timeout = d
		}
	}
}

func NewWorker(sink Sink, bufferSize int, opts ...WorkerOption) *Worker {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	w := &Worker{
		sink:    sink,
		inbox:   make(chan Event, bufferSize),
		logger:  slog.Default(),
		timeout: 10 * time.Second,
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Enqueue queues event for publishing. It reports false and drops the event
// when the queue is full or the worker has stopped.
func (w *Worker) Enqueue(event Event) bool {
	select {
	case <-w.done:
		return false
	default:
	}
	select {
	case w.inbox <- event:
		w.metrics.SetQueueDepth(len(w.inbox))
		return true
	default:
		w.metrics.IncDropped()
		w.logger.Warn("outcome queue full, dropping event", "event_id", event.EventID)
		return false
	}
}

// Run publishes queued events until ctx is cancelled, then drains what is
// already queued and returns.
func (w *Worker) Run(ctx context.Context) error {
	defer w.closeOnce.Do(func() { close(w.done) })
	for {
		select {
		case <-ctx.Done():
			w.drain()
			return ctx.Err()
		case event := <-w.inbox:
			w.publish(ctx, event)
		}
	}
}

func (w *Worker) drain() {
	for {
		select {
		case event := <-w.inbox:
			w.publish(context.Background(), event)
		default:
			return
		}
	}
}

func (w *Worker) publish(ctx context.Context, event Event) {
	w.metrics.SetQueueDepth(len(w.inbox))
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), w.timeout)
	defer cancel()

	if err := w.sink.Publish(pctx, event); err != nil {
		w.metrics.IncFailed()
		w.logger.Error("failed to publish validation outcome",
			"event_id", event.EventID,
			"outcome_id", event.ID,
			"error", err,
		)
		return
	}
	w.metrics.IncPublished()
}
