// Package health aggregates the availability of the service's collaborators
// into a single healthy, degraded or unhealthy verdict.
package health

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	dErrors "herbcheck/pkg/domain-errors"
	"herbcheck/pkg/platform/circuit"
)

// Status is a component or system health verdict.
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

// DefaultTimeout bounds each component check.
const DefaultTimeout = 3 * time.Second

// ErrDisabled is returned by checks for optional components that are not
// configured. Such components report healthy with a note.
var ErrDisabled = errors.New("component disabled")

// CheckFunc probes one component.
type CheckFunc func(ctx context.Context) error

// Component is a registered health probe. A failing critical component makes
// the system unhealthy; any other failure only degrades it.
type Component struct {
	Name     string
	Critical bool
	Check    CheckFunc
}

// ComponentReport is the outcome of one probe.
type ComponentReport struct {
	Status  Status  `json:"status"`
	Error   string  `json:"error,omitempty"`
	Note    string  `json:"note,omitempty"`
	Latency float64 `json:"latency_seconds"`
}

// Report is the aggregated system health.
type Report struct {
	Status     Status                     `json:"overall_status"`
	CheckedAt  time.Time                  `json:"timestamp"`
	Components map[string]ComponentReport `json:"components"`
}

// Monitor runs the registered probes concurrently.
type Monitor struct {
	mu         sync.RWMutex
	components []Component
	timeout    time.Duration
	clock      func() time.Time
	logger     *slog.Logger
	metrics    *Metrics
}

type Option func(*Monitor)

func WithLogger(logger *slog.Logger) Option {
	return func(m *Monitor) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithTimeout bounds each probe. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(m *Monitor) {
		if d > 0 {
			m.timeout = d
		}
	}
}

func WithClock(clock func() time.Time) Option {
	return func(m *Monitor) {
		if clock != nil {
			m.clock = clock
		}
	}
}

func WithMetrics(metrics *Metrics) Option {
	return func(m *Monitor) {
		m.metrics = metrics
	}
}

func NewMonitor(opts ...Option) *Monitor {
	m := &Monitor{
		timeout: DefaultTimeout,
		clock:   time.Now,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Register adds a probe. Registering a name twice replaces the earlier probe.
func (m *Monitor) Register(c Component) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.components {
		if m.components[i].Name == c.Name {
			m.components[i] = c
			return
		}
	}
	m.components = append(m.components, c)
}

// Names returns the registered component names in order.
func (m *Monitor) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.components))
	for _, c := range m.components {
		names = append(names, c.Name)
	}
	sort.Strings(names)
	return names
}

// Check probes every component and aggregates the verdict.
func (m *Monitor) Check(ctx context.Context) Report {
	m.mu.RLock()
	components := append([]Component(nil), m.components...)
	m.mu.RUnlock()

	reports := make([]ComponentReport, len(components))
	g, gctx := errgroup.WithContext(ctx)
	for i, c := range components {
		g.Go(func() error {
			reports[i] = m.probe(gctx, c)
			return nil
		})
	}
	_ = g.Wait()

	out := Report{
		Status:     StatusHealthy,
		CheckedAt:  m.clock(),
		Components: make(map[string]ComponentReport, len(components)),
	}
	for i, c := range components {
		r := reports[i]
		out.Components[c.Name] = r
		m.metrics.SetComponentUp(c.Name, r.Error == "")
		switch {
		case r.Status == StatusUnhealthy:
			out.Status = StatusUnhealthy
		case r.Status == StatusDegraded && out.Status == StatusHealthy:
			out.Status = StatusDegraded
		}
	}
	return out
}

func (m *Monitor) probe(ctx context.Context, c Component) ComponentReport {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	start := m.clock()
	err := safeCheck(ctx, c.Check)
	report := ComponentReport{Status: StatusHealthy, Latency: m.clock().Sub(start).Seconds()}

	switch {
	case err == nil:
	case errors.Is(err, ErrDisabled):
		report.Note = "not configured"
	default:
		report.Error = err.Error()
		report.Status = StatusDegraded
		if c.Critical {
			report.Status = StatusUnhealthy
		}
		m.logger.WarnContext(ctx, "health check failed",
			"component", c.Name,
			"critical", c.Critical,
			"error", err,
		)
	}
	return report
}

func safeCheck(ctx context.Context, check CheckFunc) (err error) {
	if check == nil {
		return ErrDisabled
	}
	defer func() {
		if r := recover(); r != nil {
			err = dErrors.New(dErrors.CodeInternal, "health check panicked")
		}
	}()
	return check(ctx)
}

// BreakerCheck fails while the breaker is open.
func BreakerCheck(b *circuit.Breaker) CheckFunc {
	return func(context.Context) error {
		if b == nil {
			return ErrDisabled
		}
		if b.IsOpen() {
			return dErrors.New(dErrors.CodeUnavailable, "circuit breaker open")
		}
		return nil
	}
}

// ConfiguredCheck wraps check, reporting ErrDisabled when configured is false.
func ConfiguredCheck(configured bool, check CheckFunc) CheckFunc {
	return func(ctx context.Context) error {
		if !configured {
			return ErrDisabled
		}
		if check == nil {
			return nil
		}
		return check(ctx)
	}
}
