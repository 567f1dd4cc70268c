// Package coordinator runs the validation checks for a collection event
// concurrently and folds their results into one ValidationResult.
package coordinator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"herbcheck/internal/coordinator/metrics"
	"herbcheck/internal/domain"
	"herbcheck/internal/environment"
	"herbcheck/internal/regulatory"
	"herbcheck/internal/validation/basic"
	dErrors "herbcheck/pkg/domain-errors"
	"herbcheck/pkg/requestcontext"
)

// DefaultTimeout bounds a whole Validate call.
const DefaultTimeout = 45 * time.Second

// SiteAssessor validates the collection site.
type SiteAssessor interface {
	AssessLocation(ctx context.Context, location domain.Location, timestamp time.Time, species *domain.Species) (domain.CheckResult, error)
}

// RuleEngine evaluates regulatory rules and quality standards.
type RuleEngine interface {
	CheckCompliance(ctx context.Context, species domain.Species, harvestDate time.Time, location *domain.Location, quantityKg *float64) (*regulatory.Report, error)
	ValidateQuality(params map[string]float64) regulatory.QualityReport
}

// Coordinator fans out validation checks and aggregates them.
type Coordinator struct {
	basic         *basic.Validator
	sites         SiteAssessor
	rules         RuleEngine
	timeout       time.Duration
	checkTimeouts map[domain.CheckKind]time.Duration
	logger        *slog.Logger
	metrics       *metrics.Metrics
	tracer        trace.Tracer
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Coordinator) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithTimeout sets the per-call timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Coordinator) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithCheckTimeout bounds one check kind. The overall timeout still applies.
func WithCheckTimeout(kind domain.CheckKind, d time.Duration) Option {
	return func(c *Coordinator) {
		if d > 0 {
			c.checkTimeouts[kind] = d
		}
	}
}

// WithMetrics enables Prometheus metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Coordinator) {
		c.metrics = m
	}
}

// WithTracer overrides the global tracer.
func WithTracer(t trace.Tracer) Option {
	return func(c *Coordinator) {
		if t != nil {
			c.tracer = t
		}
	}
}

// New creates a Coordinator.
func New(basicValidator *basic.Validator, sites SiteAssessor, rules RuleEngine, opts ...Option) *Coordinator {
	c := &Coordinator{
		basic:         basicValidator,
		sites:         sites,
		rules:         rules,
		timeout:       DefaultTimeout,
		checkTimeouts: make(map[domain.CheckKind]time.Duration),
		logger:        slog.Default(),
		tracer:        otel.Tracer("herbcheck/coordinator"),
	}
	if c.basic == nil {
		c.basic = basic.New(basic.DefaultConfig())
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type checkFunc func(ctx context.Context) (domain.CheckResult, error)

// Validate runs the basic check synchronously, then the requested checks
// concurrently, and aggregates everything. It always returns a result;
// check failures, panics and timeouts become requires_review check results.
// Empty types requests every check.
func (c *Coordinator) Validate(ctx context.Context, event domain.CollectionEvent, types []domain.ValidationType) *domain.ValidationResult {
	start := time.Now()
	validatedAt := requestcontext.Now(ctx)

	ctx, span := c.tracer.Start(ctx, "coordinator.Validate", trace.WithAttributes(
		attribute.String("event_id", event.ID),
	))
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	c.logger.InfoContext(ctx, "validation started", "event_id", event.ID, "validation_types", types)

	results := []domain.CheckResult{c.runBasic(ctx, event)}

	kinds := c.plan(event, types)
	slots := make([]domain.CheckResult, len(kinds))
	g, gctx := errgroup.WithContext(ctx)
	for i, kind := range kinds {
		fn := c.checkFor(kind, event)
		g.Go(func() error {
			slots[i] = c.run(gctx, kind, fn)
			return nil
		})
	}
	_ = g.Wait()
	results = append(results, slots...)

	result := Aggregate(event.ID, results)
	result.ValidatedAt = validatedAt
	result.Duration = time.Since(start)
	result.DurationSeconds = domain.Round3(result.Duration.Seconds())

	span.SetAttributes(
		attribute.String("overall_status", string(result.Status)),
		attribute.String("state", string(result.State)),
		attribute.Float64("confidence", result.Confidence),
	)
	if result.State == domain.StateFailed {
		span.SetStatus(codes.Error, result.Summary)
	}
	c.metrics.IncrementOutcome(string(result.Status))
	c.metrics.ObserveValidate(result.Duration)

	c.logger.InfoContext(ctx, "validation completed",
		"event_id", event.ID,
		"status", result.Status,
		"state", result.State,
		"confidence", result.Confidence,
		"duration_ms", result.Duration.Milliseconds(),
	)
	return result
}

// plan resolves the requested check kinds, deduplicated and in a fixed
// order. Quality only runs when the event carries quality metrics.
func (c *Coordinator) plan(event domain.CollectionEvent, types []domain.ValidationType) []domain.CheckKind {
	if len(types) == 0 {
		types = domain.DefaultValidationTypes
	}
	requested := make(map[domain.CheckKind]bool, len(types))
	for _, t := range types {
		requested[t.Kind()] = true
	}

	var kinds []domain.CheckKind
	for _, kind := range []domain.CheckKind{domain.CheckEnvironmental, domain.CheckRegulatory, domain.CheckQuality} {
		if !requested[kind] {
			continue
		}
		if kind == domain.CheckQuality && event.Quality == nil {
			continue
		}
		kinds = append(kinds, kind)
	}
	return kinds
}

func (c *Coordinator) checkFor(kind domain.CheckKind, event domain.CollectionEvent) checkFunc {
	switch kind {
	case domain.CheckEnvironmental:
		return func(ctx context.Context) (domain.CheckResult, error) {
			if c.sites == nil {
				return domain.CheckResult{}, dErrors.New(dErrors.CodeUnavailable, "no signal provider configured")
			}
			return c.sites.AssessLocation(ctx, event.Location, event.Timestamp, &event.Species)
		}
	case domain.CheckRegulatory:
		return func(ctx context.Context) (domain.CheckResult, error) {
			if c.rules == nil {
				return domain.CheckResult{}, dErrors.New(dErrors.CodeUnavailable, "no rule engine configured")
			}
			quantity := event.QuantityKg
			report, err := c.rules.CheckCompliance(ctx, event.Species, event.Timestamp, &event.Location, &quantity)
			if err != nil {
				return domain.CheckResult{}, err
			}
			return regulatory.CheckResultFrom(report), nil
		}
	case domain.CheckQuality:
		return func(ctx context.Context) (domain.CheckResult, error) {
			if c.rules == nil {
				return domain.CheckResult{}, dErrors.New(dErrors.CodeUnavailable, "no rule engine configured")
			}
			report := c.rules.ValidateQuality(event.Quality.Parameters())
			return regulatory.QualityCheckResult(report, event.Quality), nil
		}
	default:
		return func(context.Context) (domain.CheckResult, error) {
			return domain.CheckResult{}, fmt.Errorf("unsupported check kind %q", kind)
		}
	}
}

// runBasic runs the basic check inline. It never fails and does not observe
// ctx cancellation, so its findings survive an expired deadline.
func (c *Coordinator) runBasic(ctx context.Context, event domain.CollectionEvent) domain.CheckResult {
	ctx, span := c.tracer.Start(ctx, "coordinator.check", trace.WithAttributes(
		attribute.String("kind", string(domain.CheckBasic)),
	))
	defer span.End()

	start := time.Now()
	r := c.basic.Validate(ctx, event)
	r.Kind = domain.CheckBasic
	c.metrics.ObserveCheck(string(domain.CheckBasic), time.Since(start))

	span.SetAttributes(
		attribute.String("status", string(r.Status)),
		attribute.Float64("confidence", r.Confidence),
	)
	return r
}

type outcome struct {
	result domain.CheckResult
	err    error
}

// run executes fn in its own goroutine so that a check ignoring its context
// still cannot hold the call past the deadline. Panics become errors.
func (c *Coordinator) run(ctx context.Context, kind domain.CheckKind, fn checkFunc) domain.CheckResult {
	ctx, span := c.tracer.Start(ctx, "coordinator.check", trace.WithAttributes(
		attribute.String("kind", string(kind)),
	))
	defer span.End()

	if d, ok := c.checkTimeouts[kind]; ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}

	start := time.Now()
	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				done <- outcome{err: fmt.Errorf("panic: %v", rec)}
			}
		}()
		r, err := fn(ctx)
		done <- outcome{result: r, err: err}
	}()

	var out outcome
	select {
	case out = <-done:
	case <-ctx.Done():
		out = outcome{err: fmt.Errorf("check timed out: %w", ctx.Err())}
	}
	c.metrics.ObserveCheck(string(kind), time.Since(start))

	if out.err == nil {
		out.result.Kind = kind
		span.SetAttributes(
			attribute.String("status", string(out.result.Status)),
			attribute.Float64("confidence", out.result.Confidence),
		)
		return out.result
	}

	span.RecordError(out.err)
	span.SetStatus(codes.Error, out.err.Error())
	c.metrics.IncrementCheckError(string(kind))
	level := slog.LevelWarn
	if errors.Is(out.err, context.DeadlineExceeded) {
		level = slog.LevelError
	}
	c.logger.Log(ctx, level, "validation check failed", "check", kind, "error", out.err)
	return failureResult(kind, out.err)
}

func failureResult(kind domain.CheckKind, err error) domain.CheckResult {
	if kind == domain.CheckEnvironmental {
		return environment.FailureResult(err)
	}
	return domain.ErrorResult(kind, err)
}
