package environment

import (
	"context"
	"log/slog"
	"time"

	"herbcheck/internal/domain"
	"herbcheck/pkg/platform/circuit"
)

// CircuitBreakerProvider stops calling a provider after repeated failures
// and fails fast with ErrorProviderOutage until the breaker lets a probe through.
type CircuitBreakerProvider struct {
	next    SignalProvider
	breaker *circuit.Breaker
	logger  *slog.Logger
}

// NewCircuitBreakerProvider wraps next with breaker.
func NewCircuitBreakerProvider(next SignalProvider, breaker *circuit.Breaker, logger *slog.Logger) *CircuitBreakerProvider {
	if breaker == nil {
		breaker = circuit.New(next.ID())
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CircuitBreakerProvider{next: next, breaker: breaker, logger: logger}
}

func (p *CircuitBreakerProvider) ID() string { return p.next.ID() }

// State exposes the breaker position for health reporting.
func (p *CircuitBreakerProvider) State() circuit.State { return p.breaker.State() }

func (p *CircuitBreakerProvider) FetchSnapshot(ctx context.Context, lat, lon float64, date time.Time) (*domain.SignalSnapshot, error) {
	if !p.breaker.Allow() {
		return nil, NewProviderError(ErrorProviderOutage, p.ID(), "circuit open", nil)
	}

	snap, err := p.next.FetchSnapshot(ctx, lat, lon, date)
	if err != nil {
		// Malformed responses say nothing about availability.
		if CategoryOf(err) != ErrorBadData {
			if _, change := p.breaker.RecordFailure(); change.Opened {
				p.logger.WarnContext(ctx, "signal provider circuit opened", "provider", p.ID(), "error", err)
			}
		}
		return nil, err
	}
	if _, change := p.breaker.RecordSuccess(); change.Closed {
		p.logger.InfoContext(ctx, "signal provider circuit closed", "provider", p.ID())
	}
	return snap, nil
}

// Health reports the wrapped provider's health, or an outage while open.
func (p *CircuitBreakerProvider) Health(ctx context.Context) error {
	if p.breaker.IsOpen() {
		return NewProviderError(ErrorProviderOutage, p.ID(), "circuit open", nil)
	}
	return p.next.Health(ctx)
}
