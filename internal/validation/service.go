// Package validation runs a collection event through the coordinator and the
// post-hoc steps around it: species resolution, optional AI enrichment and
// outcome publishing.
package validation

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"herbcheck/internal/domain"
	"herbcheck/internal/outcome"
	"herbcheck/internal/species"
)

// Coordinator runs the core checks.
type Coordinator interface {
	Validate(ctx context.Context, event domain.CollectionEvent, types []domain.ValidationType) *domain.ValidationResult
}

// Enricher decorates a finished result with text-completion output.
type Enricher interface {
	Enrich(ctx context.Context, event domain.CollectionEvent, result *domain.ValidationResult) *domain.ValidationResult
	RecommendFor(ctx context.Context, species string, result *domain.ValidationResult) *domain.ValidationResult
}

// Publisher queues outcome events without blocking.
type Publisher interface {
	Enqueue(event outcome.Event) bool
}

// Request is one validation call.
type Request struct {
	Event domain.CollectionEvent
	Types []domain.ValidationType
	UseAI bool
}

// Service orchestrates one validation end to end.
type Service struct {
	coordinator Coordinator
	catalog     species.Getter
	enricher    Enricher
	publisher   Publisher
	logger      *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithSpeciesCatalog fills species fields the request leaves empty.
func WithSpeciesCatalog(c species.Getter) Option {
	return func(s *Service) {
		s.catalog = c
	}
}

// WithEnricher enables AI enrichment for requests that ask for it.
func WithEnricher(e Enricher) Option {
	return func(s *Service) {
		s.enricher = e
	}
}

func WithPublisher(p Publisher) Option {
	return func(s *Service) {
		s.publisher = p
	}
}

func New(coordinator Coordinator, opts ...Option) *Service {
	s := &Service{coordinator: coordinator, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AIEnabled reports whether enrichment is wired.
func (s *Service) AIEnabled() bool {
	return s.enricher != nil
}

// Validate never fails: collaborator problems are already folded into the
// result by the coordinator, and enrichment or publishing problems are logged.
func (s *Service) Validate(ctx context.Context, req Request) *domain.ValidationResult {
	event := req.Event
	if strings.TrimSpace(event.ID) == "" {
		event.ID = uuid.NewString()
	}

	resolved, err := species.Resolve(ctx, s.catalog, event.Species)
	if err != nil {
		s.logger.WarnContext(ctx, "species resolution failed, validating as submitted",
			"event_id", event.ID,
			"species", event.Species.CommonName,
			"error", err,
		)
	} else {
		event.Species = resolved
	}

	result := s.coordinator.Validate(ctx, event, req.Types)

	if req.UseAI && s.enricher != nil {
		result = s.enricher.Enrich(ctx, event, result)
		result = s.enricher.RecommendFor(ctx, event.Species.CommonName, result)
	}

	if s.publisher != nil && !s.publisher.Enqueue(outcome.FromResult(event, result)) {
		s.logger.WarnContext(ctx, "validation outcome not queued", "event_id", event.ID)
	}

	s.logger.DebugContext(ctx, "validation request handled",
		"event_id", event.ID,
		"ai_requested", req.UseAI,
	)
	return result
}
