package validation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"herbcheck/internal/domain"
	"herbcheck/internal/outcome"
	"herbcheck/internal/species"
	fixtures "herbcheck/pkg/testutil"
)

type fakeCoordinator struct {
	gotEvent domain.CollectionEvent
	gotTypes []domain.ValidationType
}

func (f *fakeCoordinator) Validate(_ context.Context, event domain.CollectionEvent, types []domain.ValidationType) *domain.ValidationResult {
	f.gotEvent = event
	f.gotTypes = types
	return &domain.ValidationResult{
		EventID:    event.ID,
		Status:     domain.StatusNonCompliant,
		Confidence: 0.4,
		State:      domain.StateCompleted,
		Checks: []domain.CheckResult{
			{Kind: domain.CheckBasic, Status: domain.StatusCompliant, Confidence: 1},
			{Kind: domain.CheckRegulatory, Status: domain.StatusNonCompliant, Confidence: 0.4},
		},
	}
}

type fakeEnricher struct {
	enriched    int
	recommended int
}

func (f *fakeEnricher) Enrich(_ context.Context, _ domain.CollectionEvent, result *domain.ValidationResult) *domain.ValidationResult {
	f.enriched++
	out := *result
	out.AIAnalysis = &domain.AIAssessment{Status: domain.StatusNonCompliant, Confidence: 0.8}
	out.Confidence = 0.8
	return &out
}

func (f *fakeEnricher) RecommendFor(_ context.Context, _ string, result *domain.ValidationResult) *domain.ValidationResult {
	f.recommended++
	out := *result
	out.Recommendations = append(out.Recommendations, "Obtain a collection permit")
	return &out
}

type fakePublisher struct {
	accept bool
	events []outcome.Event
}

func (f *fakePublisher) Enqueue(event outcome.Event) bool {
	f.events = append(f.events, event)
	return f.accept
}

type failingCatalog struct{}

func (failingCatalog) Get(context.Context, string) (*domain.Species, error) {
	return nil, errors.New("catalog offline")
}

// =============================================================================
// Test Suite
// =============================================================================

type ServiceSuite struct {
	suite.Suite
	coordinator *fakeCoordinator
	enricher    *fakeEnricher
	publisher   *fakePublisher
	catalog     *species.InMemory
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.coordinator = &fakeCoordinator{}
	s.enricher = &fakeEnricher{}
	s.publisher = &fakePublisher{accept: true}
	s.catalog = species.NewInMemory()
	s.Require().NoError(species.SeedDefaults(context.Background(), s.catalog))
}

func (s *ServiceSuite) newService(opts ...Option) *Service {
	return New(s.coordinator, opts...)
}

// =============================================================================
// Species resolution
// =============================================================================

func (s *ServiceSuite) TestResolvesSpeciesFromCatalog() {
	event := fixtures.NewEvent()
	event.Species = domain.Species{CommonName: "Brahmi"}

	s.newService(WithSpeciesCatalog(s.catalog)).Validate(context.Background(), Request{Event: event})

	got := s.coordinator.gotEvent.Species
	s.Equal("Brahmi", got.CommonName)
	s.Equal("Bacopa monnieri", got.ScientificName)
	s.Equal(domain.ConservationVulnerable, got.ConservationStatus)
	s.Contains(got.RestrictedRegions, "wetlands")
}

func (s *ServiceSuite) TestSubmittedSpeciesFieldsWin() {
	event := fixtures.NewEvent(fixtures.WithConservation(domain.ConservationEndangered))

	s.newService(WithSpeciesCatalog(s.catalog)).Validate(context.Background(), Request{Event: event})

	s.Equal(domain.ConservationEndangered, s.coordinator.gotEvent.Species.ConservationStatus)
}

func (s *ServiceSuite) TestCatalogFailureValidatesAsSubmitted() {
	event := fixtures.NewEvent()

	result := s.newService(WithSpeciesCatalog(failingCatalog{})).Validate(context.Background(), Request{Event: event})

	s.Require().NotNil(result)
	s.Equal(event.Species, s.coordinator.gotEvent.Species)
}

// =============================================================================
// Identity and types
// =============================================================================

func (s *ServiceSuite) TestGeneratesEventIDWhenMissing() {
	event := fixtures.NewEvent(fixtures.WithEventID("  "))

	result := s.newService().Validate(context.Background(), Request{Event: event})

	s.NotEmpty(s.coordinator.gotEvent.ID)
	s.NotEqual("  ", s.coordinator.gotEvent.ID)
	s.Equal(s.coordinator.gotEvent.ID, result.EventID)
}

func (s *ServiceSuite) TestPassesTypesThrough() {
	types := []domain.ValidationType{domain.ValidationQuality}

	s.newService().Validate(context.Background(), Request{Event: fixtures.NewEvent(), Types: types})

	s.Equal(types, s.coordinator.gotTypes)
}

// =============================================================================
// Enrichment
// =============================================================================

func (s *ServiceSuite) TestEnrichesOnlyWhenRequested() {
	svc := s.newService(WithEnricher(s.enricher))
	s.True(svc.AIEnabled())

	plain := svc.Validate(context.Background(), Request{Event: fixtures.NewEvent()})
	s.Nil(plain.AIAnalysis)
	s.Zero(s.enricher.enriched)

	enriched := svc.Validate(context.Background(), Request{Event: fixtures.NewEvent(), UseAI: true})
	s.Require().NotNil(enriched.AIAnalysis)
	s.Equal(0.8, enriched.Confidence)
	s.Contains(enriched.Recommendations, "Obtain a collection permit")
	s.Equal(1, s.enricher.enriched)
	s.Equal(1, s.enricher.recommended)
}

func (s *ServiceSuite) TestUseAIWithoutEnricherIsIgnored() {
	svc := s.newService()
	s.False(svc.AIEnabled())

	result := svc.Validate(context.Background(), Request{Event: fixtures.NewEvent(), UseAI: true})

	s.Nil(result.AIAnalysis)
}

// =============================================================================
// Outcome publishing
// =============================================================================

func (s *ServiceSuite) TestPublishesOutcome() {
	event := fixtures.NewEvent()

	s.newService(WithPublisher(s.publisher), WithEnricher(s.enricher)).
		Validate(context.Background(), Request{Event: event, UseAI: true})

	s.Require().Len(s.publisher.events, 1)
	published := s.publisher.events[0]
	s.Equal(event.ID, published.EventID)
	s.Equal(event.Collector.ID, published.CollectorID)
	s.Equal(domain.StatusNonCompliant, published.Status)
	s.Equal(domain.StatusNonCompliant, published.Checks[domain.CheckRegulatory])
	s.True(published.AIEnriched)
}

func (s *ServiceSuite) TestRejectedOutcomeStillReturnsResult() {
	s.publisher.accept = false

	result := s.newService(WithPublisher(s.publisher)).Validate(context.Background(), Request{Event: fixtures.NewEvent()})

	s.Require().NotNil(result)
	s.Len(s.publisher.events, 1)
}

func TestNew_DefaultsLogger(t *testing.T) {
	svc := New(&fakeCoordinator{}, WithLogger(nil))
	require.NotNil(t, svc.logger)
	assert.Nil(t, svc.catalog)
}
