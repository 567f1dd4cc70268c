// Package regulatory implements the rule engine: the five compliance checks,
// the quality standards evaluation and the cached requirements lookup.
package regulatory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"herbcheck/internal/cache"
	"herbcheck/internal/domain"
	dErrors "herbcheck/pkg/domain-errors"
	"herbcheck/pkg/platform/sentinel"
	strutil "herbcheck/pkg/platform/strings"
)

// SpeciesCatalog resolves species reference data by common name.
type SpeciesCatalog interface {
	Get(ctx context.Context, name string) (*domain.Species, error)
}

// Report is the aggregated outcome of the five rule checks.
type Report struct {
	Species            string                  `json:"species"`
	HarvestDate        string                  `json:"harvest_date"`
	Season             domain.HarvestSeason    `json:"season"`
	Region             string                  `json:"region"`
	OverallStatus      domain.ComplianceStatus `json:"overall_status"`
	ComplianceScore    float64                 `json:"compliance_score"`
	Checks             []domain.RuleCheck      `json:"checks"`
	Requirements       []string                `json:"requirements"`
	Restrictions       []string                `json:"restrictions"`
	Recommendations    []string                `json:"recommendations"`
	CompliantChecks    int                     `json:"compliant_checks"`
	NonCompliantChecks int                     `json:"non_compliant_checks"`
	ReviewChecks       int                     `json:"requires_review_checks"`
	Summary            string                  `json:"summary"`
}

// Engine evaluates regulatory rules. It is safe for concurrent use.
type Engine struct {
	standards    QualityStandards
	requirements cache.Cache[Requirements]
	catalog      SpeciesCatalog
	logger       *slog.Logger
	clock        func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithQualityStandards overrides the quality ceilings.
func WithQualityStandards(s QualityStandards) Option {
	return func(e *Engine) {
		e.standards = s
	}
}

// WithRequirementsCache replaces the default in-memory requirements cache.
func WithRequirementsCache(c cache.Cache[Requirements]) Option {
	return func(e *Engine) {
		if c != nil {
			e.requirements = c
		}
	}
}

// WithSpeciesCatalog enables species-specific requirement notes.
func WithSpeciesCatalog(c SpeciesCatalog) Option {
	return func(e *Engine) {
		e.catalog = c
	}
}

// WithClock overrides time.Now for requirement timestamps.
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) {
		if clock != nil {
			e.clock = clock
		}
	}
}

// New creates an Engine. Without WithRequirementsCache it caches requirement
// bundles in memory for 24 hours.
func New(opts ...Option) *Engine {
	e := &Engine{
		standards: DefaultQualityStandards(),
		logger:    slog.Default(),
		clock:     time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.requirements == nil {
		e.requirements = cache.NewMemory[Requirements]("requirements", 24*time.Hour, cache.WithClock(e.clock))
	}
	return e
}

// CheckCompliance runs all five rule checks. An absent quantity is evaluated
// as 0 kg; an absent location yields region "Unknown", which is never restricted.
func (e *Engine) CheckCompliance(ctx context.Context, species domain.Species, harvestDate time.Time, location *domain.Location, quantityKg *float64) (*Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeTimeout, "regulatory check cancelled")
	}

	quantity := 0.0
	if quantityKg != nil {
		quantity = *quantityKg
	}
	region := RegionUnknown
	if location != nil {
		region = DetectRegion(location.Latitude, location.Longitude)
	}

	checks := []domain.RuleCheck{
		checkConservation(species),
		checkSeason(species, harvestDate),
		checkQuantity(species, quantity),
		checkRegion(species, region),
		checkPermit(species),
	}

	report := aggregate(checks)
	report.Species = species.CommonName
	report.HarvestDate = harvestDate.Format("2006-01-02")
	report.Season = domain.SeasonFor(harvestDate)
	report.Region = region

	e.logger.DebugContext(ctx, "regulatory checks completed",
		"species", species.CommonName,
		"status", report.OverallStatus,
		"compliance_score", report.ComplianceScore,
	)
	return report, nil
}

// ValidateQuality evaluates measured parameters against the standards.
// Parameters without a standard are ignored.
func (e *Engine) ValidateQuality(params map[string]float64) QualityReport {
	return evaluateQuality(e.standards, params)
}

// Standards returns the configured quality ceilings.
func (e *Engine) Standards() QualityStandards {
	return e.standards
}

// FetchRequirements returns the requirement bundle for species in region,
// served from cache while fresh.
func (e *Engine) FetchRequirements(ctx context.Context, species, region string) (*Requirements, error) {
	species = strings.TrimSpace(species)
	if species == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "species is required")
	}
	region = strings.TrimSpace(region)
	if region == "" {
		region = DefaultRegion
	}

	key := RequirementsCacheKey(species, region)
	req, hit, err := cache.Fetch(ctx, e.requirements, key, func(ctx context.Context) (Requirements, error) {
		known, err := e.lookupSpecies(ctx, species)
		if err != nil {
			return Requirements{}, err
		}
		return synthesizeRequirements(species, region, known, e.standards, e.clock()), nil
	})
	if err != nil {
		return nil, err
	}
	e.logger.DebugContext(ctx, "regulatory requirements resolved", "species", species, "region", region, "cached", hit)
	return &req, nil
}

func (e *Engine) lookupSpecies(ctx context.Context, name string) (*domain.Species, error) {
	if e.catalog == nil {
		return nil, nil
	}
	sp, err := e.catalog.Get(ctx, name)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "species catalog unavailable")
	}
	return sp, nil
}

func aggregate(checks []domain.RuleCheck) *Report {
	report := &Report{Checks: checks}
	statuses := make([]domain.ComplianceStatus, 0, len(checks))
	var reqs, restrictions, recs [][]string
	for _, c := range checks {
		statuses = append(statuses, c.Status)
		switch c.Status {
		case domain.StatusCompliant:
			report.CompliantChecks++
		case domain.StatusNonCompliant:
			report.NonCompliantChecks++
		case domain.StatusRequiresReview:
			report.ReviewChecks++
		}
		reqs = append(reqs, c.Requirements)
		restrictions = append(restrictions, c.Restrictions)
		recs = append(recs, c.Recommendations)
	}

	report.OverallStatus = domain.Worst(statuses...)
	if len(checks) > 0 {
		report.ComplianceScore = float64(report.CompliantChecks) / float64(len(checks))
	}
	report.Requirements = strutil.Union(reqs...)
	report.Restrictions = strutil.Union(restrictions...)
	report.Recommendations = strutil.Union(recs...)
	report.Summary = complianceSummary(report)
	return report
}

func complianceSummary(r *Report) string {
	switch r.OverallStatus {
	case domain.StatusNonCompliant:
		return fmt.Sprintf("Non-compliant - %d violation(s) found", r.NonCompliantChecks)
	case domain.StatusRequiresReview:
		return fmt.Sprintf("Requires review - %d item(s) need attention", r.ReviewChecks)
	default:
		return fmt.Sprintf("Fully compliant (%.0f%%) - All requirements met", r.ComplianceScore*100)
	}
}
