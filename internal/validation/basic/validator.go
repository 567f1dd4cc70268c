// Package basic implements the structural checks every collection event
// goes through before any collaborator is consulted.
package basic

import (
	"context"
	"fmt"
	"strings"
	"time"

	"herbcheck/internal/domain"
	"herbcheck/pkg/requestcontext"
)

// Config holds the plausibility bounds.
type Config struct {
	MaxHarvestAgeDays int
	MinQuantityKg     float64
	MaxQuantityKg     float64
}

// DefaultConfig returns the standard bounds: 7 days, 0.1 to 1000 kg.
func DefaultConfig() Config {
	return Config{MaxHarvestAgeDays: 7, MinQuantityKg: 0.1, MaxQuantityKg: 1000}
}

// Validator runs freshness, coordinate, quantity and completeness checks.
type Validator struct {
	cfg Config
}

// New creates a Validator. Zero config fields fall back to DefaultConfig.
func New(cfg Config) *Validator {
	def := DefaultConfig()
	if cfg.MaxHarvestAgeDays <= 0 {
		cfg.MaxHarvestAgeDays = def.MaxHarvestAgeDays
	}
	if cfg.MinQuantityKg <= 0 {
		cfg.MinQuantityKg = def.MinQuantityKg
	}
	if cfg.MaxQuantityKg <= 0 {
		cfg.MaxQuantityKg = def.MaxQuantityKg
	}
	return &Validator{cfg: cfg}
}

// Validate never fails; the worst outcome is a non_compliant result listing
// every problem found. "Today" comes from requestcontext.Now.
func (v *Validator) Validate(ctx context.Context, event domain.CollectionEvent) domain.CheckResult {
	var (
		statuses        = []domain.ComplianceStatus{domain.StatusCompliant}
		issues          []string
		warnings        []string
		recommendations []string
	)

	age := AgeDays(requestcontext.Now(ctx), event.Timestamp)
	switch {
	case age > v.cfg.MaxHarvestAgeDays:
		issues = append(issues, fmt.Sprintf("Harvest is %d days old (max allowed: %d)", age, v.cfg.MaxHarvestAgeDays))
		statuses = append(statuses, domain.StatusNonCompliant)
	case age > v.cfg.MaxHarvestAgeDays/2:
		warnings = append(warnings, fmt.Sprintf("Harvest is %d days old - quality may be affected", age))
	}

	coordsValid := event.Location.Valid()
	if !coordsValid {
		issues = append(issues, "Invalid GPS coordinates provided")
		statuses = append(statuses, domain.StatusNonCompliant)
	}

	quantityOK := event.QuantityKg >= v.cfg.MinQuantityKg && event.QuantityKg <= v.cfg.MaxQuantityKg
	if !quantityOK {
		if event.QuantityKg < v.cfg.MinQuantityKg {
			warnings = append(warnings, "Very small quantity collected - verify measurement")
		} else {
			issues = append(issues, "Unusually large quantity - may require special permits")
			statuses = append(statuses, domain.StatusRequiresReview)
		}
	}

	collectorOK := event.Collector.Complete()
	if !collectorOK {
		issues = append(issues, "Incomplete collector information")
		statuses = append(statuses, domain.StatusNonCompliant)
	}

	speciesOK := event.Species.Complete()
	if !speciesOK {
		issues = append(issues, "Incomplete species information")
		statuses = append(statuses, domain.StatusNonCompliant)
	}

	if age > 1 {
		recommendations = append(recommendations, "Process herbs quickly to maintain quality")
	}
	if strings.TrimSpace(event.Collector.LicenseNumber) == "" {
		recommendations = append(recommendations, "Consider obtaining collector certification")
	}
	if len(event.Photos) == 0 {
		recommendations = append(recommendations, "Include photos for verification purposes")
	}

	return domain.CheckResult{
		Kind:            domain.CheckBasic,
		Status:          domain.Worst(statuses...),
		Confidence:      1.0,
		Issues:          nonNil(issues),
		Warnings:        nonNil(warnings),
		Recommendations: nonNil(recommendations),
		Payload: &domain.BasicPayload{
			AgeDays:            age,
			CoordinatesValid:   coordsValid,
			QuantityReasonable: quantityOK,
			CollectorComplete:  collectorOK,
			SpeciesComplete:    speciesOK,
		},
	}
}

// AgeDays is the number of calendar days between the harvest date and today,
// both taken in UTC. Future harvests yield a negative age.
func AgeDays(now, harvestedAt time.Time) int {
	today := civilDate(now)
	harvest := civilDate(harvestedAt)
	return int(today.Sub(harvest).Hours() / 24)
}

func civilDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
