// Package environment validates collection sites against remote-sensing
// signals: vegetation index, cloud cover and land use.
package environment

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"herbcheck/internal/cache"
	"herbcheck/internal/domain"
	dErrors "herbcheck/pkg/domain-errors"
)

// DefaultSnapshotTTL is how long a snapshot is served from cache.
const DefaultSnapshotTTL = 6 * time.Hour

// Vegetation series bounds, in days.
const (
	DefaultRangeDays = 30
	MaxRangeDays     = 365
)

// DefaultExpectedLandUse is assumed when a land-use check names none.
const DefaultExpectedLandUse = LandAgricultural

// Service assesses collection sites. It is safe for concurrent use.
type Service struct {
	provider  SignalProvider
	snapshots cache.Cache[domain.SignalSnapshot]
	logger    *slog.Logger
	clock     func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithSnapshotCache replaces the default in-memory snapshot cache.
func WithSnapshotCache(c cache.Cache[domain.SignalSnapshot]) Option {
	return func(s *Service) {
		if c != nil {
			s.snapshots = c
		}
	}
}

// WithClock overrides time.Now for the diagnostic reports.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// New creates a Service backed by provider.
func New(provider SignalProvider, opts ...Option) *Service {
	s := &Service{
		provider: provider,
		logger:   slog.Default(),
		clock:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.snapshots == nil {
		s.snapshots = cache.NewMemory[domain.SignalSnapshot]("environmental", DefaultSnapshotTTL, cache.WithClock(s.clock))
	}
	return s
}

// SnapshotCacheKey is the cache key for a location on a calendar date.
func SnapshotCacheKey(lat, lon float64, date time.Time) string {
	return fmt.Sprintf("%.4f_%.4f_%s", lat, lon, date.Format(time.DateOnly))
}

// Snapshot returns the scored readings for a location and date.
func (s *Service) Snapshot(ctx context.Context, lat, lon float64, date time.Time) (domain.SignalSnapshot, error) {
	key := SnapshotCacheKey(lat, lon, date)
	snap, hit, err := cache.Fetch(ctx, s.snapshots, key, func(ctx context.Context) (domain.SignalSnapshot, error) {
		raw, err := s.provider.FetchSnapshot(ctx, lat, lon, date)
		if err != nil {
			return domain.SignalSnapshot{}, err
		}
		if raw == nil {
			return domain.SignalSnapshot{}, NewProviderError(ErrorBadData, s.provider.ID(), "empty snapshot", nil)
		}
		scored := *raw
		scored.ValidationScore = Score(scored)
		scored.Anomalies = DetectAnomalies(scored)
		return scored, nil
	})
	if err != nil {
		return domain.SignalSnapshot{}, dErrors.Wrap(err, dErrors.CodeUnavailable, "satellite data unavailable")
	}
	s.logger.DebugContext(ctx, "signal snapshot resolved", "key", key, "cached", hit)
	return snap, nil
}

// AssessLocation validates the collection site. Invalid coordinates produce
// a requires_review result rather than an error; provider failures are
// returned as errors.
func (s *Service) AssessLocation(ctx context.Context, location domain.Location, timestamp time.Time, species *domain.Species) (domain.CheckResult, error) {
	if !location.Valid() {
		return invalidLocationResult(), nil
	}

	snap, err := s.Snapshot(ctx, location.Latitude, location.Longitude, timestamp)
	if err != nil {
		return domain.CheckResult{}, err
	}

	payload := &domain.EnvironmentalPayload{
		Snapshot:           snap,
		VegetationHealth:   vegetationHealth(snap.VegetationIndex),
		ImageQuality:       imageQuality(snap.CloudCover),
		LandUseAppropriate: LandUseAppropriate(snap.LandUse),
	}
	warnings := siteWarnings(snap)
	if species != nil && len(species.HarvestSeasons) > 0 {
		season := domain.SeasonFor(timestamp)
		ok := domain.ContainsSeason(species.HarvestSeasons, season)
		payload.Season = season
		payload.SeasonCompliant = &ok
		if !ok {
			warnings = append(warnings, fmt.Sprintf("Collection timing not optimal for species (%s)", season))
		}
	}

	result := domain.CheckResult{
		Kind:            domain.CheckEnvironmental,
		Status:          statusFor(snap.ValidationScore, snap.Anomalies),
		Confidence:      snap.ValidationScore,
		Issues:          siteIssues(snap),
		Warnings:        warnings,
		Recommendations: siteRecommendations(snap),
		Payload:         payload,
	}
	s.logger.DebugContext(ctx, "site assessed",
		"status", result.Status,
		"validation_score", snap.ValidationScore,
		"land_use", snap.LandUse,
	)
	return result, nil
}

// VegetationPoint is one weekly NDVI observation.
type VegetationPoint struct {
	Date           string  `json:"date"`
	NDVI           float64 `json:"ndvi"`
	CloudCover     float64 `json:"cloud_cover"`
	MoistureStress bool    `json:"moisture_stress"`
}

// VegetationReport summarizes vegetation health over a date range.
type VegetationReport struct {
	Latitude         float64           `json:"latitude"`
	Longitude        float64           `json:"longitude"`
	Start            string            `json:"start"`
	End              string            `json:"end"`
	AverageNDVI      float64           `json:"average_ndvi"`
	Trend            string            `json:"trend"`
	SeasonalPattern  string            `json:"seasonal_pattern"`
	StressIndicators []string          `json:"stress_indicators"`
	Series           []VegetationPoint `json:"time_series"`
}

// Vegetation trends.
const (
	TrendImproving = "improving"
	TrendStable    = "stable"
	TrendDeclining = "declining"
)

const trendThreshold = 0.05

// VegetationHealth builds a weekly NDVI series over the last rangeDays.
// A non-positive range uses DefaultRangeDays.
func (s *Service) VegetationHealth(ctx context.Context, location domain.Location, rangeDays int) (*VegetationReport, error) {
	if !location.Valid() {
		return nil, dErrors.New(dErrors.CodeValidation, "coordinates out of valid range")
	}
	if rangeDays <= 0 {
		rangeDays = DefaultRangeDays
	}
	if rangeDays > MaxRangeDays {
		return nil, dErrors.New(dErrors.CodeValidation, fmt.Sprintf("range must be at most %d days", MaxRangeDays))
	}

	end := s.clock().UTC()
	start := end.AddDate(0, 0, -rangeDays)
	report := &VegetationReport{
		Latitude:         location.Latitude,
		Longitude:        location.Longitude,
		Start:            start.Format(time.DateOnly),
		End:              end.Format(time.DateOnly),
		SeasonalPattern:  "normal",
		StressIndicators: []string{},
	}

	var sum float64
	for day := 0; day < rangeDays; day += 7 {
		date := start.AddDate(0, 0, day)
		snap, err := s.Snapshot(ctx, location.Latitude, location.Longitude, date)
		if err != nil {
			return nil, err
		}
		report.Series = append(report.Series, VegetationPoint{
			Date:           snap.ImageDate,
			NDVI:           snap.VegetationIndex,
			CloudCover:     snap.CloudCover,
			MoistureStress: snap.VegetationIndex < 0.4,
		})
		sum += snap.VegetationIndex
	}

	report.AverageNDVI = domain.Round3(sum / float64(len(report.Series)))
	report.Trend = trend(report.Series)
	if report.AverageNDVI < 0.4 {
		report.StressIndicators = append(report.StressIndicators, "Low vegetation vigor")
	}
	if report.Trend == TrendDeclining {
		report.StressIndicators = append(report.StressIndicators, "Possible drought stress")
	}
	return report, nil
}

func trend(series []VegetationPoint) string {
	if len(series) < 2 {
		return TrendStable
	}
	half := len(series) / 2
	delta := meanNDVI(series[half:]) - meanNDVI(series[:half])
	switch {
	case delta > trendThreshold:
		return TrendImproving
	case delta < -trendThreshold:
		return TrendDeclining
	default:
		return TrendStable
	}
}

func meanNDVI(points []VegetationPoint) float64 {
	var sum float64
	for _, p := range points {
		sum += p.NDVI
	}
	return sum / float64(len(points))
}

// LandUseReport compares detected land use against the expected class.
type LandUseReport struct {
	Latitude        float64  `json:"latitude"`
	Longitude       float64  `json:"longitude"`
	DetectedLandUse string   `json:"detected_land_use"`
	ExpectedLandUse string   `json:"expected_land_use"`
	ComplianceScore float64  `json:"compliance_score"`
	Confidence      float64  `json:"confidence"`
	Suitable        bool     `json:"suitable_for_collection"`
	RiskFactors     []string `json:"risk_factors"`
	Recommendations []string `json:"recommendations"`
}

// LandUseCompliance checks the current land use at location.
func (s *Service) LandUseCompliance(ctx context.Context, location domain.Location, expectedUse string) (*LandUseReport, error) {
	if !location.Valid() {
		return nil, dErrors.New(dErrors.CodeValidation, "coordinates out of valid range")
	}
	expectedUse = strings.ToLower(strings.TrimSpace(expectedUse))
	if expectedUse == "" {
		expectedUse = DefaultExpectedLandUse
	}

	snap, err := s.Snapshot(ctx, location.Latitude, location.Longitude, s.clock().UTC())
	if err != nil {
		return nil, err
	}

	report := &LandUseReport{
		Latitude:        location.Latitude,
		Longitude:       location.Longitude,
		DetectedLandUse: snap.LandUse,
		ExpectedLandUse: expectedUse,
		ComplianceScore: 0.6,
		Confidence:      snap.ValidationScore,
		Suitable:        LandUseAppropriate(snap.LandUse),
		RiskFactors:     []string{},
		Recommendations: []string{},
	}
	if snap.LandUse == expectedUse {
		report.ComplianceScore = 0.9
	}

	switch snap.LandUse {
	case LandUrban:
		report.RiskFactors = append(report.RiskFactors, "Urban contamination risk")
		report.Recommendations = append(report.Recommendations, "Avoid collection in urban areas")
	case LandBarren:
		report.RiskFactors = append(report.RiskFactors, "Poor soil quality")
		report.Recommendations = append(report.Recommendations, "Seek areas with better vegetation cover")
	case LandWaterBody:
		report.RiskFactors = append(report.RiskFactors, "Waterlogged conditions")
		report.Recommendations = append(report.Recommendations, "Ensure proper drainage for herb quality")
	}
	if report.ComplianceScore < 0.7 {
		report.Recommendations = append(report.Recommendations, "Verify land use permits and suitability")
	}
	return report, nil
}

// Health reports the signal provider's availability.
func (s *Service) Health(ctx context.Context) error {
	return s.provider.Health(ctx)
}
