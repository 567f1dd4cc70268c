package environment

import (
	"fmt"
	"slices"
	"strings"

	"herbcheck/internal/domain"
)

const baseValidationScore = 0.8

var appropriateLandUses = []string{LandAgricultural, LandForest, LandMixedVegetation, LandGrassland}

// Score computes the site validation score from raw readings, clamped to [0.1, 1].
func Score(s domain.SignalSnapshot) float64 {
	score := baseValidationScore
	if s.CloudCover > 70 {
		score -= 0.2
	}
	if s.VegetationIndex < 0.4 {
		score -= 0.1
	}
	if s.LandUse == LandBarren {
		score -= 0.3
	}
	return domain.Round3(max(0.1, min(1.0, score)))
}

// DetectAnomalies lists notable conditions in the readings.
func DetectAnomalies(s domain.SignalSnapshot) []string {
	anomalies := []string{}
	if s.VegetationIndex < 0.3 {
		anomalies = append(anomalies, "Low vegetation cover detected")
	}
	if s.CloudCover > 80 {
		anomalies = append(anomalies, "High cloud cover affecting image quality")
	}
	if s.LandUse == LandBarren {
		anomalies = append(anomalies, "Barren land detected - unsuitable for herb collection")
	}
	if s.VegetationIndex > 0.8 && s.LandUse == LandAgricultural {
		anomalies = append(anomalies, "Unusually high vegetation - possible irrigation or fertilization")
	}
	return anomalies
}

// LandUseAppropriate reports whether herbs may be collected on the land class.
func LandUseAppropriate(landUse string) bool {
	return slices.Contains(appropriateLandUses, landUse)
}

func vegetationHealth(ndvi float64) string {
	switch {
	case ndvi >= 0.6:
		return "good"
	case ndvi >= 0.4:
		return "moderate"
	default:
		return "poor"
	}
}

func imageQuality(cloud float64) string {
	switch {
	case cloud < 30:
		return "good"
	case cloud < 70:
		return "moderate"
	default:
		return "poor"
	}
}

func statusFor(score float64, anomalies []string) domain.ComplianceStatus {
	switch {
	case score >= 0.8 && len(anomalies) == 0:
		return domain.StatusCompliant
	case score >= 0.6:
		return domain.StatusRequiresReview
	default:
		return domain.StatusNonCompliant
	}
}

func siteIssues(s domain.SignalSnapshot) []string {
	issues := []string{}
	for _, a := range s.Anomalies {
		lower := strings.ToLower(a)
		if strings.Contains(lower, "barren") || strings.Contains(lower, "unsuitable") {
			issues = append(issues, "Location issue: "+a)
		}
	}
	if s.ValidationScore < 0.5 {
		issues = append(issues, "Low satellite validation confidence - location may be inappropriate")
	}
	return issues
}

func siteWarnings(s domain.SignalSnapshot) []string {
	warnings := []string{}
	if s.CloudCover > 70 {
		warnings = append(warnings, fmt.Sprintf("High cloud cover (%g%%) may affect validation accuracy", s.CloudCover))
	}
	if s.VegetationIndex < 0.4 {
		warnings = append(warnings, "Low vegetation index detected - verify site suitability")
	}
	for _, a := range s.Anomalies {
		lower := strings.ToLower(a)
		if strings.Contains(lower, "high") || strings.Contains(lower, "unusual") {
			warnings = append(warnings, "Satellite observation: "+a)
		}
	}
	return warnings
}

func siteRecommendations(s domain.SignalSnapshot) []string {
	recs := []string{}
	switch {
	case s.VegetationIndex > 0.7:
		recs = append(recs, "Good vegetation health - optimal for collection")
	case s.VegetationIndex < 0.4:
		recs = append(recs, "Consider alternative locations with better vegetation")
	}
	switch s.LandUse {
	case LandAgricultural:
		recs = append(recs, "Verify organic cultivation practices if applicable")
	case LandForest:
		recs = append(recs, "Follow sustainable wild harvesting practices")
	}
	return recs
}

// FailureResult is the check result for an environmental lookup that could
// not complete. It counts as an errored check.
func FailureResult(err error) domain.CheckResult {
	r := domain.ErrorResult(domain.CheckEnvironmental, err)
	r.Warnings = append(r.Warnings, "Could not verify location using satellite data")
	r.Recommendations = []string{"Retry validation", "Provide additional location verification"}
	return r
}

func invalidLocationResult() domain.CheckResult {
	return domain.CheckResult{
		Kind:            domain.CheckEnvironmental,
		Status:          domain.StatusRequiresReview,
		Confidence:      0,
		Issues:          []string{"Environmental validation failed: coordinates out of valid range"},
		Warnings:        []string{"Could not verify location using satellite data"},
		Recommendations: []string{"Provide additional location verification"},
	}
}
