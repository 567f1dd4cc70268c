package regulatory

import (
	"fmt"
	"strings"

	"herbcheck/internal/domain"
)

// CheckResultFrom converts a rule report into the coordinator's check result.
// Confidence is the compliance score.
func CheckResultFrom(r *Report) domain.CheckResult {
	issues := make([]string, 0, len(r.Restrictions)+1)
	for _, restriction := range r.Restrictions {
		issues = append(issues, "Compliance violation: "+restriction)
	}
	if r.NonCompliantChecks > 0 {
		issues = append(issues, "One or more regulatory requirements not met")
	}

	warnings := []string{}
	if r.ReviewChecks > 0 {
		warnings = append(warnings, "Some requirements need additional review")
	}
	if r.ComplianceScore >= 0.5 && r.ComplianceScore < 0.8 {
		warnings = append(warnings, "Moderate compliance score - review all requirements carefully")
	}

	return domain.CheckResult{
		Kind:            domain.CheckRegulatory,
		Status:          r.OverallStatus,
		Confidence:      r.ComplianceScore,
		Issues:          issues,
		Warnings:        warnings,
		Recommendations: append([]string{}, r.Recommendations...),
		Payload: &domain.RegulatoryPayload{
			Region:          r.Region,
			Season:          string(r.Season),
			ComplianceScore: r.ComplianceScore,
			Checks:          r.Checks,
			Requirements:    r.Requirements,
			Restrictions:    r.Restrictions,
			Summary:         r.Summary,
		},
	}
}

// minVisualScore is the visual grade below which a warning is raised.
const minVisualScore = 5

// QualityCheckResult converts a quality report plus the event's qualitative
// observations into a check result.
func QualityCheckResult(r QualityReport, metrics *domain.QualityMetrics) domain.CheckResult {
	contaminated := metrics != nil && metrics.Contaminated != nil && *metrics.Contaminated
	hasObservations := metrics != nil && (metrics.Contaminated != nil || metrics.VisualScore != nil)

	payload := &domain.QualityPayload{
		OverallCompliant: r.OverallCompliant && !contaminated,
		ComplianceRate:   r.ComplianceRate,
		Parameters:       r.Parameters,
		Contaminated:     contaminated,
	}
	if metrics != nil {
		payload.VisualScore = metrics.VisualScore
	}

	if r.Evaluated() == 0 && !hasObservations {
		return domain.CheckResult{
			Kind:            domain.CheckQuality,
			Status:          domain.StatusRequiresReview,
			Confidence:      0,
			Issues:          []string{"No quality metrics provided"},
			Warnings:        []string{"Quality cannot be assessed without measurements"},
			Recommendations: []string{"Conduct quality tests", "Provide quality measurements"},
			Payload:         payload,
		}
	}

	issues := []string{}
	warnings := []string{}
	status := domain.StatusCompliant
	confidence := r.ComplianceRate
	if r.Evaluated() == 0 {
		confidence = 0.5
	}

	if failed := r.Failed(); len(failed) > 0 {
		issues = append(issues, fmt.Sprintf("Quality parameters failed: %s", strings.Join(failed, ", ")))
		status = domain.StatusNonCompliant
	}
	if r.ComplianceRate >= 0.7 && r.ComplianceRate < 1 {
		warnings = append(warnings, "Some quality parameters are borderline - monitor closely")
	}
	if contaminated {
		issues = append(issues, "Contamination detected in collected material")
		status = domain.StatusNonCompliant
	}
	switch {
	case !metrics.VisualScoreInRange():
		warnings = append(warnings, fmt.Sprintf("Visual quality score %d is outside the 1-10 scale - re-grade material", *metrics.VisualScore))
	case metrics != nil && metrics.VisualScore != nil && *metrics.VisualScore < minVisualScore:
		warnings = append(warnings, fmt.Sprintf("Low visual quality score (%d/10) - inspect material", *metrics.VisualScore))
	}

	return domain.CheckResult{
		Kind:            domain.CheckQuality,
		Status:          status,
		Confidence:      confidence,
		Issues:          issues,
		Warnings:        warnings,
		Recommendations: []string{"Maintain quality standards", "Document quality measurements"},
		Payload:         payload,
	}
}
