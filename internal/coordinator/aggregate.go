package coordinator

import (
	"fmt"
	"math"

	"herbcheck/internal/domain"
	strutil "herbcheck/pkg/platform/strings"
)

// Summary and next-step texts.
const (
	SummaryFailed          = "Validation failed due to technical errors"
	SummaryFullCompliance  = "Full compliance - All requirements met"
	SummaryUnknown         = "Compliance status unknown"
	StepUpdateTraceability = "Update traceability records"

	stepRetry             = "Retry validation"
	stepContactSupport    = "Contact technical support"
	stepAddressViolations = "Address compliance violations before proceeding"
	stepObtainPermits     = "Obtain required permits and licenses"
	stepWaitForSeason     = "Wait for appropriate harvesting season"
	stepReduceQuantity    = "Reduce collection quantity or split into multiple permits"
	stepExpertReview      = "Review flagged items with regulatory expert"
	stepVerifyLocation    = "Verify location data and satellite connectivity"
	stepMoreDocumentation = "Consider additional documentation or verification"
	stepProceed           = "Proceed with collection following best practices"
	stepKeepRecords       = "Maintain detailed records of collection process"
	stepQualityTesting    = "Conduct quality testing after processing"
)

const (
	minErrorPenaltyFactor  = 0.5
	errorPenaltyPerFailure = 0.2
)

// Aggregate folds check results into a ValidationResult. Overall status is
// the most severe check status; confidence is the mean check confidence,
// penalized when checks errored. When no check succeeded the generic
// failure result is returned.
func Aggregate(eventID string, checks []domain.CheckResult) *domain.ValidationResult {
	result := &domain.ValidationResult{
		EventID: eventID,
		Checks:  checks,
	}

	errored := 0
	statuses := make([]domain.ComplianceStatus, 0, len(checks))
	var warnings, recs [][]string
	var sources []string
	var sum float64
	for _, c := range checks {
		statuses = append(statuses, c.Status)
		sum += c.Confidence
		warnings = append(warnings, c.Warnings)
		recs = append(recs, c.Recommendations)
		if c.Errored() {
			errored++
			continue
		}
		sources = append(sources, string(c.Kind))
	}
	result.Warnings = strutil.Union(warnings...)
	result.Recommendations = strutil.Union(recs...)
	result.DataSources = strutil.Union(sources)

	if errored == len(checks) {
		result.State = domain.StateFailed
		result.Status = domain.StatusRequiresReview
		result.Confidence = 0
		result.Summary = SummaryFailed
		result.NextSteps = []string{stepRetry, stepContactSupport}
		return result
	}

	result.Status = domain.Worst(statuses...)
	result.State = domain.StateCompleted
	confidence := sum / float64(len(checks))
	if errored > 0 {
		result.State = domain.StatePartialFailure
		confidence *= ErrorPenalty(errored)
	}
	result.Confidence = domain.Round3(confidence)
	result.Summary = summarize(result.Status, checks, len(result.Warnings))
	result.NextSteps = nextSteps(result.Status, checks)
	return result
}

// ErrorPenalty is the confidence multiplier for n errored checks.
func ErrorPenalty(n int) float64 {
	if n <= 0 {
		return 1
	}
	return math.Max(minErrorPenaltyFactor, 1-errorPenaltyPerFailure*float64(n))
}

func summarize(status domain.ComplianceStatus, checks []domain.CheckResult, warnings int) string {
	switch status {
	case domain.StatusNonCompliant:
		violations := 0
		for _, c := range checks {
			if c.Status == domain.StatusNonCompliant {
				violations += len(c.Issues)
			}
		}
		return fmt.Sprintf("Non-compliant - %d violation(s) found", max(1, violations))
	case domain.StatusRequiresReview:
		items := 0
		for _, c := range checks {
			if c.Status == domain.StatusRequiresReview {
				items += max(1, len(c.Issues))
			}
		}
		return fmt.Sprintf("Requires review - %d item(s) need attention", items)
	case domain.StatusCompliant:
		if warnings > 0 {
			return fmt.Sprintf("Compliant with warnings - %d warning(s)", warnings)
		}
		return SummaryFullCompliance
	default:
		return SummaryUnknown
	}
}

func nextSteps(status domain.ComplianceStatus, checks []domain.CheckResult) []string {
	var findings []string
	environmental := false
	for _, c := range checks {
		findings = append(findings, c.Issues...)
		// Failed rule names count as findings too.
		if p, ok := c.Payload.(*domain.RegulatoryPayload); ok {
			for _, rc := range p.Checks {
				if rc.Status == domain.StatusNonCompliant {
					findings = append(findings, rc.Name)
				}
			}
		}
		if c.Kind == domain.CheckEnvironmental {
			environmental = true
		}
	}

	var steps []string
	switch status {
	case domain.StatusNonCompliant:
		steps = append(steps, stepAddressViolations)
		if strutil.AnyContainsFold(findings, "permit") {
			steps = append(steps, stepObtainPermits)
		}
		if strutil.AnyContainsFold(findings, "season") {
			steps = append(steps, stepWaitForSeason)
		}
		if strutil.AnyContainsFold(findings, "quantity") {
			steps = append(steps, stepReduceQuantity)
		}
	case domain.StatusRequiresReview:
		steps = append(steps, stepExpertReview)
		if environmental {
			steps = append(steps, stepVerifyLocation)
		}
		steps = append(steps, stepMoreDocumentation)
	case domain.StatusCompliant:
		steps = append(steps, stepProceed, stepKeepRecords, stepQualityTesting)
	}
	steps = append(steps, StepUpdateTraceability)
	return strutil.Union(steps)
}
