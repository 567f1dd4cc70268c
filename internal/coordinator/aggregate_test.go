package coordinator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"herbcheck/internal/domain"
)

func check(kind domain.CheckKind, status domain.ComplianceStatus, confidence float64, issues ...string) domain.CheckResult {
	return domain.CheckResult{
		Kind:            kind,
		Status:          status,
		Confidence:      confidence,
		Issues:          append([]string{}, issues...),
		Warnings:        []string{},
		Recommendations: []string{},
	}
}

func TestAggregate_WorstStatusWins(t *testing.T) {
	tests := []struct {
		name   string
		checks []domain.CheckResult
		want   domain.ComplianceStatus
	}{
		{
			name: "compliant and review",
			checks: []domain.CheckResult{
				check(domain.CheckBasic, domain.StatusCompliant, 1),
				check(domain.CheckRegulatory, domain.StatusRequiresReview, 0.6),
			},
			want: domain.StatusRequiresReview,
		},
		{
			name: "all three",
			checks: []domain.CheckResult{
				check(domain.CheckBasic, domain.StatusCompliant, 1),
				check(domain.CheckRegulatory, domain.StatusNonCompliant, 0.4, "Compliance violation: x"),
				check(domain.CheckEnvironmental, domain.StatusRequiresReview, 0.6),
			},
			want: domain.StatusNonCompliant,
		},
		{
			name: "pending and compliant",
			checks: []domain.CheckResult{
				check(domain.CheckBasic, domain.StatusCompliant, 1),
				check(domain.CheckQuality, domain.StatusPending, 0.5),
			},
			want: domain.StatusCompliant,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Aggregate("evt", tt.checks)
			assert.Equal(t, tt.want, r.Status)
			assert.Equal(t, domain.StateCompleted, r.State)
		})
	}
}

func TestAggregate_AllErrored(t *testing.T) {
	r := Aggregate("evt", []domain.CheckResult{
		domain.ErrorResult(domain.CheckRegulatory, errors.New("down")),
		domain.ErrorResult(domain.CheckEnvironmental, errors.New("down")),
	})

	assert.Equal(t, domain.StateFailed, r.State)
	assert.Equal(t, domain.StatusRequiresReview, r.Status)
	assert.Zero(t, r.Confidence)
	assert.Equal(t, SummaryFailed, r.Summary)
	assert.Equal(t, []string{"Retry validation", "Contact technical support"}, r.NextSteps)
	assert.Contains(t, r.Warnings, "Validation error: down")
	assert.Empty(t, r.DataSources)
}

func TestAggregate_Empty(t *testing.T) {
	r := Aggregate("evt", nil)
	assert.Equal(t, domain.StateFailed, r.State)
	assert.Equal(t, domain.StatusRequiresReview, r.Status)
	assert.NotEmpty(t, r.NextSteps)
}

func TestAggregate_ConfidencePenalty(t *testing.T) {
	r := Aggregate("evt", []domain.CheckResult{
		check(domain.CheckBasic, domain.StatusCompliant, 1),
		check(domain.CheckRegulatory, domain.StatusCompliant, 1),
		check(domain.CheckQuality, domain.StatusCompliant, 0.9),
		domain.ErrorResult(domain.CheckEnvironmental, errors.New("timeout")),
	})
	// mean (1+1+0.9+0)/4 = 0.725, times 0.8
	assert.Equal(t, 0.58, r.Confidence)
	assert.Equal(t, domain.StatePartialFailure, r.State)
}

func TestErrorPenalty(t *testing.T) {
	assert.Equal(t, 1.0, ErrorPenalty(0))
	assert.InDelta(t, 0.8, ErrorPenalty(1), 1e-9)
	assert.InDelta(t, 0.6, ErrorPenalty(2), 1e-9)
	assert.Equal(t, 0.5, ErrorPenalty(3))
	assert.Equal(t, 0.5, ErrorPenalty(10))
}

func TestSummaries(t *testing.T) {
	warned := check(domain.CheckBasic, domain.StatusCompliant, 1)
	warned.Warnings = []string{"Harvest is 5 days old - quality may be affected"}
	assert.Equal(t, "Compliant with warnings - 1 warning(s)", Aggregate("evt", []domain.CheckResult{warned}).Summary)

	review := Aggregate("evt", []domain.CheckResult{
		check(domain.CheckBasic, domain.StatusCompliant, 1),
		check(domain.CheckRegulatory, domain.StatusRequiresReview, 0.6),
		check(domain.CheckQuality, domain.StatusRequiresReview, 0, "No quality metrics provided"),
	})
	assert.Equal(t, "Requires review - 2 item(s) need attention", review.Summary)
	assert.Equal(t, []string{
		"Review flagged items with regulatory expert",
		"Consider additional documentation or verification",
		StepUpdateTraceability,
	}, review.NextSteps)
}

func TestNextSteps_PermitPattern(t *testing.T) {
	r := Aggregate("evt", []domain.CheckResult{
		check(domain.CheckBasic, domain.StatusRequiresReview, 1, "Unusually large quantity - may require special permits"),
		check(domain.CheckRegulatory, domain.StatusNonCompliant, 0.2, "Compliance violation: Collection restricted in Northern India"),
	})
	assert.Contains(t, r.NextSteps, "Obtain required permits and licenses")
	assert.Contains(t, r.NextSteps, "Reduce collection quantity or split into multiple permits")
	assert.NotContains(t, r.NextSteps, "Wait for appropriate harvesting season")
}
