//go:build property
// +build property

package coordinator

import (
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"herbcheck/internal/domain"
)

var allStatuses = []domain.ComplianceStatus{
	domain.StatusPending, domain.StatusCompliant, domain.StatusRequiresReview, domain.StatusNonCompliant,
}

// checksFrom builds check results from generated codes: code%4 picks the
// status, code%5==0 marks the check as errored.
func checksFrom(codes []int, confidences []float64) []domain.CheckResult {
	out := make([]domain.CheckResult, 0, len(codes))
	for i, code := range codes {
		if code%5 == 0 {
			out = append(out, domain.ErrorResult(domain.CheckRegulatory, errors.New("generated failure")))
			continue
		}
		conf := 0.5
		if i < len(confidences) {
			conf = confidences[i]
		}
		out = append(out, check(domain.CheckQuality, allStatuses[code%4], conf, "generated issue"))
	}
	return out
}

// TestAggregateProperties checks the aggregation invariants.
// Property: status is the worst status, confidence stays in [0,1],
// next steps are never empty and order of checks is irrelevant.
func TestAggregateProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	codesGen := gen.SliceOf(gen.IntRange(1, 100))
	confGen := gen.SliceOf(gen.Float64Range(0, 1))

	properties.Property("overall status is the most severe check status", prop.ForAll(
		func(codes []int, confidences []float64) bool {
			checks := checksFrom(codes, confidences)
			r := Aggregate("evt", checks)
			if r.State == domain.StateFailed {
				return r.Status == domain.StatusRequiresReview
			}
			statuses := make([]domain.ComplianceStatus, 0, len(checks))
			for _, c := range checks {
				statuses = append(statuses, c.Status)
			}
			return r.Status == domain.Worst(statuses...)
		},
		codesGen, confGen,
	))

	properties.Property("confidence stays within [0,1]", prop.ForAll(
		func(codes []int, confidences []float64) bool {
			r := Aggregate("evt", checksFrom(codes, confidences))
			return r.Confidence >= 0 && r.Confidence <= 1
		},
		codesGen, confGen,
	))

	properties.Property("next steps are never empty", prop.ForAll(
		func(codes []int, confidences []float64) bool {
			return len(Aggregate("evt", checksFrom(codes, confidences)).NextSteps) > 0
		},
		codesGen, confGen,
	))

	properties.Property("aggregation ignores completion order", prop.ForAll(
		func(codes []int, confidences []float64) bool {
			checks := checksFrom(codes, confidences)
			reversed := slices.Clone(checks)
			slices.Reverse(reversed)

			a := Aggregate("evt", checks)
			b := Aggregate("evt", reversed)
			return a.Status == b.Status &&
				a.State == b.State &&
				math.Abs(a.Confidence-b.Confidence) <= 0.001 &&
				sameSet(a.Warnings, b.Warnings) &&
				sameSet(a.NextSteps, b.NextSteps) &&
				sameSet(a.DataSources, b.DataSources)
		},
		codesGen, confGen,
	))

	properties.Property("every errored input still yields remediation steps", prop.ForAll(
		func(n int) bool {
			checks := make([]domain.CheckResult, n)
			for i := range checks {
				checks[i] = domain.ErrorResult(domain.CheckEnvironmental, errors.New("down"))
			}
			r := Aggregate("evt", checks)
			return r.Status == domain.StatusRequiresReview &&
				r.State == domain.StateFailed &&
				slices.Equal(r.NextSteps, []string{"Retry validation", "Contact technical support"})
		},
		gen.IntRange(0, 6),
	))

	properties.TestingRun(t)
}

func sameSet(a, b []string) bool {
	x, y := slices.Clone(a), slices.Clone(b)
	slices.Sort(x)
	slices.Sort(y)
	return slices.Equal(x, y)
}
