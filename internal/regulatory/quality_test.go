package regulatory

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"herbcheck/internal/domain"
)

func TestValidateQuality(t *testing.T) {
	engine := New()

	tests := []struct {
		name        string
		params      map[string]float64
		wantOverall bool
		wantRate    float64
		wantFailed  []string
		wantSummary string
	}{
		{
			name:        "all within limits",
			params:      map[string]float64{"moisture_content": 10, "ash_content": 10},
			wantOverall: true,
			wantRate:    1,
			wantSummary: "All quality parameters meet standards (2/2)",
		},
		{
			name:        "heavy metal over limit",
			params:      map[string]float64{"moisture_content": 8, "heavy_metals.cadmium": 0.5},
			wantOverall: false,
			wantRate:    0.5,
			wantFailed:  []string{"heavy_metals.cadmium"},
			wantSummary: "Quality issues found - 1 parameter(s) out of specification",
		},
		{
			name:        "unknown parameters ignored",
			params:      map[string]float64{"colour": 3, "pesticide_residues": 0.02},
			wantOverall: false,
			wantRate:    0,
			wantFailed:  []string{"pesticide_residues"},
			wantSummary: "Quality issues found - 1 parameter(s) out of specification",
		},
		{
			name:        "nothing evaluated",
			params:      map[string]float64{"colour": 3},
			wantOverall: true,
			wantRate:    0,
			wantSummary: "No quality parameters validated",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := engine.ValidateQuality(tt.params)
			assert.Equal(t, tt.wantOverall, r.OverallCompliant)
			assert.Equal(t, tt.wantRate, r.ComplianceRate)
			assert.Equal(t, tt.wantFailed, r.Failed())
			assert.Equal(t, tt.wantSummary, r.Summary)
		})
	}
}

func TestValidateQuality_CustomStandards(t *testing.T) {
	s := DefaultQualityStandards()
	s.MaxMoisture = 8
	r := New(WithQualityStandards(s)).ValidateQuality(map[string]float64{"moisture_content": 9})
	assert.False(t, r.OverallCompliant)
}

func TestQualityCheckResult(t *testing.T) {
	engine := New()

	t.Run("no measurements", func(t *testing.T) {
		r := QualityCheckResult(engine.ValidateQuality(nil), &domain.QualityMetrics{})
		assert.Equal(t, domain.StatusRequiresReview, r.Status)
		assert.Zero(t, r.Confidence)
		assert.Equal(t, []string{"No quality metrics provided"}, r.Issues)
	})

	t.Run("borderline pass rate", func(t *testing.T) {
		params := map[string]float64{
			"moisture_content": 10, "ash_content": 5, "heavy_metals.lead": 2, "pesticide_residues": 0.5,
		}
		r := QualityCheckResult(engine.ValidateQuality(params), nil)
		assert.Equal(t, domain.StatusNonCompliant, r.Status)
		assert.Equal(t, 0.75, r.Confidence)
		assert.Equal(t, []string{"Quality parameters failed: pesticide_residues"}, r.Issues)
		assert.Equal(t, []string{"Some quality parameters are borderline - monitor closely"}, r.Warnings)
	})

	t.Run("contamination and poor visual grade", func(t *testing.T) {
		contaminated, score := true, 3
		metrics := &domain.QualityMetrics{Contaminated: &contaminated, VisualScore: &score}
		r := QualityCheckResult(engine.ValidateQuality(metrics.Parameters()), metrics)
		assert.Equal(t, domain.StatusNonCompliant, r.Status)
		assert.Equal(t, 0.5, r.Confidence)
		assert.Contains(t, r.Issues, "Contamination detected in collected material")
		assert.Contains(t, r.Warnings, "Low visual quality score (3/10) - inspect material")

		p, ok := r.Payload.(*domain.QualityPayload)
		assert.True(t, ok)
		assert.False(t, p.OverallCompliant)
	})

	t.Run("visual grade off scale", func(t *testing.T) {
		for _, score := range []int{0, 42, -3} {
			metrics := &domain.QualityMetrics{VisualScore: &score}
			r := QualityCheckResult(engine.ValidateQuality(metrics.Parameters()), metrics)
			assert.Contains(t, r.Warnings, fmt.Sprintf("Visual quality score %d is outside the 1-10 scale - re-grade material", score))
			assert.NotContains(t, r.Warnings, fmt.Sprintf("Low visual quality score (%d/10) - inspect material", score))
		}
	})

	t.Run("clean", func(t *testing.T) {
		r := QualityCheckResult(engine.ValidateQuality(map[string]float64{"moisture_content": 9}), nil)
		assert.Equal(t, domain.StatusCompliant, r.Status)
		assert.Equal(t, 1.0, r.Confidence)
		assert.Empty(t, r.Issues)
	})
}
