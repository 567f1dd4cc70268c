package regulatory

import (
	"fmt"
	"sort"

	"herbcheck/internal/domain"
)

// QualityStandards are the maximum permitted values per parameter.
type QualityStandards struct {
	MaxMoisture  float64 // percent
	MaxAsh       float64 // percent
	MaxLead      float64 // ppm
	MaxMercury   float64 // ppm
	MaxCadmium   float64 // ppm
	MaxPesticide float64 // ppm
}

// DefaultQualityStandards returns the pharmacopoeia ceilings.
func DefaultQualityStandards() QualityStandards {
	return QualityStandards{
		MaxMoisture:  12,
		MaxAsh:       10,
		MaxLead:      10,
		MaxMercury:   1,
		MaxCadmium:   0.3,
		MaxPesticide: 0.01,
	}
}

// Limit is the ceiling for one parameter.
type Limit struct {
	Max  float64 `json:"max"`
	Unit string  `json:"unit"`
}

// Limits returns the standards keyed by parameter name.
func (s QualityStandards) Limits() map[string]Limit {
	return map[string]Limit{
		domain.ParamMoisture:               {Max: s.MaxMoisture, Unit: "percentage"},
		domain.ParamAsh:                    {Max: s.MaxAsh, Unit: "percentage"},
		domain.ParamHeavyMetal + "lead":    {Max: s.MaxLead, Unit: "ppm"},
		domain.ParamHeavyMetal + "mercury": {Max: s.MaxMercury, Unit: "ppm"},
		domain.ParamHeavyMetal + "cadmium": {Max: s.MaxCadmium, Unit: "ppm"},
		domain.ParamPesticide:              {Max: s.MaxPesticide, Unit: "ppm"},
	}
}

// QualityReport is the outcome of a quality standards evaluation.
type QualityReport struct {
	OverallCompliant bool                     `json:"overall_compliant"`
	ComplianceRate   float64                  `json:"compliance_rate"`
	Parameters       []domain.ParameterResult `json:"parameter_results"`
	Summary          string                   `json:"summary"`
}

// Evaluated returns how many parameters had a known standard.
func (r QualityReport) Evaluated() int { return len(r.Parameters) }

// Failed returns the names of parameters over their ceiling.
func (r QualityReport) Failed() []string {
	var out []string
	for _, p := range r.Parameters {
		if !p.Compliant {
			out = append(out, p.Parameter)
		}
	}
	return out
}

func evaluateQuality(standards QualityStandards, params map[string]float64) QualityReport {
	limits := standards.Limits()

	names := make([]string, 0, len(params))
	for name := range params {
		if _, known := limits[name]; known {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	report := QualityReport{Parameters: make([]domain.ParameterResult, 0, len(names))}
	passed := 0
	for _, name := range names {
		limit := limits[name]
		value := params[name]
		ok := value <= limit.Max
		if ok {
			passed++
		}
		report.Parameters = append(report.Parameters, domain.ParameterResult{
			Parameter: name,
			Value:     value,
			Max:       limit.Max,
			Unit:      limit.Unit,
			Compliant: ok,
		})
	}

	report.OverallCompliant = passed == len(names)
	if len(names) > 0 {
		report.ComplianceRate = float64(passed) / float64(len(names))
	}
	report.Summary = qualitySummary(len(names), passed)
	return report
}

func qualitySummary(total, passed int) string {
	switch {
	case total == 0:
		return "No quality parameters validated"
	case passed == total:
		return fmt.Sprintf("All quality parameters meet standards (%d/%d)", passed, total)
	default:
		return fmt.Sprintf("Quality issues found - %d parameter(s) out of specification", total-passed)
	}
}
