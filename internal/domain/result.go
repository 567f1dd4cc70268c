package domain

import "time"

// State is the coordinator's lifecycle state for one validation call.
type State string

const (
	StatePending        State = "pending"
	StateRunning        State = "running"
	StateCompleted      State = "completed"
	StatePartialFailure State = "partial_failure"
	StateFailed         State = "failed"
)

// SourceLLM is the data source label added by text-completion enrichment.
// Check results report their CheckKind as the data source.
const SourceLLM = "llm"

// AIAssessment is the parsed text-completion analysis attached by enrichment.
type AIAssessment struct {
	Status          ComplianceStatus `json:"status"`
	Confidence      float64          `json:"confidence"`
	Issues          []string         `json:"issues"`
	Warnings        []string         `json:"warnings"`
	Recommendations []string         `json:"recommendations"`
	NextSteps       []string         `json:"next_steps"`
}

// ValidationResult is the aggregated verdict for one collection event.
type ValidationResult struct {
	EventID         string           `json:"event_id"`
	ValidatedAt     time.Time        `json:"validation_timestamp"`
	Status          ComplianceStatus `json:"overall_status"`
	Confidence      float64          `json:"confidence_score"`
	Summary         string           `json:"compliance_summary"`
	Recommendations []string         `json:"recommendations"`
	Warnings        []string         `json:"warnings"`
	NextSteps       []string         `json:"next_steps"`
	DataSources     []string         `json:"data_sources_used"`
	Checks          []CheckResult    `json:"checks"`
	State           State            `json:"state"`
	Duration        time.Duration    `json:"-"`
	DurationSeconds float64          `json:"validation_duration_seconds"`
	AIAnalysis      *AIAssessment    `json:"ai_analysis,omitempty"`
}

// Check returns the first result of the given kind.
func (r *ValidationResult) Check(kind CheckKind) (CheckResult, bool) {
	for _, c := range r.Checks {
		if c.Kind == kind {
			return c, true
		}
	}
	return CheckResult{}, false
}

// Issues returns every issue across all checks.
func (r *ValidationResult) Issues() []string {
	var out []string
	for _, c := range r.Checks {
		out = append(out, c.Issues...)
	}
	return out
}
