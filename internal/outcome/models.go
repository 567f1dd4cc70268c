// Package outcome publishes a record of every finished validation so
// downstream traceability systems can follow verdicts without polling.
package outcome

import (
	"context"
	"time"

	"github.com/google/uuid"

	"herbcheck/internal/domain"
)

// Event is the published summary of one validation.
type Event struct {
	ID              string                                       `json:"id"`
	EventID         string                                       `json:"event_id"`
	Species         string                                       `json:"species"`
	CollectorID     string                                       `json:"collector_id"`
	Status          domain.ComplianceStatus                      `json:"overall_status"`
	Confidence      float64                                      `json:"confidence_score"`
	State           domain.State                                 `json:"state"`
	Summary         string                                       `json:"compliance_summary"`
	Checks          map[domain.CheckKind]domain.ComplianceStatus `json:"checks"`
	DataSources     []string                                     `json:"data_sources_used"`
	AIEnriched      bool                                         `json:"ai_enriched"`
	ValidatedAt     time.Time                                    `json:"validation_timestamp"`
	DurationSeconds float64                                      `json:"validation_duration_seconds"`
}

// Sink receives outcome events.
type Sink interface {
	Publish(ctx context.Context, event Event) error
}

// FromResult builds the outcome event for a finished validation.
func FromResult(event domain.CollectionEvent, result *domain.ValidationResult) Event {
	checks := make(map[domain.CheckKind]domain.ComplianceStatus, len(result.Checks))
	for _, c := range result.Checks {
		checks[c.Kind] = c.Status
	}
	return Event{
		ID:              uuid.NewString(),
		EventID:         result.EventID,
		Species:         event.Species.CommonName,
		CollectorID:     event.Collector.ID,
		Status:          result.Status,
		Confidence:      result.Confidence,
		State:           result.State,
		Summary:         result.Summary,
		Checks:          checks,
		DataSources:     append([]string(nil), result.DataSources...),
		AIEnriched:      result.AIAnalysis != nil,
		ValidatedAt:     result.ValidatedAt,
		DurationSeconds: result.DurationSeconds,
	}
}
