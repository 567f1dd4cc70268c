// Package enrichment merges a text-completion assessment into a finished
// validation result. Enrichment never changes the overall status and never
// fails the validation it decorates.
package enrichment

import (
	"context"
	"log/slog"
	"math"
	"strings"

	"herbcheck/internal/domain"
	"herbcheck/internal/enrichment/llm"
	"herbcheck/internal/regulatory"
	dErrors "herbcheck/pkg/domain-errors"
	strutil "herbcheck/pkg/platform/strings"
)

// Enricher asks a completion service for a second opinion on a result.
type Enricher struct {
	completer llm.Completer
	logger    *slog.Logger
}

type Option func(*Enricher)

func WithLogger(logger *slog.Logger) Option {
	return func(e *Enricher) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// New returns an Enricher backed by completer.
func New(completer llm.Completer, opts ...Option) *Enricher {
	e := &Enricher{completer: completer, logger: slog.Default()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Enrich returns a copy of result with the parsed assessment merged in:
// confidence becomes the larger of the two, recommendations, warnings and
// next steps are unioned, and "llm" joins the data sources. On any failure the
// input result is returned unchanged.
func (e *Enricher) Enrich(ctx context.Context, event domain.CollectionEvent, result *domain.ValidationResult) *domain.ValidationResult {
	if e == nil || e.completer == nil || result == nil {
		return result
	}

	text, err := e.completer.Complete(ctx, CompliancePrompt(event, result))
	if err != nil {
		e.logger.WarnContext(ctx, "ai enrichment failed",
			"event_id", event.ID,
			"error", err,
		)
		return result
	}
	assessment := ParseAssessment(text)

	merged := *result
	merged.Confidence = domain.Round3(math.Max(result.Confidence, assessment.Confidence))
	merged.Recommendations = strutil.Union(result.Recommendations, assessment.Recommendations)
	merged.Warnings = strutil.Union(result.Warnings, assessment.Warnings)
	merged.NextSteps = strutil.Union(result.NextSteps, assessment.NextSteps)
	merged.DataSources = strutil.Union(result.DataSources, []string{domain.SourceLLM})
	merged.AIAnalysis = &assessment

	e.logger.InfoContext(ctx, "ai enrichment applied",
		"event_id", event.ID,
		"ai_status", assessment.Status,
		"ai_confidence", assessment.Confidence,
	)
	return &merged
}

// Recommend asks for remediation steps for the given issues.
func (e *Enricher) Recommend(ctx context.Context, species string, issues []string, extra map[string]any) ([]string, error) {
	if e == nil || e.completer == nil {
		return nil, dErrors.New(dErrors.CodeUnavailable, "completion client not configured")
	}
	if strings.TrimSpace(species) == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "species is required")
	}
	if len(issues) == 0 {
		return []string{}, nil
	}

	text, err := e.completer.Complete(ctx, RecommendationPrompt(species, issues, extra))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "generate recommendations")
	}
	return ParseRecommendations(text), nil
}

// RecommendFor generates recommendations for a non-compliant result and
// returns result with them unioned in. Other results pass through unchanged.
func (e *Enricher) RecommendFor(ctx context.Context, species string, result *domain.ValidationResult) *domain.ValidationResult {
	if result == nil || result.Status != domain.StatusNonCompliant {
		return result
	}
	recs, err := e.Recommend(ctx, species, result.Issues(), map[string]any{
		"event_id": result.EventID,
		"summary":  result.Summary,
	})
	if err != nil {
		e.logger.WarnContext(ctx, "recommendation generation failed", "event_id", result.EventID, "error", err)
		return result
	}
	merged := *result
	merged.Recommendations = strutil.Union(result.Recommendations, recs)
	return &merged
}

// Explain describes a requirements bundle in plain language.
func (e *Enricher) Explain(ctx context.Context, species string, req *regulatory.Requirements) (string, error) {
	if e == nil || e.completer == nil {
		return "", dErrors.New(dErrors.CodeUnavailable, "completion client not configured")
	}
	if req == nil {
		return "", dErrors.New(dErrors.CodeValidation, "requirements are required")
	}
	text, err := e.completer.Complete(ctx, ExplanationPrompt(species, req))
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeUnavailable, "explain requirements")
	}
	return strings.TrimSpace(text), nil
}
