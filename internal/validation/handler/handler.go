package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"herbcheck/internal/domain"
	"herbcheck/internal/outcome"
	"herbcheck/internal/validation"
	dErrors "herbcheck/pkg/domain-errors"
	"herbcheck/pkg/platform/httputil"
	"herbcheck/pkg/requestcontext"
)

// Service defines the validation operations the handler needs.
type Service interface {
	Validate(ctx context.Context, req validation.Request) *domain.ValidationResult
}

// OutcomeLister returns retained outcome events for one collection event.
type OutcomeLister interface {
	ForEvent(eventID string) []outcome.Event
}

// Handler serves the validation endpoints.
type Handler struct {
	service  Service
	outcomes OutcomeLister
	logger   *slog.Logger
}

// New creates a validation Handler. outcomes may be nil when outcomes are
// published to an external broker only.
func New(service Service, outcomes OutcomeLister, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{service: service, outcomes: outcomes, logger: logger}
}

// Register registers the validation routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/v1/validations", h.handleValidate)
	r.Get("/v1/validations/{eventID}/outcomes", h.handleOutcomes)
}

type validateRequest struct {
	Event           domain.CollectionEvent `json:"event"`
	ValidationTypes []string               `json:"validation_types"`
	UseAIAnalysis   bool                   `json:"use_ai_analysis"`

	types []domain.ValidationType
}

// Validate checks the fields the coordinator cannot sensibly default.
func (r *validateRequest) Validate() error {
	r.Event.ID = strings.TrimSpace(r.Event.ID)
	r.Event.Species.CommonName = strings.TrimSpace(r.Event.Species.CommonName)
	if r.Event.Species.CommonName == "" {
		return dErrors.New(dErrors.CodeValidation, "event.species.common_name is required")
	}
	if r.Event.Timestamp.IsZero() {
		return dErrors.New(dErrors.CodeValidation, "event.timestamp is required")
	}
	if !r.Event.Quality.VisualScoreInRange() {
		return dErrors.New(dErrors.CodeValidation, "event.quality_metrics.visual_quality_score must be between 1 and 10")
	}
	for _, raw := range r.ValidationTypes {
		t, err := domain.ParseValidationType(raw)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeValidation, err.Error())
		}
		r.types = append(r.types, t)
	}
	return nil
}

func (h *Handler) handleValidate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[validateRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result := h.service.Validate(ctx, validation.Request{
		Event: req.Event,
		Types: req.types,
		UseAI: req.UseAIAnalysis,
	})
	httputil.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) handleOutcomes(w http.ResponseWriter, r *http.Request) {
	if h.outcomes == nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "outcome history is not retained"))
		return
	}
	eventID := chi.URLParam(r, "eventID")
	events := h.outcomes.ForEvent(eventID)
	if events == nil {
		events = []outcome.Event{}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"event_id": eventID,
		"outcomes": events,
	})
}
