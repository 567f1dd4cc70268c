package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"herbcheck/internal/regulatory"
	dErrors "herbcheck/pkg/domain-errors"
	"herbcheck/pkg/platform/httputil"
	"herbcheck/pkg/requestcontext"
)

// Service defines the regulatory operations the handler needs.
type Service interface {
	FetchRequirements(ctx context.Context, species, region string) (*regulatory.Requirements, error)
	ValidateQuality(params map[string]float64) regulatory.QualityReport
}

// Explainer turns a requirements bundle into plain-language guidance.
type Explainer interface {
	Explain(ctx context.Context, species string, req *regulatory.Requirements) (string, error)
}

// Handler serves the regulatory endpoints.
type Handler struct {
	service   Service
	explainer Explainer
	logger    *slog.Logger
}

// New creates a regulatory Handler. explainer may be nil, in which case
// explain=true is ignored.
func New(service Service, explainer Explainer, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{service: service, explainer: explainer, logger: logger}
}

// Register registers the regulatory routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/v1/regulatory/requirements", h.handleRequirements)
	r.Post("/v1/regulatory/quality", h.handleQuality)
}

type requirementsResponse struct {
	*regulatory.Requirements
	Explanation string `json:"explanation,omitempty"`
}

func (h *Handler) handleRequirements(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()
	species := q.Get("species")

	req, err := h.service.FetchRequirements(ctx, species, q.Get("region"))
	if err != nil {
		h.logger.WarnContext(ctx, "requirements lookup failed",
			"request_id", requestcontext.RequestID(ctx),
			"species", species,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	resp := requirementsResponse{Requirements: req}
	if explain, _ := strconv.ParseBool(q.Get("explain")); explain && h.explainer != nil {
		text, err := h.explainer.Explain(ctx, req.Species, req)
		if err != nil {
			h.logger.WarnContext(ctx, "requirements explanation unavailable", "species", species, "error", err)
		} else {
			resp.Explanation = text
		}
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

type qualityRequest struct {
	Parameters map[string]float64 `json:"parameters"`
}

func (r *qualityRequest) Validate() error {
	if len(r.Parameters) == 0 {
		return dErrors.New(dErrors.CodeValidation, "parameters are required")
	}
	normalized := make(map[string]float64, len(r.Parameters))
	for name, v := range r.Parameters {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			return dErrors.New(dErrors.CodeValidation, "parameter names must not be empty")
		}
		if v < 0 {
			return dErrors.New(dErrors.CodeValidation, "parameter "+name+" must not be negative")
		}
		normalized[name] = v
	}
	r.Parameters = normalized
	return nil
}

func (h *Handler) handleQuality(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[qualityRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	httputil.WriteJSON(w, http.StatusOK, h.service.ValidateQuality(req.Parameters))
}
