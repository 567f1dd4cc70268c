package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"herbcheck/internal/search"
	"herbcheck/pkg/platform/httputil"
	"herbcheck/pkg/requestcontext"
)

// Service defines the insight lookups the handler needs.
type Service interface {
	Insights(ctx context.Context, species, region string) (*search.Insights, error)
}

// Handler serves web-search backed regulatory insights.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{service: service, logger: logger}
}

// Register registers the insights route with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/v1/insights", h.handleInsights)
}

func (h *Handler) handleInsights(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	insights, err := h.service.Insights(ctx, q.Get("species"), q.Get("region"))
	if err != nil {
		h.logger.WarnContext(ctx, "insights lookup failed",
			"request_id", requestcontext.RequestID(ctx),
			"species", q.Get("species"),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, insights)
}
