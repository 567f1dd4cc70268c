package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"herbcheck/internal/domain"
	"herbcheck/internal/environment"
	"herbcheck/pkg/platform/httputil"
)

// Service defines the site analysis operations the handler needs.
type Service interface {
	VegetationHealth(ctx context.Context, location domain.Location, rangeDays int) (*environment.VegetationReport, error)
	LandUseCompliance(ctx context.Context, location domain.Location, expectedUse string) (*environment.LandUseReport, error)
}

// Handler serves the environmental analysis endpoints.
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

// Register registers the environment routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/v1/environment/vegetation-health", h.handleVegetationHealth)
	r.Get("/v1/environment/land-use", h.handleLandUse)
}

func (h *Handler) handleVegetationHealth(w http.ResponseWriter, r *http.Request) {
	location, ok := h.location(w, r)
	if !ok {
		return
	}
	days, err := httputil.QueryInt(r, "days", environment.DefaultRangeDays)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	report, err := h.service.VegetationHealth(r.Context(), location, days)
	if err != nil {
		h.logger.WarnContext(r.Context(), "vegetation health failed", "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, report)
}

func (h *Handler) handleLandUse(w http.ResponseWriter, r *http.Request) {
	location, ok := h.location(w, r)
	if !ok {
		return
	}

	report, err := h.service.LandUseCompliance(r.Context(), location, r.URL.Query().Get("expected"))
	if err != nil {
		h.logger.WarnContext(r.Context(), "land use compliance failed", "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, report)
}

func (h *Handler) location(w http.ResponseWriter, r *http.Request) (domain.Location, bool) {
	lat, err := httputil.QueryFloat(r, "lat")
	if err != nil {
		httputil.WriteError(w, err)
		return domain.Location{}, false
	}
	lon, err := httputil.QueryFloat(r, "lon")
	if err != nil {
		httputil.WriteError(w, err)
		return domain.Location{}, false
	}
	return domain.Location{Latitude: lat, Longitude: lon}, true
}
