package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"herbcheck/internal/domain"
	dErrors "herbcheck/pkg/domain-errors"
	"herbcheck/pkg/platform/httputil"
	"herbcheck/pkg/platform/sentinel"
)

// Catalog defines the species lookups the handler needs.
type Catalog interface {
	Get(ctx context.Context, name string) (*domain.Species, error)
	List(ctx context.Context) ([]domain.Species, error)
}

// Handler serves the species catalog endpoints.
type Handler struct {
	catalog Catalog
	logger  *slog.Logger
}

func New(catalog Catalog, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{catalog: catalog, logger: logger}
}

// Register registers the species routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/v1/species", h.handleList)
	r.Get("/v1/species/{name}", h.handleGet)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	all, err := h.catalog.List(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "species list failed", "error", err)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeUnavailable, "species catalog unavailable"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"species": all,
		"count":   len(all),
	})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	sp, err := h.catalog.Get(r.Context(), name)
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "species "+name+" not found"))
		return
	case err != nil:
		h.logger.ErrorContext(r.Context(), "species lookup failed", "species", name, "error", err)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeUnavailable, "species catalog unavailable"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, sp)
}
