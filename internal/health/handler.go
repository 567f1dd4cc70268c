package health

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"herbcheck/pkg/platform/httputil"
)

// Handler serves GET /health.
type Handler struct {
	monitor *Monitor
}

func NewHandler(monitor *Monitor) *Handler {
	return &Handler{monitor: monitor}
}

// Register registers the health route with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/health", h.handleHealth)
}

// Unhealthy answers 503; degraded still answers 200.
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := h.monitor.Check(r.Context())
	status := http.StatusOK
	if report.Status == StatusUnhealthy {
		status = http.StatusServiceUnavailable
	}
	httputil.WriteJSON(w, status, report)
}
