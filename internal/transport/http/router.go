package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"herbcheck/internal/platform/metrics"
	dErrors "herbcheck/pkg/domain-errors"
	"herbcheck/pkg/platform/httputil"
	"herbcheck/pkg/platform/middleware/metadata"
	"herbcheck/pkg/platform/middleware/requestlog"
	"herbcheck/pkg/platform/middleware/requesttime"
)

// Registrar is implemented by every feature handler.
type Registrar interface {
	Register(r chi.Router)
}

// RouterConfig collects what NewRouter wires.
type RouterConfig struct {
	Logger   *slog.Logger
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
	Handlers []Registrar
}

// NewRouter wires the middleware chain, every feature handler and /metrics.
// Handlers stay thin and delegate to their domain services.
func NewRouter(cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(requestlog.Recovery(logger))
	r.Use(metadata.RequestID)
	r.Use(metadata.ClientMetadata)
	r.Use(requesttime.Middleware)
	r.Use(requestlog.Logger(logger))
	if cfg.Metrics != nil {
		r.Use(metrics.LatencyMiddleware(cfg.Metrics))
	}

	for _, h := range cfg.Handlers {
		h.Register(r)
	}

	gatherer := cfg.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "route not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusMethodNotAllowed, httputil.ErrorResponse{Error: "method_not_allowed"})
	})
	return r
}
