package httptransport

import (
	"bytes"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"herbcheck/internal/platform/metrics"
	"herbcheck/pkg/platform/httputil"
	"herbcheck/pkg/requestcontext"
	fixtures "herbcheck/pkg/testutil"
)

type pingHandler struct{}

func (pingHandler) Register(r chi.Router) {
	r.Get("/v1/ping", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{
			"request_id": requestcontext.RequestID(r.Context()),
		})
	})
}

func newTestRouter(t *testing.T) (http.Handler, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	reg := prometheus.NewRegistry()
	router := NewRouter(RouterConfig{
		Logger:   slog.New(slog.NewJSONHandler(&logs, nil)),
		Metrics:  metrics.NewWithRegisterer(reg),
		Gatherer: reg,
		Handlers: []Registrar{pingHandler{}},
	})
	return router, &logs
}

func TestRouter_ServesRegisteredHandlers(t *testing.T) {
	router, logs := newTestRouter(t)

	rr := fixtures.DoRequest(router, fixtures.NewJSONRequest(t, http.MethodGet, "/v1/ping", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	body := fixtures.UnmarshalResponse[map[string]string](t, rr)
	assert.NotEmpty(t, (*body)["request_id"])
	assert.Contains(t, logs.String(), "/v1/ping")
}

func TestRouter_MetricsEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)
	fixtures.DoRequest(router, fixtures.NewJSONRequest(t, http.MethodGet, "/v1/ping", nil))

	rr := fixtures.DoRequest(router, fixtures.NewJSONRequest(t, http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `route="/v1/ping"`)
}

func TestRouter_UnknownRoutes(t *testing.T) {
	router, _ := newTestRouter(t)

	rr := fixtures.DoRequest(router, fixtures.NewJSONRequest(t, http.MethodGet, "/v1/nope", nil))
	fixtures.AssertStatusAndError(t, rr, http.StatusNotFound, "not_found")

	rr = fixtures.DoRequest(router, fixtures.NewJSONRequest(t, http.MethodDelete, "/v1/ping", nil))
	fixtures.AssertStatusAndError(t, rr, http.StatusMethodNotAllowed, "method_not_allowed")
}
