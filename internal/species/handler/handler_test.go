package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"herbcheck/internal/domain"
	"herbcheck/internal/species"
	fixtures "herbcheck/pkg/testutil"
)

type brokenCatalog struct{}

func (brokenCatalog) Get(context.Context, string) (*domain.Species, error) {
	return nil, errors.New("connection refused")
}

func (brokenCatalog) List(context.Context) ([]domain.Species, error) {
	return nil, errors.New("connection refused")
}

func newRouter(t *testing.T, catalog Catalog) http.Handler {
	t.Helper()
	if catalog == nil {
		mem := species.NewInMemory()
		require.NoError(t, species.SeedDefaults(context.Background(), mem))
		catalog = mem
	}
	r := chi.NewRouter()
	New(catalog, nil).Register(r)
	return r
}

func TestList(t *testing.T) {
	rr := fixtures.DoRequest(newRouter(t, nil), fixtures.NewJSONRequest(t, http.MethodGet, "/v1/species", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	body := fixtures.UnmarshalResponse[struct {
		Species []domain.Species `json:"species"`
		Count   int              `json:"count"`
	}](t, rr)
	assert.Equal(t, 5, body.Count)
	require.Len(t, body.Species, 5)
	assert.Equal(t, "ashwagandha", body.Species[0].CommonName)
}

func TestGet(t *testing.T) {
	router := newRouter(t, nil)

	rr := fixtures.DoRequest(router, fixtures.NewJSONRequest(t, http.MethodGet, "/v1/species/BRAHMI", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	sp := fixtures.UnmarshalResponse[domain.Species](t, rr)
	assert.Equal(t, "Bacopa monnieri", sp.ScientificName)
	assert.Equal(t, domain.ConservationVulnerable, sp.ConservationStatus)

	rr = fixtures.DoRequest(router, fixtures.NewJSONRequest(t, http.MethodGet, "/v1/species/mandrake", nil))
	fixtures.AssertStatusAndError(t, rr, http.StatusNotFound, "not_found")
}

func TestCatalogUnavailable(t *testing.T) {
	router := newRouter(t, brokenCatalog{})

	rr := fixtures.DoRequest(router, fixtures.NewJSONRequest(t, http.MethodGet, "/v1/species", nil))
	fixtures.AssertStatusAndError(t, rr, http.StatusServiceUnavailable, "unavailable")

	rr = fixtures.DoRequest(router, fixtures.NewJSONRequest(t, http.MethodGet, "/v1/species/tulsi", nil))
	fixtures.AssertStatusAndError(t, rr, http.StatusServiceUnavailable, "unavailable")
}
