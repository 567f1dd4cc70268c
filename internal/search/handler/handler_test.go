package handler

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"herbcheck/internal/search"
	dErrors "herbcheck/pkg/domain-errors"
	fixtures "herbcheck/pkg/testutil"
)

type fakeSearcher struct {
	fail bool
}

func (f fakeSearcher) Search(_ context.Context, query string) ([]search.Result, error) {
	if f.fail {
		return nil, dErrors.New(dErrors.CodeUnavailable, "search quota exceeded")
	}
	if strings.Contains(query, "scientific name") {
		return []search.Result{{Title: "Tulsi", Snippet: "scientific name Ocimum tenuiflorum"}}, nil
	}
	return []search.Result{}, nil
}

func newRouter(s search.Searcher) http.Handler {
	r := chi.NewRouter()
	New(search.NewService(s), nil).Register(r)
	return r
}

func TestInsights(t *testing.T) {
	rr := fixtures.DoRequest(newRouter(fakeSearcher{}), fixtures.NewJSONRequest(t, http.MethodGet, "/v1/insights?species=tulsi", nil))

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	got := fixtures.UnmarshalResponse[search.Insights](t, rr)
	assert.Equal(t, "tulsi", got.Species)
	assert.Equal(t, "india", got.Region)
	require.NotNil(t, got.SpeciesInfo)
	assert.Equal(t, "Ocimum tenuiflorum", got.SpeciesInfo.ScientificName)
	assert.Contains(t, got.Summary, "Scientific name: Ocimum tenuiflorum")
}

func TestInsights_Errors(t *testing.T) {
	rr := fixtures.DoRequest(newRouter(fakeSearcher{}), fixtures.NewJSONRequest(t, http.MethodGet, "/v1/insights", nil))
	fixtures.AssertStatusAndError(t, rr, http.StatusBadRequest, "validation_error")

	rr = fixtures.DoRequest(newRouter(fakeSearcher{fail: true}), fixtures.NewJSONRequest(t, http.MethodGet, "/v1/insights?species=neem", nil))
	fixtures.AssertStatusAndError(t, rr, http.StatusServiceUnavailable, "unavailable")
}
