package search

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "herbcheck/pkg/domain-errors"
)

type scriptedSearcher struct {
	mu      sync.Mutex
	queries []string
	respond func(query string) ([]Result, error)
}

func (s *scriptedSearcher) Search(_ context.Context, query string) ([]Result, error) {
	s.mu.Lock()
	s.queries = append(s.queries, query)
	s.mu.Unlock()
	return s.respond(query)
}

func TestInsights(t *testing.T) {
	searcher := &scriptedSearcher{respond: func(q string) ([]Result, error) {
		switch {
		case strings.HasPrefix(q, "AYUSH NMPB"):
			return []Result{{Title: "NMPB and AYUSH guidelines", Snippet: "permit required for collection"}}, nil
		case strings.HasPrefix(q, "conservation status"):
			return []Result{{Snippet: "assessed as near threatened"}}, nil
		case strings.Contains(q, "scientific name"):
			return []Result{{Snippet: "scientific name Withania somnifera"}}, nil
		default:
			return nil, errors.New("quota exceeded")
		}
	}}

	got, err := NewService(searcher).Insights(context.Background(), "ashwagandha", "")

	require.NoError(t, err)
	assert.Equal(t, "india", got.Region)
	assert.Len(t, searcher.queries, 4)
	assert.Nil(t, got.Seasonal)
	assert.Equal(t,
		"Regulated by: National Medicinal Plants Board (NMPB), Ministry of AYUSH; 1 key requirements identified; "+
			"Conservation status: Near Threatened; Scientific name: Withania somnifera",
		got.Summary)
}

func TestInsights_AllSearchesFail(t *testing.T) {
	searcher := &scriptedSearcher{respond: func(string) ([]Result, error) {
		return nil, dErrors.New(dErrors.CodeUnavailable, "down")
	}}

	_, err := NewService(searcher).Insights(context.Background(), "neem", "india")

	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnavailable))
}

func TestInsights_RequiresSpecies(t *testing.T) {
	_, err := NewService(&scriptedSearcher{}).Insights(context.Background(), " ", "")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}

func TestSummarize_Limited(t *testing.T) {
	assert.Equal(t, SummaryLimited, Summarize(&Insights{Regulatory: &RegulatoryInfo{}}))
}

func TestSeasonalQuery(t *testing.T) {
	assert.Equal(t, "neem harvesting season restrictions India NMPB guidelines", SeasonalQuery("neem", "india"))
	assert.Equal(t, "neem harvesting season restrictions Kerala India NMPB guidelines", SeasonalQuery("neem", "Kerala"))
}
