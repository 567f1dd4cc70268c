package search

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"herbcheck/internal/domain"
)

func TestExtractRegulatory(t *testing.T) {
	results := []Result{
		{Title: "NMPB Good Field Collection Practices", Link: "a", Snippet: "Harvest only in the right season. A collection permit is needed."},
		{Title: "Ministry of AYUSH notice", Link: "b", Snippet: "Protected species list updated."},
		{Title: "Recipe blog", Link: "c", Snippet: "Tulsi tea is delicious"},
	}

	info := ExtractRegulatory("tulsi", results)

	assert.Equal(t, []string{AuthorityNMPB, AuthorityAYUSH}, info.Authorities)
	assert.Equal(t, []string{"Seasonal harvesting restrictions apply", "Collection license/permit required"}, info.Requirements)
	assert.Equal(t, []string{"Species may be protected or endangered"}, info.Restrictions)
	assert.Len(t, info.Sources, 2)
}

func TestExtractRegulatory_OnlyTopFive(t *testing.T) {
	results := make([]Result, 6)
	results[5] = Result{Title: "NMPB", Snippet: "permit"}

	info := ExtractRegulatory("neem", results)

	assert.Empty(t, info.Authorities)
	assert.Empty(t, info.Sources)
}

func TestExtractSpecies(t *testing.T) {
	results := []Result{
		{Title: "Brahmi", Snippet: "Brahmi, scientific name Bacopa monnieri, grows in wetlands."},
	}
	info := ExtractSpecies("brahmi", results)
	assert.Equal(t, "Bacopa monnieri", info.ScientificName)

	info = ExtractSpecies("brahmi", []Result{{Snippet: "The scientific name is: Bacopa"}})
	assert.Empty(t, info.ScientificName)
}

func TestExtractConservation(t *testing.T) {
	tests := []struct {
		name    string
		snippet string
		want    domain.ConservationStatus
	}{
		{name: "critically endangered beats endangered", snippet: "Listed as Critically Endangered", want: domain.ConservationCriticallyEndangered},
		{name: "vulnerable", snippet: "IUCN: vulnerable due to habitat loss", want: domain.ConservationVulnerable},
		{name: "none", snippet: "A common garden plant", want: ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			info := ExtractConservation("x", []Result{{Snippet: tc.snippet}})
			assert.Equal(t, tc.want, info.Status)
		})
	}

	info := ExtractConservation("x", []Result{{Snippet: "declining from overharvesting and habitat loss"}})
	assert.Equal(t, []string{
		"Population declining due to various threats",
		"Habitat loss",
		"Overharvesting/over-collection",
	}, info.Threats)
}

func TestExtractSeasonal(t *testing.T) {
	info := ExtractSeasonal("ashwagandha", []Result{
		{Title: "When to harvest ashwagandha", Snippet: "Roots are collected in winter; avoid the monsoon. Harvest after flowering."},
	})

	assert.Equal(t, []string{"winter", "monsoon"}, info.HarvestSeasons)
	assert.Equal(t, []string{"Certain seasons should be avoided for harvesting"}, info.Restrictions)
	assert.Equal(t, []string{"Consider plant flowering cycle when harvesting"}, info.BestPractices)
}
