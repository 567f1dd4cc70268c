package search

import (
	"strings"

	"herbcheck/internal/domain"
	strutil "herbcheck/pkg/platform/strings"
)

// Source is a search hit cited by an extraction.
type Source struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// RegulatoryInfo is what the regulatory search revealed.
type RegulatoryInfo struct {
	Species      string   `json:"species"`
	Authorities  []string `json:"authorities"`
	Requirements []string `json:"requirements"`
	Restrictions []string `json:"restrictions"`
	Sources      []Source `json:"sources"`
}

// SpeciesInfo is what the species search revealed.
type SpeciesInfo struct {
	CommonName     string   `json:"common_name"`
	ScientificName string   `json:"scientific_name,omitempty"`
	Sources        []Source `json:"sources"`
}

// ConservationInfo is what the conservation search revealed.
type ConservationInfo struct {
	Species string `json:"species"`
	// Status is empty when no IUCN category was mentioned.
	Status  domain.ConservationStatus `json:"conservation_status,omitempty"`
	Threats []string                  `json:"threats"`
	Sources []Source                  `json:"sources"`
}

// SeasonalInfo is what the seasonal-restriction search revealed.
type SeasonalInfo struct {
	Species        string   `json:"species"`
	HarvestSeasons []string `json:"harvest_seasons"`
	Restrictions   []string `json:"restrictions"`
	BestPractices  []string `json:"best_practices"`
	Sources        []Source `json:"sources"`
}

const (
	AuthorityNMPB  = "National Medicinal Plants Board (NMPB)"
	AuthorityAYUSH = "Ministry of AYUSH"
)

var regulatoryKeywords = []string{
	"nmpb", "ayush", "regulation", "guideline", "standard",
	"harvesting", "collection", "restriction", "banned", "protected",
}

// Ordered most specific first so "critically endangered" wins over "endangered".
var conservationKeywords = []struct {
	phrase string
	status domain.ConservationStatus
}{
	{"critically endangered", domain.ConservationCriticallyEndangered},
	{"extinct", domain.ConservationExtinct},
	{"endangered", domain.ConservationEndangered},
	{"vulnerable", domain.ConservationVulnerable},
	{"near threatened", domain.ConservationNearThreatened},
	{"least concern", domain.ConservationLeastConcern},
}

var seasonKeywords = []string{"summer", "winter", "monsoon", "spring", "rainy season", "dry season"}

func sourceOf(r Result) Source {
	return Source{Title: r.Title, URL: r.Link, Snippet: r.Snippet}
}

func contentOf(r Result) string {
	return strings.ToLower(r.Title + " " + r.Snippet)
}

func containsAny(s string, needles ...string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

func top(results []Result, n int) []Result {
	if len(results) > n {
		return results[:n]
	}
	return results
}

// ExtractRegulatory scans the top five hits for regulatory keywords.
func ExtractRegulatory(species string, results []Result) RegulatoryInfo {
	info := RegulatoryInfo{Species: species, Sources: []Source{}}
	var authorities, requirements, restrictions []string

	for _, r := range top(results, 5) {
		content := contentOf(r)
		if !containsAny(content, regulatoryKeywords...) {
			continue
		}
		info.Sources = append(info.Sources, sourceOf(r))

		if strings.Contains(content, "harvest") && containsAny(content, "season", "time") {
			requirements = append(requirements, "Seasonal harvesting restrictions apply")
		}
		if containsAny(content, "license", "licence", "permit") {
			requirements = append(requirements, "Collection license/permit required")
		}
		if containsAny(content, "protected", "endangered") {
			restrictions = append(restrictions, "Species may be protected or endangered")
		}
		if strings.Contains(content, "nmpb") {
			authorities = append(authorities, AuthorityNMPB)
		}
		if strings.Contains(content, "ayush") {
			authorities = append(authorities, AuthorityAYUSH)
		}
	}

	info.Authorities = strutil.Union(authorities)
	info.Requirements = strutil.Union(requirements)
	info.Restrictions = strutil.Union(restrictions)
	return info
}

// ExtractSpecies cites the top three hits and picks up a binomial name that
// follows "scientific name".
func ExtractSpecies(species string, results []Result) SpeciesInfo {
	info := SpeciesInfo{CommonName: species, Sources: []Source{}}
	for _, r := range top(results, 3) {
		info.Sources = append(info.Sources, sourceOf(r))
		if info.ScientificName == "" {
			info.ScientificName = binomialAfterLabel(r.Snippet)
		}
	}
	return info
}

// binomialAfterLabel reads the two words after "scientific name", skipping
// an optional "is" or ":".
func binomialAfterLabel(snippet string) string {
	lower := strings.ToLower(snippet)
	idx := strings.Index(lower, "scientific name")
	if idx < 0 {
		return ""
	}
	words := strings.Fields(snippet[idx+len("scientific name"):])
	for len(words) > 0 {
		w := strings.Trim(words[0], ":-")
		if w != "" && !strings.EqualFold(w, "is") {
			break
		}
		words = words[1:]
	}
	if len(words) < 2 {
		return ""
	}
	genus := strings.Trim(words[0], ":()[],.;")
	epithet := strings.Trim(words[1], ":()[],.;")
	if genus == "" || epithet == "" {
		return ""
	}
	return genus + " " + epithet
}

// ExtractConservation takes the first IUCN category mentioned in the top
// three hits and notes any threats.
func ExtractConservation(species string, results []Result) ConservationInfo {
	info := ConservationInfo{Species: species, Sources: []Source{}}
	var threats []string
	for _, r := range top(results, 3) {
		info.Sources = append(info.Sources, sourceOf(r))
		content := contentOf(r)

		if info.Status == "" {
			for _, kw := range conservationKeywords {
				if strings.Contains(content, kw.phrase) {
					info.Status = kw.status
					break
				}
			}
		}
		if containsAny(content, "threat", "declining") {
			threats = append(threats, "Population declining due to various threats")
		}
		if strings.Contains(content, "habitat loss") {
			threats = append(threats, "Habitat loss")
		}
		if containsAny(content, "overharvesting", "over-collection") {
			threats = append(threats, "Overharvesting/over-collection")
		}
	}
	info.Threats = strutil.Union(threats)
	return info
}

// ExtractSeasonal collects seasons mentioned next to harvesting in the top
// three hits.
func ExtractSeasonal(species string, results []Result) SeasonalInfo {
	info := SeasonalInfo{Species: species, Sources: []Source{}}
	var seasons, restrictions, practices []string
	for _, r := range top(results, 3) {
		info.Sources = append(info.Sources, sourceOf(r))
		content := contentOf(r)

		harvestContext := containsAny(content, "harvest", "collect")
		for _, season := range seasonKeywords {
			if harvestContext && strings.Contains(content, season) {
				seasons = append(seasons, season)
			}
		}
		if strings.Contains(content, "avoid") && containsAny(content, seasonKeywords...) {
			restrictions = append(restrictions, "Certain seasons should be avoided for harvesting")
		}
		if strings.Contains(content, "flowering") {
			practices = append(practices, "Consider plant flowering cycle when harvesting")
		}
	}
	info.HarvestSeasons = strutil.Union(seasons)
	info.Restrictions = strutil.Union(restrictions)
	info.BestPractices = strutil.Union(practices)
	return info
}
