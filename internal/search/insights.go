package search

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"herbcheck/internal/regulatory"
	dErrors "herbcheck/pkg/domain-errors"
)

// SummaryLimited is the insights summary when nothing useful was found.
const SummaryLimited = "Limited regulatory information available"

// Insights bundles the regulatory, species, conservation and seasonal searches.
type Insights struct {
	Species      string            `json:"species"`
	Region       string            `json:"region"`
	Regulatory   *RegulatoryInfo   `json:"regulatory_info,omitempty"`
	SpeciesInfo  *SpeciesInfo      `json:"species_info,omitempty"`
	Conservation *ConservationInfo `json:"conservation_info,omitempty"`
	Seasonal     *SeasonalInfo     `json:"seasonal_info,omitempty"`
	Summary      string            `json:"insights_summary"`
}

// Service runs the insight searches.
type Service struct {
	searcher Searcher
	logger   *slog.Logger
}

type ServiceOption func(*Service)

func WithServiceLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func NewService(searcher Searcher, opts ...ServiceOption) *Service {
	s := &Service{searcher: searcher, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Query strings for each insight search.
func RegulatoryQuery(species, region string) string {
	return fmt.Sprintf("AYUSH NMPB %s harvesting regulations guidelines %s", species, region)
}

func SpeciesQuery(species string) string {
	return fmt.Sprintf("%s ayurvedic herb scientific name properties harvesting", species)
}

func ConservationQuery(species string) string {
	return fmt.Sprintf("conservation status endangered %s IUCN red list", species)
}

func SeasonalQuery(species, region string) string {
	location := "India"
	if region != "" && !strings.EqualFold(region, regulatory.DefaultRegion) {
		location = region + " India"
	}
	return fmt.Sprintf("%s harvesting season restrictions %s NMPB guidelines", species, location)
}

// Insights runs the four searches concurrently. A failed search leaves its
// section empty; the call fails only when every search fails.
func (s *Service) Insights(ctx context.Context, species, region string) (*Insights, error) {
	species = strings.TrimSpace(species)
	if species == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "species is required")
	}
	region = strings.TrimSpace(region)
	if region == "" {
		region = regulatory.DefaultRegion
	}

	out := &Insights{Species: species, Region: region}
	errs := make([]error, 4)

	g, gctx := errgroup.WithContext(ctx)
	run := func(i int, name, query string, apply func([]Result)) {
		g.Go(func() error {
			results, err := s.searcher.Search(gctx, query)
			if err != nil {
				s.logger.WarnContext(ctx, "insight search failed", "search", name, "species", species, "error", err)
				errs[i] = err
				return nil
			}
			apply(results)
			return nil
		})
	}
	run(0, "regulatory", RegulatoryQuery(species, region), func(r []Result) {
		info := ExtractRegulatory(species, r)
		out.Regulatory = &info
	})
	run(1, "species", SpeciesQuery(species), func(r []Result) {
		info := ExtractSpecies(species, r)
		out.SpeciesInfo = &info
	})
	run(2, "conservation", ConservationQuery(species), func(r []Result) {
		info := ExtractConservation(species, r)
		out.Conservation = &info
	})
	run(3, "seasonal", SeasonalQuery(species, region), func(r []Result) {
		info := ExtractSeasonal(species, r)
		out.Seasonal = &info
	})
	_ = g.Wait()

	failed := 0
	for _, err := range errs {
		if err != nil {
			failed++
		}
	}
	if failed == len(errs) {
		return nil, dErrors.Wrap(errs[0], dErrors.CodeUnavailable, "regulatory insights unavailable")
	}

	out.Summary = Summarize(out)
	return out, nil
}

// Summarize renders a one-line digest of the insights.
func Summarize(in *Insights) string {
	var parts []string
	if reg := in.Regulatory; reg != nil {
		if len(reg.Authorities) > 0 {
			parts = append(parts, "Regulated by: "+strings.Join(reg.Authorities, ", "))
		}
		if len(reg.Requirements) > 0 {
			parts = append(parts, fmt.Sprintf("%d key requirements identified", len(reg.Requirements)))
		}
	}
	if c := in.Conservation; c != nil && c.Status != "" {
		parts = append(parts, "Conservation status: "+titleCase(strings.ReplaceAll(string(c.Status), "_", " ")))
	}
	if sp := in.SpeciesInfo; sp != nil && sp.ScientificName != "" {
		parts = append(parts, "Scientific name: "+sp.ScientificName)
	}
	if len(parts) == 0 {
		return SummaryLimited
	}
	return strings.Join(parts, "; ")
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
