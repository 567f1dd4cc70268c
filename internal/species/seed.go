package species

import (
	"context"
	"fmt"

	"herbcheck/internal/domain"
)

// Defaults returns the bundled Ayurvedic species reference data.
func Defaults() []domain.Species {
	return []domain.Species{
		{
			CommonName:         "ashwagandha",
			ScientificName:     "Withania somnifera",
			LocalNames:         []string{"Indian ginseng", "winter cherry"},
			ConservationStatus: domain.ConservationLeastConcern,
			HarvestSeasons:     []domain.HarvestSeason{domain.SeasonWinter, domain.SeasonPostMonsoon},
		},
		{
			CommonName:         "brahmi",
			ScientificName:     "Bacopa monnieri",
			LocalNames:         []string{"water hyssop"},
			ConservationStatus: domain.ConservationVulnerable,
			HarvestSeasons:     []domain.HarvestSeason{domain.SeasonMonsoon, domain.SeasonPostMonsoon},
			RestrictedRegions:  []string{"wetlands"},
		},
		{
			CommonName:         "turmeric",
			ScientificName:     "Curcuma longa",
			LocalNames:         []string{"haldi"},
			ConservationStatus: domain.ConservationLeastConcern,
			HarvestSeasons:     []domain.HarvestSeason{domain.SeasonPostMonsoon, domain.SeasonWinter},
		},
		{
			CommonName:         "neem",
			ScientificName:     "Azadirachta indica",
			LocalNames:         []string{"nimba"},
			ConservationStatus: domain.ConservationLeastConcern,
			HarvestSeasons:     []domain.HarvestSeason{domain.SeasonSummer, domain.SeasonWinter},
		},
		{
			CommonName:         "tulsi",
			ScientificName:     "Ocimum tenuiflorum",
			LocalNames:         []string{"holy basil"},
			ConservationStatus: domain.ConservationLeastConcern,
			HarvestSeasons:     []domain.HarvestSeason{domain.SeasonSummer, domain.SeasonPostMonsoon},
		},
	}
}

// Saver persists species.
type Saver interface {
	Save(ctx context.Context, sp domain.Species) error
}

// SeedDefaults writes the bundled species into s.
func SeedDefaults(ctx context.Context, s Saver) error {
	for _, sp := range Defaults() {
		if err := s.Save(ctx, sp); err != nil {
			return fmt.Errorf("seed species %s: %w", sp.CommonName, err)
		}
	}
	return nil
}
