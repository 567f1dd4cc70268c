package species

import (
	"context"
	"errors"
	"fmt"

	"herbcheck/internal/domain"
	"herbcheck/pkg/platform/sentinel"
)

// Getter looks a species up by common name.
type Getter interface {
	Get(ctx context.Context, name string) (*domain.Species, error)
}

// Resolve fills the fields sp leaves empty from the catalog entry with the
// same common name. Fields supplied by the caller win. An unknown species is
// returned unchanged.
func Resolve(ctx context.Context, catalog Getter, sp domain.Species) (domain.Species, error) {
	if catalog == nil || Key(sp.CommonName) == "" {
		return sp, nil
	}
	known, err := catalog.Get(ctx, sp.CommonName)
	if errors.Is(err, sentinel.ErrNotFound) {
		return sp, nil
	}
	if err != nil {
		return sp, fmt.Errorf("resolve species %s: %w", sp.CommonName, err)
	}

	if sp.ScientificName == "" {
		sp.ScientificName = known.ScientificName
	}
	if len(sp.LocalNames) == 0 {
		sp.LocalNames = known.LocalNames
	}
	if sp.ConservationStatus == "" {
		sp.ConservationStatus = known.ConservationStatus
	}
	if len(sp.HarvestSeasons) == 0 {
		sp.HarvestSeasons = known.HarvestSeasons
	}
	if len(sp.RestrictedRegions) == 0 {
		sp.RestrictedRegions = known.RestrictedRegions
	}
	return sp, nil
}
