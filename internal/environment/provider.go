package environment

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"math/rand/v2"
	"time"

	"herbcheck/internal/domain"
)

// Land-use classes reported by signal providers.
const (
	LandAgricultural    = "agricultural"
	LandForest          = "forest"
	LandGrassland       = "grassland"
	LandMixedVegetation = "mixed_vegetation"
	LandBarren          = "barren"
	LandUrban           = "urban"
	LandWaterBody       = "water_body"
	LandWetland         = "wetland"
)

// SignalProvider supplies remote-sensing readings for a location and date.
// Providers fill the raw readings; scoring and anomaly detection happen in
// the Service.
type SignalProvider interface {
	ID() string
	FetchSnapshot(ctx context.Context, lat, lon float64, date time.Time) (*domain.SignalSnapshot, error)
	Health(ctx context.Context) error
}

// SimulatedProviderID identifies the default provider.
const SimulatedProviderID = "simulated_sentinel"

// SimulatedProvider derives plausible readings from a hash of the rounded
// coordinates and the date, so the same request always yields the same
// snapshot. Ranges follow the Indian seasonal pattern: cloudier and greener
// during the monsoon, sparser vegetation in winter.
type SimulatedProvider struct{}

// NewSimulatedProvider returns the deterministic default provider.
func NewSimulatedProvider() *SimulatedProvider {
	return &SimulatedProvider{}
}

func (p *SimulatedProvider) ID() string { return SimulatedProviderID }

func (p *SimulatedProvider) Health(context.Context) error { return nil }

func (p *SimulatedProvider) FetchSnapshot(ctx context.Context, lat, lon float64, date time.Time) (*domain.SignalSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, NewProviderError(ErrorTimeout, p.ID(), "request cancelled", err)
	}
	rng := seededRand(lat, lon, date)

	month := date.Month()
	monsoon := month >= time.June && month <= time.September
	winter := month == time.November || month == time.December || month <= time.February

	cloud := uniform(rng, 5, 40)
	if monsoon {
		cloud = uniform(rng, 10, 90)
	}

	var veg float64
	switch {
	case monsoon:
		veg = uniform(rng, 0.6, 0.9)
	case winter:
		veg = uniform(rng, 0.3, 0.6)
	default:
		veg = uniform(rng, 0.4, 0.7)
	}

	uses := []string{LandForest, LandAgricultural, LandMixedVegetation}
	if lat > 25 {
		uses = []string{LandAgricultural, LandMixedVegetation, LandGrassland}
	}

	return &domain.SignalSnapshot{
		Provider:        p.ID(),
		Latitude:        lat,
		Longitude:       lon,
		ImageDate:       date.Format(time.DateOnly),
		CloudCover:      round2(cloud),
		VegetationIndex: domain.Round3(veg),
		LandUse:         uses[rng.IntN(len(uses))],
	}, nil
}

func seededRand(lat, lon float64, date time.Time) *rand.Rand {
	h := fnv.New64a()
	fmt.Fprintf(h, "%.4f_%.4f_%s", lat, lon, date.Format(time.DateOnly))
	seed := h.Sum64()
	return rand.New(rand.NewPCG(seed, seed>>1|1))
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
