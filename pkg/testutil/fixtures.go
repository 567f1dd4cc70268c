package testutil

import (
	"time"

	"herbcheck/internal/domain"
)

// FixedNow is the reference "today" used by fixtures: an October
// (post_monsoon) morning.
var FixedNow = time.Date(2024, 10, 15, 9, 30, 0, 0, time.UTC)

// EventOption mutates a fixture event before it is returned.
type EventOption func(*domain.CollectionEvent)

// NewEvent returns a collection event that passes every check: a least
// concern species in season, harvested today in Central India, 10 kg.
func NewEvent(opts ...EventOption) domain.CollectionEvent {
	e := domain.CollectionEvent{
		ID:        "evt-0001",
		Timestamp: FixedNow,
		Collector: domain.Collector{ID: "col-42", Name: "Meera Devi", LicenseNumber: "MP-FD-2231"},
		Location:  domain.Location{Latitude: 23.2599, Longitude: 79.4126},
		Species: domain.Species{
			CommonName:         "Tulsi",
			ScientificName:     "Ocimum tenuiflorum",
			ConservationStatus: domain.ConservationLeastConcern,
			HarvestSeasons: []domain.HarvestSeason{
				domain.SeasonSpring, domain.SeasonMonsoon, domain.SeasonPostMonsoon, domain.SeasonWinter,
			},
		},
		QuantityKg: 10,
		Photos:     []string{"photos/evt-0001-a.jpg"},
	}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

// WithEventID sets the event id.
func WithEventID(id string) EventOption {
	return func(e *domain.CollectionEvent) { e.ID = id }
}

// WithConservation sets the species conservation status.
func WithConservation(c domain.ConservationStatus) EventOption {
	return func(e *domain.CollectionEvent) { e.Species.ConservationStatus = c }
}

// WithSeasons replaces the allowed harvest seasons.
func WithSeasons(seasons ...domain.HarvestSeason) EventOption {
	return func(e *domain.CollectionEvent) { e.Species.HarvestSeasons = seasons }
}

// WithRestrictedRegions sets the species restricted regions.
func WithRestrictedRegions(regions ...string) EventOption {
	return func(e *domain.CollectionEvent) { e.Species.RestrictedRegions = regions }
}

// WithLocation sets the coordinates.
func WithLocation(lat, lon float64) EventOption {
	return func(e *domain.CollectionEvent) { e.Location = domain.Location{Latitude: lat, Longitude: lon} }
}

// WithQuantity sets the harvested quantity.
func WithQuantity(kg float64) EventOption {
	return func(e *domain.CollectionEvent) { e.QuantityKg = kg }
}

// WithTimestamp sets the harvest time.
func WithTimestamp(ts time.Time) EventOption {
	return func(e *domain.CollectionEvent) { e.Timestamp = ts }
}

// WithCollector replaces the collector.
func WithCollector(c domain.Collector) EventOption {
	return func(e *domain.CollectionEvent) { e.Collector = c }
}

// WithQuality attaches moisture and ash measurements.
func WithQuality(moisture, ash float64) EventOption {
	return func(e *domain.CollectionEvent) {
		e.Quality = &domain.QualityMetrics{MoistureContent: &moisture, AshContent: &ash}
	}
}

// WithoutPhotos clears the photo list.
func WithoutPhotos() EventOption {
	return func(e *domain.CollectionEvent) { e.Photos = nil }
}
