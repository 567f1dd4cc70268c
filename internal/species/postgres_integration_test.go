//go:build integration

package species_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"herbcheck/internal/domain"
	"herbcheck/internal/species"
	"herbcheck/pkg/platform/sentinel"
	"herbcheck/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *species.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.store = species.NewPostgres(s.postgres.DB)
	s.Require().NoError(s.store.EnsureSchema(context.Background()))
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "species"))
}

// =============================================================================
// Round trip
// =============================================================================

func (s *PostgresStoreSuite) TestSeedAndGet() {
	ctx := context.Background()
	s.Require().NoError(species.SeedDefaults(ctx, s.store))

	sp, err := s.store.Get(ctx, "Brahmi")
	s.Require().NoError(err)
	s.Equal("Bacopa monnieri", sp.ScientificName)
	s.Equal(domain.ConservationVulnerable, sp.ConservationStatus)
	s.Equal([]domain.HarvestSeason{domain.SeasonMonsoon, domain.SeasonPostMonsoon}, sp.HarvestSeasons)
	s.Equal([]string{"wetlands"}, sp.RestrictedRegions)

	list, err := s.store.List(ctx)
	s.Require().NoError(err)
	s.Len(list, 5)
	s.Equal("ashwagandha", list[0].CommonName)
}

func (s *PostgresStoreSuite) TestSaveUpserts() {
	ctx := context.Background()
	s.Require().NoError(s.store.Save(ctx, domain.Species{
		CommonName:         "neem",
		ScientificName:     "Azadirachta indica",
		ConservationStatus: domain.ConservationLeastConcern,
	}))
	s.Require().NoError(s.store.Save(ctx, domain.Species{
		CommonName:         "neem",
		ScientificName:     "Azadirachta indica",
		ConservationStatus: domain.ConservationNearThreatened,
		HarvestSeasons:     []domain.HarvestSeason{domain.SeasonWinter},
	}))

	sp, err := s.store.Get(ctx, "neem")
	s.Require().NoError(err)
	s.Equal(domain.ConservationNearThreatened, sp.ConservationStatus)
	s.Equal([]domain.HarvestSeason{domain.SeasonWinter}, sp.HarvestSeasons)
	s.Empty(sp.RestrictedRegions)
}

func (s *PostgresStoreSuite) TestGetMissing() {
	_, err := s.store.Get(context.Background(), "mandrake")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestHealth() {
	s.NoError(s.store.Health(context.Background()))
}

func (s *PostgresStoreSuite) TestWithinTxRollsBack() {
	ctx := context.Background()
	err := s.store.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.store.Save(ctx, domain.Species{CommonName: "neem", ScientificName: "Azadirachta indica"}); err != nil {
			return err
		}
		return sentinel.ErrUnavailable
	})
	s.ErrorIs(err, sentinel.ErrUnavailable)

	_, err = s.store.Get(ctx, "neem")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestSeedWithinTx() {
	ctx := context.Background()
	s.Require().NoError(s.store.WithinTx(ctx, func(ctx context.Context) error {
		return species.SeedDefaults(ctx, s.store)
	}))

	list, err := s.store.List(ctx)
	s.Require().NoError(err)
	s.Len(list, 5)
}
