//go:build integration

package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"herbcheck/internal/cache"
	"herbcheck/internal/domain"
	"herbcheck/pkg/testutil/containers"
)

type RedisCacheSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	now   time.Time
	cache *cache.Redis[domain.SignalSnapshot]
}

func TestRedisCacheSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisCacheSuite))
}

func (s *RedisCacheSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.redis = mgr.GetRedis(s.T())
	s.now = time.Date(2024, 10, 1, 12, 0, 0, 0, time.UTC)
	s.cache = cache.NewRedis[domain.SignalSnapshot](s.redis.Client, "snapshots", time.Hour,
		cache.WithRedisClock(func() time.Time { return s.now }))
}

func (s *RedisCacheSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisCacheSuite) TestRoundTripIsBitIdentical() {
	ctx := context.Background()
	snap := domain.SignalSnapshot{
		Provider:        "simulated",
		Latitude:        28.6139,
		Longitude:       77.209,
		ImageDate:       "2024-10-01",
		CloudCover:      23.456789,
		VegetationIndex: 0.6123456789,
		LandUse:         "agricultural",
		ValidationScore: 0.8,
		Anomalies:       []string{},
	}
	s.Require().NoError(s.cache.Set(ctx, "28.6139_77.2090_2024-10-01", snap))

	got, ok, err := s.cache.Get(ctx, "28.6139_77.2090_2024-10-01")
	s.Require().NoError(err)
	s.True(ok)
	s.Equal(snap, got)
}

func (s *RedisCacheSuite) TestStaleEntryIsMiss() {
	ctx := context.Background()
	s.Require().NoError(s.cache.Set(ctx, "k", domain.SignalSnapshot{Provider: "simulated"}))

	s.now = s.now.Add(2 * time.Hour)
	defer func() { s.now = s.now.Add(-2 * time.Hour) }()

	_, ok, err := s.cache.Get(ctx, "k")
	s.Require().NoError(err)
	s.False(ok)
}

func (s *RedisCacheSuite) TestMissingKey() {
	_, ok, err := s.cache.Get(context.Background(), "absent")
	s.Require().NoError(err)
	s.False(ok)
}

func (s *RedisCacheSuite) TestHealth() {
	ctx := context.Background()
	s.NoError(s.redis.Health(ctx))
	s.NoError(s.cache.Health(ctx))
}
