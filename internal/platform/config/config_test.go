package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestFromLookup_Defaults(t *testing.T) {
	cfg := fromLookup(lookupFrom(nil))

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 45*time.Second, cfg.Validation.Timeout)
	assert.Equal(t, 7, cfg.Validation.MaxHarvestAgeDays)
	assert.Equal(t, 0.1, cfg.Validation.MinQuantityKg)
	assert.Equal(t, 1000.0, cfg.Validation.MaxQuantityKg)
	assert.Equal(t, 24*time.Hour, cfg.Cache.RegulatoryTTL)
	assert.Equal(t, 6*time.Hour, cfg.Cache.EnvironmentalTTL)
	assert.Zero(t, cfg.Cache.MaxEntries)
	assert.Equal(t, 12.0, cfg.Quality.MaxMoisture)
	assert.Equal(t, 0.3, cfg.Quality.MaxCadmium)
	assert.Equal(t, DefaultOutcomeTopic, cfg.Kafka.OutcomeTopic)
	assert.Empty(t, cfg.Kafka.Brokers)
	assert.Equal(t, DefaultLLMModel, cfg.LLM.Model)
	assert.Empty(t, cfg.LLM.APIKey)
	assert.Equal(t, 5.0, cfg.Search.RatePerSec)
}

func TestFromLookup_Overrides(t *testing.T) {
	cfg := fromLookup(lookupFrom(map[string]string{
		"HERBCHECK_ADDR":         ":9090",
		"VALIDATION_TIMEOUT":     "10",
		"REGULATORY_CACHE_HOURS": "1",
		"CACHE_MAX_ENTRIES":      "500",
		"MAX_HARVEST_AGE_DAYS":   "14",
		"QUALITY_MAX_MOISTURE":   "9.5",
		"KAFKA_BROKERS":          "k1:9092, k2:9092,",
		"LLM_API_KEY":            " secret ",
	}))

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, 10*time.Second, cfg.Validation.Timeout)
	assert.Equal(t, time.Hour, cfg.Cache.RegulatoryTTL)
	assert.Equal(t, 500, cfg.Cache.MaxEntries)
	assert.Equal(t, 14, cfg.Validation.MaxHarvestAgeDays)
	assert.Equal(t, 9.5, cfg.Quality.MaxMoisture)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "secret", cfg.LLM.APIKey)
}

func TestFromLookup_MalformedValuesFallBack(t *testing.T) {
	cfg := fromLookup(lookupFrom(map[string]string{
		"VALIDATION_TIMEOUT":   "soon",
		"MAX_HARVEST_AGE_DAYS": "-3",
		"MIN_QUANTITY_KG":      "abc",
	}))

	assert.Equal(t, 45*time.Second, cfg.Validation.Timeout)
	assert.Equal(t, 7, cfg.Validation.MaxHarvestAgeDays)
	assert.Equal(t, 0.1, cfg.Validation.MinQuantityKg)
}
