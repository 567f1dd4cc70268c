package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures all process level configuration.
type Server struct {
	Addr       string
	LogLevel   string
	LogFormat  string
	Validation ValidationConfig
	Cache      CacheConfig
	Quality    QualityConfig
	Redis      RedisConfig
	Postgres   PostgresConfig
	Kafka      KafkaConfig
	LLM        LLMConfig
	Search     SearchConfig
}

// ValidationConfig holds coordinator and basic validator settings.
type ValidationConfig struct {
	Timeout                       time.Duration
	SatelliteTimeout              time.Duration
	RegulatoryTimeout             time.Duration
	MaxHarvestAgeDays             int
	MinQuantityKg                 float64
	MaxQuantityKg                 float64
	ComplianceConfidenceThreshold float64
}

// CacheConfig holds TTLs for the regulatory and environmental caches.
type CacheConfig struct {
	RegulatoryTTL    time.Duration
	EnvironmentalTTL time.Duration
	// MaxEntries caps in-memory caches; 0 means unbounded.
	MaxEntries int
}

// QualityConfig holds the quality standard ceilings.
type QualityConfig struct {
	MaxMoisture  float64
	MaxAsh       float64
	MaxLead      float64
	MaxMercury   float64
	MaxCadmium   float64
	MaxPesticide float64
}

// RedisConfig configures the optional Redis cache backend.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// PostgresConfig configures the optional species catalog database.
type PostgresConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// KafkaConfig configures the optional validation outcome publisher.
type KafkaConfig struct {
	Brokers      []string
	OutcomeTopic string
	BufferSize   int
}

// LLMConfig configures the text-completion collaborator.
type LLMConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// SearchConfig configures the web-search collaborator.
type SearchConfig struct {
	APIKey     string
	BaseURL    string
	RatePerSec float64
	Timeout    time.Duration
}

// Defaults used when the corresponding env var is unset or malformed.
const (
	DefaultAddr              = ":8080"
	DefaultOutcomeTopic      = "herbcheck.validation-outcomes"
	DefaultLLMBaseURL        = "https://api.groq.com/openai/v1"
	DefaultLLMModel          = "llama3-8b-8192"
	DefaultSearchBaseURL     = "https://google.serper.dev/search"
	DefaultMaxHarvestAgeDays = 7
)

// Default returns the configuration used when no environment overrides exist.
func Default() Server {
	return Server{
		Addr:      DefaultAddr,
		LogLevel:  "info",
		LogFormat: "json",
		Validation: ValidationConfig{
			Timeout:                       45 * time.Second,
			SatelliteTimeout:              30 * time.Second,
			RegulatoryTimeout:             15 * time.Second,
			MaxHarvestAgeDays:             DefaultMaxHarvestAgeDays,
			MinQuantityKg:                 0.1,
			MaxQuantityKg:                 1000,
			ComplianceConfidenceThreshold: 0.7,
		},
		Cache: CacheConfig{
			RegulatoryTTL:    24 * time.Hour,
			EnvironmentalTTL: 6 * time.Hour,
		},
		Quality: QualityConfig{
			MaxMoisture:  12,
			MaxAsh:       10,
			MaxLead:      10,
			MaxMercury:   1,
			MaxCadmium:   0.3,
			MaxPesticide: 0.01,
		},
		Redis: RedisConfig{
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Postgres: PostgresConfig{
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: 30 * time.Minute,
		},
		Kafka: KafkaConfig{
			OutcomeTopic: DefaultOutcomeTopic,
			BufferSize:   256,
		},
		LLM: LLMConfig{
			BaseURL: DefaultLLMBaseURL,
			Model:   DefaultLLMModel,
			Timeout: 30 * time.Second,
		},
		Search: SearchConfig{
			BaseURL:    DefaultSearchBaseURL,
			RatePerSec: 5,
			Timeout:    15 * time.Second,
		},
	}
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	return fromLookup(os.LookupEnv)
}

func fromLookup(lookup func(string) (string, bool)) Server {
	cfg := Default()
	get := func(key string) string {
		v, _ := lookup(key)
		return strings.TrimSpace(v)
	}

	cfg.Addr = stringOr(get("HERBCHECK_ADDR"), cfg.Addr)
	cfg.LogLevel = stringOr(get("LOG_LEVEL"), cfg.LogLevel)
	cfg.LogFormat = stringOr(get("LOG_FORMAT"), cfg.LogFormat)

	v := &cfg.Validation
	v.SatelliteTimeout = secondsOr(get("SATELLITE_API_TIMEOUT"), v.SatelliteTimeout)
	v.RegulatoryTimeout = secondsOr(get("REGULATORY_API_TIMEOUT"), v.RegulatoryTimeout)
	v.Timeout = secondsOr(get("VALIDATION_TIMEOUT"), v.Timeout)
	v.MaxHarvestAgeDays = intOr(get("MAX_HARVEST_AGE_DAYS"), v.MaxHarvestAgeDays)
	v.MinQuantityKg = floatOr(get("MIN_QUANTITY_KG"), v.MinQuantityKg)
	v.MaxQuantityKg = floatOr(get("MAX_QUANTITY_KG"), v.MaxQuantityKg)
	v.ComplianceConfidenceThreshold = floatOr(get("COMPLIANCE_CONFIDENCE_THRESHOLD"), v.ComplianceConfidenceThreshold)

	c := &cfg.Cache
	c.RegulatoryTTL = hoursOr(get("REGULATORY_CACHE_HOURS"), c.RegulatoryTTL)
	c.EnvironmentalTTL = hoursOr(get("SATELLITE_CACHE_HOURS"), c.EnvironmentalTTL)
	c.MaxEntries = intOr(get("CACHE_MAX_ENTRIES"), c.MaxEntries)

	q := &cfg.Quality
	q.MaxMoisture = floatOr(get("QUALITY_MAX_MOISTURE"), q.MaxMoisture)
	q.MaxAsh = floatOr(get("QUALITY_MAX_ASH"), q.MaxAsh)
	q.MaxLead = floatOr(get("QUALITY_MAX_LEAD"), q.MaxLead)
	q.MaxMercury = floatOr(get("QUALITY_MAX_MERCURY"), q.MaxMercury)
	q.MaxCadmium = floatOr(get("QUALITY_MAX_CADMIUM"), q.MaxCadmium)
	q.MaxPesticide = floatOr(get("QUALITY_MAX_PESTICIDE"), q.MaxPesticide)

	r := &cfg.Redis
	r.URL = get("REDIS_URL")
	r.PoolSize = intOr(get("REDIS_POOL_SIZE"), r.PoolSize)
	r.MinIdleConns = intOr(get("REDIS_MIN_IDLE_CONNS"), r.MinIdleConns)

	cfg.Postgres.URL = get("DATABASE_URL")

	k := &cfg.Kafka
	k.Brokers = splitList(get("KAFKA_BROKERS"))
	k.OutcomeTopic = stringOr(get("KAFKA_OUTCOME_TOPIC"), k.OutcomeTopic)

	l := &cfg.LLM
	l.APIKey = get("LLM_API_KEY")
	l.BaseURL = stringOr(get("LLM_BASE_URL"), l.BaseURL)
	l.Model = stringOr(get("LLM_MODEL"), l.Model)
	l.Timeout = secondsOr(get("LLM_REQUEST_TIMEOUT"), l.Timeout)

	s := &cfg.Search
	s.APIKey = get("SEARCH_API_KEY")
	s.BaseURL = stringOr(get("SEARCH_BASE_URL"), s.BaseURL)
	s.RatePerSec = floatOr(get("SEARCH_RATE_PER_SEC"), s.RatePerSec)
	s.Timeout = v.RegulatoryTimeout

	return cfg
}

func stringOr(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func intOr(v string, def int) int {
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return def
	}
	return n
}

func floatOr(v string, def float64) float64 {
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 0 {
		return def
	}
	return f
}

func secondsOr(v string, def time.Duration) time.Duration {
	n := intOr(v, -1)
	if n <= 0 {
		return def
	}
	return time.Duration(n) * time.Second
}

func hoursOr(v string, def time.Duration) time.Duration {
	n := intOr(v, -1)
	if n <= 0 {
		return def
	}
	return time.Duration(n) * time.Hour
}

func splitList(v string) []string {
	if v == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
