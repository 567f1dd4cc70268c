package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	"herbcheck/internal/cache"
	"herbcheck/internal/coordinator"
	coordmetrics "herbcheck/internal/coordinator/metrics"
	"herbcheck/internal/domain"
	"herbcheck/internal/enrichment"
	"herbcheck/internal/enrichment/llm"
	"herbcheck/internal/environment"
	envhandler "herbcheck/internal/environment/handler"
	"herbcheck/internal/health"
	"herbcheck/internal/outcome"
	outcomemetrics "herbcheck/internal/outcome/metrics"
	"herbcheck/internal/platform/config"
	"herbcheck/internal/platform/kafka"
	"herbcheck/internal/platform/metrics"
	"herbcheck/internal/platform/postgres"
	"herbcheck/internal/platform/redis"
	"herbcheck/internal/regulatory"
	reghandler "herbcheck/internal/regulatory/handler"
	"herbcheck/internal/search"
	searchhandler "herbcheck/internal/search/handler"
	"herbcheck/internal/species"
	specieshandler "herbcheck/internal/species/handler"
	httptransport "herbcheck/internal/transport/http"
	"herbcheck/internal/validation"
	"herbcheck/internal/validation/basic"
	validationhandler "herbcheck/internal/validation/handler"
	"herbcheck/pkg/platform/circuit"
)

type catalog interface {
	species.Getter
	species.Saver
	List(ctx context.Context) ([]domain.Species, error)
	Health(ctx context.Context) error
}

type app struct {
	handler   http.Handler
	worker    *outcome.Worker
	aiEnabled bool
	closers   []func()
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// build constructs every service. Redis, Postgres and Kafka are optional;
// when configured they must be reachable at startup.
func build(ctx context.Context, cfg config.Server, log *slog.Logger) (_ *app, err error) {
	a := &app{}
	defer func() {
		if err != nil {
			a.close()
		}
	}()

	reg := prometheus.DefaultRegisterer
	cacheMetrics := cache.NewMetrics(reg)
	monitor := health.NewMonitor(health.WithLogger(log), health.WithMetrics(health.NewMetrics()))

	redisClient, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	var (
		requirementsCache cache.Cache[regulatory.Requirements]
		snapshotCache     cache.Cache[domain.SignalSnapshot]
	)
	if redisClient != nil {
		a.closers = append(a.closers, func() { _ = redisClient.Close() })
		requirementsCache = cache.NewRedis[regulatory.Requirements](redisClient.Client, "requirements", cfg.Cache.RegulatoryTTL,
			cache.WithRedisMetrics(cacheMetrics), cache.WithRedisLogger(log))
		snapshotCache = cache.NewRedis[domain.SignalSnapshot](redisClient.Client, "environmental", cfg.Cache.EnvironmentalTTL,
			cache.WithRedisMetrics(cacheMetrics), cache.WithRedisLogger(log))
		monitor.Register(health.Component{Name: "cache", Check: redisClient.Health})
	} else {
		memRequirements := cache.NewMemory[regulatory.Requirements]("requirements", cfg.Cache.RegulatoryTTL,
			cache.WithMaxEntries(cfg.Cache.MaxEntries), cache.WithMetrics(cacheMetrics))
		requirementsCache = memRequirements
		snapshotCache = cache.NewMemory[domain.SignalSnapshot]("environmental", cfg.Cache.EnvironmentalTTL,
			cache.WithMaxEntries(cfg.Cache.MaxEntries), cache.WithMetrics(cacheMetrics))
		monitor.Register(health.Component{Name: "cache", Check: memRequirements.Health})
	}

	catalog, err := openCatalog(ctx, cfg.Postgres, a)
	if err != nil {
		return nil, err
	}
	monitor.Register(health.Component{Name: "species_store", Critical: true, Check: catalog.Health})

	provider := environment.NewCircuitBreakerProvider(environment.NewSimulatedProvider(), circuit.New("signal-provider"), log)
	sites := environment.New(provider,
		environment.WithLogger(log),
		environment.WithSnapshotCache(snapshotCache),
	)
	monitor.Register(health.Component{Name: "signal_provider", Critical: true, Check: sites.Health})

	engine := regulatory.New(
		regulatory.WithLogger(log),
		regulatory.WithQualityStandards(regulatory.QualityStandards{
			MaxMoisture:  cfg.Quality.MaxMoisture,
			MaxAsh:       cfg.Quality.MaxAsh,
			MaxLead:      cfg.Quality.MaxLead,
			MaxMercury:   cfg.Quality.MaxMercury,
			MaxCadmium:   cfg.Quality.MaxCadmium,
			MaxPesticide: cfg.Quality.MaxPesticide,
		}),
		regulatory.WithRequirementsCache(requirementsCache),
		regulatory.WithSpeciesCatalog(catalog),
	)

	coord := coordinator.New(
		basic.New(basic.Config{
			MaxHarvestAgeDays: cfg.Validation.MaxHarvestAgeDays,
			MinQuantityKg:     cfg.Validation.MinQuantityKg,
			MaxQuantityKg:     cfg.Validation.MaxQuantityKg,
		}),
		sites,
		engine,
		coordinator.WithLogger(log),
		coordinator.WithTimeout(cfg.Validation.Timeout),
		coordinator.WithCheckTimeout(domain.CheckEnvironmental, cfg.Validation.SatelliteTimeout),
		coordinator.WithCheckTimeout(domain.CheckRegulatory, cfg.Validation.RegulatoryTimeout),
		coordinator.WithMetrics(coordmetrics.New()),
	)

	llmClient := llm.NewClient(llm.Config{
		APIKey:  cfg.LLM.APIKey,
		BaseURL: cfg.LLM.BaseURL,
		Model:   cfg.LLM.Model,
		Timeout: cfg.LLM.Timeout,
	}, llm.WithLogger(log))
	monitor.Register(health.Component{Name: "llm", Check: health.ConfiguredCheck(llmClient.IsConfigured(), health.BreakerCheck(llmClient.Breaker()))})

	var (
		enricher  *enrichment.Enricher
		explainer reghandler.Explainer
	)
	if llmClient.IsConfigured() {
		enricher = enrichment.New(llmClient, enrichment.WithLogger(log))
		explainer = enricher
		a.aiEnabled = true
	}

	searchClient := search.NewClient(search.Config{
		APIKey:     cfg.Search.APIKey,
		BaseURL:    cfg.Search.BaseURL,
		Timeout:    cfg.Search.Timeout,
		RatePerSec: cfg.Search.RatePerSec,
	}, search.WithLogger(log))
	insights := search.NewService(searchClient, search.WithServiceLogger(log))
	monitor.Register(health.Component{Name: "search", Check: health.ConfiguredCheck(searchClient.IsConfigured(), nil)})

	sink, history, err := openSink(ctx, cfg.Kafka, a)
	if err != nil {
		return nil, err
	}
	monitor.Register(health.Component{Name: "outcome_publisher", Check: sink.Health})
	a.worker = outcome.NewWorker(sink, cfg.Kafka.BufferSize,
		outcome.WithLogger(log),
		outcome.WithMetrics(outcomemetrics.New()),
	)

	opts := []validation.Option{
		validation.WithLogger(log),
		validation.WithSpeciesCatalog(catalog),
		validation.WithPublisher(a.worker),
	}
	if enricher != nil {
		opts = append(opts, validation.WithEnricher(enricher))
	}
	validator := validation.New(coord, opts...)

	var outcomes validationhandler.OutcomeLister
	if history != nil {
		outcomes = history
	}

	a.handler = httptransport.NewRouter(httptransport.RouterConfig{
		Logger:  log,
		Metrics: metrics.New(),
		Handlers: []httptransport.Registrar{
			validationhandler.New(validator, outcomes, log),
			envhandler.New(sites, log),
			reghandler.New(engine, explainer, log),
			specieshandler.New(catalog, log),
			searchhandler.New(insights, log),
			health.NewHandler(monitor),
		},
	})
	return a, nil
}

func openCatalog(ctx context.Context, cfg config.PostgresConfig, a *app) (catalog, error) {
	db, err := postgres.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if db == nil {
		mem := species.NewInMemory()
		if err := species.SeedDefaults(ctx, mem); err != nil {
			return nil, err
		}
		return mem, nil
	}
	a.closers = append(a.closers, func() { _ = db.Close() })

	store := species.NewPostgres(db)
	if err := store.EnsureSchema(ctx); err != nil {
		return nil, err
	}
	err = store.WithinTx(ctx, func(ctx context.Context) error {
		return species.SeedDefaults(ctx, store)
	})
	if err != nil {
		return nil, fmt.Errorf("seed species: %w", err)
	}
	return store, nil
}

type healthSink interface {
	outcome.Sink
	Health(ctx context.Context) error
}

// openSink publishes to Kafka when brokers are configured. Otherwise outcomes
// are retained in memory and exposed over HTTP.
func openSink(ctx context.Context, cfg config.KafkaConfig, a *app) (healthSink, *outcome.MemorySink, error) {
	client, err := kafka.New(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("connect kafka: %w", err)
	}
	if client == nil {
		mem := outcome.NewMemorySink(0)
		return mem, mem, nil
	}
	a.closers = append(a.closers, client.Close)

	if err := kafka.EnsureTopic(ctx, client, cfg.OutcomeTopic, 3, 1); err != nil {
		return nil, nil, err
	}
	return outcome.NewKafkaPublisher(client, cfg.OutcomeTopic), nil, nil
}
