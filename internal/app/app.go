// Package app wires the enrichment pipeline from configuration. Both
// binaries build the same core; the API server adds the HTTP layer on top.
package app

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/mealdex/enrich/internal/classifier"
	"github.com/mealdex/enrich/internal/enrich"
	"github.com/mealdex/enrich/internal/extractor"
	"github.com/mealdex/enrich/internal/infrastructure/cache"
	"github.com/mealdex/enrich/internal/infrastructure/config"
	"github.com/mealdex/enrich/internal/notify"
	"github.com/mealdex/enrich/internal/store"
	"github.com/mealdex/enrich/pkg/logger"
	"github.com/mealdex/enrich/pkg/resilience"
)

// App holds the wired pipeline components
type App struct {
	Config       *config.Config
	Logger       *zap.Logger
	Store        store.RecordStore
	Cache        cache.Cache
	Extractor    *extractor.Extractor
	Classifier   *classifier.Service
	Orchestrator *enrich.Orchestrator
	Mailer       *notify.Mailer
	Registry     *prometheus.Registry

	redisCache *cache.RedisCache
}

// New builds the pipeline from configuration
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	log, err := logger.New(logger.Config{
		Level:       cfg.App.LogLevel,
		Format:      cfg.App.LogFormat,
		Development: !cfg.IsProduction(),
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}

	a := &App{Config: cfg, Logger: log}

	a.Registry = prometheus.NewRegistry()
	a.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := enrich.NewMetrics(a.Registry)

	switch cfg.Cache.Backend {
	case "redis":
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Host:     cfg.Cache.Host,
			Port:     cfg.Cache.Port,
			Password: cfg.Cache.Password,
			Database: cfg.Cache.Database,
		}, log)
		if err != nil {
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		a.redisCache = rc
		a.Cache = rc
	default:
		a.Cache = cache.NewLocalCache(cfg.Cache.MaxSize)
	}

	ns, err := store.NewNotionStore(store.NotionConfig{
		BaseURL:    cfg.Store.BaseURL,
		APIKey:     cfg.Store.APIKey,
		DatabaseID: cfg.Store.DatabaseID,
		Timeout:    cfg.Store.Timeout,
		PageSize:   cfg.Store.PageSize,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("record store: %w", err)
	}
	a.Store = ns

	a.Extractor = extractor.New(extractor.Config{
		Timeout:     cfg.Extractor.Timeout,
		MaxAttempts: uint64(cfg.Extractor.MaxAttempts),
		UserAgent:   cfg.Extractor.UserAgent,
	}, log)

	var completion classifier.CompletionClient
	if cfg.AIEnabled() {
		completion = classifier.NewAPIClient(classifier.APIConfig{
			BaseURL:     cfg.AI.BaseURL,
			APIKey:      cfg.AI.APIKey,
			Model:       cfg.AI.Model,
			Timeout:     cfg.AI.Timeout,
			Temperature: cfg.AI.Temperature,
			MaxTokens:   cfg.AI.MaxTokens,
		}, log)
	} else {
		log.Warn("classification API key not configured, using fallback rules only")
	}

	breaker := resilience.NewBreaker("classification-api", resilience.BreakerConfig{
		FailureThreshold: cfg.AI.FailureThreshold,
		ResetWindow:      cfg.AI.ResetWindow,
		OnStateChange: func(name string, from, to resilience.BreakerState) {
			log.Warn("circuit breaker state change",
				zap.String("breaker", name),
				zap.Stringer("from", from),
				zap.Stringer("to", to))
			if to == resilience.StateOpen {
				metrics.BreakerOpens.Inc()
			}
		},
	})

	a.Classifier = classifier.NewService(completion, breaker, a.Cache, cfg.Cache.TTL, log)

	a.Orchestrator = enrich.New(a.Store, a.Extractor, a.Classifier, a.Cache, metrics, enrich.Config{
		BatchSize:   cfg.Enrichment.BatchSize,
		Concurrency: cfg.Enrichment.Concurrency,
		RecipeDelay: cfg.Enrichment.RecipeDelay,
		CacheTTL:    cfg.Cache.TTL,
	}, log)

	a.Mailer = notify.NewMailer(notify.Config{
		SMTPHost:    cfg.Email.SMTPHost,
		SMTPPort:    cfg.Email.SMTPPort,
		Username:    cfg.Email.Username,
		Password:    cfg.Email.Password,
		FromAddress: cfg.Email.FromAddress,
		ToAddress:   cfg.Email.ToAddress,
	}, log)

	return a, nil
}

// Close releases held resources
func (a *App) Close() {
	if a.redisCache != nil {
		if err := a.redisCache.Close(); err != nil {
			a.Logger.Warn("redis close failed", zap.Error(err))
		}
	}
	_ = a.Logger.Sync()
}
