// Package app wires repositories, caches and services from configuration.
package app

import (
	"context"
	"time"

	"github.com/andresuchdata/smart-inventory/backend-go/internal/abc"
	"github.com/andresuchdata/smart-inventory/backend-go/internal/api"
	"github.com/andresuchdata/smart-inventory/backend-go/internal/auth"
	"github.com/andresuchdata/smart-inventory/backend-go/internal/cache"
	"github.com/andresuchdata/smart-inventory/backend-go/internal/config"
	"github.com/andresuchdata/smart-inventory/backend-go/internal/demand"
	"github.com/andresuchdata/smart-inventory/backend-go/internal/export"
	"github.com/andresuchdata/smart-inventory/backend-go/internal/notify"
	"github.com/andresuchdata/smart-inventory/backend-go/internal/pipeline"
	"github.com/andresuchdata/smart-inventory/backend-go/internal/repository"
	"github.com/andresuchdata/smart-inventory/backend-go/internal/repository/postgres"
	"github.com/andresuchdata/smart-inventory/backend-go/internal/service"
	"github.com/andresuchdata/smart-inventory/backend-go/internal/storage"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

type App struct {
	Products  repository.ProductRepository
	Sales     repository.SalesRepository
	Forecasts repository.ForecastRepository
	Runs      *pipeline.Repository
	Services  *api.Services

	redis  *redis.Client
	broker notify.Broker
}

// New builds the service graph on db. Redis and object storage are optional:
// when they are disabled or unreachable the app falls back to in-process
// caching and events and to the local data directory.
func New(ctx context.Context, cfg *config.Config, db *postgres.DB) (*App, error) {
	a := &App{
		Products:  postgres.NewProductRepository(db),
		Sales:     postgres.NewSalesRepository(db),
		Forecasts: postgres.NewForecastRepository(db),
		Runs:      pipeline.NewRepository(db.DB.DB),
	}

	dashboard, portfolio := a.caches(cfg.Cache)
	exporter := export.NewExporter(ObjectStorage(ctx, cfg))

	users, err := auth.NewDemoUserStore()
	if err != nil {
		return nil, err
	}
	tokens, err := auth.NewTokenManager(cfg.Auth)
	if err != nil {
		return nil, err
	}

	a.Services = &api.Services{
		Products:  service.NewProductService(a.Products, dashboard, portfolio),
		Inventory: service.NewInventoryService(a.Products, a.Sales, a.broker, dashboard, portfolio),
		Predictions: service.NewPredictionService(service.PredictionDeps{
			Products:  a.Products,
			Sales:     a.Sales,
			Forecasts: a.Forecasts,
			Runs:      a.Runs,
			Batch:     Batch(cfg.Forecast),
			Analyzer:  Analyzer(cfg.Forecast),
			Cache:     portfolio,
			Broker:    a.broker,
			Exporter:  exporter,
		}),
		Auth: service.NewAuthService(users, tokens, auth.NewRefreshStore(cfg.Auth.RefreshTokenTTL)),
	}
	return a, nil
}

func (a *App) caches(cfg config.CacheConfig) (cache.DashboardCache, cache.PortfolioCache) {
	a.broker = notify.NewMemoryBroker()
	if !cfg.Enabled {
		return cache.NewNoopDashboardCache(), cache.NewNoopPortfolioCache()
	}

	client, ttl, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Warn().Err(err).Msg("app: redis unavailable, using in-process cache and events")
		return cache.NewNoopDashboardCache(), cache.NewNoopPortfolioCache()
	}
	a.redis = client
	a.broker = notify.NewRedisBroker(client)
	return cache.NewDashboardCacheWithClient(client, ttl), cache.NewPortfolioCacheWithClient(client, ttl)
}

// ObjectStorage returns MinIO when enabled and reachable, else the local data
// directory. It returns nil when neither is usable.
func ObjectStorage(ctx context.Context, cfg *config.Config) storage.ObjectStorage {
	if cfg.Storage.Enabled {
		client, err := storage.NewMinioClient(cfg.Storage)
		if err == nil {
			err = client.EnsureBucket(ctx)
		}
		if err == nil {
			return client
		}
		log.Warn().Err(err).Msg("app: object storage unavailable, exporting to data dir")
	}

	local, err := storage.NewLocalStorage(cfg.App.DataDir)
	if err != nil {
		log.Warn().Err(err).Msg("app: local export storage unavailable, exports are download-only")
		return nil
	}
	return local
}

// Batch builds the forecast batch. Seed 0 draws fresh randomness each run.
func Batch(cfg config.ForecastConfig) *demand.Batch {
	var sources demand.SourceFactory
	if cfg.Seed != 0 {
		sources = demand.SeededSources(cfg.Seed)
	}
	return demand.NewBatch(cfg.HorizonDays, cfg.Workers, sources, log.Logger)
}

func Analyzer(cfg config.ForecastConfig) *abc.Analyzer {
	return abc.NewAnalyzer(time.Duration(cfg.AnalysisWindowDays)*24*time.Hour, log.Logger)
}

func (a *App) Close() {
	if err := a.broker.Close(); err != nil {
		log.Warn().Err(err).Msg("app: closing event broker")
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			log.Warn().Err(err).Msg("app: closing redis")
		}
	}
}
