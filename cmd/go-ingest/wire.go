package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"go-ingest/configs"
	"go-ingest/internal/domain/gateway/api"
	"go-ingest/internal/domain/gateway/cache"
	"go-ingest/internal/domain/gateway/db"
	"go-ingest/internal/domain/gateway/lock"
	"go-ingest/internal/domain/gateway/queue"
	"go-ingest/internal/domain/usecase/airport"
	"go-ingest/internal/domain/usecase/city"
	"go-ingest/internal/domain/usecase/extract"
	"go-ingest/internal/domain/usecase/flight"
	"go-ingest/internal/domain/usecase/health"
	"go-ingest/internal/domain/usecase/pipeline"
	"go-ingest/internal/domain/usecase/population"
	"go-ingest/internal/domain/usecase/syncer"
	"go-ingest/internal/domain/usecase/table"
	"go-ingest/internal/domain/usecase/weather"
	infraaws "go-ingest/internal/infra/aws"
	gormdb "go-ingest/internal/infra/database/gorm"
	pgxdb "go-ingest/internal/infra/database/pgx"
	"go-ingest/internal/infra/database/sqlc"
	"go-ingest/internal/infra/observability"
	"go-ingest/pkg/http"
	"go-ingest/pkg/log"
	"go-ingest/pkg/redis"
	"go-ingest/pkg/sqs"
)

const cityCacheName = "cities"

// app holds every wired component. close releases them in reverse order.
type app struct {
	cfg *configs.Config

	store      db.TableGateway
	dbHealth   db.HealthDBGateway
	redis      *redis.Client
	sqsClient  sqs.WorkerAPI
	sender     queue.Sender
	queueState *queue.QueueHealthGateway

	pipeline pipeline.UseCase
	health   health.UseCase
	tables   table.UseCase

	closers []func()
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func buildApp(ctx context.Context, cfg *configs.Config) (*app, error) {
	a := &app{cfg: cfg, queueState: queue.NewQueueHealthGateway()}

	if err := a.openStore(ctx); err != nil {
		a.close()
		return nil, err
	}
	if err := a.connectRedis(ctx); err != nil {
		a.close()
		return nil, err
	}
	if err := a.connectQueue(ctx); err != nil {
		a.close()
		return nil, err
	}

	a.pipeline = a.buildPipeline()
	a.tables = table.NewTableUseCase(a.store)

	var cacheHealth cache.HealthGateway
	if a.redis != nil {
		cacheHealth = cache.NewRedisHealthGateway(a.redis)
	}
	a.health = health.NewHealthUseCase(a.dbHealth, a.queueState, cacheHealth)
	return a, nil
}

func (a *app) openStore(ctx context.Context) error {
	dbCfg := a.cfg.Database
	opts := db.TableOptions{CreateMissing: dbCfg.CreateMissing, BatchSize: dbCfg.BatchSize}

	switch {
	case dbCfg.Driver == "memory":
		a.store = db.NewMemoryTableGateway(opts)
		a.dbHealth = db.MemoryHealthDBGateway{}

	case dbCfg.Backend == "gorm":
		conn, err := gormdb.Open(dbCfg)
		if err != nil {
			return err
		}
		if sqlDB, err := conn.DB(); err == nil {
			a.closers = append(a.closers, func() { _ = sqlDB.Close() })
		}
		a.store = db.NewGormTableGateway(conn, db.Postgres, opts, dbCfg.NativeUpsert)
		a.dbHealth = db.NewGormHealthDBGateway(conn)

	case dbCfg.Backend == "pgx":
		pool, err := pgxdb.Open(ctx, dbCfg)
		if err != nil {
			return err
		}
		a.closers = append(a.closers, pool.Close)
		a.store = db.NewPgxTableGateway(pool, opts)
		a.dbHealth = db.NewPgxHealthDBGateway(pool)

	default:
		conn, dialect, err := sqlc.Open(ctx, dbCfg)
		if err != nil {
			return err
		}
		a.closers = append(a.closers, func() { _ = conn.Close() })
		a.store = db.NewSQLCTableGateway(conn, dialect, opts)
		a.dbHealth = db.NewSQLCHealthDBGateway(conn, dialect.Name)
	}

	log.Info("Store ready", zap.String("driver", dbCfg.Driver), zap.String("backend", dbCfg.Backend))
	return nil
}

func (a *app) connectRedis(ctx context.Context) error {
	if !a.cfg.Redis.Enabled {
		return nil
	}

	redisCfg := redis.NewRedisConfig()
	redisCfg.Host = a.cfg.Redis.Host
	redisCfg.Port = a.cfg.Redis.Port
	redisCfg.Password = a.cfg.Redis.Password
	redisCfg.Database = a.cfg.Redis.Database
	redisCfg.WithCacheTTL(cityCacheName, a.cfg.Redis.CityCacheTTL)

	client, err := redis.NewClient(redisCfg)
	if err != nil {
		return fmt.Errorf("failed to connect redis: %w", err)
	}
	a.closers = append(a.closers, func() { _ = client.Close() })

	if err := client.Ping(ctx); err != nil {
		return fmt.Errorf("failed to ping redis: %w", err)
	}
	a.redis = client
	return nil
}

func (a *app) connectQueue(ctx context.Context) error {
	awsCfg := a.cfg.AWS
	if !awsCfg.Enabled {
		return nil
	}

	sdkCfg, err := infraaws.LoadConfig(ctx, infraaws.Config{
		Region:          awsCfg.Region,
		Endpoint:        awsCfg.Endpoint,
		AccessKeyID:     awsCfg.AccessKey,
		SecretAccessKey: awsCfg.SecretKey,
	})
	if err != nil {
		return err
	}
	client := infraaws.NewSqsClient(sdkCfg, awsCfg.Endpoint)
	a.sqsClient = client
	a.sender = infraaws.NewSQSSenderAdapter(client)
	return nil
}

func (a *app) clientOptions(upstream string) http.ClientOptions {
	integration := a.cfg.Integration
	backoff := http.DefaultBackoffConfig()
	backoff.MaxRetries = integration.MaxRetries
	return http.ClientOptions{
		ConnectionTimeout: integration.Timeout,
		ReadTimeout:       integration.Timeout,
		Backoff:           backoff,
		RateLimit:         integration.RateLimit,
		RateBurst:         1,
		Logger:            observability.NewHTTPLogger(upstream),
	}
}

func (a *app) buildPipeline() pipeline.UseCase {
	integration := a.cfg.Integration

	var cityCache api.LookupCache
	if a.redis != nil {
		cityCache = redis.NewCache(a.redis, redis.NewCacheOptions().WithCacheName(cityCacheName).WithTTL(a.cfg.Redis.CityCacheTTL))
	}
	cityGateway, populationGateway := cityGateways(
		api.NewCityGateway(integration.Ninjas.URL, integration.Ninjas.APIKey, a.clientOptions("ninjas")), cityCache)
	forecastGateway := api.NewForecastGateway(integration.OpenWeather.URL, integration.OpenWeather.APIKey, integration.Units, a.clientOptions("openweather"))
	aeroGateway := api.NewAeroDataBoxGateway(integration.AeroDataBox.URL, api.AeroDataBoxOptions{
		APIKey:   integration.AeroDataBox.APIKey,
		Host:     integration.AeroHost,
		RadiusKm: integration.RadiusKm,
		Limit:    integration.Limit,
	}, a.clientOptions("aerodatabox"))

	var locker lock.TableLocker = lock.NewLocalTableLocker()
	if a.redis != nil {
		locker = lock.ChainTableLocker{
			locker,
			lock.NewRedisTableLocker(a.redis, a.cfg.Redis.LockTTL, 200*time.Millisecond, 300),
		}
	}

	recorder := observability.SyncRecorder{}
	engine := syncer.NewSyncUseCase(a.store, locker, recorder)
	opts := extract.Options{Concurrency: a.cfg.Ingest.Concurrency, Skips: recorder}

	stages := pipeline.Stages{
		Cities:      city.NewCityUseCase(cityGateway, engine, a.store, opts),
		Airports:    airport.NewAirportUseCase(aeroGateway, engine, a.store, opts),
		Populations: population.NewPopulationUseCase(populationGateway, engine, a.store, opts),
		Weathers:    weather.NewWeatherUseCase(forecastGateway, engine, a.store, opts),
		Flights: flight.NewFlightUseCase(aeroGateway, engine, a.store,
			flight.Window{From: a.cfg.Ingest.FlightsFrom, To: a.cfg.Ingest.FlightsTo}, opts),
	}

	return pipeline.NewPipelineUseCase(stages, pipeline.Options{
		DefaultCities: a.cfg.Ingest.Cities,
		EventsQueue:   a.cfg.AWS.EventsQueue,
		Sender:        a.sender,
	})
}

// cityGateways returns the gateway for city lookups, cached when cache is set, and the
// gateway for population counts, which always asks the upstream.
func cityGateways(live api.CityGateway, cache api.LookupCache) (cities, populations api.CityGateway) {
	if cache == nil {
		return live, live
	}
	return api.NewCachedCityGateway(live, cache), live
}

// errQueueDisabled is returned when the SQS worker is requested without AWS configured
var errQueueDisabled = errors.New("aws is disabled, no ingest requests queue to consume")

func (a *app) newWorker(ctx context.Context, handler sqs.Handler) (*sqs.Worker, error) {
	if a.sqsClient == nil {
		return nil, errQueueDisabled
	}
	return sqs.NewWorker(ctx, a.sqsClient, a.cfg.AWS.RequestsQueue, handler, &sqs.WorkerConfig{
		PoolSize: a.cfg.AWS.PoolSize,
		LogLevel: sqs.ErrorLevel,
	})
}
