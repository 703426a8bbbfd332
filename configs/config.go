package configs

import (
	"fmt"
	"strings"
	"time"

	"go-ingest/pkg/resource"
)

// Config is the typed view of application.yml handed to constructors.
type Config struct {
	Name        string
	LogLevel    string
	Port        string
	ContextPath string
	Ingest      IngestConfig
	Schedule    ScheduleConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	AWS         AWSConfig
	Integration IntegrationConfig
}

type IngestConfig struct {
	Concurrency int
	Cities      []string
	FlightsFrom time.Duration
	FlightsTo   time.Duration
}

type ScheduleConfig struct {
	Enabled bool
	Cron    string
	LockTTL time.Duration
}

// DatabaseConfig selects the store. Driver is postgres, sqlite or memory and
// Backend picks the postgres access layer: sqlc, gorm or pgx.
type DatabaseConfig struct {
	Driver        string
	Backend       string
	Host          string
	Port          string
	Username      string
	Password      string
	Database      string
	Schema        string
	SSLMode       string
	Path          string
	CreateMissing bool
	BatchSize     int
	NativeUpsert  bool
}

// PostgresDSN renders the keyword/value connection string understood by lib/pq, pgx and gorm.
func (d DatabaseConfig) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s search_path=%s",
		d.Host, d.Port, d.Username, d.Password, d.Database, d.SSLMode, d.Schema)
}

type RedisConfig struct {
	Enabled      bool
	Host         string
	Port         int
	Password     string
	Database     int
	CityCacheTTL time.Duration
	LockTTL      time.Duration
}

type AWSConfig struct {
	Enabled       bool
	Region        string
	Endpoint      string
	AccessKey     string
	SecretKey     string
	RequestsQueue string
	EventsQueue   string
	PoolSize      int
}

type UpstreamConfig struct {
	URL    string
	APIKey string
}

type IntegrationConfig struct {
	Timeout     time.Duration
	MaxRetries  int
	RateLimit   float64
	Ninjas      UpstreamConfig
	OpenWeather UpstreamConfig
	Units       string
	AeroDataBox UpstreamConfig
	AeroHost    string
	RadiusKm    int
	Limit       int
}

// Load reads the properties file and builds the typed configuration.
func Load() (*Config, error) {
	if err := resource.Init(resource.FilePath()); err != nil {
		return nil, err
	}

	cfg := &Config{
		Name:        resource.GetStringOrDefault("app.name", "go-ingest"),
		LogLevel:    resource.GetStringOrDefault("app.log.level", "info"),
		Port:        resource.GetStringOrDefault("app.server.port", "8080"),
		ContextPath: resource.GetString("app.server.context-path"),
		Ingest: IngestConfig{
			Concurrency: resource.GetIntOrDefault("app.ingest.concurrency", 4),
			Cities:      trimAll(resource.GetStringSlice("app.ingest.cities")),
			FlightsFrom: resource.GetDurationOrDefault("app.ingest.flights.from", 24*time.Hour),
			FlightsTo:   resource.GetDurationOrDefault("app.ingest.flights.to", 36*time.Hour),
		},
		Schedule: ScheduleConfig{
			Enabled: resource.GetBool("app.schedule.enabled"),
			Cron:    resource.GetStringOrDefault("app.schedule.cron", "0 */6 * * *"),
			LockTTL: resource.GetDurationOrDefault("app.schedule.lock-ttl", 30*time.Minute),
		},
		Database: DatabaseConfig{
			Driver:        strings.ToLower(resource.GetStringOrDefault("app.db.driver", "postgres")),
			Backend:       strings.ToLower(resource.GetStringOrDefault("app.db.backend", "sqlc")),
			Host:          resource.GetString("app.db.host"),
			Port:          resource.GetStringOrDefault("app.db.port", "5432"),
			Username:      resource.GetString("app.db.username"),
			Password:      resource.GetString("app.db.password"),
			Database:      resource.GetString("app.db.database"),
			Schema:        resource.GetStringOrDefault("app.db.schema", "public"),
			SSLMode:       resource.GetStringOrDefault("app.db.ssl-mode", "disable"),
			Path:          resource.GetStringOrDefault("app.db.path", "go-ingest.db"),
			CreateMissing: resource.GetBool("app.db.create-missing"),
			BatchSize:     resource.GetIntOrDefault("app.db.batch-size", 500),
			NativeUpsert:  resource.GetBool("app.db.native-upsert"),
		},
		Redis: RedisConfig{
			Enabled:      resource.GetBool("app.redis.enabled"),
			Host:         resource.GetStringOrDefault("app.redis.host", "localhost"),
			Port:         resource.GetIntOrDefault("app.redis.port", 6379),
			Password:     resource.GetString("app.redis.password"),
			Database:     resource.GetInt("app.redis.database"),
			CityCacheTTL: resource.GetDurationOrDefault("app.redis.city-cache-ttl", 7*24*time.Hour),
			LockTTL:      resource.GetDurationOrDefault("app.redis.lock-ttl", 2*time.Minute),
		},
		AWS: AWSConfig{
			Enabled:       resource.GetBool("app.cloud.aws.enabled"),
			Region:        resource.GetStringOrDefault("app.cloud.aws.region", "us-east-1"),
			Endpoint:      resource.GetString("app.cloud.aws.endpoint"),
			AccessKey:     resource.GetString("app.cloud.aws.access-key"),
			SecretKey:     resource.GetString("app.cloud.aws.secret-key"),
			RequestsQueue: resource.GetString("app.cloud.aws.sqs.requests-queue"),
			EventsQueue:   resource.GetString("app.cloud.aws.sqs.events-queue"),
			PoolSize:      resource.GetIntOrDefault("app.cloud.aws.sqs.pool-size", 1),
		},
		Integration: IntegrationConfig{
			Timeout:    resource.GetDurationOrDefault("app.integration.timeout", 15*time.Second),
			MaxRetries: resource.GetInt("app.integration.max-retries"),
			RateLimit:  resource.GetFloat64("app.integration.rate-limit"),
			Ninjas: UpstreamConfig{
				URL:    resource.GetString("app.integration.ninjas.url"),
				APIKey: resource.GetString("app.integration.ninjas.api-key"),
			},
			OpenWeather: UpstreamConfig{
				URL:    resource.GetString("app.integration.openweather.url"),
				APIKey: resource.GetString("app.integration.openweather.api-key"),
			},
			Units: resource.GetStringOrDefault("app.integration.openweather.units", "metric"),
			AeroDataBox: UpstreamConfig{
				URL:    resource.GetString("app.integration.aerodatabox.url"),
				APIKey: resource.GetString("app.integration.aerodatabox.api-key"),
			},
			AeroHost: resource.GetString("app.integration.aerodatabox.host"),
			RadiusKm: resource.GetIntOrDefault("app.integration.aerodatabox.radius-km", 50),
			Limit:    resource.GetIntOrDefault("app.integration.aerodatabox.limit", 5),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite", "memory":
	default:
		return fmt.Errorf("app.db.driver must be postgres, sqlite or memory, got %q", c.Database.Driver)
	}
	switch c.Database.Backend {
	case "sqlc", "gorm", "pgx":
	default:
		return fmt.Errorf("app.db.backend must be sqlc, gorm or pgx, got %q", c.Database.Backend)
	}
	if c.Database.Driver != "postgres" && c.Database.Backend != "sqlc" {
		return fmt.Errorf("app.db.backend %q requires the postgres driver", c.Database.Backend)
	}
	if c.Redis.LockTTL < time.Second {
		return fmt.Errorf("app.redis.lock-ttl must be at least 1s, got %s", c.Redis.LockTTL)
	}
	if c.Ingest.FlightsTo <= c.Ingest.FlightsFrom {
		return fmt.Errorf("app.ingest.flights.to must be after app.ingest.flights.from")
	}
	return nil
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
