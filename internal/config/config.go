package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Admin    AdminConfig
	Store    StoreConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Scrape   ScrapeConfig
}

type AppConfig struct {
	Name     string `env:"APP_NAME" envDefault:"kazi-hub"`
	Env      string `env:"APP_ENV" envDefault:"development"`
	HTTPPort string `env:"PORT" envDefault:"5001"`
}

type AdminConfig struct {
	// Secret gates the manual-trigger endpoint, either directly via the
	// X-Admin-Token header or exchanged for a bearer token.
	Secret    string        `env:"ADMIN_SECRET" envDefault:"jobskenya-secret-2025"`
	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"JWT_TTL" envDefault:"1h"`
}

type StoreConfig struct {
	SnapshotFile string `env:"SNAPSHOT_FILE" envDefault:"scraped_jobs.json"`
}

type DatabaseConfig struct {
	// URL selects the Postgres snapshot store when non-empty; the file
	// store is used otherwise.
	URL                   string        `env:"DATABASE_URL"`
	ConnectTimeout        time.Duration `env:"DB_CONNECT_TIMEOUT" envDefault:"5s"`
	PoolMaxConns          int32         `env:"DB_POOL_MAX_CONNS" envDefault:"8"`
	PoolMinConns          int32         `env:"DB_POOL_MIN_CONNS" envDefault:"0"`
	PoolMaxConnLifetime   time.Duration `env:"DB_POOL_MAX_CONN_LIFETIME" envDefault:"1h"`
	PoolMaxConnIdleTime   time.Duration `env:"DB_POOL_MAX_CONN_IDLE_TIME" envDefault:"30m"`
	PoolHealthCheckPeriod time.Duration `env:"DB_POOL_HEALTH_CHECK_PERIOD" envDefault:"1m"`
}

type RedisConfig struct {
	Addr     string        `env:"REDIS_ADDR"`
	Password string        `env:"REDIS_PASSWORD"`
	DB       int           `env:"REDIS_DB" envDefault:"0"`
	TTL      time.Duration `env:"REDIS_TTL" envDefault:"10m"`
}

type ScrapeConfig struct {
	Interval           time.Duration `env:"SCRAPE_INTERVAL" envDefault:"1h"`
	HTTPTimeout        time.Duration `env:"HTTP_TIMEOUT" envDefault:"15s"`
	MaxRetries         int           `env:"MAX_RETRIES" envDefault:"3"`
	RetryDelay         time.Duration `env:"RETRY_DELAY" envDefault:"2s"`
	PageDelay          time.Duration `env:"PAGE_DELAY" envDefault:"1s"`
	DetailDelay        time.Duration `env:"DETAIL_DELAY" envDefault:"500ms"`
	FeedItemCap        int           `env:"FEED_ITEM_CAP" envDefault:"40"`
	MaxParallelSources int           `env:"MAX_PARALLEL_SOURCES" envDefault:"3"`
	PSCHeadless        bool          `env:"PSC_HEADLESS" envDefault:"false"`
	SourcesFile        string        `env:"SOURCES_FILE"`
}

// Load reads configuration from the environment, after loading a .env file
// when one is present.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}

	if strings.TrimSpace(cfg.Admin.JWTSecret) == "" {
		cfg.Admin.JWTSecret = cfg.Admin.Secret
	}
	if cfg.Scrape.MaxRetries <= 0 {
		cfg.Scrape.MaxRetries = 1
	}
	if cfg.Scrape.MaxParallelSources <= 0 {
		cfg.Scrape.MaxParallelSources = 1
	}

	return cfg, nil
}
