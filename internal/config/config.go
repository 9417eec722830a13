package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/MrJamesThe3rd/metromood/internal/cycle"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverRedis    = "redis"
	DriverMemory   = "memory"
)

type Config struct {
	App struct {
		Name     string `envconfig:"APP_NAME" default:"MetroMood"`
		Port     int    `envconfig:"PORT" default:"8080"`
		Currency string `envconfig:"CURRENCY" default:"PHP"`
		Locale   string `envconfig:"LOCALE" default:"en-PH"`
	}

	Store struct {
		Driver     string `envconfig:"STORE_DRIVER" default:"sqlite"`
		Key        string `envconfig:"STATE_KEY" default:"metrobankState"`
		SQLitePath string `envconfig:"SQLITE_PATH" default:"data/metromood.db"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"metromood"`
	}

	Redis struct {
		Addr string `envconfig:"REDIS_ADDR"`
	}

	Server struct {
		Timeout            time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
		RateLimitPerMinute int           `envconfig:"RATE_LIMIT_PER_MINUTE" default:"120"`
		AllowedOrigins     []string      `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
	}

	Cycle struct {
		LengthDays       int `envconfig:"CYCLE_LENGTH_DAYS" default:"28"`
		PeriodLengthDays int `envconfig:"PERIOD_LENGTH_DAYS" default:"5"`
	}

	Savings struct {
		ProcessingDelay time.Duration `envconfig:"PROCESSING_DELAY" default:"0s"`
		EnforceLock     bool          `envconfig:"SAVINGS_ENFORCE_LOCK" default:"false"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

func (c *Config) CycleConfig() cycle.Config {
	return cycle.Config{
		CycleLengthDays:  c.Cycle.LengthDays,
		PeriodLengthDays: c.Cycle.PeriodLengthDays,
	}
}

// ValidateWorker checks that the notification worker can reach the state the
// API writes. A memory store lives inside the API process only.
func (c *Config) ValidateWorker() error {
	if c.Redis.Addr == "" {
		return errors.New("REDIS_ADDR is required for the worker")
	}

	if c.Store.Driver == DriverMemory {
		return errors.New("STORE_DRIVER=memory cannot be shared with the worker")
	}

	return nil
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	switch cfg.Store.Driver {
	case DriverPostgres, DriverSQLite, DriverMemory:
	case DriverRedis:
		if cfg.Redis.Addr == "" {
			return nil, errors.New("STORE_DRIVER=redis requires REDIS_ADDR")
		}
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.Store.Driver)
	}

	if err := cfg.CycleConfig().Validate(); err != nil {
		return nil, fmt.Errorf("invalid cycle config: %w", err)
	}

	return &cfg, nil
}
