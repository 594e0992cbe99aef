package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverRedis    = "redis"
)

type Config struct {
	Debug       bool   `env:"DEBUG" envDefault:"false"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"giveaway-entry"`

	Server struct {
		Port            int           `env:"PORT" envDefault:"8080"`
		EntryPath       string        `env:"ENTRY_PATH" envDefault:"/api/submit-entry"`
		ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"15s"`
		WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"15s"`
		IdleTimeout     time.Duration `env:"SERVER_IDLE_TIMEOUT" envDefault:"60s"`
		ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`
		SwaggerEnabled  bool          `env:"SWAGGER_ENABLED" envDefault:"false"`
	}

	Store struct {
		// postgres, sqlite, redis
		Driver  string        `env:"STORE_DRIVER" envDefault:"postgres"`
		Timeout time.Duration `env:"STORE_TIMEOUT" envDefault:"10s"`
	}

	Postgres struct {
		URL             string        `env:"DATABASE_URL"`
		MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"10"`
		MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
		ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"1h"`
		AutoMigrate     bool          `env:"DB_AUTO_MIGRATE" envDefault:"false"`
	}

	SQLite struct {
		Path string `env:"SQLITE_PATH" envDefault:"./data/entries.db"`
	}

	Redis struct {
		Host      string `env:"REDIS_HOST" envDefault:"localhost"`
		Port      int    `env:"REDIS_PORT" envDefault:"6379"`
		Password  string `env:"REDIS_PASSWORD" envDefault:""`
		DB        int    `env:"REDIS_DB" envDefault:"0"`
		KeyPrefix string `env:"REDIS_KEY_PREFIX" envDefault:""`
	}

	Entry struct {
		// Look up duplicates by the normalized email instead of the raw one.
		NormalizedDuplicateCheck bool `env:"ENTRY_NORMALIZED_DUPLICATE_CHECK" envDefault:"false"`
	}
}

// RedisAddr returns host:port for the redis client.
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

// Validate checks combinations env tags cannot express.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case DriverPostgres:
		if c.Postgres.URL == "" {
			return fmt.Errorf("DATABASE_URL is required for store driver %q", c.Store.Driver)
		}
	case DriverSQLite:
		if c.SQLite.Path == "" {
			return fmt.Errorf("SQLITE_PATH is required for store driver %q", c.Store.Driver)
		}
	case DriverRedis:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.Store.Driver)
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid PORT %d", c.Server.Port)
	}
	if c.Server.EntryPath == "" || c.Server.EntryPath[0] != '/' {
		return fmt.Errorf("ENTRY_PATH must start with '/', got %q", c.Server.EntryPath)
	}
	if c.Store.Timeout <= 0 {
		return fmt.Errorf("STORE_TIMEOUT must be positive")
	}
	return nil
}

// Load reads the environment (and an optional .env file) into Config.
func Load() (*Config, error) {
	// A missing .env is fine: production sets the variables directly.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// MustLoad is Load that panics on error.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}
