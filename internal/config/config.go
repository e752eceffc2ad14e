// Package config loads service settings from the environment
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/damon-houk/wex-purchase-conversion/internal/infrastructure/logger"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Prefix is prepended to every variable, e.g. WEX_SERVER_ADDR
const Prefix = "WEX"

// Cache backends
const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

// ServerConfig configures the HTTP server
type ServerConfig struct {
	Addr            string        `envconfig:"ADDR" default:":8080"`
	ReadTimeout     time.Duration `envconfig:"READ_TIMEOUT" default:"10s"`
	WriteTimeout    time.Duration `envconfig:"WRITE_TIMEOUT" default:"30s"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"15s"`
}

// TreasuryConfig configures the rate provider client
type TreasuryConfig struct {
	BaseURL        string        `envconfig:"BASE_URL" default:"https://api.fiscaldata.treasury.gov/services/api/fiscal_service"`
	ConnectTimeout time.Duration `envconfig:"CONNECT_TIMEOUT" default:"5s"`
	ReadTimeout    time.Duration `envconfig:"READ_TIMEOUT" default:"5s"`
}

// CacheConfig selects and configures the rate cache
type CacheConfig struct {
	Backend       string `envconfig:"BACKEND" default:"memory"`
	RedisAddr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`
	KeyPrefix     string `envconfig:"KEY_PREFIX" default:"wex:rate:"`
}

// WarmerConfig sizes the backfill worker pool
type WarmerConfig struct {
	Workers   int `envconfig:"WORKERS" default:"2"`
	QueueSize int `envconfig:"QUEUE_SIZE" default:"256"`
}

// Config is the full service configuration. DBPath is not nested: envconfig
// falls back to the bare tag name, and a bare PATH would pick up the shell's
// search path.
type Config struct {
	LogLevel string         `envconfig:"LOG_LEVEL" default:"info"`
	Server   ServerConfig   `envconfig:"SERVER"`
	DBPath   string         `envconfig:"DB_PATH" default:"./data"`
	Treasury TreasuryConfig `envconfig:"TREASURY"`
	Cache    CacheConfig    `envconfig:"CACHE"`
	Warmer   WarmerConfig   `envconfig:"WARMER"`
}

// Load reads the optional dotenv files, then the environment. Variables
// already set in the environment win over dotenv values.
func Load(dotenvFiles ...string) (Config, error) {
	if len(dotenvFiles) == 0 {
		dotenvFiles = []string{".env"}
	}
	for _, f := range dotenvFiles {
		// A missing file is normal outside local development
		_ = godotenv.Load(f)
	}

	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to process environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values envconfig cannot check on its own
func (c *Config) Validate() error {
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid %s_LOG_LEVEL: %w", Prefix, err)
	}

	c.Cache.Backend = strings.ToLower(strings.TrimSpace(c.Cache.Backend))
	switch c.Cache.Backend {
	case CacheBackendMemory, CacheBackendRedis:
	default:
		return fmt.Errorf("invalid %s_CACHE_BACKEND %q: want %q or %q",
			Prefix, c.Cache.Backend, CacheBackendMemory, CacheBackendRedis)
	}

	if c.Warmer.Workers <= 0 {
		return fmt.Errorf("%s_WARMER_WORKERS must be positive, got %d", Prefix, c.Warmer.Workers)
	}
	if c.Warmer.QueueSize <= 0 {
		return fmt.Errorf("%s_WARMER_QUEUE_SIZE must be positive, got %d", Prefix, c.Warmer.QueueSize)
	}
	if c.Treasury.ConnectTimeout <= 0 || c.Treasury.ReadTimeout <= 0 {
		return fmt.Errorf("%s_TREASURY timeouts must be positive", Prefix)
	}
	return nil
}

// Level returns the parsed log level
func (c Config) Level() logger.Level {
	level, _ := logger.ParseLevel(c.LogLevel)
	return level
}
