package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Catalog   CatalogConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig
	Pricing   PricingConfig
	Log       LogConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// CatalogConfig selects and locates the supplier price lists
type CatalogConfig struct {
	Source       string `mapstructure:"source"` // "csv", "postgres" or "http"
	PackagedPath string `mapstructure:"packaged_path"`
	FreshPath    string `mapstructure:"fresh_path"`
	DatabaseURL  string `mapstructure:"database_url"`
	FeedURL      string `mapstructure:"feed_url"`
	FeedAPIKey   string `mapstructure:"feed_api_key"`
	FreshMarker  string `mapstructure:"fresh_marker"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Type     string        `mapstructure:"type"` // "memory" or "redis"
	RedisURL string        `mapstructure:"redis_url"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"` // requests per minute
	Feed  int `mapstructure:"feed"`   // supplier feed requests per hour
}

// PricingConfig tunes the costing pipeline
type PricingConfig struct {
	MaxMultiple int                `mapstructure:"max_multiple"`
	Verbose     bool               `mapstructure:"verbose"`
	Units       map[string]float64 `mapstructure:"units"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/recipescaler/")

	// RECIPESCALER_CACHE_REDIS_URL -> cache.redis_url
	v.SetEnvPrefix("RECIPESCALER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadEnvFile loads a .env file from the working directory if present.
// Variables already set in the environment win.
func loadEnvFile() error {
	if err := godotenv.Load(); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	return nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:*"})

	// Catalog defaults; empty keys are registered so env vars can reach them
	v.SetDefault("catalog.source", "csv")
	v.SetDefault("catalog.packaged_path", "data/price_list.csv")
	v.SetDefault("catalog.fresh_path", "data/fresh_produce.csv")
	v.SetDefault("catalog.database_url", "")
	v.SetDefault("catalog.feed_url", "")
	v.SetDefault("catalog.feed_api_key", "")
	v.SetDefault("catalog.fresh_marker", "*")

	// Cache defaults
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.ttl", "10m")

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 100)
	v.SetDefault("ratelimit.feed", 1000)

	// Pricing defaults
	v.SetDefault("pricing.max_multiple", 5)
	v.SetDefault("pricing.verbose", false)
	v.SetDefault("pricing.units", map[string]float64{
		"tbsp": 0.015,
		"tsp":  0.005,
		"cup":  0.25,
	})

	v.SetDefault("log.level", "info")
}

// validate validates the configuration
func validate(config *Config) error {
	switch config.Catalog.Source {
	case "csv":
		if config.Catalog.PackagedPath == "" || config.Catalog.FreshPath == "" {
			return fmt.Errorf("catalog paths are required when source is 'csv'")
		}
	case "postgres":
		if config.Catalog.DatabaseURL == "" {
			return fmt.Errorf("database URL is required when source is 'postgres' (set RECIPESCALER_CATALOG_DATABASE_URL)")
		}
	case "http":
		if config.Catalog.FeedURL == "" {
			return fmt.Errorf("feed URL is required when source is 'http' (set RECIPESCALER_CATALOG_FEED_URL)")
		}
	default:
		return fmt.Errorf("catalog source must be 'csv', 'postgres' or 'http', got: %s", config.Catalog.Source)
	}

	if config.Cache.Type != "memory" && config.Cache.Type != "redis" {
		return fmt.Errorf("cache type must be 'memory' or 'redis', got: %s", config.Cache.Type)
	}

	if config.Cache.Type == "redis" && config.Cache.RedisURL == "" {
		return fmt.Errorf("Redis URL is required when cache type is 'redis'")
	}

	if config.Pricing.MaxMultiple < 1 {
		return fmt.Errorf("pricing max_multiple must be at least 1, got: %d", config.Pricing.MaxMultiple)
	}

	for unit, multiplier := range config.Pricing.Units {
		if multiplier <= 0 {
			return fmt.Errorf("unit multiplier for %q must be positive, got: %v", unit, multiplier)
		}
	}

	return nil
}
