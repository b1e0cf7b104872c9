package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Cache      CacheConfig      `mapstructure:"cache"`
	RateLimit  RateLimitConfig  `mapstructure:"ratelimit"`
	Matching   MatchingConfig   `mapstructure:"matching"`
	Extraction ExtractionConfig `mapstructure:"extraction"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	MaxBodyBytes   int64    `mapstructure:"max_body_bytes"`
}

// LoggingConfig holds logger configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level"`  // debug, info, warn, error
	Format     string `mapstructure:"format"` // json or console
	OutputFile string `mapstructure:"output_file"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Type            string        `mapstructure:"type"` // only "memory"
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"` // requests per minute
	Burst int `mapstructure:"burst"`
}

// MatchingConfig holds ingredient matcher configuration
type MatchingConfig struct {
	EnableFuzzyMatching bool `mapstructure:"enable_fuzzy_matching"`
	FuzzyEditDistance   int  `mapstructure:"fuzzy_edit_distance"`
	Workers             int  `mapstructure:"workers"`
	Debug               bool `mapstructure:"debug"`
}

// ExtractionConfig holds card extraction configuration. Selector lists are
// tried before the built-in chains.
type ExtractionConfig struct {
	Workers                  int      `mapstructure:"workers"`
	OfferDetailsMaxLength    int      `mapstructure:"offer_details_max_length"`
	CardSelectors            []string `mapstructure:"card_selectors"`
	NameSelectors            []string `mapstructure:"name_selectors"`
	PriceSelectors           []string `mapstructure:"price_selectors"`
	OriginalPriceSelectors   []string `mapstructure:"original_price_selectors"`
	ComparisonPriceSelectors []string `mapstructure:"comparison_price_selectors"`
	OfferDetailsSelectors    []string `mapstructure:"offer_details_selectors"`
}

// Load loads configuration from an optional .env file, environment variables
// and config files
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}
	return LoadFile("")
}

// LoadFile is Load with an explicit config file. An empty path searches the
// default locations.
func LoadFile(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/matfynd/")
	}

	// Environment variable settings: MATFYND_SERVER_PORT -> server.port
	v.SetEnvPrefix("MATFYND")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:*"})
	v.SetDefault("server.max_body_bytes", 5<<20) // 5 MiB of offer page HTML

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output_file", "")

	// Cache defaults
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.ttl", "1h")
	v.SetDefault("cache.cleanup_interval", "10m")

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 100)
	v.SetDefault("ratelimit.burst", 20)

	// Matching defaults
	v.SetDefault("matching.enable_fuzzy_matching", false)
	v.SetDefault("matching.fuzzy_edit_distance", 1)
	v.SetDefault("matching.workers", 0)
	v.SetDefault("matching.debug", false)

	// Extraction defaults
	v.SetDefault("extraction.workers", 0)
	v.SetDefault("extraction.offer_details_max_length", 50)
	v.SetDefault("extraction.card_selectors", []string{})
	v.SetDefault("extraction.name_selectors", []string{})
	v.SetDefault("extraction.price_selectors", []string{})
	v.SetDefault("extraction.original_price_selectors", []string{})
	v.SetDefault("extraction.comparison_price_selectors", []string{})
	v.SetDefault("extraction.offer_details_selectors", []string{})
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Server.Port == "" {
		return fmt.Errorf("server port is required (set MATFYND_SERVER_PORT)")
	}

	if config.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("server max_body_bytes must be positive, got: %d", config.Server.MaxBodyBytes)
	}

	switch strings.ToLower(config.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging level must be one of debug, info, warn, error, got: %s", config.Logging.Level)
	}

	if config.Logging.Format != "json" && config.Logging.Format != "console" {
		return fmt.Errorf("logging format must be 'json' or 'console', got: %s", config.Logging.Format)
	}

	if config.Cache.Type != "memory" {
		return fmt.Errorf("cache type must be 'memory', got: %s", config.Cache.Type)
	}

	if config.Cache.TTL <= 0 {
		return fmt.Errorf("cache ttl must be positive, got: %v", config.Cache.TTL)
	}

	if config.RateLimit.PerIP <= 0 {
		return fmt.Errorf("ratelimit per_ip must be positive, got: %d", config.RateLimit.PerIP)
	}

	if config.RateLimit.Burst <= 0 {
		return fmt.Errorf("ratelimit burst must be positive, got: %d", config.RateLimit.Burst)
	}

	if config.Matching.FuzzyEditDistance < 0 {
		return fmt.Errorf("matching fuzzy_edit_distance must not be negative, got: %d", config.Matching.FuzzyEditDistance)
	}

	if config.Extraction.OfferDetailsMaxLength <= 0 {
		return fmt.Errorf("extraction offer_details_max_length must be positive, got: %d", config.Extraction.OfferDetailsMaxLength)
	}

	return nil
}
