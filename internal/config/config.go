// Package config loads server settings from defaults, an optional YAML file
// and BILLSPLIT_* environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. BILLSPLIT_SERVER_PORT.
const EnvPrefix = "BILLSPLIT"

// Config represents the complete billsplit configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
}

// ServerConfig controls the HTTP listener
type ServerConfig struct {
	Port int `mapstructure:"port"`
	// StaticPath is the directory with the web page. Empty disables static files.
	StaticPath   string        `mapstructure:"static_path"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// StorageConfig selects and configures the session store
type StorageConfig struct {
	// Driver is one of "sqlite", "postgres", "badger"
	Driver      string `mapstructure:"driver"`
	SQLitePath  string `mapstructure:"sqlite_path"`
	PostgresDSN string `mapstructure:"postgres_dsn"`
	BadgerPath  string `mapstructure:"badger_path"`
	// Retention is how long an untouched session is kept (0 = forever)
	Retention time.Duration `mapstructure:"retention"`
	// PruneSchedule is a cron spec for the pruning job
	PruneSchedule string `mapstructure:"prune_schedule"`
}

// AuthConfig controls session edit tokens
type AuthConfig struct {
	TokenSecret string `mapstructure:"token_secret"`
	// TokenTTL is the edit token lifetime (0 = never expires)
	TokenTTL time.Duration `mapstructure:"token_ttl"`
}

// LoggingConfig controls log output
type LoggingConfig struct {
	// Level is one of "debug", "info", "warn", "error"
	Level string `mapstructure:"level"`
	// Format is "text" (colored) or "json"
	Format string `mapstructure:"format"`
}

// RateLimitConfig controls per-client request limits
type RateLimitConfig struct {
	// RPS is requests per second per client (0 = unlimited)
	RPS   float64 `mapstructure:"rps"`
	Burst int     `mapstructure:"burst"`
}

// Addr returns the listen address for the configured port.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         8080,
			StaticPath:   "./static",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Storage: StorageConfig{
			Driver:        "sqlite",
			SQLitePath:    "./data/billsplit.db",
			BadgerPath:    "./data/badger",
			Retention:     30 * 24 * time.Hour,
			PruneSchedule: "@every 1h",
		},
		Auth: AuthConfig{
			TokenTTL: 30 * 24 * time.Hour,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		RateLimit: RateLimitConfig{
			RPS:   10,
			Burst: 20,
		},
	}
}

// SetDefaults registers every key with its default value. Keys must be known
// to viper for environment overrides to reach Unmarshal.
func SetDefaults(v *viper.Viper) {
	defaults := Default()

	// Server defaults
	v.SetDefault("server.port", defaults.Server.Port)
	v.SetDefault("server.static_path", defaults.Server.StaticPath)
	v.SetDefault("server.read_timeout", defaults.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", defaults.Server.WriteTimeout)

	// Storage defaults
	v.SetDefault("storage.driver", defaults.Storage.Driver)
	v.SetDefault("storage.sqlite_path", defaults.Storage.SQLitePath)
	v.SetDefault("storage.postgres_dsn", defaults.Storage.PostgresDSN)
	v.SetDefault("storage.badger_path", defaults.Storage.BadgerPath)
	v.SetDefault("storage.retention", defaults.Storage.Retention)
	v.SetDefault("storage.prune_schedule", defaults.Storage.PruneSchedule)

	// Auth defaults
	v.SetDefault("auth.token_secret", defaults.Auth.TokenSecret)
	v.SetDefault("auth.token_ttl", defaults.Auth.TokenTTL)

	// Logging defaults
	v.SetDefault("logging.level", defaults.Logging.Level)
	v.SetDefault("logging.format", defaults.Logging.Format)

	// Rate limit defaults
	v.SetDefault("ratelimit.rps", defaults.RateLimit.RPS)
	v.SetDefault("ratelimit.burst", defaults.RateLimit.Burst)
}

// New returns a viper instance with defaults and environment overrides wired.
// If path is non-empty the YAML file is read as well.
func New(path string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}
	return v, nil
}

// Load reads the configuration from viper into a Config struct and validates it
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}
