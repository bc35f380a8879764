package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/robfig/cron/v3"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "server.port")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// ValidDrivers returns the list of supported storage drivers
func ValidDrivers() []string {
	return []string{"sqlite", "postgres", "badger"}
}

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// ValidLogFormats returns the list of valid log formats
func ValidLogFormats() []string {
	return []string{"text", "json"}
}

// Validate checks the Config for invalid values and returns all validation errors found.
// The token secret is not checked here; see ValidateServe.
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, c.validateServer()...)
	errors = append(errors, c.validateStorage()...)
	errors = append(errors, c.validateLogging()...)
	errors = append(errors, c.validateRateLimit()...)

	if c.Auth.TokenTTL < 0 {
		errors = append(errors, ValidationError{
			Field:   "auth.token_ttl",
			Value:   c.Auth.TokenTTL,
			Message: "must be non-negative",
		})
	}

	return errors
}

// ValidateServe checks what the server needs beyond Validate.
func (c *Config) ValidateServe() error {
	errs := c.Validate()
	if c.Auth.TokenSecret == "" {
		errs = append(errs, ValidationError{
			Field:   "auth.token_secret",
			Value:   "",
			Message: "is required to issue edit tokens (set " + EnvPrefix + "_AUTH_TOKEN_SECRET)",
		})
	}
	if len(errs) > 0 {
		return ValidationErrors(errs)
	}
	return nil
}

func (c *Config) validateServer() []ValidationError {
	var errors []ValidationError

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errors = append(errors, ValidationError{
			Field:   "server.port",
			Value:   c.Server.Port,
			Message: "must be between 1 and 65535",
		})
	}
	if c.Server.ReadTimeout < 0 {
		errors = append(errors, ValidationError{
			Field:   "server.read_timeout",
			Value:   c.Server.ReadTimeout,
			Message: "must be non-negative",
		})
	}
	if c.Server.WriteTimeout < 0 {
		errors = append(errors, ValidationError{
			Field:   "server.write_timeout",
			Value:   c.Server.WriteTimeout,
			Message: "must be non-negative",
		})
	}

	return errors
}

func (c *Config) validateStorage() []ValidationError {
	var errors []ValidationError

	switch c.Storage.Driver {
	case "sqlite":
		if c.Storage.SQLitePath == "" {
			errors = append(errors, ValidationError{
				Field:   "storage.sqlite_path",
				Value:   c.Storage.SQLitePath,
				Message: "is required for the sqlite driver",
			})
		}
	case "postgres":
		if c.Storage.PostgresDSN == "" {
			errors = append(errors, ValidationError{
				Field:   "storage.postgres_dsn",
				Value:   c.Storage.PostgresDSN,
				Message: "is required for the postgres driver",
			})
		}
	case "badger":
		if c.Storage.BadgerPath == "" {
			errors = append(errors, ValidationError{
				Field:   "storage.badger_path",
				Value:   c.Storage.BadgerPath,
				Message: "is required for the badger driver",
			})
		}
	default:
		errors = append(errors, ValidationError{
			Field:   "storage.driver",
			Value:   c.Storage.Driver,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidDrivers(), ", ")),
		})
	}

	if c.Storage.Retention < 0 {
		errors = append(errors, ValidationError{
			Field:   "storage.retention",
			Value:   c.Storage.Retention,
			Message: "must be non-negative",
		})
	}
	if c.Storage.Retention > 0 {
		if _, err := cron.ParseStandard(c.Storage.PruneSchedule); err != nil {
			errors = append(errors, ValidationError{
				Field:   "storage.prune_schedule",
				Value:   c.Storage.PruneSchedule,
				Message: "must be a valid cron spec",
			})
		}
	}

	return errors
}

func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	if !slices.Contains(ValidLogLevels(), strings.ToLower(c.Logging.Level)) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}
	if !slices.Contains(ValidLogFormats(), strings.ToLower(c.Logging.Format)) {
		errors = append(errors, ValidationError{
			Field:   "logging.format",
			Value:   c.Logging.Format,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogFormats(), ", ")),
		})
	}

	return errors
}

func (c *Config) validateRateLimit() []ValidationError {
	var errors []ValidationError

	if c.RateLimit.RPS < 0 {
		errors = append(errors, ValidationError{
			Field:   "ratelimit.rps",
			Value:   c.RateLimit.RPS,
			Message: "must be non-negative",
		})
	}
	if c.RateLimit.RPS > 0 && c.RateLimit.Burst < 1 {
		errors = append(errors, ValidationError{
			Field:   "ratelimit.burst",
			Value:   c.RateLimit.Burst,
			Message: "must be at least 1 when rate limiting is enabled",
		})
	}

	return errors
}
