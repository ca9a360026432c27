package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"     validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database"   validate:"required"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port            int           `mapstructure:"port"             validate:"required,gt=0,lt=65536"`
	LogLevel        string        `mapstructure:"log_level"        validate:"required,oneof=debug info warn error"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"     validate:"gte=0"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"    validate:"gte=0"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"     validate:"gte=0"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
}

// DatabaseConfig selects the book store and holds its connection settings.
type DatabaseConfig struct {
	// Store is either "postgres" or "memory".
	Store string `mapstructure:"store" validate:"required,oneof=postgres memory"`
	URL   string `mapstructure:"url"   validate:"required_if=Store postgres"`
	// MigrateOnStart applies pending migrations before serving.
	MigrateOnStart bool `mapstructure:"migrate_on_start"`
}

// RateLimitConfig configures the per-client fixed window limiter.
// Limiting is disabled when RedisAddr is empty.
type RateLimitConfig struct {
	RedisAddr     string        `mapstructure:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password"`
	Prefix        string        `mapstructure:"prefix"`
	Limit         int           `mapstructure:"limit"  validate:"gt=0"`
	Window        time.Duration `mapstructure:"window" validate:"gt=0"`
}

// Enabled reports whether a Redis backend is configured for rate limiting.
func (c RateLimitConfig) Enabled() bool {
	return c.RedisAddr != ""
}
