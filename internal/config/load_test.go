package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every bound variable; viper treats empty values as unset.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, env := range envBindings {
		t.Setenv(env, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := load(viper.New())

	require.NoError(t, err)
	assert.Equal(t, 4000, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "postgres", cfg.Database.Store)
	assert.Equal(t, DefaultDatabaseURL, cfg.Database.URL)
	assert.True(t, cfg.Database.MigrateOnStart)
	assert.Equal(t, 100, cfg.RateLimit.Limit)
	assert.Equal(t, 15*time.Minute, cfg.RateLimit.Window)
	assert.False(t, cfg.RateLimit.Enabled())
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("DATABASE_URL", "postgres://user:pass@db:5432/books")
	t.Setenv("MIGRATE_ON_START", "false")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("RATE_LIMIT", "5")
	t.Setenv("RATE_LIMIT_WINDOW", "1m")

	cfg, err := load(viper.New())

	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, "postgres://user:pass@db:5432/books", cfg.Database.URL)
	assert.False(t, cfg.Database.MigrateOnStart)
	assert.True(t, cfg.RateLimit.Enabled())
	assert.Equal(t, "localhost:6379", cfg.RateLimit.RedisAddr)
	assert.Equal(t, 5, cfg.RateLimit.Limit)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
}

func TestLoadMemoryStoreNeedsNoURL(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORE", "memory")

	v := viper.New()
	v.Set("database.url", "")
	cfg, err := load(v)

	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Database.Store)
}

func TestLoadValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "port out of range", env: map[string]string{"PORT": "70000"}},
		{name: "unknown log level", env: map[string]string{"LOG_LEVEL": "chatty"}},
		{name: "unknown store", env: map[string]string{"STORE": "mongo"}},
		{name: "zero rate limit", env: map[string]string{"RATE_LIMIT": "0"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			cfg, err := load(viper.New())

			assert.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), "invalid configuration")
		})
	}
}

func TestLoadPostgresRequiresURL(t *testing.T) {
	clearEnv(t)

	v := viper.New()
	v.Set("database.url", "")
	_, err := load(v)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "URL")
}
