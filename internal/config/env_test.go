package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"PORT", "LOG_LEVEL", "LOG_FORMAT", "ENVIRONMENT", "MAX_TERM_MONTHS",
	"REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB", "CACHE_TTL", "CACHE_SIZE",
	"RATE_LIMIT_PER_MINUTE", "REQUEST_TIMEOUT",
}

// clearEnvVars unsets every variable Load reads and restores them afterwards
func clearEnvVars(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		if old, ok := os.LookupEnv(key); ok {
			t.Cleanup(func() { os.Setenv(key, old) })
		}
		os.Unsetenv(key)
	}
	// Keep any .env in the package directory out of the picture
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(wd) })
}

func TestLoad(t *testing.T) {
	t.Run("loads config with defaults when no env vars set", func(t *testing.T) {
		clearEnvVars(t)

		cfg, err := Load()

		require.NoError(t, err)
		assert.Equal(t, 8080, cfg.Port, "Should use default port")
		assert.Equal(t, "info", cfg.LogLevel)
		assert.Equal(t, "text", cfg.LogFormat)
		assert.Equal(t, "dev", cfg.Environment)
		assert.Equal(t, 1200, cfg.MaxTermMonths)
		assert.Empty(t, cfg.RedisAddr, "Should default to the in-process cache")
		assert.Equal(t, 10*time.Minute, cfg.CacheTTL)
		assert.Equal(t, 1024, cfg.CacheSize)
		assert.Equal(t, 60, cfg.RateLimitPerMinute)
		assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
		assert.Equal(t, ":8080", cfg.Addr())
	})

	t.Run("loads config from environment variables", func(t *testing.T) {
		clearEnvVars(t)
		t.Setenv("PORT", "3000")
		t.Setenv("LOG_LEVEL", "DEBUG")
		t.Setenv("LOG_FORMAT", "json")
		t.Setenv("ENVIRONMENT", "production")
		t.Setenv("MAX_TERM_MONTHS", "480")
		t.Setenv("REDIS_ADDR", "localhost:6379")
		t.Setenv("REDIS_PASSWORD", "secret")
		t.Setenv("REDIS_DB", "2")
		t.Setenv("CACHE_TTL", "90s")
		t.Setenv("CACHE_SIZE", "16")
		t.Setenv("RATE_LIMIT_PER_MINUTE", "0")
		t.Setenv("REQUEST_TIMEOUT", "2s")

		cfg, err := Load()

		require.NoError(t, err)
		assert.Equal(t, 3000, cfg.Port)
		assert.Equal(t, "debug", cfg.LogLevel)
		assert.Equal(t, "json", cfg.LogFormat)
		assert.Equal(t, "production", cfg.Environment)
		assert.Equal(t, 480, cfg.MaxTermMonths)
		assert.Equal(t, "localhost:6379", cfg.RedisAddr)
		assert.Equal(t, "secret", cfg.RedisPassword)
		assert.Equal(t, 2, cfg.RedisDB)
		assert.Equal(t, 90*time.Second, cfg.CacheTTL)
		assert.Equal(t, 16, cfg.CacheSize)
		assert.Equal(t, 0, cfg.RateLimitPerMinute)
		assert.Equal(t, 2*time.Second, cfg.RequestTimeout)
	})

	t.Run("reads a .env file", func(t *testing.T) {
		clearEnvVars(t)
		require.NoError(t, os.WriteFile(".env", []byte("PORT=9090\nENVIRONMENT=staging\n"), 0644))
		t.Cleanup(func() {
			os.Unsetenv("PORT")
			os.Unsetenv("ENVIRONMENT")
		})

		cfg, err := Load()

		require.NoError(t, err)
		assert.Equal(t, 9090, cfg.Port)
		assert.Equal(t, "staging", cfg.Environment)
	})

	t.Run("returns error for invalid PORT", func(t *testing.T) {
		clearEnvVars(t)
		t.Setenv("PORT", "not-a-number")

		cfg, err := Load()

		assert.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "invalid PORT")
	})

	t.Run("returns error for unusable settings", func(t *testing.T) {
		clearEnvVars(t)
		t.Setenv("LOG_FORMAT", "xml")

		_, err := Load()

		assert.ErrorContains(t, err, "LOG_FORMAT")
	})
}

func TestConfig_Validate(t *testing.T) {
	valid := Config{Port: 8080, MaxTermMonths: 1200, CacheSize: 1, LogFormat: "text"}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(c *Config)
		want   string
	}{
		{"port too large", func(c *Config) { c.Port = 70000 }, "PORT"},
		{"zero term bound", func(c *Config) { c.MaxTermMonths = 0 }, "MAX_TERM_MONTHS"},
		{"zero cache", func(c *Config) { c.CacheSize = 0 }, "CACHE_SIZE"},
		{"negative rate limit", func(c *Config) { c.RateLimitPerMinute = -1 }, "RATE_LIMIT_PER_MINUTE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.mutate(&c)
			assert.ErrorContains(t, c.Validate(), tt.want)
		})
	}
}

func TestGetEnvHelpers(t *testing.T) {
	t.Run("int default when unset", func(t *testing.T) {
		os.Unsetenv("TEST_INT_VAR")
		assert.Equal(t, 42, getEnvAsInt("TEST_INT_VAR", 42))
	})

	t.Run("int parses value", func(t *testing.T) {
		t.Setenv("TEST_INT_VAR", "-10")
		assert.Equal(t, -10, getEnvAsInt("TEST_INT_VAR", 42))
	})

	t.Run("int default for garbage", func(t *testing.T) {
		t.Setenv("TEST_INT_VAR", "not-a-number")
		assert.Equal(t, 42, getEnvAsInt("TEST_INT_VAR", 42))
	})

	t.Run("duration parses value", func(t *testing.T) {
		t.Setenv("TEST_DURATION_VAR", "1m30s")
		assert.Equal(t, 90*time.Second, getEnvAsDuration("TEST_DURATION_VAR", time.Second))
	})

	t.Run("duration default for garbage", func(t *testing.T) {
		t.Setenv("TEST_DURATION_VAR", "soon")
		assert.Equal(t, time.Second, getEnvAsDuration("TEST_DURATION_VAR", time.Second))
	})

	t.Run("string default", func(t *testing.T) {
		os.Unsetenv("TEST_STRING_VAR")
		assert.Equal(t, "fallback", getEnv("TEST_STRING_VAR", "fallback"))
	})
}
