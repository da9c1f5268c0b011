package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/boddenberg/moza-banking-bfa-go/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "BACKEND_URL", "SESSION_BACKEND", "SESSION_TTL", "TRACING_ENABLED", "COOKIE_SECURE"} {
		t.Setenv(key, "")
	}

	cfg := config.Load()

	assert.Equal(t, 4200, cfg.Port)
	assert.Equal(t, "http://localhost:8080", cfg.BackendURL)
	assert.Equal(t, config.SessionMemory, cfg.SessionBackend)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.False(t, cfg.TracingEnabled)
	assert.False(t, cfg.CookieSecure)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("BACKEND_URL", "http://bank:8080")
	t.Setenv("SESSION_BACKEND", "REDIS")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("COOKIE_SECURE", "true")

	cfg := config.Load()

	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "http://bank:8080", cfg.BackendURL)
	assert.Equal(t, config.SessionRedis, cfg.SessionBackend)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.True(t, cfg.CookieSecure)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("PORT", "not-a-port")
	t.Setenv("SESSION_BACKEND", "memcached")
	t.Setenv("SESSION_TTL", "forever")

	cfg := config.Load()

	assert.Equal(t, 4200, cfg.Port)
	assert.Equal(t, config.SessionMemory, cfg.SessionBackend)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
}

func TestLoadDotEnv_DoesNotOverrideEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("BACKEND_URL=http://from-file:8080\nREDIS_ADDR=cache:6379\n"), 0o600))

	t.Setenv("BACKEND_URL", "http://from-env:8080")
	t.Setenv("REDIS_ADDR", "")
	os.Unsetenv("REDIS_ADDR")

	require.NoError(t, config.LoadDotEnv(path))
	t.Cleanup(func() { os.Unsetenv("REDIS_ADDR") })

	cfg := config.Load()
	assert.Equal(t, "http://from-env:8080", cfg.BackendURL)
	assert.Equal(t, "cache:6379", cfg.RedisAddr)
}

func TestLoadDotEnv_MissingFile(t *testing.T) {
	assert.Error(t, config.LoadDotEnv(filepath.Join(t.TempDir(), "absent.env")))
}
