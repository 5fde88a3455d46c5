package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("LINKVAULT_DATABASE_URL", "postgres://localhost:5432/linkvault")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "postgres://localhost:5432/linkvault", cfg.DatabaseURL)
	assert.Empty(t, cfg.RedisURL)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Equal(t, time.Hour, cfg.PurgeInterval)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoad_MissingDatabaseURL(t *testing.T) {
	t.Setenv("LINKVAULT_DATABASE_URL", "")
	os.Unsetenv("LINKVAULT_DATABASE_URL")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("LINKVAULT_DATABASE_URL", "postgres://db:5432/app")
	t.Setenv("LINKVAULT_ADDR", ":9090")
	t.Setenv("LINKVAULT_REDIS_URL", "redis://cache:6379/0")
	t.Setenv("LINKVAULT_SESSION_TTL", "30m")
	t.Setenv("LINKVAULT_PURGE_INTERVAL", "0")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "redis://cache:6379/0", cfg.RedisURL)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Zero(t, cfg.PurgeInterval)
}

func TestLoad_EnvFile(t *testing.T) {
	t.Setenv("LINKVAULT_DATABASE_URL", "")
	os.Unsetenv("LINKVAULT_DATABASE_URL")
	os.Unsetenv("LINKVAULT_ADDR")

	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	contents := "LINKVAULT_DATABASE_URL=postgres://file:5432/app\nLINKVAULT_ADDR=:3000\n"
	require.NoError(t, os.WriteFile(envFile, []byte(contents), 0o600))

	cfg, err := Load(envFile)
	require.NoError(t, err)

	assert.Equal(t, "postgres://file:5432/app", cfg.DatabaseURL)
	assert.Equal(t, ":3000", cfg.Addr)

	// godotenv mutates the process environment; clean up so later tests
	// in this package see a fresh slate.
	t.Cleanup(func() {
		os.Unsetenv("LINKVAULT_DATABASE_URL")
		os.Unsetenv("LINKVAULT_ADDR")
	})
}

func TestLoad_MissingEnvFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.env"))
	assert.Error(t, err)
}
