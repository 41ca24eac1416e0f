package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "development", cfg.Server.Env)
	assert.False(t, cfg.Database.Enabled)
	assert.False(t, cfg.Redis.Enabled)
	assert.False(t, cfg.ClickHouse.Enabled)
	assert.False(t, cfg.Auth.Enabled)
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, 100.0, cfg.RateLimit.RPS)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 5*time.Minute, cfg.Insights.CacheTTL)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PULSE_HTTP_ADDR", ":9999")
	t.Setenv("PULSE_ENV", "production")
	t.Setenv("PULSE_DB_ENABLED", "true")
	t.Setenv("PULSE_DB_PORT", "5433")
	t.Setenv("PULSE_RATE_LIMIT_RPS", "250.5")
	t.Setenv("PULSE_INSIGHTS_CACHE_TTL", "90s")
	t.Setenv("PULSE_AUTH_SKIP_PATHS", "/api/health, /metrics ,/public")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9999", cfg.Server.Addr)
	assert.True(t, cfg.IsProduction())
	assert.True(t, cfg.Database.Enabled)
	assert.Equal(t, 5433, cfg.Database.Port)
	assert.Equal(t, 250.5, cfg.RateLimit.RPS)
	assert.Equal(t, 90*time.Second, cfg.Insights.CacheTTL)
	assert.Equal(t, []string{"/api/health", "/metrics", "/public"}, cfg.Auth.SkipPaths)
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	t.Setenv("PULSE_DB_PORT", "not-a-number")
	t.Setenv("PULSE_RATE_LIMIT_ENABLED", "maybe")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.True(t, cfg.RateLimit.Enabled)
}

func TestValidateAuthRequiresMasterKey(t *testing.T) {
	t.Setenv("PULSE_AUTH_ENABLED", "true")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PULSE_API_KEY_MASTER")

	t.Setenv("PULSE_API_KEY_MASTER", "secret")
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.Auth.Enabled)
}

func TestDatabaseDSN(t *testing.T) {
	d := DatabaseConfig{
		Host: "db.internal", Port: 5432,
		User: "pulse", Password: "pw",
		DBName: "marketpulse", SSLMode: "require",
	}
	assert.Equal(t, "postgres://pulse:pw@db.internal:5432/marketpulse?sslmode=require", d.DSN())
}
