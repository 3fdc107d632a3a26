package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("APP_ENV", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("MONGODB_URI", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "5001", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, time.Minute, cfg.ExpirySweepInterval)
	assert.Equal(t, 30*time.Second, cfg.LeaderboardCacheTTL)
	assert.Empty(t, cfg.DatabaseURL)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("APP_ENV", "production")
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost:5432/energy")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("ALLOW_CROSS_SITE_DEV", "TRUE")
	t.Setenv("EXPIRY_SWEEP_INTERVAL", "5m")
	t.Setenv("LEADERBOARD_CACHE_TTL", "0s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "postgres://u:p@localhost:5432/energy", cfg.DatabaseURL)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
	assert.True(t, cfg.AllowCrossSiteDev)
	assert.Equal(t, 5*time.Minute, cfg.ExpirySweepInterval)
	assert.Equal(t, time.Duration(0), cfg.LeaderboardCacheTTL)
}

func TestLoad_LegacyDatabaseVariable(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("MONGODB_URI", "postgres://legacy@localhost/energy")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres://legacy@localhost/energy", cfg.DatabaseURL)
}
