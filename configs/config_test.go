package configs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("PERPLEXITY_API_KEY", "pplx-key")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, ContentBackendPostgres, cfg.Content.Backend)
	assert.Equal(t, 30*time.Second, cfg.Perplexity.Timeout)
	assert.Equal(t, 30, cfg.RateLimit.DefaultRequestsPerMinute)
	assert.Equal(t, "@hourly", cfg.Maintenance.SessionSchedule)
	assert.Contains(t, cfg.Database.DSN, "dbname=petpal")
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("PERPLEXITY_API_KEY", "pplx-key")
	t.Setenv("CONTENT_CACHE_BACKEND", "Redis")
	t.Setenv("PERPLEXITY_TIMEOUT", "5s")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("MAINTENANCE_ENABLED", "false")
	t.Setenv("DATABASE_URL", "postgres://u:p@db/petpal")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ContentBackendRedis, cfg.Content.Backend)
	assert.Equal(t, 5*time.Second, cfg.Perplexity.Timeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
	assert.False(t, cfg.Maintenance.Enabled)
	assert.Equal(t, "postgres://u:p@db/petpal", cfg.Database.DSN)
}

func TestLoad_ReportsAllMissingRequired(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("PERPLEXITY_API_KEY", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
	assert.Contains(t, err.Error(), "PERPLEXITY_API_KEY")
}

func TestLoad_RejectsUnknownBackend(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("PERPLEXITY_API_KEY", "pplx-key")
	t.Setenv("CONTENT_CACHE_BACKEND", "s3")

	_, err := Load()
	assert.ErrorContains(t, err, "s3")
}

func TestGetEnvHelpersFallBackOnGarbage(t *testing.T) {
	t.Setenv("X_INT", "ten")
	t.Setenv("X_DUR", "soon")
	t.Setenv("X_BOOL", "maybe")
	assert.Equal(t, 10, getIntEnv("X_INT", 10))
	assert.Equal(t, time.Minute, getDurationEnv("X_DUR", time.Minute))
	assert.True(t, getBoolEnv("X_BOOL", true))
}
