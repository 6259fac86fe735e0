package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadValid(t *testing.T) *Config {
	t.Helper()
	t.Setenv("ENRICH_STORE_API_KEY", "secret-token")
	t.Setenv("ENRICH_STORE_DATABASE_ID", "db-123")

	cfg, err := Load("")
	require.NoError(t, err)
	return cfg
}

func TestLoadDefaults(t *testing.T) {
	cfg := loadValid(t)

	assert.Equal(t, "enrich", cfg.App.Name)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 5, cfg.Enrichment.BatchSize)
	assert.Equal(t, 3, cfg.AI.FailureThreshold)
	assert.Equal(t, "memory", cfg.Cache.Backend)
	assert.Equal(t, "0 6 * * *", cfg.Enrichment.CronSchedule)
	assert.False(t, cfg.IsProduction())
	assert.False(t, cfg.AIEnabled())
	assert.False(t, cfg.EmailEnabled())
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv("ENRICH_STORE_API_KEY", "secret-token")
	t.Setenv("ENRICH_STORE_DATABASE_ID", "db-123")
	t.Setenv("ENRICH_SERVER_PORT", "9090")
	t.Setenv("ENRICH_AI_API_KEY", "ai-key")
	t.Setenv("ENRICH_APP_ENVIRONMENT", "production")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.True(t, cfg.AIEnabled())
	assert.True(t, cfg.IsProduction())
}

func TestLoadRequiresStoreCredentials(t *testing.T) {
	t.Setenv("ENRICH_STORE_API_KEY", "")
	t.Setenv("ENRICH_STORE_DATABASE_ID", "db-123")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store.api_key")
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := loadValid(t)

	bad := *cfg
	bad.Server.Port = 0
	assert.Error(t, bad.Validate())

	bad = *cfg
	bad.Cache.Backend = "memcached"
	assert.Error(t, bad.Validate())

	bad = *cfg
	bad.Enrichment.BatchSize = 0
	assert.Error(t, bad.Validate())
}
