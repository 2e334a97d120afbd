package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_PORT", "5000")
	t.Setenv("SEARCH_CACHE_TTL", "")

	cfg := Load()
	assert.Equal(t, "5000", cfg.App.Port)
	assert.Equal(t, "groundx", cfg.Search.Provider)
	assert.Equal(t, 11795, cfg.Search.GroundXBucketID)
	assert.Equal(t, time.Duration(0), cfg.Search.CacheTTL)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("GO_ENV", "production")
	t.Setenv("GROUNDX_BUCKET_ID", "42")
	t.Setenv("SEARCH_CACHE_TTL", "5m")
	t.Setenv("LLM_TIMEOUT", "15")
	t.Setenv("ELASTICSEARCH_ADDRESSES", "http://es1:9200, http://es2:9200")
	t.Setenv("OTEL_ENABLED", "true")

	cfg := Load()
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 42, cfg.Search.GroundXBucketID)
	assert.Equal(t, 5*time.Minute, cfg.Search.CacheTTL)
	assert.Equal(t, 15*time.Second, cfg.Ai.Timeout)
	assert.Equal(t, []string{"http://es1:9200", "http://es2:9200"}, cfg.Search.ElasticAddresses)
	assert.True(t, cfg.Otel.Enabled)
}

func TestGetEnvAsDuration_Invalid(t *testing.T) {
	t.Setenv("SOME_TIMEOUT", "soon")
	assert.Equal(t, time.Second, getEnvAsDuration("SOME_TIMEOUT", time.Second))
}

func TestIsProduction(t *testing.T) {
	for env, want := range map[string]bool{
		"production":  true,
		"development": false,
		"prod":        false,
		"":            false,
	} {
		cfg := &Config{App: AppConfig{Environment: env}}
		assert.Equal(t, want, cfg.IsProduction(), env)
	}
}
