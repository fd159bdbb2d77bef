package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://businessapi.pokargreens.com/api/v1", cfg.API.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
	assert.NotEmpty(t, cfg.State.Dir)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.False(t, cfg.DemoMode)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("STOREFRONT_API_URL", "http://localhost:8080/api/v1")
	t.Setenv("STOREFRONT_API_TIMEOUT", "5s")
	t.Setenv("STOREFRONT_STATE_DIR", "/tmp/storefront-test")
	t.Setenv("STOREFRONT_LOG_LEVEL", "debug")
	t.Setenv("STOREFRONT_DEMO_MODE", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080/api/v1", cfg.API.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.API.Timeout)
	assert.Equal(t, "/tmp/storefront-test", cfg.State.Dir)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.DemoMode)
}

func TestLoad_InvalidTimeoutFallsBack(t *testing.T) {
	t.Setenv("STOREFRONT_API_TIMEOUT", "not-a-duration")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
}
