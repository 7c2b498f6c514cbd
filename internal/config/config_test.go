package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "GITHUB_API_URL", "FLY_API_URL", "GITHUB_TOKEN_ENV", "FLY_TOKEN_ENV",
		"UPSTREAM_TIMEOUT_SECONDS", "REQUEST_TIMEOUT_SECONDS", "CORS_ALLOWED_ORIGINS",
		"MCP_AUTH_SECRET", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "LOG_PARAMS",
	} {
		unsetEnv(t, key)
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
}

func TestLoadConfig_FromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("GITHUB_API_URL", "http://github.local")
	t.Setenv("FLY_API_URL", "http://fly.local/graphql")
	t.Setenv("GITHUB_TOKEN_ENV", "GH_PAT")
	t.Setenv("UPSTREAM_TIMEOUT_SECONDS", "5")
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "15")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("MCP_AUTH_SECRET", "s3cret")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("RATE_LIMIT_BURST", "4")
	t.Setenv("LOG_PARAMS", "true")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.HTTPPort)
	assert.Equal(t, "http://github.local", cfg.GithubAPIURL)
	assert.Equal(t, "http://fly.local/graphql", cfg.FlyAPIURL)
	assert.Equal(t, "GH_PAT", cfg.GithubTokenEnv)
	assert.Equal(t, 5*time.Second, cfg.UpstreamTimeout)
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, "s3cret", cfg.AuthSecret)
	assert.Equal(t, 2.5, cfg.RateLimitRPS)
	assert.Equal(t, 4, cfg.RateLimitBurst)
	assert.True(t, cfg.LogParams)
}

func TestLoadConfig_InvalidNumbersFallBack(t *testing.T) {
	t.Setenv("UPSTREAM_TIMEOUT_SECONDS", "soon")
	t.Setenv("RATE_LIMIT_BURST", "-3")
	t.Setenv("LOG_PARAMS", "maybe")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, cfg.UpstreamTimeout)
	assert.Equal(t, 0, cfg.RateLimitBurst)
	assert.False(t, cfg.LogParams)
}

// unsetEnv removes key for the duration of the test, restoring it afterwards.
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	os.Unsetenv(key)
}
