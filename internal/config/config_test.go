package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/trgovina/internal/filter"
)

func TestDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, DefaultAddr, cfg.Addr)
	assert.Equal(t, DefaultAPIBaseURL, cfg.APIBaseURL)
	assert.Equal(t, DefaultAPITimeout, cfg.APITimeout)
	assert.Equal(t, DefaultInsightsInterval, cfg.InsightsInterval)
	assert.Equal(t, DefaultReloadDelay, cfg.ReloadDelay)
	assert.Equal(t, filter.Navigate, cfg.FilterMode)
	assert.Equal(t, int64(60), cfg.RateLimit.Limit)
	assert.Equal(t, time.Minute, cfg.RateLimit.Period)
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("API_BASE_URL", "http://api.internal:9000")
	t.Setenv("API_TIMEOUT", "5s")
	t.Setenv("FILTER_MODE", "search")
	t.Setenv("RATE_LIMIT", "10-S")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "http://api.internal:9000", cfg.APIBaseURL)
	assert.Equal(t, 5*time.Second, cfg.APITimeout)
	assert.Equal(t, filter.Search, cfg.FilterMode)
	assert.Equal(t, int64(10), cfg.RateLimit.Limit)
	assert.Equal(t, time.Second, cfg.RateLimit.Period)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
}

func TestInvalidValuesFallBack(t *testing.T) {
	t.Setenv("API_TIMEOUT", "soon")
	t.Setenv("RELOAD_DELAY", "-1s")
	t.Setenv("FILTER_MODE", "ajax")
	t.Setenv("RATE_LIMIT", "lots")
	t.Setenv("LOG_LEVEL", "loud")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultAPITimeout, cfg.APITimeout)
	assert.Equal(t, DefaultReloadDelay, cfg.ReloadDelay)
	assert.Equal(t, filter.Navigate, cfg.FilterMode)
	assert.Equal(t, int64(60), cfg.RateLimit.Limit)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
}

func TestReloadDelayRoundsUpToWholeSeconds(t *testing.T) {
	for raw, want := range map[string]time.Duration{
		"500ms":  time.Second,
		"1500ms": 2 * time.Second,
		"3s":     3 * time.Second,
	} {
		t.Setenv("RELOAD_DELAY", raw)
		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, want, cfg.ReloadDelay, raw)
	}
}

func TestEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("API_KEY=from-file\nINSIGHTS_INTERVAL=1m\n"), 0o600))
	t.Setenv("INSIGHTS_INTERVAL", "2m")
	// Registered so the variable set by the file is restored afterwards.
	t.Setenv("API_KEY", "")
	os.Unsetenv("API_KEY")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.APIKey)
	assert.Equal(t, 2*time.Minute, cfg.InsightsInterval)
}

func TestMissingEnvFileIsIgnored(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.NoError(t, err)
}
