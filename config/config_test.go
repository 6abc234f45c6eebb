package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/tour-engine/config"
)

var keys = []string{
	"PORT", "DB_PATH", "APP_ENV", "LOG_FORMAT", "BASE_CURRENCY",
	"FEATURE_SEASONAL_PRICING", "FEATURE_RESOURCE_AVAILABILITY",
	"MONITOR_INTERVAL", "MONITOR_HORIZON_DAYS",
}

// clearEnv unsets every key for the test; t.Setenv restores the originals.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func writeDotenv(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := config.LoadFrom(filepath.Join(t.TempDir(), "missing.env"), nil)

	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "tours.db", cfg.DBPath)
	assert.True(t, cfg.Features.SeasonalPricing)
	assert.True(t, cfg.Features.ResourceAvailability)
	assert.Equal(t, time.Hour, cfg.MonitorInterval)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_Precedence(t *testing.T) {
	clearEnv(t)

	// GIVEN: .env sets three keys, the environment overrides one, a flag another
	path := writeDotenv(t, "PORT=9000\nDB_PATH=dotenv.db\nLOG_FORMAT=console\n")
	t.Setenv("PORT", "9100")

	// WHEN
	cfg, err := config.LoadFrom(path, []string{"-db", "flag.db"})

	// THEN
	require.NoError(t, err)
	assert.Equal(t, 9100, cfg.Port)
	assert.Equal(t, "flag.db", cfg.DBPath)
	assert.Equal(t, "console", cfg.LogFormat)
}

func TestLoad_FeaturesAndLimits(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "production")
	t.Setenv("FEATURE_RESOURCE_AVAILABILITY", "false")
	t.Setenv("MONITOR_INTERVAL", "15m")
	t.Setenv("MONITOR_HORIZON_DAYS", "30")
	t.Setenv("BASE_CURRENCY", "USD")

	cfg, err := config.LoadFrom(filepath.Join(t.TempDir(), "missing.env"), nil)

	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
	assert.True(t, cfg.Features.SeasonalPricing)
	assert.False(t, cfg.Features.ResourceAvailability)
	assert.Equal(t, 15*time.Minute, cfg.MonitorInterval)
	assert.Equal(t, 30, cfg.MonitorHorizonDays)
	assert.Equal(t, "USD", string(cfg.BaseCurrency))
}

func TestLoad_ReportsEveryInvalidValue(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "eighty")
	t.Setenv("FEATURE_SEASONAL_PRICING", "maybe")
	t.Setenv("MONITOR_INTERVAL", "soon")
	t.Setenv("BASE_CURRENCY", "EURO")
	t.Setenv("LOG_FORMAT", "xml")

	_, err := config.LoadFrom(filepath.Join(t.TempDir(), "missing.env"), nil)

	require.Error(t, err)
	for _, want := range []string{"PORT", "FEATURE_SEASONAL_PRICING", "MONITOR_INTERVAL", "EURO", "xml"} {
		assert.Contains(t, err.Error(), want)
	}
}
