package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, env := range keys {
		t.Setenv(env, "")
		require.NoError(t, os.Unsetenv(env))
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "daily_organizer.db", cfg.DatabaseURL)
	assert.Equal(t, time.Duration(0), cfg.ReportInterval)
	assert.Equal(t, "09:00", cfg.ReportTime)
	assert.ErrorIs(t, cfg.ValidateBot(), errMissingToken)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "organizer.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"telegram_token: from-file\nreport_interval_hours: 6\ntimezone: Europe/Berlin\nlog_level: debug\n"), 0o644))
	t.Setenv("TELEGRAM_TOKEN", "from-env")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.TelegramToken)
	assert.Equal(t, 6*time.Hour, cfg.ReportInterval)
	assert.Equal(t, "debug", cfg.LogLevel)
	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Berlin", loc.String())
	assert.NoError(t, cfg.ValidateBot())
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"APP_ENV":               "qa",
		"TIMEZONE":              "Mars/Olympus",
		"REPORT_TIME":           "25:00",
		"REPORT_INTERVAL_HOURS": "abc",
	}
	for env, value := range cases {
		t.Run(env, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(env, value)
			_, err := Load("")
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestParseInterval(t *testing.T) {
	cases := map[string]time.Duration{
		"":    0,
		"0":   0,
		"4":   4 * time.Hour,
		"1.5": 90 * time.Minute,
	}
	for raw, want := range cases {
		got, err := parseInterval(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}
	for _, raw := range []string{"-1", "soon", "4h", "NaN", "Inf", "1e300"} {
		_, err := parseInterval(raw)
		assert.Error(t, err, raw)
	}
}

func TestParseClock(t *testing.T) {
	hour, minute, err := ParseClock(" 07:45 ")
	require.NoError(t, err)
	assert.Equal(t, 7, hour)
	assert.Equal(t, 45, minute)

	for _, bad := range []string{"", "7", "24:00", "12:60", "ab:cd", "1:2:3"} {
		_, _, err := ParseClock(bad)
		assert.Error(t, err, bad)
	}
}

func TestValidateRejectsNegativeInterval(t *testing.T) {
	cfg := Config{Env: "production", ReportInterval: -time.Hour}
	assert.Error(t, cfg.Validate())
}

func TestReportTimeOff(t *testing.T) {
	clearEnv(t)
	t.Setenv("REPORT_TIME", "off")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Empty(t, cfg.ReportTime)
}
