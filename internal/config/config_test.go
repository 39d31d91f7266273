package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"emperror.dev/errors"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"GITHUB_TOKEN", "GHDOW_TOKEN", "GHDOW_PER_PAGE", "GHDOW_TIMEZONE", "GHDOW_RETRY_ATTEMPTS", "GHDOW_INCLUDE_PULL_REQUESTS"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("GITHUB_TOKEN", "secret")

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "secret", cfg.Token)
	assert.Equal(t, 100, cfg.PerPage)
	assert.Equal(t, 3, cfg.RetryAttempts)
	assert.Equal(t, "Local", cfg.Timezone)
	assert.Equal(t, time.Hour, cfg.RateLimitSleep)
	assert.False(t, cfg.IncludePullRequests)
	assert.False(t, cfg.Verbose)
}

func TestLoad_MissingToken(t *testing.T) {
	clearEnv(t)

	_, err := Load("", nil)
	assert.ErrorIs(t, err, ErrMissingToken)
}

func TestLoad_PrefixedTokenWins(t *testing.T) {
	clearEnv(t)
	t.Setenv("GITHUB_TOKEN", "plain")
	t.Setenv("GHDOW_TOKEN", "prefixed")

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "prefixed", cfg.Token)
}

func TestLoad_FileEnvAndFlags(t *testing.T) {
	clearEnv(t)
	t.Setenv("GITHUB_TOKEN", "secret")
	t.Setenv("GHDOW_RETRY_ATTEMPTS", "4")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("per_page: 50\ntimezone: UTC\nretry_attempts: 2\nrate_limit_sleep: 10m\n"), 0o600))

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("per-page", 100, "")
	flags.String("base-url", "", "")
	require.NoError(t, flags.Parse([]string{"--per-page", "25", "--base-url", "https://ghe.example.com/"}))

	cfg, err := Load(path, flags)
	require.NoError(t, err)
	assert.Equal(t, 25, cfg.PerPage)
	assert.Equal(t, "https://ghe.example.com/", cfg.BaseURL)
	assert.Equal(t, "UTC", cfg.Timezone)
	assert.Equal(t, 4, cfg.RetryAttempts)
	assert.Equal(t, 10*time.Minute, cfg.RateLimitSleep)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}

func TestLoad_IncludePullRequests(t *testing.T) {
	clearEnv(t)
	t.Setenv("GITHUB_TOKEN", "secret")
	t.Setenv("GHDOW_INCLUDE_PULL_REQUESTS", "true")

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.True(t, cfg.IncludePullRequests)
}

func TestLoad_UnreadableFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("GITHUB_TOKEN", "secret")

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	valid := Config{Token: "t", PerPage: 100, RetryAttempts: 3, RateLimitSleep: time.Hour, Timezone: "Local"}
	testCases := []struct {
		name     string
		mutate   func(*Config)
		expected error
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "missing token", mutate: func(c *Config) { c.Token = "" }, expected: ErrMissingToken},
		{name: "page too large", mutate: func(c *Config) { c.PerPage = 101 }, expected: ErrInvalidPerPage},
		{name: "page zero", mutate: func(c *Config) { c.PerPage = 0 }, expected: ErrInvalidPerPage},
		{name: "no attempts", mutate: func(c *Config) { c.RetryAttempts = 0 }, expected: ErrInvalidAttempts},
		{name: "no sleep", mutate: func(c *Config) { c.RateLimitSleep = 0 }, expected: ErrInvalidSleepTime},
		{name: "bad timezone", mutate: func(c *Config) { c.Timezone = "Mars/Olympus_Mons" }, expected: ErrInvalidTimezone},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.expected == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.expected)
				assert.Contains(t, err.Error(), tc.expected.Error())
			}
		})
	}
}

func TestConfig_LocationDetails(t *testing.T) {
	_, err := Config{Timezone: "Mars/Olympus_Mons"}.Location()
	require.ErrorIs(t, err, ErrInvalidTimezone)
	assert.Equal(t, []any{"timezone", "Mars/Olympus_Mons"}, errors.GetDetails(err))
}
