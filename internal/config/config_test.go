package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordle/apps/go-filter/internal/guess"
	"github.com/robalobadob/wordle/apps/go-filter/internal/reqs"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "5175", cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Server.Timeout)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 14, cfg.Auth.JWTExpiresDays)
	assert.Equal(t, reqs.LatestWins, cfg.Policy())
	assert.NoError(t, cfg.Validate())
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{name: "valid default config", modify: func(c *Config) {}},
		{name: "missing port", modify: func(c *Config) { c.Server.Port = "" }, wantErr: true},
		{name: "zero timeout", modify: func(c *Config) { c.Server.Timeout = 0 }, wantErr: true},
		{name: "bad log level", modify: func(c *Config) { c.Log.Level = "loud" }, wantErr: true},
		{name: "bad log format", modify: func(c *Config) { c.Log.Format = "xml" }, wantErr: true},
		{name: "console log format", modify: func(c *Config) { c.Log.Format = "console" }},
		{name: "missing secret", modify: func(c *Config) { c.Auth.JWTSecret = "" }, wantErr: true},
		{name: "zero expiry", modify: func(c *Config) { c.Auth.JWTExpiresDays = 0 }, wantErr: true},
		{name: "negative workers", modify: func(c *Config) { c.Filter.Workers = -1 }, wantErr: true},
		{name: "negative limit", modify: func(c *Config) { c.Filter.Limit = -1 }, wantErr: true},
		{name: "strict policy", modify: func(c *Config) { c.Filter.FixedPolicy = "strict" }},
		{name: "unknown policy", modify: func(c *Config) { c.Filter.FixedPolicy = "first" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: "9000"
  timeout: 30s
filter:
  workers: 4
  fixed_policy: strict
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.Timeout)
	assert.Equal(t, 4, cfg.Filter.Workers)
	assert.Equal(t, reqs.Strict, cfg.Policy())
	// untouched sections keep their defaults
	assert.Equal(t, 100, cfg.Filter.Limit)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadFromFileErrors(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [unclosed"), 0o644))
	_, err = LoadFromFile(path)
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("FILTER_WORKERS", "8")
	t.Setenv("FILTER_LIMIT", "25")
	t.Setenv("JWT_EXPIRES_DAYS", "")

	cfg := DefaultConfig()
	require.NoError(t, cfg.ApplyEnv())
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 8, cfg.Filter.Workers)
	assert.Equal(t, 25, cfg.Filter.Limit)
	assert.Equal(t, 14, cfg.Auth.JWTExpiresDays)

	t.Setenv("FILTER_WORKERS", "many")
	assert.Error(t, DefaultConfig().ApplyEnv())
}

func TestApplyEnvReportsFirstBadVariable(t *testing.T) {
	t.Setenv("JWT_EXPIRES_DAYS", "soon")
	t.Setenv("FILTER_WORKERS", "many")
	t.Setenv("FILTER_LIMIT", "lots")

	for range 20 {
		err := DefaultConfig().ApplyEnv()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "JWT_EXPIRES_DAYS")
	}
}

func TestApplyEnvRoundTotalCaps(t *testing.T) {
	t.Setenv("ROUND_TOTAL_CAPS", "true")
	cfg := DefaultConfig()
	require.NoError(t, cfg.ApplyEnv())
	assert.True(t, cfg.Filter.RoundTotalCaps)

	t.Setenv("ROUND_TOTAL_CAPS", "maybe")
	assert.Error(t, DefaultConfig().ApplyEnv())
}

func TestDeriveOptions(t *testing.T) {
	round, err := guess.ParseRoundSpec("geese:bbbgg")
	require.NoError(t, err)
	h, err := guess.NewHistory(5, round)
	require.NoError(t, err)

	cfg := DefaultConfig()
	opts, err := cfg.DeriveOptions("")
	require.NoError(t, err)
	r, err := reqs.Derive(h, opts...)
	require.NoError(t, err)
	assert.False(t, r.Matches("those"))

	opts, err = cfg.DeriveOptions("strict")
	require.NoError(t, err)
	_, err = reqs.Derive(h, opts...)
	assert.ErrorIs(t, err, reqs.ErrConflictingFeedback)

	cfg.Filter.RoundTotalCaps = true
	opts, err = cfg.DeriveOptions("strict")
	require.NoError(t, err)
	r, err = reqs.Derive(h, opts...)
	require.NoError(t, err)
	assert.True(t, r.Matches("those"))

	_, err = cfg.DeriveOptions("first")
	assert.Error(t, err)
}

func TestLoadLayers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: \"9000\"\nfilter:\n  limit: 5\n"), 0o644))
	t.Setenv("PORT", "7000")
	t.Setenv("FILTER_LIMIT", "")
	t.Setenv("FIXED_POLICY", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("LOG_FORMAT", "")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "7000", cfg.Server.Port)
	assert.Equal(t, 5, cfg.Filter.Limit)

	t.Setenv("FIXED_POLICY", "first")
	_, err = Load(path)
	assert.Error(t, err)
}

func TestSaveToFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultConfig()
	cfg.Filter.Workers = 3
	require.NoError(t, cfg.SaveToFile(path))

	got, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}
