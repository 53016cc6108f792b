// internal/config/config.go
//
// Settings for the filter server and CLI.
// Precedence, lowest first: DefaultConfig, the YAML file named by --config,
// then environment variables (a .env file is loaded into the environment
// by main before ApplyEnv runs).

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/robalobadob/wordle/apps/go-filter/internal/reqs"
)

// Config is the complete configuration.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Log    LogConfig    `yaml:"log"`
	Words  WordsConfig  `yaml:"words"`
	Auth   AuthConfig   `yaml:"auth"`
	Filter FilterConfig `yaml:"filter"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Port         string        `yaml:"port"`
	ClientOrigin string        `yaml:"client_origin"`
	Timeout      time.Duration `yaml:"timeout"`
}

// LogConfig configures zerolog.
type LogConfig struct {
	// Level is any zerolog level name ("debug", "info", ...).
	Level string `yaml:"level"`
	// Format is "json" or "console".
	Format string `yaml:"format"`
}

// WordsConfig says where word lists come from.
type WordsConfig struct {
	// File replaces the embedded default list when set.
	File string `yaml:"file"`
	// Database is the SQLite path for uploaded lists. Empty disables storage.
	Database string `yaml:"database"`
}

// AuthConfig configures admin tokens for word-list uploads.
type AuthConfig struct {
	JWTSecret      string `yaml:"jwt_secret"`
	JWTExpiresDays int    `yaml:"jwt_expires_days"`
}

// FilterConfig tunes derivation and filtering.
type FilterConfig struct {
	// Workers > 1 shards large lists across goroutines.
	Workers int `yaml:"workers"`
	// Limit caps matches returned when a request gives none.
	Limit int `yaml:"limit"`
	// FixedPolicy is "latest" or "strict".
	FixedPolicy string `yaml:"fixed_policy"`
	// RoundTotalCaps caps an Absent letter at the round's total count
	// rather than the running count. See reqs.WithRoundTotalCaps.
	RoundTotalCaps bool `yaml:"round_total_caps"`
}

// DefaultConfig returns a Config with development defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         "5175",
			ClientOrigin: "http://localhost:5173",
			Timeout:      10 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Words: WordsConfig{
			Database: "./data/words.db",
		},
		Auth: AuthConfig{
			JWTSecret:      "dev_secret_change_me",
			JWTExpiresDays: 14,
		},
		Filter: FilterConfig{
			Workers:     1,
			Limit:       100,
			FixedPolicy: "latest",
		},
	}
}

// LoadFromFile loads configuration from a YAML file on top of the defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// Load builds the effective configuration: defaults, then path (if not
// empty), then the environment. The result is validated.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		var err error
		if cfg, err = LoadFromFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from environment variables that are set and
// not empty.
func (c *Config) ApplyEnv() error {
	setStr := func(k string, dst *string) {
		if v := os.Getenv(k); v != "" {
			*dst = v
		}
	}
	setInt := func(k string, dst *int) error {
		v := os.Getenv(k)
		if v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", k, err)
		}
		*dst = n
		return nil
	}

	setStr("PORT", &c.Server.Port)
	setStr("CLIENT_ORIGIN", &c.Server.ClientOrigin)
	setStr("LOG_LEVEL", &c.Log.Level)
	setStr("LOG_FORMAT", &c.Log.Format)
	setStr("WORDS_FILE", &c.Words.File)
	setStr("DATABASE_PATH", &c.Words.Database)
	setStr("JWT_SECRET", &c.Auth.JWTSecret)
	setStr("FIXED_POLICY", &c.Filter.FixedPolicy)
	for _, e := range []struct {
		key string
		dst *int
	}{
		{"JWT_EXPIRES_DAYS", &c.Auth.JWTExpiresDays},
		{"FILTER_WORKERS", &c.Filter.Workers},
		{"FILTER_LIMIT", &c.Filter.Limit},
	} {
		if err := setInt(e.key, e.dst); err != nil {
			return err
		}
	}
	if v := os.Getenv("ROUND_TOTAL_CAPS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("ROUND_TOTAL_CAPS: %w", err)
		}
		c.Filter.RoundTotalCaps = b
	}
	return nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server.port is required")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server.timeout must be positive")
	}
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if c.Log.Format != "json" && c.Log.Format != "console" {
		return fmt.Errorf("log.format must be json or console, got %q", c.Log.Format)
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required")
	}
	if c.Auth.JWTExpiresDays <= 0 {
		return fmt.Errorf("auth.jwt_expires_days must be positive")
	}
	if c.Filter.Workers < 0 {
		return fmt.Errorf("filter.workers must not be negative")
	}
	if c.Filter.Limit < 0 {
		return fmt.Errorf("filter.limit must not be negative")
	}
	if _, err := reqs.ParseFixedPolicy(c.Filter.FixedPolicy); err != nil {
		return fmt.Errorf("filter.fixed_policy: %w", err)
	}
	return nil
}

// Policy returns the parsed fixed-position policy. Call after Validate.
func (c *Config) Policy() reqs.FixedPolicy {
	p, _ := reqs.ParseFixedPolicy(c.Filter.FixedPolicy)
	return p
}

// DeriveOptions returns the reqs options the configuration selects. A
// non-empty policy overrides the configured one.
func (c *Config) DeriveOptions(policy string) ([]reqs.Option, error) {
	p := c.Policy()
	if policy != "" {
		var err error
		if p, err = reqs.ParseFixedPolicy(policy); err != nil {
			return nil, err
		}
	}
	opts := []reqs.Option{reqs.WithFixedPolicy(p)}
	if c.Filter.RoundTotalCaps {
		opts = append(opts, reqs.WithRoundTotalCaps())
	}
	return opts, nil
}

// SaveToFile writes the configuration as YAML, creating parent directories.
func (c *Config) SaveToFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
