// Package config loads the formstate CLI configuration from YAML with
// FORMSTATE_* environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Session store backends.
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
)

// Config is the CLI configuration.
type Config struct {
	LogLevel string        `yaml:"log_level"`
	Renderer string        `yaml:"renderer"`
	Session  SessionConfig `yaml:"session"`
}

// SessionConfig selects where widget state lives.
type SessionConfig struct {
	Store string `yaml:"store"` // memory or sqlite
	Path  string `yaml:"path"`  // sqlite database file
	ID    string `yaml:"id"`    // resume this session instead of starting one
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "warn",
		Renderer: "text",
		Session: SessionConfig{
			Store: StoreMemory,
			Path:  filepath.Join(".formstate", "state.db"),
		},
	}
}

// Load reads path over the defaults. A missing file is not an error. An
// empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("config: parse %s: %w", path, err)
			}
		}
	}

	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration as YAML, creating parent directories.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: create dir: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("FORMSTATE_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("FORMSTATE_RENDERER"); v != "" {
		c.Renderer = v
	}
	if v := os.Getenv("FORMSTATE_SESSION_STORE"); v != "" {
		c.Session.Store = v
	}
	if v := os.Getenv("FORMSTATE_SESSION_PATH"); v != "" {
		c.Session.Path = v
	}
	if v := os.Getenv("FORMSTATE_SESSION_ID"); v != "" {
		c.Session.ID = v
	}
}

// Validate checks enumerated fields.
func (c *Config) Validate() error {
	if _, err := c.Level(); err != nil {
		return err
	}
	c.Session.Store = strings.ToLower(strings.TrimSpace(c.Session.Store))
	switch c.Session.Store {
	case StoreMemory:
	case StoreSQLite:
		if strings.TrimSpace(c.Session.Path) == "" {
			return fmt.Errorf("config: session.path is required for the sqlite store")
		}
	default:
		return fmt.Errorf("config: unknown session.store %q (want %s or %s)", c.Session.Store, StoreMemory, StoreSQLite)
	}
	return nil
}

// Level parses LogLevel.
func (c *Config) Level() (zapcore.Level, error) {
	level, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return zapcore.InfoLevel, fmt.Errorf("config: log_level: %w", err)
	}
	return level, nil
}
