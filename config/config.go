// Package config loads battlecore settings from a YAML file with
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Environment overrides.
const (
	EnvSeed     = "BATTLECORE_SEED"
	EnvRoster   = "BATTLECORE_ROSTER"
	EnvLogFile  = "BATTLECORE_LOG_FILE"
	EnvLogLevel = "BATTLECORE_LOG_LEVEL"
)

// Config holds the application configuration.
type Config struct {
	Seed      int64  `yaml:"seed"`       // 0 means time-based
	RosterDir string `yaml:"roster_dir"` // optional Lua roster directory
	LogFile   string `yaml:"log_file"`   // empty disables logging
	LogLevel  string `yaml:"log_level"`
	RecentLog int    `yaml:"recent_log"`
	Plain     bool   `yaml:"plain"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		LogLevel:  "info",
		RecentLog: 5,
	}
}

// Load reads the YAML file at path over the defaults and then applies
// environment overrides. An empty path or a missing file yields defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config %s: %w", path, err)
			}
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvSeed); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvSeed, err)
		}
		c.Seed = seed
	}
	if v := os.Getenv(EnvRoster); v != "" {
		c.RosterDir = v
	}
	if v := os.Getenv(EnvLogFile); v != "" {
		c.LogFile = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	return nil
}

var validLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true,
}

// Validate checks field ranges.
func (c *Config) Validate() error {
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if !validLevels[c.LogLevel] {
		return fmt.Errorf("invalid log_level %q", c.LogLevel)
	}
	if c.RecentLog < 0 {
		return fmt.Errorf("recent_log must be >= 0, got %d", c.RecentLog)
	}
	return nil
}
