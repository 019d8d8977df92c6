// Package config holds svnsweep's two configuration surfaces: the engine
// settings file (YAML, per working directory) and the persisted svn
// executable path (JSON, per user).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents engine configuration options.
type Config struct {
	// LogLevel sets the logging verbosity (trace, debug, info, warn, error)
	LogLevel string `yaml:"log_level"`

	// ScanTimeout bounds the textual fallback status scan per working copy
	ScanTimeout time.Duration `yaml:"scan_timeout"`

	// IgnoreDirs adds directory names to the locator's prune set
	IgnoreDirs []string `yaml:"ignore_dirs"`
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:    "info",
		ScanTimeout: 60 * time.Second,
	}
}

// LoadConfig loads engine configuration from the specified file path.
// A missing file yields the defaults without error; a malformed file is an
// error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Durations are written as strings ("90s", "2m"), so unmarshal through
	// a shadow struct.
	type yamlConfig struct {
		LogLevel    string   `yaml:"log_level"`
		ScanTimeout string   `yaml:"scan_timeout"`
		IgnoreDirs  []string `yaml:"ignore_dirs"`
	}

	var yamlCfg yamlConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if yamlCfg.LogLevel != "" {
		cfg.LogLevel = yamlCfg.LogLevel
	}
	if yamlCfg.ScanTimeout != "" {
		d, err := time.ParseDuration(yamlCfg.ScanTimeout)
		if err != nil {
			return nil, fmt.Errorf("invalid scan_timeout %q: %w", yamlCfg.ScanTimeout, err)
		}
		cfg.ScanTimeout = d
	}
	if len(yamlCfg.IgnoreDirs) > 0 {
		cfg.IgnoreDirs = yamlCfg.IgnoreDirs
	}

	return cfg, nil
}

// LoadConfigFromDir loads configuration from dir/.svnsweep/config.yaml,
// returning defaults when the file is absent.
func LoadConfigFromDir(dir string) (*Config, error) {
	return LoadConfig(filepath.Join(dir, ".svnsweep", "config.yaml"))
}

// Validate checks configuration values for consistency.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s", c.LogLevel)
	}
	if c.ScanTimeout <= 0 {
		return fmt.Errorf("scan_timeout must be positive, got %s", c.ScanTimeout)
	}
	return nil
}
