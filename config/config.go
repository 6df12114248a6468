// Package config loads the application configuration. Per-query settings
// live in template documents; this covers only the global defaults that
// apply regardless of which template is active.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	// DefaultFormat selects the output format when --format is not given.
	DefaultFormat string `yaml:"default_format,omitempty"`

	// TemplateDir overrides where template documents are stored.
	TemplateDir string `yaml:"template_dir,omitempty"`

	// CacheTTL is the default cache lifetime for templates that do not
	// set their own, as a duration string like "1h" or "30m".
	CacheTTL string `yaml:"cache_ttl,omitempty"`

	// MaxAge is the default fetch window for templates that do not set
	// their own, as a duration string like "6mo" or "90d".
	MaxAge string `yaml:"max_age,omitempty"`
}

// DefaultConfigDir returns the default config directory
func DefaultConfigDir() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return ".tracker"
	}
	return filepath.Join(configDir, "tracker")
}

// ConfigPath returns the path to the config file
func ConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

// LocalConfigPath returns the path to the local config file in the current directory
func LocalConfigPath() string {
	return ".tracker.yaml"
}

// Load loads the configuration from disk.
// It first loads the global config from the XDG config directory, then
// merges any local .tracker.yaml config on top (local values take
// precedence). A missing file is not an error.
func Load() (*Config, error) {
	cfg := &Config{
		DefaultFormat: "table",
	}

	globalPath := ConfigPath()
	if _, err := os.Stat(globalPath); err == nil {
		data, err := os.ReadFile(globalPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read global config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse global config file: %w", err)
		}
	}

	localPath := LocalConfigPath()
	if _, err := os.Stat(localPath); err == nil {
		data, err := os.ReadFile(localPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read local config file: %w", err)
		}
		var local Config
		if err := yaml.Unmarshal(data, &local); err != nil {
			return nil, fmt.Errorf("failed to parse local config file: %w", err)
		}
		cfg = merge(cfg, &local)
	}

	if cfg.DefaultFormat == "" {
		cfg.DefaultFormat = "table"
	}

	return cfg, nil
}

// merge overlays non-empty local values onto the global config.
func merge(global, local *Config) *Config {
	out := *global
	if local.DefaultFormat != "" {
		out.DefaultFormat = local.DefaultFormat
	}
	if local.TemplateDir != "" {
		out.TemplateDir = local.TemplateDir
	}
	if local.CacheTTL != "" {
		out.CacheTTL = local.CacheTTL
	}
	if local.MaxAge != "" {
		out.MaxAge = local.MaxAge
	}
	return &out
}
