// Package main provides the BugBoard server CLI.
package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the server configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Verbose  bool           `yaml:"-"` // set via CLI flag
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Address string `yaml:"address"` // HTTP listen address (default: :8080)
	WebUI   bool   `yaml:"web_ui"`  // serve the browser UI alongside the API
}

// DatabaseConfig contains storage settings.
type DatabaseConfig struct {
	Path string `yaml:"path"` // SQLite database file path
}

// AuthConfig contains token and lockout settings.
type AuthConfig struct {
	AccessTokenTTL   time.Duration `yaml:"access_token_ttl"`  // JWT lifetime (default: 24h)
	LockoutThreshold int           `yaml:"lockout_threshold"` // failed logins before lockout (default: 5)
	LockoutDuration  time.Duration `yaml:"lockout_duration"`  // lockout length (default: 30m)
}

// MetricsConfig controls the standalone Prometheus listener.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Address string `yaml:"address"` // metrics listen address (default: :9090)
}

// LoadConfig loads configuration from a YAML file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.setDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

// setDefaults sets default values for missing config fields.
func (c *Config) setDefaults() {
	if c.Server.Address == "" {
		c.Server.Address = ":8080"
	}
	if c.Database.Path == "" {
		c.Database.Path = "data/bugboard.db"
	}
	if c.Auth.AccessTokenTTL == 0 {
		c.Auth.AccessTokenTTL = 24 * time.Hour
	}
	if c.Auth.LockoutThreshold == 0 {
		c.Auth.LockoutThreshold = 5
	}
	if c.Auth.LockoutDuration == 0 {
		c.Auth.LockoutDuration = 30 * time.Minute
	}
	if c.Metrics.Address == "" {
		c.Metrics.Address = ":9090"
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Server.Address == "" {
		return fmt.Errorf("server.address is required")
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.Auth.AccessTokenTTL < 0 {
		return fmt.Errorf("auth.access_token_ttl must not be negative")
	}
	if c.Auth.LockoutThreshold < 0 {
		return fmt.Errorf("auth.lockout_threshold must not be negative")
	}
	if c.Metrics.Enabled && c.Metrics.Address == "" {
		return fmt.Errorf("metrics.address is required when metrics are enabled")
	}
	return nil
}
