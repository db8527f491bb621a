// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jonathan/staffpilot/internal/lifecycle"
)

// Default values applied by MergeWithDefaults.
const (
	DefaultBaseURL            = "http://localhost:8000/api"
	DefaultTimeoutSeconds     = 30
	DefaultOrderingPolicy     = "latest-issued"
	DefaultRefreshConcurrency = 4
)

// Environment variables that override file values.
const (
	EnvBaseURL  = "STAFFPILOT_BASE_URL"
	EnvTimeout  = "STAFFPILOT_TIMEOUT"
	EnvOrdering = "STAFFPILOT_ORDERING"
)

// Config represents the CLI configuration that can be loaded from a JSON or
// YAML file. All fields are optional; missing values use defaults or CLI flags.
type Config struct {
	// Service
	BaseURL        string `json:"base_url,omitempty" yaml:"base_url,omitempty"`               // Service root, including the /api prefix
	TimeoutSeconds int    `json:"timeout_seconds,omitempty" yaml:"timeout_seconds,omitempty"` // Per-request timeout

	// Behavior
	OrderingPolicy     string `json:"ordering_policy,omitempty" yaml:"ordering_policy,omitempty"`         // latest-issued or last-settled
	RefreshConcurrency int    `json:"refresh_concurrency,omitempty" yaml:"refresh_concurrency,omitempty"` // Parallel fetches during refresh
	ThrottleEnabled    *bool  `json:"throttle_enabled,omitempty" yaml:"throttle_enabled,omitempty"`       // Pace expensive calls
	Timezone           string `json:"timezone,omitempty" yaml:"timezone,omitempty"`                       // IANA zone for "sent today"
	Verbose            bool   `json:"verbose,omitempty" yaml:"verbose,omitempty"`                         // Debug logging
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	enabled := true
	return Config{
		BaseURL:            DefaultBaseURL,
		TimeoutSeconds:     DefaultTimeoutSeconds,
		OrderingPolicy:     DefaultOrderingPolicy,
		RefreshConcurrency: DefaultRefreshConcurrency,
		ThrottleEnabled:    &enabled,
	}
}

// LoadConfig loads configuration from a .json, .yaml or .yml file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	return &cfg, nil
}

// ApplyEnv overrides file values with any STAFFPILOT_* variables that are set.
func (c *Config) ApplyEnv() error {
	if v := strings.TrimSpace(os.Getenv(EnvBaseURL)); v != "" {
		c.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvTimeout)); v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config error: %s must be a whole number of seconds: %w", EnvTimeout, err)
		}
		c.TimeoutSeconds = seconds
	}
	if v := strings.TrimSpace(os.Getenv(EnvOrdering)); v != "" {
		c.OrderingPolicy = v
	}
	return nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.BaseURL != "" {
		u, err := url.Parse(c.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("config error: 'base_url' must be an absolute URL: %q", c.BaseURL)
		}
	}

	// Validate numeric ranges
	if c.TimeoutSeconds < 0 {
		return fmt.Errorf("config error: 'timeout_seconds' must be non-negative")
	}
	if c.RefreshConcurrency < 0 {
		return fmt.Errorf("config error: 'refresh_concurrency' must be non-negative")
	}

	if _, err := lifecycle.ParsePolicy(c.OrderingPolicy); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if c.Timezone != "" {
		if _, err := time.LoadLocation(c.Timezone); err != nil {
			return fmt.Errorf("config error: unknown timezone %q: %w", c.Timezone, err)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with unset fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.BaseURL == "" {
		result.BaseURL = defaults.BaseURL
	}
	if result.OrderingPolicy == "" {
		result.OrderingPolicy = defaults.OrderingPolicy
	}
	if result.Timezone == "" {
		result.Timezone = defaults.Timezone
	}
	if result.TimeoutSeconds == 0 {
		result.TimeoutSeconds = defaults.TimeoutSeconds
	}
	if result.RefreshConcurrency == 0 {
		result.RefreshConcurrency = defaults.RefreshConcurrency
	}
	if result.ThrottleEnabled == nil && defaults.ThrottleEnabled != nil {
		enabled := *defaults.ThrottleEnabled
		result.ThrottleEnabled = &enabled
	}

	// Verbose cannot distinguish unset from false, so it is not merged
	// (CLI flags always win for bools)

	return result
}

// Timeout returns the request timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Policy returns the parsed ordering policy.
func (c *Config) Policy() lifecycle.Policy {
	p, err := lifecycle.ParsePolicy(c.OrderingPolicy)
	if err != nil {
		return lifecycle.LatestIssuedWins
	}
	return p
}

// Location returns the configured calendar zone, or time.Local.
func (c *Config) Location() *time.Location {
	if c.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// Throttled reports whether outbound pacing is on. Unset means on.
func (c *Config) Throttled() bool {
	return c.ThrottleEnabled == nil || *c.ThrottleEnabled
}
