// Package config provides configuration for raster2sensor commands. A
// command accepts either a config file (YAML or JSON) or the discrete
// --sensorthingsapi-url / --trial-id flags; supplying both, or neither,
// is a configuration error.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Sentinel errors for the mutually-exclusive input rule. The CLI maps any
// configuration error to exit code 1.
var (
	// ErrConflictingSources indicates both a config file and discrete
	// parameters were supplied.
	ErrConflictingSources = errors.New("config: cannot combine --config with discrete parameters")

	// ErrMissingSource indicates neither a config file nor a complete set
	// of discrete parameters was supplied.
	ErrMissingSource = errors.New("config: supply either --config or both --sensorthingsapi-url and --trial-id")
)

// Load reads and parses a config file. The format is chosen by extension:
// .yaml/.yml or .json.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg := DefaultConfig()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	case ".json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("config: unsupported config format %q (use .yaml, .yml or .json)", filepath.Ext(path))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Resolve applies the mutually-exclusive input rule and returns the
// effective configuration: a loaded file when configPath is set, otherwise
// a Config assembled from the discrete parameters.
func Resolve(configPath, apiURL, trialID string) (*Config, error) {
	if configPath != "" && (apiURL != "" || trialID != "") {
		return nil, ErrConflictingSources
	}
	if configPath == "" && (apiURL == "" || trialID == "") {
		return nil, ErrMissingSource
	}

	if configPath != "" {
		return Load(configPath)
	}

	cfg := DefaultConfig()
	cfg.SensorThingsURL = apiURL
	cfg.TrialID = trialID
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration contains usable values. It is
// called after loading to catch invalid settings early.
func (c *Config) Validate() error {
	if c.SensorThingsURL == "" {
		return fmt.Errorf("config: sensorthingsapi_url is required")
	}
	if err := validateURL(c.SensorThingsURL); err != nil {
		return fmt.Errorf("config: sensorthingsapi_url: %w", err)
	}
	if c.TrialID == "" {
		return fmt.Errorf("config: trial_id is required")
	}
	if c.ProcessesURL != "" {
		if err := validateURL(c.ProcessesURL); err != nil {
			return fmt.Errorf("config: processes_url: %w", err)
		}
	}
	if c.MaxPages < 0 {
		return fmt.Errorf("config: max_pages must not be negative, got %d", c.MaxPages)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("config: timeout must not be negative, got %s", c.Timeout)
	}
	return nil
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if !u.IsAbs() || u.Host == "" {
		return fmt.Errorf("not an absolute http(s) URL: %q", raw)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	return nil
}
