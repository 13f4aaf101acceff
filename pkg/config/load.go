package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values, validates the configuration, and returns any
// errors. The configuration is not modified by environment variables; use
// LoadConfigWithEnvOverrides for that functionality.
func LoadConfig(path string) (*Config, error) {
	// Read the file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	// Parse YAML
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	// Apply defaults
	ApplyDefaults(&cfg)

	// Validate
	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Environment variables follow the naming
// convention BARTON_SECTION_FIELD (e.g., BARTON_GATE_FORMAT). Environment
// variables always take precedence over file-based configuration.
//
// The loading sequence is:
// 1. Load YAML from file
// 2. Apply default values
// 3. Apply environment variable overrides
// 4. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	// First load from file (this already applies defaults)
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	// Apply environment variable overrides
	applyEnvOverrides(cfg)

	// Re-validate after overrides
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables use the format BARTON_SECTION_FIELD.
func applyEnvOverrides(cfg *Config) {
	// Registry overrides
	if val := os.Getenv("BARTON_REGISTRY_PATH"); val != "" {
		cfg.Registry.Path = val
	}

	// Gate overrides
	if val := os.Getenv("BARTON_GATE_CALLER"); val != "" {
		cfg.Gate.Caller = val
	}
	if val := os.Getenv("BARTON_GATE_STRICT"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Gate.Strict = b
		}
	}
	if val := os.Getenv("BARTON_GATE_FORMAT"); val != "" {
		cfg.Gate.Format = val
	}
	if val := os.Getenv("BARTON_GATE_PARALLELISM"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Gate.Parallelism = i
		}
	}
	if val := os.Getenv("BARTON_GATE_WATCH_DEBOUNCE"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Gate.WatchDebounce = d
		}
	}

	// Audit overrides
	if val := os.Getenv("BARTON_AUDIT_SCHEDULE"); val != "" {
		cfg.Audit.Schedule = val
	}
	if val := os.Getenv("BARTON_AUDIT_EXPORT"); val != "" {
		cfg.Audit.Export = val
	}
	if val := os.Getenv("BARTON_AUDIT_OUT"); val != "" {
		cfg.Audit.Out = val
	}

	// Logging overrides
	if val := os.Getenv("BARTON_LOG_LEVEL"); val != "" {
		cfg.Logging.Level = val
	}
	if val := os.Getenv("BARTON_LOG_FORMAT"); val != "" {
		cfg.Logging.Format = val
	}
}
