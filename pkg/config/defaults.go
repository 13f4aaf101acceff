package config

import "time"

// Default values for configuration fields.
const (
	// Gate defaults
	DefaultGateCaller        = "barton-gate"
	DefaultGateFormat        = "text"
	DefaultGateWatchDebounce = 100 * time.Millisecond

	// Audit defaults
	DefaultAuditExport = "json"

	// Logging defaults
	DefaultLoggingLevel  = "info"
	DefaultLoggingFormat = "text"
)

// DefaultGatePatterns are the corpus discovery globs used when none are
// configured.
func DefaultGatePatterns() []string {
	return []string{"**/*.yaml", "**/*.yml"}
}

// DefaultAuditSources are the corpus roots used when none are configured.
func DefaultAuditSources() []string {
	return []string{"."}
}

// ApplyDefaults applies default values to a Config struct.
// It sets defaults for any fields that have zero values.
// This function is idempotent and safe to call multiple times.
func ApplyDefaults(cfg *Config) {
	// Gate defaults
	if cfg.Gate.Caller == "" {
		cfg.Gate.Caller = DefaultGateCaller
	}
	if cfg.Gate.Format == "" {
		cfg.Gate.Format = DefaultGateFormat
	}
	if len(cfg.Gate.Patterns) == 0 {
		cfg.Gate.Patterns = DefaultGatePatterns()
	}
	if cfg.Gate.WatchDebounce == 0 {
		cfg.Gate.WatchDebounce = DefaultGateWatchDebounce
	}

	// Audit defaults
	if len(cfg.Audit.Sources) == 0 {
		cfg.Audit.Sources = DefaultAuditSources()
	}
	if cfg.Audit.Export == "" {
		cfg.Audit.Export = DefaultAuditExport
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = DefaultLoggingFormat
	}
}

// DefaultConfig returns a fully defaulted configuration, the one an empty
// configuration file produces.
func DefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}
