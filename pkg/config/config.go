package config

import "time"

// Config is the root configuration structure for the barton tooling.
// It contains the registry source, gate behavior, audit daemon, and
// logging sections.
type Config struct {
	// Registry selects the schema registry the validators run against.
	Registry RegistryConfig `yaml:"registry"`

	// Gate controls compliance gate runs: caller attribution, strictness,
	// output format, and corpus discovery.
	Gate GateConfig `yaml:"gate"`

	// Audit controls scheduled audit runs and report export.
	Audit AuditConfig `yaml:"audit"`

	// Logging controls log level and output format.
	Logging LoggingConfig `yaml:"logging"`
}

// RegistryConfig selects the schema registry source.
type RegistryConfig struct {
	// Path is the registry source file. An empty path selects the
	// built-in doctrine catalog.
	// Default: "" (built-in catalog)
	Path string `yaml:"path"`
}

// GateConfig contains configuration for compliance gate runs.
type GateConfig struct {
	// Caller is stamped into every report for audit attribution.
	// Default: "barton-gate"
	Caller string `yaml:"caller"`

	// Strict treats warning findings as gate failures.
	// Default: false
	Strict bool `yaml:"strict"`

	// Format selects the report output format.
	// Options: "text", "json"
	// Default: "text"
	Format string `yaml:"format"`

	// Patterns are the glob patterns corpus discovery matches against,
	// in doublestar syntax ("doctrine/**/*.yaml").
	// Default: ["**/*.yaml", "**/*.yml"]
	Patterns []string `yaml:"patterns"`

	// Parallelism bounds concurrent subject evaluation. Zero or negative
	// uses one worker per available CPU.
	// Default: 0
	Parallelism int `yaml:"parallelism"`

	// WatchDebounce is the quiet period watch mode waits for after a file
	// change before re-running the gate.
	// Default: 100ms
	WatchDebounce time.Duration `yaml:"watch_debounce"`
}

// AuditConfig contains configuration for the audit runner.
type AuditConfig struct {
	// Schedule is the cron expression for repeated audit runs, in the
	// standard five-field form. An empty schedule disables the daemon;
	// audit runs then happen only when invoked directly.
	// Default: "" (disabled)
	Schedule string `yaml:"schedule"`

	// Sources are the corpus files or directories each run evaluates.
	// Directories are expanded through gate.patterns.
	// Default: ["."]
	Sources []string `yaml:"sources"`

	// Export selects the run record export format.
	// Options: "json", "csv"
	// Default: "json"
	Export string `yaml:"export"`

	// Out is the file exported run records are written to. Empty writes
	// to standard output.
	// Default: ""
	Out string `yaml:"out"`
}

// LoggingConfig contains configuration for structured logging.
type LoggingConfig struct {
	// Level is the minimum level that gets logged.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format selects the log output format.
	// Options: "text", "json"
	// Default: "text"
	Format string `yaml:"format"`
}
