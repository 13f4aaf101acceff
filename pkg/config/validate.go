package config

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/robfig/cron/v3"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "gate.format").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
// It implements the error interface and provides access to all field errors.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration and returns a ValidationError
// if any validation rules fail. It returns nil if the configuration is valid.
// All validation errors are collected and returned together.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateGate(&cfg.Gate)...)
	errs = append(errs, validateAudit(&cfg.Audit)...)
	errs = append(errs, validateLogging(&cfg.Logging)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}

	return nil
}

// validateGate validates gate configuration.
func validateGate(cfg *GateConfig) []FieldError {
	var errs []FieldError

	if cfg.Format != "text" && cfg.Format != "json" {
		errs = append(errs, FieldError{
			Field:   "gate.format",
			Message: fmt.Sprintf("invalid format %q (must be \"text\" or \"json\")", cfg.Format),
		})
	}

	if cfg.Parallelism < 0 {
		errs = append(errs, FieldError{
			Field:   "gate.parallelism",
			Message: "parallelism must be non-negative",
		})
	}

	if cfg.WatchDebounce < 0 {
		errs = append(errs, FieldError{
			Field:   "gate.watch_debounce",
			Message: "watch debounce must be non-negative",
		})
	}

	for i, pattern := range cfg.Patterns {
		if pattern == "" {
			errs = append(errs, FieldError{
				Field:   fmt.Sprintf("gate.patterns[%d]", i),
				Message: "pattern must not be empty",
			})
			continue
		}
		if !doublestar.ValidatePattern(pattern) {
			errs = append(errs, FieldError{
				Field:   fmt.Sprintf("gate.patterns[%d]", i),
				Message: fmt.Sprintf("invalid glob pattern %q", pattern),
			})
		}
	}

	return errs
}

// validateAudit validates audit configuration.
func validateAudit(cfg *AuditConfig) []FieldError {
	var errs []FieldError

	if cfg.Schedule != "" {
		if _, err := cron.ParseStandard(cfg.Schedule); err != nil {
			errs = append(errs, FieldError{
				Field:   "audit.schedule",
				Message: fmt.Sprintf("invalid cron schedule %q: %v", cfg.Schedule, err),
			})
		}
	}

	if cfg.Export != "json" && cfg.Export != "csv" {
		errs = append(errs, FieldError{
			Field:   "audit.export",
			Message: fmt.Sprintf("invalid export format %q (must be \"json\" or \"csv\")", cfg.Export),
		})
	}

	for i, source := range cfg.Sources {
		if source == "" {
			errs = append(errs, FieldError{
				Field:   fmt.Sprintf("audit.sources[%d]", i),
				Message: "source must not be empty",
			})
		}
	}

	return errs
}

// validateLogging validates logging configuration.
func validateLogging(cfg *LoggingConfig) []FieldError {
	var errs []FieldError

	switch cfg.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, FieldError{
			Field:   "logging.level",
			Message: fmt.Sprintf("invalid level %q (must be one of: debug, info, warn, error)", cfg.Level),
		})
	}

	if cfg.Format != "text" && cfg.Format != "json" {
		errs = append(errs, FieldError{
			Field:   "logging.format",
			Message: fmt.Sprintf("invalid format %q (must be \"text\" or \"json\")", cfg.Format),
		})
	}

	return errs
}
