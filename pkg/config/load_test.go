package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "barton.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoadConfig_ValidFile(t *testing.T) {
	configPath := writeConfigFile(t, `
registry:
  path: "doctrine/registry.yaml"

gate:
  caller: "ci-gate"
  strict: true
  format: "json"

audit:
  schedule: "0 3 * * *"
  sources:
    - "doctrine/"

logging:
  level: "debug"
  format: "text"
`)

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Verify loaded values
	if cfg.Registry.Path != "doctrine/registry.yaml" {
		t.Errorf("expected registry path %q, got %q", "doctrine/registry.yaml", cfg.Registry.Path)
	}
	if cfg.Gate.Caller != "ci-gate" {
		t.Errorf("expected gate caller %q, got %q", "ci-gate", cfg.Gate.Caller)
	}
	if !cfg.Gate.Strict {
		t.Error("expected gate strict to be true")
	}
	if cfg.Audit.Schedule != "0 3 * * *" {
		t.Errorf("expected audit schedule %q, got %q", "0 3 * * *", cfg.Audit.Schedule)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected logging level %q, got %q", "debug", cfg.Logging.Level)
	}

	// Verify defaults filled the gaps
	if cfg.Gate.WatchDebounce != DefaultGateWatchDebounce {
		t.Errorf("expected default watch debounce %v, got %v", DefaultGateWatchDebounce, cfg.Gate.WatchDebounce)
	}
	if cfg.Audit.Export != DefaultAuditExport {
		t.Errorf("expected default audit export %q, got %q", DefaultAuditExport, cfg.Audit.Export)
	}
}

func TestLoadConfig_EmptyFile(t *testing.T) {
	configPath := writeConfigFile(t, "")

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("failed to load empty config: %v", err)
	}

	if cfg.Gate.Caller != DefaultGateCaller {
		t.Errorf("expected default gate caller %q, got %q", DefaultGateCaller, cfg.Gate.Caller)
	}
	if cfg.Logging.Level != DefaultLoggingLevel {
		t.Errorf("expected default logging level %q, got %q", DefaultLoggingLevel, cfg.Logging.Level)
	}
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	_, err := LoadConfig("/nonexistent/barton.yaml")
	if err == nil {
		t.Error("expected error for nonexistent file")
	}
	if !strings.Contains(err.Error(), "failed to read configuration file") {
		t.Errorf("expected read error, got: %v", err)
	}
}

func TestLoadConfig_MalformedYAML(t *testing.T) {
	configPath := writeConfigFile(t, `
gate:
  format: "text"
  invalid yaml here: [
`)

	_, err := LoadConfig(configPath)
	if err == nil {
		t.Error("expected error for malformed YAML")
	}
}

func TestLoadConfig_ValidationFailure(t *testing.T) {
	configPath := writeConfigFile(t, `
gate:
  format: "xml"

logging:
  level: "loud"
`)

	_, err := LoadConfig(configPath)
	if err == nil {
		t.Fatal("expected validation error")
	}

	// Check if the error chain contains a ValidationError
	var validationErr ValidationError
	if !errors.As(err, &validationErr) {
		t.Errorf("expected ValidationError in error chain, got %T: %v", err, err)
	}
	if len(validationErr.Errors) != 2 {
		t.Errorf("expected 2 field errors, got %d: %v", len(validationErr.Errors), validationErr.Errors)
	}
}

func TestLoadConfigWithEnvOverrides_BasicOverrides(t *testing.T) {
	configPath := writeConfigFile(t, `
registry:
  path: "file-registry.yaml"

gate:
  strict: false
  format: "text"

logging:
  level: "info"
`)

	// Set environment variables
	os.Setenv("BARTON_REGISTRY_PATH", "env-registry.yaml")
	os.Setenv("BARTON_GATE_STRICT", "true")
	os.Setenv("BARTON_GATE_FORMAT", "json")
	os.Setenv("BARTON_LOG_LEVEL", "debug")
	defer func() {
		os.Unsetenv("BARTON_REGISTRY_PATH")
		os.Unsetenv("BARTON_GATE_STRICT")
		os.Unsetenv("BARTON_GATE_FORMAT")
		os.Unsetenv("BARTON_LOG_LEVEL")
	}()

	cfg, err := LoadConfigWithEnvOverrides(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Verify environment overrides took effect
	if cfg.Registry.Path != "env-registry.yaml" {
		t.Errorf("expected registry path %q from env, got %q", "env-registry.yaml", cfg.Registry.Path)
	}
	if !cfg.Gate.Strict {
		t.Error("expected gate strict to be true from env")
	}
	if cfg.Gate.Format != "json" {
		t.Errorf("expected gate format %q from env, got %q", "json", cfg.Gate.Format)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected logging level %q from env, got %q", "debug", cfg.Logging.Level)
	}
}

func TestLoadConfigWithEnvOverrides_ScheduleAndExport(t *testing.T) {
	configPath := writeConfigFile(t, `
audit:
  schedule: "0 3 * * *"
  export: "json"
`)

	os.Setenv("BARTON_AUDIT_SCHEDULE", "*/30 * * * *")
	os.Setenv("BARTON_AUDIT_EXPORT", "csv")
	os.Setenv("BARTON_AUDIT_OUT", "/var/log/barton/audit.csv")
	defer func() {
		os.Unsetenv("BARTON_AUDIT_SCHEDULE")
		os.Unsetenv("BARTON_AUDIT_EXPORT")
		os.Unsetenv("BARTON_AUDIT_OUT")
	}()

	cfg, err := LoadConfigWithEnvOverrides(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Audit.Schedule != "*/30 * * * *" {
		t.Errorf("expected audit schedule %q from env, got %q", "*/30 * * * *", cfg.Audit.Schedule)
	}
	if cfg.Audit.Export != "csv" {
		t.Errorf("expected audit export %q from env, got %q", "csv", cfg.Audit.Export)
	}
	if cfg.Audit.Out != "/var/log/barton/audit.csv" {
		t.Errorf("expected audit out %q from env, got %q", "/var/log/barton/audit.csv", cfg.Audit.Out)
	}
}

func TestLoadConfigWithEnvOverrides_DurationAndIntParsing(t *testing.T) {
	configPath := writeConfigFile(t, `
gate:
  parallelism: 2
  watch_debounce: "100ms"
`)

	os.Setenv("BARTON_GATE_PARALLELISM", "8")
	os.Setenv("BARTON_GATE_WATCH_DEBOUNCE", "2s")
	defer func() {
		os.Unsetenv("BARTON_GATE_PARALLELISM")
		os.Unsetenv("BARTON_GATE_WATCH_DEBOUNCE")
	}()

	cfg, err := LoadConfigWithEnvOverrides(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Gate.Parallelism != 8 {
		t.Errorf("expected parallelism %d from env, got %d", 8, cfg.Gate.Parallelism)
	}
	if cfg.Gate.WatchDebounce != 2*time.Second {
		t.Errorf("expected watch debounce %v from env, got %v", 2*time.Second, cfg.Gate.WatchDebounce)
	}
}

func TestLoadConfigWithEnvOverrides_InvalidEnvValues(t *testing.T) {
	configPath := writeConfigFile(t, `
gate:
  parallelism: 2

logging:
  level: "info"
`)

	// Unparseable numbers are ignored; parseable but invalid values fail
	// validation afterwards.
	os.Setenv("BARTON_GATE_PARALLELISM", "not-a-number")
	os.Setenv("BARTON_LOG_LEVEL", "loud")
	defer func() {
		os.Unsetenv("BARTON_GATE_PARALLELISM")
		os.Unsetenv("BARTON_LOG_LEVEL")
	}()

	_, err := LoadConfigWithEnvOverrides(configPath)
	if err == nil {
		t.Fatal("expected validation error for invalid log level from env")
	}
	if !strings.Contains(err.Error(), "logging.level") {
		t.Errorf("expected logging.level in error, got: %v", err)
	}
}
