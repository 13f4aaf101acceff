package config

import (
	"os"
	"path/filepath"
	"testing"
)

// BenchmarkLoadConfig benchmarks loading a typical configuration file.
func BenchmarkLoadConfig(b *testing.B) {
	// Create a temporary config file
	tmpDir := b.TempDir()
	configPath := filepath.Join(tmpDir, "barton.yaml")

	configContent := `
registry:
  path: "doctrine/registry.yaml"

gate:
  caller: "ci-gate"
  strict: true
  format: "json"
  patterns:
    - "doctrine/**/*.yaml"
    - "shared/**/*.yml"
  parallelism: 4
  watch_debounce: "250ms"

audit:
  schedule: "0 3 * * *"
  sources:
    - "doctrine/"
  export: "json"
  out: "audit.json"

logging:
  level: "info"
  format: "text"
`

	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		b.Fatalf("failed to write config file: %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, err := LoadConfig(configPath)
		if err != nil {
			b.Fatalf("failed to load config: %v", err)
		}
	}
}

// BenchmarkValidate benchmarks configuration validation.
func BenchmarkValidate(b *testing.B) {
	cfg := DefaultConfig()
	cfg.Audit.Schedule = "0 3 * * *"

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		err := Validate(cfg)
		if err != nil {
			b.Fatalf("validation failed: %v", err)
		}
	}
}

// BenchmarkApplyDefaults benchmarks applying default values.
func BenchmarkApplyDefaults(b *testing.B) {
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cfg := Config{}
		ApplyDefaults(&cfg)
	}
}

// BenchmarkGetConfig benchmarks singleton config access.
func BenchmarkGetConfig(b *testing.B) {
	// Set up config
	SetConfig(DefaultConfig())

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = GetConfig()
	}
}
