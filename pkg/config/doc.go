// Package config provides configuration management for the barton tooling.
//
// This package handles loading, validating, and managing configuration from
// YAML files with environment variable overrides. It provides a type-safe
// configuration system with validation and sensible defaults.
//
// # Configuration Loading
//
// Configuration can be loaded in two ways:
//
//  1. From a YAML file only:
//     cfg, err := config.LoadConfig("barton.yaml")
//
//  2. From a YAML file with environment variable overrides:
//     cfg, err := config.LoadConfigWithEnvOverrides("barton.yaml")
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention BARTON_SECTION_FIELD.
// For example:
//
//   - BARTON_REGISTRY_PATH overrides registry.path
//   - BARTON_GATE_STRICT overrides gate.strict
//   - BARTON_LOG_LEVEL overrides logging.level
//
// Environment variables always take precedence over file-based configuration.
//
// # Configuration Precedence
//
// Configuration values are applied in the following order (later overrides earlier):
//
//  1. Default values (defined in defaults.go)
//  2. Values from YAML file
//  3. Environment variable overrides
//  4. Validation (fails fast if invalid)
//
// # Singleton Pattern
//
// For application-wide configuration access, use the singleton pattern:
//
//	// At application startup
//	if err := config.Initialize("barton.yaml"); err != nil {
//	    log.Fatal(err)
//	}
//
//	// Anywhere in the application
//	cfg := config.GetConfig()
//	fmt.Println(cfg.Gate.Format)
//
// For testing, prefer dependency injection with explicit Config instances
// rather than the global singleton.
//
// # Validation
//
// All configuration is validated automatically during loading. Validation
// includes enumerated value checks (output formats, log levels), range
// checks (non-negative parallelism and debounce), glob pattern syntax, and
// cron schedule syntax. Validation errors include field paths and helpful
// messages:
//
//	configuration validation failed with 2 errors:
//	  - gate.format: invalid format "xml" (must be "text" or "json")
//	  - audit.schedule: invalid cron schedule "whenever": ...
//
// # Example Configuration
//
// Here is a complete configuration file:
//
//	registry:
//	  path: "doctrine/registry.yaml"
//
//	gate:
//	  caller: "ci-gate"
//	  strict: true
//	  format: "text"
//	  patterns:
//	    - "doctrine/**/*.yaml"
//
//	audit:
//	  schedule: "0 3 * * *"
//	  sources:
//	    - "doctrine/"
//	  export: "json"
//	  out: "audit.json"
//
//	logging:
//	  level: "info"
//	  format: "text"
//
// # Thread Safety
//
// All configuration access is thread-safe. The singleton pattern uses
// read-write locks to allow concurrent reads while protecting against
// concurrent writes during reload operations.
package config
