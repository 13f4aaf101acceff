// Barton Meridian is a doctrine numbering and payload compliance engine.
//
// It validates Barton and UDNS doctrine identifiers against a schema
// registry, formats payload envelopes for the staging, vault, and
// warehouse backends, and gates corpora of doctrine files through a
// rule-based compliance enforcer:
//   - Identifier grammar validation with accumulated, segment-level findings
//   - Registry-driven scope, section, and altitude checks
//   - Payload envelope formatting with per-backend field dialects
//   - Corpus compliance gating for CI with PASS/FAIL exit codes
//   - Scheduled audit runs with exportable run records
//
// Usage:
//
//	# Validate a doctrine identifier
//	barton validate 1.5.3.30.0
//
//	# Gate a corpus of doctrine files
//	barton gate doctrine/ --strict
//
//	# Build and format a payload envelope
//	barton envelope format --source-id 1.3.0.10.0 --process-id 20.orchestration.render.execute
//
//	# Inspect the registry catalog
//	barton registry inspect
//
//	# Run a scheduled audit daemon
//	barton audit doctrine/ --schedule "0 3 * * *" --export json
//
// For complete documentation, see: https://github.com/barton-hq/meridian
package main

func main() {
	Execute()
}
