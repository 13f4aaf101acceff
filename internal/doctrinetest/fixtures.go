// Package doctrinetest provides shared fixtures for tests that cross
// package boundaries: deterministic clocks and formatters, canned corpus
// files, and prebuilt envelopes that pass the built-in rule set.
package doctrinetest

import (
	"testing"
	"time"

	"barton-hq/meridian/pkg/compliance"
	"barton-hq/meridian/pkg/envelope"
	"barton-hq/meridian/pkg/registry"
)

// FixedTime is the instant every deterministic fixture is stamped with.
var FixedTime = time.Date(2026, time.August, 1, 12, 0, 0, 0, time.UTC)

// FixedClock returns a clock function frozen at FixedTime.
func FixedClock() func() time.Time {
	return func() time.Time { return FixedTime }
}

// TestFormatter returns a formatter for the given agent with a frozen clock,
// so repeated runs produce byte-identical envelopes.
func TestFormatter(agent string) *envelope.Formatter {
	return envelope.NewFormatter(envelope.FormatterConfig{
		AgentID:       agent,
		BlueprintID:   "test-blueprint",
		SchemaVersion: registry.Default().SchemaVersion(),
		Clock:         FixedClock(),
	})
}

// TestEnvelope returns a canonical envelope that passes the built-in rule
// set: registered source scope, well-formed process identifier, and a
// payload free of reserved keys.
func TestEnvelope(t *testing.T) envelope.Envelope {
	t.Helper()

	payload := envelope.MapValue(map[string]envelope.Value{
		"owner":    envelope.StringValue("doctrine-team"),
		"title":    envelope.StringValue("client onboarding sequence"),
		"revision": envelope.IntValue(3),
	})
	return TestFormatter("doctrinetest").ToEnvelope("1.5.3.30.0", "20.doctrine.validate.execute", payload)
}

// TestEnforcer returns an enforcer over the built-in catalog and rule set,
// attributed to the given caller.
func TestEnforcer(caller string) *compliance.Enforcer {
	return compliance.NewEnforcer(compliance.Config{
		Registry: registry.Default(),
		Caller:   caller,
	})
}
