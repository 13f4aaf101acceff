//go:build integration

package integration

import (
	"errors"
	"strings"
	"testing"

	"barton-hq/meridian/internal/doctrinetest"
	"barton-hq/meridian/pkg/audit"
	"barton-hq/meridian/pkg/envelope"
	"barton-hq/meridian/pkg/numbering"
)

// TestHostileCorpusDocumentsAreRejected feeds deliberately broken corpus
// documents through the loader. Every one must come back as a CorpusError;
// none may load partially.
func TestHostileCorpusDocumentsAreRejected(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "broken yaml",
			content: "identifiers:\n\t- tabs are not yaml indentation",
		},
		{
			name:    "unknown top-level key",
			content: "doctrine:\n  - 1.5.3.30.0\n",
		},
		{
			name:    "identifiers as mapping",
			content: "identifiers:\n  first: 1.5.3.30.0\n",
		},
		{
			name:    "entry without code",
			content: "identifiers:\n  - siblings: [0, 1]\n",
		},
		{
			name:    "negative sibling sequence",
			content: "identifiers:\n  - code: 1.5.3.30.0\n    siblings: [-1]\n",
		},
		{
			name:    "unresolvable grammar",
			content: "identifiers:\n  - code: 1.5.3.30.0\n    grammar: morse\n",
		},
		{
			name:    "envelope with wrong field type",
			content: "envelopes:\n  - sourceId: 1.5.3.30.0\n    validated: sometimes\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := audit.ParseDocument([]byte(tt.content))
			if err == nil {
				t.Fatal("hostile document parsed cleanly")
			}
			var corpusErr *audit.CorpusError
			if !errors.As(err, &corpusErr) {
				t.Errorf("error type = %T, want *audit.CorpusError", err)
			}
		})
	}
}

// TestHostileIdentifiersSurfaceAsFindings sends malformed raw identifiers
// through enforcement. Each must produce error findings; none may panic or
// pass.
func TestHostileIdentifiersSurfaceAsFindings(t *testing.T) {
	raws := []string{
		"",
		".....",
		"1.5.3.30.0.",
		"+1.5.3.30.0",
		"01.5.3.30.0",
		"1.5.3. 30.0",
		"١.5.3.30.0",
		"1.5.3.30.0\x00",
		strings.Repeat("9", 10000) + ".5.3.30.0",
		"1.5.3.99999999999999999999.0",
	}

	report := doctrinetest.TestEnforcer("hostile-test").EvaluateIdentifiers(raws, numbering.GrammarBarton)
	if report.Passed() {
		t.Fatal("hostile identifier batch passed enforcement")
	}
	if report.Subjects != len(raws) {
		t.Errorf("subjects = %d, want %d", report.Subjects, len(raws))
	}
	for _, raw := range raws {
		if len(report.FindingsFor(raw)) == 0 {
			t.Errorf("no finding for hostile identifier %q", raw)
		}
	}
}

// TestHostilePayloadsStayContained checks that payloads designed to collide
// with backend columns or to nest absurdly deep neither corrupt records nor
// crash formatting.
func TestHostilePayloadsStayContained(t *testing.T) {
	formatter := doctrinetest.TestFormatter("hostile-test")

	t.Run("reserved key collision", func(t *testing.T) {
		payload := envelope.MapValue(map[string]envelope.Value{
			"task_id": envelope.StringValue("spoofed"),
		})
		env := formatter.ToEnvelope("1.5.3.30.0", "20.doctrine.assemble.execute", payload)
		_, err := formatter.FormatFor(env, envelope.TargetVault)
		var incompatible *envelope.IncompatibleFieldError
		if !errors.As(err, &incompatible) {
			t.Fatalf("error = %v, want *IncompatibleFieldError", err)
		}
		if incompatible.Key != "task_id" {
			t.Errorf("flagged key = %q, want task_id", incompatible.Key)
		}
	})

	t.Run("deeply nested payload", func(t *testing.T) {
		payload := envelope.StringValue("leaf")
		for i := 0; i < 1000; i++ {
			payload = envelope.MapValue(map[string]envelope.Value{"level": payload})
		}
		env := formatter.ToEnvelope("1.5.3.30.0", "20.doctrine.assemble.execute", payload)
		record, err := formatter.FormatFor(env, envelope.TargetStaging)
		if err != nil {
			t.Fatalf("FormatFor() error = %v", err)
		}
		// The payload stays contained under its own column; nesting must not
		// leak keys into the record's structural columns.
		fields := record.Fields()
		if _, ok := fields["level"]; ok {
			t.Error("nested payload key leaked into record fields")
		}
		if fields["payload"] == nil {
			t.Error("payload column is empty")
		}
	})
}
