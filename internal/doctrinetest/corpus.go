package doctrinetest

import (
	"os"
	"path/filepath"
	"testing"

	"barton-hq/meridian/pkg/audit"
	"barton-hq/meridian/pkg/compliance"
)

// ValidCorpus is a corpus document every built-in rule accepts.
const ValidCorpus = `identifiers:
  - 1.5.3.30.0
  - 1.3.12.40.0
  - code: 2.1.0.0.1
    siblings: [0]
  - code: 20.orchestration.render.execute
    grammar: udns

envelopes:
  - sourceId: 1.3.5.10.0
    processId: 20.doctrine.validate.execute
    validated: true
    executionSignature: 4f1c3a9e2b8d7c6054e1f0a9b8c7d6e5f4a3b2c1d0e9f8a7b6c5d4e3f2a1b0c9
    lastTouched: 2026-08-01T12:00:00Z
    payload:
      owner: doctrine-team
      title: client onboarding sequence
      revision: 3
`

// DefectiveCorpus is a corpus document that fails structural and lineage
// rules: an unregistered sub-hive, a section outside every range, and a
// promotion claim with no upstream reference.
const DefectiveCorpus = `identifiers:
  - 1.6.3.30.0
  - 1.5.3.50.0

envelopes:
  - sourceId: 1.5.3.30.0
    processId: 20.doctrine.promote.execute
    validated: false
    promotedTo: vault
    executionSignature: 4f1c3a9e2b8d7c6054e1f0a9b8c7d6e5f4a3b2c1d0e9f8a7b6c5d4e3f2a1b0c9
    lastTouched: 2026-08-01T12:00:00Z
    payload:
      owner: doctrine-team
`

// WarningCorpus is a corpus document that draws advisories but no errors:
// its only identifier opens a sequence scope at 3.
const WarningCorpus = `identifiers:
  - 1.5.3.40.3
`

// WriteCorpus writes a corpus document under dir and returns its path.
func WriteCorpus(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing corpus file %s: %v", name, err)
	}
	return path
}

// LoadSubjects writes the document to a temp file, loads it through the
// corpus loader, and returns the enforcement subjects.
func LoadSubjects(t *testing.T, content string) []compliance.Subject {
	t.Helper()

	path := WriteCorpus(t, t.TempDir(), "corpus.yaml", content)
	subjects, err := audit.LoadSources([]string{path})
	if err != nil {
		t.Fatalf("loading corpus: %v", err)
	}
	return subjects
}
