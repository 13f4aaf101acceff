package audit

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"barton-hq/meridian/pkg/compliance"
	"barton-hq/meridian/pkg/numbering"
)

const testCorpus = `
identifiers:
  - 1.5.3.30.0
  - code: 30.workflow.email.dispatch
    grammar: udns
  - code: 2.1.0.0.3
    siblings: [0, 1, 2]
envelopes:
  - sourceId: 1.3.0.10.0
    processId: 20.orchestration.render.execute
    validated: false
    executionSignature: 9f2ce9d41c024b0f
    lastTouched: 2026-03-14T09:26:53Z
    payload:
      subject: quarterly digest
      weight: 0.8
`

func writeCorpus(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile(%s) error = %v", name, err)
	}
	return path
}

func TestParseDocument(t *testing.T) {
	doc, err := ParseDocument([]byte(testCorpus))
	if err != nil {
		t.Fatalf("ParseDocument() error = %v", err)
	}

	if len(doc.Identifiers) != 3 {
		t.Fatalf("Identifiers count = %d, want 3", len(doc.Identifiers))
	}
	if got := doc.Identifiers[0]; got.Code != "1.5.3.30.0" || got.Grammar != numbering.GrammarBarton {
		t.Errorf("bare entry = %+v, want barton 1.5.3.30.0", got)
	}
	if got := doc.Identifiers[1]; got.Code != "30.workflow.email.dispatch" || got.Grammar != numbering.GrammarUDNS {
		t.Errorf("udns entry = %+v, want udns form", got)
	}
	if got := doc.Identifiers[2]; !reflect.DeepEqual(got.Siblings, []int{0, 1, 2}) {
		t.Errorf("siblings = %v, want [0 1 2]", got.Siblings)
	}

	if len(doc.Envelopes) != 1 {
		t.Fatalf("Envelopes count = %d, want 1", len(doc.Envelopes))
	}
	env := doc.Envelopes[0].Envelope
	if env.SourceID != "1.3.0.10.0" {
		t.Errorf("envelope SourceID = %q, want %q", env.SourceID, "1.3.0.10.0")
	}
	if env.ExecutionSignature != "9f2ce9d41c024b0f" {
		t.Errorf("envelope ExecutionSignature = %q, want raw hex", env.ExecutionSignature)
	}
	if env.LastTouched.IsZero() {
		t.Error("envelope LastTouched is zero, want parsed timestamp")
	}
	if weight, ok := env.Payload.Get("weight"); !ok {
		t.Error("envelope payload missing weight key")
	} else if f, ok := weight.AsFloat(); !ok || f != 0.8 {
		t.Errorf("payload weight = %v, want float 0.8", weight)
	}
}

func TestParseDocumentEmpty(t *testing.T) {
	doc, err := ParseDocument(nil)
	if err != nil {
		t.Fatalf("ParseDocument(empty) error = %v", err)
	}
	if len(doc.Subjects()) != 0 {
		t.Errorf("Subjects() = %v, want none", doc.Subjects())
	}
}

func TestParseDocumentShapeDefects(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		wantMsg string
	}{
		{
			name:    "unknown top-level key",
			source:  "records:\n  - 1.2.3.40.5\n",
			wantMsg: "parsing corpus YAML",
		},
		{
			name:    "missing code",
			source:  "identifiers:\n  - grammar: udns\n",
			wantMsg: "missing a code",
		},
		{
			name:    "unknown grammar",
			source:  "identifiers:\n  - code: 1.2.3.40.5\n    grammar: dewey\n",
			wantMsg: "unknown grammar",
		},
		{
			name:    "negative sibling",
			source:  "identifiers:\n  - code: 2.1.0.0.1\n    siblings: [-1]\n",
			wantMsg: "negative sibling",
		},
		{
			name:    "envelope wrong shape",
			source:  "envelopes:\n  - just a string\n",
			wantMsg: "parsing corpus YAML",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDocument([]byte(tt.source))
			var corpusErr *CorpusError
			if !errors.As(err, &corpusErr) {
				t.Fatalf("ParseDocument() error = %v, want CorpusError", err)
			}
			if !strings.Contains(corpusErr.Error(), tt.wantMsg) {
				t.Errorf("error = %q, want substring %q", corpusErr.Error(), tt.wantMsg)
			}
		})
	}
}

func TestParseDocumentKeepsMalformedContent(t *testing.T) {
	// A machine-readable corpus with a broken identifier loads fine; the
	// defect belongs to the findings, not to the loader.
	doc, err := ParseDocument([]byte("identifiers:\n  - 1.2.3.40\n"))
	if err != nil {
		t.Fatalf("ParseDocument() error = %v", err)
	}
	subjects := doc.Subjects()
	if len(subjects) != 1 {
		t.Fatalf("Subjects() count = %d, want 1", len(subjects))
	}
	if subjects[0].ParseErr == nil {
		t.Error("subject ParseErr = nil, want parse failure carried into the subject")
	}
}

func TestDocumentSubjects(t *testing.T) {
	doc, err := ParseDocument([]byte(testCorpus))
	if err != nil {
		t.Fatalf("ParseDocument() error = %v", err)
	}

	subjects := doc.Subjects()
	if len(subjects) != 4 {
		t.Fatalf("Subjects() count = %d, want 4", len(subjects))
	}

	if subjects[0].Kind != compliance.SubjectIdentifier {
		t.Errorf("subjects[0].Kind = %v, want identifier", subjects[0].Kind)
	}
	if !reflect.DeepEqual(subjects[2].Siblings, []int{0, 1, 2}) {
		t.Errorf("subjects[2].Siblings = %v, want declared siblings", subjects[2].Siblings)
	}
	if subjects[3].Kind != compliance.SubjectEnvelope {
		t.Errorf("subjects[3].Kind = %v, want envelope", subjects[3].Kind)
	}
	if subjects[3].Envelope == nil || subjects[3].Envelope.ProcessID != "20.orchestration.render.execute" {
		t.Errorf("subjects[3].Envelope = %+v, want decoded envelope", subjects[3].Envelope)
	}
}

func TestLoadFileStampsPath(t *testing.T) {
	dir := t.TempDir()
	path := writeCorpus(t, dir, "broken.yaml", "identifiers:\n  - grammar: udns\n")

	_, err := LoadFile(path)
	var corpusErr *CorpusError
	if !errors.As(err, &corpusErr) {
		t.Fatalf("LoadFile() error = %v, want CorpusError", err)
	}
	if corpusErr.Path != path {
		t.Errorf("CorpusError.Path = %q, want %q", corpusErr.Path, path)
	}
	if corpusErr.Line == 0 {
		t.Error("CorpusError.Line = 0, want source line")
	}
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	var corpusErr *CorpusError
	if !errors.As(err, &corpusErr) {
		t.Fatalf("LoadFile() error = %v, want CorpusError", err)
	}
}

func TestLoadSources(t *testing.T) {
	dir := t.TempDir()
	first := writeCorpus(t, dir, "first.yaml", "identifiers:\n  - 1.5.3.30.0\n")
	second := writeCorpus(t, dir, "second.yaml", "identifiers:\n  - 2.4.0.20.0\n  - 2.4.0.20.1\n")

	subjects, err := LoadSources([]string{first, second})
	if err != nil {
		t.Fatalf("LoadSources() error = %v", err)
	}
	if len(subjects) != 3 {
		t.Fatalf("LoadSources() count = %d, want 3", len(subjects))
	}
	if subjects[0].Raw != "1.5.3.30.0" || subjects[2].Raw != "2.4.0.20.1" {
		t.Errorf("subjects out of path order: %v", subjects)
	}

	_, err = LoadSources([]string{first, filepath.Join(dir, "absent.yaml")})
	if err == nil {
		t.Error("LoadSources() with missing file error = nil, want error")
	}
}

func TestDiscover(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "doctrine", "deep"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(root, "notes"), 0o755); err != nil {
		t.Fatal(err)
	}
	a := writeCorpus(t, filepath.Join(root, "doctrine"), "a.yaml", "identifiers: []\n")
	b := writeCorpus(t, filepath.Join(root, "doctrine", "deep"), "b.yml", "identifiers: []\n")
	writeCorpus(t, filepath.Join(root, "notes"), "c.txt", "not a corpus")

	files, err := Discover(root, nil)
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	want := []string{a, b}
	if !reflect.DeepEqual(files, want) {
		t.Errorf("Discover() = %v, want %v", files, want)
	}
}

func TestDiscoverPatterns(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "doctrine"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(root, "drafts"), 0o755); err != nil {
		t.Fatal(err)
	}
	inScope := writeCorpus(t, filepath.Join(root, "doctrine"), "a.yaml", "identifiers: []\n")
	writeCorpus(t, filepath.Join(root, "drafts"), "b.yaml", "identifiers: []\n")

	files, err := Discover(root, []string{"doctrine/**/*.yaml"})
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if !reflect.DeepEqual(files, []string{inScope}) {
		t.Errorf("Discover() = %v, want only %v", files, inScope)
	}
}

func TestDiscoverFileRoot(t *testing.T) {
	dir := t.TempDir()
	path := writeCorpus(t, dir, "corpus.yaml", "identifiers: []\n")

	files, err := Discover(path, nil)
	if err != nil {
		t.Fatalf("Discover(file) error = %v", err)
	}
	if !reflect.DeepEqual(files, []string{path}) {
		t.Errorf("Discover(file) = %v, want the file itself", files)
	}
}

func TestDiscoverMissingRoot(t *testing.T) {
	_, err := Discover(filepath.Join(t.TempDir(), "absent"), nil)
	var corpusErr *CorpusError
	if !errors.As(err, &corpusErr) {
		t.Fatalf("Discover() error = %v, want CorpusError", err)
	}
}
