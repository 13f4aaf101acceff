package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func resetAuditFlags() {
	auditFlags.registry = ""
	auditFlags.schedule = ""
	auditFlags.export = ""
	auditFlags.out = ""
}

func TestRunAuditOneShot(t *testing.T) {
	resetAuditFlags()
	out := filepath.Join(t.TempDir(), "record.json")
	auditFlags.out = out

	err := runAudit(nil, []string{"testdata/valid-corpus.yaml"})
	if err != nil {
		t.Fatalf("runAudit() returned error: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}

	var record map[string]any
	if err := json.Unmarshal(data, &record); err != nil {
		t.Fatalf("run record is not valid JSON: %v", err)
	}

	id, ok := record["id"].(string)
	if !ok {
		t.Fatalf("run record id = %v, want string", record["id"])
	}
	if _, err := uuid.Parse(id); err != nil {
		t.Errorf("run record id %q is not a UUID: %v", id, err)
	}

	report, ok := record["report"].(map[string]any)
	if !ok {
		t.Fatalf("run record report = %v, want object", record["report"])
	}
	if report["status"] != "PASS" {
		t.Errorf("report status = %v, want PASS", report["status"])
	}

	sources, ok := record["sources"].([]any)
	if !ok || len(sources) != 1 {
		t.Errorf("run record sources = %v, want one entry", record["sources"])
	}
}

func TestRunAuditRecordsFailures(t *testing.T) {
	resetAuditFlags()
	out := filepath.Join(t.TempDir(), "record.json")
	auditFlags.out = out

	// A defective corpus is still a completed run; the failure lives in
	// the record, not the exit code. The gate command is the enforcement
	// point.
	err := runAudit(nil, []string{"testdata/defective-corpus.yaml"})
	if err != nil {
		t.Fatalf("runAudit() over defective corpus returned error: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	var record map[string]any
	if err := json.Unmarshal(data, &record); err != nil {
		t.Fatal(err)
	}
	report := record["report"].(map[string]any)
	if report["status"] != "FAIL" {
		t.Errorf("report status = %v, want FAIL", report["status"])
	}
}

func TestRunAuditCSVExport(t *testing.T) {
	resetAuditFlags()
	out := filepath.Join(t.TempDir(), "audit.csv")
	auditFlags.export = "csv"
	auditFlags.out = out

	err := runAudit(nil, []string{"testdata/defective-corpus.yaml"})
	if err != nil {
		t.Fatalf("runAudit() with CSV export returned error: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) < 2 {
		t.Fatalf("CSV export has %d lines, want header plus findings", len(lines))
	}
	if !strings.HasPrefix(lines[0], "caller,registry_version,status") {
		t.Errorf("CSV header = %q, want caller,registry_version,status,...", lines[0])
	}
	if !strings.Contains(lines[1], "FAIL") {
		t.Errorf("CSV finding row %q should carry the FAIL status", lines[1])
	}
}

func TestRunAuditNoSources(t *testing.T) {
	resetAuditFlags()

	err := runAudit(nil, []string{t.TempDir()})
	if err == nil {
		t.Error("runAudit() over an empty directory should return error")
	}
}

func TestRunAuditUnknownExportFormat(t *testing.T) {
	resetAuditFlags()
	auditFlags.export = "xml"

	err := runAudit(nil, []string{"testdata/valid-corpus.yaml"})
	if err == nil {
		t.Error("runAudit() with unknown export format should return error")
	}
}

func TestRunAuditUnloadableCorpus(t *testing.T) {
	resetAuditFlags()

	tmpDir := t.TempDir()
	corpus := filepath.Join(tmpDir, "broken.yaml")
	// Unknown top-level keys are shape defects and abort the run
	if err := os.WriteFile(corpus, []byte("doctrine:\n  - 1.5.3.30.0\n"), 0644); err != nil {
		t.Fatal(err)
	}

	err := runAudit(nil, []string{corpus})
	if err == nil {
		t.Error("runAudit() with unloadable corpus should return error")
	}
}

func TestRunAuditInvalidSchedule(t *testing.T) {
	resetAuditFlags()
	auditFlags.schedule = "not a cron line"

	err := runAudit(nil, []string{"testdata/valid-corpus.yaml"})
	if err == nil {
		t.Error("runAudit() with invalid cron schedule should return error")
	}
}
