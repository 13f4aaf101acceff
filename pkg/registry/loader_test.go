package registry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const validSource = `
schema_version: "1.0.0"
databases:
  - code: 1
    name: command
    sub_hives:
      - code: 1
        name: clients
      - code: 2
        name: operations
  - code: 2
    name: marketing
    sub_hives:
      - code: 1
        name: campaigns
sub_sub_hive:
  min: 0
  max: 99
sections:
  - min: 0
    max: 9
    category: structure
  - min: 30
    max: 39
    category: compliance
altitudes:
  - code: 10
    name: ground
  - code: 20
    name: operational
`

func TestParseValidSource(t *testing.T) {
	reg, err := Parse([]byte(validSource))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if got := reg.SchemaVersion(); got != "1.0.0" {
		t.Errorf("SchemaVersion() = %q, want %q", got, "1.0.0")
	}
	if _, ok := reg.Database(2); !ok {
		t.Error("Database(2) ok = false, want true")
	}
	if got, ok := reg.CategoryFor(35); !ok || got != "compliance" {
		t.Errorf("CategoryFor(35) = %q, %v, want compliance, true", got, ok)
	}
	if _, ok := reg.Altitude(20); !ok {
		t.Error("Altitude(20) ok = false, want true")
	}
	if reg.Version() == "" {
		t.Error("Version() is empty after load")
	}
}

func TestParseStructuralDefects(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		wantMsg string
	}{
		{
			name:    "empty source",
			source:  "",
			wantMsg: "empty",
		},
		{
			name: "missing schema version",
			source: `
databases:
  - code: 1
    name: command
sections:
  - min: 0
    max: 49
    category: general
`,
			wantMsg: "schema_version",
		},
		{
			name: "invalid schema version",
			source: `
schema_version: "not-a-version"
databases:
  - code: 1
    name: command
sections:
  - min: 0
    max: 49
    category: general
`,
			wantMsg: "not a semantic version",
		},
		{
			name: "unsupported schema version",
			source: `
schema_version: "2.0.0"
databases:
  - code: 1
    name: command
sections:
  - min: 0
    max: 49
    category: general
`,
			wantMsg: "not supported",
		},
		{
			name: "no databases",
			source: `
schema_version: "1.0.0"
sections:
  - min: 0
    max: 49
    category: general
`,
			wantMsg: "at least one database",
		},
		{
			name: "duplicate database code",
			source: `
schema_version: "1.0.0"
databases:
  - code: 1
    name: command
  - code: 1
    name: shadow
sections:
  - min: 0
    max: 49
    category: general
`,
			wantMsg: "duplicate database code 1",
		},
		{
			name: "duplicate sub-hive code",
			source: `
schema_version: "1.0.0"
databases:
  - code: 1
    name: command
    sub_hives:
      - code: 1
        name: clients
      - code: 1
        name: shadow
sections:
  - min: 0
    max: 49
    category: general
`,
			wantMsg: "duplicate sub-hive code 1",
		},
		{
			name: "database without name",
			source: `
schema_version: "1.0.0"
databases:
  - code: 1
sections:
  - min: 0
    max: 49
    category: general
`,
			wantMsg: "missing a name",
		},
		{
			name: "non-monotonic section range",
			source: `
schema_version: "1.0.0"
databases:
  - code: 1
    name: command
sections:
  - min: 20
    max: 10
    category: backwards
`,
			wantMsg: "non-monotonic",
		},
		{
			name: "overlapping section ranges",
			source: `
schema_version: "1.0.0"
databases:
  - code: 1
    name: command
sections:
  - min: 0
    max: 20
    category: first
  - min: 15
    max: 30
    category: second
`,
			wantMsg: "overlap",
		},
		{
			name: "section without category",
			source: `
schema_version: "1.0.0"
databases:
  - code: 1
    name: command
sections:
  - min: 0
    max: 9
`,
			wantMsg: "missing a category",
		},
		{
			name: "no sections",
			source: `
schema_version: "1.0.0"
databases:
  - code: 1
    name: command
`,
			wantMsg: "at least one section",
		},
		{
			name: "duplicate altitude",
			source: `
schema_version: "1.0.0"
databases:
  - code: 1
    name: command
sections:
  - min: 0
    max: 49
    category: general
altitudes:
  - code: 10
    name: ground
  - code: 10
    name: shadow
`,
			wantMsg: "duplicate altitude code 10",
		},
		{
			name: "non-monotonic sub-sub-hive range",
			source: `
schema_version: "1.0.0"
databases:
  - code: 1
    name: command
sub_sub_hive:
  min: 50
  max: 10
sections:
  - min: 0
    max: 49
    category: general
`,
			wantMsg: "non-monotonic",
		},
		{
			name: "unknown field",
			source: `
schema_version: "1.0.0"
database_list:
  - code: 1
sections:
  - min: 0
    max: 49
    category: general
`,
			wantMsg: "parsing registry YAML",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.source))
			if err == nil {
				t.Fatal("Parse() error = nil, want *LoadError")
			}
			le, ok := err.(*LoadError)
			if !ok {
				t.Fatalf("Parse() error type = %T, want *LoadError", err)
			}
			if !strings.Contains(le.Error(), tt.wantMsg) {
				t.Errorf("Parse() error = %q, want it to mention %q", le.Error(), tt.wantMsg)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "registry.yaml")
	if err := os.WriteFile(path, []byte(validSource), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	reg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if _, ok := reg.Database(1); !ok {
		t.Error("Database(1) ok = false, want true")
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatal("Load() error = nil, want *LoadError")
	}
	le, ok := err.(*LoadError)
	if !ok {
		t.Fatalf("Load() error type = %T, want *LoadError", err)
	}
	if le.Path == "" {
		t.Error("LoadError.Path is empty, want the requested path")
	}
}

func TestLoadErrorCarriesPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	bad := `
schema_version: "1.0.0"
databases:
  - code: 1
    name: command
  - code: 1
    name: shadow
sections:
  - min: 0
    max: 49
    category: general
`
	if err := os.WriteFile(path, []byte(bad), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	_, err := Load(path)
	if err == nil {
		t.Fatal("Load() error = nil, want *LoadError")
	}
	if !strings.Contains(err.Error(), path) {
		t.Errorf("Load() error = %q, want it to carry the source path", err.Error())
	}
	if !strings.Contains(err.Error(), "duplicate database code") {
		t.Errorf("Load() error = %q, want the structural defect message", err.Error())
	}
}
