package registry

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"
)

// schemaVersionConstraint gates which registry sources this build accepts.
// Minor revisions of the 1.x catalog format stay loadable; a 2.x source
// needs a newer build.
const schemaVersionConstraint = "^1"

// Default bounds for the sub-sub-hive segment when the source omits the
// sub_sub_hive section.
const (
	defaultSubSubMin = 0
	defaultSubSubMax = 99
)

// yamlRegistry mirrors the registry source document.
type yamlRegistry struct {
	SchemaVersion string         `yaml:"schema_version"`
	Databases     []yamlDatabase `yaml:"databases"`
	SubSubHive    *yamlRange     `yaml:"sub_sub_hive"`
	Sections      []yamlSection  `yaml:"sections"`
	Altitudes     []yamlAltitude `yaml:"altitudes"`
}

type yamlDatabase struct {
	Code     int           `yaml:"code"`
	Name     string        `yaml:"name"`
	SubHives []yamlSubHive `yaml:"sub_hives"`

	line int
}

// UnmarshalYAML decodes the database entry and keeps its source line for
// load diagnostics.
func (d *yamlDatabase) UnmarshalYAML(value *yaml.Node) error {
	type plain yamlDatabase
	var p plain
	if err := value.Decode(&p); err != nil {
		return err
	}
	*d = yamlDatabase(p)
	d.line = value.Line
	return nil
}

type yamlSubHive struct {
	Code int    `yaml:"code"`
	Name string `yaml:"name"`

	line int
}

func (s *yamlSubHive) UnmarshalYAML(value *yaml.Node) error {
	type plain yamlSubHive
	var p plain
	if err := value.Decode(&p); err != nil {
		return err
	}
	*s = yamlSubHive(p)
	s.line = value.Line
	return nil
}

type yamlRange struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`

	line int
}

func (r *yamlRange) UnmarshalYAML(value *yaml.Node) error {
	type plain yamlRange
	var p plain
	if err := value.Decode(&p); err != nil {
		return err
	}
	*r = yamlRange(p)
	r.line = value.Line
	return nil
}

type yamlSection struct {
	Min      int    `yaml:"min"`
	Max      int    `yaml:"max"`
	Category string `yaml:"category"`

	line int
}

func (s *yamlSection) UnmarshalYAML(value *yaml.Node) error {
	type plain yamlSection
	var p plain
	if err := value.Decode(&p); err != nil {
		return err
	}
	*s = yamlSection(p)
	s.line = value.Line
	return nil
}

type yamlAltitude struct {
	Code int    `yaml:"code"`
	Name string `yaml:"name"`

	line int
}

func (a *yamlAltitude) UnmarshalYAML(value *yaml.Node) error {
	type plain yamlAltitude
	var p plain
	if err := value.Decode(&p); err != nil {
		return err
	}
	*a = yamlAltitude(p)
	a.line = value.Line
	return nil
}

// Load reads and parses a registry source file. Any structural defect
// aborts the load with a *LoadError.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Message: "reading registry source", Err: err}
	}
	reg, err := Parse(data)
	if err != nil {
		if le, ok := err.(*LoadError); ok {
			le.Path = path
			return nil, le
		}
		return nil, err
	}
	return reg, nil
}

// Parse parses a registry source from memory. Unknown fields, duplicate
// codes, overlapping section ranges, and non-monotonic bounds all fail the
// load; a registry is either fully valid or not loaded at all.
func Parse(data []byte) (*Registry, error) {
	var doc yamlRegistry
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, &LoadError{Message: "registry source is empty"}
		}
		return nil, &LoadError{Message: "parsing registry YAML", Err: err}
	}

	if err := checkSchemaVersion(doc.SchemaVersion); err != nil {
		return nil, err
	}

	reg := &Registry{
		schemaVersion: doc.SchemaVersion,
		subSubMin:     defaultSubSubMin,
		subSubMax:     defaultSubSubMax,
	}

	if err := buildDatabases(doc.Databases, reg); err != nil {
		return nil, err
	}
	if err := buildSubSubHive(doc.SubSubHive, reg); err != nil {
		return nil, err
	}
	if err := buildSections(doc.Sections, reg); err != nil {
		return nil, err
	}
	if err := buildAltitudes(doc.Altitudes, reg); err != nil {
		return nil, err
	}

	reg.finalize()
	return reg, nil
}

// checkSchemaVersion enforces the semver compatibility gate.
func checkSchemaVersion(version string) error {
	if version == "" {
		return &LoadError{Message: "missing required field 'schema_version'"}
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return &LoadError{
			Message: fmt.Sprintf("schema_version %q is not a semantic version", version),
			Err:     err,
		}
	}
	constraint, err := semver.NewConstraint(schemaVersionConstraint)
	if err != nil {
		return &LoadError{Message: "internal schema version constraint is invalid", Err: err}
	}
	if !constraint.Check(v) {
		return &LoadError{
			Message: fmt.Sprintf("schema_version %q is not supported (requires %s)", version, schemaVersionConstraint),
		}
	}
	return nil
}

func buildDatabases(docs []yamlDatabase, reg *Registry) error {
	if len(docs) == 0 {
		return &LoadError{Message: "registry must declare at least one database"}
	}

	seen := make(map[int]bool)
	for _, d := range docs {
		if d.Code <= 0 {
			return &LoadError{Line: d.line, Message: fmt.Sprintf("database code %d must be positive", d.Code)}
		}
		if d.Name == "" {
			return &LoadError{Line: d.line, Message: fmt.Sprintf("database %d is missing a name", d.Code)}
		}
		if seen[d.Code] {
			return &LoadError{Line: d.line, Message: fmt.Sprintf("duplicate database code %d", d.Code)}
		}
		seen[d.Code] = true

		db := Database{Code: d.Code, Name: d.Name}
		hiveSeen := make(map[int]bool)
		for _, h := range d.SubHives {
			if h.Code < 0 {
				return &LoadError{Line: h.line, Message: fmt.Sprintf("sub-hive code %d under database %d must be non-negative", h.Code, d.Code)}
			}
			if h.Name == "" {
				return &LoadError{Line: h.line, Message: fmt.Sprintf("sub-hive %d under database %d is missing a name", h.Code, d.Code)}
			}
			if hiveSeen[h.Code] {
				return &LoadError{Line: h.line, Message: fmt.Sprintf("duplicate sub-hive code %d under database %d", h.Code, d.Code)}
			}
			hiveSeen[h.Code] = true
			db.SubHives = append(db.SubHives, SubHive{Code: h.Code, Name: h.Name})
		}
		reg.databases = append(reg.databases, db)
	}
	return nil
}

func buildSubSubHive(rng *yamlRange, reg *Registry) error {
	if rng == nil {
		return nil
	}
	if rng.Min < 0 {
		return &LoadError{Line: rng.line, Message: fmt.Sprintf("sub_sub_hive min %d must be non-negative", rng.Min)}
	}
	if rng.Min > rng.Max {
		return &LoadError{Line: rng.line, Message: fmt.Sprintf("sub_sub_hive range %d-%d is non-monotonic", rng.Min, rng.Max)}
	}
	reg.subSubMin = rng.Min
	reg.subSubMax = rng.Max
	return nil
}

func buildSections(docs []yamlSection, reg *Registry) error {
	if len(docs) == 0 {
		return &LoadError{Message: "registry must declare at least one section range"}
	}

	for _, s := range docs {
		if s.Category == "" {
			return &LoadError{Line: s.line, Message: fmt.Sprintf("section range %d-%d is missing a category", s.Min, s.Max)}
		}
		if s.Min < 0 {
			return &LoadError{Line: s.line, Message: fmt.Sprintf("section range for %q starts below 0", s.Category)}
		}
		if s.Min > s.Max {
			return &LoadError{Line: s.line, Message: fmt.Sprintf("section range %d-%d for %q is non-monotonic", s.Min, s.Max, s.Category)}
		}
		reg.sections = append(reg.sections, SectionRange{Min: s.Min, Max: s.Max, Category: s.Category})
	}

	// Overlap check over the sorted ranges. Sorting here keeps the check
	// independent of declaration order; finalize sorts again for the
	// canonical catalog.
	sorted := append([]SectionRange(nil), reg.sections...)
	for i := 0; i < len(sorted); i++ {
		for j := i + 1; j < len(sorted); j++ {
			if sorted[j].Min < sorted[i].Min {
				sorted[i], sorted[j] = sorted[j], sorted[i]
			}
		}
	}
	for i := 1; i < len(sorted); i++ {
		prev, cur := sorted[i-1], sorted[i]
		if cur.Min <= prev.Max {
			return &LoadError{
				Message: fmt.Sprintf("section ranges overlap: %d-%d (%s) and %d-%d (%s)",
					prev.Min, prev.Max, prev.Category, cur.Min, cur.Max, cur.Category),
			}
		}
	}
	return nil
}

func buildAltitudes(docs []yamlAltitude, reg *Registry) error {
	seen := make(map[int]bool)
	for _, a := range docs {
		if a.Code <= 0 {
			return &LoadError{Line: a.line, Message: fmt.Sprintf("altitude code %d must be positive", a.Code)}
		}
		if a.Name == "" {
			return &LoadError{Line: a.line, Message: fmt.Sprintf("altitude %d is missing a name", a.Code)}
		}
		if seen[a.Code] {
			return &LoadError{Line: a.line, Message: fmt.Sprintf("duplicate altitude code %d", a.Code)}
		}
		seen[a.Code] = true
		reg.altitudes = append(reg.altitudes, Altitude{Code: a.Code, Name: a.Name})
	}
	return nil
}
