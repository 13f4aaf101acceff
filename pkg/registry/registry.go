package registry

import (
	"crypto/sha256"
	"fmt"
	"math"
	"sort"
)

// Position names a segment slot across both identifier grammars. The
// registry answers SegmentRule queries per position.
type Position string

const (
	PositionDatabase   Position = "database"
	PositionSubHive    Position = "sub_hive"
	PositionSubSubHive Position = "sub_sub_hive"
	PositionSection    Position = "section"
	PositionSequence   Position = "sequence"
	PositionAltitude   Position = "altitude"
	PositionModule     Position = "module"
	PositionSubmodule  Position = "submodule"
	PositionAction     Position = "action"
)

// SubHive is one registered sub-hive under a database.
type SubHive struct {
	Code int    `json:"code" yaml:"code"`
	Name string `json:"name" yaml:"name"`
}

// Database is one registered database with its sub-hives.
type Database struct {
	Code     int       `json:"code" yaml:"code"`
	Name     string    `json:"name" yaml:"name"`
	SubHives []SubHive `json:"subHives" yaml:"sub_hives"`
}

// SectionRange maps a contiguous section range to its category name.
type SectionRange struct {
	Min      int    `json:"min" yaml:"min"`
	Max      int    `json:"max" yaml:"max"`
	Category string `json:"category" yaml:"category"`
}

// Altitude is one registered UDNS altitude level.
type Altitude struct {
	Code int    `json:"code" yaml:"code"`
	Name string `json:"name" yaml:"name"`
}

// RuleKind describes the shape of a SegmentRule answer.
type RuleKind string

const (
	// RuleKindEnum permits exactly the listed values.
	RuleKindEnum RuleKind = "enum"
	// RuleKindRange permits any value between Min and Max inclusive.
	RuleKindRange RuleKind = "range"
	// RuleKindToken permits any non-empty token.
	RuleKindToken RuleKind = "token"
)

// SegmentRule is the registry's answer for one segment position: either
// an enumerated value set, an inclusive numeric range, or a token rule.
type SegmentRule struct {
	Position Position `json:"position"`
	Kind     RuleKind `json:"kind"`
	Values   []int    `json:"values,omitempty"` // enum kinds, ascending
	Min      int      `json:"min,omitempty"`    // range kinds, inclusive
	Max      int      `json:"max,omitempty"`    // range kinds, inclusive
}

// Registry is the immutable catalog of permitted identifier segments.
// Construct one via Load, Parse, or Default; after that it never changes
// and is safe for concurrent readers without locking.
type Registry struct {
	schemaVersion string
	databases     []Database
	subSubMin     int
	subSubMax     int
	sections      []SectionRange
	altitudes     []Altitude
	version       string
}

// SchemaVersion returns the declared schema version of the source.
func (r *Registry) SchemaVersion() string {
	return r.schemaVersion
}

// Databases returns the registered databases in ascending code order.
func (r *Registry) Databases() []Database {
	out := make([]Database, len(r.databases))
	for i, db := range r.databases {
		out[i] = db
		out[i].SubHives = append([]SubHive(nil), db.SubHives...)
	}
	return out
}

// Database returns the database registered under the given code.
func (r *Registry) Database(code int) (Database, bool) {
	for _, db := range r.databases {
		if db.Code == code {
			db.SubHives = append([]SubHive(nil), db.SubHives...)
			return db, true
		}
	}
	return Database{}, false
}

// SubHives returns the sub-hives registered under the given database code.
// The second result is false when the database itself is not registered.
func (r *Registry) SubHives(database int) ([]SubHive, bool) {
	for _, db := range r.databases {
		if db.Code == database {
			return append([]SubHive(nil), db.SubHives...), true
		}
	}
	return nil, false
}

// SubSubHiveRange returns the inclusive bounds of the sub-sub-hive segment.
func (r *Registry) SubSubHiveRange() (min, max int) {
	return r.subSubMin, r.subSubMax
}

// Sections returns the section category ranges in ascending order.
func (r *Registry) Sections() []SectionRange {
	return append([]SectionRange(nil), r.sections...)
}

// CategoryFor returns the category name that covers the given section
// value. The second result is false when no registered range covers it.
func (r *Registry) CategoryFor(section int) (string, bool) {
	for _, s := range r.sections {
		if section >= s.Min && section <= s.Max {
			return s.Category, true
		}
	}
	return "", false
}

// Altitudes returns the registered altitude levels in ascending code order.
func (r *Registry) Altitudes() []Altitude {
	return append([]Altitude(nil), r.altitudes...)
}

// Altitude returns the altitude level registered under the given code.
func (r *Registry) Altitude(code int) (Altitude, bool) {
	for _, a := range r.altitudes {
		if a.Code == code {
			return a, true
		}
	}
	return Altitude{}, false
}

// SegmentRule returns the permitted values or range for a segment
// position. PositionSubHive requires one context value, the database code
// the sub-hive sits under; the other positions are context-free.
//
// The section rule reports the overall bounds across every category range;
// exact membership for non-contiguous catalogs goes through CategoryFor.
func (r *Registry) SegmentRule(pos Position, context ...int) (SegmentRule, error) {
	switch pos {
	case PositionDatabase:
		values := make([]int, len(r.databases))
		for i, db := range r.databases {
			values[i] = db.Code
		}
		return SegmentRule{Position: pos, Kind: RuleKindEnum, Values: values}, nil

	case PositionSubHive:
		if len(context) < 1 {
			return SegmentRule{}, fmt.Errorf("sub-hive rule requires a database code context")
		}
		subHives, ok := r.SubHives(context[0])
		if !ok {
			return SegmentRule{}, fmt.Errorf("database %d is not registered", context[0])
		}
		values := make([]int, len(subHives))
		for i, sh := range subHives {
			values[i] = sh.Code
		}
		return SegmentRule{Position: pos, Kind: RuleKindEnum, Values: values}, nil

	case PositionSubSubHive:
		return SegmentRule{Position: pos, Kind: RuleKindRange, Min: r.subSubMin, Max: r.subSubMax}, nil

	case PositionSection:
		if len(r.sections) == 0 {
			return SegmentRule{}, fmt.Errorf("no section ranges are registered")
		}
		return SegmentRule{
			Position: pos,
			Kind:     RuleKindRange,
			Min:      r.sections[0].Min,
			Max:      r.sections[len(r.sections)-1].Max,
		}, nil

	case PositionSequence:
		// Sequences start at 0 and have no registry-imposed upper bound.
		return SegmentRule{Position: pos, Kind: RuleKindRange, Min: 0, Max: math.MaxInt}, nil

	case PositionAltitude:
		values := make([]int, len(r.altitudes))
		for i, a := range r.altitudes {
			values[i] = a.Code
		}
		return SegmentRule{Position: pos, Kind: RuleKindEnum, Values: values}, nil

	case PositionModule, PositionSubmodule, PositionAction:
		return SegmentRule{Position: pos, Kind: RuleKindToken}, nil

	default:
		return SegmentRule{}, fmt.Errorf("unknown segment position %q", string(pos))
	}
}

// Version returns the 16 character content version of the catalog.
// Identical content always yields an identical version.
func (r *Registry) Version() string {
	return r.version
}

// finalize sorts the catalog into canonical order and computes the
// content version. Called exactly once, before the registry is shared.
func (r *Registry) finalize() {
	sort.Slice(r.databases, func(i, j int) bool {
		return r.databases[i].Code < r.databases[j].Code
	})
	for i := range r.databases {
		sh := r.databases[i].SubHives
		sort.Slice(sh, func(a, b int) bool { return sh[a].Code < sh[b].Code })
	}
	sort.Slice(r.sections, func(i, j int) bool {
		return r.sections[i].Min < r.sections[j].Min
	})
	sort.Slice(r.altitudes, func(i, j int) bool {
		return r.altitudes[i].Code < r.altitudes[j].Code
	})

	r.version = r.contentVersion()
}

// contentVersion hashes the canonical catalog serialization down to a
// short stable identifier.
func (r *Registry) contentVersion() string {
	h := sha256.New()

	fmt.Fprintf(h, "schema:%s\n", r.schemaVersion)
	for _, db := range r.databases {
		fmt.Fprintf(h, "db:%d:%s\n", db.Code, db.Name)
		for _, sh := range db.SubHives {
			fmt.Fprintf(h, "hive:%d:%d:%s\n", db.Code, sh.Code, sh.Name)
		}
	}
	fmt.Fprintf(h, "subsub:%d:%d\n", r.subSubMin, r.subSubMax)
	for _, s := range r.sections {
		fmt.Fprintf(h, "section:%d:%d:%s\n", s.Min, s.Max, s.Category)
	}
	for _, a := range r.altitudes {
		fmt.Fprintf(h, "altitude:%d:%s\n", a.Code, a.Name)
	}

	return fmt.Sprintf("%x", h.Sum(nil))[:16]
}
