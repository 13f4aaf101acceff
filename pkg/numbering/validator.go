package numbering

import (
	"fmt"
	"sort"
	"strings"

	"barton-hq/meridian/pkg/registry"
)

// Validator checks parsed identifiers against a schema registry. It holds
// only the registry reference and is safe for concurrent use.
type Validator struct {
	registry *registry.Registry
}

// NewValidator creates a validator bound to the given registry.
func NewValidator(reg *registry.Registry) *Validator {
	return &Validator{registry: reg}
}

// Validate checks every segment of id and returns the accumulated findings.
//
// Checks run in order: segment form, registry permission per position, and
// finally sequence assignment against the caller-supplied sibling
// sequences for the identifier's scope. Nothing short-circuits; every
// violation lands in the returned list. Passing nil siblings means the
// scope has never been seen, in which case sequence 0 is clean and any
// other sequence draws an advisory warning.
func (v *Validator) Validate(id Identifier, siblings []int) *ErrorList {
	errors := NewErrorList()

	if id.IsZero() {
		errors.AddError(
			ErrorTypeMalformedIdentifier,
			"identifier was not produced by a successful parse",
			"", -1,
		)
		return errors
	}

	switch id.Grammar() {
	case GrammarBarton:
		v.validateBarton(id, errors)
		v.validateSequence(id, siblings, errors)
	case GrammarUDNS:
		v.validateUDNS(id, errors)
	}

	return errors
}

// ValidateStructure checks every segment of id against the registry but
// skips the sequence advisories. Use it for identifiers that reference an
// existing doctrine node rather than author a new one; references carry
// whatever sequence the node was assigned, so the monotonicity advisories
// do not apply to them.
func (v *Validator) ValidateStructure(id Identifier) *ErrorList {
	errors := NewErrorList()

	if id.IsZero() {
		errors.AddError(
			ErrorTypeMalformedIdentifier,
			"identifier was not produced by a successful parse",
			"", -1,
		)
		return errors
	}

	switch id.Grammar() {
	case GrammarBarton:
		v.validateBarton(id, errors)
	case GrammarUDNS:
		v.validateUDNS(id, errors)
	}

	return errors
}

// validateBarton checks the four leading Barton segments against the
// registry. The sequence segment is handled by validateSequence.
func (v *Validator) validateBarton(id Identifier, errors *ErrorList) {
	raw := id.String()

	// Database must be a registered code.
	if _, ok := v.registry.Database(id.Database()); !ok {
		errors.AddErrorWithSuggestion(
			ErrorTypeSegmentOutOfRange,
			fmt.Sprintf("database %d is not a registered database", id.Database()),
			raw, 0,
			suggestDatabases(v.registry),
		)
	} else {
		// Sub-hive must be registered under its database. This check only
		// makes sense once the database itself resolved.
		subHives, _ := v.registry.SubHives(id.Database())
		if !containsSubHive(subHives, id.SubHive()) {
			errors.AddErrorWithSuggestion(
				ErrorTypeUnknownScope,
				fmt.Sprintf("sub-hive %d is not registered under database %d", id.SubHive(), id.Database()),
				raw, 1,
				suggestSubHives(id.Database(), subHives),
			)
		}
	}

	// Sub-sub-hive must fall inside the registry range.
	min, max := v.registry.SubSubHiveRange()
	if id.SubSubHive() < min || id.SubSubHive() > max {
		errors.AddErrorWithSuggestion(
			ErrorTypeSegmentOutOfRange,
			fmt.Sprintf("sub-sub-hive %d is outside the permitted range %d-%d", id.SubSubHive(), min, max),
			raw, 2,
			fmt.Sprintf("Use a value between %d and %d", min, max),
		)
	}

	// Section must belong to a registered category range.
	if _, ok := v.registry.CategoryFor(id.Section()); !ok {
		errors.AddErrorWithSuggestion(
			ErrorTypeSegmentOutOfRange,
			fmt.Sprintf("section %d is outside every registered category range", id.Section()),
			raw, 3,
			suggestSections(v.registry),
		)
	}
}

// validateUDNS checks the altitude level and token segments.
func (v *Validator) validateUDNS(id Identifier, errors *ErrorList) {
	raw := id.String()

	if _, ok := v.registry.Altitude(id.Altitude()); !ok {
		errors.AddErrorWithSuggestion(
			ErrorTypeSegmentOutOfRange,
			fmt.Sprintf("altitude %d is not a registered level", id.Altitude()),
			raw, 0,
			suggestAltitudes(v.registry),
		)
	}

	tokens := []struct {
		value    string
		position int
	}{
		{id.Module(), 1},
		{id.Submodule(), 2},
		{id.Action(), 3},
	}
	for _, tok := range tokens {
		if tok.value == "" {
			errors.AddError(
				ErrorTypeSegmentOutOfRange,
				fmt.Sprintf("%s token is empty", id.Grammar().SegmentName(tok.position)),
				raw, tok.position,
			)
		}
	}
}

// validateSequence checks the terminal sequence segment against the known
// sibling sequences of the identifier's scope.
//
// Only a duplicate is an error. Everything else is advisory so concurrent
// authors never block each other: a sequence whose predecessor is missing
// draws a gap warning, and a nonzero sequence opening a fresh scope draws
// an expected-zero warning. Sequence 0 never needs a predecessor, and an
// identifier that fills an existing gap is clean.
func (v *Validator) validateSequence(id Identifier, siblings []int, errors *ErrorList) {
	raw := id.String()
	seq := id.Sequence()

	for _, s := range siblings {
		if s == seq {
			errors.AddErrorWithSuggestion(
				ErrorTypeSequenceConflict,
				fmt.Sprintf("sequence %d is already assigned in scope %s", seq, id.Scope()),
				raw, 4,
				fmt.Sprintf("Next free sequence is %d", nextFree(siblings)),
			)
			return
		}
	}

	if seq == 0 {
		return
	}
	if len(siblings) == 0 {
		errors.AddWarning(
			ErrorTypeSequenceOrder,
			fmt.Sprintf("sequence %d starts new scope %s; expected 0", seq, id.Scope()),
			raw, 4,
		)
		return
	}
	if !containsInt(siblings, seq-1) {
		errors.AddWarning(
			ErrorTypeSequenceOrder,
			fmt.Sprintf("sequence %d leaves a gap in scope %s (no sequence %d assigned)", seq, id.Scope(), seq-1),
			raw, 4,
		)
	}
}

// containsInt reports whether n appears in values.
func containsInt(values []int, n int) bool {
	for _, v := range values {
		if v == n {
			return true
		}
	}
	return false
}

// nextFree returns the smallest sequence value not present in siblings.
func nextFree(siblings []int) int {
	used := make(map[int]bool, len(siblings))
	for _, s := range siblings {
		used[s] = true
	}
	for n := 0; ; n++ {
		if !used[n] {
			return n
		}
	}
}

// containsSubHive reports whether the sub-hive code appears in the list.
func containsSubHive(subHives []registry.SubHive, code int) bool {
	for _, sh := range subHives {
		if sh.Code == code {
			return true
		}
	}
	return false
}

// suggestDatabases lists the registered database codes with their names.
func suggestDatabases(reg *registry.Registry) string {
	dbs := reg.Databases()
	if len(dbs) == 0 {
		return ""
	}
	parts := make([]string, len(dbs))
	for i, db := range dbs {
		parts[i] = fmt.Sprintf("%d (%s)", db.Code, db.Name)
	}
	return fmt.Sprintf("Registered databases: %s", strings.Join(parts, ", "))
}

// suggestSubHives lists the sub-hive codes registered under a database.
func suggestSubHives(database int, subHives []registry.SubHive) string {
	if len(subHives) == 0 {
		return fmt.Sprintf("Database %d has no registered sub-hives", database)
	}
	codes := make([]int, len(subHives))
	for i, sh := range subHives {
		codes[i] = sh.Code
	}
	sort.Ints(codes)
	if len(codes) > 1 && codes[len(codes)-1]-codes[0] == len(codes)-1 {
		return fmt.Sprintf("Valid range under database %d: %d-%d", database, codes[0], codes[len(codes)-1])
	}
	parts := make([]string, len(codes))
	for i, c := range codes {
		parts[i] = fmt.Sprintf("%d", c)
	}
	return fmt.Sprintf("Valid sub-hives under database %d: %s", database, strings.Join(parts, ", "))
}

// suggestSections lists the registered section category ranges.
func suggestSections(reg *registry.Registry) string {
	sections := reg.Sections()
	if len(sections) == 0 {
		return ""
	}
	parts := make([]string, len(sections))
	for i, s := range sections {
		parts[i] = fmt.Sprintf("%d-%d (%s)", s.Min, s.Max, s.Category)
	}
	return fmt.Sprintf("Registered sections: %s", strings.Join(parts, ", "))
}

// suggestAltitudes lists the registered altitude levels.
func suggestAltitudes(reg *registry.Registry) string {
	alts := reg.Altitudes()
	if len(alts) == 0 {
		return ""
	}
	parts := make([]string, len(alts))
	for i, a := range alts {
		parts[i] = fmt.Sprintf("%d (%s)", a.Code, a.Name)
	}
	return fmt.Sprintf("Registered altitudes: %s", strings.Join(parts, ", "))
}
