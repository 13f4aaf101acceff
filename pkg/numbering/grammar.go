package numbering

import "fmt"

// Grammar selects one of the identifier grammar variants.
type Grammar string

const (
	// GrammarBarton is the five-segment numeric form:
	// database.subHive.subSubHive.section.sequence
	GrammarBarton Grammar = "barton"
	// GrammarUDNS is the four-segment form:
	// altitude.module.submodule.action
	GrammarUDNS Grammar = "udns"
)

// Segment names per grammar, in position order. These appear in error
// messages and must stay aligned with the parse order.
var (
	bartonSegmentNames = [5]string{"database", "subHive", "subSubHive", "section", "sequence"}
	udnsSegmentNames   = [4]string{"altitude", "module", "submodule", "action"}
)

// Arity returns the fixed segment count of the grammar, or 0 if the
// grammar is not recognized.
func (g Grammar) Arity() int {
	switch g {
	case GrammarBarton:
		return 5
	case GrammarUDNS:
		return 4
	default:
		return 0
	}
}

// Valid reports whether g is a recognized grammar variant.
func (g Grammar) Valid() bool {
	return g == GrammarBarton || g == GrammarUDNS
}

// SegmentName returns the name of the segment at the given zero-based
// position, or "segment" if the position is out of range.
func (g Grammar) SegmentName(position int) string {
	switch g {
	case GrammarBarton:
		if position >= 0 && position < len(bartonSegmentNames) {
			return bartonSegmentNames[position]
		}
	case GrammarUDNS:
		if position >= 0 && position < len(udnsSegmentNames) {
			return udnsSegmentNames[position]
		}
	}
	return "segment"
}

// Pattern returns a human-readable template of the grammar, used in
// suggestions for malformed identifiers.
func (g Grammar) Pattern() string {
	switch g {
	case GrammarBarton:
		return "database.subHive.subSubHive.section.sequence"
	case GrammarUDNS:
		return "altitude.module.submodule.action"
	default:
		return ""
	}
}

// ParseGrammar converts a string (e.g. a CLI flag value) into a Grammar.
func ParseGrammar(s string) (Grammar, error) {
	switch Grammar(s) {
	case GrammarBarton:
		return GrammarBarton, nil
	case GrammarUDNS:
		return GrammarUDNS, nil
	default:
		return "", fmt.Errorf("unknown grammar %q (valid: %s, %s)", s, GrammarBarton, GrammarUDNS)
	}
}
