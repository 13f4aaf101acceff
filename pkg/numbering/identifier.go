package numbering

import (
	"strconv"
	"strings"
)

// Identifier is a parsed doctrine code. Identifiers are immutable value
// objects: once parsed they never change, and every accessor returns a copy.
//
// Barton identifiers carry five non-negative integers. UDNS identifiers
// carry an integer altitude and three raw tokens.
type Identifier struct {
	grammar Grammar
	nums    [5]int
	tokens  [3]string
}

// Grammar returns the grammar variant the identifier was parsed under.
func (id Identifier) Grammar() Grammar {
	return id.grammar
}

// Database returns the database segment of a Barton identifier.
// It returns 0 for non-Barton identifiers.
func (id Identifier) Database() int {
	if id.grammar != GrammarBarton {
		return 0
	}
	return id.nums[0]
}

// SubHive returns the sub-hive segment of a Barton identifier.
func (id Identifier) SubHive() int {
	if id.grammar != GrammarBarton {
		return 0
	}
	return id.nums[1]
}

// SubSubHive returns the sub-sub-hive segment of a Barton identifier.
func (id Identifier) SubSubHive() int {
	if id.grammar != GrammarBarton {
		return 0
	}
	return id.nums[2]
}

// Section returns the section segment of a Barton identifier.
func (id Identifier) Section() int {
	if id.grammar != GrammarBarton {
		return 0
	}
	return id.nums[3]
}

// Sequence returns the terminal sequence segment of a Barton identifier.
func (id Identifier) Sequence() int {
	if id.grammar != GrammarBarton {
		return 0
	}
	return id.nums[4]
}

// Altitude returns the altitude level of a UDNS identifier.
// It returns 0 for non-UDNS identifiers.
func (id Identifier) Altitude() int {
	if id.grammar != GrammarUDNS {
		return 0
	}
	return id.nums[0]
}

// Module returns the module token of a UDNS identifier.
func (id Identifier) Module() string {
	if id.grammar != GrammarUDNS {
		return ""
	}
	return id.tokens[0]
}

// Submodule returns the submodule token of a UDNS identifier.
func (id Identifier) Submodule() string {
	if id.grammar != GrammarUDNS {
		return ""
	}
	return id.tokens[1]
}

// Action returns the action token of a UDNS identifier.
func (id Identifier) Action() string {
	if id.grammar != GrammarUDNS {
		return ""
	}
	return id.tokens[2]
}

// Segments returns the textual segments in position order.
func (id Identifier) Segments() []string {
	switch id.grammar {
	case GrammarBarton:
		segs := make([]string, 5)
		for i, n := range id.nums {
			segs[i] = strconv.Itoa(n)
		}
		return segs
	case GrammarUDNS:
		return []string{
			strconv.Itoa(id.nums[0]),
			id.tokens[0],
			id.tokens[1],
			id.tokens[2],
		}
	default:
		return nil
	}
}

// String re-serializes the identifier with "." separators. For every
// string accepted by Parse, String returns exactly that input.
func (id Identifier) String() string {
	return strings.Join(id.Segments(), ".")
}

// Scope returns the dotted prefix that namespaces the terminal segment:
// for Barton identifiers the first four segments (the sequence namespace),
// for UDNS the first three. The zero Identifier has no scope.
func (id Identifier) Scope() string {
	segs := id.Segments()
	if len(segs) == 0 {
		return ""
	}
	return strings.Join(segs[:len(segs)-1], ".")
}

// IsZero reports whether the identifier is the zero value, i.e. was never
// produced by a successful Parse.
func (id Identifier) IsZero() bool {
	return id.grammar == ""
}
