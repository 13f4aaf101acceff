package numbering

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// canonicalIntPattern matches a non-negative integer in canonical decimal
// form: no sign, no leading zeros, no blanks. Canonical form is what makes
// parse and String exact inverses of each other.
var canonicalIntPattern = regexp.MustCompile(`^(0|[1-9][0-9]*)$`)

// Parse parses raw as an identifier under the given grammar.
//
// The segment count must match the grammar's fixed arity and every numeric
// segment must be in canonical decimal form. On failure Parse returns a
// *Error of type ErrorTypeMalformedIdentifier and the zero Identifier; it
// never returns a partially populated one. UDNS module, submodule, and
// action tokens are stored as written; their non-emptiness is checked by
// the Validator, not here.
func Parse(raw string, grammar Grammar) (Identifier, error) {
	if !grammar.Valid() {
		return Identifier{}, &Error{
			Type:       ErrorTypeMalformedIdentifier,
			Severity:   SeverityError,
			Message:    fmt.Sprintf("unknown grammar %q", string(grammar)),
			Identifier: raw,
			Segment:    -1,
		}
	}

	if raw == "" {
		return Identifier{}, malformed(raw, grammar, -1, "identifier is empty")
	}

	segments := strings.Split(raw, ".")
	if len(segments) != grammar.Arity() {
		return Identifier{}, malformed(raw, grammar, -1,
			fmt.Sprintf("expected %d segments, got %d", grammar.Arity(), len(segments)))
	}

	id := Identifier{grammar: grammar}

	switch grammar {
	case GrammarBarton:
		for i, seg := range segments {
			n, err := parseSegmentInt(seg)
			if err != nil {
				return Identifier{}, malformed(raw, grammar, i,
					fmt.Sprintf("%s segment %q is not a canonical non-negative integer", grammar.SegmentName(i), seg))
			}
			id.nums[i] = n
		}

	case GrammarUDNS:
		n, err := parseSegmentInt(segments[0])
		if err != nil {
			return Identifier{}, malformed(raw, grammar, 0,
				fmt.Sprintf("altitude segment %q is not a canonical non-negative integer", segments[0]))
		}
		id.nums[0] = n
		copy(id.tokens[:], segments[1:])
	}

	return id, nil
}

// MustParse is like Parse but panics on malformed input. It is intended
// for fixtures and static identifiers known to be well formed.
func MustParse(raw string, grammar Grammar) Identifier {
	id, err := Parse(raw, grammar)
	if err != nil {
		panic(fmt.Sprintf("numbering: MustParse(%q, %s): %v", raw, grammar, err))
	}
	return id
}

// parseSegmentInt parses a canonical non-negative integer segment.
func parseSegmentInt(seg string) (int, error) {
	if !canonicalIntPattern.MatchString(seg) {
		return 0, fmt.Errorf("non-canonical segment %q", seg)
	}
	return strconv.Atoi(seg)
}

// malformed builds the parse-time error with a format suggestion.
func malformed(raw string, grammar Grammar, segment int, message string) *Error {
	return &Error{
		Type:       ErrorTypeMalformedIdentifier,
		Severity:   SeverityError,
		Message:    message,
		Identifier: raw,
		Segment:    segment,
		Suggestion: fmt.Sprintf("Expected format: %s", grammar.Pattern()),
	}
}
