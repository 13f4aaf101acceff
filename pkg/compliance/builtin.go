package compliance

import (
	"errors"
	"fmt"

	"barton-hq/meridian/pkg/envelope"
	"barton-hq/meridian/pkg/numbering"
)

// Built-in rule names. Findings carry these in their Rule field.
const (
	RuleStructural  = "structural"
	RuleOwnership   = "ownership"
	RuleLineage     = "lineage"
	RuleEnforcement = "enforcement"
)

// Payload keys the built-in rules read. Promoted envelopes reference the
// doctrine nodes they were derived from under upstreamKey; ownerKey names
// the party responsible for the payload.
const (
	upstreamKey = "upstream"
	ownerKey    = "owner"
)

// BuiltinRules returns the four standard rules in registration order.
func BuiltinRules() []Rule {
	return []Rule{
		StructuralRule(),
		OwnershipRule(),
		LineageRule(),
		EnforcementRule(),
	}
}

// StructuralRule checks identifier well-formedness. Bare identifiers get
// the full validation including sequence advisories; envelope identifiers
// are references and get structure-only validation for both the source and
// the process identifier. Envelope payloads must keep their top-level keys
// clear of the reserved backend column names.
func StructuralRule() Rule {
	return NewRule(RuleStructural, structuralViolations)
}

// OwnershipRule checks that an envelope names its origin: source, process,
// execution signature, and touch timestamp must all be present, and a
// payload owner key, when present, must be a non-empty string. Bare
// identifiers have no ownership fields and always pass.
func OwnershipRule() Rule {
	return NewRule(RuleOwnership, ownershipViolations)
}

// LineageRule checks promotion lineage. A promoted envelope must name a
// known backend target, must have been validated first, and must reference
// at least one upstream doctrine identifier under the payload "upstream"
// key. Unpromoted envelopes carry no lineage obligations.
func LineageRule() Rule {
	return NewRule(RuleLineage, lineageViolations)
}

// EnforcementRule checks consistency of the validated flag: an envelope
// marked validated must have no outstanding error findings from the other
// built-in checks. The rule recomputes those checks itself, so it holds
// regardless of which rules a run is configured with.
func EnforcementRule() Rule {
	return NewRule(RuleEnforcement, enforcementViolations)
}

func structuralViolations(ec *EvalContext, s Subject) []Violation {
	switch s.Kind {
	case SubjectIdentifier:
		if s.ParseErr != nil {
			return []Violation{parseViolation(s.ParseErr, "")}
		}
		list := ec.Validator().Validate(s.Identifier, ec.SiblingsFor(s.Identifier))
		return violationsFromList(list, "")

	case SubjectEnvelope:
		var out []Violation
		if s.ParseErr != nil {
			out = append(out, parseViolation(s.ParseErr, "source identifier"))
		} else {
			out = append(out, violationsFromList(ec.Validator().ValidateStructure(s.Identifier), "source identifier")...)
		}
		if s.ProcessErr != nil {
			out = append(out, parseViolation(s.ProcessErr, "process identifier"))
		} else {
			out = append(out, violationsFromList(ec.Validator().ValidateStructure(s.Process), "process identifier")...)
		}
		if s.Envelope != nil {
			if err := envelope.CheckPayload(s.Envelope.Payload); err != nil {
				out = append(out, errorViolation(err.Error()))
			}
		}
		return out

	default:
		return nil
	}
}

func ownershipViolations(_ *EvalContext, s Subject) []Violation {
	if s.Kind != SubjectEnvelope || s.Envelope == nil {
		return nil
	}
	env := s.Envelope

	var out []Violation
	if env.SourceID == "" {
		out = append(out, errorViolation("envelope does not name a source identifier"))
	}
	if env.ProcessID == "" {
		out = append(out, errorViolation("envelope does not name a process identifier"))
	}
	if env.ExecutionSignature == "" {
		out = append(out, errorViolation("envelope carries no execution signature"))
	}
	if env.LastTouched.IsZero() {
		out = append(out, errorViolation("envelope touch timestamp is unset"))
	}
	if owner, ok := env.Payload.Get(ownerKey); ok {
		raw, isString := owner.AsString()
		switch {
		case !isString:
			out = append(out, errorViolation(
				fmt.Sprintf("payload owner must be a string, got %s", owner.Kind())))
		case raw == "":
			out = append(out, errorViolation("payload owner is empty"))
		}
	}
	return out
}

func lineageViolations(ec *EvalContext, s Subject) []Violation {
	if s.Kind != SubjectEnvelope || s.Envelope == nil {
		return nil
	}
	env := s.Envelope
	if env.PromotedTo == "" {
		return nil
	}

	var out []Violation
	if !envelope.Target(env.PromotedTo).Valid() {
		out = append(out, errorViolation(
			fmt.Sprintf("promotion target %q is not a known backend", env.PromotedTo)))
	}
	if !env.Validated {
		out = append(out, errorViolation(
			fmt.Sprintf("envelope was promoted to %s without validation", env.PromotedTo)))
	}

	refs, refErr := upstreamReferences(env.Payload)
	if refErr != "" {
		out = append(out, errorViolation(refErr))
		return out
	}
	for _, ref := range refs {
		id, err := numbering.Parse(ref, numbering.GrammarBarton)
		if err != nil {
			out = append(out, parseViolation(err, fmt.Sprintf("upstream reference %q", ref)))
			continue
		}
		list := ec.Validator().ValidateStructure(id)
		for _, e := range list.Errors {
			if e.Severity == numbering.SeverityError {
				out = append(out, violationFromError(e, fmt.Sprintf("upstream reference %q", ref)))
			}
		}
	}
	return out
}

// upstreamReferences extracts the upstream identifier strings from a
// payload. The second result is a violation message when the references
// are missing or mistyped.
func upstreamReferences(payload envelope.Value) ([]string, string) {
	ref, ok := payload.Get(upstreamKey)
	if !ok {
		return nil, "promoted envelope carries no upstream reference in its payload"
	}

	switch ref.Kind() {
	case envelope.KindString:
		raw, _ := ref.AsString()
		return []string{raw}, ""
	case envelope.KindList:
		items, _ := ref.AsList()
		if len(items) == 0 {
			return nil, "promoted envelope lists no upstream references"
		}
		refs := make([]string, len(items))
		for i, item := range items {
			raw, ok := item.AsString()
			if !ok {
				return nil, fmt.Sprintf("upstream reference at index %d is %s, want string", i, item.Kind())
			}
			refs[i] = raw
		}
		return refs, ""
	default:
		return nil, fmt.Sprintf("upstream reference must be a string or list of strings, got %s", ref.Kind())
	}
}

func enforcementViolations(ec *EvalContext, s Subject) []Violation {
	if s.Kind != SubjectEnvelope || s.Envelope == nil {
		return nil
	}
	if !s.Envelope.Validated {
		return nil
	}

	outstanding := 0
	for _, v := range structuralViolations(ec, s) {
		if v.Severity == numbering.SeverityError {
			outstanding++
		}
	}
	for _, v := range ownershipViolations(ec, s) {
		if v.Severity == numbering.SeverityError {
			outstanding++
		}
	}
	for _, v := range lineageViolations(ec, s) {
		if v.Severity == numbering.SeverityError {
			outstanding++
		}
	}

	if outstanding == 0 {
		return nil
	}
	return []Violation{errorViolation(fmt.Sprintf(
		"envelope is marked validated but %d error finding(s) are outstanding", outstanding))}
}

// parseViolation turns a parse failure into an error violation.
func parseViolation(err error, prefix string) Violation {
	var numErr *numbering.Error
	if errors.As(err, &numErr) {
		return violationFromError(numErr, prefix)
	}
	msg := err.Error()
	if prefix != "" {
		msg = prefix + ": " + msg
	}
	return errorViolation(msg)
}

// violationFromError carries a numbering finding into a rule violation,
// keeping its severity and folding the suggestion into the message.
func violationFromError(e *numbering.Error, prefix string) Violation {
	msg := e.Message
	if e.Suggestion != "" {
		msg += " (" + e.Suggestion + ")"
	}
	if prefix != "" {
		msg = prefix + ": " + msg
	}
	return Violation{Severity: e.Severity, Message: msg}
}

// violationsFromList converts every entry of a numbering error list.
func violationsFromList(list *numbering.ErrorList, prefix string) []Violation {
	if list == nil || len(list.Errors) == 0 {
		return nil
	}
	out := make([]Violation, len(list.Errors))
	for i, e := range list.Errors {
		out[i] = violationFromError(e, prefix)
	}
	return out
}
