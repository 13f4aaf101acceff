package compliance

import (
	"sort"

	"barton-hq/meridian/pkg/numbering"
	"barton-hq/meridian/pkg/registry"
)

// Violation is one observation a rule makes about a subject. The enforcer
// attaches the rule name and subject to turn violations into findings.
type Violation struct {
	Severity numbering.Severity
	Message  string
}

// errorViolation builds an error-severity violation.
func errorViolation(message string) Violation {
	return Violation{Severity: numbering.SeverityError, Message: message}
}

// Rule is a named, pure predicate over one subject. Rules must not retain
// state between evaluations and must not depend on evaluation order; the
// enforcer may run them concurrently across subjects.
type Rule interface {
	// Name identifies the rule in findings.
	Name() string
	// Evaluate returns every violation the rule observes about the
	// subject. A nil or empty result means the subject is clean.
	Evaluate(ec *EvalContext, subject Subject) []Violation
}

// RuleFunc adapts a function into a Rule.
type RuleFunc func(ec *EvalContext, subject Subject) []Violation

type namedRule struct {
	name string
	fn   RuleFunc
}

// NewRule builds a Rule from a name and an evaluation function.
func NewRule(name string, fn RuleFunc) Rule {
	return &namedRule{name: name, fn: fn}
}

func (r *namedRule) Name() string {
	return r.name
}

func (r *namedRule) Evaluate(ec *EvalContext, subject Subject) []Violation {
	return r.fn(ec, subject)
}

// EvalContext carries the shared read-only inputs of one enforcement run:
// the registry, a validator bound to it, and the sequence index built from
// the run's subjects. Rules receive the context on every evaluation; it is
// safe for concurrent use.
type EvalContext struct {
	registry  *registry.Registry
	validator *numbering.Validator
	scopes    map[string][]int
}

// newEvalContext indexes the sequences claimed by the run's identifier
// subjects, grouped by scope, together with any sequences the subjects
// declare as pre-existing siblings. Envelope subjects reference existing
// nodes and do not claim sequences.
func newEvalContext(reg *registry.Registry, subjects []Subject) *EvalContext {
	scopes := make(map[string][]int)
	for _, s := range subjects {
		if s.Kind != SubjectIdentifier || s.ParseErr != nil {
			continue
		}
		if s.Identifier.Grammar() != numbering.GrammarBarton {
			continue
		}
		scope := s.Identifier.Scope()
		scopes[scope] = append(scopes[scope], s.Identifier.Sequence())
		scopes[scope] = append(scopes[scope], s.Siblings...)
	}
	for scope := range scopes {
		sort.Ints(scopes[scope])
	}
	return &EvalContext{
		registry:  reg,
		validator: numbering.NewValidator(reg),
		scopes:    scopes,
	}
}

// Registry returns the registry in force for the run.
func (ec *EvalContext) Registry() *registry.Registry {
	return ec.registry
}

// Validator returns a validator bound to the run's registry.
func (ec *EvalContext) Validator() *numbering.Validator {
	return ec.validator
}

// SiblingsFor returns the sequences claimed by the run's other subjects in
// the identifier's scope. One instance of the identifier's own sequence is
// excluded, so a subject never conflicts with itself while true duplicates
// still surface.
func (ec *EvalContext) SiblingsFor(id numbering.Identifier) []int {
	claimed, ok := ec.scopes[id.Scope()]
	if !ok {
		return nil
	}
	siblings := make([]int, 0, len(claimed))
	removed := false
	for _, seq := range claimed {
		if !removed && seq == id.Sequence() {
			removed = true
			continue
		}
		siblings = append(siblings, seq)
	}
	return siblings
}
