package compliance

import (
	"barton-hq/meridian/pkg/envelope"
	"barton-hq/meridian/pkg/numbering"
)

// SubjectKind distinguishes bare identifiers from full envelopes.
type SubjectKind string

const (
	// SubjectIdentifier is a bare doctrine identifier.
	SubjectIdentifier SubjectKind = "identifier"
	// SubjectEnvelope is a payload envelope with source and process
	// identifiers.
	SubjectEnvelope SubjectKind = "envelope"
)

// Subject is one unit under enforcement: a bare identifier or an envelope.
// Construction parses the identifiers once; rules consume the parse results
// and never re-parse. Subjects are value objects.
type Subject struct {
	// ID names the subject in findings.
	ID string

	// Kind tells rules what the subject is.
	Kind SubjectKind

	// Raw is the raw identifier text. For envelope subjects this is the
	// source identifier.
	Raw string

	// Grammar is the grammar Raw was parsed under.
	Grammar numbering.Grammar

	// Identifier is the parsed form of Raw. Zero when ParseErr is set.
	Identifier numbering.Identifier

	// Siblings lists sequences already assigned in the identifier's scope
	// by doctrine outside this batch. Subjects in the same batch index each
	// other automatically; the field only declares what the batch cannot
	// see.
	Siblings []int

	// ParseErr records why Raw failed to parse, nil on success.
	ParseErr error

	// Envelope is set for envelope subjects only.
	Envelope *envelope.Envelope

	// Process is the parsed process identifier of an envelope subject.
	Process numbering.Identifier

	// ProcessErr records why the process identifier failed to parse.
	ProcessErr error
}

// IdentifierSubject builds a subject from a raw identifier string.
func IdentifierSubject(raw string, grammar numbering.Grammar) Subject {
	id, err := numbering.Parse(raw, grammar)
	return Subject{
		ID:         raw,
		Kind:       SubjectIdentifier,
		Raw:        raw,
		Grammar:    grammar,
		Identifier: id,
		ParseErr:   err,
	}
}

// EnvelopeSubject builds a subject from an envelope. The source identifier
// is parsed under the Barton grammar and the process identifier under the
// UDNS grammar; parse failures surface as structural findings, not as
// construction errors.
func EnvelopeSubject(env envelope.Envelope) Subject {
	subjectID := env.SourceID
	if subjectID == "" {
		subjectID = "unidentified-envelope"
	}
	source, sourceErr := numbering.Parse(env.SourceID, numbering.GrammarBarton)
	process, processErr := numbering.Parse(env.ProcessID, numbering.GrammarUDNS)
	return Subject{
		ID:         subjectID,
		Kind:       SubjectEnvelope,
		Raw:        env.SourceID,
		Grammar:    numbering.GrammarBarton,
		Identifier: source,
		ParseErr:   sourceErr,
		Envelope:   &env,
		Process:    process,
		ProcessErr: processErr,
	}
}

// IdentifierSubjects builds subjects for a batch of raw identifiers under
// one grammar.
func IdentifierSubjects(raws []string, grammar numbering.Grammar) []Subject {
	subjects := make([]Subject, len(raws))
	for i, raw := range raws {
		subjects[i] = IdentifierSubject(raw, grammar)
	}
	return subjects
}

// EnvelopeSubjects builds subjects for a batch of envelopes.
func EnvelopeSubjects(envs []envelope.Envelope) []Subject {
	subjects := make([]Subject, len(envs))
	for i, env := range envs {
		subjects[i] = EnvelopeSubject(env)
	}
	return subjects
}
