package numbering

import (
	"fmt"
	"strings"
)

// ErrorType categorizes a parse or validation finding.
type ErrorType string

const (
	// ErrorTypeMalformedIdentifier marks parse-time failures: wrong segment
	// count or a segment that is not a canonical non-negative integer.
	ErrorTypeMalformedIdentifier ErrorType = "malformed_identifier"
	// ErrorTypeSegmentOutOfRange marks a segment value that is not permitted
	// at its position regardless of sibling segments (database code, section,
	// sub-sub-hive, altitude, empty token).
	ErrorTypeSegmentOutOfRange ErrorType = "segment_out_of_range"
	// ErrorTypeUnknownScope marks a segment value that would be legal
	// elsewhere but is not registered under its parent segment (a sub-hive
	// that does not exist under its database).
	ErrorTypeUnknownScope ErrorType = "unknown_scope"
	// ErrorTypeSequenceConflict marks a sequence value already assigned
	// within the same scope.
	ErrorTypeSequenceConflict ErrorType = "sequence_conflict"
	// ErrorTypeSequenceOrder marks an advisory sequencing finding: a gap or
	// an out-of-order assignment within a scope. Always a warning.
	ErrorTypeSequenceOrder ErrorType = "sequence_order"
)

// Severity ranks a finding. Only error-severity findings fail validation;
// warnings are advisory.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Error is a single parse or validation finding with enough context to
// point the author at the offending segment.
type Error struct {
	Type       ErrorType // category of finding
	Severity   Severity  // error or warning
	Message    string    // finding message
	Identifier string    // raw identifier text
	Segment    int       // zero-based segment position, -1 when not segment-specific
	Suggestion string    // suggested fix (optional)
}

// Error implements the error interface. It returns a formatted message
// with the identifier, offending segment, and suggestion when present.
func (e *Error) Error() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("[%s] %s\n", e.Type, e.Message))

	if e.Identifier != "" {
		if e.Segment >= 0 {
			sb.WriteString(fmt.Sprintf("  --> %s (segment %d)\n", e.Identifier, e.Segment+1))
		} else {
			sb.WriteString(fmt.Sprintf("  --> %s\n", e.Identifier))
		}
	}

	if e.Suggestion != "" {
		sb.WriteString(fmt.Sprintf("  = suggestion: %s\n", e.Suggestion))
	}

	return sb.String()
}

// ErrorList accumulates findings across all validation passes so callers
// see every violation in one shot instead of fixing them one at a time.
type ErrorList struct {
	Errors []*Error
}

// NewErrorList creates a new empty error list.
func NewErrorList() *ErrorList {
	return &ErrorList{
		Errors: make([]*Error, 0),
	}
}

// Add appends a finding to the list.
func (el *ErrorList) Add(err *Error) {
	el.Errors = append(el.Errors, err)
}

// AddError creates and adds an error-severity finding.
func (el *ErrorList) AddError(errType ErrorType, message, identifier string, segment int) {
	el.Add(&Error{
		Type:       errType,
		Severity:   SeverityError,
		Message:    message,
		Identifier: identifier,
		Segment:    segment,
	})
}

// AddErrorWithSuggestion creates and adds an error-severity finding with a
// suggested fix.
func (el *ErrorList) AddErrorWithSuggestion(errType ErrorType, message, identifier string, segment int, suggestion string) {
	el.Add(&Error{
		Type:       errType,
		Severity:   SeverityError,
		Message:    message,
		Identifier: identifier,
		Segment:    segment,
		Suggestion: suggestion,
	})
}

// AddWarning creates and adds a warning-severity finding.
func (el *ErrorList) AddWarning(errType ErrorType, message, identifier string, segment int) {
	el.Add(&Error{
		Type:       errType,
		Severity:   SeverityWarning,
		Message:    message,
		Identifier: identifier,
		Segment:    segment,
	})
}

// HasErrors returns true if the list contains at least one error-severity
// finding. Warnings alone do not count.
func (el *ErrorList) HasErrors() bool {
	for _, err := range el.Errors {
		if err.Severity == SeverityError {
			return true
		}
	}
	return false
}

// HasFindings returns true if the list contains any finding of either
// severity.
func (el *ErrorList) HasFindings() bool {
	return len(el.Errors) > 0
}

// Count returns the total number of findings.
func (el *ErrorList) Count() int {
	return len(el.Errors)
}

// ErrorCount returns the number of error-severity findings.
func (el *ErrorList) ErrorCount() int {
	n := 0
	for _, err := range el.Errors {
		if err.Severity == SeverityError {
			n++
		}
	}
	return n
}

// WarningCount returns the number of warning-severity findings.
func (el *ErrorList) WarningCount() int {
	n := 0
	for _, err := range el.Errors {
		if err.Severity == SeverityWarning {
			n++
		}
	}
	return n
}

// Error implements the error interface. It returns all findings formatted
// as a single string.
func (el *ErrorList) Error() string {
	if !el.HasFindings() {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d error(s) and %d warning(s):\n\n", el.ErrorCount(), el.WarningCount()))

	for i, err := range el.Errors {
		sb.WriteString(fmt.Sprintf("Finding %d:\n", i+1))
		sb.WriteString(err.Error())
		sb.WriteString("\n")
	}

	return sb.String()
}

// ToError returns nil if the list has no error-severity findings,
// otherwise the list itself. Warnings alone never turn into an error.
func (el *ErrorList) ToError() error {
	if !el.HasErrors() {
		return nil
	}
	return el
}

// ByType returns all findings of the given type.
func (el *ErrorList) ByType(errType ErrorType) []*Error {
	var result []*Error
	for _, err := range el.Errors {
		if err.Type == errType {
			result = append(result, err)
		}
	}
	return result
}

// BySeverity returns all findings of the given severity.
func (el *ErrorList) BySeverity(severity Severity) []*Error {
	var result []*Error
	for _, err := range el.Errors {
		if err.Severity == severity {
			result = append(result, err)
		}
	}
	return result
}

// HasErrorType returns true if the list contains at least one finding of
// the given type.
func (el *ErrorList) HasErrorType(errType ErrorType) bool {
	for _, err := range el.Errors {
		if err.Type == errType {
			return true
		}
	}
	return false
}
