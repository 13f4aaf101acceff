package envelope

import (
	"fmt"
	"strings"
)

// IncompatibleFieldError reports a payload key that collides with a
// structural column name. The collision is checked against the union of all
// backend schemas, so a payload accepted for one target can never be
// rejected by another.
type IncompatibleFieldError struct {
	// Key is the offending payload key.
	Key string
	// Target is the backend the record was being formatted for. Empty when
	// the payload was checked outside a formatting operation.
	Target Target
}

// Error implements the error interface.
func (e *IncompatibleFieldError) Error() string {
	if e.Target == "" {
		return fmt.Sprintf("incompatible payload field %q: key is reserved by backend schemas", e.Key)
	}
	return fmt.Sprintf("incompatible payload field %q for target %s: key is reserved by backend schemas", e.Key, e.Target)
}

// UnknownTargetError reports a backend target name that no dialect is
// registered for.
type UnknownTargetError struct {
	Target Target
}

// Error implements the error interface.
func (e *UnknownTargetError) Error() string {
	names := make([]string, 0, len(targetFields))
	for _, t := range Targets() {
		names = append(names, string(t))
	}
	return fmt.Sprintf("unknown backend target %q (valid targets: %s)", string(e.Target), strings.Join(names, ", "))
}

// RecordError reports a backend record that does not round-trip cleanly:
// a missing or unknown column, or a column holding the wrong type.
type RecordError struct {
	Target  Target
	Field   string
	Message string
}

// Error implements the error interface.
func (e *RecordError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid %s record: %s", e.Target, e.Message)
	}
	return fmt.Sprintf("invalid %s record: field %q: %s", e.Target, e.Field, e.Message)
}
