package envelope

import (
	"fmt"
	"time"
)

// Envelope is the canonical seven-field wrapper around a unit of doctrine
// payload. Backends store the same fields under their own column names; the
// canonical form is what rules, formatters, and reports operate on.
//
// Envelopes are value types. The mutating operations return an updated copy
// and leave the receiver untouched.
type Envelope struct {
	// SourceID is the Barton identifier of the doctrine node that produced
	// the payload.
	SourceID string `json:"sourceId" yaml:"sourceId"`

	// ProcessID is the UDNS identifier of the process that handled it.
	ProcessID string `json:"processId" yaml:"processId"`

	// Validated records whether the envelope has passed compliance.
	Validated bool `json:"validated" yaml:"validated"`

	// PromotedTo names the backend target the envelope was last promoted
	// to. Empty until the first promotion.
	PromotedTo string `json:"promotedTo,omitempty" yaml:"promotedTo,omitempty"`

	// ExecutionSignature is the content signature computed at production
	// time. See ComputeSignature.
	ExecutionSignature string `json:"executionSignature" yaml:"executionSignature"`

	// LastTouched is the instant of the most recent mutation. It only ever
	// moves forward.
	LastTouched time.Time `json:"lastTouched" yaml:"lastTouched"`

	// Payload carries the business data.
	Payload Value `json:"payload" yaml:"payload"`
}

// IdentityKey returns a stable key identifying the envelope's origin,
// combining the source and process identifiers with the execution
// signature. Two envelopes with the same key came from the same node,
// the same process, and the same agent run.
func (e Envelope) IdentityKey() string {
	return e.SourceID + "|" + e.ProcessID + "|" + e.ExecutionSignature
}

// Equal reports whether two envelopes carry the same seven fields.
// Timestamps compare by instant, payloads by deep equality.
func (e Envelope) Equal(other Envelope) bool {
	return e.SourceID == other.SourceID &&
		e.ProcessID == other.ProcessID &&
		e.Validated == other.Validated &&
		e.PromotedTo == other.PromotedTo &&
		e.ExecutionSignature == other.ExecutionSignature &&
		e.LastTouched.Equal(other.LastTouched) &&
		e.Payload.Equal(other.Payload)
}

// WithValidated returns a copy with the validated flag set and the touch
// timestamp advanced to now.
func (e Envelope) WithValidated(validated bool, now time.Time) Envelope {
	e.Validated = validated
	return e.Touch(now)
}

// WithPromotedTo returns a copy recording a promotion to the given target
// and the touch timestamp advanced to now.
func (e Envelope) WithPromotedTo(target Target, now time.Time) Envelope {
	e.PromotedTo = string(target)
	return e.Touch(now)
}

// Touch returns a copy whose LastTouched is advanced to now. A now earlier
// than the current timestamp leaves it unchanged, so the field is monotonic
// even under clock skew.
func (e Envelope) Touch(now time.Time) Envelope {
	if now.After(e.LastTouched) {
		e.LastTouched = now.UTC()
	}
	return e
}

// String returns a short display form for logs.
func (e Envelope) String() string {
	return fmt.Sprintf("envelope[%s by %s]", e.SourceID, e.ProcessID)
}
