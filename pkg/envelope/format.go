package envelope

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"
)

// FormatterConfig configures a Formatter.
type FormatterConfig struct {
	// AgentID identifies the agent the formatter produces envelopes for.
	AgentID string

	// BlueprintID identifies the blueprint driving the agent. Defaults to
	// "default" when empty.
	BlueprintID string

	// SchemaVersion is the registry schema version in force.
	SchemaVersion string

	// Clock supplies the current time for touch timestamps. Defaults to
	// time.Now.
	Clock func() time.Time
}

// Formatter produces canonical envelopes for one agent identity and renders
// them into backend records. A Formatter is safe for concurrent use.
type Formatter struct {
	config FormatterConfig
}

// NewFormatter creates a formatter for the given identity.
func NewFormatter(config FormatterConfig) *Formatter {
	// Apply defaults
	if config.BlueprintID == "" {
		config.BlueprintID = "default"
	}
	if config.Clock == nil {
		config.Clock = time.Now
	}

	return &Formatter{
		config: config,
	}
}

// AgentID returns the agent identity the formatter stamps into signatures.
func (f *Formatter) AgentID() string {
	return f.config.AgentID
}

// ToEnvelope wraps a payload into a canonical envelope. Every field is
// populated: fresh envelopes start unvalidated and unpromoted, with the
// execution signature derived from the formatter's identity and the touch
// timestamp taken from the clock. The operation is total; it never fails.
func (f *Formatter) ToEnvelope(sourceID, processID string, payload Value) Envelope {
	return Envelope{
		SourceID:           sourceID,
		ProcessID:          processID,
		Validated:          false,
		PromotedTo:         "",
		ExecutionSignature: ComputeSignature(f.config.AgentID, f.config.BlueprintID, f.config.SchemaVersion),
		LastTouched:        f.config.Clock().UTC(),
		Payload:            payload,
	}
}

// FormatFor renders a canonical envelope as a record for the given backend
// target. The payload's top-level keys are checked against the reserved set
// first; a collision fails the whole operation and nothing is rendered.
func (f *Formatter) FormatFor(env Envelope, target Target) (*Record, error) {
	return FormatFor(env, target)
}

// FormatFor renders a canonical envelope as a record for the given backend
// target without requiring a Formatter.
func FormatFor(env Envelope, target Target) (*Record, error) {
	if !target.Valid() {
		return nil, &UnknownTargetError{Target: target}
	}
	if err := CheckPayload(env.Payload); err != nil {
		var incompatible *IncompatibleFieldError
		if errors.As(err, &incompatible) {
			incompatible.Target = target
		}
		return nil, err
	}
	return &Record{target: target, env: env}, nil
}

// CheckPayload verifies that a payload's top-level map keys stay clear of
// every backend's structural column names. The check runs against the union
// of all backend schemas, so a payload that passes is formattable for every
// target. Non-map payloads have no keys and always pass. Nested maps may use
// any keys; only the top level is merged into backend records.
func CheckPayload(payload Value) error {
	for _, key := range payload.Keys() {
		if IsReservedKey(key) {
			return &IncompatibleFieldError{Key: key}
		}
	}
	return nil
}

// Record is an envelope rendered in one backend's dialect. The canonical
// envelope is retained, so converting a record to another target never
// loses information.
type Record struct {
	target Target
	env    Envelope
}

// Target returns the backend dialect the record is rendered for.
func (r *Record) Target() Target {
	return r.target
}

// Envelope returns the canonical envelope behind the record.
func (r *Record) Envelope() Envelope {
	return r.env
}

// Fields returns the record as backend column name to value pairs. The
// promotion column is present only once the envelope has been promoted.
func (r *Record) Fields() map[string]any {
	fields := targetFields[r.target]
	out := map[string]any{
		fields.SourceID:           r.env.SourceID,
		fields.ProcessID:          r.env.ProcessID,
		fields.Validated:          r.env.Validated,
		fields.ExecutionSignature: r.env.ExecutionSignature,
		fields.LastTouched:        r.env.LastTouched.UTC().Format(time.RFC3339Nano),
		fields.Payload:            r.env.Payload.ToAny(),
	}
	if r.env.PromotedTo != "" {
		out[fields.PromotedTo] = r.env.PromotedTo
	}
	return out
}

// MarshalJSON implements json.Marshaler. Columns serialize in sorted name
// order, so identical records always produce identical bytes. The payload
// column serializes through Value, which keeps integral floats distinct
// from integers.
func (r *Record) MarshalJSON() ([]byte, error) {
	fields := targetFields[r.target]
	out := map[string]any{
		fields.SourceID:           r.env.SourceID,
		fields.ProcessID:          r.env.ProcessID,
		fields.Validated:          r.env.Validated,
		fields.ExecutionSignature: r.env.ExecutionSignature,
		fields.LastTouched:        r.env.LastTouched.UTC().Format(time.RFC3339Nano),
		fields.Payload:            r.env.Payload,
	}
	if r.env.PromotedTo != "" {
		out[fields.PromotedTo] = r.env.PromotedTo
	}
	return json.Marshal(out)
}

// ParseRecord decodes a backend record back into a canonical envelope. The
// decode is strict: every structural column except the promotion column
// must be present, no unknown columns are tolerated, and each column must
// hold the declared type.
func ParseRecord(target Target, data []byte) (Envelope, error) {
	if !target.Valid() {
		return Envelope{}, &UnknownTargetError{Target: target}
	}
	fields := targetFields[target]

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return Envelope{}, &RecordError{Target: target, Message: err.Error()}
	}

	known := make(map[string]struct{}, 7)
	for _, name := range fields.names() {
		known[name] = struct{}{}
	}
	unknown := make([]string, 0)
	for name := range raw {
		if _, ok := known[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return Envelope{}, &RecordError{Target: target, Field: unknown[0], Message: "unknown column"}
	}

	var env Envelope
	if err := decodeString(target, raw, fields.SourceID, true, &env.SourceID); err != nil {
		return Envelope{}, err
	}
	if err := decodeString(target, raw, fields.ProcessID, true, &env.ProcessID); err != nil {
		return Envelope{}, err
	}
	if err := decodeBool(target, raw, fields.Validated, &env.Validated); err != nil {
		return Envelope{}, err
	}
	if err := decodeString(target, raw, fields.PromotedTo, false, &env.PromotedTo); err != nil {
		return Envelope{}, err
	}
	if err := decodeString(target, raw, fields.ExecutionSignature, true, &env.ExecutionSignature); err != nil {
		return Envelope{}, err
	}

	var touched string
	if err := decodeString(target, raw, fields.LastTouched, true, &touched); err != nil {
		return Envelope{}, err
	}
	ts, err := time.Parse(time.RFC3339Nano, touched)
	if err != nil {
		return Envelope{}, &RecordError{Target: target, Field: fields.LastTouched, Message: fmt.Sprintf("not an RFC 3339 timestamp: %v", err)}
	}
	env.LastTouched = ts.UTC()

	payloadRaw, ok := raw[fields.Payload]
	if !ok {
		return Envelope{}, &RecordError{Target: target, Field: fields.Payload, Message: "missing column"}
	}
	if err := env.Payload.UnmarshalJSON(payloadRaw); err != nil {
		return Envelope{}, &RecordError{Target: target, Field: fields.Payload, Message: err.Error()}
	}

	return env, nil
}

// Convert re-renders a record from one backend dialect into another. The
// conversion is exact: parsing the result for the destination target yields
// the same canonical envelope.
func Convert(data []byte, from, to Target) ([]byte, error) {
	env, err := ParseRecord(from, data)
	if err != nil {
		return nil, err
	}
	record, err := FormatFor(env, to)
	if err != nil {
		return nil, err
	}
	return json.Marshal(record)
}

func decodeString(target Target, raw map[string]json.RawMessage, field string, required bool, dst *string) error {
	data, ok := raw[field]
	if !ok {
		if required {
			return &RecordError{Target: target, Field: field, Message: "missing column"}
		}
		return nil
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return &RecordError{Target: target, Field: field, Message: "not a string"}
	}
	return nil
}

func decodeBool(target Target, raw map[string]json.RawMessage, field string, dst *bool) error {
	data, ok := raw[field]
	if !ok {
		return &RecordError{Target: target, Field: field, Message: "missing column"}
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return &RecordError{Target: target, Field: field, Message: "not a boolean"}
	}
	return nil
}
