package envelope

import "sort"

// Target identifies a storage backend dialect. Each backend stores the same
// seven canonical fields under its own column names; the mapping is a pure
// renaming, so records convert between any two targets without loss.
type Target string

const (
	// TargetStaging is the intake backend where envelopes first land.
	TargetStaging Target = "staging"
	// TargetVault is the long-term retention backend.
	TargetVault Target = "vault"
	// TargetWarehouse is the analytics backend.
	TargetWarehouse Target = "warehouse"
)

// Targets returns all supported backend targets in stable order.
func Targets() []Target {
	return []Target{TargetStaging, TargetVault, TargetWarehouse}
}

// Valid reports whether the target names a supported backend.
func (t Target) Valid() bool {
	_, ok := targetFields[t]
	return ok
}

// fieldNames maps the canonical envelope fields onto one backend's column
// names.
type fieldNames struct {
	SourceID           string
	ProcessID          string
	Validated          string
	PromotedTo         string
	ExecutionSignature string
	LastTouched        string
	Payload            string
}

// names returns the seven column names in canonical field order.
func (f fieldNames) names() []string {
	return []string{
		f.SourceID,
		f.ProcessID,
		f.Validated,
		f.PromotedTo,
		f.ExecutionSignature,
		f.LastTouched,
		f.Payload,
	}
}

var targetFields = map[Target]fieldNames{
	TargetStaging: {
		SourceID:           "source_id",
		ProcessID:          "process_id",
		Validated:          "validated",
		PromotedTo:         "promoted_to",
		ExecutionSignature: "execution_signature",
		LastTouched:        "timestamp_last_touched",
		Payload:            "payload",
	},
	TargetVault: {
		SourceID:           "source_id",
		ProcessID:          "task_id",
		Validated:          "approved",
		PromotedTo:         "migrated_to",
		ExecutionSignature: "process_signature",
		LastTouched:        "event_timestamp",
		Payload:            "data_payload",
	},
	TargetWarehouse: {
		SourceID:           "source_id",
		ProcessID:          "task_id",
		Validated:          "analytics_approved",
		PromotedTo:         "consolidated_from",
		ExecutionSignature: "knowledge_signature",
		LastTouched:        "event_timestamp",
		Payload:            "data_payload",
	},
}

// canonicalFieldNames are the exported JSON names of the Envelope struct
// itself.
var canonicalFieldNames = []string{
	"sourceId",
	"processId",
	"validated",
	"promotedTo",
	"executionSignature",
	"lastTouched",
	"payload",
}

// reservedKeys is the union of the canonical field names and every backend
// column name. Payload keys must not collide with any of them, or a record
// written for one backend could shadow a structural column on another.
var reservedKeys = buildReservedKeys()

func buildReservedKeys() map[string]struct{} {
	reserved := make(map[string]struct{})
	for _, name := range canonicalFieldNames {
		reserved[name] = struct{}{}
	}
	for _, fields := range targetFields {
		for _, name := range fields.names() {
			reserved[name] = struct{}{}
		}
	}
	return reserved
}

// ReservedKeys returns the sorted set of key names payloads may not use.
func ReservedKeys() []string {
	keys := make([]string, 0, len(reservedKeys))
	for k := range reservedKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// IsReservedKey reports whether a payload key collides with a structural
// field name on any backend.
func IsReservedKey(key string) bool {
	_, ok := reservedKeys[key]
	return ok
}
