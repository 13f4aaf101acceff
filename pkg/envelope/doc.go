// Package envelope defines the canonical payload envelope and its backend
// dialects.
//
// Every unit of doctrine payload travels inside a seven-field envelope:
// the producing source, the handling process, a validation flag, an
// optional promotion marker, an execution signature, a touch timestamp,
// and the payload itself. The canonical field names are fixed; each
// storage backend (staging, vault, warehouse) stores the same fields
// under its own column names.
//
// # Round Trips
//
// Backend dialects are pure renamings of the canonical form. For any
// envelope e and targets a and b:
//
//	ra, _ := envelope.FormatFor(e, a)
//	rb, _ := envelope.FormatFor(e, b)
//
// parsing ra for target a and rb for target b yields the same canonical
// envelope, so records move between backends without loss. ParseRecord is
// strict about this: unknown columns, missing columns, and mistyped
// columns are rejected rather than smoothed over.
//
// # Reserved Keys
//
// Payload top-level keys are checked against the union of every backend's
// column names. A payload that names a key like "source_id" would shadow
// a structural column on at least one backend, so formatting fails with
// an IncompatibleFieldError before any record is produced. The check is
// target-independent: a payload accepted for one backend is accepted for
// all of them.
//
// # Values
//
// Payloads are built from the Value tagged union (null, boolean, integer,
// float, string, list, map). Values are immutable and serialize
// deterministically: map keys in sorted order, integral floats with an
// explicit fractional part.
package envelope
