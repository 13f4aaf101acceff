// Package export serializes compliance reports for external consumers.
//
// Two formats are supported: JSON (whole reports, machine-readable) and
// CSV (one row per finding, spreadsheet-friendly). Both exporters offer a
// batch form over a slice of reports and a streaming form over a channel
// for long audit runs.
//
// Exporters write to an io.Writer supplied by the caller; they never open
// files themselves.
package export
