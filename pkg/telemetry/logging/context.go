package logging

import (
	"context"
)

// Context keys for common log fields.
type contextKey string

const (
	// RunIDKey is the context key for audit run identifiers.
	RunIDKey contextKey = "run_id"

	// CallerKey is the context key for caller identities (the tool name
	// stamped into compliance reports).
	CallerKey contextKey = "caller"

	// SourceKey is the context key for corpus source paths.
	SourceKey contextKey = "source"
)

// WithRunID adds an audit run identifier to the context.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, RunIDKey, runID)
}

// GetRunID retrieves the audit run identifier from the context.
func GetRunID(ctx context.Context) string {
	if runID, ok := ctx.Value(RunIDKey).(string); ok {
		return runID
	}
	return ""
}

// WithCaller adds a caller identity to the context.
func WithCaller(ctx context.Context, caller string) context.Context {
	return context.WithValue(ctx, CallerKey, caller)
}

// GetCaller retrieves the caller identity from the context.
func GetCaller(ctx context.Context) string {
	if caller, ok := ctx.Value(CallerKey).(string); ok {
		return caller
	}
	return ""
}

// WithSource adds a corpus source path to the context.
func WithSource(ctx context.Context, source string) context.Context {
	return context.WithValue(ctx, SourceKey, source)
}

// GetSource retrieves the corpus source path from the context.
func GetSource(ctx context.Context) string {
	if source, ok := ctx.Value(SourceKey).(string); ok {
		return source
	}
	return ""
}

// extractContextFields collects the known context fields as alternating
// key-value pairs ready to pass to slog.
func extractContextFields(ctx context.Context) []any {
	var fields []any

	if runID := GetRunID(ctx); runID != "" {
		fields = append(fields, string(RunIDKey), runID)
	}
	if caller := GetCaller(ctx); caller != "" {
		fields = append(fields, string(CallerKey), caller)
	}
	if source := GetSource(ctx); source != "" {
		fields = append(fields, string(SourceKey), source)
	}

	return fields
}
