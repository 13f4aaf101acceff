// Package logging provides structured logging for the barton engine.
//
// # Overview
//
// The logging package wraps Go's standard log/slog package to provide:
//   - Structured logging with JSON and text formats
//   - Sensitive-value redaction (tokens, emails, credentials) applied at
//     the handler, so it covers every derived component logger
//   - Context-aware logging with audit run IDs and caller identities
//   - Configurable log levels (debug, info, warn, error)
//
// # Usage
//
//	// Build a logger and install it as the process default
//	logger, err := logging.Setup(cfg.Logging, verbose)
//	if err != nil {
//	    return err
//	}
//
//	// Component loggers derived from the default inherit format, level,
//	// and redaction
//	slog.Default().With("component", "audit.runner").Info("run complete")
//
//	// Context-aware logging carries run metadata automatically
//	ctx = logging.WithRunID(ctx, record.ID.String())
//	logger.InfoContext(ctx, "record exported")  // includes run_id
//
// # Redaction
//
// Corpus payloads carry arbitrary caller content, and fragments of that
// content surface in diagnostics (YAML parse errors quote the offending
// line, violation messages quote payload keys). When redaction is enabled
// the handler masks recognizable secrets before the record is written:
//
//   - API keys: api_key: hunter2abc → api_key: ***
//   - Emails: user@example.com → user@example.com_redacted
//   - Bearer tokens: Bearer eyJhbGc... → Bearer ***
//   - Password fields: password=swordfish → password: ***
//
// Values logged under a sensitive key (password, token, secret, ...) are
// masked regardless of their shape.
package logging
