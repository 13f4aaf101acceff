// Package telemetry groups observability support for the barton engine.
//
// # Overview
//
// The engine's core packages (numbering, registry, envelope, compliance)
// are pure and log nothing on the happy path. Observability lives at the
// edges: the CLI and the audit layer report what they do, and the telemetry
// subpackages configure how.
//
// # Components
//
//   - logging: structured log/slog setup with sensitive-value redaction
//     and context-carried run metadata
//
// Metrics deliberately live with the packages they measure rather than
// here: compliance.Metrics counts evaluations and findings, audit.Metrics
// records run outcomes and durations. Both are Prometheus collectors that
// register on construction; the engine instruments but does not expose an
// endpoint, since network transport stays with the embedding process.
//
// # Usage
//
//	logger, err := logging.Setup(cfg.Logging, verbose)
//	if err != nil {
//	    return err
//	}
//	logger.Info("gate starting", "roots", len(roots))
package telemetry
