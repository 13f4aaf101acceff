// Package compliance aggregates rule evaluations over doctrine identifiers
// and payload envelopes into pass/fail reports.
//
// An enforcement run takes a batch of subjects (bare identifiers or
// envelopes), evaluates a configured rule set against each, and produces a
// Report whose status is PASS exactly when no error-severity finding
// exists. Warnings never fail a run.
//
// # Built-in Rules
//
// Four rules cover the standard doctrine checks:
//
//   - structural: identifiers parse and validate against the registry
//   - ownership: envelopes name their source, process, and signature
//   - lineage: promoted envelopes name a known target and their upstream
//     doctrine references
//   - enforcement: envelopes marked validated have no outstanding error
//     findings
//
// Additional rules plug in through the Rule interface; NewRule adapts a
// plain function.
//
// # Determinism
//
// Subjects evaluate concurrently, but results merge position-indexed and
// findings sort canonically, so a run over equal subjects yields a
// byte-identical report regardless of subject order or scheduling. Rules
// must stay pure for this to hold. A rule that panics contributes an
// error finding attributed to its name instead of aborting the run.
package compliance
