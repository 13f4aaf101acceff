// Package audit runs compliance enforcement over doctrine corpora on disk.
//
// The core packages stay free of I/O, clocks, and identity: audit is where
// those live. A Corpus document lists the identifiers and envelopes to
// evaluate; Discover finds corpus files under a root by glob pattern; the
// Runner loads sources, drives the enforcer, and wraps the outcome in a
// RunRecord carrying a unique run ID and timing. For unattended operation
// the Scheduler repeats runs on a cron expression and the Watcher re-runs
// on corpus or registry changes.
package audit
