// Package middleware composes the numbering, envelope, and compliance
// layers behind a per-caller facade.
//
// A Tool closes over one caller identity. Every envelope it produces is
// signed as that caller and every report it emits is attributed to it, so
// audit trails can tell which integration produced what. The facade adds
// calling convention only; all validation logic lives in the layers it
// wraps.
package middleware

import (
	"log/slog"
	"time"

	"barton-hq/meridian/pkg/compliance"
	"barton-hq/meridian/pkg/envelope"
	"barton-hq/meridian/pkg/numbering"
	"barton-hq/meridian/pkg/registry"
)

// Config configures a Tool.
type Config struct {
	// Registry supplies the schema everything validates against.
	// Defaults to the built-in catalog.
	Registry *registry.Registry

	// BlueprintID names the blueprint driving the caller. Folded into
	// execution signatures. Defaults to "default".
	BlueprintID string

	// Rules overrides the rule set. Defaults to the built-in rules.
	Rules []compliance.Rule

	// Metrics receives evaluation counters when set.
	Metrics *compliance.Metrics

	// Clock supplies timestamps for envelope mutations. Defaults to
	// time.Now.
	Clock func() time.Time
}

// Tool is the per-caller facade. It retains no state between calls beyond
// the caller identity and the components closed over at construction, and
// is safe for concurrent use.
type Tool struct {
	name      string
	clock     func() time.Time
	formatter *envelope.Formatter
	enforcer  *compliance.Enforcer
	logger    *slog.Logger
}

// ForCaller creates the facade for one caller identity.
func ForCaller(name string, config Config) *Tool {
	// Apply defaults
	if config.Registry == nil {
		config.Registry = registry.Default()
	}
	if config.Clock == nil {
		config.Clock = time.Now
	}

	formatter := envelope.NewFormatter(envelope.FormatterConfig{
		AgentID:       name,
		BlueprintID:   config.BlueprintID,
		SchemaVersion: config.Registry.SchemaVersion(),
		Clock:         config.Clock,
	})
	enforcer := compliance.NewEnforcer(compliance.Config{
		Registry: config.Registry,
		Rules:    config.Rules,
		Caller:   name,
		Metrics:  config.Metrics,
	})

	return &Tool{
		name:      name,
		clock:     config.Clock,
		formatter: formatter,
		enforcer:  enforcer,
		logger:    slog.Default().With("component", "middleware.tool", "caller", name),
	}
}

// Name returns the caller identity the tool was built for.
func (t *Tool) Name() string {
	return t.name
}

// Formatter returns the underlying envelope formatter.
func (t *Tool) Formatter() *envelope.Formatter {
	return t.formatter
}

// Enforcer returns the underlying compliance enforcer.
func (t *Tool) Enforcer() *compliance.Enforcer {
	return t.enforcer
}

// CreatePayload wraps business data into a fresh canonical envelope signed
// as this caller. The envelope starts unvalidated.
func (t *Tool) CreatePayload(sourceID, processID string, payload envelope.Value) envelope.Envelope {
	return t.formatter.ToEnvelope(sourceID, processID, payload)
}

// Validate evaluates one envelope against the rule set and returns the
// caller-attributed report.
func (t *Tool) Validate(env envelope.Envelope) *compliance.Report {
	return t.enforcer.Evaluate([]compliance.Subject{compliance.EnvelopeSubject(env)})
}

// ValidateIdentifier evaluates one raw identifier under a grammar.
func (t *Tool) ValidateIdentifier(raw string, grammar numbering.Grammar) *compliance.Report {
	return t.enforcer.EvaluateIdentifiers([]string{raw}, grammar)
}

// Evaluate runs the rule set over an arbitrary subject batch.
func (t *Tool) Evaluate(subjects []compliance.Subject) *compliance.Report {
	return t.enforcer.Evaluate(subjects)
}

// ValidateForStaging validates an envelope and, on a passing report,
// renders it as a staging record.
func (t *Tool) ValidateForStaging(env envelope.Envelope) (*envelope.Record, *compliance.Report, error) {
	return t.ValidateFor(env, envelope.TargetStaging)
}

// ValidateForVault validates an envelope and, on a passing report, renders
// it as a vault record.
func (t *Tool) ValidateForVault(env envelope.Envelope) (*envelope.Record, *compliance.Report, error) {
	return t.ValidateFor(env, envelope.TargetVault)
}

// ValidateForWarehouse validates an envelope and, on a passing report,
// renders it as a warehouse record.
func (t *Tool) ValidateForWarehouse(env envelope.Envelope) (*envelope.Record, *compliance.Report, error) {
	return t.ValidateFor(env, envelope.TargetWarehouse)
}

// ValidateFor validates an envelope and renders it for the given backend.
//
// The envelope is evaluated as submitted. On a failing report no record is
// produced and the report tells the caller why. On a passing report the
// envelope is marked validated, touched, and rendered; rendering can still
// fail with an IncompatibleFieldError when a reserved payload key slips
// past the configured rule set.
func (t *Tool) ValidateFor(env envelope.Envelope, target envelope.Target) (*envelope.Record, *compliance.Report, error) {
	report := t.Validate(env)
	if !report.Passed() {
		t.logger.Debug("envelope failed validation",
			"source", env.SourceID,
			"target", string(target),
			"errors", report.ErrorCount(),
		)
		return nil, report, nil
	}

	validated := env.WithValidated(true, t.clock())
	record, err := t.formatter.FormatFor(validated, target)
	if err != nil {
		return nil, report, err
	}
	return record, report, nil
}
