package compliance

import (
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"barton-hq/meridian/pkg/numbering"
	"barton-hq/meridian/pkg/registry"
)

// Config configures an Enforcer.
type Config struct {
	// Registry supplies the schema structural checks run against.
	// Defaults to the built-in catalog.
	Registry *registry.Registry

	// Rules is the rule set, evaluated in registration order per subject.
	// Defaults to BuiltinRules(). Registration order does not affect the
	// report: findings are sorted canonically before the report is built.
	Rules []Rule

	// Caller is stamped into every report for audit attribution. Optional.
	Caller string

	// Parallelism bounds concurrent subject evaluation. Defaults to
	// runtime.GOMAXPROCS(0).
	Parallelism int

	// Metrics receives evaluation counters when set.
	Metrics *Metrics
}

// Enforcer runs a rule set over batches of subjects and aggregates the
// findings into compliance reports. An Enforcer is immutable after
// construction and safe for concurrent use.
type Enforcer struct {
	config Config
	logger *slog.Logger
}

// NewEnforcer creates an enforcer.
func NewEnforcer(config Config) *Enforcer {
	// Apply defaults
	if config.Registry == nil {
		config.Registry = registry.Default()
	}
	if len(config.Rules) == 0 {
		config.Rules = BuiltinRules()
	}
	if config.Parallelism <= 0 {
		config.Parallelism = runtime.GOMAXPROCS(0)
	}

	return &Enforcer{
		config: config,
		logger: slog.Default().With("component", "compliance.enforcer"),
	}
}

// Registry returns the registry the enforcer validates against.
func (e *Enforcer) Registry() *registry.Registry {
	return e.config.Registry
}

// Evaluate runs every configured rule over every subject and aggregates
// the findings into one report.
//
// Subjects are evaluated concurrently; the registry is immutable and rules
// are pure, so no locking is needed. Results merge position-indexed and
// findings sort canonically afterwards, which makes the report
// deterministic: equal subjects in any order yield byte-identical reports.
// A panicking rule contributes an error finding attributed to that rule
// and never aborts the run.
func (e *Enforcer) Evaluate(subjects []Subject) *Report {
	start := time.Now()
	ec := newEvalContext(e.config.Registry, subjects)

	results := make([][]Finding, len(subjects))
	var g errgroup.Group
	g.SetLimit(e.config.Parallelism)
	for i := range subjects {
		i := i
		g.Go(func() error {
			results[i] = e.evaluateSubject(ec, subjects[i])
			return nil
		})
	}
	// Rules report through findings, never through errors.
	_ = g.Wait()

	findings := make([]Finding, 0)
	for _, r := range results {
		findings = append(findings, r...)
	}
	sortFindings(findings)

	report := &Report{
		Caller:          e.config.Caller,
		RegistryVersion: e.config.Registry.Version(),
		Status:          statusFor(findings),
		Subjects:        len(subjects),
		Findings:        findings,
	}

	e.logger.Debug("enforcement run complete",
		"subjects", report.Subjects,
		"errors", report.ErrorCount(),
		"warnings", report.WarningCount(),
		"status", string(report.Status),
		"duration", time.Since(start),
	)
	if e.config.Metrics != nil {
		e.config.Metrics.RecordEvaluation(report, time.Since(start).Seconds())
	}

	return report
}

// EvaluateIdentifiers is a convenience wrapper over Evaluate for a batch
// of raw identifiers under one grammar.
func (e *Enforcer) EvaluateIdentifiers(raws []string, grammar numbering.Grammar) *Report {
	return e.Evaluate(IdentifierSubjects(raws, grammar))
}

// evaluateSubject runs the full rule set over one subject.
func (e *Enforcer) evaluateSubject(ec *EvalContext, s Subject) []Finding {
	var findings []Finding
	for _, rule := range e.config.Rules {
		for _, v := range e.evaluateRule(ec, rule, s) {
			findings = append(findings, Finding{
				Rule:      rule.Name(),
				Severity:  v.Severity,
				Message:   v.Message,
				SubjectID: s.ID,
			})
		}
	}
	return findings
}

// evaluateRule runs one rule over one subject, converting a panic into an
// error violation attributed to the rule.
func (e *Enforcer) evaluateRule(ec *EvalContext, rule Rule, s Subject) (violations []Violation) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("rule panicked during evaluation",
				"rule", rule.Name(),
				"subject", s.ID,
				"panic", fmt.Sprint(r),
			)
			violations = []Violation{errorViolation(fmt.Sprintf("rule evaluation error: %v", r))}
		}
	}()
	return rule.Evaluate(ec, s)
}
