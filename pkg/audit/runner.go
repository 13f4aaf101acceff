package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"barton-hq/meridian/pkg/compliance"
	"barton-hq/meridian/pkg/registry"
)

// RunnerConfig configures a Runner.
type RunnerConfig struct {
	// Registry supplies the schema the run validates against. Defaults to
	// the built-in catalog.
	Registry *registry.Registry

	// Rules overrides the rule set. Defaults to the built-in rules.
	Rules []compliance.Rule

	// Caller is stamped into every report for audit attribution.
	Caller string

	// Metrics receives run counters when set.
	Metrics *Metrics

	// Clock supplies run timestamps. Defaults to time.Now.
	Clock func() time.Time
}

// Runner executes enforcement runs over corpus files and wraps the
// outcomes in run records. A Runner is safe for concurrent use.
type Runner struct {
	config   RunnerConfig
	enforcer *compliance.Enforcer
	logger   *slog.Logger
}

// NewRunner creates a runner.
func NewRunner(config RunnerConfig) *Runner {
	// Apply defaults
	if config.Registry == nil {
		config.Registry = registry.Default()
	}
	if config.Clock == nil {
		config.Clock = time.Now
	}

	return &Runner{
		config: config,
		enforcer: compliance.NewEnforcer(compliance.Config{
			Registry: config.Registry,
			Rules:    config.Rules,
			Caller:   config.Caller,
		}),
		logger: slog.Default().With("component", "audit.runner"),
	}
}

// Registry returns the registry the runner validates against.
func (r *Runner) Registry() *registry.Registry {
	return r.config.Registry
}

// RunRecord is the outcome of one audit run: the compliance report plus
// the run metadata the core packages deliberately do not carry.
type RunRecord struct {
	// ID uniquely identifies the run.
	ID uuid.UUID `json:"id"`

	// StartedAt is the instant the run began, in UTC.
	StartedAt time.Time `json:"startedAt"`

	// Duration is the wall-clock time the run took.
	Duration time.Duration `json:"duration"`

	// Sources lists the corpus files evaluated, in load order.
	Sources []string `json:"sources"`

	// Report is the aggregate compliance outcome.
	Report *compliance.Report `json:"report"`
}

// Run loads the corpus sources and evaluates them in one enforcement
// batch. Loading any source fails the whole run; a loaded corpus whose
// content is defective does not, that is what findings are for.
func (r *Runner) Run(ctx context.Context, sources []string) (*RunRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	started := r.config.Clock().UTC()
	subjects, err := LoadSources(sources)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report := r.enforcer.Evaluate(subjects)
	record := &RunRecord{
		ID:        uuid.New(),
		StartedAt: started,
		Duration:  r.config.Clock().UTC().Sub(started),
		Sources:   append([]string(nil), sources...),
		Report:    report,
	}

	r.logger.Info("audit run complete",
		"run_id", record.ID.String(),
		"sources", len(record.Sources),
		"subjects", report.Subjects,
		"errors", report.ErrorCount(),
		"warnings", report.WarningCount(),
		"status", string(report.Status),
		"duration_ms", record.Duration.Milliseconds(),
	)
	if r.config.Metrics != nil {
		r.config.Metrics.RecordRun(record)
	}

	return record, nil
}

// RunSubjects evaluates an already-loaded subject batch, for callers that
// assemble corpora themselves.
func (r *Runner) RunSubjects(ctx context.Context, subjects []compliance.Subject) (*RunRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	started := r.config.Clock().UTC()
	report := r.enforcer.Evaluate(subjects)
	record := &RunRecord{
		ID:        uuid.New(),
		StartedAt: started,
		Duration:  r.config.Clock().UTC().Sub(started),
		Report:    report,
	}

	if r.config.Metrics != nil {
		r.config.Metrics.RecordRun(record)
	}
	return record, nil
}
