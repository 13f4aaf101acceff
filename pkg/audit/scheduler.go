package audit

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// SchedulerConfig configures a Scheduler.
type SchedulerConfig struct {
	// Schedule is the cron expression driving repeated runs, in the
	// standard five-field form ("*/10 * * * *", "0 3 * * *", ...).
	Schedule string

	// Sources are the corpus files each scheduled run evaluates.
	Sources []string
}

// Scheduler repeats audit runs on a cron schedule. Each completed run is
// handed to the callback registered at start; a failed run is logged and
// the schedule keeps going.
type Scheduler struct {
	runner  *Runner
	config  SchedulerConfig
	cron    *cron.Cron
	mu      sync.Mutex
	logger  *slog.Logger
	running bool
}

// NewScheduler creates a scheduler around a runner.
func NewScheduler(runner *Runner, config SchedulerConfig) *Scheduler {
	return &Scheduler{
		runner: runner,
		config: config,
		cron:   cron.New(),
		logger: slog.Default().With("component", "audit.scheduler"),
	}
}

// Start begins scheduled runs. The callback receives every completed run
// record; it is invoked from the cron goroutine, one run at a time.
// Cancelling the context stops the scheduler.
func (s *Scheduler) Start(ctx context.Context, onRecord func(*RunRecord)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("scheduler already running")
	}
	if s.config.Schedule == "" {
		return fmt.Errorf("no schedule configured")
	}

	// Validate cron expression
	if _, err := cron.ParseStandard(s.config.Schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", s.config.Schedule, err)
	}

	_, err := s.cron.AddFunc(s.config.Schedule, func() {
		s.runScheduled(ctx, onRecord)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule audit runs: %w", err)
	}

	s.cron.Start()
	s.running = true

	s.logger.Info("audit scheduler started",
		"schedule", s.config.Schedule,
		"sources", len(s.config.Sources),
	)

	// Wait for context cancellation in background
	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// runScheduled executes one scheduled audit run.
func (s *Scheduler) runScheduled(ctx context.Context, onRecord func(*RunRecord)) {
	s.logger.Debug("starting scheduled audit run")

	record, err := s.runner.Run(ctx, s.config.Sources)
	if err != nil {
		s.logger.Error("scheduled audit run failed",
			"error", err,
		)
		return
	}

	if onRecord != nil {
		onRecord(record)
	}
}

// Stop stops the scheduler and waits for any running jobs to complete.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil && s.running {
		ctx := s.cron.Stop()
		<-ctx.Done() // Wait for running jobs to finish
		s.running = false
		s.logger.Info("audit scheduler stopped")
	}
}

// IsRunning returns true if the scheduler is running.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.running
}

// NextRun returns the next scheduled run time, or nil when nothing is
// scheduled.
func (s *Scheduler) NextRun() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron == nil {
		return nil
	}

	entries := s.cron.Entries()
	if len(entries) == 0 {
		return nil
	}

	next := entries[0].Next
	return &next
}
