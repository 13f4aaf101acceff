package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"barton-hq/meridian/pkg/audit"
	"barton-hq/meridian/pkg/cli"
	"barton-hq/meridian/pkg/compliance"
	"barton-hq/meridian/pkg/compliance/export"
	"barton-hq/meridian/pkg/config"
	"barton-hq/meridian/pkg/registry"
	"barton-hq/meridian/pkg/telemetry/logging"
)

var auditFlags struct {
	registry string
	schedule string
	export   string
	out      string
}

var auditCmd = &cobra.Command{
	Use:   "audit [source...]",
	Short: "Run compliance audits and export the run records",
	Long: `Evaluate a doctrine corpus in one enforcement batch and export the
run record: a UUID-stamped compliance report with timing and source
metadata.

Without --schedule the audit runs once and exits. With a cron schedule
("0 3 * * *") the command stays up and repeats the run until
interrupted, exporting every record as it completes.

Sources default to audit.sources from the configuration file, then to
the current directory. Directories are expanded through the gate
discovery globs.

Examples:
  barton audit ./doctrine
  barton audit --export csv --out audits.csv ./doctrine
  barton audit --schedule "0 3 * * *" ./doctrine`,
	RunE: runAudit,
}

func init() {
	rootCmd.AddCommand(auditCmd)

	auditCmd.Flags().StringVarP(&auditFlags.registry, "registry", "r", "", "registry file (built-in catalog when unset)")
	auditCmd.Flags().StringVar(&auditFlags.schedule, "schedule", "", "cron schedule for repeated runs")
	auditCmd.Flags().StringVar(&auditFlags.export, "export", "", "run record export format: json or csv")
	auditCmd.Flags().StringVarP(&auditFlags.out, "out", "o", "", "write exported records to a file instead of stdout")
}

func runAudit(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	reg, err := resolveRegistry(auditFlags.registry, cfg)
	if err != nil {
		return cli.NewCommandError("audit", err)
	}

	roots := args
	if len(roots) == 0 {
		roots = cfg.Audit.Sources
	}
	if len(roots) == 0 {
		roots = []string{"."}
	}

	sources, err := discoverCorpus(roots, cfg.Gate.Patterns)
	if err != nil {
		return cli.NewCommandError("audit", err)
	}
	if len(sources) == 0 {
		return cli.NewCommandError("audit",
			fmt.Errorf("no corpus files found under %s", strings.Join(roots, ", ")))
	}

	exportFormat := auditFlags.export
	if exportFormat == "" {
		exportFormat = cfg.Audit.Export
	}
	if exportFormat == "" {
		exportFormat = "json"
	}
	if exportFormat != "json" && exportFormat != "csv" {
		return cli.NewCommandError("audit",
			fmt.Errorf("unknown export format %q (valid: json, csv)", exportFormat))
	}

	outPath := auditFlags.out
	if outPath == "" {
		outPath = cfg.Audit.Out
	}

	schedule := auditFlags.schedule
	if schedule == "" {
		schedule = cfg.Audit.Schedule
	}

	if schedule != "" {
		return runAuditDaemon(cfg, reg, schedule, sources, exportFormat, outPath)
	}

	runner := audit.NewRunner(audit.RunnerConfig{
		Registry: reg,
		Caller:   cfg.Gate.Caller,
	})

	record, err := runner.Run(context.Background(), sources)
	if err != nil {
		return cli.NewCommandError("audit", err)
	}

	var sink io.Writer = os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return cli.NewCommandError("audit", fmt.Errorf("failed to create %s: %w", outPath, err))
		}
		defer f.Close()
		sink = f
	}
	if err := exportRecordTo(record, exportFormat, sink, true); err != nil {
		return cli.NewCommandError("audit", err)
	}
	return nil
}

// runAuditDaemon repeats audit runs on the cron schedule until the
// process receives an interrupt. Run metrics are registered here rather
// than in the one-shot path, once per process.
func runAuditDaemon(cfg *config.Config, reg *registry.Registry, schedule string, sources []string, exportFormat, outPath string) error {
	logger := appLogger.With("component", "audit.daemon")

	runner := audit.NewRunner(audit.RunnerConfig{
		Registry: reg,
		Caller:   cfg.Gate.Caller,
		Metrics:  audit.NewMetrics(),
	})

	var sink io.Writer = os.Stdout
	if outPath != "" {
		f, err := os.OpenFile(outPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return cli.NewCommandError("audit", fmt.Errorf("failed to open %s: %w", outPath, err))
		}
		defer f.Close()
		sink = f
	}

	ctx := cli.SetupSignalHandler()
	callerCtx := logging.WithCaller(ctx, cfg.Gate.Caller)

	headerWritten := false
	onRecord := func(record *audit.RunRecord) {
		recordCtx := logging.WithRunID(callerCtx, record.ID.String())
		if err := exportRecordTo(record, exportFormat, sink, !headerWritten); err != nil {
			logger.ErrorContext(recordCtx, "failed to export run record", "error", err)
			return
		}
		headerWritten = true
		logger.InfoContext(recordCtx, "run record exported",
			"status", string(record.Report.Status),
			"subjects", record.Report.Subjects,
			"errors", record.Report.ErrorCount(),
			"warnings", record.Report.WarningCount(),
		)
	}

	scheduler := audit.NewScheduler(runner, audit.SchedulerConfig{
		Schedule: schedule,
		Sources:  sources,
	})
	if err := scheduler.Start(ctx, onRecord); err != nil {
		return cli.NewCommandError("audit", err)
	}

	logger.Info("audit daemon running",
		"schedule", schedule,
		"sources", len(sources),
		"export", exportFormat,
	)

	<-ctx.Done()
	scheduler.Stop()
	logger.Info("audit daemon stopped")
	return nil
}

// exportRecordTo writes one run record to the sink. JSON output is the
// full record; CSV flattens the embedded report and writes the header
// only when asked, so appended daemon output stays parseable.
func exportRecordTo(record *audit.RunRecord, format string, w io.Writer, includeHeader bool) error {
	switch format {
	case "csv":
		exporter := export.NewCSVExporter(includeHeader)
		return exporter.Export(context.Background(), []*compliance.Report{record.Report}, w)
	default:
		out, err := json.MarshalIndent(record, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "%s\n", out)
		return err
	}
}
