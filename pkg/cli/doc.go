/*
Package cli provides command-line interface utilities for Barton Meridian.

The cli package includes output formatters, progress reporters, and common CLI
helpers used by the barton command.

Output Formatting:

The cli package supports multiple output formats (text, JSON, CSV) for
displaying command results:

	formatter := cli.NewFormatter(cli.FormatJSON)
	data := MyCommandResult{...}
	if err := formatter.FormatTo(os.Stdout, data); err != nil {
		return err
	}

CSV output requires the value to implement RowMarshaler; text and JSON
formatting work on any value.

Progress Reporting:

For long-running corpus evaluations, use the progress reporter:

	progress := cli.NewProgressReporter(os.Stderr)
	progress.Start(totalSubjects)
	for i := 0; i < totalSubjects; i++ {
		// Evaluate subject
		progress.Update(int64(i + 1))
	}
	progress.Finish()

Signal Handling:

For graceful shutdown of watch mode and the audit daemon on SIGINT/SIGTERM:

	ctx := cli.SetupSignalHandler()
	// Use ctx for operations that should be cancelled on shutdown
*/
package cli
