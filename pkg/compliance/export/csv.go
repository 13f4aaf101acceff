package export

import (
	"context"
	"encoding/csv"
	"io"

	"barton-hq/meridian/pkg/compliance"
)

// CSVExporter exports compliance reports to CSV format, one row per
// finding. Clean reports contribute no rows beyond the header.
type CSVExporter struct {
	// IncludeHeader includes a header row with column names.
	IncludeHeader bool
}

// NewCSVExporter creates a new CSV exporter.
func NewCSVExporter(includeHeader bool) *CSVExporter {
	return &CSVExporter{
		IncludeHeader: includeHeader,
	}
}

// Export writes compliance reports to the provided writer in CSV format.
// Each finding becomes one row carrying its report's caller, registry
// version, and status for context.
func (e *CSVExporter) Export(ctx context.Context, reports []*compliance.Report, w io.Writer) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if e.IncludeHeader {
		if err := writer.Write(headerRow()); err != nil {
			return newExportError("csv", len(reports), err)
		}
	}

	for _, report := range reports {
		for _, row := range reportRows(report) {
			if err := writer.Write(row); err != nil {
				return newExportError("csv", len(reports), err)
			}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return newExportError("csv", len(reports), err)
	}
	return nil
}

// ExportStream exports compliance reports from a channel to CSV format,
// flushing after every report so consumers see progress on long runs.
func (e *CSVExporter) ExportStream(ctx context.Context, reports <-chan *compliance.Report, w io.Writer) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if e.IncludeHeader {
		if err := writer.Write(headerRow()); err != nil {
			return newExportError("csv", 0, err)
		}
	}

	count := 0
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case report, ok := <-reports:
			if !ok {
				writer.Flush()
				if err := writer.Error(); err != nil {
					return newExportError("csv", count, err)
				}
				return nil
			}

			for _, row := range reportRows(report) {
				if err := writer.Write(row); err != nil {
					return newExportError("csv", count, err)
				}
			}
			writer.Flush()
			if err := writer.Error(); err != nil {
				return newExportError("csv", count, err)
			}
			count++
		}
	}
}

// headerRow returns the CSV header row.
func headerRow() []string {
	return []string{
		"caller", "registry_version", "status",
		"subject_id", "rule", "severity", "message",
	}
}

// reportRows converts one report into CSV rows, one per finding.
func reportRows(report *compliance.Report) [][]string {
	rows := make([][]string, 0, len(report.Findings))
	for _, f := range report.Findings {
		rows = append(rows, []string{
			report.Caller,
			report.RegistryVersion,
			string(report.Status),
			f.SubjectID,
			f.Rule,
			string(f.Severity),
			f.Message,
		})
	}
	return rows
}
