package export

import (
	"context"
	"encoding/json"
	"io"

	"barton-hq/meridian/pkg/compliance"
)

// JSONExporter exports compliance reports to JSON format.
type JSONExporter struct {
	// Pretty enables pretty-printing with indentation.
	Pretty bool
}

// NewJSONExporter creates a new JSON exporter.
func NewJSONExporter(pretty bool) *JSONExporter {
	return &JSONExporter{
		Pretty: pretty,
	}
}

// Export writes compliance reports to the provided writer in JSON format.
//
// A single report exports as a JSON object; multiple reports export as an
// array of objects.
func (e *JSONExporter) Export(ctx context.Context, reports []*compliance.Report, w io.Writer) error {
	if len(reports) == 0 {
		_, err := w.Write([]byte("[]"))
		return err
	}

	var data []byte
	var err error

	if len(reports) == 1 {
		data, err = e.serializeReport(reports[0])
	} else {
		if e.Pretty {
			data, err = json.MarshalIndent(reports, "", "  ")
		} else {
			data, err = json.Marshal(reports)
		}
	}
	if err != nil {
		return newExportError("json", len(reports), err)
	}

	if _, err := w.Write(data); err != nil {
		return newExportError("json", len(reports), err)
	}
	return nil
}

// ExportStream exports compliance reports from a channel as a JSON array.
// Reports are written as they arrive, so long audit runs never hold more
// than one report in memory here.
func (e *JSONExporter) ExportStream(ctx context.Context, reports <-chan *compliance.Report, w io.Writer) error {
	if _, err := w.Write([]byte("[")); err != nil {
		return newExportError("json", 0, err)
	}

	first := true
	count := 0

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case report, ok := <-reports:
			if !ok {
				if _, err := w.Write([]byte("]")); err != nil {
					return newExportError("json", count, err)
				}
				return nil
			}

			if !first {
				if _, err := w.Write([]byte(",")); err != nil {
					return newExportError("json", count, err)
				}
				if e.Pretty {
					if _, err := w.Write([]byte("\n")); err != nil {
						return newExportError("json", count, err)
					}
				}
			}
			first = false

			data, err := e.serializeReport(report)
			if err != nil {
				return newExportError("json", count, err)
			}
			if _, err := w.Write(data); err != nil {
				return newExportError("json", count, err)
			}
			count++
		}
	}
}

// serializeReport serializes a single report to JSON.
func (e *JSONExporter) serializeReport(report *compliance.Report) ([]byte, error) {
	if e.Pretty {
		return json.MarshalIndent(report, "", "  ")
	}
	return json.Marshal(report)
}
