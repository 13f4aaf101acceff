package export

import "fmt"

// ExportError reports a failed export, carrying the format and how many
// reports had been written when the failure occurred.
type ExportError struct {
	Format  string
	Reports int
	Err     error
}

// Error implements the error interface.
func (e *ExportError) Error() string {
	return fmt.Sprintf("%s export failed after %d report(s): %v", e.Format, e.Reports, e.Err)
}

// Unwrap returns the underlying error.
func (e *ExportError) Unwrap() error {
	return e.Err
}

func newExportError(format string, reports int, err error) *ExportError {
	return &ExportError{Format: format, Reports: reports, Err: err}
}
