package registry

import "fmt"

// LoadError reports a structurally invalid registry source. Registry
// loading fails fast: the first structural defect aborts the load, because
// a half-loaded catalog would let invalid identifiers through.
type LoadError struct {
	Path    string // source file, empty for in-memory loads
	Line    int    // 1-based source line, 0 when unknown
	Message string // what is wrong
	Err     error  // underlying cause, may be nil
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	msg := "registry load failed: " + e.Message
	switch {
	case e.Path != "" && e.Line > 0:
		msg = fmt.Sprintf("registry load failed (%s:%d): %s", e.Path, e.Line, e.Message)
	case e.Path != "":
		msg = fmt.Sprintf("registry load failed (%s): %s", e.Path, e.Message)
	case e.Line > 0:
		msg = fmt.Sprintf("registry load failed (line %d): %s", e.Line, e.Message)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying cause for errors.Is/As chains.
func (e *LoadError) Unwrap() error {
	return e.Err
}
