package audit

import "fmt"

// CorpusError reports a corpus file that cannot be loaded: unreadable,
// not valid YAML, or structurally off. Content defects inside a loadable
// corpus (a malformed identifier, say) are not load errors; they become
// subjects and surface as findings.
type CorpusError struct {
	Path    string // corpus file, empty for in-memory loads
	Line    int    // 1-based source line, 0 when unknown
	Message string // what is wrong
	Err     error  // underlying cause, may be nil
}

// Error implements the error interface.
func (e *CorpusError) Error() string {
	msg := "corpus load failed: " + e.Message
	switch {
	case e.Path != "" && e.Line > 0:
		msg = fmt.Sprintf("corpus load failed (%s:%d): %s", e.Path, e.Line, e.Message)
	case e.Path != "":
		msg = fmt.Sprintf("corpus load failed (%s): %s", e.Path, e.Message)
	case e.Line > 0:
		msg = fmt.Sprintf("corpus load failed (line %d): %s", e.Line, e.Message)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying cause for errors.Is/As chains.
func (e *CorpusError) Unwrap() error {
	return e.Err
}
