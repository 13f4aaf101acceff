package compliance

import (
	"fmt"
	"sort"

	"barton-hq/meridian/pkg/numbering"
)

// Status is the overall outcome of an enforcement run.
type Status string

const (
	// StatusPass means the run produced zero error-severity findings.
	// Warnings do not affect the status.
	StatusPass Status = "PASS"
	// StatusFail means at least one error-severity finding exists.
	StatusFail Status = "FAIL"
)

// Finding is one rule observation about one subject.
type Finding struct {
	// Rule is the name of the rule that produced the finding.
	Rule string `json:"rule"`
	// Severity is error or warning.
	Severity numbering.Severity `json:"severity"`
	// Message describes the observation.
	Message string `json:"message"`
	// SubjectID names the subject the finding is about.
	SubjectID string `json:"subjectId"`
}

// String formats the finding for display.
func (f Finding) String() string {
	return fmt.Sprintf("[%s] %s: %s (%s)", f.Severity, f.Rule, f.Message, f.SubjectID)
}

// Report is the aggregate outcome of one enforcement run. Reports are
// immutable once produced; findings are held in canonical order, so equal
// runs over equal inputs serialize to identical bytes.
type Report struct {
	// Caller is the identity the run was performed for. Empty for direct
	// enforcer use.
	Caller string `json:"caller,omitempty"`
	// RegistryVersion fingerprints the registry content in force.
	RegistryVersion string `json:"registryVersion"`
	// Status is PASS iff no error-severity finding exists.
	Status Status `json:"status"`
	// Subjects is the number of subjects evaluated.
	Subjects int `json:"subjects"`
	// Findings holds every rule observation in canonical order.
	Findings []Finding `json:"findings"`
}

// Passed reports whether the run passed.
func (r *Report) Passed() bool {
	return r.Status == StatusPass
}

// ErrorCount returns the number of error-severity findings.
func (r *Report) ErrorCount() int {
	count := 0
	for _, f := range r.Findings {
		if f.Severity == numbering.SeverityError {
			count++
		}
	}
	return count
}

// WarningCount returns the number of warning-severity findings.
func (r *Report) WarningCount() int {
	count := 0
	for _, f := range r.Findings {
		if f.Severity == numbering.SeverityWarning {
			count++
		}
	}
	return count
}

// Errors returns the error-severity findings in canonical order.
func (r *Report) Errors() []Finding {
	return r.bySeverity(numbering.SeverityError)
}

// Warnings returns the warning-severity findings in canonical order.
func (r *Report) Warnings() []Finding {
	return r.bySeverity(numbering.SeverityWarning)
}

func (r *Report) bySeverity(severity numbering.Severity) []Finding {
	var out []Finding
	for _, f := range r.Findings {
		if f.Severity == severity {
			out = append(out, f)
		}
	}
	return out
}

// FindingsFor returns the findings about one subject in canonical order.
func (r *Report) FindingsFor(subjectID string) []Finding {
	var out []Finding
	for _, f := range r.Findings {
		if f.SubjectID == subjectID {
			out = append(out, f)
		}
	}
	return out
}

// sortFindings orders findings canonically: by subject, then rule, then
// severity, then message. The order carries no contractual meaning but
// keeps reports byte-identical across runs.
func sortFindings(findings []Finding) {
	sort.Slice(findings, func(i, j int) bool {
		a, b := findings[i], findings[j]
		if a.SubjectID != b.SubjectID {
			return a.SubjectID < b.SubjectID
		}
		if a.Rule != b.Rule {
			return a.Rule < b.Rule
		}
		if a.Severity != b.Severity {
			return a.Severity < b.Severity
		}
		return a.Message < b.Message
	})
}

// statusFor derives the overall status from a canonical finding list.
func statusFor(findings []Finding) Status {
	for _, f := range findings {
		if f.Severity == numbering.SeverityError {
			return StatusFail
		}
	}
	return StatusPass
}
