package model

import "sort"

// DiagnosticKind identifies the rule that produced a diagnostic.
type DiagnosticKind string

const (
	Duplicate           DiagnosticKind = "duplicate"
	CandidateDuplicate  DiagnosticKind = "candidate-duplicate"
	ShouldCentralize    DiagnosticKind = "should-centralize"
	Misplaced           DiagnosticKind = "misplaced"
	MissingBarrelExport DiagnosticKind = "missing-barrel-export"
	ImportCycle         DiagnosticKind = "import-cycle"
)

// Severity is the weight of a diagnostic.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

var severityRank = map[Severity]int{
	SeverityInfo:    0,
	SeverityWarning: 1,
	SeverityError:   2,
}

// AtLeast reports whether s is at least as severe as min.
func (s Severity) AtLeast(min Severity) bool {
	return severityRank[s] >= severityRank[min]
}

// Location is a file position referenced by a diagnostic.
type Location struct {
	File string `json:"file"`
	Line int    `json:"line"`
}

// Diagnostic is one actionable finding. Suggestion is free text for the
// reporter; nothing is auto-applied.
type Diagnostic struct {
	Kind       DiagnosticKind `json:"kind"`
	Severity   Severity       `json:"severity"`
	File       string         `json:"file"`
	Line       int            `json:"line"`
	Name       string         `json:"name"`
	Related    []Location     `json:"related,omitempty"`
	Message    string         `json:"message"`
	Suggestion string         `json:"suggestion,omitempty"`
}

// SortDiagnostics orders diagnostics by file, line, kind, then name so that
// repeated runs over unchanged source produce byte-identical output.
func SortDiagnostics(diags []Diagnostic) {
	sort.SliceStable(diags, func(i, j int) bool {
		a, b := &diags[i], &diags[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		return a.Name < b.Name
	})
}

// SortRecovered orders recovered errors by file then message.
func SortRecovered(errs []RecoveredError) {
	sort.SliceStable(errs, func(i, j int) bool {
		if errs[i].File != errs[j].File {
			return errs[i].File < errs[j].File
		}
		return errs[i].Message < errs[j].Message
	})
}
