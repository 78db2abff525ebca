// Package model defines core data structures for typeorg.
package model

// ParseStatus records whether a source file's text could be read.
type ParseStatus string

const (
	Parsed ParseStatus = "parsed"
	Failed ParseStatus = "failed"
)

// SourceFile is one scanned project file. Immutable after the scan phase.
type SourceFile struct {
	Path       string // absolute path
	RelPath    string // slash-separated, relative to project root
	Text       []byte
	Status     ParseStatus
	FailReason string
}

// DeclKind is the syntactic kind of a type declaration.
type DeclKind string

const (
	Interface DeclKind = "interface"
	TypeAlias DeclKind = "type"
	Enum      DeclKind = "enum"
)

// Member is one named member of a declaration with its type text.
// Member order is not significant; signatures sort members by name.
type Member struct {
	Name string
	Type string
}

// TypeDeclaration is a top-level type declaration extracted from one file.
// Name is unique within a file for a given kind; global uniqueness is not
// assumed and is exactly what duplicate detection checks.
type TypeDeclaration struct {
	File     string // RelPath of the declaring file
	Name     string
	Kind     DeclKind
	Exported bool
	Line     int // 1-based
	Col      int // 0-based
	EndLine  int

	Members    []Member
	TypeParams []string // generic parameter names, declaration order
	Heritage   []string // extends / top-level intersection operands

	// Signature is the structural signature hash. Populated by the graph
	// builder, since heritage expansion needs the whole-project table.
	Signature string
}

// ImportKind distinguishes the syntactic form of an import.
type ImportKind string

const (
	NamedImport     ImportKind = "named"
	DefaultImport   ImportKind = "default"
	NamespaceImport ImportKind = "namespace"
	TypeOnlyImport  ImportKind = "type-only"
)

// ImportEdge records "File imports Symbol from Specifier". Resolved is the
// RelPath of the target file, or "" for external (bare package) specifiers.
// External edges never participate in reusability or misplacement rules.
type ImportEdge struct {
	File      string
	Symbol    string
	Specifier string
	Resolved  string
	Kind      ImportKind
	Line      int
}

// ReExport records an `export ... from "./x"` statement. Star re-exports
// carry no Names.
type ReExport struct {
	File      string
	Specifier string
	Resolved  string
	Names     []string
	Star      bool
	Line      int
}

// FileResult is the per-file output of the parse phase, joined at the
// graph-build fan-in.
type FileResult struct {
	File      string
	Decls     []TypeDeclaration
	Imports   []ImportEdge
	ReExports []ReExport
}

// ErrorKind classifies recovered (non-fatal) failures.
type ErrorKind string

const (
	IoError         ErrorKind = "io"
	ParseError      ErrorKind = "parse"
	ResolutionError ErrorKind = "resolution"
)

// RecoveredError is a per-file failure the run survived. Surfaced as data,
// never thrown across phase boundaries.
type RecoveredError struct {
	Kind    ErrorKind `json:"kind"`
	File    string    `json:"file"`
	Message string    `json:"message"`
}

// AnalysisResult is the complete output of one run.
type AnalysisResult struct {
	Diagnostics []Diagnostic     `json:"diagnostics"`
	Errors      []RecoveredError `json:"errors,omitempty"`
	FileCount   int              `json:"fileCount"`
	DeclCount   int              `json:"declCount"`
}
