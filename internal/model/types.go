package model

import "fmt"

// Location represents the physical location of a test block in its host file
type Location struct {
	FilePath string
	Line     int
}

func (l Location) String() string {
	return fmt.Sprintf("%s:%d", l.FilePath, l.Line)
}

// RegionKind classifies how a region was recognized in the host file
type RegionKind string

const (
	// KindTaggedComment is a block comment opening with the test marker
	KindTaggedComment RegionKind = "tagged-comment"
	// KindFencedDocument is a Markdown document scanned for top-level fences
	KindFencedDocument RegionKind = "fenced-document"
)

// Region is a span of host-file text recognized as carrying SQL test blocks.
// Its Text is the inner content (after the marker for tagged comments) and is
// handed to the block extractor as a standalone Markdown fragment.
type Region struct {
	Location Location // position of the first content line
	Kind     RegionKind
	Start    int // byte offset of the region content in the host file
	End      int
	Text     string
}

// TestCase is one extracted query with an optional expectation.
type TestCase struct {
	Location Location // line of the opening ```sql fence
	Name     string   // joined enclosing headings, may be empty
	Query    string
	Expected string
	// IgnoreOutput marks a run-only test: the query is executed and a clean
	// execution alone is the assertion.
	IgnoreOutput bool
	// Transactional tests run inside a transaction that is rolled back, so
	// they leave no state behind for later tests in the same file.
	Transactional bool
}

// ID is the stable identifier of the test within a run.
func (t TestCase) ID() string {
	return t.Location.String()
}

// DisplayName is the heading-derived name, falling back to the location.
func (t TestCase) DisplayName() string {
	if t.Name != "" {
		return t.Name
	}
	return t.Location.String()
}

// ExecutionResult is the engine's answer for one test case: a rendered
// textual grid, or the failure the engine reported.
type ExecutionResult struct {
	Output string
	Err    error
}

// Status is the per-test outcome after execution and comparison
type Status string

const (
	StatusPassed    Status = "PASS"
	StatusFailed    Status = "FAIL"
	StatusSkipped   Status = "SKIP" // ran fine, nothing to verify
	StatusExecError Status = "ERROR"
)

// LineDiff is one mismatched line of a failed comparison
type LineDiff struct {
	Line     int // 1-based line within the normalized blocks
	Expected string
	Actual   string
}

// Verdict is the recorded outcome for one test case
type Verdict struct {
	Test   TestCase
	Status Status
	Diff   []LineDiff // populated for StatusFailed
	Reason string     // populated for StatusExecError
}

// Diagnostic is a non-fatal lexical problem, e.g. an unterminated comment or
// fence. The affected region is dropped and the run continues.
type Diagnostic struct {
	Location Location
	Message  string
}

// FileResult is the outcome of one file's scan+execute pipeline
type FileResult struct {
	File        string
	Verdicts    []Verdict
	Diagnostics []Diagnostic
}

// FileError is an I/O-level failure to process a file at all. The file is
// excluded from the report; other files are still processed.
type FileError struct {
	File string
	Err  error
}

// Report is the finalized result of a run
type Report struct {
	Verdicts    []Verdict
	Diagnostics []Diagnostic
	FileErrors  []FileError

	Total      int
	Passed     int
	Failed     int
	Skipped    int
	ExecErrors int
}

// Success reports whether the run should exit zero
func (r *Report) Success() bool {
	return r.Failed == 0 && r.ExecErrors == 0
}
