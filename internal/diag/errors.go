// Package diag carries the error taxonomy shared by the parsing passes and the
// sink that row-level anomalies are reported to.
package diag

import "fmt"

// StructuralParseError marks a line that did not match the grammar where a
// value was required. The line or field is skipped and parsing goes on.
type StructuralParseError struct {
	Source string
	Line   int
	Field  string
	Err    error
}

func (e *StructuralParseError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s:%d: %v", e.Source, e.Line, e.Err)
	}
	return fmt.Sprintf("%s:%d: %s: %v", e.Source, e.Line, e.Field, e.Err)
}

func (e *StructuralParseError) Unwrap() error { return e.Err }

// UnresolvedReferenceError names an id that is absent from the fragment table.
type UnresolvedReferenceError struct {
	Kind string
	ID   string
}

func (e *UnresolvedReferenceError) Error() string {
	return fmt.Sprintf("unresolved %s %q", e.Kind, e.ID)
}

// IOFailure is the only error class that aborts a run.
type IOFailure struct {
	Op   string
	Path string
	Err  error
}

func (e *IOFailure) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOFailure) Unwrap() error { return e.Err }
