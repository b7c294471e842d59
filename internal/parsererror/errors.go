// Package parsererror defines the typed errors surfaced by the import
// pipeline. Row-level degradations carry enough context to report the
// offending row without failing the whole session.
package parsererror

import "fmt"

// EmptyInputError reports a file that yields no headers or no usable rows.
// It aborts the current import step; nothing is committed.
type EmptyInputError struct {
	Source string
	Reason string
}

func (e *EmptyInputError) Error() string {
	return fmt.Sprintf("no usable data in %s: %s", e.Source, e.Reason)
}

// MappingError reports a column mapping that does not cover the required
// target fields.
type MappingError struct {
	MissingFields []string
}

func (e *MappingError) Error() string {
	return fmt.Sprintf("column mapping incomplete, unmapped required fields: %v", e.MissingFields)
}

// RowError reports a row-level defect, e.g. a date that could not be parsed.
// The row is excluded from the candidates; the import continues.
type RowError struct {
	Row   int
	Field string
	Value string
	Err   error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: failed to parse %s='%s': %v", e.Row, e.Field, e.Value, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// StateError reports an import session operation invoked out of order. This
// is a programming error, not a user-recoverable condition.
type StateError struct {
	Op       string
	State    string
	Expected string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("%s called in state %s, expected %s", e.Op, e.State, e.Expected)
}
