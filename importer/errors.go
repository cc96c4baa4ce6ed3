package importer

import (
	"fmt"
)

// FormatError reports a file that cannot be decoded or opened at all.
type FormatError struct {
	FileType FileType
	Err      error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("unreadable %s file: %v", e.FileType, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }

// StructuralError reports a file without a header row and at least one data row.
type StructuralError struct {
	FileType FileType
	Lines    int
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("%s file must contain a header row and at least one data row (found %d non-empty lines)", e.FileType, e.Lines)
}

// FieldCoercionError reports a cell that cannot safely be converted.
type FieldCoercionError struct {
	Row   int
	Field Field
	Value string
}

func (e *FieldCoercionError) Error() string {
	return rowMessage(e.Row, fmt.Sprintf("%s %q is not a valid amount", fieldLabel(e.Field), e.Value))
}

// ValidationError is one rule violation on one row.
type ValidationError struct {
	Row     int
	Message string
}

func (e ValidationError) Error() string {
	return rowMessage(e.Row, e.Message)
}

// DuplicateEntry describes a row that repeats an identity from an earlier row.
type DuplicateEntry struct {
	Row     int
	Message string
}

func (d DuplicateEntry) String() string {
	return rowMessage(d.Row, d.Message)
}

// PersistenceError wraps a store failure for exactly one row.
type PersistenceError struct {
	Row int
	Err error
}

func (e *PersistenceError) Error() string {
	return rowMessage(e.Row, e.Err.Error())
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// ImportFailure is returned when a batch is rejected before any row is
// processed. It carries what the caller needs to build an error response.
type ImportFailure struct {
	FileType FileType
	FileName string
	Err      error
}

func (e *ImportFailure) Error() string {
	return fmt.Sprintf("parse %s: %v", e.FileName, e.Err)
}

func (e *ImportFailure) Unwrap() error { return e.Err }

func rowMessage(row int, message string) string {
	return fmt.Sprintf("Row %d: %s", row, message)
}
