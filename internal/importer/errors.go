package importer

import (
	"errors"
	"fmt"
)

// File-level errors abort the import before any row is stored.
var (
	ErrUnreadableFile        = errors.New("unreadable file")
	ErrEmptyFile             = errors.New("file needs a header and at least one data row")
	ErrMissingRequiredColumn = errors.New("missing required column")
	ErrFileTooLarge          = errors.New("file too large")
	ErrMissingActor          = errors.New("import needs an acting user")
)

// Row-level errors skip the row and are reported in the Outcome.
var (
	ErrInvalidDate         = errors.New("invalid date")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrColumnCountMismatch = errors.New("too few columns")
)

// MissingColumnError names the required column the header lacks.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingRequiredColumn, e.Column)
}

func (e *MissingColumnError) Is(target error) bool {
	return target == ErrMissingRequiredColumn
}

// RowError ties a row-level failure to its 1-based row number. The header is row 1.
type RowError struct {
	Row int
	Err error
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

func (e RowError) Unwrap() error {
	return e.Err
}
