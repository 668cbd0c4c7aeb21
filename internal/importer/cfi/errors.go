package cfi

import (
	"errors"
	"fmt"
)

var (
	// ErrTableNotFound is reported as a diagnostic, never returned, when no
	// header row resembles the target title.
	ErrTableNotFound = errors.New("target table not found")

	// ErrEmptyTable is reported as a diagnostic when the title row is
	// immediately followed by another header row.
	ErrEmptyTable = errors.New("target table has no rows")
)

// MissingRowError reports a required labeled row that is absent from the table.
type MissingRowError struct {
	Label string
}

func (e *MissingRowError) Error() string {
	return fmt.Sprintf("missing %q row", e.Label)
}

// AlignmentError reports a labeled row whose data cells do not line up with
// the date ranges of the table.
type AlignmentError struct {
	Label string
	Want  int
	Got   int
}

func (e *AlignmentError) Error() string {
	return fmt.Sprintf("row %q has %d data cells, want %d to match the date ranges", e.Label, e.Got, e.Want)
}

// DuplicateRangeError reports a date range that appears twice in one table.
type DuplicateRangeError struct {
	Key string
}

func (e *DuplicateRangeError) Error() string {
	return fmt.Sprintf("duplicate date range %q", e.Key)
}

// DateError reports a date range whose endpoints are not valid dates.
type DateError struct {
	Range string
	Err   error
}

func (e *DateError) Error() string {
	return fmt.Sprintf("date range %q: %v", e.Range, e.Err)
}

func (e *DateError) Unwrap() error { return e.Err }

// NoValueError reports a blank or non-numeric cell for one category.
type NoValueError struct {
	Range    string
	Category string
}

func (e *NoValueError) Error() string {
	return fmt.Sprintf("date range %q: no value for %q", e.Range, e.Category)
}
