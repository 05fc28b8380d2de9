/*
errors.go - Error types for the attendance engine

ERROR CATEGORIES:
  1. Structural - the export is missing a required column; whole request fails
  2. Empty input - nothing to report for the requested window
  3. Request - bad parameters or an unreadable workbook

Row-level problems (bad date text, blank site) are never errors: the row is
dropped and processing continues.

USAGE:
  if errors.Is(err, attendance.ErrNoData) {
      // valid terminal state, tell the operator there is nothing to report
  }
*/
package attendance

import (
	"errors"
	"fmt"
	"strings"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrMissingColumn is returned when the header lacks a required column.
	ErrMissingColumn = errors.New("required column missing")

	// ErrNoData is returned when no punch falls inside the report window.
	ErrNoData = errors.New("no valid punch data for the requested period")

	// ErrInvalidRequest is returned for malformed report parameters.
	ErrInvalidRequest = errors.New("invalid report request")

	// ErrUnreadableWorkbook is returned when the upload cannot be opened as a sheet.
	ErrUnreadableWorkbook = errors.New("unreadable workbook")
)

// =============================================================================
// STRUCTURED ERRORS
// =============================================================================

// MissingColumnError lists the required columns absent from the header.
type MissingColumnError struct {
	Missing []string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("a required column is missing: %s", strings.Join(e.Missing, ", "))
}

func (e *MissingColumnError) Unwrap() error {
	return ErrMissingColumn
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is caused by the uploaded file or
// request parameters rather than by the engine.
func IsClientError(err error) bool {
	return errors.Is(err, ErrMissingColumn) ||
		errors.Is(err, ErrInvalidRequest) ||
		errors.Is(err, ErrUnreadableWorkbook)
}

// IsNoData returns true for the empty-period terminal state.
func IsNoData(err error) bool {
	return errors.Is(err, ErrNoData)
}
