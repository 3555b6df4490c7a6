/*
errors.go - Centralized error types for the directory

PURPOSE:
  All error types in one place for consistency and discoverability.
  Callers use errors.Is against the sentinels; the HTTP layer maps them to
  status codes via IsNotFound / IsClientError.

ERROR CATEGORIES:
  1. Lookup errors - Referenced record does not exist
  2. Input errors - Unknown sort field, bad page size, bad status
  3. State errors - Operation not valid in the current controller state

Form validation failures are not here; they are validator.ValidationErrors
and carry one message per field.

SEE ALSO:
  - form.go: Returns validator.ValidationErrors
  - api/response.go: Maps these errors to HTTP statuses
*/
package directory

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrEmployeeNotFound is returned when a referenced record doesn't exist.
	ErrEmployeeNotFound = errors.New("employee not found")

	// ErrInvalidSortField is returned for fields outside the comparator table.
	ErrInvalidSortField = errors.New("invalid sort field")

	// ErrInvalidPageSize is returned when a page size is not positive.
	ErrInvalidPageSize = errors.New("invalid page size")

	// ErrInvalidStatus is returned for statuses outside Statuses.
	ErrInvalidStatus = errors.New("invalid status")

	// ErrInvalidViewMode is returned for view modes other than grid/list.
	ErrInvalidViewMode = errors.New("invalid view mode")

	// ErrFormClosed is returned when submitting a form that was never opened.
	ErrFormClosed = errors.New("form is not open")

	// ErrNoPendingDelete is returned when confirming without a staged delete.
	ErrNoPendingDelete = errors.New("no delete pending")

	// ErrNothingSelected is returned by bulk operations on an empty selection.
	ErrNothingSelected = errors.New("no employees selected")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// NotFoundError names the id that was looked up.
type NotFoundError struct {
	ID int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("employee %d not found", e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return ErrEmployeeNotFound
}

// InvalidValueError describes a rejected input value.
type InvalidValueError struct {
	Field string
	Value string
	Err   error
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Field, e.Value, e.Err)
}

func (e *InvalidValueError) Unwrap() error {
	return e.Err
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsNotFound reports whether err is a missing-record error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrEmployeeNotFound)
}

// IsClientError reports whether err was caused by caller input rather than
// by the system.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidSortField) ||
		errors.Is(err, ErrInvalidPageSize) ||
		errors.Is(err, ErrInvalidStatus) ||
		errors.Is(err, ErrInvalidViewMode) ||
		errors.Is(err, ErrFormClosed) ||
		errors.Is(err, ErrNoPendingDelete) ||
		errors.Is(err, ErrNothingSelected)
}
