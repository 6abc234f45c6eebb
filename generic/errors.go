/*
errors.go - Centralized error types for the engine and its host service

PURPOSE:
  All error types in one place for consistency and discoverability.
  The evaluators themselves never fail: they are total over their typed
  input. Errors exist at the boundary (parsing, validation) and in the
  host service (persistence, booking gating).

ERROR CATEGORIES:
  1. Boundary errors - Unparseable dates, inverted ranges, bad config
  2. Gating errors - Conflicted or sold-out departures
  3. Store errors - Missing or duplicate records

USAGE:
  if errors.Is(err, generic.ErrInvalidDateFormat) {
      // reject the request with 400
  }

  var avail *generic.AvailabilityError
  if errors.As(err, &avail) {
      // avail.Conflicts holds the human-readable reasons
  }

SEE ALSO:
  - time.go: ParseDate / ParseInstant produce InvalidDateError
  - booking/service.go: Produces AvailabilityError
*/
package generic

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidDateFormat is returned when a date or instant string cannot be
	// parsed. It must be raised before the value reaches an evaluator.
	ErrInvalidDateFormat = errors.New("invalid date format")

	// ErrInvalidRange is returned when a range ends before (or when) it starts.
	ErrInvalidRange = errors.New("invalid range")

	// ErrInvalidConfig is returned when a pricing configuration fails validation.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrValidation is returned when request fields fail validation.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound is returned when a referenced record doesn't exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateID is returned when a record with the same id already exists.
	ErrDuplicateID = errors.New("duplicate id")

	// ErrDepartureConflicted is returned when a booking or assignment would
	// double-book a resource or break the daily-hours policy.
	ErrDepartureConflicted = errors.New("departure has resource conflicts")

	// ErrSoldOut is returned when a departure has no seats left.
	ErrSoldOut = errors.New("departure sold out")

	// ErrInsufficientCapacity is returned when the party is larger than the
	// remaining seats.
	ErrInsufficientCapacity = errors.New("insufficient capacity")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InvalidDateError names the offending value and, when known, the field.
type InvalidDateError struct {
	Field  string
	Value  string
	Layout string
}

func (e *InvalidDateError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid date format for %s: %q (expected %s)", e.Field, e.Value, e.Layout)
	}
	return fmt.Sprintf("invalid date format: %q (expected %s)", e.Value, e.Layout)
}

func (e *InvalidDateError) Unwrap() error { return ErrInvalidDateFormat }

// WithField returns a copy of the error tagged with the request field name.
func WithField(err error, field string) error {
	var de *InvalidDateError
	if errors.As(err, &de) {
		cp := *de
		cp.Field = field
		return &cp
	}
	return err
}

// AvailabilityError is returned when the host refuses an operation because
// the availability verdict does not allow it.
type AvailabilityError struct {
	Status    string
	Conflicts []string
}

func (e *AvailabilityError) Error() string {
	if len(e.Conflicts) == 0 {
		return fmt.Sprintf("departure unavailable: %s", e.Status)
	}
	return fmt.Sprintf("departure unavailable: %s (%s)", e.Status, strings.Join(e.Conflicts, "; "))
}

func (e *AvailabilityError) Unwrap() error {
	if e.Status == "sold-out" {
		return ErrSoldOut
	}
	return ErrDepartureConflicted
}

// ValidationError aggregates field-level problems.
type ValidationError struct {
	Fields map[string][]string
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string][]string)}
}

func (e *ValidationError) Add(field, msg string) {
	e.Fields[field] = append(e.Fields[field], msg)
}

func (e *ValidationError) HasErrors() bool { return len(e.Fields) > 0 }

// OrNil returns nil when no field failed, so callers can `return verr.OrNil()`.
func (e *ValidationError) OrNil() error {
	if !e.HasErrors() {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e.Fields[k], ", "))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidDateFormat) ||
		errors.Is(err, ErrInvalidRange) ||
		errors.Is(err, ErrInvalidConfig) ||
		errors.Is(err, ErrValidation)
}

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConflict returns true if the error is a gating refusal or a duplicate.
func IsConflict(err error) bool {
	return errors.Is(err, ErrDepartureConflicted) ||
		errors.Is(err, ErrSoldOut) ||
		errors.Is(err, ErrInsufficientCapacity) ||
		errors.Is(err, ErrDuplicateID)
}
