/*
errors.go - Centralized error types for the booking engine

PURPOSE:
  All validation failures in one place for consistency and discoverability.
  Callers branch on sentinel errors with errors.Is() and recover details
  with errors.As().

ERROR CATEGORIES:
  1. Malformed input   - unparseable window string, non-monotonic interval
  2. Business rejection - scope, capacity, availability window
  3. Concurrency conflict - slot conflicts, including translated commit-time
     lock failures (the one retryable category)

Infrastructure failures (storage errors unrelated to lock contention) are
propagated unmodified and are deliberately NOT part of this taxonomy.

USAGE:
  res, err := svc.Submit(ctx, req)
  if errors.Is(err, booking.ErrSlotConflict) {
      // resubmit later
  }
  var capErr *booking.CapacityError
  if errors.As(err, &capErr) {
      log.Printf("room seats %d, asked for %d", capErr.Capacity, capErr.Requested)
  }

SEE ALSO:
  - pipeline.go: Produces these errors in a fixed order
  - store/sqlite: Translates lock failures into ErrSlotConflict
*/
package booking

import (
	"errors"
	"fmt"
	"time"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrMalformedWindow is returned when an availability-window string
	// matches neither the "Always Available" sentinel nor the window grammar.
	ErrMalformedWindow = errors.New("malformed availability window")

	// ErrInvalidInterval is returned when a request's start is not strictly
	// before its end.
	ErrInvalidInterval = errors.New("invalid reservation interval")

	// ErrUnknownScope is returned when no config exists for the requested
	// (resource, department) pair: either the resource is missing entirely,
	// or it exists but is not bookable by that department.
	ErrUnknownScope = errors.New("unknown booking scope")

	// ErrCapacityExceeded is returned when the attendee count exceeds the
	// configured capacity.
	ErrCapacityExceeded = errors.New("capacity exceeded")

	// ErrOutsideWindow is returned when a request endpoint falls outside the
	// configured availability window.
	ErrOutsideWindow = errors.New("outside availability window")

	// ErrSlotConflict is returned when the requested interval overlaps an
	// existing reservation for the same resource. Commit-time lock failures
	// are reported as this same error so callers have exactly one retry path.
	ErrSlotConflict = errors.New("slot conflict")

	// ErrResourceNotFound is returned by directory operations referencing a
	// resource node that does not exist.
	ErrResourceNotFound = errors.New("resource not found")

	// ErrReservationNotFound is returned when removing or fetching a
	// reservation that does not exist.
	ErrReservationNotFound = errors.New("reservation not found")

	// ErrDuplicateScope is returned when attaching a second config to the
	// same (resource, department) pair.
	ErrDuplicateScope = errors.New("scope already configured")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// IntervalError reports a non-monotonic reservation interval.
type IntervalError struct {
	Start time.Time
	End   time.Time
}

func (e *IntervalError) Error() string {
	return fmt.Sprintf("invalid interval: start %s is not before end %s",
		e.Start.Format(time.RFC3339), e.End.Format(time.RFC3339))
}

func (e *IntervalError) Unwrap() error { return ErrInvalidInterval }

// UnknownScopeError reports a missing (resource, department) config.
// ResourceExists distinguishes "no such resource" from "resource exists but
// is not bookable by this department".
type UnknownScopeError struct {
	ResourceName   string
	Department     string
	ResourceExists bool
}

func (e *UnknownScopeError) Error() string {
	if e.ResourceExists {
		return fmt.Sprintf("resource %q is not bookable by department %q", e.ResourceName, e.Department)
	}
	return fmt.Sprintf("no bookable resource %q for department %q", e.ResourceName, e.Department)
}

func (e *UnknownScopeError) Unwrap() error { return ErrUnknownScope }

// CapacityError reports an attendee count above the configured capacity.
type CapacityError struct {
	Capacity  int
	Requested int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("capacity exceeded: room seats %d, requested %d", e.Capacity, e.Requested)
}

func (e *CapacityError) Unwrap() error { return ErrCapacityExceeded }

// WindowEndpoint names which end of the requested interval fell outside the
// availability window.
type WindowEndpoint string

const (
	EndpointStart WindowEndpoint = "start"
	EndpointEnd   WindowEndpoint = "end"
)

// WindowError reports a request endpoint outside the availability window.
type WindowError struct {
	Endpoint WindowEndpoint
	At       time.Time
	Window   string
}

func (e *WindowError) Error() string {
	return fmt.Sprintf("reservation %s %s is outside availability window %q",
		e.Endpoint, e.At.Format(time.RFC3339), e.Window)
}

func (e *WindowError) Unwrap() error { return ErrOutsideWindow }

// ConflictError reports a temporal overlap with an existing reservation.
// A zero colliding interval means the conflict was detected at commit time
// (two transactions interleaved) rather than by the pre-check.
type ConflictError struct {
	ResourceID    ResourceID
	ExistingStart time.Time
	ExistingEnd   time.Time
}

func (e *ConflictError) Error() string {
	if e.ExistingStart.IsZero() {
		return fmt.Sprintf("slot conflict on resource %s: concurrent reservation committed first", e.ResourceID)
	}
	return fmt.Sprintf("slot conflict on resource %s: collides with [%s, %s)",
		e.ResourceID, e.ExistingStart.Format(time.RFC3339), e.ExistingEnd.Format(time.RFC3339))
}

func (e *ConflictError) Unwrap() error { return ErrSlotConflict }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsRetryable returns true if resubmitting the identical request might
// succeed. Only slot conflicts qualify: the colliding reservation may have
// been removed, or the contending transaction may have aborted.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrSlotConflict)
}

// IsClientError returns true if the error is due to invalid client input or
// a business-rule rejection, as opposed to resource state or infrastructure.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidInterval) ||
		errors.Is(err, ErrCapacityExceeded) ||
		errors.Is(err, ErrOutsideWindow) ||
		errors.Is(err, ErrMalformedWindow) ||
		errors.Is(err, ErrDuplicateScope)
}

// IsNotFound returns true if the error indicates a missing resource, scope,
// or reservation.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrUnknownScope) ||
		errors.Is(err, ErrResourceNotFound) ||
		errors.Is(err, ErrReservationNotFound)
}
