/*
Package booking provides the core reservation validation engine.

PURPOSE:
  This package contains the domain types and algorithms for reserving a
  capacity-bounded resource (a room) for a department over a bounded time
  interval. It guarantees that accepted reservations never conflict with
  each other and never violate the resource's declared operating
  constraints (department ownership, capacity, open hours).

KEY CONCEPTS IN THIS FILE (types.go):
  - ResourceConfig: A department-scoped booking configuration for a resource
  - Reservation:    An immutable, persisted booking of one contiguous interval
  - Request:        A proposed reservation, before validation
  - Resource/Reservation IDs: Type-safe identifiers

DESIGN PRINCIPLES:
  1. Immutability: Reservations are never updated, only created or removed
  2. Purity: Validation is a pure function of (request, config); all shared
     state lives behind the transactional ReservationStore
  3. Type Safety: Strong typing for IDs prevents mixing resource/reservation IDs
  4. UTC convention: All instants are absolute UTC timestamps; availability
     windows are evaluated against the UTC wall clock directly

USAGE:
  svc := booking.NewService(directory, store)
  res, err := svc.Submit(ctx, booking.Request{
      ResourceName:  "A-01-01",
      Department:    "EFM",
      AttendeeCount: 8,
      StartAt:       start,
      EndAt:         end,
  })

SEE ALSO:
  - window.go:   Availability window grammar and evaluation
  - pipeline.go: Ordered validation rules
  - service.go:  Submit/list orchestration
  - errors.go:   Typed validation failures
*/
package booking

import (
	"context"
	"time"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type ResourceID string
type ReservationID string

// =============================================================================
// RESOURCE CONFIG - Department-scoped booking constraints for one resource
// =============================================================================

// ResourceConfig describes how a single department may book a single resource.
// The resource directory guarantees at most one config per (resource,
// department) pair; the engine consumes that as a precondition.
//
// The config is read-only to the engine: it holds a transient reference for
// the duration of one validation and never mutates it.
type ResourceConfig struct {
	ResourceID ResourceID
	Department string

	// Capacity is the maximum simultaneous occupant count.
	Capacity int

	// AvailabilityWindow is an optional window-grammar string, e.g.
	// "Mon to Fri (9AM to 6PM)". Empty means unrestricted.
	AvailabilityWindow string
}

// Unrestricted reports whether the config carries no availability window.
func (c ResourceConfig) Unrestricted() bool {
	return c.AvailabilityWindow == ""
}

// =============================================================================
// REQUEST - A proposed reservation, before validation
// =============================================================================

// Request is the immutable input to the validation pipeline.
type Request struct {
	ResourceName  string
	Department    string
	AttendeeCount int
	StartAt       time.Time
	EndAt         time.Time
}

// =============================================================================
// RESERVATION - A persisted booking of one contiguous interval
// =============================================================================

// Reservation occupies the half-open interval [StartAt, EndAt). For a fixed
// resource, no two persisted reservations overlap; the ReservationStore
// enforces that invariant transactionally.
type Reservation struct {
	ID            ReservationID
	ResourceID    ResourceID
	Department    string
	AttendeeCount int
	StartAt       time.Time
	EndAt         time.Time
	CreatedAt     time.Time
}

// Overlaps reports whether the reservation's interval intersects
// [start, end) under half-open semantics.
func (r Reservation) Overlaps(start, end time.Time) bool {
	return r.StartAt.Before(end) && r.EndAt.After(start)
}

// =============================================================================
// COLLABORATOR INTERFACES
// =============================================================================

// Directory resolves resource names to department-scoped configs. It is the
// engine's view of the resource hierarchy; the hierarchy's own storage and
// CRUD lifecycle live elsewhere.
type Directory interface {
	// ResolveConfig returns the config attached to (resourceName, department),
	// or an error wrapping ErrUnknownScope when no such config exists.
	ResolveConfig(ctx context.Context, resourceName, department string) (*ResourceConfig, error)

	// ResourceExists reports whether any resource carries the given name,
	// regardless of department. Used only to sharpen UnknownScope diagnostics.
	ResourceExists(ctx context.Context, resourceName string) (bool, error)
}

// ReservationStore persists reservations and enforces the no-overlap
// invariant under concurrent submissions.
type ReservationStore interface {
	// CreateReservation atomically re-checks for temporal overlap against
	// existing reservations for the same resource and inserts the candidate.
	// On collision it returns an error wrapping ErrSlotConflict; a commit-time
	// lock failure is reported identically so callers have one retry path.
	CreateReservation(ctx context.Context, res Reservation) (*Reservation, error)

	// ListReservations returns reservations ordered by creation time,
	// descending.
	ListReservations(ctx context.Context, filter ListFilter) ([]Reservation, error)
}

// ListFilter narrows and pages a reservation listing. A zero ResourceName
// matches every resource. Limit <= 0 means no limit.
type ListFilter struct {
	ResourceName string
	Limit        int
	Offset       int
}
