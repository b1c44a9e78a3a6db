/*
service.go - Reservation submission and listing

PURPOSE:
  Orchestrates one reservation attempt end to end: resolve the scope via the
  directory, run the validation pipeline, then hand the candidate to the
  reservation store, whose transactional insert enforces the no-overlap
  invariant.

CONTROL FLOW:
  Submit(request)
    -> interval sanity check
    -> Directory.ResolveConfig (UnknownScope on miss, sharpened with
       ResourceExists for diagnostics)
    -> Validate (capacity, availability window)
    -> ReservationStore.CreateReservation (overlap pre-check + insert inside
       one serializable transaction; SlotConflict on collision)

  The service itself is stateless; each request is handled independently and
  all coordination happens through the store. Validation failures leave no
  trace, and a request abandoned via context cancellation before commit rolls
  back with no partial effects.

SEE ALSO:
  - pipeline.go:  The rule sequence
  - store/sqlite: The transactional store implementation
*/
package booking

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Service is the engine's entry point for the request-handling layer.
type Service struct {
	Directory    Directory
	Reservations ReservationStore

	// Now supplies creation timestamps; overridable in tests.
	Now func() time.Time
}

// NewService creates a service over the given collaborators.
func NewService(dir Directory, store ReservationStore) *Service {
	return &Service{
		Directory:    dir,
		Reservations: store,
		Now:          func() time.Time { return time.Now().UTC() },
	}
}

// Submit validates a proposed reservation and persists it atomically with
// the overlap check. It returns the persisted reservation, or the first
// typed failure the pipeline produced.
func (s *Service) Submit(ctx context.Context, req Request) (*Reservation, error) {
	// Interval sanity runs before scope resolution so a malformed request is
	// reported as such even when the scope is also missing.
	if err := checkInterval(req, nil); err != nil {
		return nil, err
	}

	cfg, err := s.resolveScope(ctx, req.ResourceName, req.Department)
	if err != nil {
		return nil, err
	}

	if err := Validate(req, cfg); err != nil {
		return nil, err
	}

	candidate := Reservation{
		ID:            ReservationID(uuid.NewString()),
		ResourceID:    cfg.ResourceID,
		Department:    req.Department,
		AttendeeCount: req.AttendeeCount,
		StartAt:       req.StartAt.UTC(),
		EndAt:         req.EndAt.UTC(),
		CreatedAt:     s.Now(),
	}

	return s.Reservations.CreateReservation(ctx, candidate)
}

// List returns reservations ordered by creation time descending, optionally
// narrowed to one resource.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Reservation, error) {
	return s.Reservations.ListReservations(ctx, filter)
}

// resolveScope looks up the (resource, department) config and, on a miss,
// distinguishes a missing resource from one the department cannot book.
func (s *Service) resolveScope(ctx context.Context, resourceName, department string) (*ResourceConfig, error) {
	cfg, err := s.Directory.ResolveConfig(ctx, resourceName, department)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, ErrUnknownScope) {
		return nil, err
	}

	exists, existsErr := s.Directory.ResourceExists(ctx, resourceName)
	if existsErr != nil {
		// The refinement is best-effort; fall back to the bare scope miss.
		exists = false
	}
	return nil, &UnknownScopeError{
		ResourceName:   resourceName,
		Department:     department,
		ResourceExists: exists,
	}
}
