// Package store provides in-memory implementations of the booking
// collaborator interfaces, for tests and development.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/warp/booking-engine/booking"
)

// =============================================================================
// MEMORY STORE - In-memory Directory + ReservationStore (for testing/dev)
// =============================================================================

// Memory implements booking.Directory and booking.ReservationStore with a
// single RWMutex. The overlap check and insert run under one write lock, so
// the no-overlap invariant holds for concurrent submissions just as it does
// for the transactional SQLite store.
type Memory struct {
	mu           sync.RWMutex
	configs      map[scopeKey]booking.ResourceConfig
	resources    map[string]booking.ResourceID // name -> id
	reservations map[booking.ResourceID][]booking.Reservation
	order        []booking.ReservationID // creation order, oldest first
	byID         map[booking.ReservationID]booking.Reservation
}

type scopeKey struct {
	ResourceName string
	Department   string
}

func NewMemory() *Memory {
	return &Memory{
		configs:      make(map[scopeKey]booking.ResourceConfig),
		resources:    make(map[string]booking.ResourceID),
		reservations: make(map[booking.ResourceID][]booking.Reservation),
		byID:         make(map[booking.ReservationID]booking.Reservation),
	}
}

// PutConfig registers a resource under name and attaches a department scope.
// Tests use this in place of the directory's CRUD surface.
func (m *Memory) PutConfig(name string, cfg booking.ResourceConfig) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resources[name] = cfg.ResourceID
	m.configs[scopeKey{ResourceName: name, Department: cfg.Department}] = cfg
}

// PutResource registers a resource name without any bookable scope.
func (m *Memory) PutResource(name string, id booking.ResourceID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resources[name] = id
}

// =============================================================================
// booking.Directory
// =============================================================================

func (m *Memory) ResolveConfig(_ context.Context, resourceName, department string) (*booking.ResourceConfig, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	cfg, ok := m.configs[scopeKey{ResourceName: resourceName, Department: department}]
	if !ok {
		return nil, booking.ErrUnknownScope
	}
	out := cfg
	return &out, nil
}

func (m *Memory) ResourceExists(_ context.Context, resourceName string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.resources[resourceName]
	return ok, nil
}

// =============================================================================
// booking.ReservationStore
// =============================================================================

func (m *Memory) CreateReservation(ctx context.Context, res booking.Reservation) (*booking.Reservation, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.reservations[res.ResourceID] {
		if existing.Overlaps(res.StartAt, res.EndAt) {
			return nil, &booking.ConflictError{
				ResourceID:    res.ResourceID,
				ExistingStart: existing.StartAt,
				ExistingEnd:   existing.EndAt,
			}
		}
	}

	m.reservations[res.ResourceID] = append(m.reservations[res.ResourceID], res)
	m.order = append(m.order, res.ID)
	m.byID[res.ID] = res

	out := res
	return &out, nil
}

func (m *Memory) ListReservations(_ context.Context, filter booking.ListFilter) ([]booking.Reservation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var wantID booking.ResourceID
	if filter.ResourceName != "" {
		id, ok := m.resources[filter.ResourceName]
		if !ok {
			return nil, nil
		}
		wantID = id
	}

	var result []booking.Reservation
	for _, id := range m.order {
		res := m.byID[id]
		if wantID != "" && res.ResourceID != wantID {
			continue
		}
		result = append(result, res)
	}

	// Creation order descending, newest first.
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	if filter.Offset > 0 {
		if filter.Offset >= len(result) {
			return nil, nil
		}
		result = result[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(result) {
		result = result[:filter.Limit]
	}
	return result, nil
}

// DeleteReservation removes a reservation by ID.
func (m *Memory) DeleteReservation(_ context.Context, id booking.ReservationID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	res, ok := m.byID[id]
	if !ok {
		return booking.ErrReservationNotFound
	}
	delete(m.byID, id)

	list := m.reservations[res.ResourceID]
	for i := range list {
		if list[i].ID == id {
			m.reservations[res.ResourceID] = append(list[:i], list[i+1:]...)
			break
		}
	}
	for i := range m.order {
		if m.order[i] == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}
