package booking_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/booking-engine/booking"
	"github.com/warp/booking-engine/booking/store"
)

// =============================================================================
// TEST SETUP
// =============================================================================

// newTestService wires the engine over the in-memory store, seeded with the
// A-01-01 fixture: department EFM, capacity 10, weekday business hours.
func newTestService() (*booking.Service, *store.Memory) {
	mem := store.NewMemory()
	mem.PutConfig("A-01-01", booking.ResourceConfig{
		ResourceID:         "room-a-01-01",
		Department:         "EFM",
		Capacity:           10,
		AvailabilityWindow: "Mon to Fri (9AM to 6PM)",
	})
	return booking.NewService(mem, mem), mem
}

// March 2025: the 10th is a Monday, the 15th a Saturday.
func at(day, hour, minute int) time.Time {
	return time.Date(2025, time.March, day, hour, minute, 0, 0, time.UTC)
}

func mondayBooking(attendees int) booking.Request {
	return booking.Request{
		ResourceName:  "A-01-01",
		Department:    "EFM",
		AttendeeCount: attendees,
		StartAt:       at(10, 9, 0),
		EndAt:         at(10, 11, 0),
	}
}

// =============================================================================
// END-TO-END SCENARIOS
// =============================================================================

func TestSubmit_Accepted(t *testing.T) {
	// GIVEN: A-01-01 scoped to EFM, capacity 10, Mon-Fri 9AM-6PM
	// WHEN: EFM books 8 attendees, Monday 09:00-11:00
	// THEN: The reservation commits with the resolved resource identity

	svc, _ := newTestService()
	res, err := svc.Submit(context.Background(), mondayBooking(8))
	require.NoError(t, err)

	assert.NotEmpty(t, res.ID)
	assert.Equal(t, booking.ResourceID("room-a-01-01"), res.ResourceID)
	assert.Equal(t, "EFM", res.Department)
	assert.Equal(t, 8, res.AttendeeCount)
	assert.False(t, res.CreatedAt.IsZero())
}

func TestSubmit_CapacityExceeded(t *testing.T) {
	svc, _ := newTestService()

	// At capacity passes.
	_, err := svc.Submit(context.Background(), mondayBooking(10))
	require.NoError(t, err)

	// One over fails.
	req := mondayBooking(11)
	req.StartAt = at(11, 9, 0) // Tuesday, to avoid a slot conflict
	req.EndAt = at(11, 11, 0)
	_, err = svc.Submit(context.Background(), req)
	assert.ErrorIs(t, err, booking.ErrCapacityExceeded)
}

func TestSubmit_UnknownScope(t *testing.T) {
	svc, _ := newTestService()

	// The resource exists but FSS has no config for it.
	req := mondayBooking(8)
	req.Department = "FSS"
	_, err := svc.Submit(context.Background(), req)
	require.ErrorIs(t, err, booking.ErrUnknownScope)

	var scopeErr *booking.UnknownScopeError
	require.ErrorAs(t, err, &scopeErr)
	assert.True(t, scopeErr.ResourceExists, "diagnostic should note the resource exists")

	// The resource itself is missing.
	req = mondayBooking(8)
	req.ResourceName = "Z-99-99"
	_, err = svc.Submit(context.Background(), req)
	require.ErrorAs(t, err, &scopeErr)
	assert.False(t, scopeErr.ResourceExists)
}

func TestSubmit_OutsideWindow(t *testing.T) {
	svc, _ := newTestService()

	req := mondayBooking(8)
	req.StartAt = at(15, 10, 0) // Saturday
	req.EndAt = at(15, 11, 0)
	_, err := svc.Submit(context.Background(), req)
	assert.ErrorIs(t, err, booking.ErrOutsideWindow)
}

func TestSubmit_SlotConflict(t *testing.T) {
	// GIVEN: a committed Monday 09:00-11:00 reservation
	// WHEN: a second request overlaps it (Monday 10:00-10:30)
	// THEN: it fails with SlotConflict carrying the colliding interval

	svc, _ := newTestService()
	_, err := svc.Submit(context.Background(), mondayBooking(8))
	require.NoError(t, err)

	req := mondayBooking(2)
	req.StartAt = at(10, 10, 0)
	req.EndAt = at(10, 10, 30)
	_, err = svc.Submit(context.Background(), req)
	require.ErrorIs(t, err, booking.ErrSlotConflict)

	var conflict *booking.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, at(10, 9, 0), conflict.ExistingStart)
	assert.Equal(t, at(10, 11, 0), conflict.ExistingEnd)

	// A retryable outcome, and only this one.
	assert.True(t, booking.IsRetryable(err))
	assert.False(t, booking.IsClientError(err))
}

func TestSubmit_AdjacentIntervalsDoNotConflict(t *testing.T) {
	// Half-open semantics: a booking ending at 11:00 and one starting at
	// 11:00 share a boundary instant but not a slot.
	svc, _ := newTestService()
	_, err := svc.Submit(context.Background(), mondayBooking(8))
	require.NoError(t, err)

	req := mondayBooking(4)
	req.StartAt = at(10, 11, 0)
	req.EndAt = at(10, 12, 0)
	_, err = svc.Submit(context.Background(), req)
	assert.NoError(t, err)
}

func TestSubmit_InvalidIntervalBeforeScope(t *testing.T) {
	// A backwards interval on a nonexistent resource reports the interval:
	// rule one runs before scope resolution.
	svc, _ := newTestService()

	req := mondayBooking(8)
	req.ResourceName = "Z-99-99"
	req.EndAt = req.StartAt.Add(-time.Hour)
	_, err := svc.Submit(context.Background(), req)
	assert.ErrorIs(t, err, booking.ErrInvalidInterval)
}

// =============================================================================
// CONCURRENCY
// =============================================================================

func TestSubmit_ConcurrentOverlap_ExactlyOneWins(t *testing.T) {
	// GIVEN: ten goroutines racing for the same Monday slot
	// THEN: exactly one submission succeeds, the rest fail with SlotConflict

	svc, mem := newTestService()

	const workers = 10
	var wg sync.WaitGroup
	results := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Submit(context.Background(), mondayBooking(5))
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var successes, conflicts int
	for err := range results {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, booking.ErrSlotConflict):
			conflicts++
		default:
			t.Fatalf("unexpected failure kind: %v", err)
		}
	}
	assert.Equal(t, 1, successes, "exactly one submission must win")
	assert.Equal(t, workers-1, conflicts)

	persisted, err := mem.ListReservations(context.Background(), booking.ListFilter{})
	require.NoError(t, err)
	assert.Len(t, persisted, 1, "no overlapping reservations may persist")
}

// =============================================================================
// LISTING
// =============================================================================

func TestList_NewestFirst(t *testing.T) {
	svc, _ := newTestService()
	svc.Now = func() time.Time { return at(1, 12, 0) }

	base := mondayBooking(2)
	for i := 0; i < 3; i++ {
		req := base
		req.StartAt = base.StartAt.Add(time.Duration(i) * 2 * time.Hour)
		req.EndAt = base.EndAt.Add(time.Duration(i) * 2 * time.Hour)

		created := at(1, 12, i) // distinct creation instants
		svc.Now = func() time.Time { return created }
		_, err := svc.Submit(context.Background(), req)
		require.NoError(t, err)
	}

	all, err := svc.List(context.Background(), booking.ListFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	for i := 1; i < len(all); i++ {
		assert.False(t, all[i-1].CreatedAt.Before(all[i].CreatedAt), "listing must be newest first")
	}

	page, err := svc.List(context.Background(), booking.ListFilter{Limit: 2, Offset: 1})
	require.NoError(t, err)
	assert.Len(t, page, 2)
}
