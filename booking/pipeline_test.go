package booking

import (
	"errors"
	"testing"
	"time"
)

func businessHoursConfig() *ResourceConfig {
	return &ResourceConfig{
		ResourceID:         "room-1",
		Department:         "EFM",
		Capacity:           10,
		AvailabilityWindow: "Mon to Fri (9AM to 6PM)",
	}
}

func mondayRequest(attendees int) Request {
	return Request{
		ResourceName:  "A-01-01",
		Department:    "EFM",
		AttendeeCount: attendees,
		StartAt:       instant(10, 9, 0),  // Monday 09:00
		EndAt:         instant(10, 11, 0), // Monday 11:00
	}
}

func TestValidate_Accepts(t *testing.T) {
	if err := Validate(mondayRequest(8), businessHoursConfig()); err != nil {
		t.Fatalf("Validate rejected a well-formed request: %v", err)
	}
}

func TestValidate_InvalidInterval(t *testing.T) {
	req := mondayRequest(8)
	req.EndAt = req.StartAt
	if err := Validate(req, businessHoursConfig()); !errors.Is(err, ErrInvalidInterval) {
		t.Errorf("start == end: got %v, want ErrInvalidInterval", err)
	}

	req.EndAt = req.StartAt.Add(-time.Hour)
	if err := Validate(req, businessHoursConfig()); !errors.Is(err, ErrInvalidInterval) {
		t.Errorf("end before start: got %v, want ErrInvalidInterval", err)
	}
}

func TestValidate_CapacityBoundary(t *testing.T) {
	// Exactly at capacity passes.
	if err := Validate(mondayRequest(10), businessHoursConfig()); err != nil {
		t.Errorf("attendee count == capacity should pass, got %v", err)
	}

	// One over fails, with both numbers reported.
	err := Validate(mondayRequest(11), businessHoursConfig())
	if !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("attendee count > capacity: got %v, want ErrCapacityExceeded", err)
	}
	var capErr *CapacityError
	if !errors.As(err, &capErr) {
		t.Fatalf("error does not carry CapacityError details: %v", err)
	}
	if capErr.Capacity != 10 || capErr.Requested != 11 {
		t.Errorf("CapacityError = {Capacity: %d, Requested: %d}, want {10, 11}", capErr.Capacity, capErr.Requested)
	}
}

func TestValidate_WindowEndpoints(t *testing.T) {
	cfg := businessHoursConfig()

	// Start before open: failing endpoint is "start".
	req := mondayRequest(8)
	req.StartAt = instant(10, 8, 0)
	err := Validate(req, cfg)
	var winErr *WindowError
	if !errors.As(err, &winErr) || winErr.Endpoint != EndpointStart {
		t.Errorf("early start: got %v, want WindowError on start endpoint", err)
	}

	// End past close: failing endpoint is "end".
	req = mondayRequest(8)
	req.EndAt = instant(10, 19, 0)
	err = Validate(req, cfg)
	if !errors.As(err, &winErr) || winErr.Endpoint != EndpointEnd {
		t.Errorf("late end: got %v, want WindowError on end endpoint", err)
	}

	// End exactly at close is valid under the inclusive-close policy.
	req = mondayRequest(8)
	req.EndAt = instant(10, 18, 0)
	if err := Validate(req, cfg); err != nil {
		t.Errorf("end at closing minute should pass, got %v", err)
	}

	// Both endpoints outside: the start is reported (endpoints are checked
	// in order, first failure wins).
	req = mondayRequest(8)
	req.StartAt = instant(15, 10, 0) // Saturday
	req.EndAt = instant(15, 11, 0)
	err = Validate(req, cfg)
	if !errors.As(err, &winErr) || winErr.Endpoint != EndpointStart {
		t.Errorf("weekend request: got %v, want WindowError on start endpoint", err)
	}
}

func TestValidate_UnrestrictedWindow(t *testing.T) {
	// No window means no grammar evaluation at all: a Sunday 3AM booking
	// passes every check but capacity.
	cfg := businessHoursConfig()
	cfg.AvailabilityWindow = ""

	req := mondayRequest(8)
	req.StartAt = instant(16, 3, 0) // Sunday 03:00
	req.EndAt = instant(16, 4, 0)
	if err := Validate(req, cfg); err != nil {
		t.Errorf("unrestricted config rejected a request: %v", err)
	}
}

func TestValidate_CheckOrder(t *testing.T) {
	// A request that violates both capacity and window reports capacity:
	// rules run in a fixed order and stop at the first failure.
	req := mondayRequest(99)
	req.StartAt = instant(15, 10, 0) // Saturday
	req.EndAt = instant(15, 11, 0)

	err := Validate(req, businessHoursConfig())
	if !errors.Is(err, ErrCapacityExceeded) {
		t.Errorf("got %v, want the capacity failure to win over the window failure", err)
	}

	// An invalid interval beats everything.
	req.EndAt = req.StartAt
	err = Validate(req, businessHoursConfig())
	if !errors.Is(err, ErrInvalidInterval) {
		t.Errorf("got %v, want the interval failure to win", err)
	}
}

func TestValidate_RejectionIsIdempotent(t *testing.T) {
	req := mondayRequest(11)
	first := Validate(req, businessHoursConfig())
	for i := 0; i < 3; i++ {
		again := Validate(req, businessHoursConfig())
		if !errors.Is(again, ErrCapacityExceeded) || again.Error() != first.Error() {
			t.Fatalf("resubmission %d yielded a different failure: %v vs %v", i, again, first)
		}
	}
}
