/*
pipeline.go - Ordered validation rules for reservation requests

PURPOSE:
  Runs a proposed reservation plus its resolved ResourceConfig through a
  fixed sequence of checks, stopping at the first failure so that exactly
  one deterministic reason is ever reported per request.

CHECK ORDER:
  1. Interval sanity       -> ErrInvalidInterval
  2. Scope resolution      -> ErrUnknownScope (performed by the service,
                              between rules 1 and 3, since it needs the
                              directory)
  3. Capacity              -> ErrCapacityExceeded
  4. Availability window   -> ErrOutsideWindow (both endpoints checked
                              independently; the failing endpoint is named)

DESIGN:
  Each rule is a pure function over the immutable (request, config) pair,
  returning nil or a typed failure. Rules hold no state and perform no I/O;
  composition is plain early-return. Rejected requests leave no trace, so
  resubmitting an identical invalid request always yields the same failure.

SEE ALSO:
  - service.go: Interleaves scope resolution and hands survivors to the store
  - window.go:  The grammar behind the availability check
*/
package booking

// rule checks one aspect of a request against its resolved config. cfg is nil
// only for checkInterval, which runs before scope resolution.
type rule func(req Request, cfg *ResourceConfig) error

// pipeline is the fixed rule order. Scope resolution slots in after
// checkInterval; see Service.Submit.
var pipeline = []rule{
	checkInterval,
	checkCapacity,
	checkWindow,
}

// Validate runs the full rule sequence against a resolved config, returning
// the first failure or nil.
func Validate(req Request, cfg *ResourceConfig) error {
	for _, r := range pipeline {
		if err := r(req, cfg); err != nil {
			return err
		}
	}
	return nil
}

// checkInterval enforces StartAt < EndAt.
func checkInterval(req Request, _ *ResourceConfig) error {
	if !req.StartAt.Before(req.EndAt) {
		return &IntervalError{Start: req.StartAt, End: req.EndAt}
	}
	return nil
}

// checkCapacity enforces AttendeeCount <= Capacity. A request for exactly the
// configured capacity passes.
func checkCapacity(req Request, cfg *ResourceConfig) error {
	if req.AttendeeCount > cfg.Capacity {
		return &CapacityError{Capacity: cfg.Capacity, Requested: req.AttendeeCount}
	}
	return nil
}

// checkWindow enforces that both endpoints independently fall inside the
// availability window. An absent window passes unconditionally, without any
// grammar evaluation.
func checkWindow(req Request, cfg *ResourceConfig) error {
	if cfg.Unrestricted() {
		return nil
	}

	w, err := ParseWindow(cfg.AvailabilityWindow)
	if err != nil {
		// The directory validates window strings at attach time, so a parse
		// failure here is corrupt configuration, not a request problem.
		return err
	}

	if !w.Contains(req.StartAt) {
		return &WindowError{Endpoint: EndpointStart, At: req.StartAt, Window: cfg.AvailabilityWindow}
	}
	if !w.Contains(req.EndAt) {
		return &WindowError{Endpoint: EndpointEnd, At: req.EndAt, Window: cfg.AvailabilityWindow}
	}
	return nil
}
