/*
window.go - Availability window grammar and evaluation

PURPOSE:
  Translates a human-authored availability string into a matcher and
  evaluates instants against it. Windows describe a recurring weekly range:

    "Mon to Fri (9AM to 6PM)"
    "Fri to Mon (10AM to 2PM)"   <- wraps forward: Fri, Sat, Sun, Mon
    "Always Available"           <- sentinel, matches any instant

GRAMMAR:
  <Day3> to <Day3> (<Hour12> to <Hour12>)
  where <Day3> is a three-letter weekday abbreviation (Sun..Sat) and
  <Hour12> is a 12-hour clock value like 9AM, 6PM, 12AM (midnight, hour 0)
  or 12PM (noon, hour 12). Anything else fails with ErrMalformedWindow.

DAY WALK:
  The day range is an inclusive forward walk from the start day to the end
  day. "Fri to Mon" spans Fri, Sat, Sun, Mon. "Mon to Sun" spans all seven
  days. A start day equal to the end day spans that single day.

TIMEZONE CONVENTION:
  No timezone conversion is performed. The instant's UTC wall-clock value is
  compared directly against the configured hours: callers submit instants
  whose UTC representation already equals the resource's local wall clock.

SEE ALSO:
  - pipeline.go: Evaluates both request endpoints against the window
*/
package booking

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// CloseBoundaryInclusive pins the closing-minute policy: an instant falling
// exactly on the closing hour (18:00 for a window closing at 6PM) is inside
// the window; one minute past it is not. The opening hour is always
// inclusive.
const CloseBoundaryInclusive = true

// alwaysSentinel is matched case-insensitively after trimming whitespace.
const alwaysSentinel = "always available"

var windowPattern = regexp.MustCompile(
	`(?i)^(sun|mon|tue|wed|thu|fri|sat)\s+to\s+(sun|mon|tue|wed|thu|fri|sat)\s+\((\d{1,2})(am|pm)\s+to\s+(\d{1,2})(am|pm)\)$`)

var dayAbbrev = map[string]time.Weekday{
	"sun": time.Sunday,
	"mon": time.Monday,
	"tue": time.Tuesday,
	"wed": time.Wednesday,
	"thu": time.Thursday,
	"fri": time.Friday,
	"sat": time.Saturday,
}

// =============================================================================
// WINDOW - Parsed weekly availability matcher
// =============================================================================

// Window is either the "always available" sentinel or a recurring weekly
// range (startDay..endDay, startHour..endHour). Windows are derived on demand
// from ResourceConfig.AvailabilityWindow and never persisted.
type Window struct {
	always    bool
	startDay  time.Weekday
	endDay    time.Weekday
	startHour int // 0-23
	endHour   int // 0-23
}

// AlwaysAvailable matches every instant.
var AlwaysAvailable = Window{always: true}

// ParseWindow parses an availability-window string. It fails with an error
// wrapping ErrMalformedWindow when the text matches neither the sentinel nor
// the window grammar.
func ParseWindow(text string) (Window, error) {
	trimmed := strings.TrimSpace(text)
	if strings.EqualFold(trimmed, alwaysSentinel) {
		return AlwaysAvailable, nil
	}

	m := windowPattern.FindStringSubmatch(trimmed)
	if m == nil {
		return Window{}, &MalformedWindowError{Text: text}
	}

	startHour, ok := parseHour12(m[3], m[4])
	if !ok {
		return Window{}, &MalformedWindowError{Text: text}
	}
	endHour, ok := parseHour12(m[5], m[6])
	if !ok {
		return Window{}, &MalformedWindowError{Text: text}
	}

	return Window{
		startDay:  dayAbbrev[strings.ToLower(m[1])],
		endDay:    dayAbbrev[strings.ToLower(m[2])],
		startHour: startHour,
		endHour:   endHour,
	}, nil
}

// parseHour12 converts a 12-hour clock token to a 0-23 hour.
// 12AM = 0, 12PM = 12, 9AM = 9, 6PM = 18.
func parseHour12(digits, meridiem string) (int, bool) {
	h, err := strconv.Atoi(digits)
	if err != nil || h < 1 || h > 12 {
		return 0, false
	}
	if h == 12 {
		h = 0
	}
	if strings.EqualFold(meridiem, "pm") {
		h += 12
	}
	return h, true
}

// Always reports whether the window matches every instant.
func (w Window) Always() bool { return w.always }

// Contains reports whether the instant's UTC wall clock falls inside the
// window. The day must lie on the inclusive forward walk from the start day
// to the end day; the minute-of-day must be at or after the opening minute
// and bounded by the closing minute per CloseBoundaryInclusive.
func (w Window) Contains(t time.Time) bool {
	if w.always {
		return true
	}

	u := t.UTC()

	span := (int(w.endDay) - int(w.startDay) + 7) % 7
	offset := (int(u.Weekday()) - int(w.startDay) + 7) % 7
	if offset > span {
		return false
	}

	minute := u.Hour()*60 + u.Minute()
	open := w.startHour * 60
	close := w.endHour * 60
	if minute < open {
		return false
	}
	if CloseBoundaryInclusive {
		return minute <= close
	}
	return minute < close
}

// String renders the window back in grammar form.
func (w Window) String() string {
	if w.always {
		return "Always Available"
	}
	return w.startDay.String()[:3] + " to " + w.endDay.String()[:3] +
		" (" + formatHour12(w.startHour) + " to " + formatHour12(w.endHour) + ")"
}

func formatHour12(h int) string {
	meridiem := "AM"
	if h >= 12 {
		meridiem = "PM"
	}
	h = h % 12
	if h == 0 {
		h = 12
	}
	return strconv.Itoa(h) + meridiem
}

// MalformedWindowError reports an unparseable availability string.
type MalformedWindowError struct {
	Text string
}

func (e *MalformedWindowError) Error() string {
	return "malformed availability window: " + strconv.Quote(e.Text)
}

func (e *MalformedWindowError) Unwrap() error { return ErrMalformedWindow }
