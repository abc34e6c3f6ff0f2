package scheduling

import "time"

// WithinWindow reports whether [start, end] is fully contained in the
// enclosing [windowStart, windowEnd] range. Boundaries are inclusive: a
// session may begin exactly when its conference opens and end exactly when
// it closes.
func WithinWindow(windowStart, windowEnd, start, end time.Time) bool {
	return !start.Before(windowStart) && !end.After(windowEnd)
}
