// Package booking holds the pure reservation domain types shared by the
// application services and the persistence layer.
package booking

import (
	"errors"
	"time"
)

// ErrInvalidInterval is returned when an interval is empty or inverted.
var ErrInvalidInterval = errors.New("booking: interval start must be before end")

// Interval is a half-open time window [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

// Validate rejects malformed intervals. Zero-length intervals are invalid:
// they never overlap anything and must not reach the overlap checks.
func (i Interval) Validate() error {
	if !i.Start.Before(i.End) {
		return ErrInvalidInterval
	}
	return nil
}

// UTC returns the interval with both bounds normalised to UTC.
func (i Interval) UTC() Interval {
	return Interval{Start: i.Start.UTC(), End: i.End.UTC()}
}

// Overlaps reports whether two half-open intervals intersect. Intervals that
// touch at a boundary do not overlap, so back-to-back bookings are allowed.
func Overlaps(a, b Interval) bool {
	return a.Start.Before(b.End) && a.End.After(b.Start)
}
