// Package interval models half-open time ranges [Start, End) used for room reservations.
package interval

import (
	"errors"
	"time"
)

// ErrInvalidInterval is returned when an interval's end does not follow its start.
var ErrInvalidInterval = errors.New("interval end must be after start")

// Interval is a half-open time range. A booking ending at 11:00 and another
// starting at 11:00 do not overlap.
type Interval struct {
	Start time.Time
	End   time.Time
}

// New builds an interval normalized to UTC.
func New(start, end time.Time) (Interval, error) {
	if start.IsZero() || end.IsZero() {
		return Interval{}, ErrInvalidInterval
	}
	if !end.After(start) {
		return Interval{}, ErrInvalidInterval
	}
	return Interval{Start: start.UTC(), End: end.UTC()}, nil
}

// MustNew is New for fixtures where the bounds are known to be valid.
func MustNew(start, end time.Time) Interval {
	iv, err := New(start, end)
	if err != nil {
		panic(err)
	}
	return iv
}

// Overlaps reports whether the two intervals share at least one instant.
func (i Interval) Overlaps(other Interval) bool {
	return i.Start.Before(other.End) && other.Start.Before(i.End)
}

// Contains reports whether t falls inside [Start, End).
func (i Interval) Contains(t time.Time) bool {
	return !t.Before(i.Start) && t.Before(i.End)
}

// Duration returns the length of the interval.
func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}
