package schedule

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidInterval = errors.New("interval start must be before end")
	ErrMalformedRule   = errors.New("availability rule start must be before end")
)

// Interval is a half-open time range [start, end).
// All intervals entering a comparison must already be normalized to the
// canonical location; construction does not re-normalize.
type Interval struct {
	start time.Time
	end   time.Time
}

func NewInterval(start, end time.Time) (Interval, error) {
	if !start.Before(end) {
		return Interval{}, ErrInvalidInterval
	}
	return Interval{start: start, end: end}, nil
}

func (iv Interval) Start() time.Time {
	return iv.start
}

func (iv Interval) End() time.Time {
	return iv.end
}

func (iv Interval) Duration() time.Duration {
	return iv.end.Sub(iv.start)
}

func (iv Interval) String() string {
	return fmt.Sprintf("[%s,%s)", iv.start.Format(time.RFC3339), iv.end.Format(time.RFC3339))
}

// Overlaps applies the standard half-open test: [a,b) and [c,d) overlap
// iff a < d && c < b. Touching endpoints do not overlap.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.start.Before(other.end) && other.start.Before(iv.end)
}

func (iv Interval) Contains(t time.Time) bool {
	return !t.Before(iv.start) && t.Before(iv.end)
}

// Subtract removes other from iv and returns the remaining pieces in
// chronological order: zero pieces when other covers iv, one when other
// clips an edge, two when other splits the middle.
func (iv Interval) Subtract(other Interval) []Interval {
	if !iv.Overlaps(other) {
		return []Interval{iv}
	}

	var remaining []Interval
	if iv.start.Before(other.start) {
		remaining = append(remaining, Interval{start: iv.start, end: other.start})
	}
	if other.end.Before(iv.end) {
		remaining = append(remaining, Interval{start: other.end, end: iv.end})
	}
	return remaining
}

// SubtractAll subtracts every blocker from every piece of free, keeping
// chronological order. Blockers may overlap one another.
func SubtractAll(free []Interval, blockers []Interval) []Interval {
	for _, b := range blockers {
		var next []Interval
		for _, f := range free {
			next = append(next, f.Subtract(b)...)
		}
		free = next
		if len(free) == 0 {
			return nil
		}
	}
	return free
}
