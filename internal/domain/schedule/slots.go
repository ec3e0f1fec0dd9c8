package schedule

import (
	"time"

	"github.com/google/uuid"
)

// Slot is a derived bookable unit of fixed length. Slots are recomputed from
// rules, exceptions and active bookings on every query; they are never stored.
type Slot struct {
	InstructorID uuid.UUID
	Start        time.Time
	End          time.Time
}

func (s Slot) Interval() Interval {
	iv, _ := NewInterval(s.Start, s.End)
	return iv
}

// ComputeSlots returns the chronologically ordered bookable slots for one
// instructor on one date:
//
//  1. no rule for the weekday -> no slots
//  2. start from the rule's working window on that date
//  3. subtract overlapping time-off exceptions
//  4. subtract the supplied busy intervals (active bookings)
//  5. cut each free piece into consecutive slotLen slots, dropping partial
//     slots at piece boundaries
//
// A rule with start >= end is a data-integrity error, not an empty day.
func ComputeSlots(rules []AvailabilityRule, timeOffs []TimeOff, busy []Interval, date time.Time, slotLen time.Duration) ([]Slot, error) {
	rule := RuleForWeekday(rules, date)
	if rule == nil {
		return nil, nil
	}

	window, err := rule.WindowOn(date)
	if err != nil {
		return nil, err
	}

	var blockers []Interval
	for _, off := range timeOffs {
		if !SameDate(off.Date, date) {
			continue
		}
		if blocked, ok := off.BlockedInterval(window); ok {
			blockers = append(blockers, blocked)
		}
	}
	blockers = append(blockers, busy...)

	free := SubtractAll([]Interval{window}, blockers)

	var slots []Slot
	for _, piece := range free {
		for start := piece.Start(); !start.Add(slotLen).After(piece.End()); start = start.Add(slotLen) {
			slots = append(slots, Slot{
				InstructorID: rule.InstructorID,
				Start:        start,
				End:          start.Add(slotLen),
			})
		}
	}
	return slots, nil
}

// CoveredBySlots reports whether proposed is exactly covered by a contiguous
// run of computed slots. Booking creation uses this to reject intervals that
// are free but not aligned to the slot grid, and intervals spanning a gap.
func CoveredBySlots(slots []Slot, proposed Interval) bool {
	cursor := proposed.Start()
	for _, s := range slots {
		if !s.Start.Equal(cursor) {
			continue
		}
		cursor = s.End
		if cursor.Equal(proposed.End()) {
			return true
		}
		if cursor.After(proposed.End()) {
			return false
		}
	}
	return false
}
