package schedule

import (
	"time"

	"github.com/google/uuid"
)

// AvailabilityRule is a recurring weekly open window for one instructor,
// expressed as minutes from midnight in the canonical location. Rules are
// created by instructors and read-only to the scheduling core.
type AvailabilityRule struct {
	InstructorID uuid.UUID
	Weekday      time.Weekday
	StartMinute  int
	EndMinute    int
}

func (r AvailabilityRule) Validate() error {
	if r.StartMinute >= r.EndMinute || r.StartMinute < 0 || r.EndMinute > 24*60 {
		return ErrMalformedRule
	}
	return nil
}

// WindowOn projects the weekly rule onto a concrete date. The returned
// interval carries date's location.
func (r AvailabilityRule) WindowOn(date time.Time) (Interval, error) {
	if err := r.Validate(); err != nil {
		return Interval{}, err
	}
	y, m, d := date.Date()
	loc := date.Location()
	start := time.Date(y, m, d, r.StartMinute/60, r.StartMinute%60, 0, 0, loc)
	end := time.Date(y, m, d, r.EndMinute/60, r.EndMinute%60, 0, 0, loc)
	return NewInterval(start, end)
}

// RuleForWeekday picks the rule matching date's weekday, or nil when the
// instructor has no open window that day.
func RuleForWeekday(rules []AvailabilityRule, date time.Time) *AvailabilityRule {
	for i := range rules {
		if rules[i].Weekday == date.Weekday() {
			return &rules[i]
		}
	}
	return nil
}

// TimeOff blocks part of one instructor's day. A nil Start/End pair blocks
// the whole day.
type TimeOff struct {
	InstructorID uuid.UUID
	Date         time.Time
	Start        *time.Time
	End          *time.Time
}

func (t TimeOff) IsFullDay() bool {
	return t.Start == nil || t.End == nil
}

// BlockedInterval resolves the exception against the working window for
// its date. Full-day exceptions block the entire window.
func (t TimeOff) BlockedInterval(window Interval) (Interval, bool) {
	if t.IsFullDay() {
		return window, true
	}
	blocked, err := NewInterval(*t.Start, *t.End)
	if err != nil {
		return Interval{}, false
	}
	if !blocked.Overlaps(window) {
		return Interval{}, false
	}
	return blocked, true
}

func SameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
