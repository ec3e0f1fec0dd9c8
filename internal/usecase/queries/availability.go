package queries

import (
	"context"
	"time"

	"lessonbook/internal/domain/schedule"
	"lessonbook/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrMalformedRule = errs.New("availability rule is malformed")
)

// ScheduleReadStore loads the raw scheduling inputs. Implementations must
// return every instant normalized to the canonical location.
type ScheduleReadStore interface {
	RulesByInstructor(ctx context.Context, instructorID uuid.UUID) ([]schedule.AvailabilityRule, error)
	TimeOffByInstructor(ctx context.Context, instructorID uuid.UUID, from, to time.Time) ([]schedule.TimeOff, error)
	ActiveBookingIntervals(ctx context.Context, instructorID uuid.UUID, from, to time.Time) ([]schedule.Interval, error)
}

type AvailabilityQueries interface {
	// ListSlots computes the bookable slots for one instructor on one date.
	// Stateless: the same inputs always produce the same ordered slots.
	ListSlots(ctx context.Context, instructorID uuid.UUID, date time.Time) ([]SlotView, error)
}

type availabilityQueriesImpl struct {
	store   ScheduleReadStore
	loc     *time.Location
	slotLen time.Duration
}

func NewAvailabilityQueries(store ScheduleReadStore, loc *time.Location, slotLen time.Duration) AvailabilityQueries {
	return &availabilityQueriesImpl{
		store:   store,
		loc:     loc,
		slotLen: slotLen,
	}
}

func (q *availabilityQueriesImpl) ListSlots(ctx context.Context, instructorID uuid.UUID, date time.Time) ([]SlotView, error) {
	day := date.In(q.loc)
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, q.loc)
	dayEnd := dayStart.AddDate(0, 0, 1)

	rules, err := q.store.RulesByInstructor(ctx, instructorID)
	if err != nil {
		return nil, err
	}

	timeOffs, err := q.store.TimeOffByInstructor(ctx, instructorID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	busy, err := q.store.ActiveBookingIntervals(ctx, instructorID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	slots, err := schedule.ComputeSlots(rules, timeOffs, busy, dayStart, q.slotLen)
	if err != nil {
		return nil, errs.Mark(err, ErrMalformedRule)
	}

	views := make([]SlotView, len(slots))
	for i, s := range slots {
		views[i] = SlotView{
			InstructorID: s.InstructorID,
			StartAt:      s.Start,
			EndAt:        s.End,
		}
	}
	return views, nil
}
