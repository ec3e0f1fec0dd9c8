package commands

import (
	"context"
	"time"

	"lessonbook/internal/domain/schedule"
	"lessonbook/internal/pkg/config"
	"lessonbook/internal/pkg/errs"
	"lessonbook/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrInvalidRule    = errs.New("availability rule is invalid")
	ErrInvalidTimeOff = errs.New("time-off exception is invalid")
)

type WeeklyRuleInput struct {
	Weekday     time.Weekday
	StartMinute int
	EndMinute   int
}

type TimeOffInput struct {
	Date    time.Time
	StartAt *time.Time
	EndAt   *time.Time
}

type ScheduleCommands interface {
	// ReplaceAvailability swaps the instructor's whole weekly rule set.
	// Rules are instructor-owned input; the scheduling core only reads them.
	ReplaceAvailability(ctx context.Context, instructorID uuid.UUID, rules []WeeklyRuleInput) error
	AddTimeOff(ctx context.Context, instructorID uuid.UUID, in TimeOffInput) (uuid.UUID, error)
}

type scheduleCommandsImpl struct {
	uow shared.UnitOfWork
	loc *time.Location
}

func NewScheduleCommands(uow shared.UnitOfWork, cfg config.BookingConfig) (ScheduleCommands, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	return &scheduleCommandsImpl{uow: uow, loc: loc}, nil
}

func (c *scheduleCommandsImpl) ReplaceAvailability(ctx context.Context, instructorID uuid.UUID, inputs []WeeklyRuleInput) error {
	rules := make([]schedule.AvailabilityRule, len(inputs))
	seen := make(map[time.Weekday]bool, len(inputs))
	for i, in := range inputs {
		rule := schedule.AvailabilityRule{
			InstructorID: instructorID,
			Weekday:      in.Weekday,
			StartMinute:  in.StartMinute,
			EndMinute:    in.EndMinute,
		}
		if err := rule.Validate(); err != nil {
			return errs.Mark(err, ErrInvalidRule)
		}
		if seen[in.Weekday] {
			return ErrInvalidRule
		}
		seen[in.Weekday] = true
		rules[i] = rule
	}

	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Schedules().ReplaceRules(ctx, tx.DB(), instructorID, rules); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
}

func (c *scheduleCommandsImpl) AddTimeOff(ctx context.Context, instructorID uuid.UUID, in TimeOffInput) (uuid.UUID, error) {
	// Partial-day exceptions need both endpoints; a missing pair means a
	// full-day block.
	if (in.StartAt == nil) != (in.EndAt == nil) {
		return uuid.Nil, ErrInvalidTimeOff
	}
	off := schedule.TimeOff{
		InstructorID: instructorID,
		Date:         in.Date.In(c.loc),
	}
	if in.StartAt != nil {
		start := in.StartAt.In(c.loc)
		end := in.EndAt.In(c.loc)
		if !start.Before(end) {
			return uuid.Nil, ErrInvalidTimeOff
		}
		off.Start = &start
		off.End = &end
	}

	var id uuid.UUID
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		var txErr error
		id, txErr = tx.Schedules().AddTimeOff(ctx, tx.DB(), off)
		if txErr != nil {
			return errs.Mark(txErr, ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	return id, nil
}
