package commands

import (
	"context"
	"time"

	"lessonbook/internal/domain/booking"
	"lessonbook/internal/domain/schedule"
	"lessonbook/internal/infra"
	"lessonbook/internal/pkg/clock"
	"lessonbook/internal/pkg/config"
	"lessonbook/internal/pkg/errs"
	"lessonbook/internal/usecase/queries"
	"lessonbook/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrBookingNotFound         = errs.New("booking not found")
	ErrInvalidTimeSlot         = errs.New("invalid time slot")
	ErrSlotNotAvailable        = errs.New("interval is not an available slot")
	ErrBookingConflict         = errs.New("booking conflict")
	ErrInvalidState            = errs.New("invalid booking state for transition")
	ErrDomainValidation        = errs.New("domain validation error")
	ErrDatabaseOperationFailed = errs.New("database operation failed")
)

// ConflictError carries the classified overlaps so callers can explain which
// existing booking collides and why. Matches ErrBookingConflict via errors.Is.
type ConflictError struct {
	Result *queries.ConflictCheckResult
}

func (e *ConflictError) Error() string {
	return "booking conflicts with an existing active booking"
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrBookingConflict
}

type CreateBookingInput struct {
	StudentID    uuid.UUID
	InstructorID uuid.UUID
	StartAt      time.Time
	EndAt        time.Time
}

type BookingCommands interface {
	Create(ctx context.Context, in CreateBookingInput) (*queries.BookingView, error)
	Confirm(ctx context.Context, id uuid.UUID) (*queries.BookingView, error)
	Cancel(ctx context.Context, id uuid.UUID, reason string) (*queries.BookingView, error)
}

type bookingCommandsImpl struct {
	uow            shared.UnitOfWork
	bookingQueries queries.BookingQueries
	clock          clock.Clock
	loc            *time.Location
	slotLen        time.Duration
	serviceFee     booking.Money
}

func NewBookingCommands(
	uow shared.UnitOfWork,
	bookingQueries queries.BookingQueries,
	clk clock.Clock,
	cfg config.BookingConfig,
) (BookingCommands, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	fee, err := booking.NewMoney(cfg.ServiceFeeCents)
	if err != nil {
		return nil, err
	}
	return &bookingCommandsImpl{
		uow:            uow,
		bookingQueries: bookingQueries,
		clock:          clk,
		loc:            loc,
		slotLen:        cfg.SlotLength(),
		serviceFee:     fee,
	}, nil
}

// Create runs conflict detection, slot validation and the insert inside one
// transaction. The bookings table additionally carries an exclusion constraint
// over (instructor_id, slot range) for active rows, so two students racing for
// the same instructor slot cannot both commit.
func (c *bookingCommandsImpl) Create(ctx context.Context, in CreateBookingInput) (*queries.BookingView, error) {
	proposed, err := schedule.NewInterval(in.StartAt.In(c.loc), in.EndAt.In(c.loc))
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidTimeSlot)
	}

	var bookingID uuid.UUID
	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := c.checkStudentConflicts(ctx, tx, in, proposed); err != nil {
			return err
		}
		if err := c.checkSlotAvailable(ctx, tx, in.InstructorID, proposed); err != nil {
			return err
		}

		entity, err := booking.NewBooking(in.StudentID, in.InstructorID, proposed, c.serviceFee)
		if err != nil {
			return errs.Mark(err, ErrDomainValidation)
		}

		bookingID, err = tx.Bookings().Create(ctx, tx.DB(), entity)
		if err != nil {
			if infra.IsKind(err, infra.KindConflict) {
				return &ConflictError{Result: &queries.ConflictCheckResult{HasConflict: true}}
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return c.bookingQueries.GetByIDSystem(ctx, bookingID)
}

func (c *bookingCommandsImpl) Confirm(ctx context.Context, id uuid.UUID) (*queries.BookingView, error) {
	err := c.transition(ctx, id, func(b *booking.Booking) error {
		return b.Confirm(c.clock.Now())
	})
	if err != nil {
		return nil, err
	}
	return c.bookingQueries.GetByIDSystem(ctx, id)
}

func (c *bookingCommandsImpl) Cancel(ctx context.Context, id uuid.UUID, reason string) (*queries.BookingView, error) {
	err := c.transition(ctx, id, func(b *booking.Booking) error {
		return b.Cancel(c.clock.Now(), reason)
	})
	if err != nil {
		return nil, err
	}
	return c.bookingQueries.GetByIDSystem(ctx, id)
}

// transition loads the booking under a row lock, applies fn, and persists the
// resulting state. When the lesson already ended the persisted status is
// reconciled to completed opportunistically, then the transition fails.
func (c *bookingCommandsImpl) transition(ctx context.Context, id uuid.UUID, fn func(*booking.Booking) error) error {
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, err := tx.Reads().BookingForUpdate(ctx, tx.DB(), id)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, ErrBookingNotFound)
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		entity, err := snapshotToEntity(snap, c.loc)
		if err != nil {
			return errs.Mark(err, ErrDomainValidation)
		}

		now := c.clock.Now()
		if entity.Status().IsActive() && entity.EffectiveStatus(now) == booking.StatusCompleted {
			// Reconcile the lazily derived completion before reporting the
			// illegal transition.
			if updateErr := tx.Bookings().UpdateStatus(ctx, tx.DB(), id, booking.StatusCompleted, snap.RefundCents, snap.CancelReason); updateErr != nil {
				return errs.Mark(updateErr, ErrDatabaseOperationFailed)
			}
		}

		if err := fn(entity); err != nil {
			return errs.Mark(err, ErrInvalidState)
		}

		var reason *string
		if r := entity.CancelReason(); r != "" {
			reason = &r
		}
		if err := tx.Bookings().UpdateStatus(ctx, tx.DB(), id, entity.Status(), entity.Refund().Cents(), reason); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
}

func (c *bookingCommandsImpl) checkStudentConflicts(ctx context.Context, tx shared.Tx, in CreateBookingInput, proposed schedule.Interval) error {
	active, err := tx.Reads().ActiveBookingRefsByStudent(ctx, tx.DB(), in.StudentID)
	if err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}

	result := schedule.CheckConflicts(proposed, in.InstructorID, active, nil)
	if result.None() {
		return nil
	}

	detail := &queries.ConflictCheckResult{HasConflict: true}
	for _, conflict := range result.Conflicts {
		detail.Conflicts = append(detail.Conflicts, queries.ConflictItem{
			BookingID:    conflict.BookingID,
			InstructorID: conflict.InstructorID,
			StartAt:      conflict.Interval.Start(),
			EndAt:        conflict.Interval.End(),
			Kind:         string(conflict.Kind),
		})
	}
	return &ConflictError{Result: detail}
}

func (c *bookingCommandsImpl) checkSlotAvailable(ctx context.Context, tx shared.Tx, instructorID uuid.UUID, proposed schedule.Interval) error {
	day := proposed.Start().In(c.loc)
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, c.loc)
	dayEnd := dayStart.AddDate(0, 0, 1)

	rules, err := tx.Reads().RulesByInstructor(ctx, tx.DB(), instructorID)
	if err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	timeOffs, err := tx.Reads().TimeOffByInstructor(ctx, tx.DB(), instructorID, dayStart, dayEnd)
	if err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	busy, err := tx.Reads().ActiveBookingIntervals(ctx, tx.DB(), instructorID, dayStart, dayEnd)
	if err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}

	slots, err := schedule.ComputeSlots(rules, timeOffs, busy, dayStart, c.slotLen)
	if err != nil {
		return errs.Mark(err, ErrDomainValidation)
	}
	if !schedule.CoveredBySlots(slots, proposed) {
		return ErrSlotNotAvailable
	}
	return nil
}

func snapshotToEntity(snap *shared.BookingSnapshot, loc *time.Location) (*booking.Booking, error) {
	slot, err := schedule.NewInterval(snap.StartAt.In(loc), snap.EndAt.In(loc))
	if err != nil {
		return nil, err
	}
	fee, err := booking.NewMoney(snap.ServiceFeeCents)
	if err != nil {
		return nil, err
	}
	refund, err := booking.NewMoney(snap.RefundCents)
	if err != nil {
		return nil, err
	}
	reason := ""
	if snap.CancelReason != nil {
		reason = *snap.CancelReason
	}
	return booking.ReconstructBooking(
		snap.ID, snap.StudentID, snap.InstructorID,
		slot,
		booking.Status(snap.Status),
		fee, refund,
		reason,
		snap.StudentReminderSent, snap.InstructorReminderSent, snap.DailySummarySent,
		snap.CreatedAt, snap.UpdatedAt,
	), nil
}
