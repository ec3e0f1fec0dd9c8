package booking

import (
	"errors"
	"time"

	"lessonbook/internal/domain/schedule"

	"github.com/google/uuid"
)

var (
	ErrNotPending        = errors.New("booking is not pending")
	ErrAlreadyFinalized  = errors.New("booking is already completed or cancelled")
	ErrSelfBooking       = errors.New("student and instructor must differ")
	ErrNoticeAfterStart  = errors.New("cancellation notice after lesson start")
	ErrFlagAlreadySet    = errors.New("notification flag already set")
	ErrInvalidReminder   = errors.New("unknown reminder flag")
	ErrInvalidFeeAmount  = errors.New("service fee cannot be negative")
	ErrInvalidTimeSlot   = errors.New("invalid booking time slot")
	ErrStatusNotAllowed  = errors.New("status transition not allowed")
	ErrMissingInstructor = errors.New("instructor reference required")
)

// ReminderFlag names one of the three independent notification flags carried
// by a booking. Flags are monotonic: once true they never reset.
type ReminderFlag string

const (
	FlagStudentReminder    ReminderFlag = "student_reminder"
	FlagInstructorReminder ReminderFlag = "instructor_reminder"
	FlagDailySummary       ReminderFlag = "daily_summary"
)

type Booking struct {
	id           uuid.UUID
	studentID    uuid.UUID
	instructorID uuid.UUID
	slot         schedule.Interval
	status       Status
	serviceFee   Money
	refund       Money
	cancelReason string

	studentReminderSent    bool
	instructorReminderSent bool
	dailySummarySent       bool

	createdAt time.Time
	updatedAt time.Time
}

func NewBooking(studentID, instructorID uuid.UUID, slot schedule.Interval, serviceFee Money) (*Booking, error) {
	if instructorID == uuid.Nil {
		return nil, ErrMissingInstructor
	}
	if studentID == instructorID {
		return nil, ErrSelfBooking
	}
	return &Booking{
		id:           uuid.New(),
		studentID:    studentID,
		instructorID: instructorID,
		slot:         slot,
		status:       StatusPending,
		serviceFee:   serviceFee,
	}, nil
}

func ReconstructBooking(
	id, studentID, instructorID uuid.UUID,
	slot schedule.Interval,
	status Status,
	serviceFee, refund Money,
	cancelReason string,
	studentReminderSent, instructorReminderSent, dailySummarySent bool,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:                     id,
		studentID:              studentID,
		instructorID:           instructorID,
		slot:                   slot,
		status:                 status,
		serviceFee:             serviceFee,
		refund:                 refund,
		cancelReason:           cancelReason,
		studentReminderSent:    studentReminderSent,
		instructorReminderSent: instructorReminderSent,
		dailySummarySent:       dailySummarySent,
		createdAt:              createdAt,
		updatedAt:              updatedAt,
	}
}

// EffectiveStatus derives COMPLETED lazily: an active booking whose end has
// passed reads as completed even before the persisted status catches up.
func (b *Booking) EffectiveStatus(now time.Time) Status {
	if b.status.IsActive() && !now.Before(b.slot.End()) {
		return StatusCompleted
	}
	return b.status
}

// Confirm moves PENDING -> CONFIRMED. Any other starting state is an
// invalid-state failure, including a booking whose lesson already ended.
func (b *Booking) Confirm(now time.Time) error {
	if b.EffectiveStatus(now) != StatusPending {
		return ErrNotPending
	}
	b.status = StatusConfirmed
	return nil
}

// Cancel moves an active booking to CANCELLED and records the refund
// computed from the notice window (noticeAt to slot start). Cancelling a
// completed or cancelled booking fails without mutation.
func (b *Booking) Cancel(noticeAt time.Time, reason string) error {
	if !b.EffectiveStatus(noticeAt).IsActive() {
		return ErrAlreadyFinalized
	}

	notice := b.slot.Start().Sub(noticeAt)
	if notice < 0 {
		notice = 0
	}
	b.refund = b.serviceFee.Percent(RefundPercent(notice))
	b.status = StatusCancelled
	b.cancelReason = reason
	return nil
}

// MarkReminderSent flips one notification flag false -> true. Returns
// ErrFlagAlreadySet when the flag is already up, so a repeated tick can
// distinguish "nothing to do" from a genuine first send.
func (b *Booking) MarkReminderSent(flag ReminderFlag) error {
	switch flag {
	case FlagStudentReminder:
		if b.studentReminderSent {
			return ErrFlagAlreadySet
		}
		b.studentReminderSent = true
	case FlagInstructorReminder:
		if b.instructorReminderSent {
			return ErrFlagAlreadySet
		}
		b.instructorReminderSent = true
	case FlagDailySummary:
		if b.dailySummarySent {
			return ErrFlagAlreadySet
		}
		b.dailySummarySent = true
	default:
		return ErrInvalidReminder
	}
	return nil
}

func (b *Booking) ReminderSent(flag ReminderFlag) bool {
	switch flag {
	case FlagStudentReminder:
		return b.studentReminderSent
	case FlagInstructorReminder:
		return b.instructorReminderSent
	case FlagDailySummary:
		return b.dailySummarySent
	default:
		return false
	}
}

func (b *Booking) ID() uuid.UUID           { return b.id }
func (b *Booking) StudentID() uuid.UUID    { return b.studentID }
func (b *Booking) InstructorID() uuid.UUID { return b.instructorID }
func (b *Booking) Slot() schedule.Interval { return b.slot }
func (b *Booking) Status() Status          { return b.status }
func (b *Booking) ServiceFee() Money       { return b.serviceFee }
func (b *Booking) Refund() Money           { return b.refund }
func (b *Booking) CancelReason() string    { return b.cancelReason }
func (b *Booking) CreatedAt() time.Time    { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time    { return b.updatedAt }

func (b *Booking) Ref() schedule.BookingRef {
	return schedule.BookingRef{
		BookingID:    b.id,
		InstructorID: b.instructorID,
		Interval:     b.slot,
	}
}
