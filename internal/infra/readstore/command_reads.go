package readstore

import (
	"context"
	"time"

	"lessonbook/internal/domain/schedule"
	"lessonbook/internal/infra"
	"lessonbook/internal/infra/db"
	"lessonbook/internal/infra/pgconv"
	"lessonbook/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// CommandReads are the write-side lookups; they run on whatever dbtx the
// surrounding transaction hands them.
type CommandReads struct {
	loc *time.Location
}

func NewCommandReads(loc *time.Location) *CommandReads {
	return &CommandReads{loc: loc}
}

const bookingForUpdateSQL = `
SELECT id, student_id, instructor_id, start_at, end_at, status,
       service_fee_cents, refund_cents, cancel_reason,
       student_reminder_sent, instructor_reminder_sent, daily_summary_sent,
       created_at, updated_at
FROM bookings
WHERE id = $1
FOR UPDATE`

func (r *CommandReads) BookingForUpdate(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*shared.BookingSnapshot, error) {
	var (
		snap                 shared.BookingSnapshot
		startAt, endAt       pgtype.Timestamptz
		createdAt, updatedAt pgtype.Timestamptz
		cancelReason         pgtype.Text
	)
	err := dbtx.QueryRow(ctx, bookingForUpdateSQL, id).Scan(
		&snap.ID, &snap.StudentID, &snap.InstructorID, &startAt, &endAt, &snap.Status,
		&snap.ServiceFeeCents, &snap.RefundCents, &cancelReason,
		&snap.StudentReminderSent, &snap.InstructorReminderSent, &snap.DailySummarySent,
		&createdAt, &updatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to lock booking row", err)
	}

	snap.StartAt = pgconv.TimeFromPgtype(startAt, r.loc)
	snap.EndAt = pgconv.TimeFromPgtype(endAt, r.loc)
	snap.CreatedAt = pgconv.TimeFromPgtype(createdAt, r.loc)
	snap.UpdatedAt = pgconv.TimeFromPgtype(updatedAt, r.loc)
	snap.CancelReason = pgconv.StringPtrFromPgtype(cancelReason)
	return &snap, nil
}

func (r *CommandReads) ActiveBookingRefsByStudent(ctx context.Context, dbtx db.DBTX, studentID uuid.UUID) ([]schedule.BookingRef, error) {
	return queryActiveRefsByStudent(ctx, dbtx, studentID, r.loc)
}

func (r *CommandReads) RulesByInstructor(ctx context.Context, dbtx db.DBTX, instructorID uuid.UUID) ([]schedule.AvailabilityRule, error) {
	return queryRules(ctx, dbtx, instructorID)
}

func (r *CommandReads) TimeOffByInstructor(ctx context.Context, dbtx db.DBTX, instructorID uuid.UUID, from, to time.Time) ([]schedule.TimeOff, error) {
	return queryTimeOff(ctx, dbtx, instructorID, from, to, r.loc)
}

func (r *CommandReads) ActiveBookingIntervals(ctx context.Context, dbtx db.DBTX, instructorID uuid.UUID, from, to time.Time) ([]schedule.Interval, error) {
	return queryActiveIntervals(ctx, dbtx, instructorID, from, to, r.loc)
}
