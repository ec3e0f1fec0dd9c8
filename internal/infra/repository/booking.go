package repository

import (
	"context"
	"errors"

	"lessonbook/internal/domain/booking"
	"lessonbook/internal/infra"
	"lessonbook/internal/infra/db"
	"lessonbook/internal/infra/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgErrCodeUniqueViolation    = "23505"
	pgErrCodeForeignKeyViolated = "23503"
	pgErrCodeExclusionViolation = "23P01"
)

type BookingRepository struct{}

func NewBookingRepository() *BookingRepository {
	return &BookingRepository{}
}

const createBookingSQL = `
INSERT INTO bookings (
    id, student_id, instructor_id, start_at, end_at, status,
    service_fee_cents, refund_cents, cancel_reason,
    student_reminder_sent, instructor_reminder_sent, daily_summary_sent,
    created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, 0, NULL, FALSE, FALSE, FALSE, now(), now())
RETURNING id`

func (r *BookingRepository) Create(ctx context.Context, dbtx db.DBTX, b *booking.Booking) (uuid.UUID, error) {
	var id uuid.UUID
	err := dbtx.QueryRow(ctx, createBookingSQL,
		b.ID(),
		b.StudentID(),
		b.InstructorID(),
		pgconv.TimeToPgtype(b.Slot().Start()),
		pgconv.TimeToPgtype(b.Slot().End()),
		b.Status().String(),
		b.ServiceFee().Cents(),
	).Scan(&id)
	if err != nil {
		return uuid.Nil, mapBookingWriteErr("failed to create booking", err)
	}
	return id, nil
}

const updateBookingStatusSQL = `
UPDATE bookings
SET status = $2, refund_cents = $3, cancel_reason = $4, updated_at = now()
WHERE id = $1`

func (r *BookingRepository) UpdateStatus(ctx context.Context, dbtx db.DBTX, id uuid.UUID, status booking.Status, refundCents int32, cancelReason *string) error {
	tag, err := dbtx.Exec(ctx, updateBookingStatusSQL, id, status.String(), refundCents, pgconv.StringPtrToPgtype(cancelReason))
	if err != nil {
		return infra.WrapRepoErr("failed to update booking status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	return nil
}

// The bookings table carries an exclusion constraint over
// (instructor_id, tstzrange(start_at, end_at)) restricted to active rows;
// its violation is the losing side of a double-booking race.
func mapBookingWriteErr(msg string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgErrCodeExclusionViolation:
			return infra.WrapRepoErr(msg, err, infra.KindConflict)
		case pgErrCodeUniqueViolation:
			return infra.WrapRepoErr(msg, err, infra.KindDuplicateKey)
		case pgErrCodeForeignKeyViolated:
			return infra.WrapRepoErr(msg, err, infra.KindForeignKeyViolated)
		}
	}
	return infra.WrapRepoErr(msg, err)
}
