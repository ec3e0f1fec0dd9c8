package readstore

import (
	"context"
	"time"

	"lessonbook/internal/domain/schedule"
	"lessonbook/internal/infra"
	"lessonbook/internal/infra/db"
	"lessonbook/internal/infra/pgconv"
	"lessonbook/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BookingReadStore struct {
	pool *pgxpool.Pool
	loc  *time.Location
}

func NewBookingReadStore(pool *pgxpool.Pool, loc *time.Location) *BookingReadStore {
	return &BookingReadStore{pool: pool, loc: loc}
}

const bookingByIDSQL = `
SELECT b.id, b.student_id, s.name, b.instructor_id, i.name,
       b.start_at, b.end_at, b.status,
       b.service_fee_cents, b.refund_cents, b.cancel_reason,
       b.student_reminder_sent, b.instructor_reminder_sent, b.daily_summary_sent,
       b.created_at, b.updated_at
FROM bookings b
JOIN users s ON s.id = b.student_id
JOIN users i ON i.id = b.instructor_id
WHERE b.id = $1`

func (r *BookingReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.BookingView, error) {
	var (
		view                 queries.BookingView
		startAt, endAt       pgtype.Timestamptz
		createdAt, updatedAt pgtype.Timestamptz
		cancelReason         pgtype.Text
	)
	err := r.pool.QueryRow(ctx, bookingByIDSQL, id).Scan(
		&view.ID, &view.StudentID, &view.StudentName, &view.InstructorID, &view.InstructorName,
		&startAt, &endAt, &view.Status,
		&view.ServiceFeeCents, &view.RefundCents, &cancelReason,
		&view.StudentReminderSent, &view.InstructorReminderSent, &view.DailySummarySent,
		&createdAt, &updatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking by ID", err)
	}

	view.StartAt = pgconv.TimeFromPgtype(startAt, r.loc)
	view.EndAt = pgconv.TimeFromPgtype(endAt, r.loc)
	view.CreatedAt = pgconv.TimeFromPgtype(createdAt, r.loc)
	view.UpdatedAt = pgconv.TimeFromPgtype(updatedAt, r.loc)
	view.CancelReason = pgconv.StringPtrFromPgtype(cancelReason)
	return &view, nil
}

const bookingsByStudentSQL = `
SELECT b.id, b.instructor_id, i.name, b.start_at, b.end_at, b.status, b.service_fee_cents, b.created_at
FROM bookings b
JOIN users i ON i.id = b.instructor_id
WHERE b.student_id = $1
ORDER BY b.start_at DESC`

func (r *BookingReadStore) FindByStudent(ctx context.Context, studentID uuid.UUID) ([]*queries.BookingListItem, error) {
	rows, err := r.pool.Query(ctx, bookingsByStudentSQL, studentID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find bookings by student", err)
	}
	defer rows.Close()

	var items []*queries.BookingListItem
	for rows.Next() {
		var (
			item           queries.BookingListItem
			startAt, endAt pgtype.Timestamptz
			createdAt      pgtype.Timestamptz
		)
		if err := rows.Scan(&item.ID, &item.InstructorID, &item.InstructorName, &startAt, &endAt, &item.Status, &item.ServiceFeeCents, &createdAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan booking list item", err)
		}
		item.StartAt = pgconv.TimeFromPgtype(startAt, r.loc)
		item.EndAt = pgconv.TimeFromPgtype(endAt, r.loc)
		item.CreatedAt = pgconv.TimeFromPgtype(createdAt, r.loc)
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read bookings by student", err)
	}
	return items, nil
}

const activeRefsByStudentSQL = `
SELECT id, instructor_id, start_at, end_at
FROM bookings
WHERE student_id = $1 AND status IN ('pending', 'confirmed')
ORDER BY start_at`

func (r *BookingReadStore) ActiveRefsByStudent(ctx context.Context, studentID uuid.UUID) ([]schedule.BookingRef, error) {
	return queryActiveRefsByStudent(ctx, r.pool, studentID, r.loc)
}

func queryActiveRefsByStudent(ctx context.Context, dbtx db.DBTX, studentID uuid.UUID, loc *time.Location) ([]schedule.BookingRef, error) {
	rows, err := dbtx.Query(ctx, activeRefsByStudentSQL, studentID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load student's active bookings", err)
	}
	defer rows.Close()

	var refs []schedule.BookingRef
	for rows.Next() {
		var (
			bookingID, instructorID uuid.UUID
			startAt, endAt          pgtype.Timestamptz
		)
		if err := rows.Scan(&bookingID, &instructorID, &startAt, &endAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan active booking", err)
		}
		iv, err := schedule.NewInterval(pgconv.TimeFromPgtype(startAt, loc), pgconv.TimeFromPgtype(endAt, loc))
		if err != nil {
			return nil, infra.WrapRepoErr("stored booking interval is malformed", err)
		}
		refs = append(refs, schedule.BookingRef{
			BookingID:    bookingID,
			InstructorID: instructorID,
			Interval:     iv,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read active bookings", err)
	}
	return refs, nil
}
