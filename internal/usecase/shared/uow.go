package shared

import (
	"context"
	"time"

	"lessonbook/internal/domain/booking"
	"lessonbook/internal/domain/schedule"
	"lessonbook/internal/infra/db"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: full transaction for write operations with retry logic.
	// Conflict detection and the insert run inside one transaction so the
	// instructor-overlap invariant cannot race (check-then-insert alone is not
	// enough; the store also carries an exclusion constraint).
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithDB: single query operations using implicit transactions
	WithDB(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error
}

type Tx interface {
	Bookings() BookingRepository
	Schedules() ScheduleRepository
	Tokens() TokenRepository
	Reads() CommandReads
	DB() db.DBTX
}

// CommandReads are the write-side lookups commands need inside a transaction.
// Snapshots keep the write side independent of read-side view types.
type CommandReads interface {
	BookingForUpdate(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*BookingSnapshot, error)
	ActiveBookingRefsByStudent(ctx context.Context, dbtx db.DBTX, studentID uuid.UUID) ([]schedule.BookingRef, error)
	RulesByInstructor(ctx context.Context, dbtx db.DBTX, instructorID uuid.UUID) ([]schedule.AvailabilityRule, error)
	TimeOffByInstructor(ctx context.Context, dbtx db.DBTX, instructorID uuid.UUID, from, to time.Time) ([]schedule.TimeOff, error)
	ActiveBookingIntervals(ctx context.Context, dbtx db.DBTX, instructorID uuid.UUID, from, to time.Time) ([]schedule.Interval, error)
}

type BookingSnapshot struct {
	ID                     uuid.UUID
	StudentID              uuid.UUID
	InstructorID           uuid.UUID
	StartAt                time.Time
	EndAt                  time.Time
	Status                 string
	ServiceFeeCents        int32
	RefundCents            int32
	CancelReason           *string
	StudentReminderSent    bool
	InstructorReminderSent bool
	DailySummarySent       bool
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

type BookingRepository interface {
	Create(ctx context.Context, dbtx db.DBTX, b *booking.Booking) (uuid.UUID, error)
	UpdateStatus(ctx context.Context, dbtx db.DBTX, id uuid.UUID, status booking.Status, refundCents int32, cancelReason *string) error
}

type ScheduleRepository interface {
	ReplaceRules(ctx context.Context, dbtx db.DBTX, instructorID uuid.UUID, rules []schedule.AvailabilityRule) error
	AddTimeOff(ctx context.Context, dbtx db.DBTX, off schedule.TimeOff) (uuid.UUID, error)
}

type TokenRepository interface {
	DeleteExpired(ctx context.Context, dbtx db.DBTX, now time.Time) (int64, error)
}
