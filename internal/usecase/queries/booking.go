package queries

import (
	"context"
	"time"

	"lessonbook/internal/domain/booking"
	"lessonbook/internal/domain/schedule"
	"lessonbook/internal/infra"
	"lessonbook/internal/pkg/clock"
	"lessonbook/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrBookingNotFound  = errs.New("booking not found")
	ErrInvalidInterval  = errs.New("invalid interval")
	ErrForbiddenBooking = errs.New("booking belongs to another user")
)

type BookingReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*BookingView, error)
	FindByStudent(ctx context.Context, studentID uuid.UUID) ([]*BookingListItem, error)
	ActiveRefsByStudent(ctx context.Context, studentID uuid.UUID) ([]schedule.BookingRef, error)
}

type BookingQueries interface {
	GetByID(ctx context.Context, actor uuid.UUID, id uuid.UUID) (*BookingView, error)
	// GetByIDSystem skips the ownership check; used for read-after-write
	// inside commands.
	GetByIDSystem(ctx context.Context, id uuid.UUID) (*BookingView, error)
	ListByStudent(ctx context.Context, studentID uuid.UUID) ([]*BookingListItem, error)
	// CheckConflict classifies overlaps between a proposed interval and the
	// student's active bookings. Also consumed by calendar views to highlight
	// collisions; the core only classifies, it never renders.
	CheckConflict(ctx context.Context, studentID, instructorID uuid.UUID, startAt, endAt time.Time, excludeBookingID *uuid.UUID) (*ConflictCheckResult, error)
}

type bookingQueriesImpl struct {
	store BookingReadStore
	clock clock.Clock
}

func NewBookingQueries(store BookingReadStore, clk clock.Clock) BookingQueries {
	return &bookingQueriesImpl{store: store, clock: clk}
}

func (q *bookingQueriesImpl) GetByID(ctx context.Context, actor uuid.UUID, id uuid.UUID) (*BookingView, error) {
	view, err := q.GetByIDSystem(ctx, id)
	if err != nil {
		return nil, err
	}
	if view.StudentID != actor && view.InstructorID != actor {
		return nil, ErrForbiddenBooking
	}
	return view, nil
}

func (q *bookingQueriesImpl) GetByIDSystem(ctx context.Context, id uuid.UUID) (*BookingView, error) {
	view, err := q.store.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, ErrBookingNotFound)
		}
		return nil, err
	}
	applyEffectiveStatus(view, q.clock.Now())
	return view, nil
}

func (q *bookingQueriesImpl) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]*BookingListItem, error) {
	items, err := q.store.FindByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	now := q.clock.Now()
	for _, item := range items {
		if booking.Status(item.Status).IsActive() && !now.Before(item.EndAt) {
			item.Status = booking.StatusCompleted.String()
		}
	}
	return items, nil
}

func (q *bookingQueriesImpl) CheckConflict(ctx context.Context, studentID, instructorID uuid.UUID, startAt, endAt time.Time, excludeBookingID *uuid.UUID) (*ConflictCheckResult, error) {
	proposed, err := schedule.NewInterval(startAt, endAt)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidInterval)
	}

	active, err := q.store.ActiveRefsByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	result := schedule.CheckConflicts(proposed, instructorID, active, excludeBookingID)
	return toConflictCheckResult(result), nil
}

func toConflictCheckResult(result schedule.ConflictResult) *ConflictCheckResult {
	out := &ConflictCheckResult{HasConflict: !result.None()}
	for _, c := range result.Conflicts {
		out.Conflicts = append(out.Conflicts, ConflictItem{
			BookingID:    c.BookingID,
			InstructorID: c.InstructorID,
			StartAt:      c.Interval.Start(),
			EndAt:        c.Interval.End(),
			Kind:         string(c.Kind),
		})
	}
	return out
}

// Lazy completion on the read path: active bookings whose end has passed read
// as completed; the persisted row catches up on the next write.
func applyEffectiveStatus(view *BookingView, now time.Time) {
	if booking.Status(view.Status).IsActive() && !now.Before(view.EndAt) {
		view.Status = booking.StatusCompleted.String()
	}
}
