//go:build unit

package booking_test

import (
	"testing"
	"time"

	"lessonbook/internal/domain/booking"
	"lessonbook/internal/domain/schedule"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var lessonStart = time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)

func newPendingBooking(t *testing.T) *booking.Booking {
	t.Helper()
	slot, err := schedule.NewInterval(lessonStart, lessonStart.Add(time.Hour))
	require.NoError(t, err)
	fee, err := booking.NewMoney(500)
	require.NoError(t, err)

	b, err := booking.NewBooking(uuid.New(), uuid.New(), slot, fee)
	require.NoError(t, err)
	return b
}

func TestNewBooking(t *testing.T) {
	t.Run("starts pending with no refund", func(t *testing.T) {
		b := newPendingBooking(t)
		assert.Equal(t, booking.StatusPending, b.Status())
		assert.NotEqual(t, uuid.Nil, b.ID())
		assert.True(t, b.Refund().IsZero())
		assert.False(t, b.ReminderSent(booking.FlagStudentReminder))
		assert.False(t, b.ReminderSent(booking.FlagInstructorReminder))
		assert.False(t, b.ReminderSent(booking.FlagDailySummary))
	})

	t.Run("rejects missing instructor", func(t *testing.T) {
		slot, err := schedule.NewInterval(lessonStart, lessonStart.Add(time.Hour))
		require.NoError(t, err)
		fee, err := booking.NewMoney(500)
		require.NoError(t, err)

		_, err = booking.NewBooking(uuid.New(), uuid.Nil, slot, fee)
		require.ErrorIs(t, err, booking.ErrMissingInstructor)
	})

	t.Run("rejects booking with oneself", func(t *testing.T) {
		slot, err := schedule.NewInterval(lessonStart, lessonStart.Add(time.Hour))
		require.NoError(t, err)
		fee, err := booking.NewMoney(500)
		require.NoError(t, err)

		id := uuid.New()
		_, err = booking.NewBooking(id, id, slot, fee)
		require.ErrorIs(t, err, booking.ErrSelfBooking)
	})
}

func TestConfirm(t *testing.T) {
	t.Run("pending becomes confirmed", func(t *testing.T) {
		b := newPendingBooking(t)
		require.NoError(t, b.Confirm(lessonStart.Add(-2*time.Hour)))
		assert.Equal(t, booking.StatusConfirmed, b.Status())
	})

	t.Run("confirming twice fails", func(t *testing.T) {
		b := newPendingBooking(t)
		require.NoError(t, b.Confirm(lessonStart.Add(-2*time.Hour)))
		require.ErrorIs(t, b.Confirm(lessonStart.Add(-time.Hour)), booking.ErrNotPending)
	})

	t.Run("confirming after the lesson ended fails", func(t *testing.T) {
		b := newPendingBooking(t)
		err := b.Confirm(lessonStart.Add(2 * time.Hour))
		require.ErrorIs(t, err, booking.ErrNotPending)
	})
}

func TestCancelRefundTiers(t *testing.T) {
	cases := []struct {
		name        string
		notice      time.Duration
		refundCents int32
	}{
		{"25 hours notice refunds everything", 25 * time.Hour, 500},
		{"exactly 24 hours refunds everything", 24 * time.Hour, 500},
		{"18 hours notice refunds half", 18 * time.Hour, 250},
		{"exactly 12 hours refunds half", 12 * time.Hour, 250},
		{"6 hours notice refunds nothing", 6 * time.Hour, 0},
		{"one minute notice refunds nothing", time.Minute, 0},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			b := newPendingBooking(t)
			require.NoError(t, b.Cancel(lessonStart.Add(-c.notice), "schedule change"))

			assert.Equal(t, booking.StatusCancelled, b.Status())
			assert.Equal(t, c.refundCents, b.Refund().Cents())
			assert.Equal(t, "schedule change", b.CancelReason())
		})
	}
}

func TestCancelStateGuards(t *testing.T) {
	t.Run("confirmed booking can cancel", func(t *testing.T) {
		b := newPendingBooking(t)
		require.NoError(t, b.Confirm(lessonStart.Add(-48*time.Hour)))
		require.NoError(t, b.Cancel(lessonStart.Add(-25*time.Hour), ""))
		assert.Equal(t, int32(500), b.Refund().Cents())
	})

	t.Run("cancelling twice fails without mutation", func(t *testing.T) {
		b := newPendingBooking(t)
		require.NoError(t, b.Cancel(lessonStart.Add(-25*time.Hour), "first"))
		require.ErrorIs(t, b.Cancel(lessonStart.Add(-25*time.Hour), "second"), booking.ErrAlreadyFinalized)
		assert.Equal(t, "first", b.CancelReason())
	})

	t.Run("cancelling after the lesson ended fails", func(t *testing.T) {
		b := newPendingBooking(t)
		err := b.Cancel(lessonStart.Add(2*time.Hour), "")
		require.ErrorIs(t, err, booking.ErrAlreadyFinalized)
		assert.Equal(t, booking.StatusPending, b.Status())
	})
}

func TestEffectiveStatus(t *testing.T) {
	b := newPendingBooking(t)
	lessonEnd := lessonStart.Add(time.Hour)

	assert.Equal(t, booking.StatusPending, b.EffectiveStatus(lessonStart.Add(-time.Hour)))
	assert.Equal(t, booking.StatusPending, b.EffectiveStatus(lessonStart.Add(30*time.Minute)), "in-progress lesson is still active")
	assert.Equal(t, booking.StatusCompleted, b.EffectiveStatus(lessonEnd), "end instant is already completed")
	assert.Equal(t, booking.StatusCompleted, b.EffectiveStatus(lessonEnd.Add(time.Hour)))

	require.NoError(t, b.Cancel(lessonStart.Add(-25*time.Hour), ""))
	assert.Equal(t, booking.StatusCancelled, b.EffectiveStatus(lessonEnd.Add(time.Hour)), "terminal status never derives to completed")
}

func TestMarkReminderSent(t *testing.T) {
	flags := []booking.ReminderFlag{
		booking.FlagStudentReminder,
		booking.FlagInstructorReminder,
		booking.FlagDailySummary,
	}

	for _, flag := range flags {
		t.Run(string(flag), func(t *testing.T) {
			b := newPendingBooking(t)
			require.NoError(t, b.MarkReminderSent(flag))
			assert.True(t, b.ReminderSent(flag))

			require.ErrorIs(t, b.MarkReminderSent(flag), booking.ErrFlagAlreadySet)
			assert.True(t, b.ReminderSent(flag), "flag stays up")
		})
	}

	t.Run("flags are independent", func(t *testing.T) {
		b := newPendingBooking(t)
		require.NoError(t, b.MarkReminderSent(booking.FlagStudentReminder))
		assert.False(t, b.ReminderSent(booking.FlagInstructorReminder))
		assert.False(t, b.ReminderSent(booking.FlagDailySummary))
	})

	t.Run("unknown flag", func(t *testing.T) {
		b := newPendingBooking(t)
		require.ErrorIs(t, b.MarkReminderSent(booking.ReminderFlag("bogus")), booking.ErrInvalidReminder)
	})
}

func TestRefundPercent(t *testing.T) {
	assert.Equal(t, 100, booking.RefundPercent(48*time.Hour))
	assert.Equal(t, 100, booking.RefundPercent(24*time.Hour))
	assert.Equal(t, 50, booking.RefundPercent(24*time.Hour-time.Second))
	assert.Equal(t, 50, booking.RefundPercent(12*time.Hour))
	assert.Equal(t, 0, booking.RefundPercent(12*time.Hour-time.Second))
	assert.Equal(t, 0, booking.RefundPercent(0))
}
