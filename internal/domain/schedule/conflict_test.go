//go:build unit

package schedule_test

import (
	"testing"
	"time"

	"lessonbook/internal/domain/schedule"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ref(t *testing.T, instructorID uuid.UUID, startHour, endHour int) schedule.BookingRef {
	t.Helper()
	iv, err := schedule.NewInterval(at(startHour, 0), at(endHour, 0))
	require.NoError(t, err)
	return schedule.BookingRef{
		BookingID:    uuid.New(),
		InstructorID: instructorID,
		Interval:     iv,
	}
}

func TestCheckConflicts(t *testing.T) {
	instructorA := uuid.New()
	instructorB := uuid.New()

	proposed, err := schedule.NewInterval(at(10, 0), at(11, 0))
	require.NoError(t, err)

	t.Run("no active bookings", func(t *testing.T) {
		result := schedule.CheckConflicts(proposed, instructorA, nil, nil)
		assert.True(t, result.None())
	})

	t.Run("disjoint bookings do not conflict", func(t *testing.T) {
		active := []schedule.BookingRef{
			ref(t, instructorA, 8, 9),
			ref(t, instructorB, 11, 12),
		}
		result := schedule.CheckConflicts(proposed, instructorA, active, nil)
		assert.True(t, result.None())
	})

	t.Run("touching endpoints do not conflict", func(t *testing.T) {
		active := []schedule.BookingRef{ref(t, instructorA, 9, 10)}
		result := schedule.CheckConflicts(proposed, instructorA, active, nil)
		assert.True(t, result.None())
	})

	t.Run("same instructor overlap is classified", func(t *testing.T) {
		existing := ref(t, instructorA, 10, 12)
		result := schedule.CheckConflicts(proposed, instructorA, []schedule.BookingRef{existing}, nil)
		require.Len(t, result.Conflicts, 1)
		assert.Equal(t, schedule.ConflictSameInstructor, result.Conflicts[0].Kind)
		assert.Equal(t, existing.BookingID, result.Conflicts[0].BookingID)
	})

	t.Run("different instructor overlap is classified", func(t *testing.T) {
		existing := ref(t, instructorB, 10, 12)
		result := schedule.CheckConflicts(proposed, instructorA, []schedule.BookingRef{existing}, nil)
		require.Len(t, result.Conflicts, 1)
		assert.Equal(t, schedule.ConflictDifferentInstructor, result.Conflicts[0].Kind)
	})

	t.Run("same-instructor conflicts sort first", func(t *testing.T) {
		other := ref(t, instructorB, 10, 11)
		same := ref(t, instructorA, 10, 12)
		result := schedule.CheckConflicts(proposed, instructorA, []schedule.BookingRef{other, same}, nil)
		require.Len(t, result.Conflicts, 2)
		assert.Equal(t, schedule.ConflictSameInstructor, result.Conflicts[0].Kind)
		assert.Equal(t, schedule.ConflictDifferentInstructor, result.Conflicts[1].Kind)
	})

	t.Run("same kind sorts by start time", func(t *testing.T) {
		later, err := schedule.NewInterval(at(10, 30), at(11, 30))
		require.NoError(t, err)
		earlier, err := schedule.NewInterval(at(9, 30), at(10, 30))
		require.NoError(t, err)
		refs := []schedule.BookingRef{
			{BookingID: uuid.New(), InstructorID: instructorB, Interval: later},
			{BookingID: uuid.New(), InstructorID: instructorB, Interval: earlier},
		}
		result := schedule.CheckConflicts(proposed, instructorA, refs, nil)
		require.Len(t, result.Conflicts, 2)
		assert.True(t, result.Conflicts[0].Interval.Start().Before(result.Conflicts[1].Interval.Start()))
	})

	t.Run("excluded booking is skipped", func(t *testing.T) {
		existing := ref(t, instructorA, 10, 12)
		result := schedule.CheckConflicts(proposed, instructorA, []schedule.BookingRef{existing}, &existing.BookingID)
		assert.True(t, result.None())
	})

	t.Run("all conflicts are reported", func(t *testing.T) {
		refs := []schedule.BookingRef{
			ref(t, instructorA, 9, 11),
			ref(t, instructorB, 10, 12),
			ref(t, instructorB, 8, 9), // disjoint
		}
		result := schedule.CheckConflicts(proposed, instructorA, refs, nil)
		assert.Len(t, result.Conflicts, 2)
	})
}

func TestRuleWindowOn(t *testing.T) {
	rule := schedule.AvailabilityRule{
		InstructorID: uuid.New(),
		Weekday:      time.Monday,
		StartMinute:  9*60 + 30,
		EndMinute:    17 * 60,
	}

	window, err := rule.WindowOn(monday)
	require.NoError(t, err)
	assert.Equal(t, at(9, 30), window.Start())
	assert.Equal(t, at(17, 0), window.End())
}
