//go:build unit

package schedule_test

import (
	"testing"
	"time"

	"lessonbook/internal/domain/schedule"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustInterval(t *testing.T, startHour, startMin, endHour, endMin int) schedule.Interval {
	t.Helper()
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	iv, err := schedule.NewInterval(
		day.Add(time.Duration(startHour)*time.Hour+time.Duration(startMin)*time.Minute),
		day.Add(time.Duration(endHour)*time.Hour+time.Duration(endMin)*time.Minute),
	)
	require.NoError(t, err)
	return iv
}

func TestNewInterval(t *testing.T) {
	day := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	t.Run("start before end", func(t *testing.T) {
		iv, err := schedule.NewInterval(day, day.Add(time.Hour))
		require.NoError(t, err)
		assert.Equal(t, time.Hour, iv.Duration())
	})

	t.Run("start equals end", func(t *testing.T) {
		_, err := schedule.NewInterval(day, day)
		require.ErrorIs(t, err, schedule.ErrInvalidInterval)
	})

	t.Run("start after end", func(t *testing.T) {
		_, err := schedule.NewInterval(day.Add(time.Hour), day)
		require.ErrorIs(t, err, schedule.ErrInvalidInterval)
	})
}

func TestIntervalOverlaps(t *testing.T) {
	cases := []struct {
		name    string
		a, b    schedule.Interval
		overlap bool
	}{
		{"disjoint", mustInterval(t, 9, 0, 10, 0), mustInterval(t, 11, 0, 12, 0), false},
		{"partial overlap", mustInterval(t, 9, 0, 10, 30), mustInterval(t, 10, 0, 11, 0), true},
		{"contained", mustInterval(t, 9, 0, 12, 0), mustInterval(t, 10, 0, 11, 0), true},
		{"identical", mustInterval(t, 9, 0, 10, 0), mustInterval(t, 9, 0, 10, 0), true},
		{"touching endpoints do not overlap", mustInterval(t, 9, 0, 10, 0), mustInterval(t, 10, 0, 11, 0), false},
		{"touching the other way", mustInterval(t, 10, 0, 11, 0), mustInterval(t, 9, 0, 10, 0), false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.overlap, c.a.Overlaps(c.b))
			assert.Equal(t, c.overlap, c.b.Overlaps(c.a), "overlap must be symmetric")
		})
	}
}

func TestIntervalContains(t *testing.T) {
	iv := mustInterval(t, 9, 0, 10, 0)

	assert.True(t, iv.Contains(iv.Start()), "start is inside the half-open range")
	assert.True(t, iv.Contains(iv.Start().Add(30*time.Minute)))
	assert.False(t, iv.Contains(iv.End()), "end is outside the half-open range")
	assert.False(t, iv.Contains(iv.Start().Add(-time.Minute)))
}

func TestIntervalSubtract(t *testing.T) {
	t.Run("no overlap leaves the interval intact", func(t *testing.T) {
		remaining := mustInterval(t, 9, 0, 10, 0).Subtract(mustInterval(t, 11, 0, 12, 0))
		require.Len(t, remaining, 1)
		assert.Equal(t, mustInterval(t, 9, 0, 10, 0), remaining[0])
	})

	t.Run("blocker covers everything", func(t *testing.T) {
		remaining := mustInterval(t, 9, 0, 10, 0).Subtract(mustInterval(t, 8, 0, 12, 0))
		assert.Empty(t, remaining)
	})

	t.Run("blocker clips the front", func(t *testing.T) {
		remaining := mustInterval(t, 9, 0, 12, 0).Subtract(mustInterval(t, 8, 0, 10, 0))
		require.Len(t, remaining, 1)
		assert.Equal(t, mustInterval(t, 10, 0, 12, 0), remaining[0])
	})

	t.Run("blocker clips the back", func(t *testing.T) {
		remaining := mustInterval(t, 9, 0, 12, 0).Subtract(mustInterval(t, 11, 0, 13, 0))
		require.Len(t, remaining, 1)
		assert.Equal(t, mustInterval(t, 9, 0, 11, 0), remaining[0])
	})

	t.Run("blocker splits the middle", func(t *testing.T) {
		remaining := mustInterval(t, 8, 0, 12, 0).Subtract(mustInterval(t, 9, 0, 10, 0))
		require.Len(t, remaining, 2)
		assert.Equal(t, mustInterval(t, 8, 0, 9, 0), remaining[0])
		assert.Equal(t, mustInterval(t, 10, 0, 12, 0), remaining[1])
	})
}

func TestSubtractAll(t *testing.T) {
	t.Run("multiple blockers in order", func(t *testing.T) {
		free := schedule.SubtractAll(
			[]schedule.Interval{mustInterval(t, 8, 0, 12, 0)},
			[]schedule.Interval{mustInterval(t, 9, 0, 10, 0), mustInterval(t, 11, 0, 11, 30)},
		)
		require.Len(t, free, 3)
		assert.Equal(t, mustInterval(t, 8, 0, 9, 0), free[0])
		assert.Equal(t, mustInterval(t, 10, 0, 11, 0), free[1])
		assert.Equal(t, mustInterval(t, 11, 30, 12, 0), free[2])
	})

	t.Run("overlapping blockers", func(t *testing.T) {
		free := schedule.SubtractAll(
			[]schedule.Interval{mustInterval(t, 8, 0, 12, 0)},
			[]schedule.Interval{mustInterval(t, 9, 0, 11, 0), mustInterval(t, 10, 0, 11, 30)},
		)
		require.Len(t, free, 2)
		assert.Equal(t, mustInterval(t, 8, 0, 9, 0), free[0])
		assert.Equal(t, mustInterval(t, 11, 30, 12, 0), free[1])
	})

	t.Run("everything blocked", func(t *testing.T) {
		free := schedule.SubtractAll(
			[]schedule.Interval{mustInterval(t, 8, 0, 12, 0)},
			[]schedule.Interval{mustInterval(t, 7, 0, 13, 0)},
		)
		assert.Nil(t, free)
	})
}
