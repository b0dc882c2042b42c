package schedule_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garageworks/garage-scheduler/internal/domain/schedule"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDayOf(t *testing.T) {
	in := time.Date(2026, 3, 15, 18, 45, 12, 0, time.UTC)
	assert.Equal(t, day(2026, 3, 15), schedule.DayOf(in))
}

func TestParseDay(t *testing.T) {
	got, err := schedule.ParseDay("2026-03-15")
	require.NoError(t, err)
	assert.Equal(t, day(2026, 3, 15), got)

	_, err = schedule.ParseDay("15/03/2026")
	assert.Error(t, err)

	_, err = schedule.ParseDay("2026-02-30")
	assert.Error(t, err)
}

func TestWithinHorizon(t *testing.T) {
	today := day(2026, 3, 15)

	assert.True(t, schedule.WithinHorizon(today, today))
	assert.True(t, schedule.WithinHorizon(today, day(2026, 4, 20)))
	assert.True(t, schedule.WithinHorizon(today, day(2026, 5, 15)), "horizon end is inclusive")

	assert.False(t, schedule.WithinHorizon(today, day(2026, 3, 14)), "yesterday")
	assert.False(t, schedule.WithinHorizon(today, day(2026, 5, 16)), "past the horizon")
}

func TestClampRange(t *testing.T) {
	today := day(2026, 3, 15)

	t.Run("inside range untouched", func(t *testing.T) {
		s, e, ok := schedule.ClampRange(today, day(2026, 3, 20), day(2026, 4, 1))
		require.True(t, ok)
		assert.Equal(t, day(2026, 3, 20), s)
		assert.Equal(t, day(2026, 4, 1), e)
	})

	t.Run("clamps both ends", func(t *testing.T) {
		s, e, ok := schedule.ClampRange(today, day(2026, 1, 1), day(2026, 12, 31))
		require.True(t, ok)
		assert.Equal(t, today, s)
		assert.Equal(t, schedule.HorizonEnd(today), e)
	})

	t.Run("fully past range is empty", func(t *testing.T) {
		_, _, ok := schedule.ClampRange(today, day(2026, 1, 1), day(2026, 2, 1))
		assert.False(t, ok)
	})

	t.Run("fully future range is empty", func(t *testing.T) {
		_, _, ok := schedule.ClampRange(today, day(2026, 8, 1), day(2026, 9, 1))
		assert.False(t, ok)
	})

	t.Run("inverted range is empty", func(t *testing.T) {
		_, _, ok := schedule.ClampRange(today, day(2026, 4, 10), day(2026, 4, 1))
		assert.False(t, ok)
	})
}
