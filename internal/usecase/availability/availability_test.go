package availability_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garageworks/garage-scheduler/internal/conflictguard"
	"github.com/garageworks/garage-scheduler/internal/domain/schedule"
	"github.com/garageworks/garage-scheduler/internal/httperr"
	"github.com/garageworks/garage-scheduler/internal/models"
	"github.com/garageworks/garage-scheduler/internal/schedtest"
	"github.com/garageworks/garage-scheduler/internal/usecase/availability"
)

const testTZ = "UTC"

func today() time.Time {
	return schedule.DayOf(time.Now().UTC())
}

func seedDay(t *testing.T, repo *schedtest.MemoryRepository, date time.Time, offered, booked models.SlotList) {
	t.Helper()
	err := repo.SaveDay(context.Background(), &models.DayAvailability{
		Date:         date,
		OfferedSlots: offered,
		BookedSlots:  booked,
	})
	require.NoError(t, err)
}

func seedAppointment(t *testing.T, repo *schedtest.MemoryRepository, date time.Time, slot, status string) uint {
	t.Helper()
	ap := &models.Appointment{
		Service:       "maintenance",
		ScheduledDate: date,
		ScheduledTime: slot,
		Status:        status,
	}
	require.NoError(t, repo.CreateAppointment(context.Background(), ap))
	return ap.ID
}

// --------------------------------------------------
// ConfigureDay
// --------------------------------------------------

func TestConfigureDay(t *testing.T) {
	ctx := context.Background()
	date := today().AddDate(0, 0, 7)

	t.Run("creates a fresh day", func(t *testing.T) {
		repo := schedtest.NewMemoryRepository()
		uc := availability.NewConfigureDay(repo, nil, nil, testTZ)

		res, err := uc.Execute(ctx, availability.ConfigureDayInput{
			Date:  date,
			Slots: []string{"08:00", "09:00", "10:00"},
		})
		require.NoError(t, err)
		require.NotNil(t, res.Day)
		assert.Empty(t, res.Displaced)

		day, err := repo.GetDay(ctx, date)
		require.NoError(t, err)
		require.NotNil(t, day)
		assert.Equal(t, models.SlotList{"08:00", "09:00", "10:00"}, day.OfferedSlots)
		assert.Empty(t, day.BookedSlots)
	})

	t.Run("replaces the offered set keeping bookings", func(t *testing.T) {
		repo := schedtest.NewMemoryRepository()
		seedDay(t, repo, date, models.SlotList{"08:00", "09:00"}, models.SlotList{"09:00"})
		uc := availability.NewConfigureDay(repo, nil, nil, testTZ)

		_, err := uc.Execute(ctx, availability.ConfigureDayInput{
			Date:  date,
			Slots: []string{"09:00", "14:00"},
		})
		require.NoError(t, err)

		day, err := repo.GetDay(ctx, date)
		require.NoError(t, err)
		assert.Equal(t, models.SlotList{"09:00", "14:00"}, day.OfferedSlots)
		assert.Equal(t, models.SlotList{"09:00"}, day.BookedSlots)
	})

	t.Run("refuses to narrow under a booked slot", func(t *testing.T) {
		repo := schedtest.NewMemoryRepository()
		seedDay(t, repo, date, models.SlotList{"08:00", "09:00"}, models.SlotList{"09:00"})
		uc := availability.NewConfigureDay(repo, nil, nil, testTZ)

		_, err := uc.Execute(ctx, availability.ConfigureDayInput{
			Date:  date,
			Slots: []string{"08:00"},
		})
		assert.True(t, httperr.IsBusiness(err, "slot_in_use"))

		day, err := repo.GetDay(ctx, date)
		require.NoError(t, err)
		assert.Equal(t, models.SlotList{"08:00", "09:00"}, day.OfferedSlots, "rejected configuration changed nothing")
	})

	t.Run("override reports the displaced appointments", func(t *testing.T) {
		repo := schedtest.NewMemoryRepository()
		seedDay(t, repo, date, models.SlotList{"08:00", "09:00"}, models.SlotList{"09:00"})
		apID := seedAppointment(t, repo, date, "09:00", string(schedule.StatusConfirmed))
		uc := availability.NewConfigureDay(repo, nil, nil, testTZ)

		res, err := uc.Execute(ctx, availability.ConfigureDayInput{
			Date:           date,
			Slots:          []string{"08:00"},
			OverrideBooked: true,
		})
		require.NoError(t, err)

		require.Len(t, res.Displaced, 1)
		assert.Equal(t, apID, res.Displaced[0].ID)

		// displaced appointments are reported, never auto-cancelled
		ap, err := repo.GetAppointment(ctx, apID)
		require.NoError(t, err)
		assert.Equal(t, string(schedule.StatusConfirmed), ap.Status)

		day, err := repo.GetDay(ctx, date)
		require.NoError(t, err)
		assert.Equal(t, models.SlotList{"08:00"}, day.OfferedSlots)
		assert.Empty(t, day.BookedSlots)
	})

	t.Run("empty slot set removes the day", func(t *testing.T) {
		repo := schedtest.NewMemoryRepository()
		seedDay(t, repo, date, models.SlotList{"08:00"}, nil)
		uc := availability.NewConfigureDay(repo, nil, nil, testTZ)

		_, err := uc.Execute(ctx, availability.ConfigureDayInput{Date: date, Slots: []string{}})
		require.NoError(t, err)

		day, err := repo.GetDay(ctx, date)
		require.NoError(t, err)
		assert.Nil(t, day)
	})

	t.Run("rejects unordered slots", func(t *testing.T) {
		repo := schedtest.NewMemoryRepository()
		uc := availability.NewConfigureDay(repo, nil, nil, testTZ)

		_, err := uc.Execute(ctx, availability.ConfigureDayInput{
			Date:  date,
			Slots: []string{"10:00", "09:00"},
		})
		assert.True(t, httperr.IsBusiness(err, "invalid_slot_set"))
	})

	t.Run("rejects days outside the horizon", func(t *testing.T) {
		repo := schedtest.NewMemoryRepository()
		uc := availability.NewConfigureDay(repo, nil, nil, testTZ)

		_, err := uc.Execute(ctx, availability.ConfigureDayInput{
			Date:  today().AddDate(0, 3, 0),
			Slots: []string{"09:00"},
		})
		assert.True(t, httperr.IsBusiness(err, "outside_horizon"))

		_, err = uc.Execute(ctx, availability.ConfigureDayInput{
			Date:  today().AddDate(0, 0, -1),
			Slots: []string{"09:00"},
		})
		assert.True(t, httperr.IsBusiness(err, "outside_horizon"))
	})
}

// --------------------------------------------------
// ClearDay
// --------------------------------------------------

func TestClearDay(t *testing.T) {
	ctx := context.Background()
	date := today().AddDate(0, 0, 7)

	t.Run("removes an unbooked day", func(t *testing.T) {
		repo := schedtest.NewMemoryRepository()
		seedDay(t, repo, date, models.SlotList{"08:00"}, nil)
		uc := availability.NewClearDay(repo, nil, nil)

		res, err := uc.Execute(ctx, date, false, nil)
		require.NoError(t, err)
		assert.Empty(t, res.Displaced)

		day, err := repo.GetDay(ctx, date)
		require.NoError(t, err)
		assert.Nil(t, day)
	})

	t.Run("unconfigured day is a no-op", func(t *testing.T) {
		repo := schedtest.NewMemoryRepository()
		uc := availability.NewClearDay(repo, nil, nil)

		_, err := uc.Execute(ctx, date, false, nil)
		require.NoError(t, err)
	})

	t.Run("booked day needs the override", func(t *testing.T) {
		repo := schedtest.NewMemoryRepository()
		seedDay(t, repo, date, models.SlotList{"08:00"}, models.SlotList{"08:00"})
		apID := seedAppointment(t, repo, date, "08:00", string(schedule.StatusPending))
		uc := availability.NewClearDay(repo, nil, nil)

		_, err := uc.Execute(ctx, date, false, nil)
		assert.True(t, httperr.IsBusiness(err, "slot_in_use"))

		res, err := uc.Execute(ctx, date, true, nil)
		require.NoError(t, err)
		require.Len(t, res.Displaced, 1)
		assert.Equal(t, apID, res.Displaced[0].ID)

		day, err := repo.GetDay(ctx, date)
		require.NoError(t, err)
		assert.Nil(t, day)
	})
}

// --------------------------------------------------
// QueryRange
// --------------------------------------------------

func TestQueryRange(t *testing.T) {
	ctx := context.Background()

	d1 := today().AddDate(0, 0, 2)
	d2 := today().AddDate(0, 0, 3)

	repo := schedtest.NewMemoryRepository()
	seedDay(t, repo, d1, models.SlotList{"08:00", "09:00", "10:00"}, nil)
	seedDay(t, repo, d2, models.SlotList{"14:00"}, nil)

	guard := conflictguard.New(repo)
	require.NoError(t, guard.Reserve(ctx, d1, "09:00"))

	uc := availability.NewQueryRange(repo, nil, testTZ)

	t.Run("projects offered minus booked", func(t *testing.T) {
		out, err := uc.Execute(ctx, d1, d2)
		require.NoError(t, err)
		require.Len(t, out, 2)

		assert.Equal(t, d1.Format("2006-01-02"), out[0].Date)
		assert.Equal(t, []string{"08:00", "10:00"}, out[0].TimeSlots)
		assert.Equal(t, []string{"09:00"}, out[0].BookedSlots)

		assert.Equal(t, d2.Format("2006-01-02"), out[1].Date)
		assert.Equal(t, []string{"14:00"}, out[1].TimeSlots)
		assert.Empty(t, out[1].BookedSlots)
	})

	t.Run("unconfigured days are omitted", func(t *testing.T) {
		out, err := uc.Execute(ctx, today(), today().AddDate(0, 0, 10))
		require.NoError(t, err)
		assert.Len(t, out, 2)
	})

	t.Run("range is clamped to the horizon", func(t *testing.T) {
		out, err := uc.Execute(ctx, today().AddDate(0, 0, -30), today().AddDate(0, 6, 0))
		require.NoError(t, err)
		assert.Len(t, out, 2, "only the horizon window is scanned")
	})

	t.Run("fully past range yields nothing", func(t *testing.T) {
		out, err := uc.Execute(ctx, today().AddDate(0, 0, -10), today().AddDate(0, 0, -5))
		require.NoError(t, err)
		assert.Empty(t, out)
	})
}
