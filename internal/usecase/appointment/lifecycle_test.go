package appointment_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garageworks/garage-scheduler/internal/domain/schedule"
	"github.com/garageworks/garage-scheduler/internal/httperr"
	"github.com/garageworks/garage-scheduler/internal/models"
	"github.com/garageworks/garage-scheduler/internal/schedtest"
	"github.com/garageworks/garage-scheduler/internal/usecase/appointment"
)

// The clock is real, so all test days are placed relative to today to stay
// inside the booking horizon.

const testTZ = "UTC"

type fixture struct {
	repo *schedtest.MemoryRepository

	book       *appointment.Book
	confirm    *appointment.Confirm
	cancel     *appointment.Cancel
	reschedule *appointment.Reschedule
	complete   *appointment.Complete
	byToken    *appointment.GetByToken
	listByDate *appointment.ListByDate
}

func newFixture() *fixture {
	repo := schedtest.NewMemoryRepository()

	return &fixture{
		repo:       repo,
		book:       appointment.NewBook(repo, nil, nil, testTZ),
		confirm:    appointment.NewConfirm(repo, nil),
		cancel:     appointment.NewCancel(repo, nil, nil, testTZ),
		reschedule: appointment.NewReschedule(repo, nil, nil, testTZ),
		complete:   appointment.NewComplete(repo, nil, nil, testTZ),
		byToken:    appointment.NewGetByToken(repo),
		listByDate: appointment.NewListByDate(repo),
	}
}

func (f *fixture) seedDay(t *testing.T, date time.Time, offered ...string) {
	t.Helper()
	err := f.repo.SaveDay(context.Background(), &models.DayAvailability{
		Date:         date,
		OfferedSlots: offered,
	})
	require.NoError(t, err)
}

func (f *fixture) booked(t *testing.T, date time.Time) models.SlotList {
	t.Helper()
	d, err := f.repo.GetDay(context.Background(), date)
	require.NoError(t, err)
	if d == nil {
		return nil
	}
	return d.BookedSlots
}

func today() time.Time {
	return schedule.DayOf(time.Now().UTC())
}

func bookInput(date time.Time, slot string) appointment.BookInput {
	return appointment.BookInput{
		ClientName:   "Paul Martin",
		ClientPhone:  "+33612345678",
		ClientEmail:  "paul.martin@example.com",
		VehicleMake:  "Renault",
		VehicleModel: "Clio",
		VehiclePlate: "AB-123-CD",
		VehicleYear:  "2019",
		Service:      "oil_change",
		Date:         date.Format("2006-01-02"),
		Time:         slot,
	}
}

// --------------------------------------------------
// Booking
// --------------------------------------------------

func TestBook(t *testing.T) {
	ctx := context.Background()
	date := today().AddDate(0, 0, 3)

	t.Run("creates a pending appointment and books the slot", func(t *testing.T) {
		f := newFixture()
		f.seedDay(t, date, "09:00", "10:00")

		ap, err := f.book.Execute(ctx, bookInput(date, "09:00"))
		require.NoError(t, err)

		assert.Equal(t, string(schedule.StatusPending), ap.Status)
		assert.Equal(t, date, ap.ScheduledDate)
		assert.Equal(t, "09:00", ap.ScheduledTime)
		assert.NotEmpty(t, ap.AccessToken)
		assert.Equal(t, "Paul Martin", ap.Client.Name)

		assert.Equal(t, models.SlotList{"09:00"}, f.booked(t, date))
	})

	t.Run("same slot cannot be booked twice", func(t *testing.T) {
		f := newFixture()
		f.seedDay(t, date, "09:00")

		_, err := f.book.Execute(ctx, bookInput(date, "09:00"))
		require.NoError(t, err)

		_, err = f.book.Execute(ctx, bookInput(date, "09:00"))
		assert.True(t, httperr.IsBusiness(err, "slot_already_booked"))

		list, err := f.listByDate.Execute(ctx, date)
		require.NoError(t, err)
		assert.Len(t, list, 1, "the failed booking left no row behind")
	})

	t.Run("slot must be offered", func(t *testing.T) {
		f := newFixture()
		f.seedDay(t, date, "09:00")

		_, err := f.book.Execute(ctx, bookInput(date, "16:00"))
		assert.True(t, httperr.IsBusiness(err, "slot_not_offered"))
	})

	t.Run("unconfigured day rejects bookings", func(t *testing.T) {
		f := newFixture()

		_, err := f.book.Execute(ctx, bookInput(date, "09:00"))
		assert.True(t, httperr.IsBusiness(err, "slot_not_offered"))
	})

	t.Run("distinct tokens per appointment", func(t *testing.T) {
		f := newFixture()
		f.seedDay(t, date, "09:00", "10:00")

		a, err := f.book.Execute(ctx, bookInput(date, "09:00"))
		require.NoError(t, err)
		b, err := f.book.Execute(ctx, bookInput(date, "10:00"))
		require.NoError(t, err)

		assert.NotEqual(t, a.AccessToken, b.AccessToken)
	})

	t.Run("repeat clients are matched by phone", func(t *testing.T) {
		f := newFixture()
		f.seedDay(t, date, "09:00", "10:00")

		a, err := f.book.Execute(ctx, bookInput(date, "09:00"))
		require.NoError(t, err)
		b, err := f.book.Execute(ctx, bookInput(date, "10:00"))
		require.NoError(t, err)

		assert.Equal(t, a.ClientID, b.ClientID)
	})
}

func TestBookValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	date := today().AddDate(0, 0, 3)
	f.seedDay(t, date, "09:00")

	t.Run("malformed date", func(t *testing.T) {
		in := bookInput(date, "09:00")
		in.Date = "03/04/2026"
		_, err := f.book.Execute(ctx, in)
		assert.True(t, httperr.IsBusiness(err, "invalid_date_or_time"))
	})

	t.Run("malformed time", func(t *testing.T) {
		in := bookInput(date, "09:00")
		in.Time = "9am"
		_, err := f.book.Execute(ctx, in)
		assert.True(t, httperr.IsBusiness(err, "invalid_date_or_time"))
	})

	t.Run("unknown service", func(t *testing.T) {
		in := bookInput(date, "09:00")
		in.Service = "detailing"
		_, err := f.book.Execute(ctx, in)
		assert.True(t, httperr.IsBusiness(err, "invalid_service"))
	})

	t.Run("past date", func(t *testing.T) {
		_, err := f.book.Execute(ctx, bookInput(today().AddDate(0, 0, -1), "09:00"))
		assert.True(t, httperr.IsBusiness(err, "invalid_date_or_time"))
	})

	t.Run("beyond the booking horizon", func(t *testing.T) {
		_, err := f.book.Execute(ctx, bookInput(today().AddDate(0, 3, 0), "09:00"))
		assert.True(t, httperr.IsBusiness(err, "outside_horizon"))
	})
}

// --------------------------------------------------
// Lifecycle
// --------------------------------------------------

func TestFullLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	date := today().AddDate(0, 0, 5)
	newDate := today().AddDate(0, 0, 8)
	f.seedDay(t, date, "09:00", "10:00")
	f.seedDay(t, newDate, "14:00")

	ap, err := f.book.Execute(ctx, bookInput(date, "09:00"))
	require.NoError(t, err)

	ap, err = f.confirm.Execute(ctx, ap.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, string(schedule.StatusConfirmed), ap.Status)

	ap, err = f.reschedule.Execute(ctx, ap.ID, newDate.Format("2006-01-02"), "14:00", nil)
	require.NoError(t, err)
	assert.Equal(t, string(schedule.StatusModified), ap.Status)
	assert.Equal(t, newDate, ap.ScheduledDate)
	assert.Equal(t, "14:00", ap.ScheduledTime)

	assert.Empty(t, f.booked(t, date), "old slot is free again")
	assert.Equal(t, models.SlotList{"14:00"}, f.booked(t, newDate))

	// a modified appointment needs a fresh confirmation before completion
	_, err = f.complete.Execute(ctx, ap.ID, nil)
	assert.True(t, httperr.IsBusiness(err, "invalid_transition"))

	ap, err = f.confirm.Execute(ctx, ap.ID, nil)
	require.NoError(t, err)

	ap, err = f.complete.Execute(ctx, ap.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, string(schedule.StatusCompleted), ap.Status)
	require.NotNil(t, ap.CompletedAt)

	assert.Empty(t, f.booked(t, newDate), "completed work frees the slot")
}

func TestCancelAndRebook(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	date := today().AddDate(0, 0, 4)
	f.seedDay(t, date, "09:00")

	ap, err := f.book.Execute(ctx, bookInput(date, "09:00"))
	require.NoError(t, err)

	cancelled, err := f.cancel.Execute(ctx, ap.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, string(schedule.StatusCancelled), cancelled.Status)
	require.NotNil(t, cancelled.CancelledAt)
	assert.Empty(t, f.booked(t, date))

	// cancelling again succeeds without touching anything
	again, err := f.cancel.Execute(ctx, ap.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, cancelled.CancelledAt, again.CancelledAt)

	// the freed slot is immediately bookable by someone else
	in := bookInput(date, "09:00")
	in.ClientName = "Nadia Benali"
	in.ClientPhone = "+33698765432"

	rebooked, err := f.book.Execute(ctx, in)
	require.NoError(t, err)
	assert.NotEqual(t, ap.ID, rebooked.ID)
	assert.Equal(t, models.SlotList{"09:00"}, f.booked(t, date))
}

func TestCancelCompletedFails(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	date := today().AddDate(0, 0, 4)
	f.seedDay(t, date, "09:00")

	ap, err := f.book.Execute(ctx, bookInput(date, "09:00"))
	require.NoError(t, err)

	_, err = f.confirm.Execute(ctx, ap.ID, nil)
	require.NoError(t, err)
	_, err = f.complete.Execute(ctx, ap.ID, nil)
	require.NoError(t, err)

	_, err = f.cancel.Execute(ctx, ap.ID, nil)
	assert.True(t, httperr.IsBusiness(err, "invalid_transition"))
}

func TestRescheduleConflictLeavesAppointmentUntouched(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	date := today().AddDate(0, 0, 4)
	other := today().AddDate(0, 0, 6)
	f.seedDay(t, date, "09:00")
	f.seedDay(t, other, "14:00")

	ap, err := f.book.Execute(ctx, bookInput(date, "09:00"))
	require.NoError(t, err)

	in := bookInput(other, "14:00")
	in.ClientPhone = "+33611111111"
	_, err = f.book.Execute(ctx, in)
	require.NoError(t, err)

	_, err = f.reschedule.Execute(ctx, ap.ID, other.Format("2006-01-02"), "14:00", nil)
	assert.True(t, httperr.IsBusiness(err, "slot_already_booked"))

	kept, err := f.repo.GetAppointment(ctx, ap.ID)
	require.NoError(t, err)
	assert.Equal(t, string(schedule.StatusPending), kept.Status)
	assert.Equal(t, date, kept.ScheduledDate)
	assert.Equal(t, "09:00", kept.ScheduledTime)
	assert.Equal(t, models.SlotList{"09:00"}, f.booked(t, date), "source reservation survives the failed move")
}

func TestLifecycleUnknownAppointment(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	_, err := f.confirm.Execute(ctx, 42, nil)
	assert.True(t, httperr.IsBusiness(err, "appointment_not_found"))

	_, err = f.cancel.Execute(ctx, 42, nil)
	assert.True(t, httperr.IsBusiness(err, "appointment_not_found"))

	_, err = f.reschedule.Execute(ctx, 42, today().AddDate(0, 0, 1).Format("2006-01-02"), "09:00", nil)
	assert.True(t, httperr.IsBusiness(err, "appointment_not_found"))

	_, err = f.complete.Execute(ctx, 42, nil)
	assert.True(t, httperr.IsBusiness(err, "appointment_not_found"))
}

// --------------------------------------------------
// Self-service token
// --------------------------------------------------

func TestGetByToken(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	date := today().AddDate(0, 0, 4)
	f.seedDay(t, date, "09:00")

	ap, err := f.book.Execute(ctx, bookInput(date, "09:00"))
	require.NoError(t, err)

	found, err := f.byToken.Execute(ctx, ap.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, ap.ID, found.ID)

	_, err = f.byToken.Execute(ctx, "not-a-token")
	assert.True(t, httperr.IsBusiness(err, "appointment_not_found"))
}

// --------------------------------------------------
// Listings
// --------------------------------------------------

func TestListByDate(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	date := today().AddDate(0, 0, 4)
	f.seedDay(t, date, "09:00", "10:00")

	_, err := f.book.Execute(ctx, bookInput(date, "10:00"))
	require.NoError(t, err)
	_, err = f.book.Execute(ctx, bookInput(date, "09:00"))
	require.NoError(t, err)

	list, err := f.listByDate.Execute(ctx, date)
	require.NoError(t, err)
	require.Len(t, list, 2)

	assert.Equal(t, "09:00", list[0].Time, "sorted by time of day")
	assert.Equal(t, "10:00", list[1].Time)
	assert.Equal(t, "Paul Martin", list[0].ClientName)
	assert.Equal(t, "AB-123-CD", list[0].VehiclePlate)
	assert.Equal(t, date.Format("2006-01-02"), list[0].Date)
}
