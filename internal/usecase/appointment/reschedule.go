package appointment

import (
	"context"
	"time"

	"github.com/garageworks/garage-scheduler/internal/audit"
	"github.com/garageworks/garage-scheduler/internal/cache"
	"github.com/garageworks/garage-scheduler/internal/conflictguard"
	domain "github.com/garageworks/garage-scheduler/internal/domain/schedule"
	"github.com/garageworks/garage-scheduler/internal/httperr"
	"github.com/garageworks/garage-scheduler/internal/models"
	"github.com/garageworks/garage-scheduler/internal/timezone"
)

type Reschedule struct {
	repo  domain.Repository
	cache *cache.AvailabilityCache
	audit *audit.Dispatcher
	tz    string
}

func NewReschedule(
	repo domain.Repository,
	availCache *cache.AvailabilityCache,
	auditDispatcher *audit.Dispatcher,
	tz string,
) *Reschedule {
	return &Reschedule{
		repo:  repo,
		cache: availCache,
		audit: auditDispatcher,
		tz:    tz,
	}
}

func (uc *Reschedule) Execute(
	ctx context.Context,
	appointmentID uint,
	dateStr string,
	timeStr string,
	userID *uint,
) (*models.Appointment, error) {

	date, err := domain.ParseDay(dateStr)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date_or_time")
	}

	t, err := domain.ParseSlot(timeStr)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date_or_time")
	}
	slot := t.Format("15:04")

	today := domain.DayOf(timezone.NowIn(uc.tz))
	if date.Before(today) {
		return nil, httperr.ErrBusiness("invalid_date_or_time")
	}
	if !domain.WithinHorizon(today, date) {
		return nil, httperr.ErrBusiness("outside_horizon")
	}

	var ap *models.Appointment
	var oldDate time.Time

	// moving the slot and re-dating the appointment happen in one
	// transaction: a failed move leaves the appointment untouched
	err = uc.repo.InTx(ctx, func(tx domain.Repository) error {
		current, err := tx.GetAppointmentForUpdate(ctx, appointmentID)
		if err != nil {
			return httperr.ErrBusiness("appointment_not_found")
		}

		if err := domain.CanReschedule(domain.Status(current.Status)); err != nil {
			return err
		}

		oldDate = current.ScheduledDate

		if err := conflictguard.MoveIn(
			ctx, tx,
			current.ScheduledDate, current.ScheduledTime,
			date, slot,
		); err != nil {
			return err
		}

		if err := domain.Reschedule(current, date, slot); err != nil {
			return err
		}

		if err := tx.UpdateAppointment(ctx, current); err != nil {
			return err
		}

		ap = current
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.cache.Invalidate(ctx, oldDate, date)

	uc.audit.Dispatch(audit.Event{
		UserID:   userID,
		Action:   "appointment_rescheduled",
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: map[string]any{
			"from_date": oldDate.Format("2006-01-02"),
			"to_date":   date.Format("2006-01-02"),
			"to_time":   slot,
		},
	})

	return ap, nil
}
