package appointment

import (
	"context"

	"github.com/garageworks/garage-scheduler/internal/audit"
	"github.com/garageworks/garage-scheduler/internal/cache"
	"github.com/garageworks/garage-scheduler/internal/conflictguard"
	domain "github.com/garageworks/garage-scheduler/internal/domain/schedule"
	"github.com/garageworks/garage-scheduler/internal/httperr"
	"github.com/garageworks/garage-scheduler/internal/models"
	"github.com/garageworks/garage-scheduler/internal/timezone"
)

type Complete struct {
	repo  domain.Repository
	cache *cache.AvailabilityCache
	audit *audit.Dispatcher
	tz    string
}

func NewComplete(
	repo domain.Repository,
	availCache *cache.AvailabilityCache,
	auditDispatcher *audit.Dispatcher,
	tz string,
) *Complete {
	return &Complete{
		repo:  repo,
		cache: availCache,
		audit: auditDispatcher,
		tz:    tz,
	}
}

func (uc *Complete) Execute(
	ctx context.Context,
	appointmentID uint,
	userID *uint,
) (*models.Appointment, error) {

	var ap *models.Appointment

	err := uc.repo.InTx(ctx, func(tx domain.Repository) error {
		current, err := tx.GetAppointmentForUpdate(ctx, appointmentID)
		if err != nil {
			return httperr.ErrBusiness("appointment_not_found")
		}

		now := timezone.NowIn(uc.tz)

		if err := domain.Complete(current, now); err != nil {
			return err
		}

		// the calendar only guards future conflicts, so a completed
		// appointment gives its slot back
		if err := conflictguard.ReleaseIn(ctx, tx, current.ScheduledDate, current.ScheduledTime); err != nil {
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

	uc.cache.Invalidate(ctx, ap.ScheduledDate)

	uc.audit.Dispatch(audit.Event{
		UserID:   userID,
		Action:   "appointment_completed",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return ap, nil
}
