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

type Cancel struct {
	repo  domain.Repository
	cache *cache.AvailabilityCache
	audit *audit.Dispatcher
	tz    string
}

func NewCancel(
	repo domain.Repository,
	availCache *cache.AvailabilityCache,
	auditDispatcher *audit.Dispatcher,
	tz string,
) *Cancel {
	return &Cancel{
		repo:  repo,
		cache: availCache,
		audit: auditDispatcher,
		tz:    tz,
	}
}

func (uc *Cancel) Execute(
	ctx context.Context,
	appointmentID uint,
	userID *uint,
) (*models.Appointment, error) {

	var ap *models.Appointment
	var released bool

	err := uc.repo.InTx(ctx, func(tx domain.Repository) error {
		current, err := tx.GetAppointmentForUpdate(ctx, appointmentID)
		if err != nil {
			return httperr.ErrBusiness("appointment_not_found")
		}

		now := timezone.NowIn(uc.tz)

		changed, err := domain.Cancel(current, now)
		if err != nil {
			return err
		}

		if changed {
			if err := conflictguard.ReleaseIn(ctx, tx, current.ScheduledDate, current.ScheduledTime); err != nil {
				return err
			}

			if err := tx.UpdateAppointment(ctx, current); err != nil {
				return err
			}
		}

		ap = current
		released = changed
		return nil
	})

	if err != nil {
		return nil, err
	}

	if released {
		uc.cache.Invalidate(ctx, ap.ScheduledDate)

		uc.audit.Dispatch(audit.Event{
			UserID:   userID,
			Action:   "appointment_cancelled",
			Entity:   "appointment",
			EntityID: &ap.ID,
		})
	}

	return ap, nil
}
