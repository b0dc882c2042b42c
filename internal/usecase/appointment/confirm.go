package appointment

import (
	"context"

	"github.com/garageworks/garage-scheduler/internal/audit"
	domain "github.com/garageworks/garage-scheduler/internal/domain/schedule"
	"github.com/garageworks/garage-scheduler/internal/httperr"
	"github.com/garageworks/garage-scheduler/internal/models"
)

type Confirm struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewConfirm(
	repo domain.Repository,
	auditDispatcher *audit.Dispatcher,
) *Confirm {
	return &Confirm{
		repo:  repo,
		audit: auditDispatcher,
	}
}

func (uc *Confirm) Execute(
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

		if err := domain.Confirm(current); err != nil {
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

	uc.audit.Dispatch(audit.Event{
		UserID:   userID,
		Action:   "appointment_confirmed",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return ap, nil
}
