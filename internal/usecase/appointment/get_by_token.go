package appointment

import (
	"context"

	domain "github.com/garageworks/garage-scheduler/internal/domain/schedule"
	"github.com/garageworks/garage-scheduler/internal/httperr"
	"github.com/garageworks/garage-scheduler/internal/models"
)

// GetByToken resolves an appointment from its self-service access token.
// The token is the only authorization the public surface has.
type GetByToken struct {
	repo domain.Repository
}

func NewGetByToken(repo domain.Repository) *GetByToken {
	return &GetByToken{repo: repo}
}

func (uc *GetByToken) Execute(
	ctx context.Context,
	token string,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointmentByToken(ctx, token)
	if err != nil {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}

	return ap, nil
}
