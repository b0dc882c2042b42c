package appointment

import (
	"context"
	"time"

	domain "github.com/garageworks/garage-scheduler/internal/domain/schedule"
	"github.com/garageworks/garage-scheduler/internal/dto"
)

type ListByDate struct {
	repo domain.Repository
}

func NewListByDate(repo domain.Repository) *ListByDate {
	return &ListByDate{repo: repo}
}

func (uc *ListByDate) Execute(
	ctx context.Context,
	date time.Time,
) ([]dto.AppointmentListDTO, error) {

	appointments, err := uc.repo.ListAppointmentsForDay(ctx, date)
	if err != nil {
		return nil, err
	}

	out := make([]dto.AppointmentListDTO, 0, len(appointments))
	for _, ap := range appointments {
		out = append(out, dto.AppointmentListDTO{
			ID:           ap.ID,
			Date:         ap.ScheduledDate.Format("2006-01-02"),
			Time:         ap.ScheduledTime,
			Status:       ap.Status,
			Service:      ap.Service,
			ClientName:   ap.Client.Name,
			VehiclePlate: ap.VehiclePlate,
		})
	}

	return out, nil
}
