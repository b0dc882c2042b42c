package appointment

import (
	"context"
	"time"

	domain "github.com/garageworks/garage-scheduler/internal/domain/schedule"
	"github.com/garageworks/garage-scheduler/internal/dto"
)

type ListByRange struct {
	repo domain.Repository
}

func NewListByRange(repo domain.Repository) *ListByRange {
	return &ListByRange{repo: repo}
}

func (uc *ListByRange) Execute(
	ctx context.Context,
	start time.Time,
	end time.Time,
) ([]dto.AppointmentListDTO, error) {

	appointments, err := uc.repo.ListAppointmentsForRange(ctx, start, end)
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
