package appointment

import (
	"context"

	"github.com/google/uuid"

	"github.com/garageworks/garage-scheduler/internal/audit"
	"github.com/garageworks/garage-scheduler/internal/cache"
	"github.com/garageworks/garage-scheduler/internal/conflictguard"
	domain "github.com/garageworks/garage-scheduler/internal/domain/schedule"
	"github.com/garageworks/garage-scheduler/internal/httperr"
	"github.com/garageworks/garage-scheduler/internal/models"
	"github.com/garageworks/garage-scheduler/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type BookInput struct {
	ClientName  string
	ClientPhone string
	ClientEmail string

	VehicleMake  string
	VehicleModel string
	VehiclePlate string
	VehicleYear  string

	Service     string
	Description string

	Date string // YYYY-MM-DD
	Time string // HH:MM

	// UserID is set when an operator books on behalf of a client,
	// nil for the public booking flow.
	UserID *uint
}

// ======================================================
// USE CASE
// ======================================================

type Book struct {
	repo  domain.Repository
	cache *cache.AvailabilityCache
	audit *audit.Dispatcher
	tz    string
}

func NewBook(
	repo domain.Repository,
	availCache *cache.AvailabilityCache,
	auditDispatcher *audit.Dispatcher,
	tz string,
) *Book {
	return &Book{
		repo:  repo,
		cache: availCache,
		audit: auditDispatcher,
		tz:    tz,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *Book) Execute(
	ctx context.Context,
	in BookInput,
) (*models.Appointment, error) {

	date, err := domain.ParseDay(in.Date)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date_or_time")
	}

	t, err := domain.ParseSlot(in.Time)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date_or_time")
	}
	slot := t.Format("15:04")

	if !domain.IsValidService(in.Service) {
		return nil, httperr.ErrBusiness("invalid_service")
	}

	today := domain.DayOf(timezone.NowIn(uc.tz))
	if date.Before(today) {
		return nil, httperr.ErrBusiness("invalid_date_or_time")
	}
	if !domain.WithinHorizon(today, date) {
		return nil, httperr.ErrBusiness("outside_horizon")
	}

	client, err := uc.repo.GetOrCreateClient(
		ctx,
		in.ClientName,
		in.ClientPhone,
		in.ClientEmail,
	)
	if err != nil {
		return nil, err
	}

	// the slot reservation and the appointment row are one unit: if
	// either fails, neither happens
	var created *models.Appointment

	err = uc.repo.InTx(ctx, func(tx domain.Repository) error {
		if err := conflictguard.ReserveIn(ctx, tx, date, slot); err != nil {
			return err
		}

		ap := &models.Appointment{
			ClientID: client.ID,

			VehicleMake:  in.VehicleMake,
			VehicleModel: in.VehicleModel,
			VehiclePlate: in.VehiclePlate,
			VehicleYear:  in.VehicleYear,

			Service:     in.Service,
			Description: in.Description,

			ScheduledDate: date,
			ScheduledTime: slot,

			Status:      string(domain.InitialStatus()),
			AccessToken: uuid.NewString(),
		}

		if err := tx.CreateAppointment(ctx, ap); err != nil {
			return err
		}

		created = ap
		return nil
	})

	if err != nil {
		return nil, err
	}

	created.Client = *client

	uc.cache.Invalidate(ctx, date)

	uc.audit.Dispatch(audit.Event{
		UserID:   in.UserID,
		Action:   "appointment_requested",
		Entity:   "appointment",
		EntityID: &created.ID,
	})

	return created, nil
}
