package availability

import (
	"context"
	"time"

	"github.com/garageworks/garage-scheduler/internal/audit"
	"github.com/garageworks/garage-scheduler/internal/cache"
	domain "github.com/garageworks/garage-scheduler/internal/domain/schedule"
	"github.com/garageworks/garage-scheduler/internal/httperr"
	"github.com/garageworks/garage-scheduler/internal/models"
	"github.com/garageworks/garage-scheduler/internal/timezone"
)

// ======================================================
// CONFIGURE DAY
// ======================================================

type ConfigureDay struct {
	repo  domain.Repository
	cache *cache.AvailabilityCache
	audit *audit.Dispatcher
	tz    string
}

func NewConfigureDay(
	repo domain.Repository,
	availCache *cache.AvailabilityCache,
	auditDispatcher *audit.Dispatcher,
	tz string,
) *ConfigureDay {
	return &ConfigureDay{
		repo:  repo,
		cache: availCache,
		audit: auditDispatcher,
		tz:    tz,
	}
}

type ConfigureDayInput struct {
	Date  time.Time
	Slots []string

	// OverrideBooked drops booked slots that the new offered set no longer
	// contains. The appointments occupying them are reported back, not
	// auto-cancelled; the operator decides what happens to them.
	OverrideBooked bool

	UserID *uint
}

type ConfigureDayResult struct {
	Day       *models.DayAvailability
	Displaced []models.Appointment
}

func (uc *ConfigureDay) Execute(
	ctx context.Context,
	in ConfigureDayInput,
) (*ConfigureDayResult, error) {

	today := domain.DayOf(timezone.NowIn(uc.tz))
	if !domain.WithinHorizon(today, in.Date) {
		return nil, httperr.ErrBusiness("outside_horizon")
	}

	if err := domain.ValidateSlotSet(in.Slots); err != nil {
		return nil, err
	}

	var result ConfigureDayResult

	err := uc.repo.InTx(ctx, func(tx domain.Repository) error {
		day, err := tx.LockDay(ctx, in.Date)
		if err != nil {
			return err
		}

		offered := models.SlotList(in.Slots)

		var booked models.SlotList
		if day != nil {
			booked = day.BookedSlots
		}

		conflicting := domain.SubtractSlots(booked, offered)
		if len(conflicting) > 0 {
			if !in.OverrideBooked {
				return httperr.ErrBusiness("slot_in_use")
			}

			displaced, err := tx.ListActiveAppointmentsAt(ctx, in.Date, conflicting)
			if err != nil {
				return err
			}

			result.Displaced = displaced
			booked = domain.SubtractSlots(booked, conflicting)
		}

		// empty offered and booked sets mean the day is unconfigured
		if len(offered) == 0 && len(booked) == 0 {
			if day != nil {
				return tx.DeleteDay(ctx, in.Date)
			}
			return nil
		}

		if day == nil {
			day = &models.DayAvailability{Date: domain.DayOf(in.Date)}
		}

		day.OfferedSlots = offered
		day.BookedSlots = booked

		if err := tx.SaveDay(ctx, day); err != nil {
			return err
		}

		result.Day = day
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.cache.Invalidate(ctx, in.Date)

	uc.audit.Dispatch(audit.Event{
		UserID: in.UserID,
		Action: "availability_configured",
		Entity: "availability",
		Metadata: map[string]any{
			"date":  in.Date.Format("2006-01-02"),
			"slots": in.Slots,
		},
	})

	if len(result.Displaced) > 0 {
		ids := make([]uint, 0, len(result.Displaced))
		for _, ap := range result.Displaced {
			ids = append(ids, ap.ID)
		}

		uc.audit.Dispatch(audit.Event{
			UserID: in.UserID,
			Action: "availability_override",
			Entity: "availability",
			Metadata: map[string]any{
				"date":         in.Date.Format("2006-01-02"),
				"appointments": ids,
			},
		})
	}

	return &result, nil
}
