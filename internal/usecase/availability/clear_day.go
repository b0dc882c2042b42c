package availability

import (
	"context"
	"time"

	"github.com/garageworks/garage-scheduler/internal/audit"
	"github.com/garageworks/garage-scheduler/internal/cache"
	domain "github.com/garageworks/garage-scheduler/internal/domain/schedule"
	"github.com/garageworks/garage-scheduler/internal/httperr"
	"github.com/garageworks/garage-scheduler/internal/models"
)

// ======================================================
// CLEAR DAY
// ======================================================

type ClearDay struct {
	repo  domain.Repository
	cache *cache.AvailabilityCache
	audit *audit.Dispatcher
}

func NewClearDay(
	repo domain.Repository,
	availCache *cache.AvailabilityCache,
	auditDispatcher *audit.Dispatcher,
) *ClearDay {
	return &ClearDay{
		repo:  repo,
		cache: availCache,
		audit: auditDispatcher,
	}
}

type ClearDayResult struct {
	Displaced []models.Appointment
}

func (uc *ClearDay) Execute(
	ctx context.Context,
	date time.Time,
	overrideBooked bool,
	userID *uint,
) (*ClearDayResult, error) {

	var result ClearDayResult

	err := uc.repo.InTx(ctx, func(tx domain.Repository) error {
		day, err := tx.LockDay(ctx, date)
		if err != nil {
			return err
		}

		// clearing an unconfigured day is a no-op
		if day == nil {
			return nil
		}

		if len(day.BookedSlots) > 0 {
			if !overrideBooked {
				return httperr.ErrBusiness("slot_in_use")
			}

			displaced, err := tx.ListActiveAppointmentsAt(ctx, date, day.BookedSlots)
			if err != nil {
				return err
			}
			result.Displaced = displaced
		}

		return tx.DeleteDay(ctx, date)
	})

	if err != nil {
		return nil, err
	}

	uc.cache.Invalidate(ctx, date)

	uc.audit.Dispatch(audit.Event{
		UserID: userID,
		Action: "availability_cleared",
		Entity: "availability",
		Metadata: map[string]any{
			"date": date.Format("2006-01-02"),
		},
	})

	if len(result.Displaced) > 0 {
		ids := make([]uint, 0, len(result.Displaced))
		for _, ap := range result.Displaced {
			ids = append(ids, ap.ID)
		}

		uc.audit.Dispatch(audit.Event{
			UserID: userID,
			Action: "availability_override",
			Entity: "availability",
			Metadata: map[string]any{
				"date":         date.Format("2006-01-02"),
				"appointments": ids,
			},
		})
	}

	return &result, nil
}
