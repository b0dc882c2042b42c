package availability

import (
	"context"
	"time"

	"github.com/garageworks/garage-scheduler/internal/cache"
	domain "github.com/garageworks/garage-scheduler/internal/domain/schedule"
	"github.com/garageworks/garage-scheduler/internal/models"
	"github.com/garageworks/garage-scheduler/internal/timezone"
)

// ======================================================
// QUERY RANGE
// ======================================================

type QueryRange struct {
	repo  domain.Repository
	cache *cache.AvailabilityCache
	tz    string
}

func NewQueryRange(
	repo domain.Repository,
	availCache *cache.AvailabilityCache,
	tz string,
) *QueryRange {
	return &QueryRange{
		repo:  repo,
		cache: availCache,
		tz:    tz,
	}
}

// DaySlots is the per-day projection served to callers: the bookable set
// (offered minus booked) plus the raw booked set for admin display.
type DaySlots struct {
	Date        string   `json:"date"`
	TimeSlots   []string `json:"time_slots"`
	BookedSlots []string `json:"booked_slots"`
}

func (uc *QueryRange) Execute(
	ctx context.Context,
	start time.Time,
	end time.Time,
) ([]DaySlots, error) {

	today := domain.DayOf(timezone.NowIn(uc.tz))

	s, e, ok := domain.ClampRange(today, start, end)
	if !ok {
		return []DaySlots{}, nil
	}

	dates := make([]time.Time, 0)
	for d := s; !d.After(e); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}

	// serve from the projection cache when every day of the range is hot
	if uc.cache != nil {
		if cached, err := uc.cache.GetDays(ctx, dates); err == nil && len(cached) == len(dates) {
			out := make([]DaySlots, 0, len(dates))
			for _, d := range dates {
				day := cached[d.Format("2006-01-02")]
				if len(day.TimeSlots) == 0 && len(day.BookedSlots) == 0 {
					continue
				}
				out = append(out, project(d, day.TimeSlots, day.BookedSlots))
			}
			return out, nil
		}
	}

	days, err := uc.repo.GetDaysInRange(ctx, s, e)
	if err != nil {
		return nil, err
	}

	byDate := make(map[string]models.DayAvailability, len(days))
	for _, day := range days {
		byDate[day.Date.Format("2006-01-02")] = day
	}

	toCache := make(map[time.Time]cache.CachedDay, len(dates))
	out := make([]DaySlots, 0, len(days))

	for _, d := range dates {
		key := d.Format("2006-01-02")

		day, configured := byDate[key]
		if configured {
			out = append(out, project(d, day.OfferedSlots, day.BookedSlots))
			toCache[d] = cache.CachedDay{
				TimeSlots:   day.OfferedSlots,
				BookedSlots: day.BookedSlots,
			}
		} else {
			// cache unconfigured days too, so repeat queries for an
			// empty calendar stay off the database
			toCache[d] = cache.CachedDay{}
		}
	}

	if uc.cache != nil {
		_ = uc.cache.SetDays(ctx, toCache)
	}

	return out, nil
}

func project(date time.Time, offered, booked models.SlotList) DaySlots {
	return DaySlots{
		Date:        date.Format("2006-01-02"),
		TimeSlots:   domain.SubtractSlots(offered, booked),
		BookedSlots: append(models.SlotList{}, booked...),
	}
}
