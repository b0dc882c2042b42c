package cache

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
)

// CachedDay is the per-day availability projection kept in redis. Offered
// and booked are stored raw; projections are computed by the reader.
type CachedDay struct {
	TimeSlots   []string `json:"time_slots"`
	BookedSlots []string `json:"booked_slots"`
}

const (
	keyPrefix = "availability:"
	dayTTL    = 5 * time.Minute
)

type AvailabilityCache struct {
	client *redis.Client
}

// NewAvailabilityCache returns nil when no redis address is configured;
// callers treat a nil cache as a pass-through to the database.
func NewAvailabilityCache(addr string) *AvailabilityCache {
	if addr == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{Addr: addr})

	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Printf("redis unreachable at %s, availability cache disabled: %v", addr, err)
		return nil
	}

	return &AvailabilityCache{client: client}
}

func dayKey(date time.Time) string {
	return keyPrefix + date.Format("2006-01-02")
}

// GetDays fetches the cached projections for the given days. Missing or
// unreadable entries are simply absent from the result.
func (c *AvailabilityCache) GetDays(
	ctx context.Context,
	dates []time.Time,
) (map[string]CachedDay, error) {

	if len(dates) == 0 {
		return map[string]CachedDay{}, nil
	}

	keys := make([]string, 0, len(dates))
	for _, d := range dates {
		keys = append(keys, dayKey(d))
	}

	vals, err := c.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	out := make(map[string]CachedDay, len(vals))
	for i, v := range vals {
		s, ok := v.(string)
		if !ok {
			continue
		}

		var day CachedDay
		if err := json.Unmarshal([]byte(s), &day); err != nil {
			continue
		}
		out[dates[i].Format("2006-01-02")] = day
	}

	return out, nil
}

func (c *AvailabilityCache) SetDays(
	ctx context.Context,
	days map[time.Time]CachedDay,
) error {

	pipe := c.client.Pipeline()
	for date, day := range days {
		b, err := json.Marshal(day)
		if err != nil {
			continue
		}
		pipe.Set(ctx, dayKey(date), b, dayTTL)
	}

	_, err := pipe.Exec(ctx)
	return err
}

// Invalidate drops the cached projection for the given days. Called after
// every slot mutation so readers never see a stale booked set for long.
func (c *AvailabilityCache) Invalidate(ctx context.Context, dates ...time.Time) {
	if c == nil || len(dates) == 0 {
		return
	}

	keys := make([]string, 0, len(dates))
	for _, d := range dates {
		keys = append(keys, dayKey(d))
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		log.Println("availability cache invalidation failed:", err)
	}
}
