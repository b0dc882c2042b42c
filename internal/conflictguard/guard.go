package conflictguard

import (
	"context"
	"time"

	"github.com/garageworks/garage-scheduler/internal/domain/schedule"
	"github.com/garageworks/garage-scheduler/internal/httperr"
)

// The guard is the single choke point through which booked slots are
// mutated. Every primitive runs as one day-scoped transaction: the day row
// is locked for update, so two callers racing for the same slot serialize
// and exactly one of them wins.

type Guard struct {
	repo schedule.Repository
}

func New(repo schedule.Repository) *Guard {
	return &Guard{repo: repo}
}

// Reserve transitions a slot from free to booked.
func (g *Guard) Reserve(ctx context.Context, date time.Time, slot string) error {
	return g.repo.InTx(ctx, func(tx schedule.Repository) error {
		return ReserveIn(ctx, tx, date, slot)
	})
}

// Release frees a slot; releasing an already-free slot succeeds silently.
func (g *Guard) Release(ctx context.Context, date time.Time, slot string) error {
	return g.repo.InTx(ctx, func(tx schedule.Repository) error {
		return ReleaseIn(ctx, tx, date, slot)
	})
}

// Move reserves the target slot and frees the source in one transaction.
// A failed move leaves the source reservation untouched.
func (g *Guard) Move(ctx context.Context, fromDate time.Time, fromSlot string, toDate time.Time, toSlot string) error {
	return g.repo.InTx(ctx, func(tx schedule.Repository) error {
		return MoveIn(ctx, tx, fromDate, fromSlot, toDate, toSlot)
	})
}

// ======================================================
// Transaction-scoped primitives
// ======================================================

// ReserveIn is Reserve inside an already-open transaction, so lifecycle
// transitions can combine a slot mutation and a status change atomically.
func ReserveIn(ctx context.Context, repo schedule.Repository, date time.Time, slot string) error {
	day, err := repo.LockDay(ctx, date)
	if err != nil {
		return err
	}

	if day == nil || !schedule.ContainsSlot(day.OfferedSlots, slot) {
		return httperr.ErrBusiness("slot_not_offered")
	}

	if schedule.ContainsSlot(day.BookedSlots, slot) {
		return httperr.ErrBusiness("slot_already_booked")
	}

	day.BookedSlots = schedule.AddSlot(day.BookedSlots, slot)
	return repo.SaveDay(ctx, day)
}

func ReleaseIn(ctx context.Context, repo schedule.Repository, date time.Time, slot string) error {
	day, err := repo.LockDay(ctx, date)
	if err != nil {
		return err
	}

	// day gone or slot already free: releasing is idempotent so that
	// compensating retries after a partial failure are safe
	if day == nil || !schedule.ContainsSlot(day.BookedSlots, slot) {
		return nil
	}

	day.BookedSlots = schedule.RemoveSlot(day.BookedSlots, slot)
	return repo.SaveDay(ctx, day)
}

func MoveIn(ctx context.Context, repo schedule.Repository, fromDate time.Time, fromSlot string, toDate time.Time, toSlot string) error {
	from := schedule.DayOf(fromDate)
	to := schedule.DayOf(toDate)

	if from.Equal(to) && fromSlot == toSlot {
		return nil
	}

	if from.Equal(to) {
		day, err := repo.LockDay(ctx, from)
		if err != nil {
			return err
		}

		if day == nil || !schedule.ContainsSlot(day.OfferedSlots, toSlot) {
			return httperr.ErrBusiness("slot_not_offered")
		}
		if schedule.ContainsSlot(day.BookedSlots, toSlot) {
			return httperr.ErrBusiness("slot_already_booked")
		}

		day.BookedSlots = schedule.AddSlot(day.BookedSlots, toSlot)
		day.BookedSlots = schedule.RemoveSlot(day.BookedSlots, fromSlot)
		return repo.SaveDay(ctx, day)
	}

	// lock both days in calendar order to keep concurrent moves
	// deadlock-free, then reserve the target before freeing the source
	if from.Before(to) {
		if _, err := repo.LockDay(ctx, from); err != nil {
			return err
		}
		if err := ReserveIn(ctx, repo, to, toSlot); err != nil {
			return err
		}
	} else {
		if err := ReserveIn(ctx, repo, to, toSlot); err != nil {
			return err
		}
	}

	return ReleaseIn(ctx, repo, from, fromSlot)
}
