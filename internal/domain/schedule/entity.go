package schedule

import (
	"time"

	"github.com/garageworks/garage-scheduler/internal/models"
)

// ===============================
// Domain Actions
// ===============================

func Confirm(ap *models.Appointment) error {
	if err := CanConfirm(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusConfirmed)
	return nil
}

// Cancel is idempotent: cancelling an already-cancelled appointment succeeds
// without touching it. The returned bool tells the caller whether the slot
// still has to be released.
func Cancel(ap *models.Appointment, now time.Time) (bool, error) {
	if Status(ap.Status) == StatusCancelled {
		return false, nil
	}

	if err := CanCancel(Status(ap.Status)); err != nil {
		return false, err
	}

	ap.Status = string(StatusCancelled)
	ap.CancelledAt = &now
	return true, nil
}

// Reschedule moves the appointment to a new slot and puts it back into the
// modified state, pending re-confirmation by the counter-party.
func Reschedule(ap *models.Appointment, newDate time.Time, newTime string) error {
	if err := CanReschedule(Status(ap.Status)); err != nil {
		return err
	}

	ap.ScheduledDate = DayOf(newDate)
	ap.ScheduledTime = newTime
	ap.Status = string(StatusModified)
	return nil
}

func Complete(ap *models.Appointment, now time.Time) error {
	if err := CanComplete(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusCompleted)
	ap.CompletedAt = &now
	return nil
}
