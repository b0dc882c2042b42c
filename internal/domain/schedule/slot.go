package schedule

import (
	"time"

	"github.com/garageworks/garage-scheduler/internal/httperr"
	"github.com/garageworks/garage-scheduler/internal/models"
)

// ===============================
// Slot sets
// ===============================

// ParseSlot validates an "HH:MM" time-of-day.
func ParseSlot(s string) (time.Time, error) {
	return time.Parse("15:04", s)
}

// ValidateSlotSet requires a strictly increasing list of valid "HH:MM" times.
func ValidateSlotSet(slots []string) error {
	var prev time.Time

	for i, s := range slots {
		t, err := ParseSlot(s)
		if err != nil {
			return httperr.ErrBusiness("invalid_slot_set")
		}
		if i > 0 && !t.After(prev) {
			return httperr.ErrBusiness("invalid_slot_set")
		}
		prev = t
	}

	return nil
}

func ContainsSlot(list models.SlotList, slot string) bool {
	for _, s := range list {
		if s == slot {
			return true
		}
	}
	return false
}

// AddSlot inserts slot keeping the list ordered; adding an existing slot is a no-op.
func AddSlot(list models.SlotList, slot string) models.SlotList {
	out := make(models.SlotList, 0, len(list)+1)
	inserted := false

	for _, s := range list {
		if s == slot {
			return list
		}
		if !inserted && s > slot {
			out = append(out, slot)
			inserted = true
		}
		out = append(out, s)
	}

	if !inserted {
		out = append(out, slot)
	}

	return out
}

func RemoveSlot(list models.SlotList, slot string) models.SlotList {
	out := make(models.SlotList, 0, len(list))
	for _, s := range list {
		if s != slot {
			out = append(out, s)
		}
	}
	return out
}

// SubtractSlots returns the slots of a that are not in b, preserving order.
// Used for the bookable projection (offered minus booked).
func SubtractSlots(a, b models.SlotList) models.SlotList {
	out := make(models.SlotList, 0, len(a))
	for _, s := range a {
		if !ContainsSlot(b, s) {
			out = append(out, s)
		}
	}
	return out
}
