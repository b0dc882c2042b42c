package schedule

import "github.com/garageworks/garage-scheduler/internal/httperr"

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusModified  Status = "modified"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

func InitialStatus() Status {
	return StatusPending
}

// IsTerminal reports whether no further transition is permitted.
func IsTerminal(s Status) bool {
	return s == StatusCancelled || s == StatusCompleted
}

// ===============================
// Transition validations
// ===============================

// CanConfirm accepts a fresh request or a proposed change awaiting approval.
func CanConfirm(current Status) error {
	if current != StatusPending && current != StatusModified {
		return httperr.ErrBusiness("invalid_transition")
	}
	return nil
}

func CanCancel(current Status) error {
	switch current {
	case StatusPending, StatusConfirmed, StatusModified:
		return nil
	}
	return httperr.ErrBusiness("invalid_transition")
}

func CanReschedule(current Status) error {
	if current != StatusPending && current != StatusConfirmed {
		return httperr.ErrBusiness("invalid_transition")
	}
	return nil
}

func CanComplete(current Status) error {
	if current != StatusConfirmed {
		return httperr.ErrBusiness("invalid_transition")
	}
	return nil
}
