package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/garageworks/garage-scheduler/internal/httperr"
)

// mapScheduleError translates business error codes to HTTP statuses.
// Conflict-class failures surface verbatim as 409 so callers can decide
// whether to retry; nothing is retried here.
func mapScheduleError(c *gin.Context, err error) {
	switch {
	case httperr.IsBusiness(err, "invalid_slot_set"):
		httperr.BadRequest(c, "invalid_slot_set", "Time slots must be valid, strictly increasing HH:MM values.")

	case httperr.IsBusiness(err, "invalid_date_or_time"):
		httperr.BadRequest(c, "invalid_date_or_time", "Invalid or past date/time.")

	case httperr.IsBusiness(err, "invalid_service"):
		httperr.BadRequest(c, "invalid_service", "Unknown service category.")

	case httperr.IsBusiness(err, "outside_horizon"):
		httperr.BadRequest(c, "outside_horizon", "Date is outside the booking horizon.")

	case httperr.IsBusiness(err, "slot_not_offered"):
		httperr.Conflict(c, "slot_not_offered", "That time is not offered on this day.")

	case httperr.IsBusiness(err, "slot_already_booked"):
		httperr.Conflict(c, "slot_already_booked", "That time is already booked.")

	case httperr.IsBusiness(err, "slot_in_use"):
		httperr.Conflict(c, "slot_in_use", "One or more slots are occupied by an appointment.")

	case httperr.IsBusiness(err, "availability_conflict"):
		httperr.Conflict(c, "availability_conflict", "The day was modified concurrently, retry.")

	case httperr.IsBusiness(err, "invalid_transition"):
		httperr.Conflict(c, "invalid_transition", "The appointment cannot change state this way.")

	case httperr.IsBusiness(err, "appointment_not_found"):
		httperr.NotFound(c, "appointment_not_found", "Appointment not found.")

	default:
		if httperr.IsAnyBusiness(err) {
			httperr.BadRequest(c, err.Error(), "Request rejected.")
			return
		}
		httperr.Internal(c, "internal_error", "Unexpected error.")
	}
}
