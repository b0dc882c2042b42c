package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	domain "github.com/garageworks/garage-scheduler/internal/domain/schedule"
	"github.com/garageworks/garage-scheduler/internal/httperr"
	"github.com/garageworks/garage-scheduler/internal/metrics"
	ucAppointment "github.com/garageworks/garage-scheduler/internal/usecase/appointment"
	ucAvailability "github.com/garageworks/garage-scheduler/internal/usecase/availability"
	"github.com/garageworks/garage-scheduler/internal/validators"
)

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

// PublicHandler serves the unauthenticated booking flow. Appointment
// self-service (view, reschedule, confirm, cancel) is authorized by the
// access token issued at booking time, never by login.
type PublicHandler struct {
	queryRange *ucAvailability.QueryRange
	book       *ucAppointment.Book
	getByToken *ucAppointment.GetByToken
	confirm    *ucAppointment.Confirm
	cancel     *ucAppointment.Cancel
	reschedule *ucAppointment.Reschedule
}

func NewPublicHandler(
	queryRange *ucAvailability.QueryRange,
	book *ucAppointment.Book,
	getByToken *ucAppointment.GetByToken,
	confirm *ucAppointment.Confirm,
	cancel *ucAppointment.Cancel,
	reschedule *ucAppointment.Reschedule,
) *PublicHandler {
	return &PublicHandler{
		queryRange: queryRange,
		book:       book,
		getByToken: getByToken,
		confirm:    confirm,
		cancel:     cancel,
		reschedule: reschedule,
	}
}

////////////////////////////////////////////////////////
// DTOs
////////////////////////////////////////////////////////

type PublicBookingRequest struct {
	ClientName  string `json:"client_name" binding:"required"`
	ClientPhone string `json:"client_phone" binding:"required"`
	ClientEmail string `json:"client_email"`

	VehicleMake  string `json:"vehicle_make"`
	VehicleModel string `json:"vehicle_model"`
	VehiclePlate string `json:"vehicle_plate"`
	VehicleYear  string `json:"vehicle_year"`

	Service     string `json:"service" binding:"required"`
	Description string `json:"description"`

	Date string `json:"date" binding:"required"` // YYYY-MM-DD
	Time string `json:"time" binding:"required"` // HH:mm
}

type PublicPatchRequest struct {
	// confirm accepts a proposed change; date+time reschedules
	Confirm bool   `json:"confirm"`
	Date    string `json:"date"`
	Time    string `json:"time"`
}

type PublicAppointmentResponse struct {
	ID           uint   `json:"id"`
	Service      string `json:"service"`
	Description  string `json:"description"`
	Date         string `json:"date"`
	Time         string `json:"time"`
	Status       string `json:"status"`
	ClientName   string `json:"client_name"`
	VehicleMake  string `json:"vehicle_make"`
	VehicleModel string `json:"vehicle_model"`
	VehiclePlate string `json:"vehicle_plate"`
	AccessToken  string `json:"access_token,omitempty"`
}

////////////////////////////////////////////////////////
// AVAILABILITY
////////////////////////////////////////////////////////

func (h *PublicHandler) Availability(c *gin.Context) {
	startStr := c.Query("start")
	endStr := c.Query("end")

	if startStr == "" || endStr == "" {
		httperr.BadRequest(c, "missing_params", "start and end are required.")
		return
	}

	start, err := domain.ParseDay(startStr)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Invalid start date.")
		return
	}

	end, err := domain.ParseDay(endStr)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Invalid end date.")
		return
	}

	days, err := h.queryRange.Execute(c.Request.Context(), start, end)
	if err != nil {
		httperr.Internal(c, "availability_failed", "Failed to load availability.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"days": days})
}

////////////////////////////////////////////////////////
// CREATE APPOINTMENT
////////////////////////////////////////////////////////

func (h *PublicHandler) CreateAppointment(c *gin.Context) {
	var req PublicBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	if req.ClientEmail != "" && !validators.IsEmailDomainValid(req.ClientEmail) {
		httperr.BadRequest(c, "invalid_email_domain", "The email domain does not look valid.")
		return
	}

	ap, err := h.book.Execute(c.Request.Context(), ucAppointment.BookInput{
		ClientName:  req.ClientName,
		ClientPhone: req.ClientPhone,
		ClientEmail: req.ClientEmail,

		VehicleMake:  req.VehicleMake,
		VehicleModel: req.VehicleModel,
		VehiclePlate: req.VehiclePlate,
		VehicleYear:  req.VehicleYear,

		Service:     req.Service,
		Description: req.Description,

		Date: req.Date,
		Time: req.Time,
	})

	if err != nil {
		if httperr.IsBusiness(err, "slot_already_booked") || httperr.IsBusiness(err, "slot_not_offered") {
			metrics.CountBooking("slot_conflict")
		} else {
			metrics.CountBooking("rejected")
		}
		mapScheduleError(c, err)
		return
	}

	metrics.CountBooking("created")

	// the access token is returned exactly once, at creation
	c.JSON(http.StatusCreated, PublicAppointmentResponse{
		ID:           ap.ID,
		Service:      ap.Service,
		Description:  ap.Description,
		Date:         ap.ScheduledDate.Format("2006-01-02"),
		Time:         ap.ScheduledTime,
		Status:       ap.Status,
		ClientName:   ap.Client.Name,
		VehicleMake:  ap.VehicleMake,
		VehicleModel: ap.VehicleModel,
		VehiclePlate: ap.VehiclePlate,
		AccessToken:  ap.AccessToken,
	})
}

////////////////////////////////////////////////////////
// SELF-SERVICE BY TOKEN
////////////////////////////////////////////////////////

func (h *PublicHandler) GetAppointment(c *gin.Context) {
	ap, err := h.getByToken.Execute(c.Request.Context(), c.Param("token"))
	if err != nil {
		mapScheduleError(c, err)
		return
	}

	c.JSON(http.StatusOK, PublicAppointmentResponse{
		ID:           ap.ID,
		Service:      ap.Service,
		Description:  ap.Description,
		Date:         ap.ScheduledDate.Format("2006-01-02"),
		Time:         ap.ScheduledTime,
		Status:       ap.Status,
		ClientName:   ap.Client.Name,
		VehicleMake:  ap.VehicleMake,
		VehicleModel: ap.VehicleModel,
		VehiclePlate: ap.VehiclePlate,
	})
}

func (h *PublicHandler) PatchAppointment(c *gin.Context) {
	ap, err := h.getByToken.Execute(c.Request.Context(), c.Param("token"))
	if err != nil {
		mapScheduleError(c, err)
		return
	}

	var req PublicPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	switch {
	case req.Date != "" && req.Time != "":
		ap, err = h.reschedule.Execute(c.Request.Context(), ap.ID, req.Date, req.Time, nil)
	case req.Confirm:
		ap, err = h.confirm.Execute(c.Request.Context(), ap.ID, nil)
	default:
		httperr.BadRequest(c, "invalid_request", "Provide date and time, or confirm.")
		return
	}

	if err != nil {
		mapScheduleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":     ap.ID,
		"date":   ap.ScheduledDate.Format("2006-01-02"),
		"time":   ap.ScheduledTime,
		"status": ap.Status,
	})
}

func (h *PublicHandler) CancelAppointment(c *gin.Context) {
	ap, err := h.getByToken.Execute(c.Request.Context(), c.Param("token"))
	if err != nil {
		mapScheduleError(c, err)
		return
	}

	ap, err = h.cancel.Execute(c.Request.Context(), ap.ID, nil)
	if err != nil {
		mapScheduleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":     ap.ID,
		"status": ap.Status,
	})
}
