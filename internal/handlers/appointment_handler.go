package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domain "github.com/garageworks/garage-scheduler/internal/domain/schedule"
	"github.com/garageworks/garage-scheduler/internal/httperr"
	"github.com/garageworks/garage-scheduler/internal/httpresp"
	"github.com/garageworks/garage-scheduler/internal/metrics"
	"github.com/garageworks/garage-scheduler/internal/middleware"
	ucAppointment "github.com/garageworks/garage-scheduler/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	book        *ucAppointment.Book
	confirm     *ucAppointment.Confirm
	cancel      *ucAppointment.Cancel
	reschedule  *ucAppointment.Reschedule
	complete    *ucAppointment.Complete
	listByDate  *ucAppointment.ListByDate
	listByRange *ucAppointment.ListByRange
}

func NewAppointmentHandler(
	book *ucAppointment.Book,
	confirm *ucAppointment.Confirm,
	cancel *ucAppointment.Cancel,
	reschedule *ucAppointment.Reschedule,
	complete *ucAppointment.Complete,
	listByDate *ucAppointment.ListByDate,
	listByRange *ucAppointment.ListByRange,
) *AppointmentHandler {
	return &AppointmentHandler{
		book:        book,
		confirm:     confirm,
		cancel:      cancel,
		reschedule:  reschedule,
		complete:    complete,
		listByDate:  listByDate,
		listByRange: listByRange,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
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

type RescheduleRequest struct {
	Date string `json:"date" binding:"required"`
	Time string `json:"time" binding:"required"`
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
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

		Date:   req.Date,
		Time:   req.Time,
		UserID: &userID,
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
	c.JSON(http.StatusCreated, ap)
}

// ======================================================
// LIST
// ======================================================

func (h *AppointmentHandler) ListByDate(c *gin.Context) {
	dateStr := c.Query("date")
	if dateStr == "" {
		httperr.BadRequest(c, "missing_date", "date is required.")
		return
	}

	date, err := domain.ParseDay(dateStr)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Invalid date.")
		return
	}

	appointments, err := h.listByDate.Execute(c.Request.Context(), date)
	if err != nil {
		httperr.Internal(c, "failed_to_list_appointments", "Failed to list appointments.")
		return
	}

	httpresp.List(c, appointments)
}

func (h *AppointmentHandler) ListByRange(c *gin.Context) {
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

	appointments, err := h.listByRange.Execute(c.Request.Context(), start, end)
	if err != nil {
		httperr.Internal(c, "failed_to_list_appointments", "Failed to list appointments.")
		return
	}

	httpresp.List(c, appointments)
}

// ======================================================
// TRANSITIONS
// ======================================================

func (h *AppointmentHandler) appointmentID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid appointment id.")
		return 0, false
	}
	return uint(id), true
}

func (h *AppointmentHandler) Confirm(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	id, ok := h.appointmentID(c)
	if !ok {
		return
	}

	ap, err := h.confirm.Execute(c.Request.Context(), id, &userID)
	if err != nil {
		mapScheduleError(c, err)
		return
	}

	c.JSON(http.StatusOK, ap)
}

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	id, ok := h.appointmentID(c)
	if !ok {
		return
	}

	ap, err := h.cancel.Execute(c.Request.Context(), id, &userID)
	if err != nil {
		mapScheduleError(c, err)
		return
	}

	c.JSON(http.StatusOK, ap)
}

func (h *AppointmentHandler) Reschedule(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	id, ok := h.appointmentID(c)
	if !ok {
		return
	}

	var req RescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	ap, err := h.reschedule.Execute(c.Request.Context(), id, req.Date, req.Time, &userID)
	if err != nil {
		mapScheduleError(c, err)
		return
	}

	c.JSON(http.StatusOK, ap)
}

func (h *AppointmentHandler) Complete(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	id, ok := h.appointmentID(c)
	if !ok {
		return
	}

	ap, err := h.complete.Execute(c.Request.Context(), id, &userID)
	if err != nil {
		mapScheduleError(c, err)
		return
	}

	c.JSON(http.StatusOK, ap)
}
