package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	domain "github.com/garageworks/garage-scheduler/internal/domain/schedule"
	"github.com/garageworks/garage-scheduler/internal/httperr"
	"github.com/garageworks/garage-scheduler/internal/middleware"
	ucAvailability "github.com/garageworks/garage-scheduler/internal/usecase/availability"
)

// ======================================================
// HANDLER
// ======================================================

type AvailabilityHandler struct {
	queryRange   *ucAvailability.QueryRange
	configureDay *ucAvailability.ConfigureDay
	clearDay     *ucAvailability.ClearDay
}

func NewAvailabilityHandler(
	queryRange *ucAvailability.QueryRange,
	configureDay *ucAvailability.ConfigureDay,
	clearDay *ucAvailability.ClearDay,
) *AvailabilityHandler {
	return &AvailabilityHandler{
		queryRange:   queryRange,
		configureDay: configureDay,
		clearDay:     clearDay,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type ConfigureDayRequest struct {
	Date           string   `json:"date" binding:"required"` // YYYY-MM-DD
	TimeSlots      []string `json:"time_slots"`
	OverrideBooked bool     `json:"override_booked"`
}

// ======================================================
// GET RANGE
// ======================================================

func (h *AvailabilityHandler) GetRange(c *gin.Context) {
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

// ======================================================
// CONFIGURE DAY
// ======================================================

func (h *AvailabilityHandler) Configure(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var req ConfigureDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	date, err := domain.ParseDay(req.Date)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Invalid date.")
		return
	}

	result, err := h.configureDay.Execute(c.Request.Context(), ucAvailability.ConfigureDayInput{
		Date:           date,
		Slots:          req.TimeSlots,
		OverrideBooked: req.OverrideBooked,
		UserID:         &userID,
	})
	if err != nil {
		mapScheduleError(c, err)
		return
	}

	displaced := make([]uint, 0, len(result.Displaced))
	for _, ap := range result.Displaced {
		displaced = append(displaced, ap.ID)
	}

	c.JSON(http.StatusOK, gin.H{
		"day":                    result.Day,
		"displaced_appointments": displaced,
	})
}

// ======================================================
// CLEAR DAY
// ======================================================

func (h *AvailabilityHandler) Clear(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

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

	override := c.Query("override_booked") == "true"

	result, err := h.clearDay.Execute(c.Request.Context(), date, override, &userID)
	if err != nil {
		mapScheduleError(c, err)
		return
	}

	displaced := make([]uint, 0, len(result.Displaced))
	for _, ap := range result.Displaced {
		displaced = append(displaced, ap.ID)
	}

	c.JSON(http.StatusOK, gin.H{
		"cleared":                dateStr,
		"displaced_appointments": displaced,
	})
}
