package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/garageworks/garage-scheduler/internal/audit"
	"github.com/garageworks/garage-scheduler/internal/cache"
	"github.com/garageworks/garage-scheduler/internal/config"
	"github.com/garageworks/garage-scheduler/internal/handlers"
	infraRepo "github.com/garageworks/garage-scheduler/internal/infra/repository"
	"github.com/garageworks/garage-scheduler/internal/metrics"
	"github.com/garageworks/garage-scheduler/internal/middleware"
	ucAppointment "github.com/garageworks/garage-scheduler/internal/usecase/appointment"
	ucAvailability "github.com/garageworks/garage-scheduler/internal/usecase/availability"
)

func RegisterRoutes(
	r *gin.Engine,
	db *gorm.DB,
	availCache *cache.AvailabilityCache,
	cfg *config.Config,
) {

	// ======================================================
	// GLOBAL MIDDLEWARE
	// ======================================================
	r.Use(middleware.CORSMiddleware())
	r.Use(metrics.Middleware())

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	scheduleRepo := infraRepo.NewScheduleGormRepository(db)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger)

	// ======================================================
	// AVAILABILITY USE CASES
	// ======================================================
	queryRangeUC := ucAvailability.NewQueryRange(scheduleRepo, availCache, cfg.Timezone)

	configureDayUC := ucAvailability.NewConfigureDay(
		scheduleRepo,
		availCache,
		auditDispatcher,
		cfg.Timezone,
	)

	clearDayUC := ucAvailability.NewClearDay(
		scheduleRepo,
		availCache,
		auditDispatcher,
	)

	// ======================================================
	// APPOINTMENT USE CASES
	// ======================================================
	bookUC := ucAppointment.NewBook(scheduleRepo, availCache, auditDispatcher, cfg.Timezone)
	confirmUC := ucAppointment.NewConfirm(scheduleRepo, auditDispatcher)
	cancelUC := ucAppointment.NewCancel(scheduleRepo, availCache, auditDispatcher, cfg.Timezone)
	rescheduleUC := ucAppointment.NewReschedule(scheduleRepo, availCache, auditDispatcher, cfg.Timezone)
	completeUC := ucAppointment.NewComplete(scheduleRepo, availCache, auditDispatcher, cfg.Timezone)
	getByTokenUC := ucAppointment.NewGetByToken(scheduleRepo)
	listByDateUC := ucAppointment.NewListByDate(scheduleRepo)
	listByRangeUC := ucAppointment.NewListByRange(scheduleRepo)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)
	meHandler := handlers.NewMeHandler(db)
	clientHandler := handlers.NewClientHandler(db)
	auditLogsHandler := handlers.NewAuditLogsHandler(db)

	availabilityHandler := handlers.NewAvailabilityHandler(
		queryRangeUC,
		configureDayUC,
		clearDayUC,
	)

	appointmentHandler := handlers.NewAppointmentHandler(
		bookUC,
		confirmUC,
		cancelUC,
		rescheduleUC,
		completeUC,
		listByDateUC,
		listByRangeUC,
	)

	publicHandler := handlers.NewPublicHandler(
		queryRangeUC,
		bookUC,
		getByTokenUC,
		confirmUC,
		cancelUC,
		rescheduleUC,
	)

	// ======================================================
	// METRICS
	// ======================================================
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// PUBLIC API
		// ------------------------------
		publicAPI := api.Group("/public")
		{
			publicAPI.GET("/availability", publicHandler.Availability)
			publicAPI.POST("/appointments", publicHandler.CreateAppointment)
			publicAPI.GET("/appointments/:token", publicHandler.GetAppointment)
			publicAPI.PATCH("/appointments/:token", publicHandler.PatchAppointment)
			publicAPI.DELETE("/appointments/:token/cancel", publicHandler.CancelAppointment)
		}

		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// ADMIN API
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/me", meHandler.GetMe)

			secured.GET("/me/clients", clientHandler.List)

			// ------------------------------
			// AVAILABILITY
			// ------------------------------
			secured.GET("/me/availability", availabilityHandler.GetRange)
			secured.PUT("/me/availability", availabilityHandler.Configure)
			secured.DELETE("/me/availability", availabilityHandler.Clear)

			// ------------------------------
			// APPOINTMENTS
			// ------------------------------
			secured.POST("/me/appointments", appointmentHandler.Create)
			secured.GET("/me/appointments", appointmentHandler.ListByDate)
			secured.GET("/me/appointments/range", appointmentHandler.ListByRange)
			secured.PATCH("/me/appointments/:id/confirm", appointmentHandler.Confirm)
			secured.PATCH("/me/appointments/:id/cancel", appointmentHandler.Cancel)
			secured.PATCH("/me/appointments/:id/reschedule", appointmentHandler.Reschedule)
			secured.PATCH("/me/appointments/:id/complete", appointmentHandler.Complete)

			secured.GET("/me/audit-logs", auditLogsHandler.List)
		}
	}
}
