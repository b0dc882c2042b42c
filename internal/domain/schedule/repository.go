package schedule

import (
	"context"
	"time"

	"github.com/garageworks/garage-scheduler/internal/models"
)

type Repository interface {
	// -------- Availability --------
	GetDay(
		ctx context.Context,
		date time.Time,
	) (*models.DayAvailability, error)

	GetDaysInRange(
		ctx context.Context,
		start time.Time,
		end time.Time,
	) ([]models.DayAvailability, error)

	// LockDay loads the day's record under an exclusive row lock so that
	// concurrent slot mutations for the same day serialize. Returns nil
	// without error when the day is unconfigured.
	LockDay(
		ctx context.Context,
		date time.Time,
	) (*models.DayAvailability, error)

	SaveDay(
		ctx context.Context,
		day *models.DayAvailability,
	) error

	DeleteDay(
		ctx context.Context,
		date time.Time,
	) error

	// -------- Appointment --------
	CreateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	GetAppointment(
		ctx context.Context,
		id uint,
	) (*models.Appointment, error)

	// GetAppointmentForUpdate locks the appointment row for the duration
	// of the surrounding transaction.
	GetAppointmentForUpdate(
		ctx context.Context,
		id uint,
	) (*models.Appointment, error)

	GetAppointmentByToken(
		ctx context.Context,
		token string,
	) (*models.Appointment, error)

	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	ListAppointmentsForDay(
		ctx context.Context,
		date time.Time,
	) ([]models.Appointment, error)

	ListAppointmentsForRange(
		ctx context.Context,
		start time.Time,
		end time.Time,
	) ([]models.Appointment, error)

	// ListActiveAppointmentsAt returns the non-terminal appointments
	// occupying any of the given slots on the given day.
	ListActiveAppointmentsAt(
		ctx context.Context,
		date time.Time,
		slots []string,
	) ([]models.Appointment, error)

	// -------- Client --------
	GetOrCreateClient(
		ctx context.Context,
		name string,
		phone string,
		email string,
	) (*models.Client, error)

	// -------- Transactions --------
	// InTx runs fn against a transaction-scoped repository. Day-scoped
	// locks taken inside fn are held until it returns.
	InTx(
		ctx context.Context,
		fn func(Repository) error,
	) error
}
