package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/garageworks/garage-scheduler/internal/domain/schedule"
	"github.com/garageworks/garage-scheduler/internal/httperr"
	"github.com/garageworks/garage-scheduler/internal/models"
)

// SQLSTATE 23505
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

type ScheduleGormRepository struct {
	db *gorm.DB
}

func NewScheduleGormRepository(db *gorm.DB) *ScheduleGormRepository {
	return &ScheduleGormRepository{db: db}
}

// --------------------------------------------------
// Transactions
// --------------------------------------------------

func (r *ScheduleGormRepository) InTx(
	ctx context.Context,
	fn func(domain.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&ScheduleGormRepository{db: tx})
	})
}

// --------------------------------------------------
// Availability
// --------------------------------------------------

func (r *ScheduleGormRepository) GetDay(
	ctx context.Context,
	date time.Time,
) (*models.DayAvailability, error) {

	var day models.DayAvailability
	err := r.db.WithContext(ctx).
		Where("date = ?", domain.DayOf(date)).
		First(&day).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &day, nil
}

func (r *ScheduleGormRepository) GetDaysInRange(
	ctx context.Context,
	start time.Time,
	end time.Time,
) ([]models.DayAvailability, error) {

	var days []models.DayAvailability
	if err := r.db.WithContext(ctx).
		Where("date >= ? AND date <= ?", domain.DayOf(start), domain.DayOf(end)).
		Order("date ASC").
		Find(&days).Error; err != nil {
		return nil, err
	}

	return days, nil
}

func (r *ScheduleGormRepository) LockDay(
	ctx context.Context,
	date time.Time,
) (*models.DayAvailability, error) {

	var day models.DayAvailability
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("date = ?", domain.DayOf(date)).
		First(&day).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &day, nil
}

func (r *ScheduleGormRepository) SaveDay(
	ctx context.Context,
	day *models.DayAvailability,
) error {
	err := r.db.WithContext(ctx).Save(day).Error

	// two first writes for the same fresh day both see no row to lock and
	// race for the date unique index; the loser gets a conflict to retry
	if isUniqueViolation(err) {
		return httperr.ErrBusiness("availability_conflict")
	}
	return err
}

func (r *ScheduleGormRepository) DeleteDay(
	ctx context.Context,
	date time.Time,
) error {
	return r.db.WithContext(ctx).
		Where("date = ?", domain.DayOf(date)).
		Delete(&models.DayAvailability{}).Error
}

// --------------------------------------------------
// Appointment
// --------------------------------------------------

func (r *ScheduleGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Create(ap).Error
}

func (r *ScheduleGormRepository) GetAppointment(
	ctx context.Context,
	id uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Client").
		First(&ap, id).Error; err != nil {
		return nil, err
	}

	return &ap, nil
}

func (r *ScheduleGormRepository) GetAppointmentForUpdate(
	ctx context.Context,
	id uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&ap, id).Error; err != nil {
		return nil, err
	}

	return &ap, nil
}

func (r *ScheduleGormRepository) GetAppointmentByToken(
	ctx context.Context,
	token string,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Client").
		Where("access_token = ?", token).
		First(&ap).Error; err != nil {
		return nil, err
	}

	return &ap, nil
}

func (r *ScheduleGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Save(ap).Error
}

func (r *ScheduleGormRepository) ListAppointmentsForDay(
	ctx context.Context,
	date time.Time,
) ([]models.Appointment, error) {

	var aps []models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Client").
		Where("scheduled_date = ?", domain.DayOf(date)).
		Order("scheduled_time ASC").
		Find(&aps).Error; err != nil {
		return nil, err
	}

	return aps, nil
}

func (r *ScheduleGormRepository) ListAppointmentsForRange(
	ctx context.Context,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {

	var aps []models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Client").
		Where("scheduled_date >= ? AND scheduled_date <= ?", domain.DayOf(start), domain.DayOf(end)).
		Order("scheduled_date ASC, scheduled_time ASC").
		Find(&aps).Error; err != nil {
		return nil, err
	}

	return aps, nil
}

func (r *ScheduleGormRepository) ListActiveAppointmentsAt(
	ctx context.Context,
	date time.Time,
	slots []string,
) ([]models.Appointment, error) {

	if len(slots) == 0 {
		return []models.Appointment{}, nil
	}

	var aps []models.Appointment
	if err := r.db.WithContext(ctx).
		Where(
			"scheduled_date = ? AND scheduled_time IN ? AND status IN ?",
			domain.DayOf(date),
			slots,
			[]string{
				string(domain.StatusPending),
				string(domain.StatusConfirmed),
				string(domain.StatusModified),
			},
		).
		Order("scheduled_time ASC").
		Find(&aps).Error; err != nil {
		return nil, err
	}

	return aps, nil
}

// --------------------------------------------------
// Client
// --------------------------------------------------

func (r *ScheduleGormRepository) GetOrCreateClient(
	ctx context.Context,
	name string,
	phone string,
	email string,
) (*models.Client, error) {

	var client models.Client
	err := r.db.WithContext(ctx).
		Where("phone = ?", phone).
		First(&client).Error

	if err == nil {
		return &client, nil
	}

	client = models.Client{
		Name:  name,
		Phone: phone,
		Email: email,
	}

	if err := r.db.WithContext(ctx).Create(&client).Error; err != nil {
		return nil, err
	}

	return &client, nil
}

// Compile-time check
var _ domain.Repository = (*ScheduleGormRepository)(nil)
