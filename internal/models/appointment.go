package models

import "time"

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ClientID uint   `json:"client_id"`
	Client   Client `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"client"`

	// Vehicle data is copied onto the appointment at booking time so the
	// record stays meaningful even if the client's garage file changes later.
	VehicleMake  string `gorm:"size:50" json:"vehicle_make"`
	VehicleModel string `gorm:"size:50" json:"vehicle_model"`
	VehiclePlate string `gorm:"size:20" json:"vehicle_plate"`
	VehicleYear  string `gorm:"size:10" json:"vehicle_year"`

	Service     string `gorm:"size:30;not null" json:"service"`
	Description string `gorm:"size:500" json:"description"`

	ScheduledDate time.Time `gorm:"type:date;index" json:"scheduled_date"`
	ScheduledTime string    `gorm:"size:5" json:"scheduled_time"`

	Status string `gorm:"size:20;default:'pending'" json:"status"`

	AccessToken string `gorm:"size:64;uniqueIndex" json:"-"`

	CancelledAt *time.Time `json:"cancelled_at"`
	CompletedAt *time.Time `json:"completed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
