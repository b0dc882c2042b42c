package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// SlotList is an ordered set of "HH:MM" times stored as a JSON array.
type SlotList []string

func (s SlotList) Value() (driver.Value, error) {
	if len(s) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (s *SlotList) Scan(value any) error {
	if value == nil {
		*s = SlotList{}
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	}

	return errors.New("unsupported slot list source type")
}

type DayAvailability struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Date time.Time `gorm:"type:date;uniqueIndex;not null" json:"date"`

	OfferedSlots SlotList `gorm:"type:text" json:"time_slots"`
	BookedSlots  SlotList `gorm:"type:text" json:"booked_slots"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
