package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// available_slots — a doctor-owned, date+time-bounded unit of bookable availability.
// Times are wall-clock "HH:MM" strings; the date carries the day. IsBooked is the
// sole gate for bookability.
type AvailableSlot struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	DoctorID uuid.UUID      `gorm:"type:uuid;not null;index:idx_doctor_date"`
	Date     datatypes.Date `gorm:"type:date;not null;index:idx_doctor_date"`

	StartTime string `gorm:"type:varchar(5);not null"`
	EndTime   string `gorm:"type:varchar(5);not null"`

	IsBooked bool `gorm:"not null;default:false"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`

	Doctor  *Doctor             `gorm:"foreignKey:DoctorID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	Booking *AppointmentBooking `gorm:"foreignKey:SlotID"`
}

func (s *AvailableSlot) BeforeCreate(*gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
