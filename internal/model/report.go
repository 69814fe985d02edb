package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// reports — free-form documents a doctor attaches to a patient, optionally
// tied to a booking.
type Report struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	DoctorID      uuid.UUID  `gorm:"type:uuid;not null;index"`
	PatientID     uuid.UUID  `gorm:"type:uuid;not null;index"`
	AppointmentID *uuid.UUID `gorm:"type:uuid"`

	Title    string `gorm:"type:varchar(255);not null"`
	Content  string `gorm:"type:text"`
	FilePath string `gorm:"type:varchar(255)"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`

	Doctor      *Doctor             `gorm:"foreignKey:DoctorID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	Patient     *Patient            `gorm:"foreignKey:PatientID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	Appointment *AppointmentBooking `gorm:"foreignKey:AppointmentID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
}

func (r *Report) BeforeCreate(*gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
