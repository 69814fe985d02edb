package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EventType string

const (
	EventTypeUserRegistered EventType = "user_registered"
	EventTypeUserLogin      EventType = "user_login"
	EventTypeUserLogout     EventType = "user_logout"
	EventTypeSlotsCreated   EventType = "slots_created"
	EventTypeBookingCreated EventType = "booking_created"
)

// events — append-only audit trail.
type Event struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	EventType EventType `gorm:"type:varchar(64);not null;index"`
	CreatedAt time.Time `gorm:"not null;index"`

	UserID    *uuid.UUID `gorm:"type:uuid;index"`
	BookingID *uuid.UUID `gorm:"type:uuid;index"`

	Details string `gorm:"type:text"`

	User    *User               `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
	Booking *AppointmentBooking `gorm:"foreignKey:BookingID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
}

func (e *Event) BeforeCreate(*gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
