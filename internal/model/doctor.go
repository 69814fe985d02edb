package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// doctors — one-to-one with a doctor-role user.
type Doctor struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	Name        string    `gorm:"type:varchar(255);not null"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index"`
	SpecialtyID uuid.UUID `gorm:"type:uuid;not null;index"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`

	User      *User      `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	Specialty *Specialty `gorm:"foreignKey:SpecialtyID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`

	Slots []AvailableSlot `gorm:"foreignKey:DoctorID"`
}

func (d *Doctor) BeforeCreate(*gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}
