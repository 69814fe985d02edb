package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// specialties — lookup entity referenced by doctors.
type Specialty struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	Name        string `gorm:"type:varchar(255);not null"`
	Description string `gorm:"type:text"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`

	Doctors []Doctor `gorm:"foreignKey:SpecialtyID"`
}

func (s *Specialty) BeforeCreate(*gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
