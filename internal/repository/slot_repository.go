package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"clinic-booking/internal/model"
)

type SlotRepository interface {
	WithTx(tx *gorm.DB) SlotRepository
	Create(ctx context.Context, slot *model.AvailableSlot) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.AvailableSlot, error)
	// ListAvailableForDoctor returns unbooked slots for one doctor, optionally
	// restricted to an exact date.
	ListAvailableForDoctor(ctx context.Context, doctorID uuid.UUID, date *datatypes.Date) ([]model.AvailableSlot, error)
	// ListAvailable returns all unbooked slots, optionally restricted to doctors
	// of one specialty. Doctor and specialty are preloaded for the read model.
	ListAvailable(ctx context.Context, specialtyID *uuid.UUID) ([]model.AvailableSlot, error)
	MarkBooked(ctx context.Context, id uuid.UUID) error
	ExistsAvailable(ctx context.Context, id uuid.UUID) (bool, error)
}

type GormSlotRepository struct {
	db *gorm.DB
}

func NewGormSlotRepository(db *gorm.DB) *GormSlotRepository {
	return &GormSlotRepository{db: db}
}

func (r *GormSlotRepository) WithTx(tx *gorm.DB) SlotRepository {
	return &GormSlotRepository{db: tx}
}

func (r *GormSlotRepository) Create(ctx context.Context, slot *model.AvailableSlot) error {
	return r.db.WithContext(ctx).Create(slot).Error
}

func (r *GormSlotRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.AvailableSlot, error) {
	var slot model.AvailableSlot
	if err := r.db.WithContext(ctx).First(&slot, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &slot, nil
}

func (r *GormSlotRepository) ListAvailableForDoctor(
	ctx context.Context,
	doctorID uuid.UUID,
	date *datatypes.Date,
) ([]model.AvailableSlot, error) {
	q := r.db.WithContext(ctx).
		Preload("Doctor.Specialty").
		Where("doctor_id = ?", doctorID).
		Where("is_booked = ?", false)

	if date != nil {
		q = q.Where("date = ?", *date)
	}

	var slots []model.AvailableSlot
	if err := q.Order("created_at ASC").Find(&slots).Error; err != nil {
		return nil, err
	}
	return slots, nil
}

func (r *GormSlotRepository) ListAvailable(
	ctx context.Context,
	specialtyID *uuid.UUID,
) ([]model.AvailableSlot, error) {
	q := r.db.WithContext(ctx).
		Preload("Doctor.Specialty").
		Where("available_slots.is_booked = ?", false)

	if specialtyID != nil {
		q = q.Joins("JOIN doctors ON doctors.id = available_slots.doctor_id").
			Where("doctors.specialty_id = ?", *specialtyID)
	}

	var slots []model.AvailableSlot
	if err := q.Order("available_slots.created_at ASC").Find(&slots).Error; err != nil {
		return nil, err
	}
	return slots, nil
}

func (r *GormSlotRepository) MarkBooked(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&model.AvailableSlot{}).
		Where("id = ?", id).
		Update("is_booked", true).
		Error
}

func (r *GormSlotRepository) ExistsAvailable(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.AvailableSlot{}).
		Where("id = ?", id).
		Where("is_booked = ?", false).
		Count(&count).Error
	return count > 0, err
}
