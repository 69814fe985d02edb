package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"clinic-booking/internal/model"
)

type DoctorRepository interface {
	WithTx(tx *gorm.DB) DoctorRepository
	Create(ctx context.Context, d *model.Doctor) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Doctor, error)
	// GetByUserID preloads the specialty for profile assembly.
	GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Doctor, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

type GormDoctorRepository struct {
	db *gorm.DB
}

func NewGormDoctorRepository(db *gorm.DB) *GormDoctorRepository {
	return &GormDoctorRepository{db: db}
}

func (r *GormDoctorRepository) WithTx(tx *gorm.DB) DoctorRepository {
	return &GormDoctorRepository{db: tx}
}

func (r *GormDoctorRepository) Create(ctx context.Context, d *model.Doctor) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *GormDoctorRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	var d model.Doctor
	if err := r.db.WithContext(ctx).First(&d, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *GormDoctorRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Doctor, error) {
	var d model.Doctor
	if err := r.db.WithContext(ctx).Preload("Specialty").First(&d, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *GormDoctorRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Doctor{}).
		Where("id = ?", id).
		Count(&count).Error
	return count > 0, err
}
