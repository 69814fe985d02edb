package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"clinic-booking/internal/model"
)

type PatientRepository interface {
	WithTx(tx *gorm.DB) PatientRepository
	Create(ctx context.Context, p *model.Patient) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Patient, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Patient, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

type GormPatientRepository struct {
	db *gorm.DB
}

func NewGormPatientRepository(db *gorm.DB) *GormPatientRepository {
	return &GormPatientRepository{db: db}
}

func (r *GormPatientRepository) WithTx(tx *gorm.DB) PatientRepository {
	return &GormPatientRepository{db: tx}
}

func (r *GormPatientRepository) Create(ctx context.Context, p *model.Patient) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *GormPatientRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	var p model.Patient
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *GormPatientRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Patient, error) {
	var p model.Patient
	if err := r.db.WithContext(ctx).First(&p, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *GormPatientRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Patient{}).
		Where("id = ?", id).
		Count(&count).Error
	return count > 0, err
}
