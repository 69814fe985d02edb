package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"clinic-booking/internal/model"
)

type SpecialtyRepository interface {
	WithTx(tx *gorm.DB) SpecialtyRepository
	Create(ctx context.Context, s *model.Specialty) error
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	List(ctx context.Context) ([]model.Specialty, error)
}

type GormSpecialtyRepository struct {
	db *gorm.DB
}

func NewGormSpecialtyRepository(db *gorm.DB) *GormSpecialtyRepository {
	return &GormSpecialtyRepository{db: db}
}

func (r *GormSpecialtyRepository) WithTx(tx *gorm.DB) SpecialtyRepository {
	return &GormSpecialtyRepository{db: tx}
}

func (r *GormSpecialtyRepository) Create(ctx context.Context, s *model.Specialty) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *GormSpecialtyRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Specialty{}).
		Where("id = ?", id).
		Count(&count).Error
	return count > 0, err
}

func (r *GormSpecialtyRepository) List(ctx context.Context) ([]model.Specialty, error) {
	var out []model.Specialty
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
