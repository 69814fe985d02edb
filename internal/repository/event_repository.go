package repository

import (
	"context"

	"gorm.io/gorm"

	"clinic-booking/internal/model"
)

type EventRepository interface {
	WithTx(tx *gorm.DB) EventRepository
	Record(ctx context.Context, event *model.Event) error
}

type GormEventRepository struct {
	db *gorm.DB
}

func NewGormEventRepository(db *gorm.DB) *GormEventRepository {
	return &GormEventRepository{db: db}
}

func (r *GormEventRepository) WithTx(tx *gorm.DB) EventRepository {
	return &GormEventRepository{db: tx}
}

func (r *GormEventRepository) Record(ctx context.Context, event *model.Event) error {
	return r.db.WithContext(ctx).Create(event).Error
}
