package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"clinic-booking/internal/model"
)

type ReportRepository interface {
	WithTx(tx *gorm.DB) ReportRepository
	Create(ctx context.Context, report *model.Report) error
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]model.Report, error)
	ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]model.Report, error)
}

type GormReportRepository struct {
	db *gorm.DB
}

func NewGormReportRepository(db *gorm.DB) *GormReportRepository {
	return &GormReportRepository{db: db}
}

func (r *GormReportRepository) WithTx(tx *gorm.DB) ReportRepository {
	return &GormReportRepository{db: tx}
}

func (r *GormReportRepository) Create(ctx context.Context, report *model.Report) error {
	return r.db.WithContext(ctx).Create(report).Error
}

func (r *GormReportRepository) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]model.Report, error) {
	var out []model.Report
	err := r.db.WithContext(ctx).
		Where("patient_id = ?", patientID).
		Order("created_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *GormReportRepository) ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]model.Report, error) {
	var out []model.Report
	err := r.db.WithContext(ctx).
		Where("doctor_id = ?", doctorID).
		Order("created_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
