package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"clinic-booking/internal/model"
)

type BookingRepository interface {
	WithTx(tx *gorm.DB) BookingRepository
	Create(ctx context.Context, booking *model.AppointmentBooking) error
	// GetDetails loads the booking with its slot/doctor/specialty/patient/user
	// read model.
	GetDetails(ctx context.Context, id uuid.UUID) (*model.AppointmentBooking, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID, status *model.BookingStatus) ([]model.AppointmentBooking, error)
	ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]model.AppointmentBooking, error)
	ListAll(ctx context.Context, startDate, endDate *datatypes.Date) ([]model.AppointmentBooking, error)
}

type GormBookingRepository struct {
	db *gorm.DB
}

func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

func (r *GormBookingRepository) WithTx(tx *gorm.DB) BookingRepository {
	return &GormBookingRepository{db: tx}
}

func (r *GormBookingRepository) Create(ctx context.Context, booking *model.AppointmentBooking) error {
	return r.db.WithContext(ctx).Create(booking).Error
}

func (r *GormBookingRepository) GetDetails(ctx context.Context, id uuid.UUID) (*model.AppointmentBooking, error) {
	var b model.AppointmentBooking
	err := r.db.WithContext(ctx).
		Preload("Slot.Doctor.Specialty").
		Preload("Patient.User").
		First(&b, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *GormBookingRepository) ListByPatient(
	ctx context.Context,
	patientID uuid.UUID,
	status *model.BookingStatus,
) ([]model.AppointmentBooking, error) {
	q := r.db.WithContext(ctx).
		Preload("Slot.Doctor.Specialty").
		Preload("Patient.User").
		Where("patient_id = ?", patientID)

	if status != nil {
		q = q.Where("status = ?", *status)
	}

	var out []model.AppointmentBooking
	if err := q.Order("created_at ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *GormBookingRepository) ListByDoctor(
	ctx context.Context,
	doctorID uuid.UUID,
) ([]model.AppointmentBooking, error) {
	var out []model.AppointmentBooking
	err := r.db.WithContext(ctx).
		Preload("Slot").
		Preload("Patient.User").
		Joins("JOIN available_slots ON available_slots.id = appointment_bookings.slot_id").
		Where("available_slots.doctor_id = ?", doctorID).
		Order("appointment_bookings.created_at ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *GormBookingRepository) ListAll(
	ctx context.Context,
	startDate, endDate *datatypes.Date,
) ([]model.AppointmentBooking, error) {
	q := r.db.WithContext(ctx).
		Preload("Slot.Doctor.Specialty").
		Preload("Patient.User")

	if startDate != nil && endDate != nil {
		q = q.Joins("JOIN available_slots ON available_slots.id = appointment_bookings.slot_id").
			Where("available_slots.date BETWEEN ? AND ?", *startDate, *endDate)
	}

	var out []model.AppointmentBooking
	if err := q.Order("appointment_bookings.created_at ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
