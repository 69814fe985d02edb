package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"clinic-booking/internal/apperr"
	"clinic-booking/internal/model"
	"clinic-booking/internal/repository"
)

type BookOptions struct {
	Status *model.BookingStatus
	Notes  *string
}

// BookingService is the booking transaction manager. The one invariant it
// guards: a slot is referenced by at most one booking, ever. The in-process
// availability check is a fast path; the unique index on the slot reference is
// the actual mutual-exclusion mechanism.
type BookingService struct {
	db *gorm.DB

	bookings repository.BookingRepository
	slots    repository.SlotRepository
	patients repository.PatientRepository
	doctors  repository.DoctorRepository
	events   repository.EventRepository
}

func NewBookingService(
	db *gorm.DB,
	bookings repository.BookingRepository,
	slots repository.SlotRepository,
	patients repository.PatientRepository,
	doctors repository.DoctorRepository,
	events repository.EventRepository,
) *BookingService {
	return &BookingService{
		db:       db,
		bookings: bookings,
		slots:    slots,
		patients: patients,
		doctors:  doctors,
		events:   events,
	}
}

func (s *BookingService) PatientExists(ctx context.Context, patientID uuid.UUID) (bool, error) {
	ok, err := s.patients.Exists(ctx, patientID)
	if err != nil {
		return false, apperr.Internal(err)
	}
	return ok, nil
}

func (s *BookingService) DoctorExists(ctx context.Context, doctorID uuid.UUID) (bool, error) {
	ok, err := s.doctors.Exists(ctx, doctorID)
	if err != nil {
		return false, apperr.Internal(err)
	}
	return ok, nil
}

// Book atomically flips the slot to booked and inserts the booking row. Both
// writes commit together or not at all; a concurrent booking of the same slot
// loses on the unique index and surfaces as Conflict with no partial state.
func (s *BookingService) Book(ctx context.Context, patientID, slotID uuid.UUID, opts BookOptions) (*BookingView, error) {
	status := model.BookingStatusPending
	if opts.Status != nil {
		if !model.ValidBookingStatus(*opts.Status) {
			return nil, apperr.ValidationFailed("unknown booking status")
		}
		status = *opts.Status
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, apperr.Internal(tx.Error)
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	// Re-fetch inside the transaction: the slot may have vanished or been
	// taken between the perimeter's precondition check and this point.
	slotRepo := s.slots.WithTx(tx)
	slot, err := slotRepo.GetByID(ctx, slotID)
	if err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("slot not found")
		}
		return nil, apperr.Internal(err)
	}
	if slot.IsBooked {
		tx.Rollback()
		return nil, apperr.Conflict("slot is already booked")
	}

	if err := slotRepo.MarkBooked(ctx, slot.ID); err != nil {
		tx.Rollback()
		return nil, apperr.Internal(err)
	}

	booking := &model.AppointmentBooking{
		SlotID:    slot.ID,
		PatientID: patientID,
		Status:    status,
		Notes:     opts.Notes,
	}
	if err := s.bookings.WithTx(tx).Create(ctx, booking); err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("slot is already booked")
		}
		return nil, apperr.Internal(err)
	}

	err = s.events.WithTx(tx).Record(ctx, &model.Event{
		EventType: model.EventTypeBookingCreated,
		BookingID: &booking.ID,
	})
	if err != nil {
		tx.Rollback()
		return nil, apperr.Internal(err)
	}

	if err := tx.Commit().Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("slot is already booked")
		}
		return nil, apperr.Internal(err)
	}

	details, err := s.bookings.GetDetails(ctx, booking.ID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return bookingView(details), nil
}

// ListForPatient returns the patient's bookings with the full read model,
// optionally filtered by status.
func (s *BookingService) ListForPatient(ctx context.Context, patientID uuid.UUID, status *string) ([]BookingView, error) {
	var statusFilter *model.BookingStatus
	if status != nil && *status != "" {
		st := model.BookingStatus(*status)
		if !model.ValidBookingStatus(st) {
			return nil, apperr.ValidationFailed("unknown booking status")
		}
		statusFilter = &st
	}

	bookings, err := s.bookings.ListByPatient(ctx, patientID, statusFilter)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return bookingViews(bookings), nil
}

func (s *BookingService) ListForDoctor(ctx context.Context, doctorID uuid.UUID) ([]BookingView, error) {
	bookings, err := s.bookings.ListByDoctor(ctx, doctorID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return bookingViews(bookings), nil
}

// ListAll returns every booking; when both bounds are given the result is
// limited to slots dated inside [startDate, endDate].
func (s *BookingService) ListAll(ctx context.Context, startDate, endDate *string) ([]BookingView, error) {
	var from, to *datatypes.Date
	if startDate != nil && *startDate != "" && endDate != nil && *endDate != "" {
		f, err := parseDate(*startDate)
		if err != nil {
			return nil, apperr.ValidationFailed("start_date must be a valid date")
		}
		t, err := parseDate(*endDate)
		if err != nil {
			return nil, apperr.ValidationFailed("end_date must be a valid date")
		}
		from, to = &f, &t
	}

	bookings, err := s.bookings.ListAll(ctx, from, to)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return bookingViews(bookings), nil
}

func bookingViews(bookings []model.AppointmentBooking) []BookingView {
	out := make([]BookingView, 0, len(bookings))
	for i := range bookings {
		out = append(out, *bookingView(&bookings[i]))
	}
	return out
}
