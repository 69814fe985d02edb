package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"clinic-booking/internal/apperr"
	"clinic-booking/internal/model"
	"clinic-booking/internal/repository"
	"clinic-booking/internal/schedule"
)

type SlotInput struct {
	Date      string // "2006-01-02"
	StartTime string // "HH:MM"
	EndTime   string // "HH:MM"
}

// SlotService owns the lifecycle of bookable slots: batch creation, window
// generation and availability queries. It never returns booked slots from any
// listing.
type SlotService struct {
	db *gorm.DB

	slots   repository.SlotRepository
	doctors repository.DoctorRepository
	events  repository.EventRepository
}

func NewSlotService(
	db *gorm.DB,
	slots repository.SlotRepository,
	doctors repository.DoctorRepository,
	events repository.EventRepository,
) *SlotService {
	return &SlotService{db: db, slots: slots, doctors: doctors, events: events}
}

func (s *SlotService) DoctorExists(ctx context.Context, doctorID uuid.UUID) (bool, error) {
	ok, err := s.doctors.Exists(ctx, doctorID)
	if err != nil {
		return false, apperr.Internal(err)
	}
	return ok, nil
}

func (s *SlotService) ExistsAndAvailable(ctx context.Context, slotID uuid.UUID) (bool, error) {
	ok, err := s.slots.ExistsAvailable(ctx, slotID)
	if err != nil {
		return false, apperr.Internal(err)
	}
	return ok, nil
}

// ListForDoctor returns the doctor's unbooked slots, optionally filtered to an
// exact date.
func (s *SlotService) ListForDoctor(ctx context.Context, doctorID uuid.UUID, date *string) ([]SlotView, error) {
	var dateFilter *datatypes.Date
	if date != nil && *date != "" {
		d, err := parseDate(*date)
		if err != nil {
			return nil, apperr.ValidationFailed("date must be a valid date")
		}
		dateFilter = &d
	}

	slots, err := s.slots.ListAvailableForDoctor(ctx, doctorID, dateFilter)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return slotViews(slots), nil
}

// ListAll returns every unbooked slot, optionally restricted to doctors of one
// specialty.
func (s *SlotService) ListAll(ctx context.Context, specialtyID *uuid.UUID) ([]SlotView, error) {
	slots, err := s.slots.ListAvailable(ctx, specialtyID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return slotViews(slots), nil
}

// CreateBatch creates one slot per input inside a single transaction: either
// every tuple is created or none is. Overlapping windows are not rejected.
func (s *SlotService) CreateBatch(ctx context.Context, doctorID uuid.UUID, inputs []SlotInput) ([]SlotView, error) {
	if len(inputs) == 0 {
		return nil, apperr.ValidationFailed("at least one slot must be provided")
	}

	created := make([]*model.AvailableSlot, 0, len(inputs))
	for i, in := range inputs {
		date, err := parseDate(in.Date)
		if err != nil {
			return nil, apperr.ValidationFailed(fmt.Sprintf("slot %d: date must be a valid date", i+1))
		}
		if err := schedule.ValidateRange(in.StartTime, in.EndTime); err != nil {
			return nil, apperr.ValidationFailed(fmt.Sprintf("slot %d: %v", i+1, err))
		}
		created = append(created, &model.AvailableSlot{
			DoctorID:  doctorID,
			Date:      date,
			StartTime: in.StartTime,
			EndTime:   in.EndTime,
			IsBooked:  false,
		})
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

	slotRepo := s.slots.WithTx(tx)
	for _, slot := range created {
		if err := slotRepo.Create(ctx, slot); err != nil {
			tx.Rollback()
			return nil, apperr.Internal(err)
		}
	}

	err := s.events.WithTx(tx).Record(ctx, &model.Event{
		EventType: model.EventTypeSlotsCreated,
		Details:   fmt.Sprintf("doctor=%s count=%d", doctorID, len(created)),
	})
	if err != nil {
		tx.Rollback()
		return nil, apperr.Internal(err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperr.Internal(err)
	}

	views := make([]SlotView, 0, len(created))
	for _, slot := range created {
		views = append(views, *slotView(slot))
	}
	return views, nil
}

// Generate expands a daily window into consecutive fixed-duration slots and
// creates them as one batch. The trailing remainder shorter than the duration
// is dropped.
func (s *SlotService) Generate(
	ctx context.Context,
	doctorID uuid.UUID,
	date, startTime, endTime string,
	durationMins int,
) ([]SlotView, error) {
	ranges, err := schedule.Split(startTime, endTime, durationMins)
	if err != nil {
		return nil, apperr.ValidationFailed(err.Error())
	}
	if len(ranges) == 0 {
		return nil, apperr.ValidationFailed("window is shorter than the slot duration")
	}

	inputs := make([]SlotInput, 0, len(ranges))
	for _, r := range ranges {
		inputs = append(inputs, SlotInput{Date: date, StartTime: r.Start, EndTime: r.End})
	}
	return s.CreateBatch(ctx, doctorID, inputs)
}

func slotViews(slots []model.AvailableSlot) []SlotView {
	out := make([]SlotView, 0, len(slots))
	for i := range slots {
		out = append(out, *slotView(&slots[i]))
	}
	return out
}
