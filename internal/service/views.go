package service

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"clinic-booking/internal/model"
)

const dateLayout = "2006-01-02"

func formatDate(d datatypes.Date) string {
	return time.Time(d).Format(dateLayout)
}

func parseDate(s string) (datatypes.Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return datatypes.Date{}, err
	}
	return datatypes.Date(t), nil
}

type SpecialtyView struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type DoctorView struct {
	ID        uuid.UUID      `json:"id"`
	Name      string         `json:"name"`
	Specialty *SpecialtyView `json:"specialty,omitempty"`
}

type SlotView struct {
	ID        uuid.UUID   `json:"id"`
	DoctorID  uuid.UUID   `json:"doctor_id"`
	Date      string      `json:"date"`
	StartTime string      `json:"start_time"`
	EndTime   string      `json:"end_time"`
	IsBooked  bool        `json:"is_booked"`
	Doctor    *DoctorView `json:"doctor,omitempty"`
}

type UserView struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

type PatientView struct {
	ID   uuid.UUID `json:"id"`
	User *UserView `json:"user,omitempty"`
}

type BookingView struct {
	ID        uuid.UUID           `json:"id"`
	SlotID    uuid.UUID           `json:"available_slot_id"`
	PatientID uuid.UUID           `json:"patient_id"`
	Status    model.BookingStatus `json:"status"`
	Notes     *string             `json:"notes"`
	Slot      *SlotView           `json:"available_slot,omitempty"`
	Patient   *PatientView        `json:"patient,omitempty"`
}

type ReportView struct {
	ID            uuid.UUID  `json:"id"`
	DoctorID      uuid.UUID  `json:"doctor_id"`
	PatientID     uuid.UUID  `json:"patient_id"`
	AppointmentID *uuid.UUID `json:"appointment_id"`
	Title         string     `json:"title"`
	Content       string     `json:"content,omitempty"`
	FilePath      string     `json:"file_path,omitempty"`
}

func doctorView(d *model.Doctor) *DoctorView {
	if d == nil {
		return nil
	}
	v := &DoctorView{ID: d.ID, Name: d.Name}
	if d.Specialty != nil {
		v.Specialty = &SpecialtyView{ID: d.Specialty.ID, Name: d.Specialty.Name}
	}
	return v
}

func slotView(s *model.AvailableSlot) *SlotView {
	if s == nil {
		return nil
	}
	return &SlotView{
		ID:        s.ID,
		DoctorID:  s.DoctorID,
		Date:      formatDate(s.Date),
		StartTime: s.StartTime,
		EndTime:   s.EndTime,
		IsBooked:  s.IsBooked,
		Doctor:    doctorView(s.Doctor),
	}
}

func patientView(p *model.Patient) *PatientView {
	if p == nil {
		return nil
	}
	v := &PatientView{ID: p.ID}
	if p.User != nil {
		v.User = &UserView{ID: p.User.ID, Name: p.User.Name, Email: p.User.Email}
	}
	return v
}

func bookingView(b *model.AppointmentBooking) *BookingView {
	if b == nil {
		return nil
	}
	return &BookingView{
		ID:        b.ID,
		SlotID:    b.SlotID,
		PatientID: b.PatientID,
		Status:    b.Status,
		Notes:     b.Notes,
		Slot:      slotView(b.Slot),
		Patient:   patientView(b.Patient),
	}
}

func reportView(r *model.Report) *ReportView {
	if r == nil {
		return nil
	}
	return &ReportView{
		ID:            r.ID,
		DoctorID:      r.DoctorID,
		PatientID:     r.PatientID,
		AppointmentID: r.AppointmentID,
		Title:         r.Title,
		Content:       r.Content,
		FilePath:      r.FilePath,
	}
}
