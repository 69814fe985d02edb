package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"clinic-booking/internal/model"
	"clinic-booking/internal/service"
)

type createAppointmentRequest struct {
	AvailableSlotID string  `json:"available_slot_id" binding:"required,uuid"`
	Status          *string `json:"status"`
	Notes           *string `json:"notes"`
}

func (s *Server) listAllAppointments(c *gin.Context) {
	var start, end *string
	if raw := c.Query("start_date"); raw != "" {
		start = &raw
	}
	if raw := c.Query("end_date"); raw != "" {
		end = &raw
	}

	bookings, err := s.bookings.ListAll(c.Request.Context(), start, end)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, paged(c, bookings), "")
}

func (s *Server) listPatientAppointments(c *gin.Context) {
	patientID, ok := parseIDParam(c)
	if !ok {
		return
	}
	exists, err := s.bookings.PatientExists(c.Request.Context(), patientID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	if !exists {
		respondMessage(c, http.StatusNotFound, "Patient not found")
		return
	}

	var status *string
	if raw := c.Query("status"); raw != "" {
		status = &raw
	}

	bookings, err := s.bookings.ListForPatient(c.Request.Context(), patientID, status)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, paged(c, bookings), "")
}

func (s *Server) listDoctorAppointments(c *gin.Context) {
	doctorID, ok := parseIDParam(c)
	if !ok {
		return
	}
	exists, err := s.bookings.DoctorExists(c.Request.Context(), doctorID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	if !exists {
		respondMessage(c, http.StatusNotFound, "Doctor not found")
		return
	}

	bookings, err := s.bookings.ListForDoctor(c.Request.Context(), doctorID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, paged(c, bookings), "")
}

// createAppointment books a slot for the authenticated patient. The
// availability probe here is a courtesy 422; the booking transaction is what
// actually decides the race.
func (s *Server) createAppointment(c *gin.Context) {
	user := currentUser(c)
	profile, err := s.auth.ProfileFor(c.Request.Context(), user)
	if err != nil {
		s.respondError(c, err)
		return
	}
	patient, ok := profile.Variant.(service.PatientProfile)
	if !ok {
		respondMessage(c, http.StatusForbidden, "authenticated user is not a patient")
		return
	}

	var req createAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusUnprocessableEntity, "validation failed: "+err.Error())
		return
	}
	slotID, _ := uuid.Parse(req.AvailableSlotID)

	available, err := s.slots.ExistsAndAvailable(c.Request.Context(), slotID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	if !available {
		respondMessage(c, http.StatusUnprocessableEntity, "selected slot is not available")
		return
	}

	var opts service.BookOptions
	if req.Status != nil {
		st := model.BookingStatus(*req.Status)
		opts.Status = &st
	}
	opts.Notes = req.Notes

	booking, err := s.bookings.Book(c.Request.Context(), patient.ID, slotID, opts)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondData(c, http.StatusCreated, booking, "Appointment booked successfully")
}
