package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"clinic-booking/internal/service"
)

type createReportRequest struct {
	PatientID     string  `json:"patient_id" binding:"required,uuid"`
	AppointmentID *string `json:"appointment_id" binding:"omitempty,uuid"`
	Title         string  `json:"title" binding:"required"`
	Content       string  `json:"content" binding:"required"`
	FilePath      string  `json:"file_path"`
}

// createReport is doctor-only: the authoring doctor is the authenticated user,
// never taken from the payload.
func (s *Server) createReport(c *gin.Context) {
	profile, err := s.auth.ProfileFor(c.Request.Context(), currentUser(c))
	if err != nil {
		s.respondError(c, err)
		return
	}
	doctor, ok := profile.Variant.(service.DoctorProfile)
	if !ok {
		respondMessage(c, http.StatusForbidden, "authenticated user is not a doctor")
		return
	}

	var req createReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusUnprocessableEntity, "validation failed: "+err.Error())
		return
	}

	patientID, _ := uuid.Parse(req.PatientID)
	in := service.ReportInput{
		DoctorID:  doctor.ID,
		PatientID: patientID,
		Title:     req.Title,
		Content:   req.Content,
		FilePath:  req.FilePath,
	}
	if req.AppointmentID != nil {
		id, _ := uuid.Parse(*req.AppointmentID)
		in.AppointmentID = &id
	}

	report, err := s.reports.Create(c.Request.Context(), in)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondData(c, http.StatusCreated, report, "Report created successfully")
}

func (s *Server) listPatientReports(c *gin.Context) {
	patientID, ok := parseIDParam(c)
	if !ok {
		return
	}
	reports, err := s.reports.ListForPatient(c.Request.Context(), patientID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, paged(c, reports), "")
}

func (s *Server) listDoctorReports(c *gin.Context) {
	doctorID, ok := parseIDParam(c)
	if !ok {
		return
	}
	reports, err := s.reports.ListForDoctor(c.Request.Context(), doctorID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, paged(c, reports), "")
}
