package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"clinic-booking/internal/model"
	"clinic-booking/internal/service"
)

type patientRegistrationRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Phone    string `json:"phone"`
	DOB      string `json:"dob" binding:"required,datetime=2006-01-02"`
	Gender   string `json:"gender" binding:"required,oneof=male female other"`
}

type doctorRegistrationRequest struct {
	Name        string `json:"name" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	Phone       string `json:"phone"`
	SpecialtyID string `json:"specialty_id" binding:"required,uuid"`
}

func (s *Server) listSpecialties(c *gin.Context) {
	specialties, err := s.reg.ListSpecialties(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, specialties, "")
}

func (s *Server) registerPatient(c *gin.Context) {
	var req patientRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusUnprocessableEntity, "validation failed: "+err.Error())
		return
	}

	session, err := s.reg.RegisterPatient(c.Request.Context(), service.PatientRegistration{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
		DOB:      req.DOB,
		Gender:   model.Gender(req.Gender),
	})
	if err != nil {
		s.respondError(c, err)
		return
	}

	respondData(c, http.StatusCreated, sessionPayload(session), "Patient registered successfully")
}

func (s *Server) registerDoctor(c *gin.Context) {
	var req doctorRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusUnprocessableEntity, "validation failed: "+err.Error())
		return
	}
	specialtyID, _ := uuid.Parse(req.SpecialtyID)

	session, err := s.reg.RegisterDoctor(c.Request.Context(), service.DoctorRegistration{
		Name:        req.Name,
		Email:       req.Email,
		Password:    req.Password,
		Phone:       req.Phone,
		SpecialtyID: specialtyID,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}

	respondData(c, http.StatusCreated, sessionPayload(session), "Doctor registered successfully")
}
