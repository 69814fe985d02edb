package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"clinic-booking/internal/service"
)

type createSlotsRequest struct {
	Slots []slotTuple `json:"slots" binding:"required,min=1,dive"`
}

type slotTuple struct {
	Date      string `json:"date" binding:"required"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
}

type generateSlotsRequest struct {
	Date            string `json:"date" binding:"required"`
	StartTime       string `json:"start_time" binding:"required"`
	EndTime         string `json:"end_time" binding:"required"`
	DurationMinutes int    `json:"duration_minutes" binding:"required,min=1"`
}

func (s *Server) listAllSlots(c *gin.Context) {
	var specialtyID *uuid.UUID
	if raw := c.Query("specialty_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondMessage(c, http.StatusUnprocessableEntity, "specialty_id must be a valid uuid")
			return
		}
		specialtyID = &id
	}

	slots, err := s.slots.ListAll(c.Request.Context(), specialtyID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, paged(c, slots), "")
}

func (s *Server) listDoctorSlots(c *gin.Context) {
	doctorID, ok := parseIDParam(c)
	if !ok {
		return
	}
	if !s.mustFindDoctor(c, doctorID) {
		return
	}

	var date *string
	if raw := c.Query("date"); raw != "" {
		date = &raw
	}

	slots, err := s.slots.ListForDoctor(c.Request.Context(), doctorID, date)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, paged(c, slots), "")
}

func (s *Server) createSlots(c *gin.Context) {
	doctorID, ok := parseIDParam(c)
	if !ok {
		return
	}
	if !s.mustFindDoctor(c, doctorID) {
		return
	}

	var req createSlotsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusUnprocessableEntity, "validation failed: "+err.Error())
		return
	}

	inputs := make([]service.SlotInput, 0, len(req.Slots))
	for _, t := range req.Slots {
		inputs = append(inputs, service.SlotInput{
			Date:      t.Date,
			StartTime: t.StartTime,
			EndTime:   t.EndTime,
		})
	}

	slots, err := s.slots.CreateBatch(c.Request.Context(), doctorID, inputs)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondData(c, http.StatusCreated, slots, "Available slots created successfully")
}

func (s *Server) generateSlots(c *gin.Context) {
	doctorID, ok := parseIDParam(c)
	if !ok {
		return
	}
	if !s.mustFindDoctor(c, doctorID) {
		return
	}

	var req generateSlotsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusUnprocessableEntity, "validation failed: "+err.Error())
		return
	}

	slots, err := s.slots.Generate(c.Request.Context(),
		doctorID, req.Date, req.StartTime, req.EndTime, req.DurationMinutes)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondData(c, http.StatusCreated, slots, "Available slots created successfully")
}

func (s *Server) mustFindDoctor(c *gin.Context, doctorID uuid.UUID) bool {
	ok, err := s.slots.DoctorExists(c.Request.Context(), doctorID)
	if err != nil {
		s.respondError(c, err)
		return false
	}
	if !ok {
		respondMessage(c, http.StatusNotFound, "Doctor not found")
		return false
	}
	return true
}
