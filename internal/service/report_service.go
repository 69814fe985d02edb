package service

import (
	"context"

	"github.com/google/uuid"

	"clinic-booking/internal/apperr"
	"clinic-booking/internal/model"
	"clinic-booking/internal/repository"
)

type ReportInput struct {
	DoctorID      uuid.UUID
	PatientID     uuid.UUID
	AppointmentID *uuid.UUID
	Title         string
	Content       string
	FilePath      string
}

// ReportService stores doctor-authored documents about patients.
type ReportService struct {
	reports  repository.ReportRepository
	doctors  repository.DoctorRepository
	patients repository.PatientRepository
}

func NewReportService(
	reports repository.ReportRepository,
	doctors repository.DoctorRepository,
	patients repository.PatientRepository,
) *ReportService {
	return &ReportService{reports: reports, doctors: doctors, patients: patients}
}

func (s *ReportService) Create(ctx context.Context, in ReportInput) (*ReportView, error) {
	ok, err := s.doctors.Exists(ctx, in.DoctorID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if !ok {
		return nil, apperr.NotFound("doctor not found")
	}

	ok, err = s.patients.Exists(ctx, in.PatientID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if !ok {
		return nil, apperr.NotFound("patient not found")
	}

	report := &model.Report{
		DoctorID:      in.DoctorID,
		PatientID:     in.PatientID,
		AppointmentID: in.AppointmentID,
		Title:         in.Title,
		Content:       in.Content,
		FilePath:      in.FilePath,
	}
	if err := s.reports.Create(ctx, report); err != nil {
		return nil, apperr.Internal(err)
	}
	return reportView(report), nil
}

func (s *ReportService) ListForPatient(ctx context.Context, patientID uuid.UUID) ([]ReportView, error) {
	reports, err := s.reports.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return reportViews(reports), nil
}

func (s *ReportService) ListForDoctor(ctx context.Context, doctorID uuid.UUID) ([]ReportView, error) {
	reports, err := s.reports.ListByDoctor(ctx, doctorID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return reportViews(reports), nil
}

func reportViews(reports []model.Report) []ReportView {
	out := make([]ReportView, 0, len(reports))
	for i := range reports {
		out = append(out, *reportView(&reports[i]))
	}
	return out
}
