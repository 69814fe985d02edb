package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"clinic-booking/internal/apperr"
	"clinic-booking/internal/auth"
	"clinic-booking/internal/model"
	"clinic-booking/internal/repository"
)

type PatientRegistration struct {
	Name     string
	Email    string
	Password string
	Phone    string
	DOB      string // "2006-01-02"
	Gender   model.Gender
}

type DoctorRegistration struct {
	Name        string
	Email       string
	Password    string
	Phone       string
	SpecialtyID uuid.UUID
}

// RegistrationService creates the user and its role record in one transaction;
// no failure path leaves an orphan user behind.
type RegistrationService struct {
	db *gorm.DB

	users       repository.UserRepository
	doctors     repository.DoctorRepository
	patients    repository.PatientRepository
	specialties repository.SpecialtyRepository
	events      repository.EventRepository

	hasher  auth.PasswordHasher
	authSvc *AuthService
}

func NewRegistrationService(
	db *gorm.DB,
	users repository.UserRepository,
	doctors repository.DoctorRepository,
	patients repository.PatientRepository,
	specialties repository.SpecialtyRepository,
	events repository.EventRepository,
	hasher auth.PasswordHasher,
	authSvc *AuthService,
) *RegistrationService {
	return &RegistrationService{
		db:          db,
		users:       users,
		doctors:     doctors,
		patients:    patients,
		specialties: specialties,
		events:      events,
		hasher:      hasher,
		authSvc:     authSvc,
	}
}

// ListSpecialties feeds the doctor registration form.
func (s *RegistrationService) ListSpecialties(ctx context.Context) ([]SpecialtyView, error) {
	specialties, err := s.specialties.List(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	out := make([]SpecialtyView, 0, len(specialties))
	for _, sp := range specialties {
		out = append(out, SpecialtyView{ID: sp.ID, Name: sp.Name})
	}
	return out, nil
}

func (s *RegistrationService) RegisterPatient(ctx context.Context, in PatientRegistration) (*Session, error) {
	dob, err := parseDate(in.DOB)
	if err != nil {
		return nil, apperr.ValidationFailed("dob must be a valid date")
	}

	user, err := s.newUser(in.Name, in.Email, in.Password, in.Phone, model.RolePatient)
	if err != nil {
		return nil, err
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

	if err := s.createUserTx(ctx, tx, user); err != nil {
		tx.Rollback()
		return nil, err
	}

	patient := &model.Patient{UserID: user.ID, DOB: dob, Gender: in.Gender}
	if err := s.patients.WithTx(tx).Create(ctx, patient); err != nil {
		tx.Rollback()
		return nil, apperr.Internal(err)
	}

	if err := s.recordRegisteredTx(ctx, tx, user); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperr.Internal(err)
	}

	return s.authSvc.sessionFor(ctx, user)
}

func (s *RegistrationService) RegisterDoctor(ctx context.Context, in DoctorRegistration) (*Session, error) {
	user, err := s.newUser(in.Name, in.Email, in.Password, in.Phone, model.RoleDoctor)
	if err != nil {
		return nil, err
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

	// Specialty existence is checked inside the transaction so a failure here
	// rolls the user creation back as well.
	if err := s.createUserTx(ctx, tx, user); err != nil {
		tx.Rollback()
		return nil, err
	}

	exists, err := s.specialties.WithTx(tx).Exists(ctx, in.SpecialtyID)
	if err != nil {
		tx.Rollback()
		return nil, apperr.Internal(err)
	}
	if !exists {
		tx.Rollback()
		return nil, apperr.NotFound("specialty not found")
	}

	doctor := &model.Doctor{Name: in.Name, UserID: user.ID, SpecialtyID: in.SpecialtyID}
	if err := s.doctors.WithTx(tx).Create(ctx, doctor); err != nil {
		tx.Rollback()
		return nil, apperr.Internal(err)
	}

	if err := s.recordRegisteredTx(ctx, tx, user); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperr.Internal(err)
	}

	return s.authSvc.sessionFor(ctx, user)
}

func (s *RegistrationService) newUser(name, email, password, phone string, role model.Role) (*model.User, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Phone:        phone,
		Role:         role,
		IsActive:     true,
	}, nil
}

func (s *RegistrationService) createUserTx(ctx context.Context, tx *gorm.DB, user *model.User) error {
	if err := s.users.WithTx(tx).Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperr.Conflict("email is already registered")
		}
		return apperr.Internal(err)
	}
	return nil
}

func (s *RegistrationService) recordRegisteredTx(ctx context.Context, tx *gorm.DB, user *model.User) error {
	err := s.events.WithTx(tx).Record(ctx, &model.Event{
		EventType: model.EventTypeUserRegistered,
		UserID:    &user.ID,
		Details:   fmt.Sprintf("role=%s", user.Role),
	})
	if err != nil {
		return apperr.Internal(err)
	}
	return nil
}
