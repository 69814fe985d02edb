package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"clinic-booking/internal/apperr"
	"clinic-booking/internal/auth"
	"clinic-booking/internal/model"
	"clinic-booking/internal/repository"
)

// Profile is the role-shaped user view. Variant is one of DoctorProfile,
// PatientProfile or AdminProfile; it is nil when a doctor/patient role has no
// matching record.
type Profile struct {
	ID      uuid.UUID
	Name    string
	Email   string
	Phone   string
	Role    model.Role
	Variant ProfileVariant
}

type ProfileVariant interface {
	profileVariant()
}

type DoctorProfile struct {
	ID        uuid.UUID
	Specialty SpecialtyView
}

type PatientProfile struct {
	ID     uuid.UUID
	DOB    string
	Gender model.Gender
}

type AdminProfile struct{}

func (DoctorProfile) profileVariant()  {}
func (PatientProfile) profileVariant() {}
func (AdminProfile) profileVariant()   {}

// Session is the result of a successful authentication or registration.
type Session struct {
	Profile *Profile
	Token   string
}

type AuthService struct {
	users    repository.UserRepository
	doctors  repository.DoctorRepository
	patients repository.PatientRepository
	events   repository.EventRepository

	hasher auth.PasswordHasher
	tokens auth.TokenIssuer
}

func NewAuthService(
	users repository.UserRepository,
	doctors repository.DoctorRepository,
	patients repository.PatientRepository,
	events repository.EventRepository,
	hasher auth.PasswordHasher,
	tokens auth.TokenIssuer,
) *AuthService {
	return &AuthService{
		users:    users,
		doctors:  doctors,
		patients: patients,
		events:   events,
		hasher:   hasher,
		tokens:   tokens,
	}
}

// Authenticate checks credentials in a fixed order: existence, active flag,
// then password. A deactivated account is reported before the password is ever
// verified; unknown email and wrong password are indistinguishable.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.InvalidCredentials("invalid credentials")
		}
		return nil, apperr.Internal(err)
	}

	if !user.IsActive {
		return nil, apperr.AccountDeactivated("account is deactivated")
	}

	if !s.hasher.Check(password, user.PasswordHash) {
		return nil, apperr.InvalidCredentials("invalid credentials")
	}

	session, err := s.sessionFor(ctx, user)
	if err != nil {
		return nil, err
	}

	err = s.events.Record(ctx, &model.Event{
		EventType: model.EventTypeUserLogin,
		UserID:    &user.ID,
	})
	if err != nil {
		return nil, apperr.Internal(err)
	}

	return session, nil
}

// ProfileFor assembles the role-shaped profile for an already-resolved user.
func (s *AuthService) ProfileFor(ctx context.Context, user *model.User) (*Profile, error) {
	p := &Profile{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Phone: user.Phone,
		Role:  user.Role,
	}

	switch user.Role {
	case model.RoleDoctor:
		d, err := s.doctors.GetByUserID(ctx, user.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return p, nil
			}
			return nil, apperr.Internal(err)
		}
		v := DoctorProfile{ID: d.ID}
		if d.Specialty != nil {
			v.Specialty = SpecialtyView{ID: d.Specialty.ID, Name: d.Specialty.Name}
		}
		p.Variant = v
	case model.RolePatient:
		pat, err := s.patients.GetByUserID(ctx, user.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return p, nil
			}
			return nil, apperr.Internal(err)
		}
		p.Variant = PatientProfile{
			ID:     pat.ID,
			DOB:    formatDate(pat.DOB),
			Gender: pat.Gender,
		}
	case model.RoleAdmin:
		p.Variant = AdminProfile{}
	}

	return p, nil
}

// ResolveUser maps a bearer token back to its user; used by the perimeter's
// auth middleware.
func (s *AuthService) ResolveUser(ctx context.Context, token string) (*model.User, error) {
	userID, err := s.tokens.Verify(token)
	if err != nil {
		return nil, apperr.InvalidCredentials("invalid token")
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.InvalidCredentials("invalid token")
		}
		return nil, apperr.Internal(err)
	}
	if !user.IsActive {
		return nil, apperr.AccountDeactivated("account is deactivated")
	}
	return user, nil
}

// Logout only records the event; tokens are opaque to the core and discarded
// client-side.
func (s *AuthService) Logout(ctx context.Context, user *model.User) error {
	err := s.events.Record(ctx, &model.Event{
		EventType: model.EventTypeUserLogout,
		UserID:    &user.ID,
	})
	if err != nil {
		return apperr.Internal(err)
	}
	return nil
}

func (s *AuthService) sessionFor(ctx context.Context, user *model.User) (*Session, error) {
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	profile, err := s.ProfileFor(ctx, user)
	if err != nil {
		return nil, err
	}
	return &Session{Profile: profile, Token: token}, nil
}
