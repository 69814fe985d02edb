package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"clinic-booking/internal/auth"
	"clinic-booking/internal/model"
	"clinic-booking/internal/repository"
)

// newTestDB opens a per-test in-memory sqlite database with the same
// TranslateError behavior production relies on.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared",
		strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := model.AutoMigrate(db); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}
	return db
}

func testHasher() *auth.BcryptHasher {
	return &auth.BcryptHasher{Cost: bcrypt.MinCost}
}

func testTokens() *auth.JWTIssuer {
	return auth.NewJWTIssuer("test-secret", time.Hour)
}

func newTestAuthService(db *gorm.DB) *AuthService {
	return NewAuthService(
		repository.NewGormUserRepository(db),
		repository.NewGormDoctorRepository(db),
		repository.NewGormPatientRepository(db),
		repository.NewGormEventRepository(db),
		testHasher(),
		testTokens(),
	)
}

func newTestRegistrationService(db *gorm.DB) *RegistrationService {
	return NewRegistrationService(
		db,
		repository.NewGormUserRepository(db),
		repository.NewGormDoctorRepository(db),
		repository.NewGormPatientRepository(db),
		repository.NewGormSpecialtyRepository(db),
		repository.NewGormEventRepository(db),
		testHasher(),
		newTestAuthService(db),
	)
}

func newTestSlotService(db *gorm.DB) *SlotService {
	return NewSlotService(
		db,
		repository.NewGormSlotRepository(db),
		repository.NewGormDoctorRepository(db),
		repository.NewGormEventRepository(db),
	)
}

func newTestBookingService(db *gorm.DB) *BookingService {
	return NewBookingService(
		db,
		repository.NewGormBookingRepository(db),
		repository.NewGormSlotRepository(db),
		repository.NewGormPatientRepository(db),
		repository.NewGormDoctorRepository(db),
		repository.NewGormEventRepository(db),
	)
}

func newTestReportService(db *gorm.DB) *ReportService {
	return NewReportService(
		repository.NewGormReportRepository(db),
		repository.NewGormDoctorRepository(db),
		repository.NewGormPatientRepository(db),
	)
}

func seedUser(t *testing.T, db *gorm.DB, role model.Role, email, password string) *model.User {
	t.Helper()
	hash, err := testHasher().Hash(password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	u := &model.User{
		Name:         "Test " + string(role),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func seedSpecialty(t *testing.T, db *gorm.DB, name string) *model.Specialty {
	t.Helper()
	s := &model.Specialty{Name: name}
	if err := repository.NewGormSpecialtyRepository(db).Create(context.Background(), s); err != nil {
		t.Fatalf("seed specialty: %v", err)
	}
	return s
}

func seedDoctor(t *testing.T, db *gorm.DB, specialtyID uuid.UUID) *model.Doctor {
	t.Helper()
	u := seedUser(t, db, model.RoleDoctor, fmt.Sprintf("doc-%s@test.local", uuid.New()), "password123")
	d := &model.Doctor{Name: u.Name, UserID: u.ID, SpecialtyID: specialtyID}
	if err := db.Create(d).Error; err != nil {
		t.Fatalf("seed doctor: %v", err)
	}
	return d
}

func seedPatient(t *testing.T, db *gorm.DB) *model.Patient {
	t.Helper()
	u := seedUser(t, db, model.RolePatient, fmt.Sprintf("pat-%s@test.local", uuid.New()), "password123")
	dob, err := parseDate("1990-06-15")
	if err != nil {
		t.Fatalf("parse dob: %v", err)
	}
	p := &model.Patient{UserID: u.ID, DOB: dob, Gender: model.GenderFemale}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("seed patient: %v", err)
	}
	return p
}

func seedSlot(t *testing.T, db *gorm.DB, doctorID uuid.UUID, date, start, end string) *model.AvailableSlot {
	t.Helper()
	d, err := parseDate(date)
	if err != nil {
		t.Fatalf("parse slot date: %v", err)
	}
	s := &model.AvailableSlot{
		DoctorID:  doctorID,
		Date:      d,
		StartTime: start,
		EndTime:   end,
	}
	if err := db.Create(s).Error; err != nil {
		t.Fatalf("seed slot: %v", err)
	}
	return s
}
