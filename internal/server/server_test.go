package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"clinic-booking/internal/auth"
	"clinic-booking/internal/model"
	"clinic-booking/internal/ratelimit"
	"clinic-booking/internal/repository"
	"clinic-booking/internal/service"
)

func newTestServer(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

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

	userRepo := repository.NewGormUserRepository(db)
	specialtyRepo := repository.NewGormSpecialtyRepository(db)
	doctorRepo := repository.NewGormDoctorRepository(db)
	patientRepo := repository.NewGormPatientRepository(db)
	slotRepo := repository.NewGormSlotRepository(db)
	bookingRepo := repository.NewGormBookingRepository(db)
	reportRepo := repository.NewGormReportRepository(db)
	eventRepo := repository.NewGormEventRepository(db)

	hasher := &auth.BcryptHasher{Cost: bcrypt.MinCost}
	tokens := auth.NewJWTIssuer("test-secret", time.Hour)

	authSvc := service.NewAuthService(userRepo, doctorRepo, patientRepo, eventRepo, hasher, tokens)
	regSvc := service.NewRegistrationService(db, userRepo, doctorRepo, patientRepo, specialtyRepo, eventRepo, hasher, authSvc)
	slotSvc := service.NewSlotService(db, slotRepo, doctorRepo, eventRepo)
	bookingSvc := service.NewBookingService(db, bookingRepo, slotRepo, patientRepo, doctorRepo, eventRepo)
	reportSvc := service.NewReportService(reportRepo, doctorRepo, patientRepo)

	limiter := ratelimit.NewAttemptLimiter(3, time.Minute)
	srv := New(zerolog.Nop(), authSvc, regSvc, slotSvc, bookingSvc, reportSvc, limiter)
	return srv.Router(), db
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return out
}

func registerTestPatient(t *testing.T, router *gin.Engine, email string) string {
	t.Helper()
	w := doJSON(t, router, http.MethodPost, "/register/patient", "", gin.H{
		"name":     "Anna",
		"email":    email,
		"password": "s3cretpass",
		"dob":      "1990-06-15",
		"gender":   "female",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register status = %d, body %s", w.Code, w.Body.String())
	}
	data := decodeEnvelope(t, w)["data"].(map[string]any)
	return data["token"].(string)
}

func TestServer_RegisterLoginAndMe(t *testing.T) {
	router, _ := newTestServer(t)

	registerTestPatient(t, router, "anna@test.local")

	w := doJSON(t, router, http.MethodPost, "/login", "", gin.H{
		"email":    "anna@test.local",
		"password": "s3cretpass",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login status = %d, body %s", w.Code, w.Body.String())
	}
	env := decodeEnvelope(t, w)
	data := env["data"].(map[string]any)
	token, _ := data["token"].(string)
	if token == "" {
		t.Fatal("login returned no token")
	}
	user := data["user"].(map[string]any)
	if _, ok := user["patient"]; !ok {
		t.Fatalf("login payload missing patient variant: %v", user)
	}

	w = doJSON(t, router, http.MethodGet, "/user", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("me status = %d, body %s", w.Code, w.Body.String())
	}

	w = doJSON(t, router, http.MethodGet, "/user", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated me status = %d", w.Code)
	}
}

func TestServer_LoginRateLimit(t *testing.T) {
	router, _ := newTestServer(t)
	registerTestPatient(t, router, "anna@test.local")

	body := gin.H{"email": "anna@test.local", "password": "wrongpass"}
	for i := 0; i < 3; i++ {
		if w := doJSON(t, router, http.MethodPost, "/login", "", body); w.Code != http.StatusUnauthorized {
			t.Fatalf("attempt %d status = %d, want 401", i+1, w.Code)
		}
	}

	w := doJSON(t, router, http.MethodPost, "/login", "", body)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", w.Code)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Fatal("missing Retry-After header")
	}

	// Correct credentials are also refused while the window holds.
	w = doJSON(t, router, http.MethodPost, "/login", "", gin.H{
		"email": "anna@test.local", "password": "s3cretpass",
	})
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("status with correct password = %d, want 429", w.Code)
	}
}

func TestServer_BookAppointment(t *testing.T) {
	router, db := newTestServer(t)

	spec := &model.Specialty{Name: "Cardiology"}
	if err := db.Create(spec).Error; err != nil {
		t.Fatalf("seed specialty: %v", err)
	}

	w := doJSON(t, router, http.MethodGet, "/specialties", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("specialties status = %d", w.Code)
	}
	if items, ok := decodeEnvelope(t, w)["data"].([]any); !ok || len(items) != 1 {
		t.Fatalf("specialties data = %s", w.Body.String())
	}

	w = doJSON(t, router, http.MethodPost, "/register/doctor", "", gin.H{
		"name":         "Dr. Ivanov",
		"email":        "ivanov@test.local",
		"password":     "s3cretpass",
		"specialty_id": spec.ID.String(),
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register doctor status = %d, body %s", w.Code, w.Body.String())
	}
	doctorToken := decodeEnvelope(t, w)["data"].(map[string]any)["token"].(string)

	var doctor model.Doctor
	if err := db.First(&doctor).Error; err != nil {
		t.Fatalf("load doctor: %v", err)
	}

	w = doJSON(t, router, http.MethodPost, "/doctors/"+doctor.ID.String()+"/available-slots", doctorToken, gin.H{
		"slots": []gin.H{{"date": "2026-09-01", "start_time": "09:00", "end_time": "09:30"}},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create slots status = %d, body %s", w.Code, w.Body.String())
	}

	var slot model.AvailableSlot
	if err := db.First(&slot).Error; err != nil {
		t.Fatalf("load slot: %v", err)
	}

	patientToken := registerTestPatient(t, router, "anna@test.local")
	bookBody := gin.H{"available_slot_id": slot.ID.String()}

	w = doJSON(t, router, http.MethodPost, "/patients/appointments", patientToken, bookBody)
	if w.Code != http.StatusCreated {
		t.Fatalf("book status = %d, body %s", w.Code, w.Body.String())
	}

	// Second booking attempt hits the availability precondition.
	w = doJSON(t, router, http.MethodPost, "/patients/appointments", patientToken, bookBody)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("rebook status = %d, want 422, body %s", w.Code, w.Body.String())
	}

	// A doctor cannot book.
	w = doJSON(t, router, http.MethodPost, "/patients/appointments", doctorToken, bookBody)
	if w.Code != http.StatusForbidden {
		t.Fatalf("doctor book status = %d, want 403", w.Code)
	}
}

func TestServer_DoctorSlotRoutes_NotFound(t *testing.T) {
	router, _ := newTestServer(t)

	w := doJSON(t, router, http.MethodGet, "/doctors/not-a-uuid/available-slots", "", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("malformed id status = %d, want 404", w.Code)
	}

	w = doJSON(t, router, http.MethodGet, "/doctors/7b7f4f87-38a5-4b70-b1e8-9a9d5c8a9f10/available-slots", "", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown doctor status = %d, want 404", w.Code)
	}
}

func TestServer_PaginatedListing(t *testing.T) {
	router, db := newTestServer(t)

	spec := &model.Specialty{Name: "Cardiology"}
	if err := db.Create(spec).Error; err != nil {
		t.Fatalf("seed specialty: %v", err)
	}
	user := &model.User{Name: "Dr.", Email: "d@test.local", PasswordHash: "x", Role: model.RoleDoctor, IsActive: true}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	doctor := &model.Doctor{Name: "Dr.", UserID: user.ID, SpecialtyID: spec.ID}
	if err := db.Create(doctor).Error; err != nil {
		t.Fatalf("seed doctor: %v", err)
	}
	for i := 0; i < 3; i++ {
		slot := &model.AvailableSlot{
			DoctorID:  doctor.ID,
			StartTime: fmt.Sprintf("%02d:00", 9+i),
			EndTime:   fmt.Sprintf("%02d:30", 9+i),
		}
		if err := db.Create(slot).Error; err != nil {
			t.Fatalf("seed slot: %v", err)
		}
	}

	w := doJSON(t, router, http.MethodGet, "/available-slots", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("flat list status = %d", w.Code)
	}
	if items, ok := decodeEnvelope(t, w)["data"].([]any); !ok || len(items) != 3 {
		t.Fatalf("flat list data = %s", w.Body.String())
	}

	w = doJSON(t, router, http.MethodGet, "/available-slots?page=1&page_size=2", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("paged list status = %d", w.Code)
	}
	page, ok := decodeEnvelope(t, w)["data"].(map[string]any)
	if !ok {
		t.Fatalf("paged data = %s", w.Body.String())
	}
	if page["total"].(float64) != 3 || page["has_next"].(bool) != true {
		t.Fatalf("page meta = %v", page)
	}
}
