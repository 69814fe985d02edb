package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"clinic-booking/internal/listing"
	"clinic-booking/internal/ratelimit"
	"clinic-booking/internal/service"
)

// Server wires the HTTP perimeter: routing, request shaping, auth middleware
// and the login rate limit. All domain behavior lives in the services.
type Server struct {
	log zerolog.Logger

	auth     *service.AuthService
	reg      *service.RegistrationService
	slots    *service.SlotService
	bookings *service.BookingService
	reports  *service.ReportService

	loginLimiter *ratelimit.AttemptLimiter
}

func New(
	log zerolog.Logger,
	auth *service.AuthService,
	reg *service.RegistrationService,
	slots *service.SlotService,
	bookings *service.BookingService,
	reports *service.ReportService,
	loginLimiter *ratelimit.AttemptLimiter,
) *Server {
	return &Server{
		log:          log,
		auth:         auth,
		reg:          reg,
		slots:        slots,
		bookings:     bookings,
		reports:      reports,
		loginLimiter: loginLimiter,
	}
}

// Router builds the route tree. Route shapes follow the public API: listing
// endpoints are open, mutations and profile access require a bearer token.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(s.log))

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Welcome to the API!"})
	})

	r.POST("/login", s.login)

	reg := r.Group("/register")
	reg.POST("/patient", s.registerPatient)
	reg.POST("/doctor", s.registerDoctor)

	r.GET("/specialties", s.listSpecialties)

	r.GET("/available-slots", s.listAllSlots)
	r.GET("/doctors/:id/available-slots", s.listDoctorSlots)

	r.GET("/appointment-bookings", s.listAllAppointments)
	r.GET("/patients/:id/appointments", s.listPatientAppointments)
	r.GET("/doctors/:id/appointments", s.listDoctorAppointments)

	authed := r.Group("", s.requireAuth)
	authed.GET("/user", s.me)
	authed.POST("/logout", s.logout)
	authed.POST("/doctors/:id/available-slots", s.createSlots)
	authed.POST("/doctors/:id/available-slots/generate", s.generateSlots)
	authed.POST("/patients/appointments", s.createAppointment)
	authed.POST("/reports", s.createReport)
	authed.GET("/patients/:id/reports", s.listPatientReports)
	authed.GET("/doctors/:id/reports", s.listDoctorReports)

	return r
}

// parseIDParam mirrors route-constraint behavior: a malformed uuid is a 404,
// not a validation error.
func parseIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondMessage(c, http.StatusNotFound, "not found")
		return uuid.Nil, false
	}
	return id, true
}

// paged leaves the payload flat unless the caller asked for a page.
func paged[T any](c *gin.Context, items []T) any {
	pageStr := c.Query("page")
	if pageStr == "" {
		return items
	}
	page, _ := strconv.Atoi(pageStr)
	size, _ := strconv.Atoi(c.Query("page_size"))
	return listing.Paginate(items, page, size)
}
