package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"clinic-booking/internal/apperr"
	"clinic-booking/internal/service"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusUnprocessableEntity, "email and password are required")
		return
	}

	key := throttleKey(req.Email, c.ClientIP())
	if blocked, retryAfter := s.loginLimiter.TooManyAttempts(key); blocked {
		c.Header("Retry-After", fmt.Sprintf("%d", retryAfter))
		respondMessage(c, http.StatusTooManyRequests,
			fmt.Sprintf("too many login attempts, retry in %d seconds", retryAfter))
		return
	}

	session, err := s.auth.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		// Only guessable failures count against the window; a deactivated
		// account is not remediable by retrying.
		if apperr.KindOf(err) == apperr.KindInvalidCredentials {
			s.loginLimiter.Hit(key)
		}
		s.respondError(c, err)
		return
	}

	s.loginLimiter.Clear(key)
	respondData(c, http.StatusOK, sessionPayload(session), "Login successful")
}

func (s *Server) me(c *gin.Context) {
	user := currentUser(c)
	respondData(c, http.StatusOK, gin.H{
		"id":    user.ID,
		"name":  user.Name,
		"email": user.Email,
		"role":  user.Role,
	}, "")
}

func (s *Server) logout(c *gin.Context) {
	if err := s.auth.Logout(c.Request.Context(), currentUser(c)); err != nil {
		s.respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, nil, "Logged out successfully")
}

func throttleKey(email, ip string) string {
	return strings.ToLower(email) + "|" + ip
}

func sessionPayload(session *service.Session) gin.H {
	return gin.H{
		"user":  profilePayload(session.Profile),
		"token": session.Token,
	}
}

// profilePayload serializes the role variant as the nested doctor/patient
// object the API exposes.
func profilePayload(p *service.Profile) gin.H {
	h := gin.H{
		"id":    p.ID,
		"name":  p.Name,
		"email": p.Email,
		"phone": p.Phone,
		"role":  p.Role,
	}
	switch v := p.Variant.(type) {
	case service.DoctorProfile:
		h["doctor"] = gin.H{
			"id": v.ID,
			"specialty": gin.H{
				"id":   v.Specialty.ID,
				"name": v.Specialty.Name,
			},
		}
	case service.PatientProfile:
		h["patient"] = gin.H{
			"id":     v.ID,
			"dob":    v.DOB,
			"gender": v.Gender,
		}
	case service.AdminProfile:
		// base fields only
	}
	return h
}
