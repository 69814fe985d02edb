package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"clinic-booking/internal/apperr"
)

type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

func respondData(c *gin.Context, status int, data any, message string) {
	c.JSON(status, envelope{Success: true, Data: data, Message: message})
}

func respondMessage(c *gin.Context, status int, message string) {
	c.JSON(status, envelope{Success: false, Message: message})
}

// respondError maps an error kind to its HTTP status. Internal causes are
// logged by the caller and never echoed to the client.
func (s *Server) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch apperr.KindOf(err) {
	case apperr.KindNotFound:
		status = http.StatusNotFound
	case apperr.KindInvalidCredentials, apperr.KindAccountDeactivated:
		status = http.StatusUnauthorized
	case apperr.KindConflict:
		status = http.StatusConflict
	case apperr.KindValidationFailed:
		status = http.StatusUnprocessableEntity
	default:
		s.log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("internal error")
	}
	respondMessage(c, status, apperr.MessageOf(err))
}
