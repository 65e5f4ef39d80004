package handlers

import (
	"log"
	"net/http"

	"backoffice/internal/domain"
	"backoffice/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

// ErrorResponse standardizes error payloads.
type ErrorResponse struct {
	Success   bool   `json:"success"`
	Error     string `json:"error"`
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
	Details   any    `json:"details,omitempty"`
}

func respondError(c *gin.Context, status int, code, message string, details any) {
	if code == "" {
		code = http.StatusText(status)
	}
	c.JSON(status, ErrorResponse{
		Error:     message,
		Code:      code,
		Message:   message,
		RequestID: middleware.GetRequestID(c),
		Details:   details,
	})
}

// RespondDomainError maps domain errors to HTTP responses.
func RespondDomainError(c *gin.Context, err error) {
	switch domain.KindOf(err) {
	case domain.KindValidation:
		respondError(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case domain.KindNotFound:
		respondError(c, http.StatusNotFound, "not_found", err.Error(), nil)
	case domain.KindConflict:
		respondError(c, http.StatusConflict, "conflict", err.Error(), nil)
	default:
		log.Printf("[HTTP] request_id=%s path=%s error=%v", middleware.GetRequestID(c), c.Request.URL.Path, err)
		respondError(c, http.StatusInternalServerError, "internal_error", "internal server error", nil)
	}
}
