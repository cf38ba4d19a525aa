package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"tengolugar/internal/repository"
	"tengolugar/internal/scheduler"
	"tengolugar/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response with the appropriate HTTP status code.
// Internal errors are not echoed to the client.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	message := err.Error()
	if code == http.StatusInternalServerError {
		_ = c.Error(err)
		message = "internal server error"
	}
	c.JSON(code, ErrorResponse{Error: message})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, repository.ErrNotFound),
		errors.Is(err, scheduler.ErrUnknownJob):
		return http.StatusNotFound

	// Validation errors - Bad Request
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrInvalidTripID):
		return http.StatusBadRequest

	// Conflict errors
	case errors.Is(err, repository.ErrStatusConflict),
		errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrTripNotOpen),
		errors.Is(err, service.ErrTripNotCompleted),
		errors.Is(err, service.ErrNoSeatsAvailable),
		errors.Is(err, service.ErrPayoutNotReleasable),
		errors.Is(err, scheduler.ErrJobAlreadyRunning):
		return http.StatusConflict

	// Forbidden errors
	case errors.Is(err, service.ErrNotTripDriver),
		errors.Is(err, service.ErrNotReservationOwner):
		return http.StatusForbidden

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}
