package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"tourbook/internal/repository"
	"tourbook/internal/service"
)

// intQuery reads an integer query parameter, falling back on a default.
func intQuery(c *gin.Context, name string, def int) int {
	if v := c.Query(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	c.JSON(code, ErrorResponse{Error: err.Error()})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status
// codes. A saved change whose follow-up email failed never reaches
// this path: notification errors are swallowed at the service layer,
// so every error here means the change did not happen.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found
	case errors.Is(err, repository.ErrNotFound),
		errors.Is(err, service.ErrParticipantNotFound):
		return http.StatusNotFound

	// Validation - Bad Request
	case errors.Is(err, service.ErrInvalidBookingID),
		errors.Is(err, service.ErrInvalidTrackingToken),
		errors.Is(err, service.ErrInvalidRouteID),
		errors.Is(err, service.ErrMissingCustomerName),
		errors.Is(err, service.ErrMissingCustomerEmail),
		errors.Is(err, service.ErrNoParticipants),
		errors.Is(err, service.ErrPaxMismatch),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrInvalidPaymentOption),
		errors.Is(err, service.ErrInvalidPaymentStatus),
		errors.Is(err, service.ErrInvalidCustomTotal),
		errors.Is(err, service.ErrEmptyUpload),
		errors.Is(err, service.ErrMissingSignerName),
		errors.Is(err, service.ErrMissingPassportID),
		errors.Is(err, service.ErrMissingSignerEmail),
		errors.Is(err, service.ErrMissingSignature):
		return http.StatusBadRequest

	// State conflicts and invariant violations
	case errors.Is(err, repository.ErrConflict),
		errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrBookingNotCancellable),
		errors.Is(err, service.ErrNotConfirmed),
		errors.Is(err, service.ErrNegativeAmount),
		errors.Is(err, service.ErrAmountExceedsTotal),
		errors.Is(err, service.ErrAmountMismatch):
		return http.StatusConflict

	// Default to internal server error (persistence failures land here)
	default:
		return http.StatusInternalServerError
	}
}
