package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Sayhighz/slideme-AI-sub000/internal/repository"
	"github.com/Sayhighz/slideme-AI-sub000/internal/service"
)

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

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found errors (includes entities not owned by the caller).
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound

	// Validation errors - Bad Request
	case errors.Is(err, service.ErrInvalidCustomerID),
		errors.Is(err, service.ErrInvalidDriverID),
		errors.Is(err, service.ErrInvalidRequestID),
		errors.Is(err, service.ErrInvalidOfferID),
		errors.Is(err, service.ErrInvalidPaymentID),
		errors.Is(err, service.ErrInvalidPrice),
		errors.Is(err, service.ErrInvalidPickupLocation),
		errors.Is(err, service.ErrInvalidDropoffLocation),
		errors.Is(err, service.ErrInvalidVehicleType),
		errors.Is(err, service.ErrInvalidPaymentMethodRef):
		return http.StatusBadRequest

	// Conflict errors: duplicate active offers, wrong lifecycle state,
	// and lost races on contested transitions.
	case errors.Is(err, service.ErrDuplicateOffer),
		errors.Is(err, service.ErrRequestNotPending),
		errors.Is(err, service.ErrRequestNotAccepted),
		errors.Is(err, service.ErrRequestNotCancellable),
		errors.Is(err, service.ErrOfferNotPending),
		errors.Is(err, service.ErrTransitionConflict),
		errors.Is(err, repository.ErrConflict):
		return http.StatusConflict

	// Forbidden errors
	case errors.Is(err, service.ErrDriverNotApproved),
		errors.Is(err, service.ErrNotParticipant):
		return http.StatusForbidden

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}
