package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"carefund/internal/momo"
	"carefund/internal/repository"
	"carefund/internal/service"
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

// mapErrorToHTTPStatus maps service/repository/gateway errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	var gatewayErr *momo.GatewayError
	var authErr *momo.AuthError

	switch {
	// Not found errors
	case errors.Is(err, repository.ErrNotFound),
		errors.Is(err, service.ErrNoProviderReference):
		return http.StatusNotFound

	// Validation errors - Bad Request
	case errors.Is(err, service.ErrAmountBelowMinimum),
		errors.Is(err, service.ErrInvalidPaymentMethod),
		errors.Is(err, service.ErrMissingDonorPhone),
		errors.Is(err, service.ErrInvalidDonationID),
		errors.Is(err, service.ErrInvalidCampaignID),
		errors.Is(err, service.ErrInvalidEventID),
		errors.Is(err, service.ErrMissingTitle),
		errors.Is(err, service.ErrInvalidGoalAmount),
		errors.Is(err, service.ErrMissingEmail),
		errors.Is(err, service.ErrWeakPassword),
		errors.Is(err, service.ErrInvalidRole),
		errors.Is(err, momo.ErrInvalidPhoneNumber):
		return http.StatusBadRequest

	// Auth errors
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized

	// Conflict errors
	case errors.Is(err, service.ErrEmailAlreadyRegistered):
		return http.StatusConflict

	// Provider-side failures surface as bad gateway so callers can tell
	// them apart from our own faults.
	case errors.As(err, &gatewayErr),
		errors.As(err, &authErr),
		errors.Is(err, momo.ErrMissingCredentials):
		return http.StatusBadGateway

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}
