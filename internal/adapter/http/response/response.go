// Package response provides standardized HTTP response builders for the booking API.
// It centralizes response formatting to ensure consistency across all endpoints.
package response

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Envelope status values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// ErrorDetail is the failure envelope.
type ErrorDetail struct {
	// Status is always "error"
	Status string `json:"status"`
	// Code is a machine-readable error code
	Code string `json:"code"`
	// Message is a human-readable error message
	Message string `json:"message"`
	// Details contains field-specific error details (for validation errors)
	Details map[string]string `json:"details,omitempty"`
}

// Error codes used in API responses.
const (
	CodeInvalidRequest  = "invalid_request"
	CodeValidationError = "validation_error"
	CodeUnauthenticated = "unauthenticated"
	CodeForbidden       = "forbidden"
	CodeNotFound        = "not_found"
	CodeConflict        = "conflict"
	CodePaymentError    = "payment_error"
	CodeProviderError   = "provider_error"
	CodeTimeout         = "timeout"
	CodeInternalError   = "internal_error"
)

// Error messages used in API responses.
const (
	MsgInvalidRequestBody = "Failed to parse request body"
	MsgValidationFailed   = "Request validation failed"
	MsgUnauthenticated    = "Missing user identity"
	MsgForbidden          = "You do not have access to this booking"
	MsgPaymentError       = "Payment service is unavailable"
	MsgTimeout            = "Request timed out"
	MsgRequestCancelled   = "Request was cancelled"
	MsgInternalError      = "An unexpected error occurred"
)

func failure(c echo.Context, status int, code, message string, details map[string]string) error {
	return c.JSON(status, &ErrorDetail{
		Status:  StatusError,
		Code:    code,
		Message: message,
		Details: details,
	})
}

// OK writes a 200 OK response with the given data.
func OK(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, data)
}

// Created writes a 201 Created response with the given data.
func Created(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusCreated, data)
}

// Accepted writes a 202 Accepted response with the given data.
func Accepted(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusAccepted, data)
}

// NoContent writes a 204 No Content response.
func NoContent(c echo.Context) error {
	return c.NoContent(http.StatusNoContent)
}
