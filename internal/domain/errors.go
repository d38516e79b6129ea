package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors used across the booking aggregation system.
// Callers should match them with errors.Is.
var (
	// ErrInvalidRequest indicates the caller supplied malformed input.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrProviderUnavailable indicates a provider could not serve the request.
	// Adapters absorb it into an empty result; it never blanks a whole search.
	ErrProviderUnavailable = errors.New("provider unavailable")

	// ErrProviderTimeout indicates a provider did not answer in time.
	ErrProviderTimeout = errors.New("provider timeout")

	// ErrProviderNotFound indicates no adapter is registered under a name.
	ErrProviderNotFound = errors.New("provider not found")

	// ErrSelectionUnsupported indicates the provider cannot take bookings.
	ErrSelectionUnsupported = errors.New("selection not supported by provider")

	// ErrElementNotFound indicates an automation step could not locate a page element.
	ErrElementNotFound = errors.New("element not found")

	// ErrPaymentTimeout indicates the payment confirmation window elapsed.
	ErrPaymentTimeout = errors.New("payment timeout")

	// ErrPaymentService indicates the payment gateway call failed.
	ErrPaymentService = errors.New("payment service error")

	// ErrUnauthorizedAccess indicates a user tried to reach another user's booking.
	ErrUnauthorizedAccess = errors.New("unauthorized access")

	// ErrIllegalTransition indicates an automation session operation was
	// attempted from a state that does not allow it.
	ErrIllegalTransition = errors.New("illegal session transition")

	// ErrBookingNotFound indicates the booking id is unknown to the store.
	ErrBookingNotFound = errors.New("booking not found")

	// ErrMonitorExists indicates a subject is already being monitored.
	ErrMonitorExists = errors.New("monitor already running")

	// ErrMonitorNotFound indicates no monitor is running for a subject.
	ErrMonitorNotFound = errors.New("monitor not found")
)

// ProviderError wraps an error that originated from a specific provider.
type ProviderError struct {
	Provider  string
	Err       error
	Retryable bool
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s: %v", e.Provider, e.Err)
}

// Unwrap returns the underlying error.
func (e *ProviderError) Unwrap() error {
	return e.Err
}

// NewProviderError creates a non-retryable provider error.
func NewProviderError(provider string, err error) *ProviderError {
	return &ProviderError{Provider: provider, Err: err}
}

// NewRetryableProviderError creates a provider error that may succeed on retry.
func NewRetryableProviderError(provider string, err error) *ProviderError {
	return &ProviderError{Provider: provider, Err: err, Retryable: true}
}

// NewProviderTimeoutError creates a retryable timeout error for a provider.
func NewProviderTimeoutError(provider string) *ProviderError {
	return NewRetryableProviderError(provider, ErrProviderTimeout)
}

// NewProviderUnavailableError creates an unavailable error for a provider.
func NewProviderUnavailableError(provider string) *ProviderError {
	return NewProviderError(provider, ErrProviderUnavailable)
}

// PaymentServiceError reports a failed call to the payment gateway.
type PaymentServiceError struct {
	Op  string
	Err error
}

// Error implements the error interface.
func (e *PaymentServiceError) Error() string {
	return fmt.Sprintf("payment %s: %v", e.Op, e.Err)
}

// Unwrap lets errors.Is match both ErrPaymentService and the cause.
func (e *PaymentServiceError) Unwrap() []error {
	return []error{ErrPaymentService, e.Err}
}

// NewPaymentServiceError wraps a payment gateway failure for the given operation.
func NewPaymentServiceError(op string, err error) *PaymentServiceError {
	return &PaymentServiceError{Op: op, Err: err}
}

// ValidationError describes a single invalid field.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// Unwrap makes validation errors match ErrInvalidRequest.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidRequest
}

// NewValidationError creates a field validation error.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// WrapInvalidRequest formats a message and wraps it with ErrInvalidRequest.
func WrapInvalidRequest(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidRequest, fmt.Sprintf(format, args...))
}

// IsInvalidRequest reports whether err is an invalid request error.
func IsInvalidRequest(err error) bool {
	return errors.Is(err, ErrInvalidRequest)
}

// IsProviderTimeout reports whether err is a provider timeout.
func IsProviderTimeout(err error) bool {
	return errors.Is(err, ErrProviderTimeout)
}

// IsUnauthorized reports whether err is a cross-user access attempt.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorizedAccess)
}

// IsPaymentServiceError reports whether err came from the payment gateway.
func IsPaymentServiceError(err error) bool {
	return errors.Is(err, ErrPaymentService)
}
