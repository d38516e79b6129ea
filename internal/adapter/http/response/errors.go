package response

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// BadRequest writes a 400 Bad Request response with the given error message.
func BadRequest(c echo.Context, message string) error {
	return failure(c, http.StatusBadRequest, CodeInvalidRequest, message, nil)
}

// InvalidRequestBody writes a 400 Bad Request response for malformed request bodies.
func InvalidRequestBody(c echo.Context) error {
	return failure(c, http.StatusBadRequest, CodeInvalidRequest, MsgInvalidRequestBody, nil)
}

// ValidationError writes a 400 Bad Request response with validation error details.
func ValidationError(c echo.Context, details map[string]string) error {
	return failure(c, http.StatusBadRequest, CodeValidationError, MsgValidationFailed, details)
}

// ValidationErrorWithMessage writes a 400 Bad Request response with a custom message.
func ValidationErrorWithMessage(c echo.Context, message string) error {
	return failure(c, http.StatusBadRequest, CodeValidationError, message, nil)
}

// Unauthenticated writes a 401 response for requests without a user identity.
func Unauthenticated(c echo.Context) error {
	return failure(c, http.StatusUnauthorized, CodeUnauthenticated, MsgUnauthenticated, nil)
}

// Forbidden writes a 403 response for cross-user access.
func Forbidden(c echo.Context) error {
	return failure(c, http.StatusForbidden, CodeForbidden, MsgForbidden, nil)
}

// NotFound writes a 404 response.
func NotFound(c echo.Context, message string) error {
	return failure(c, http.StatusNotFound, CodeNotFound, message, nil)
}

// Conflict writes a 409 response.
func Conflict(c echo.Context, message string) error {
	return failure(c, http.StatusConflict, CodeConflict, message, nil)
}

// UnprocessableProvider writes a 422 response when a provider cannot serve
// the requested operation.
func UnprocessableProvider(c echo.Context, message string) error {
	return failure(c, http.StatusUnprocessableEntity, CodeProviderError, message, nil)
}

// PaymentError writes a 502 response for payment gateway failures.
func PaymentError(c echo.Context) error {
	return failure(c, http.StatusBadGateway, CodePaymentError, MsgPaymentError, nil)
}

// ProviderError writes a 502 response when a provider call failed.
func ProviderError(c echo.Context, message string) error {
	return failure(c, http.StatusBadGateway, CodeProviderError, message, nil)
}

// GatewayTimeout writes a 504 Gateway Timeout response.
func GatewayTimeout(c echo.Context) error {
	return failure(c, http.StatusGatewayTimeout, CodeTimeout, MsgTimeout, nil)
}

// RequestCancelled writes a 504 Gateway Timeout response for cancelled requests.
func RequestCancelled(c echo.Context) error {
	return failure(c, http.StatusGatewayTimeout, CodeTimeout, MsgRequestCancelled, nil)
}

// InternalServerError writes a 500 Internal Server Error response.
func InternalServerError(c echo.Context) error {
	return failure(c, http.StatusInternalServerError, CodeInternalError, MsgInternalError, nil)
}
