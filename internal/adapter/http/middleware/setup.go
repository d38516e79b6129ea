package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/tripsmith/travel-booking-aggregator/internal/infrastructure/logger"
)

// Setup registers the global middleware on the Echo instance. Order matters:
// the request ID must exist before the logger reads it, and Recover sits
// innermost so a recovered panic is still logged with its 500 status.
//
// RequireUser is not global; routes that need an identity add it.
func Setup(e *echo.Echo, log *logger.Logger) {
	e.Use(Chain(log)...)
}

// Chain returns the global middleware as a slice for use with route groups.
func Chain(log *logger.Logger) []echo.MiddlewareFunc {
	return []echo.MiddlewareFunc{
		RequestID(),
		RequestLogger(log),
		Recover(log),
	}
}
