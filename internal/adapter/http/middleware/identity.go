package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/tripsmith/travel-booking-aggregator/internal/adapter/http/response"
)

const (
	// UserIDHeader carries the caller identity set by the upstream gateway.
	UserIDHeader = "X-User-ID"
	userIDKey    = "user_id"
)

// RequireUser rejects requests without an X-User-ID header with 401 and
// stores the identity for handlers.
func RequireUser() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID := strings.TrimSpace(c.Request().Header.Get(UserIDHeader))
			if userID == "" {
				return response.Unauthenticated(c)
			}
			c.Set(userIDKey, userID)
			return next(c)
		}
	}
}

// GetUserID returns the identity stored by RequireUser.
func GetUserID(c echo.Context) string {
	if id, ok := c.Get(userIDKey).(string); ok {
		return id
	}
	return ""
}
