package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/tripsmith/travel-booking-aggregator/internal/infrastructure/logger"
)

// RequestLogger returns middleware that logs each request on completion and
// places a request-scoped logger in the request context, so use cases log
// with the request ID attached.
func RequestLogger(log *logger.Logger) echo.MiddlewareFunc {
	log = logger.OrNop(log)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			reqID := GetRequestID(c)

			reqLog := log.WithRequestID(reqID)
			req := c.Request()
			c.SetRequest(req.WithContext(logger.IntoContext(req.Context(), reqLog)))

			if err := next(c); err != nil {
				c.Error(err)
			}

			res := c.Response()
			status := res.Status

			var event *zerolog.Event
			switch {
			case status >= 500:
				event = reqLog.Error()
			case status >= 400:
				event = reqLog.Warn()
			default:
				event = reqLog.Info()
			}

			event.
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Str("query", req.URL.RawQuery).
				Int("status", status).
				Int64("duration_ms", time.Since(start).Milliseconds()).
				Int64("bytes_out", res.Size).
				Str("client_ip", c.RealIP()).
				Str("user_agent", req.UserAgent()).
				Str("user_id", GetUserID(c)).
				Msg("HTTP request")

			// The error was already written by c.Error.
			return nil
		}
	}
}
