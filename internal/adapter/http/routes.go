package http

import (
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/tripsmith/travel-booking-aggregator/internal/adapter/http/middleware"
)

// RegisterRoutes registers all travel booking API routes.
// Search and fare comparison are open; everything that touches a user's
// bookings or monitors requires the X-User-ID identity header.
func RegisterRoutes(e *echo.Echo, h *Handler) {
	// Health check endpoint (no version prefix)
	e.GET("/health", h.Health)

	// Swagger documentation endpoint
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// API v1 group
	api := e.Group("/api/v1")
	api.POST("/search", h.Search)
	api.POST("/fares/compare", h.CompareFares)

	user := api.Group("", middleware.RequireUser())

	bookings := user.Group("/bookings")
	bookings.POST("", h.InitiateBooking)
	bookings.GET("", h.ListBookings)
	bookings.GET("/:id/status", h.BookingStatus)
	bookings.POST("/automated", h.StartAutomatedBooking)
	bookings.DELETE("/automated/:id", h.CancelAutomatedBooking)

	user.GET("/layouts", h.Layout)

	monitors := user.Group("/monitors")
	monitors.POST("", h.StartMonitor)
	monitors.GET("", h.ListMonitors)
	monitors.DELETE("", h.StopMonitor)
	monitors.DELETE("/:subject", h.StopMonitor)
}
