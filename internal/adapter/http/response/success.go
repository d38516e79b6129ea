package response

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status    string `json:"status"`
	Providers int    `json:"providers"`
}

// Health writes a health check response.
func Health(c echo.Context, providers int) error {
	return c.JSON(http.StatusOK, &HealthResponse{
		Status:    "ok",
		Providers: providers,
	})
}
