package status

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes sets up the public status routes.
func RegisterRoutes(e *echo.Echo, h *Handler) {
	e.GET("/status", h.Status)
	e.GET("/stats", h.Stats)
}
