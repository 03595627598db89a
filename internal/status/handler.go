package status

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Handler serves the status and stats endpoints.
type Handler struct {
	service *Service
}

// NewHandler creates a new status handler with the given service.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Status reports store connectivity (GET /status).
func (h *Handler) Status(c echo.Context) error {
	return c.JSON(http.StatusOK, h.service.Health(c.Request().Context()))
}

// Stats reports collection counts (GET /stats).
func (h *Handler) Stats(c echo.Context) error {
	stats, err := h.service.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}
