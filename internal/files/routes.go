package files

import (
	"github.com/labstack/echo/v4"

	"github.com/filedepot-io/filedepot/internal/auth"
)

// RegisterRoutes sets up all file routes. Metadata routes require a valid
// session token; the content route authenticates optionally so public
// entries stay readable without one.
func RegisterRoutes(e *echo.Echo, h *Handler, authService auth.AuthService) {
	requireToken := auth.RequireToken(authService)

	e.POST("/files", h.Create, requireToken)
	e.GET("/files", h.List, requireToken)
	e.GET("/files/:id", h.Get, requireToken)
	e.GET("/files/:id/data", h.Data, auth.OptionalToken(authService))
	e.PUT("/files/:id/publish", h.Publish, requireToken)
	e.PUT("/files/:id/unpublish", h.Unpublish, requireToken)
}
