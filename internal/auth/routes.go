package auth

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/filedepot-io/filedepot/internal/middleware"
)

// RegisterRoutes sets up all auth-related routes on the given Echo instance.
// Registration and connect are public; disconnect and /users/me require a
// valid session token.
//
// Credential endpoints are rate-limited to slow down brute-force and
// credential stuffing: 10 attempts per IP per minute for connect, 5 for
// registration.
func RegisterRoutes(e *echo.Echo, h *Handler, service AuthService) {
	e.POST("/users", h.Register, middleware.RateLimit(5, time.Minute))
	e.GET("/connect", h.Connect, middleware.RateLimit(10, time.Minute))

	// Disconnect validates the token itself (the service performs the
	// session + user existence check), so no middleware here.
	e.GET("/disconnect", h.Disconnect)
	e.GET("/users/me", h.Me, RequireToken(service))
}
