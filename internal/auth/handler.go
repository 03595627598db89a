package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/filedepot-io/filedepot/internal/apperror"
)

// Handler handles HTTP requests for registration and sessions. Handlers are
// thin: they bind the request, call the service, and write the response. No
// business logic lives here.
type Handler struct {
	service AuthService
}

// NewHandler creates a new auth handler with the given service.
func NewHandler(service AuthService) *Handler {
	return &Handler{service: service}
}

// Register creates a new user (POST /users).
func (h *Handler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("Missing email")
	}

	user, err := h.service.Register(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, user.View())
}

// Connect verifies Basic auth credentials and issues a session token
// (GET /connect).
func (h *Handler) Connect(c echo.Context) error {
	email, password, ok := c.Request().BasicAuth()
	if !ok {
		return apperror.NewUnauthorized("Unauthorized")
	}

	token, err := h.service.Connect(c.Request().Context(), email, password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]string{"token": string(token)})
}

// Disconnect revokes the caller's session token (GET /disconnect).
func (h *Handler) Disconnect(c echo.Context) error {
	if err := h.service.Disconnect(c.Request().Context(), TokenFromRequest(c)); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Me returns the authenticated caller's id and email (GET /users/me).
// Runs behind RequireToken, which has already loaded the user.
func (h *Handler) Me(c echo.Context) error {
	user := GetUser(c)
	if user == nil {
		return apperror.NewUnauthorized("Unauthorized")
	}
	return c.JSON(http.StatusOK, user.View())
}
