package auth

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Context keys for storing the authenticated caller in Echo context. Other
// packages use these via the exported getter functions below.
const (
	contextKeyUser   = "auth_user"
	contextKeyUserID = "auth_user_id"
)

// tokenHeader is the HTTP header carrying the session token.
const tokenHeader = "X-Token"

// RequireToken returns middleware that validates the X-Token header and
// injects the authenticated user into the request context. The session must
// resolve AND the referenced user must still exist; either failure yields
// 401 via the central error handler.
func RequireToken(service AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, err := service.CurrentUser(c.Request().Context(), TokenFromRequest(c))
			if err != nil {
				return err
			}

			c.Set(contextKeyUser, user)
			c.Set(contextKeyUserID, user.ID)

			return next(c)
		}
	}
}

// OptionalToken returns middleware that resolves the X-Token header when
// present and valid, and continues anonymously otherwise. Used on routes
// that serve public content but grant owners access to private entries.
func OptionalToken(service AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, err := service.CurrentUser(c.Request().Context(), TokenFromRequest(c))
			if err == nil {
				c.Set(contextKeyUser, user)
				c.Set(contextKeyUserID, user.ID)
			}
			return next(c)
		}
	}
}

// TokenFromRequest extracts the session token from the X-Token header.
// Returns the empty token if the header is absent.
func TokenFromRequest(c echo.Context) Token {
	return Token(c.Request().Header.Get(tokenHeader))
}

// --- Exported getters for other packages ---

// GetUser retrieves the authenticated user from the Echo context.
// Returns nil if the request is not authenticated (middleware not applied).
func GetUser(c echo.Context) *User {
	user, ok := c.Get(contextKeyUser).(*User)
	if !ok {
		return nil
	}
	return user
}

// GetUserID retrieves the authenticated user's id from the Echo context.
// Returns the nil ObjectID if the request is not authenticated.
func GetUserID(c echo.Context) primitive.ObjectID {
	id, ok := c.Get(contextKeyUserID).(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID
	}
	return id
}
