// Package auth handles user registration, credential verification, and
// session management for filedepot. Sessions are opaque random tokens stored
// in Redis with a fixed TTL, mapping token -> user id. Every authenticated
// endpoint resolves the caller through this package.
package auth

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Token is an opaque session token issued by Connect and presented by
// clients in the X-Token header. Modeled as a distinct type so a raw string
// can't be passed where a session token is expected.
type Token string

// PasswordHash is the hex-encoded one-way digest of a password. The
// plaintext never leaves the service layer.
type PasswordHash string

// User represents a registered filedepot user. This is the domain model used
// throughout the application; BSON scanning uses this struct directly.
type User struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email    string             `bson:"email" json:"email"`
	Password PasswordHash       `bson:"password" json:"-"` // Never expose in JSON responses.
}

// UserView is the projection of a User returned to callers: id and email
// only, never the password hash.
type UserView struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// View returns the client-facing projection of the user.
func (u *User) View() UserView {
	return UserView{
		ID:    u.ID.Hex(),
		Email: u.Email,
	}
}

// --- Request DTOs (bound from HTTP requests) ---

// RegisterRequest holds the data submitted to POST /users.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
