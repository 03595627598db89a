package auth

import (
	"context"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/sha3"

	"github.com/filedepot-io/filedepot/internal/apperror"
)

// sessionKeyPrefix is the Redis key namespace for session tokens.
const sessionKeyPrefix = "auth:"

// AuthService defines the business logic contract for registration and
// sessions. Handlers call these methods -- they never touch the repository
// or Redis directly.
type AuthService interface {
	// Register creates a new user with a hashed password.
	Register(ctx context.Context, email, password string) (*User, error)

	// Connect verifies credentials and issues a fresh session token
	// with the configured TTL.
	Connect(ctx context.Context, email, password string) (Token, error)

	// ResolveSession maps a token back to the owning user id. Covers
	// both "never issued" and "expired" with the same unauthorized error.
	ResolveSession(ctx context.Context, token Token) (primitive.ObjectID, error)

	// Disconnect revokes a session. Deliberately not idempotent: a
	// second call on the same token fails unauthorized.
	Disconnect(ctx context.Context, token Token) error

	// CurrentUser resolves a token to the full user record, failing
	// unauthorized if either the session or the user is gone.
	CurrentUser(ctx context.Context, token Token) (*User, error)
}

// authService implements AuthService with a deterministic password digest
// and Redis-backed sessions.
type authService struct {
	repo       UserRepository
	redis      *redis.Client
	sessionTTL time.Duration
}

// NewAuthService creates a new auth service with the given dependencies.
func NewAuthService(repo UserRepository, rdb *redis.Client, sessionTTL time.Duration) AuthService {
	return &authService{
		repo:       repo,
		redis:      rdb,
		sessionTTL: sessionTTL,
	}
}

// Register creates a new user account. It validates presence of both fields,
// rejects duplicate emails, hashes the password, and persists the user.
func (s *authService) Register(ctx context.Context, email, password string) (*User, error) {
	if email == "" {
		return nil, apperror.NewBadRequest("Missing email")
	}
	if password == "" {
		return nil, apperror.NewBadRequest("Missing password")
	}

	email = strings.TrimSpace(email)

	exists, err := s.repo.EmailExists(ctx, email)
	if err != nil {
		return nil, apperror.NewUnavailable(fmt.Errorf("checking email: %w", err))
	}
	if exists {
		return nil, apperror.NewBadRequest("Already exist")
	}

	user := &User{
		Email:    email,
		Password: HashPassword(password),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		// Create classifies duplicate-key races itself.
		if _, ok := err.(*apperror.AppError); ok {
			return nil, err
		}
		return nil, apperror.NewUnavailable(fmt.Errorf("creating user: %w", err))
	}

	slog.Info("user registered",
		slog.String("user_id", user.ID.Hex()),
		slog.String("email", user.Email),
	)

	return user, nil
}

// Connect authenticates a user by email and password. On success it stores
// token -> user id in Redis with the session TTL and returns the token.
func (s *authService) Connect(ctx context.Context, email, password string) (Token, error) {
	if email == "" || password == "" {
		return "", apperror.NewUnauthorized("Unauthorized")
	}

	// Single conjunctive lookup: email and password hash must both match.
	user, err := s.repo.FindByCredentials(ctx, email, HashPassword(password))
	if err != nil {
		if apperror.SafeCode(err) == 404 {
			return "", apperror.NewUnauthorized("Unauthorized")
		}
		return "", apperror.NewUnavailable(fmt.Errorf("finding user: %w", err))
	}

	token := Token(uuid.NewString())
	if err := s.redis.Set(ctx, sessionKey(token), user.ID.Hex(), s.sessionTTL).Err(); err != nil {
		return "", apperror.NewUnavailable(fmt.Errorf("storing session: %w", err))
	}

	slog.Info("user connected", slog.String("user_id", user.ID.Hex()))

	return token, nil
}

// ResolveSession looks up a session token in Redis and returns the owning
// user id if it exists and hasn't expired.
func (s *authService) ResolveSession(ctx context.Context, token Token) (primitive.ObjectID, error) {
	if token == "" {
		return primitive.NilObjectID, apperror.NewUnauthorized("Unauthorized")
	}

	val, err := s.redis.Get(ctx, sessionKey(token)).Result()
	if err == redis.Nil {
		return primitive.NilObjectID, apperror.NewUnauthorized("Unauthorized")
	}
	if err != nil {
		return primitive.NilObjectID, apperror.NewUnavailable(fmt.Errorf("reading session: %w", err))
	}

	userID, err := primitive.ObjectIDFromHex(val)
	if err != nil {
		return primitive.NilObjectID, apperror.NewUnauthorized("Unauthorized")
	}
	return userID, nil
}

// Disconnect revokes a session. It fails unauthorized if the token does not
// resolve to an existing user, so revoking twice fails the second time.
func (s *authService) Disconnect(ctx context.Context, token Token) error {
	user, err := s.CurrentUser(ctx, token)
	if err != nil {
		return err
	}

	if err := s.redis.Del(ctx, sessionKey(token)).Err(); err != nil {
		return apperror.NewUnavailable(fmt.Errorf("deleting session: %w", err))
	}

	slog.Info("user disconnected", slog.String("user_id", user.ID.Hex()))
	return nil
}

// CurrentUser resolves a token to the full user record. The user may have
// been removed after the session was issued; that also surfaces as
// unauthorized.
func (s *authService) CurrentUser(ctx context.Context, token Token) (*User, error) {
	userID, err := s.ResolveSession(ctx, token)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if apperror.SafeCode(err) == 404 {
			return nil, apperror.NewUnauthorized("Unauthorized")
		}
		return nil, apperror.NewUnavailable(fmt.Errorf("loading user: %w", err))
	}
	return user, nil
}

// sessionKey builds the namespaced Redis key for a token.
func sessionKey(token Token) string {
	return sessionKeyPrefix + string(token)
}

// HashPassword computes the deterministic one-way digest used for stored
// credentials. Registration and verification must use the identical
// function; the conjunctive credential lookup depends on it.
func HashPassword(password string) PasswordHash {
	sum := sha3.Sum256([]byte(password))
	return PasswordHash(hex.EncodeToString(sum[:]))
}
