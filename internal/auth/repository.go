package auth

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/filedepot-io/filedepot/internal/apperror"
	"github.com/filedepot-io/filedepot/internal/database"
)

// UserRepository defines the data access contract for user operations.
// All BSON lives in the concrete implementation -- no queries leak out.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*User, error)
	FindByCredentials(ctx context.Context, email string, password PasswordHash) (*User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	Count(ctx context.Context) (int64, error)
}

// userRepository implements UserRepository against the users collection.
type userRepository struct {
	col *mongo.Collection
}

// NewUserRepository creates a new user repository backed by the given database.
func NewUserRepository(db *mongo.Database) UserRepository {
	return &userRepository{col: db.Collection(database.UsersCollection)}
}

// Create inserts a new user document and records the assigned id on the
// user. A duplicate email maps to a bad request -- the unique index backs
// up the service-level existence check against concurrent registrations.
func (r *userRepository) Create(ctx context.Context, user *User) error {
	res, err := r.col.InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		return apperror.NewBadRequest("Already exist")
	}
	if err != nil {
		return fmt.Errorf("inserting user: %w", err)
	}

	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		user.ID = id
	}
	return nil
}

// FindByID retrieves a user by their ObjectID.
// Returns apperror.NotFound if no user exists with this id.
func (r *userRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*User, error) {
	user := &User{}
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperror.NewNotFound("user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("querying user by id: %w", err)
	}
	return user, nil
}

// FindByCredentials retrieves a user by exact email and password hash in a
// single conjunctive lookup. Returns apperror.NotFound when no user matches
// both; the caller decides how to surface that (401 for login).
func (r *userRepository) FindByCredentials(ctx context.Context, email string, password PasswordHash) (*User, error) {
	user := &User{}
	err := r.col.FindOne(ctx, bson.M{"email": email, "password": password}).Decode(user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperror.NewNotFound("user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("querying user by credentials: %w", err)
	}
	return user, nil
}

// EmailExists returns true if a user with the given email already exists.
// Used during registration to reject duplicates before hashing the password.
func (r *userRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	err := r.col.FindOne(ctx, bson.M{"email": email}).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking email existence: %w", err)
	}
	return true, nil
}

// Count returns the total number of registered users.
func (r *userRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("counting users: %w", err)
	}
	return n, nil
}
