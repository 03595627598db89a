package status

import (
	"context"
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/filedepot-io/filedepot/internal/apperror"
	"github.com/filedepot-io/filedepot/internal/auth"
	"github.com/filedepot-io/filedepot/internal/files"
)

// countingUserRepo stubs auth.UserRepository; only Count matters here.
type countingUserRepo struct {
	n   int64
	err error
}

func (r *countingUserRepo) Create(ctx context.Context, user *auth.User) error { return nil }
func (r *countingUserRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*auth.User, error) {
	return nil, apperror.NewNotFound("user not found")
}
func (r *countingUserRepo) FindByCredentials(ctx context.Context, email string, password auth.PasswordHash) (*auth.User, error) {
	return nil, apperror.NewNotFound("user not found")
}
func (r *countingUserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	return false, nil
}
func (r *countingUserRepo) Count(ctx context.Context) (int64, error) { return r.n, r.err }

// countingFileRepo stubs files.FileRepository; only Count matters here.
type countingFileRepo struct {
	n   int64
	err error
}

func (r *countingFileRepo) Insert(ctx context.Context, file *files.File) error { return nil }
func (r *countingFileRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*files.File, error) {
	return nil, apperror.NewNotFound("Not found")
}
func (r *countingFileRepo) FindOwned(ctx context.Context, id, userID primitive.ObjectID) (*files.File, error) {
	return nil, apperror.NewNotFound("Not found")
}
func (r *countingFileRepo) ListOwned(ctx context.Context, userID primitive.ObjectID, parentID string, page int64) ([]files.File, error) {
	return []files.File{}, nil
}
func (r *countingFileRepo) SetPublic(ctx context.Context, id, userID primitive.ObjectID, isPublic bool) (*files.File, error) {
	return nil, apperror.NewNotFound("Not found")
}
func (r *countingFileRepo) Count(ctx context.Context) (int64, error) { return r.n, r.err }

func TestStats(t *testing.T) {
	svc := NewService(nil, nil, &countingUserRepo{n: 12}, &countingFileRepo{n: 9})

	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.Users != 12 || stats.Files != 9 {
		t.Errorf("got %+v, want users=12 files=9", stats)
	}
}

func TestStats_StoreFailure(t *testing.T) {
	svc := NewService(nil, nil, &countingUserRepo{err: errors.New("down")}, &countingFileRepo{})

	_, err := svc.Stats(context.Background())
	if err == nil {
		t.Fatal("expected an error")
	}
	if apperror.SafeCode(err) != 500 {
		t.Errorf("expected status 500, got %d", apperror.SafeCode(err))
	}
	// The client never sees the underlying store error.
	if msg := apperror.SafeMessage(err); msg != "Internal Server Error" {
		t.Errorf("unexpected message %q", msg)
	}
}
