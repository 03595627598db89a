package files

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/filedepot-io/filedepot/internal/apperror"
	"github.com/filedepot-io/filedepot/internal/files/blob"
)

// FileService defines the business logic contract for entry operations.
// Callers are already authenticated; the user id comes from the session
// middleware, never from the request body.
type FileService interface {
	Create(ctx context.Context, userID primitive.ObjectID, input CreateInput) (*File, error)
	Get(ctx context.Context, userID primitive.ObjectID, id string) (*File, error)
	GetData(ctx context.Context, userID primitive.ObjectID, id string) (*File, []byte, error)
	List(ctx context.Context, userID primitive.ObjectID, parentID string, page int64) ([]File, error)
	SetVisibility(ctx context.Context, userID primitive.ObjectID, id string, isPublic bool) (*File, error)
}

// fileService implements FileService.
type fileService struct {
	repo    FileRepository
	blobs   blob.Store
	maxSize int64
}

// NewFileService creates a new file service with the given dependencies.
func NewFileService(repo FileRepository, blobs blob.Store, maxSize int64) FileService {
	return &fileService{
		repo:    repo,
		blobs:   blobs,
		maxSize: maxSize,
	}
}

// Create validates and stores a new entry. Validation order is fixed:
// name, type, data, then parent placement. For non-folder entries the blob
// write is a precondition of the metadata insert; if the insert fails the
// blob is removed again so no orphaned metadata ever points at nothing.
func (s *fileService) Create(ctx context.Context, userID primitive.ObjectID, input CreateInput) (*File, error) {
	if input.Name == "" {
		return nil, apperror.NewBadRequest("Missing name")
	}
	if !ValidType(input.Type) {
		return nil, apperror.NewBadRequest("Missing type")
	}
	if input.Type != TypeFolder && input.Data == "" {
		return nil, apperror.NewBadRequest("Missing data")
	}

	parentID := input.ParentID
	if parentID == "" {
		parentID = RootParentID
	}

	if parentID != RootParentID {
		parent, err := s.lookupParent(ctx, parentID)
		if err != nil {
			return nil, err
		}
		if parent.Type != TypeFolder {
			return nil, apperror.NewBadRequest("Parent is not a folder")
		}
	}

	file := &File{
		UserID:   userID,
		Name:     input.Name,
		Type:     input.Type,
		IsPublic: input.IsPublic,
		ParentID: parentID,
	}

	if input.Type == TypeFolder {
		if err := s.repo.Insert(ctx, file); err != nil {
			return nil, apperror.NewUnavailable(err)
		}
		return file, nil
	}

	data, err := base64.StdEncoding.DecodeString(input.Data)
	if err != nil {
		return nil, apperror.NewBadRequest("Invalid data")
	}
	if int64(len(data)) > s.maxSize {
		return nil, apperror.NewBadRequest("File too large")
	}

	handle, err := s.blobs.Save(ctx, data)
	if err != nil {
		return nil, apperror.NewUnavailable(fmt.Errorf("saving blob: %w", err))
	}
	file.LocalPath = handle

	if err := s.repo.Insert(ctx, file); err != nil {
		// Don't leave the blob orphaned when the metadata insert fails.
		if rmErr := s.blobs.Remove(ctx, handle); rmErr != nil {
			slog.Warn("failed to remove blob after insert failure",
				slog.String("handle", handle),
				slog.Any("error", rmErr),
			)
		}
		return nil, apperror.NewUnavailable(err)
	}

	slog.Info("file created",
		slog.String("file_id", file.ID.Hex()),
		slog.String("user_id", userID.Hex()),
		slog.String("type", file.Type),
	)

	return file, nil
}

// Get retrieves an owned entry. A malformed id, a missing entry, and an
// entry owned by someone else all surface as not found.
func (s *fileService) Get(ctx context.Context, userID primitive.ObjectID, id string) (*File, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperror.NewNotFound("Not found")
	}

	file, err := s.repo.FindOwned(ctx, oid, userID)
	if err != nil {
		return nil, classify(err)
	}
	return file, nil
}

// GetData returns an entry and its raw content. Public entries are readable
// by anyone, private entries only by their owner; a private entry looks
// missing to everyone else. Folders have no content to serve.
func (s *fileService) GetData(ctx context.Context, userID primitive.ObjectID, id string) (*File, []byte, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil, apperror.NewNotFound("Not found")
	}

	file, err := s.repo.FindByID(ctx, oid)
	if err != nil {
		return nil, nil, classify(err)
	}

	if !file.IsPublic && file.UserID != userID {
		return nil, nil, apperror.NewNotFound("Not found")
	}

	if file.Type == TypeFolder {
		return nil, nil, apperror.NewBadRequest("A folder doesn't have content")
	}

	data, err := s.blobs.Load(ctx, file.LocalPath)
	if err != nil {
		// Metadata without a readable blob is indistinguishable from a
		// missing entry to the caller.
		return nil, nil, apperror.NewNotFound("Not found")
	}

	return file, data, nil
}

// List returns one page of the caller's entries under the given parent
// (or all of the caller's entries when parentID is the root sentinel).
// An empty page is an empty slice, not an error.
func (s *fileService) List(ctx context.Context, userID primitive.ObjectID, parentID string, page int64) ([]File, error) {
	if parentID == "" {
		parentID = RootParentID
	}
	if page < 0 {
		page = 0
	}

	results, err := s.repo.ListOwned(ctx, userID, parentID, page)
	if err != nil {
		return nil, apperror.NewUnavailable(err)
	}
	return results, nil
}

// SetVisibility flips the public flag on an owned entry and returns the
// updated record.
func (s *fileService) SetVisibility(ctx context.Context, userID primitive.ObjectID, id string, isPublic bool) (*File, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperror.NewNotFound("Not found")
	}

	file, err := s.repo.SetPublic(ctx, oid, userID, isPublic)
	if err != nil {
		return nil, classify(err)
	}
	return file, nil
}

// lookupParent resolves a parent reference during creation. A malformed or
// unknown parent id is invalid input, not a 404: the entry being created is
// the subject of the request, not the parent.
func (s *fileService) lookupParent(ctx context.Context, parentID string) (*File, error) {
	oid, err := primitive.ObjectIDFromHex(parentID)
	if err != nil {
		return nil, apperror.NewBadRequest("Parent not found")
	}

	parent, err := s.repo.FindByID(ctx, oid)
	if err != nil {
		if apperror.SafeCode(err) == 404 {
			return nil, apperror.NewBadRequest("Parent not found")
		}
		return nil, apperror.NewUnavailable(err)
	}
	return parent, nil
}

// classify passes AppErrors through and wraps anything else as a store
// failure.
func classify(err error) error {
	if _, ok := err.(*apperror.AppError); ok {
		return err
	}
	return apperror.NewUnavailable(err)
}
