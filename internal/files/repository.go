package files

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/filedepot-io/filedepot/internal/apperror"
	"github.com/filedepot-io/filedepot/internal/database"
)

// pageSize is the fixed number of entries returned per list page.
const pageSize = 20

// FileRepository defines the data access contract for entry metadata.
// Ownership is enforced inside the query filters, never as a post-check:
// every owner-scoped method takes the caller's user id as part of the
// lookup predicate.
type FileRepository interface {
	Insert(ctx context.Context, file *File) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*File, error)
	FindOwned(ctx context.Context, id, userID primitive.ObjectID) (*File, error)
	ListOwned(ctx context.Context, userID primitive.ObjectID, parentID string, page int64) ([]File, error)
	SetPublic(ctx context.Context, id, userID primitive.ObjectID, isPublic bool) (*File, error)
	Count(ctx context.Context) (int64, error)
}

// fileRepository implements FileRepository against the files collection.
type fileRepository struct {
	col *mongo.Collection
}

// NewFileRepository creates a new file repository backed by the given database.
func NewFileRepository(db *mongo.Database) FileRepository {
	return &fileRepository{col: db.Collection(database.FilesCollection)}
}

// Insert stores a new entry document and records the assigned id.
func (r *fileRepository) Insert(ctx context.Context, file *File) error {
	res, err := r.col.InsertOne(ctx, file)
	if err != nil {
		return fmt.Errorf("inserting file: %w", err)
	}

	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		file.ID = id
	}
	return nil
}

// FindByID retrieves an entry by id regardless of owner. Used only for
// parent-folder validation during creation.
func (r *fileRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*File, error) {
	file := &File{}
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(file)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperror.NewNotFound("Not found")
	}
	if err != nil {
		return nil, fmt.Errorf("querying file by id: %w", err)
	}
	return file, nil
}

// FindOwned retrieves an entry by id AND owner in a single conjunctive
// filter. An entry owned by someone else is indistinguishable from one
// that doesn't exist.
func (r *fileRepository) FindOwned(ctx context.Context, id, userID primitive.ObjectID) (*File, error) {
	file := &File{}
	err := r.col.FindOne(ctx, bson.M{"_id": id, "userId": userID}).Decode(file)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperror.NewNotFound("Not found")
	}
	if err != nil {
		return nil, fmt.Errorf("querying owned file: %w", err)
	}
	return file, nil
}

// ListOwned returns one page of the caller's entries, optionally restricted
// to a parent folder. Pages are fixed at pageSize entries, ordered by _id
// ascending so pagination is stable across requests.
func (r *fileRepository) ListOwned(ctx context.Context, userID primitive.ObjectID, parentID string, page int64) ([]File, error) {
	filter := bson.M{"userId": userID}
	if parentID != RootParentID {
		filter["parentId"] = parentID
	}

	opts := options.Find().
		SetSkip(page * pageSize).
		SetLimit(pageSize).
		SetSort(bson.D{{Key: "_id", Value: 1}})

	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("listing files: %w", err)
	}
	defer cursor.Close(ctx)

	// Non-nil so an empty page serializes as [] rather than null.
	results := []File{}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("decoding file list: %w", err)
	}
	return results, nil
}

// SetPublic updates the visibility flag on an owned entry and returns the
// updated document. Same conjunctive ownership filter as FindOwned.
func (r *fileRepository) SetPublic(ctx context.Context, id, userID primitive.ObjectID, isPublic bool) (*File, error) {
	file := &File{}
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "userId": userID},
		bson.M{"$set": bson.M{"isPublic": isPublic}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(file)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperror.NewNotFound("Not found")
	}
	if err != nil {
		return nil, fmt.Errorf("updating file visibility: %w", err)
	}
	return file, nil
}

// Count returns the total number of entries across all users.
func (r *fileRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("counting files: %w", err)
	}
	return n, nil
}
