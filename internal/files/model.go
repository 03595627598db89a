// Package files manages file and folder metadata: creation with
// hierarchical placement validation, ownership-scoped lookup and listing,
// and public/private visibility. Raw bytes live in the blob sub-package;
// this package owns only the metadata records.
package files

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RootParentID is the sentinel parent value meaning "no parent folder".
const RootParentID = "0"

// Entry types. A closed enumeration: anything else is rejected at creation.
const (
	TypeFolder = "folder"
	TypeFile   = "file"
	TypeImage  = "image"
)

// ValidType reports whether t is one of the allowed entry types.
func ValidType(t string) bool {
	return t == TypeFolder || t == TypeFile || t == TypeImage
}

// File represents a file or folder metadata record. ParentID is either
// RootParentID or the hex id of another entry whose type is folder.
// LocalPath is the blob-store handle for non-folder entries; it is never
// serialized to clients.
type File struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    primitive.ObjectID `bson:"userId"`
	Name      string             `bson:"name"`
	Type      string             `bson:"type"`
	IsPublic  bool               `bson:"isPublic"`
	ParentID  string             `bson:"parentId"`
	LocalPath string             `bson:"localPath,omitempty"`
}

// FileView is the projection of an entry returned to callers. Raw content
// and the blob handle are never exposed.
type FileView struct {
	ID       string `json:"id"`
	UserID   string `json:"userId"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	IsPublic bool   `json:"isPublic"`
	ParentID string `json:"parentId"`
}

// View returns the client-facing projection of the entry.
func (f *File) View() FileView {
	return FileView{
		ID:       f.ID.Hex(),
		UserID:   f.UserID.Hex(),
		Name:     f.Name,
		Type:     f.Type,
		IsPublic: f.IsPublic,
		ParentID: f.ParentID,
	}
}

// --- Request DTOs (bound from HTTP requests) ---

// CreateFileRequest holds the data submitted to POST /files. Data carries
// the base64-encoded content for non-folder entries.
type CreateFileRequest struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	ParentID string `json:"parentId"`
	IsPublic bool   `json:"isPublic"`
	Data     string `json:"data"`
}

// CreateInput is the validated service input for creating an entry.
type CreateInput struct {
	Name     string
	Type     string
	ParentID string
	IsPublic bool
	Data     string
}
