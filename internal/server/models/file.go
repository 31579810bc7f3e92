// Package models defines server-side records persisted in the metadata store
// and the payloads exchanged through the job queue.
package models

import "time"

// FileType is the kind of a node in a user's tree.
type FileType string

const (
	FileTypeFolder FileType = "folder"
	FileTypeFile   FileType = "file"
	FileTypeImage  FileType = "image"
)

// Valid reports whether t is one of the known node kinds.
func (t FileType) Valid() bool {
	switch t {
	case FileTypeFolder, FileTypeFile, FileTypeImage:
		return true
	}
	return false
}

// HasContent reports whether nodes of this kind carry a blob.
func (t FileType) HasContent() bool {
	return t == FileTypeFile || t == FileTypeImage
}

// File is one node of a user's hierarchy: a folder, a plain file or an image.
type File struct {
	ID     string   `json:"id" bson:"_id"`
	UserID string   `json:"userId" bson:"user_id"`
	Name   string   `json:"name" bson:"name"`
	Type   FileType `json:"type" bson:"type"`
	// ParentID is common.RootParentID for top-level nodes.
	ParentID string `json:"parentId" bson:"parent_id"`
	IsPublic bool   `json:"isPublic" bson:"is_public"`
	// BlobRef is the blob store key of the content; empty for folders.
	BlobRef   string    `json:"blobRef,omitempty" bson:"blob_ref,omitempty"`
	CreatedAt time.Time `json:"-" bson:"created_at"`
}
