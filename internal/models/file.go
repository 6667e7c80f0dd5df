package models

import "time"

// FileType enumerates the recognized file variants.
type FileType string

const (
	// TypeFolder is a container; it has no content of its own.
	TypeFolder FileType = "folder"
	// TypeFile holds opaque content.
	TypeFile FileType = "file"
	// TypeImage holds content eligible for thumbnail derivation.
	TypeImage FileType = "image"
)

// Valid reports whether t is one of the recognized variants.
func (t FileType) Valid() bool {
	switch t {
	case TypeFolder, TypeFile, TypeImage:
		return true
	}
	return false
}

// RootParentID is the sentinel parent of top-level files.
const RootParentID = ""

// File is the metadata record of an uploaded file or folder. Ownership is
// immutable after creation; only the visibility flag may change.
type File struct {
	ID       string
	UserID   string
	Name     string
	Type     FileType
	IsPublic bool
	// ParentID is RootParentID for top-level files, otherwise the id of a
	// File of type folder.
	ParentID string
	// StorageKey is the opaque blob-storage location of the raw bytes.
	// Empty for folders.
	StorageKey string
	CreatedAt  time.Time
}

// IsFolder reports whether the file is a folder.
func (f *File) IsFolder() bool { return f.Type == TypeFolder }
