package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/mkravets/filehub/internal/authz"
	"github.com/mkravets/filehub/internal/blob"
	"github.com/mkravets/filehub/internal/common"
	"github.com/mkravets/filehub/internal/logging"
	"github.com/mkravets/filehub/internal/models"
	"github.com/mkravets/filehub/internal/queue"
	"github.com/mkravets/filehub/internal/repositories/files"
)

// DefaultPageSize is the fixed page size of file listings.
const DefaultPageSize = 20

// thumbnailWidths are the derivative sizes a content read may request.
var thumbnailWidths = map[int]struct{}{100: {}, 250: {}, 500: {}}

// FileService orchestrates uploads, listings, visibility changes, and
// content reads.
type FileService struct {
	files  files.Repository
	blobs  blob.Store
	queue  queue.Queue
	logger logging.Logger
}

func NewFileService(files files.Repository, blobs blob.Store, q queue.Queue, logger logging.Logger) *FileService {
	return &FileService{
		files:  files,
		blobs:  blobs,
		queue:  q,
		logger: logger.With("module", "file_service"),
	}
}

// UploadRequest carries an already-parsed upload.
type UploadRequest struct {
	Name     string
	Type     string
	ParentID string // models.RootParentID for top-level uploads
	IsPublic bool
	Data     string // base64 payload, empty for folders
}

// NewStorageKey returns a fresh opaque blob reference. Keys are random and
// never derived from user-supplied names.
func NewStorageKey() string {
	return uuid.NewString()
}

// Upload validates the request, persists metadata (and bytes for non-folder
// variants), and enqueues a thumbnail job for images. Enqueue failure is
// reported but does not fail the upload: thumbnails are best-effort.
func (s *FileService) Upload(ctx context.Context, userID string, req *UploadRequest) (*models.File, error) {
	if req.Name == "" {
		return nil, common.NewMissingFieldError("name")
	}

	fileType := models.FileType(req.Type)
	if !fileType.Valid() {
		return nil, common.NewMissingFieldError("type")
	}

	var content []byte
	if fileType != models.TypeFolder {
		if req.Data == "" {
			return nil, common.NewMissingFieldError("data")
		}
		decoded, err := base64.StdEncoding.DecodeString(req.Data)
		if err != nil {
			return nil, common.ErrInvalidData
		}
		if len(decoded) == 0 {
			return nil, common.NewMissingFieldError("data")
		}
		content = decoded
	}

	if req.ParentID != models.RootParentID {
		parent, err := s.files.GetByID(ctx, req.ParentID)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return nil, common.ErrParentNotFound
			}
			return nil, fmt.Errorf("resolving parent: %w", err)
		}
		if !parent.IsFolder() {
			return nil, common.ErrParentNotFolder
		}
	}

	file := &models.File{
		UserID:   userID,
		Name:     req.Name,
		Type:     fileType,
		IsPublic: req.IsPublic,
		ParentID: req.ParentID,
	}

	if fileType == models.TypeFolder {
		return s.files.Create(ctx, file)
	}

	key := NewStorageKey()
	if err := s.blobs.Write(ctx, key, content); err != nil {
		return nil, fmt.Errorf("writing blob: %w", err)
	}
	file.StorageKey = key

	created, err := s.files.Create(ctx, file)
	if err != nil {
		return nil, err
	}

	if fileType == models.TypeImage {
		job := &models.ThumbnailJob{FileID: created.ID, UserID: userID}
		if err := s.queue.Enqueue(ctx, job); err != nil {
			s.logger.Error(ctx, "failed to enqueue thumbnail job",
				"file_id", created.ID, "error", err)
		}
	}

	return created, nil
}

// GetFile returns the file metadata if the actor may read it. A private file
// of another user reads as common.ErrNotFound.
func (s *FileService) GetFile(ctx context.Context, actorID, fileID string) (*models.File, error) {
	file, err := s.files.GetByID(ctx, fileID)
	if err != nil {
		return nil, err
	}
	if !authz.Allowed(actorID, file, authz.Read) {
		return nil, common.ErrNotFound
	}
	return file, nil
}

// List returns one page of the caller's files under the given parent.
func (s *FileService) List(ctx context.Context, userID, parentID string, page int) ([]*models.File, error) {
	if page < 0 {
		page = 0
	}
	return s.files.ListByParent(ctx, userID, parentID, page, DefaultPageSize)
}

// SetVisibility publishes or unpublishes a file. Only the owner may change
// visibility; anyone else gets common.ErrNotFound.
func (s *FileService) SetVisibility(ctx context.Context, actorID, fileID string, public bool) (*models.File, error) {
	file, err := s.files.GetByID(ctx, fileID)
	if err != nil {
		return nil, err
	}
	if !authz.Allowed(actorID, file, authz.Write) {
		return nil, common.ErrNotFound
	}
	return s.files.SetVisibility(ctx, fileID, public)
}

// ReadContent returns the raw bytes of a file the actor may read, plus a
// content type inferred from the display name. When size names one of the
// thumbnail widths the derivative is served instead; a derivative that has
// not been generated yet reads as common.ErrNotFound. Any other size falls
// back to the original.
func (s *FileService) ReadContent(ctx context.Context, actorID, fileID string, size int) ([]byte, string, error) {
	file, err := s.files.GetByID(ctx, fileID)
	if err != nil {
		return nil, "", err
	}
	if !authz.Allowed(actorID, file, authz.Read) {
		return nil, "", common.ErrNotFound
	}
	if file.IsFolder() {
		return nil, "", common.ErrFolderHasNoContent
	}
	if file.StorageKey == "" {
		return nil, "", common.ErrNotFound
	}

	key := file.StorageKey
	if _, ok := thumbnailWidths[size]; ok {
		key = fmt.Sprintf("%s_%d", key, size)
	}

	data, err := s.blobs.Read(ctx, key)
	if err != nil {
		return nil, "", err
	}

	return data, contentTypeForName(file.Name), nil
}

// contentTypeForName infers a MIME type from the file name extension.
func contentTypeForName(name string) string {
	if t := mime.TypeByExtension(filepath.Ext(name)); t != "" {
		return t
	}
	return "application/octet-stream"
}
