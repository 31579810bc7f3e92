package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"slices"
	"time"

	"github.com/dmitrijs2005/filesmanager/internal/common"
	"github.com/dmitrijs2005/filesmanager/internal/logging"
	"github.com/dmitrijs2005/filesmanager/internal/server/blobstore"
	"github.com/dmitrijs2005/filesmanager/internal/server/models"
	"github.com/dmitrijs2005/filesmanager/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/filesmanager/internal/server/thumbnails"
	"github.com/google/uuid"
)

// JobEnqueuer submits thumbnail jobs without waiting for them.
type JobEnqueuer interface {
	Enqueue(ctx context.Context, job models.ThumbnailJob) error
}

type CreateFileRequest struct {
	OwnerID  string
	Name     string
	Type     models.FileType
	ParentID string
	// Data is the base64 encoded content; ignored for folders.
	Data     string
	IsPublic bool
}

// Content is the payload of a file together with its content type.
type Content struct {
	Data     []byte
	MimeType string
}

type FileService struct {
	repomanager repomanager.RepositoryManager
	blobs       blobstore.Store
	jobs        JobEnqueuer
	logger      logging.Logger
	now         func() time.Time
}

func NewFileService(m repomanager.RepositoryManager, blobs blobstore.Store, jobs JobEnqueuer, logger logging.Logger) *FileService {
	return &FileService{
		repomanager: m,
		blobs:       blobs,
		jobs:        jobs,
		logger:      logger.With("module", "files"),
		now:         time.Now,
	}
}

func (s *FileService) CreateFolder(ctx context.Context, ownerID, name, parentID string) (*models.File, error) {
	return s.CreateFile(ctx, CreateFileRequest{
		OwnerID:  ownerID,
		Name:     name,
		Type:     models.FileTypeFolder,
		ParentID: parentID,
	})
}

// CreateFile stores the content first and the metadata second, so a record
// never points at a missing blob. Images are queued for thumbnails once
// their record exists.
func (s *FileService) CreateFile(ctx context.Context, req CreateFileRequest) (*models.File, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("%w: missing name", common.ErrValidation)
	}
	if !req.Type.Valid() {
		return nil, fmt.Errorf("%w: missing type", common.ErrValidation)
	}

	var data []byte
	if req.Type.HasContent() {
		if req.Data == "" {
			return nil, fmt.Errorf("%w: missing data", common.ErrValidation)
		}
		var err error
		data, err = base64.StdEncoding.DecodeString(req.Data)
		if err != nil {
			return nil, fmt.Errorf("%w: data is not valid base64", common.ErrValidation)
		}
	}

	parentID := req.ParentID
	if parentID == "" {
		parentID = common.RootParentID
	}
	parentID, err := s.checkParent(ctx, req.OwnerID, parentID)
	if err != nil {
		return nil, err
	}

	file := &models.File{
		ID:        uuid.NewString(),
		UserID:    req.OwnerID,
		Name:      req.Name,
		Type:      req.Type,
		ParentID:  parentID,
		IsPublic:  req.IsPublic,
		CreatedAt: s.now().UTC(),
	}

	if req.Type.HasContent() {
		file.BlobRef = uuid.NewString()
		if err := s.blobs.Write(ctx, file.BlobRef, data); err != nil {
			return nil, fmt.Errorf("error storing content: %w", err)
		}
	}

	created, err := s.repomanager.Files().Create(ctx, file)
	if err != nil {
		if file.BlobRef != "" {
			s.logger.Warn(ctx, "orphaned blob", "blob_ref", file.BlobRef, "error", err)
		}
		return nil, fmt.Errorf("error creating file: %w", err)
	}

	if created.Type == models.FileTypeImage {
		job := models.ThumbnailJob{FileID: created.ID, UserID: created.UserID, SubmittedAt: s.now().UTC()}
		if err := s.jobs.Enqueue(ctx, job); err != nil {
			// the upload itself succeeded; only its thumbnails will be missing
			s.logger.Error(ctx, "thumbnail job not queued", "file_id", created.ID, "error", err)
		}
	}

	return created, nil
}

// checkParent returns the canonical form of parentID once it is known to be
// a folder of ownerID.
func (s *FileService) checkParent(ctx context.Context, ownerID, parentID string) (string, error) {
	if parentID == common.RootParentID {
		return parentID, nil
	}
	id, ok := canonicalID(parentID)
	if !ok {
		return "", common.ErrParentNotFound
	}

	parent, err := s.repomanager.Files().GetByOwner(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrParentNotFound
		}
		return "", fmt.Errorf("error loading parent: %w", err)
	}
	if parent.Type != models.FileTypeFolder {
		return "", common.ErrParentNotAFolder
	}
	return id, nil
}

// GetByID returns the owner's node. Malformed, missing and foreign ids all
// yield common.ErrorNotFound.
func (s *FileService) GetByID(ctx context.Context, ownerID, fileID string) (*models.File, error) {
	id, ok := canonicalID(fileID)
	if !ok {
		return nil, common.ErrorNotFound
	}

	file, err := s.repomanager.Files().GetByOwner(ctx, ownerID, id)
	if err != nil {
		return nil, notFoundOr(err, "error loading file")
	}
	return file, nil
}

// List returns one page of the direct children of parentID. Negative pages
// are read as the first one.
func (s *FileService) List(ctx context.Context, ownerID, parentID string, page int) ([]*models.File, error) {
	if parentID == "" {
		parentID = common.RootParentID
	}
	if id, ok := canonicalID(parentID); ok {
		parentID = id
	}
	page = max(page, 0)

	nodes, err := s.repomanager.Files().ListByParent(ctx, ownerID, parentID, page*common.PageSize, common.PageSize)
	if err != nil {
		return nil, fmt.Errorf("error listing files: %w", err)
	}
	return nodes, nil
}

func (s *FileService) SetPublic(ctx context.Context, ownerID, fileID string, value bool) (*models.File, error) {
	id, ok := canonicalID(fileID)
	if !ok {
		return nil, common.ErrorNotFound
	}

	file, err := s.repomanager.Files().SetPublic(ctx, ownerID, id, value)
	if err != nil {
		return nil, notFoundOr(err, "error updating file")
	}
	return file, nil
}

// ReadContent returns the content of a file, or of one of its thumbnails
// when size is non-zero. requesterID is empty for anonymous callers, who
// only see public files.
func (s *FileService) ReadContent(ctx context.Context, requesterID, fileID string, size int) (*Content, error) {
	if size != 0 && !slices.Contains(common.ThumbnailWidths, size) {
		return nil, fmt.Errorf("%w: unsupported size %d", common.ErrValidation, size)
	}
	id, ok := canonicalID(fileID)
	if !ok {
		return nil, common.ErrorNotFound
	}

	file, err := s.repomanager.Files().GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "error loading file")
	}
	if !file.IsPublic && (requesterID == "" || requesterID != file.UserID) {
		return nil, common.ErrorNotFound
	}
	if !file.Type.HasContent() {
		return nil, common.ErrFolderHasNoContent
	}

	key := file.BlobRef
	if size != 0 {
		key = thumbnails.Key(file.BlobRef, size)
	}

	exists, err := s.blobs.Exists(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("error checking content: %w", err)
	}
	if !exists {
		s.logger.Warn(ctx, "blob missing", "file_id", file.ID, "blob_ref", key)
		return nil, common.ErrorNotFound
	}

	mimeType := mime.TypeByExtension(filepath.Ext(file.Name))
	if mimeType == "" {
		return nil, common.ErrUnknownMimeType
	}
	if size != 0 {
		mimeType = thumbnails.RenditionMimeType(mimeType)
	}

	data, err := s.blobs.Read(ctx, key)
	if err != nil {
		return nil, notFoundOr(err, "error reading content")
	}

	return &Content{Data: data, MimeType: mimeType}, nil
}

// canonicalID parses id and returns its lowercase hyphenated form. Stored ids
// and parent references are always canonical, so lookups must be too.
func canonicalID(id string) (string, bool) {
	u, err := uuid.Parse(id)
	if err != nil {
		return "", false
	}
	return u.String(), true
}

func notFoundOr(err error, msg string) error {
	if errors.Is(err, common.ErrorNotFound) {
		return common.ErrorNotFound
	}
	return fmt.Errorf("%s: %w", msg, err)
}
