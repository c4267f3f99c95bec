package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/ishaan2692/matchify/internal/extract"
	"github.com/ishaan2692/matchify/internal/model"
	"github.com/ishaan2692/matchify/internal/repository"
	"github.com/ishaan2692/matchify/internal/storage"
)

var (
	ErrIDRequired      = errors.New("id is required")
	ErrSessionRequired = errors.New("session id is required")
	ErrNotFound        = errors.New("document not found")
	ErrReaderNil       = errors.New("reader is nil")
	ErrUnsupportedType = errors.New("unsupported content type")
)

// DocumentListResult is the service-level DTO for paginated documents.
type DocumentListResult struct {
	Items []model.Document `json:"data"`
	Total int              `json:"total"`
}

// DocumentService defines the use cases for handling a session's resume
// files. Every operation is scoped to the owning session; a document is
// never visible outside the session that uploaded it.
type DocumentService interface {
	// Upload uploads the content to object storage, saves metadata to DB, and rolls back storage if DB save fails.
	// - originalFilename is kept for display; the storage key is UUID + original extension.
	Upload(ctx context.Context, sessionID string, r io.Reader, originalFilename string, contentType string, size int64) (*model.Document, error)

	// List returns the session's documents in upload order using limit/offset and a total count.
	List(ctx context.Context, sessionID string, limit, offset int) (*DocumentListResult, error)

	// Get returns a single document by its ID if the session owns it.
	Get(ctx context.Context, sessionID, id string) (*model.Document, error)

	// Delete removes a session-owned document from both storage and repository.
	Delete(ctx context.Context, sessionID, id string) error

	// PresignDownload returns a time-limited URL for a session-owned document.
	PresignDownload(ctx context.Context, sessionID, id string, expiry time.Duration) (string, error)

	// PurgeSession removes every object and row the session owns.
	PurgeSession(ctx context.Context, sessionID string) error
}

// documentService is a concrete implementation of DocumentService.
type documentService struct {
	store     storage.Storage
	repo      repository.DocumentRepository
	extractor extract.TextExtractor
}

// NewDocumentService constructs a new DocumentService.
func NewDocumentService(store storage.Storage, repo repository.DocumentRepository, extractor extract.TextExtractor) DocumentService {
	return &documentService{store: store, repo: repo, extractor: extractor}
}

func (s *documentService) Upload(ctx context.Context, sessionID string, r io.Reader, originalFilename string, contentType string, size int64) (*model.Document, error) {
	if sessionID == "" {
		return nil, ErrSessionRequired
	}
	if r == nil {
		return nil, ErrReaderNil
	}
	contentType = extract.ContentTypeFor(originalFilename, contentType)
	if !s.extractor.Supports(contentType) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, contentType)
	}

	// Generate filename using UUID + extension
	ext := filepath.Ext(originalFilename)
	genName := uuid.New().String() + ext
	key := filepath.ToSlash(filepath.Join("resumes", sessionID, genName))

	// Upload to object storage
	objInfo, err := s.store.Put(ctx, key, r, storage.PutObjectOptions{
		Size:        size,
		ContentType: contentType,
		Metadata: map[string]string{
			"original-filename": originalFilename,
			"session-id":        sessionID,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	// Save metadata to database
	doc := &model.Document{
		ID:          uuid.New().String(),
		SessionID:   sessionID,
		Filename:    originalFilename,
		StoragePath: objInfo.Key,
		Size:        objInfo.Size,
		ContentType: objInfo.ContentType,
		CreatedAt:   time.Now().UTC(),
	}
	stored, err := s.repo.Create(ctx, doc)
	if err != nil {
		// Rollback: delete the object from storage
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}
	return stored, nil
}

// List returns paginated documents without exposing repository types.
func (s *documentService) List(ctx context.Context, sessionID string, limit, offset int) (*DocumentListResult, error) {
	if sessionID == "" {
		return nil, ErrSessionRequired
	}
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	res, err := s.repo.ListBySession(ctx, sessionID, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &DocumentListResult{Items: res.Items, Total: res.Total}, nil
}

// Get returns a document by ID. A document owned by another session is
// reported as not found rather than leaking its existence.
func (s *documentService) Get(ctx context.Context, sessionID, id string) (*model.Document, error) {
	return s.owned(ctx, sessionID, id)
}

// Delete removes a document from storage, then deletes its record.
func (s *documentService) Delete(ctx context.Context, sessionID, id string) error {
	doc, err := s.owned(ctx, sessionID, id)
	if err != nil {
		return err
	}
	// Delete from storage first; if this fails, keep DB row to avoid orphaned storage reference loss
	if err := s.store.Delete(ctx, doc.StoragePath); err != nil {
		return fmt.Errorf("delete storage: %w", err)
	}
	// Delete DB row (repository ignores missing row errors as per contract)
	return s.repo.Delete(ctx, id)
}

// PresignDownload returns a pre-signed GET URL for a session-owned document.
// The URL restores the original filename; the storage key is an opaque UUID.
func (s *documentService) PresignDownload(ctx context.Context, sessionID, id string, expiry time.Duration) (string, error) {
	doc, err := s.owned(ctx, sessionID, id)
	if err != nil {
		return "", err
	}
	return s.store.PresignGet(ctx, doc.StoragePath, expiry, doc.Filename)
}

// PurgeSession deletes every object the session owns, then wipes its rows
// in one statement. If any object delete fails the rows are kept so a later
// purge can retry; object deletion is idempotent.
func (s *documentService) PurgeSession(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return ErrSessionRequired
	}
	docs, err := s.repo.AllBySession(ctx, sessionID)
	if err != nil {
		return err
	}
	var firstErr error
	for _, doc := range docs {
		if err := s.store.Delete(ctx, doc.StoragePath); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("delete storage %s: %w", doc.StoragePath, err)
		}
	}
	if firstErr != nil {
		return firstErr
	}
	return s.repo.DeleteBySession(ctx, sessionID)
}

func (s *documentService) owned(ctx context.Context, sessionID, id string) (*model.Document, error) {
	if sessionID == "" {
		return nil, ErrSessionRequired
	}
	if id == "" {
		return nil, ErrIDRequired
	}
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if doc.SessionID != sessionID {
		return nil, ErrNotFound
	}
	return doc, nil
}
