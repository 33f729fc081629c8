package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/riskrag/internal/core/domain"
	"github.com/custodia-labs/riskrag/internal/core/ports/driven"
	"github.com/custodia-labs/riskrag/internal/core/ports/driving"
	"github.com/custodia-labs/riskrag/internal/logger"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// importConcurrency bounds parallel file reads during folder import.
const importConcurrency = 4

// DocumentService manages uploaded documents and stored files.
type DocumentService struct {
	projects  driven.ProjectStore
	documents driven.DocumentStore
	files     driven.FileStore
	vectors   driven.VectorStore
}

// NewDocumentService creates a new document service.
// vectors is optional; when set, any change to a project's documents drops
// the project's incremental index so the next run rebuilds it.
func NewDocumentService(
	projects driven.ProjectStore,
	documents driven.DocumentStore,
	files driven.FileStore,
	vectors driven.VectorStore,
) *DocumentService {
	return &DocumentService{
		projects:  projects,
		documents: documents,
		files:     files,
		vectors:   vectors,
	}
}

// Add stores a payload under name in the project.
func (s *DocumentService) Add(ctx context.Context, projectID, name string, data []byte) (*domain.Document, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: document name is required", domain.ErrInvalidInput)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", domain.ErrInvalidInput, name)
	}
	if _, err := s.projects.Get(ctx, projectID); err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}

	doc := &domain.Document{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Name:      name,
		Data:      data,
		Size:      int64(len(data)),
		CreatedAt: time.Now(),
	}
	// Chunk IDs are derived from names, so a re-upload under the same name
	// would otherwise keep serving the old text.
	if err := s.invalidateIndex(ctx, projectID); err != nil {
		return nil, err
	}
	if err := s.documents.SaveDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("save document: %w", err)
	}

	logger.Info("document added", "project", projectID, "document", name, "bytes", doc.Size)
	return doc, nil
}

// AddFile reads path and stores it under its base name.
func (s *DocumentService) AddFile(ctx context.Context, projectID, path string) (*domain.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return s.Add(ctx, projectID, filepath.Base(path), data)
}

// ImportFolder stores every PDF directly inside dir. Files are read in
// parallel; failures are collected per file and do not stop the import.
func (s *DocumentService) ImportFolder(ctx context.Context, projectID, dir string) (*driving.ImportResult, error) {
	if _, err := s.projects.Get(ctx, projectID); err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read folder: %w", err)
	}

	result := &driving.ImportResult{}
	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !IsPDFName(entry.Name()) {
			result.Skipped = append(result.Skipped, entry.Name())
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}

	imported := make([]*domain.Document, len(paths))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(importConcurrency)
	for i, path := range paths {
		g.Go(func() error {
			doc, err := s.AddFile(gctx, projectID, path)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				mu.Lock()
				result.Errors = append(result.Errors, err)
				mu.Unlock()
				return nil
			}
			imported[i] = doc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, doc := range imported {
		if doc != nil {
			result.Imported = append(result.Imported, *doc)
		}
	}
	return result, nil
}

// WatchFolder imports PDFs as they are created or rewritten in dir until ctx
// is cancelled. onImport, if set, is called after each stored document.
// Deleted files are ignored; stored documents are never removed by a watch.
func (s *DocumentService) WatchFolder(
	ctx context.Context,
	watcher driven.FolderWatcher,
	projectID, dir string,
	onImport func(*domain.Document),
) error {
	if _, err := s.projects.Get(ctx, projectID); err != nil {
		return fmt.Errorf("get project: %w", err)
	}

	events, err := watcher.Watch(ctx, dir)
	if err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	for event := range events {
		if event.Operation == driven.FileDeleted || !IsPDFName(event.Path) {
			continue
		}
		doc, err := s.AddFile(ctx, projectID, event.Path)
		if err != nil {
			logger.Warn("failed to import watched file", "path", event.Path, "error", err)
			continue
		}
		if onImport != nil {
			onImport(doc)
		}
	}
	return nil
}

// List returns a project's documents without payloads.
func (s *DocumentService) List(ctx context.Context, projectID string) ([]domain.Document, error) {
	if _, err := s.projects.Get(ctx, projectID); err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}
	return s.documents.ListDocumentSummaries(ctx, projectID)
}

// GetFile returns the name and bytes of a stored document or report.
func (s *DocumentService) GetFile(ctx context.Context, id string, kind domain.FileKind) (*domain.StoredFile, error) {
	if !kind.IsValid() {
		return nil, fmt.Errorf("%w: unknown file kind %q", domain.ErrInvalidInput, kind)
	}
	return s.files.GetBytes(ctx, id, kind)
}

// Delete removes a document.
func (s *DocumentService) Delete(ctx context.Context, id string) error {
	doc, err := s.documents.GetDocument(ctx, id)
	if err != nil {
		return fmt.Errorf("get document: %w", err)
	}
	if err := s.invalidateIndex(ctx, doc.ProjectID); err != nil {
		return err
	}
	if err := s.documents.DeleteDocument(ctx, id); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}

	logger.Info("document deleted", "project", doc.ProjectID, "document", doc.Name)
	return nil
}

// invalidateIndex drops the project's incremental index. It runs before the
// store changes, so a failure leaves at worst an empty index.
func (s *DocumentService) invalidateIndex(ctx context.Context, projectID string) error {
	if s.vectors == nil {
		return nil
	}
	if err := s.vectors.Clear(ctx, ProjectIndexName(projectID)); err != nil {
		return fmt.Errorf("drop index for project %s: %w", projectID, err)
	}
	return nil
}

// IsPDFName reports whether a file name has a .pdf extension.
func IsPDFName(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".pdf")
}
