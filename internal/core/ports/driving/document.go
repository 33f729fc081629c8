package driving

import (
	"context"

	"github.com/custodia-labs/riskrag/internal/core/domain"
	"github.com/custodia-labs/riskrag/internal/core/ports/driven"
)

// DocumentService manages uploaded documents and stored files.
type DocumentService interface {
	// Add stores a PDF payload under the given name.
	Add(ctx context.Context, projectID, name string, data []byte) (*domain.Document, error)

	// AddFile reads a PDF from disk and stores it under its base name.
	AddFile(ctx context.Context, projectID, path string) (*domain.Document, error)

	// ImportFolder stores every PDF found directly inside dir.
	ImportFolder(ctx context.Context, projectID, dir string) (*ImportResult, error)

	// WatchFolder imports PDFs written to dir until ctx is cancelled.
	WatchFolder(ctx context.Context, watcher driven.FolderWatcher, projectID, dir string,
		onImport func(*domain.Document)) error

	// List returns a project's documents without payloads.
	List(ctx context.Context, projectID string) ([]domain.Document, error)

	// GetFile returns the name and bytes of a stored document or report.
	GetFile(ctx context.Context, id string, kind domain.FileKind) (*domain.StoredFile, error)

	// Delete removes a document.
	Delete(ctx context.Context, id string) error
}

// ImportResult summarises a folder import.
type ImportResult struct {
	// Imported lists the stored documents in file name order.
	Imported []domain.Document

	// Skipped lists files that were ignored because they are not PDFs.
	Skipped []string

	// Errors holds per-file failures. The import continues past them.
	Errors []error
}
