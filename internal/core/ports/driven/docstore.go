package driven

import (
	"context"

	"github.com/custodia-labs/riskrag/internal/core/domain"
)

// ProjectStore persists projects.
type ProjectStore interface {
	// Save stores or updates a project.
	Save(ctx context.Context, project *domain.Project) error

	// Get retrieves a project by ID.
	Get(ctx context.Context, id string) (*domain.Project, error)

	// List returns all projects ordered by title.
	List(ctx context.Context) ([]domain.Project, error)

	// Delete removes a project with its documents and reports.
	Delete(ctx context.Context, id string) error
}

// DocumentStore persists uploaded documents.
type DocumentStore interface {
	// SaveDocument stores a document with its bytes.
	SaveDocument(ctx context.Context, doc *domain.Document) error

	// GetDocument retrieves a document with its bytes.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// ListDocuments returns a project's documents with their bytes, oldest first.
	ListDocuments(ctx context.Context, projectID string) ([]domain.Document, error)

	// ListDocumentSummaries is ListDocuments without payloads.
	ListDocumentSummaries(ctx context.Context, projectID string) ([]domain.Document, error)

	// DeleteDocument removes a document.
	DeleteDocument(ctx context.Context, id string) error
}

// ReportStore persists generated reports.
type ReportStore interface {
	// SaveReport stores a rendered report.
	SaveReport(ctx context.Context, report *domain.Report) error

	// GetReport retrieves a report with its bytes.
	GetReport(ctx context.Context, id string) (*domain.Report, error)

	// ListReports returns a project's reports without payloads, newest first.
	ListReports(ctx context.Context, projectID string) ([]domain.Report, error)
}

// FileStore fetches stored payloads of either kind by ID.
type FileStore interface {
	// GetBytes returns the name and bytes of a document or report.
	// Returns domain.ErrNotFound when no such entry exists.
	GetBytes(ctx context.Context, id string, kind domain.FileKind) (*domain.StoredFile, error)
}
