package driving

import (
	"context"

	"github.com/custodia-labs/riskrag/internal/core/domain"
)

// ProjectService manages projects.
type ProjectService interface {
	// Create validates and stores a new project, assigning its ID.
	Create(ctx context.Context, project *domain.Project) error

	// Get retrieves a project by ID.
	Get(ctx context.Context, id string) (*domain.Project, error)

	// List returns all projects.
	List(ctx context.Context) ([]domain.Project, error)

	// Delete removes a project together with its documents and reports.
	Delete(ctx context.Context, id string) error
}
