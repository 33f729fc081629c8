package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/riskrag/internal/core/domain"
	"github.com/custodia-labs/riskrag/internal/core/ports/driven"
	"github.com/custodia-labs/riskrag/internal/core/ports/driving"
)

// Ensure ProjectService implements the interface.
var _ driving.ProjectService = (*ProjectService)(nil)

// ProjectService manages projects.
type ProjectService struct {
	store   driven.ProjectStore
	vectors driven.VectorStore
}

// NewProjectService creates a new project service.
// vectors is optional; when set, deleting a project also drops its index.
func NewProjectService(store driven.ProjectStore, vectors driven.VectorStore) *ProjectService {
	return &ProjectService{
		store:   store,
		vectors: vectors,
	}
}

// Create validates and stores a new project.
func (s *ProjectService) Create(ctx context.Context, project *domain.Project) error {
	if project == nil {
		return fmt.Errorf("%w: nil project", domain.ErrInvalidInput)
	}
	if err := project.Validate(); err != nil {
		return fmt.Errorf("validate project: %w", err)
	}

	project.ID = uuid.New().String()
	if project.CreatedAt.IsZero() {
		project.CreatedAt = time.Now()
	}

	return s.store.Save(ctx, project)
}

// Get retrieves a project by ID.
func (s *ProjectService) Get(ctx context.Context, id string) (*domain.Project, error) {
	return s.store.Get(ctx, id)
}

// List returns all projects.
func (s *ProjectService) List(ctx context.Context) ([]domain.Project, error) {
	return s.store.List(ctx)
}

// Delete removes a project with its documents, reports and index.
func (s *ProjectService) Delete(ctx context.Context, id string) error {
	if _, err := s.store.Get(ctx, id); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	if s.vectors != nil {
		if err := s.vectors.Clear(ctx, ProjectIndexName(id)); err != nil {
			return fmt.Errorf("clear project index: %w", err)
		}
	}
	return nil
}
