package driving

import (
	"context"

	"github.com/custodia-labs/riskrag/internal/core/domain"
)

// ReportService generates and lists risk reports.
type ReportService interface {
	// Generate builds the index for a project, elicits risks and stores the
	// rendered report. Runs are serialised; a second caller waits its turn.
	Generate(ctx context.Context, projectID string) (*domain.Report, error)

	// TryGenerate is Generate that fails with domain.ErrReportInProgress
	// instead of waiting.
	TryGenerate(ctx context.Context, projectID string) (*domain.Report, error)

	// List returns a project's reports without payloads.
	List(ctx context.Context, projectID string) ([]domain.Report, error)
}

// QueryService answers free-text questions over a project's documents.
type QueryService interface {
	// Ask indexes the project and returns the model's raw answer.
	Ask(ctx context.Context, projectID, question string) (string, error)
}
