package driven

import (
	"context"

	"github.com/custodia-labs/riskrag/internal/core/domain"
)

// ReportRenderer turns parsed risks into a self-contained document.
type ReportRenderer interface {
	// Render produces the document bytes. An empty risk list yields a
	// title-only document, not an error.
	Render(ctx context.Context, risks []domain.RiskRecord, generatedDate string) ([]byte, error)
}
