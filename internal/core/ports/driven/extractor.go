package driven

import (
	"context"

	"github.com/custodia-labs/riskrag/internal/core/domain"
)

// TextExtractor turns binary document content into page text.
type TextExtractor interface {
	// Extract returns the pages of data in physical order.
	// Unparseable input fails with *domain.ExtractionError naming the document.
	Extract(ctx context.Context, name string, data []byte) ([]domain.Page, error)
}
