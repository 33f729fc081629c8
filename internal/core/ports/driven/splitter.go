package driven

import "github.com/custodia-labs/riskrag/internal/core/domain"

// ChunkSplitter cuts extracted page text into chunks without IDs.
// Output order follows input order, left to right within each page.
type ChunkSplitter interface {
	Split(pages []domain.PageText) []domain.Chunk
}
