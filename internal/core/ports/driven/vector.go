package driven

import (
	"context"

	"github.com/custodia-labs/riskrag/internal/core/domain"
)

// VectorStore persists index entries and answers similarity queries.
// Every operation is scoped to a named index so several logical indexes
// can live in one store without interfering.
type VectorStore interface {
	// ExistingIDs reports which of the given chunk IDs are already stored in the index.
	ExistingIDs(ctx context.Context, index string, ids []string) (map[string]bool, error)

	// Insert stores new entries in one batch. Entries already present are left untouched.
	Insert(ctx context.Context, index string, entries []domain.IndexEntry) error

	// Search returns at most k entries ranked by cosine similarity to query,
	// most similar first. Ties keep insertion order.
	Search(ctx context.Context, index string, query []float32, k int) ([]domain.SearchHit, error)

	// Count returns how many entries the index holds.
	Count(ctx context.Context, index string) (int, error)

	// Clear removes every entry of the index. Clearing a missing index is not an error.
	Clear(ctx context.Context, index string) error
}
