package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/riskrag/internal/core/domain"
	"github.com/custodia-labs/riskrag/internal/core/ports/driven"
	"github.com/custodia-labs/riskrag/internal/logger"
)

// Index names.
const (
	// SharedIndexName is the single index used by full-rebuild runs.
	SharedIndexName = "default"

	projectIndexPrefix = "project:"
)

// ProjectIndexName returns the per-project index name used in incremental mode.
func ProjectIndexName(projectID string) string {
	return projectIndexPrefix + projectID
}

// VectorIndex is a handle on one named index. It acts as a content-addressed
// cache over embeddings: chunk IDs are the dedup key, so only chunks never
// seen before reach the embedding service.
type VectorIndex struct {
	name     string
	store    driven.VectorStore
	embedder driven.EmbeddingService
}

// NewVectorIndex creates a handle on the named index.
func NewVectorIndex(name string, store driven.VectorStore, embedder driven.EmbeddingService) *VectorIndex {
	return &VectorIndex{
		name:     name,
		store:    store,
		embedder: embedder,
	}
}

// Name returns the index name.
func (ix *VectorIndex) Name() string {
	return ix.name
}

// AddIfAbsent embeds and stores the chunks whose IDs are not yet in the index.
// All new chunks go to the embedding service in one batch. Returns how many
// were added; repeated IDs within chunks count once.
func (ix *VectorIndex) AddIfAbsent(ctx context.Context, chunks []domain.Chunk) (int, error) {
	if len(chunks) == 0 {
		return 0, nil
	}
	if ix.embedder == nil {
		return 0, domain.ErrEmbeddingUnavailable
	}

	ids := make([]string, 0, len(chunks))
	for i := range chunks {
		if chunks[i].ID == "" {
			return 0, fmt.Errorf("%w: chunk %d has no id", domain.ErrInvalidInput, i)
		}
		ids = append(ids, chunks[i].ID)
	}

	existing, err := ix.store.ExistingIDs(ctx, ix.name, ids)
	if err != nil {
		return 0, fmt.Errorf("check existing chunks: %w", err)
	}

	seen := make(map[string]bool, len(chunks))
	fresh := make([]domain.Chunk, 0, len(chunks))
	for _, chunk := range chunks {
		if existing[chunk.ID] || seen[chunk.ID] {
			continue
		}
		seen[chunk.ID] = true
		fresh = append(fresh, chunk)
	}

	if len(fresh) == 0 {
		logger.Info("no new chunks to add", "index", ix.name, "existing", len(existing))
		return 0, nil
	}

	texts := make([]string, len(fresh))
	for i := range fresh {
		texts[i] = fresh[i].Text
	}
	vectors, err := ix.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", domain.ErrEmbedding, err)
	}
	if len(vectors) != len(fresh) {
		return 0, fmt.Errorf("%w: got %d vectors for %d chunks", domain.ErrEmbedding, len(vectors), len(fresh))
	}

	entries := make([]domain.IndexEntry, len(fresh))
	for i, chunk := range fresh {
		entries[i] = domain.IndexEntry{
			ChunkID:    chunk.ID,
			Text:       chunk.Text,
			SourceName: chunk.SourceName,
			Embedding:  vectors[i],
		}
	}
	if err := ix.store.Insert(ctx, ix.name, entries); err != nil {
		return 0, fmt.Errorf("store chunks: %w", err)
	}

	logger.Info("added chunks to index", "index", ix.name, "added", len(entries), "existing", len(existing))
	return len(entries), nil
}

// Query returns at most k stored chunks closest to text, most similar first.
func (ix *VectorIndex) Query(ctx context.Context, text string, k int) ([]domain.SearchHit, error) {
	if k <= 0 {
		return nil, nil
	}
	if ix.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}

	query, err := ix.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbedding, err)
	}

	hits, err := ix.store.Search(ctx, ix.name, query, k)
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}
	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// Clear removes every entry. Clearing an empty or missing index succeeds.
func (ix *VectorIndex) Clear(ctx context.Context) error {
	if err := ix.store.Clear(ctx, ix.name); err != nil {
		return fmt.Errorf("clear index %s: %w", ix.name, err)
	}
	return nil
}

// Count returns the number of stored entries.
func (ix *VectorIndex) Count(ctx context.Context) (int, error) {
	return ix.store.Count(ctx, ix.name)
}
