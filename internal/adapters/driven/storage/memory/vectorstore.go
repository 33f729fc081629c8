package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/riskrag/internal/adapters/driven/storage/similarity"
	"github.com/custodia-labs/riskrag/internal/core/domain"
	"github.com/custodia-labs/riskrag/internal/core/ports/driven"
)

// Ensure VectorStore implements the interface.
var _ driven.VectorStore = (*VectorStore)(nil)

// VectorStore keeps index entries in insertion order per index name.
type VectorStore struct {
	mu      sync.RWMutex
	indexes map[string]*memoryIndex
}

type memoryIndex struct {
	entries []domain.IndexEntry
	ids     map[string]bool
}

// NewVectorStore creates an empty vector store.
func NewVectorStore() *VectorStore {
	return &VectorStore{indexes: make(map[string]*memoryIndex)}
}

// ExistingIDs reports which ids are stored in the index.
func (v *VectorStore) ExistingIDs(_ context.Context, index string, ids []string) (map[string]bool, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	found := make(map[string]bool)
	ix, ok := v.indexes[index]
	if !ok {
		return found, nil
	}
	for _, id := range ids {
		if ix.ids[id] {
			found[id] = true
		}
	}
	return found, nil
}

// Insert appends entries not yet present.
func (v *VectorStore) Insert(_ context.Context, index string, entries []domain.IndexEntry) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	ix, ok := v.indexes[index]
	if !ok {
		ix = &memoryIndex{ids: make(map[string]bool)}
		v.indexes[index] = ix
	}
	for _, entry := range entries {
		if ix.ids[entry.ChunkID] {
			continue
		}
		entry.Embedding = append([]float32(nil), entry.Embedding...)
		ix.entries = append(ix.entries, entry)
		ix.ids[entry.ChunkID] = true
	}
	return nil
}

// Search ranks the index's entries against query.
func (v *VectorStore) Search(_ context.Context, index string, query []float32, k int) ([]domain.SearchHit, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	ix, ok := v.indexes[index]
	if !ok {
		return nil, nil
	}
	return similarity.TopK(ix.entries, query, k), nil
}

// Count returns the number of entries in the index.
func (v *VectorStore) Count(_ context.Context, index string) (int, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if ix, ok := v.indexes[index]; ok {
		return len(ix.entries), nil
	}
	return 0, nil
}

// Clear drops the index.
func (v *VectorStore) Clear(_ context.Context, index string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	delete(v.indexes, index)
	return nil
}
