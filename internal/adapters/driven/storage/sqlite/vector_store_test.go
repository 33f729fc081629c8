package sqlite

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/riskrag/internal/core/domain"
)

func indexEntry(id string, vec ...float32) domain.IndexEntry {
	return domain.IndexEntry{ChunkID: id, Text: "chunk " + id, SourceName: "plan.pdf", Embedding: vec}
}

func TestVectorStore_InsertIgnoresDuplicates(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	vectors := store.VectorStore()

	require.NoError(t, vectors.Insert(ctx, "default", []domain.IndexEntry{
		indexEntry("plan.pdf:1:0", 1, 0),
		indexEntry("plan.pdf:1:1", 0, 1),
	}))
	require.NoError(t, vectors.Insert(ctx, "default", []domain.IndexEntry{indexEntry("plan.pdf:1:0", 9, 9)}))
	require.NoError(t, vectors.Insert(ctx, "default", nil))

	count, err := vectors.Count(ctx, "default")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	existing, err := vectors.ExistingIDs(ctx, "default", []string{"plan.pdf:1:1", "plan.pdf:2:0"})
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"plan.pdf:1:1": true}, existing)

	// Original vector survives the duplicate insert.
	hits, err := vectors.Search(ctx, "default", []float32{1, 0}, 1)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "plan.pdf:1:0", hits[0].ChunkID)
	assert.InDelta(t, 1.0, hits[0].Score, 1e-6)
}

func TestVectorStore_ExistingIDsLargeBatch(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	vectors := store.VectorStore()

	var entries []domain.IndexEntry
	var ids []string
	for i := 0; i < 1200; i++ {
		id := fmt.Sprintf("plan.pdf:1:%d", i)
		ids = append(ids, id)
		if i%2 == 0 {
			entries = append(entries, indexEntry(id, 1, float32(i)))
		}
	}
	require.NoError(t, vectors.Insert(ctx, "default", entries))

	existing, err := vectors.ExistingIDs(ctx, "default", ids)
	require.NoError(t, err)
	assert.Len(t, existing, 600)
	assert.True(t, existing["plan.pdf:1:1198"])
	assert.False(t, existing["plan.pdf:1:1199"])
}

func TestVectorStore_SearchTiesKeepInsertionOrder(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	vectors := store.VectorStore()

	require.NoError(t, vectors.Insert(ctx, "default", []domain.IndexEntry{
		indexEntry("b", 2, 0),
		indexEntry("a", 1, 0),
		indexEntry("c", 0, 1),
	}))

	hits, err := vectors.Search(ctx, "default", []float32{1, 0}, 5)
	require.NoError(t, err)
	require.Len(t, hits, 3)
	assert.Equal(t, []string{"b", "a", "c"}, []string{hits[0].ChunkID, hits[1].ChunkID, hits[2].ChunkID})
	assert.Equal(t, "chunk b", hits[0].Text)
	assert.Equal(t, "plan.pdf", hits[0].SourceName)
}

func TestVectorStore_IndexesAreIsolated(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	vectors := store.VectorStore()

	require.NoError(t, vectors.Insert(ctx, "project:p1", []domain.IndexEntry{indexEntry("x", 1, 0)}))
	require.NoError(t, vectors.Insert(ctx, "project:p2", []domain.IndexEntry{indexEntry("x", 0, 1)}))

	require.NoError(t, vectors.Clear(ctx, "project:p1"))
	require.NoError(t, vectors.Clear(ctx, "never-created"))

	count, err := vectors.Count(ctx, "project:p1")
	require.NoError(t, err)
	assert.Zero(t, count)

	count, err = vectors.Count(ctx, "project:p2")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	hits, err := vectors.Search(ctx, "project:p1", []float32{1, 0}, 3)
	require.NoError(t, err)
	assert.Empty(t, hits)
}
