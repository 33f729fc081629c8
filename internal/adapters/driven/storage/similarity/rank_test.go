package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/riskrag/internal/core/domain"
)

func entry(id string, vec ...float32) domain.IndexEntry {
	return domain.IndexEntry{ChunkID: id, Text: "text " + id, SourceName: "a.pdf", Embedding: vec}
}

func TestTopK(t *testing.T) {
	entries := []domain.IndexEntry{
		entry("far", 0, 1),
		entry("near", 1, 0.1),
		entry("exact", 1, 0),
		entry("mid", 1, 1),
	}

	t.Run("ranks by similarity", func(t *testing.T) {
		hits := TopK(entries, []float32{1, 0}, 10)

		require.Len(t, hits, 4)
		assert.Equal(t, []string{"exact", "near", "mid", "far"}, ids(hits))
		assert.InDelta(t, 1.0, hits[0].Score, 1e-9)
		assert.Equal(t, "text exact", hits[0].Text)
	})

	t.Run("bounded by k", func(t *testing.T) {
		assert.Len(t, TopK(entries, []float32{1, 0}, 2), 2)
		assert.Empty(t, TopK(entries, []float32{1, 0}, 0))
	})

	t.Run("ties keep insertion order", func(t *testing.T) {
		tied := []domain.IndexEntry{entry("first", 2, 0), entry("second", 1, 0), entry("third", 3, 0)}

		hits := TopK(tied, []float32{1, 0}, 3)

		assert.Equal(t, []string{"first", "second", "third"}, ids(hits))
	})

	t.Run("skips mismatched and zero vectors", func(t *testing.T) {
		mixed := []domain.IndexEntry{entry("short", 1), entry("zero", 0, 0), entry("ok", 0, 1)}

		hits := TopK(mixed, []float32{0, 1}, 5)

		assert.Equal(t, []string{"ok"}, ids(hits))
	})

	t.Run("zero query matches nothing", func(t *testing.T) {
		assert.Empty(t, TopK(entries, []float32{0, 0}, 5))
	})
}

func ids(hits []domain.SearchHit) []string {
	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = h.ChunkID
	}
	return out
}
