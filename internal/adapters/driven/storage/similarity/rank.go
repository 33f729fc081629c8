// Package similarity ranks index entries against a query vector.
// Vector stores load candidate entries in insertion order and hand them here.
package similarity

import (
	"sort"

	"github.com/viant/sqlite-vec/vector"

	"github.com/custodia-labs/riskrag/internal/core/domain"
)

// TopK returns at most k entries by descending cosine similarity to query.
// Entries with a different dimension or zero magnitude are skipped. Equal
// scores keep the order of entries, which callers pass in insertion order.
func TopK(entries []domain.IndexEntry, query []float32, k int) []domain.SearchHit {
	if k <= 0 || len(entries) == 0 {
		return nil
	}

	hits := make([]domain.SearchHit, 0, len(entries))
	for i := range entries {
		score, err := vector.CosineSimilarity(query, entries[i].Embedding)
		if err != nil {
			continue
		}
		hits = append(hits, domain.SearchHit{
			ChunkID:    entries[i].ChunkID,
			Text:       entries[i].Text,
			SourceName: entries[i].SourceName,
			Score:      score,
		})
	}

	sort.SliceStable(hits, func(a, b int) bool { return hits[a].Score > hits[b].Score })
	if len(hits) > k {
		hits = hits[:k]
	}
	return hits
}
