package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/viant/sqlite-vec/vector"

	"github.com/custodia-labs/riskrag/internal/adapters/driven/storage/similarity"
	"github.com/custodia-labs/riskrag/internal/core/domain"
	"github.com/custodia-labs/riskrag/internal/core/ports/driven"
)

// existingIDsBatch bounds the number of bound parameters per lookup.
const existingIDsBatch = 500

// vectorStore implements driven.VectorStore over the index_entries table.
// Ranking is brute force: entries of the index are loaded in insertion order.
type vectorStore struct {
	store *Store
}

var _ driven.VectorStore = (*vectorStore)(nil)

// ExistingIDs reports which of ids are stored in the index.
func (s *vectorStore) ExistingIDs(ctx context.Context, index string, ids []string) (map[string]bool, error) {
	found := make(map[string]bool)
	for start := 0; start < len(ids); start += existingIDsBatch {
		end := min(start+existingIDsBatch, len(ids))
		batch := ids[start:end]

		args := make([]any, 0, len(batch)+1)
		args = append(args, index)
		for _, id := range batch {
			args = append(args, id)
		}
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(batch)), ",")

		rows, err := s.store.db.QueryContext(ctx,
			"SELECT chunk_id FROM index_entries WHERE index_name = ? AND chunk_id IN ("+placeholders+")",
			args...)
		if err != nil {
			return nil, storageErr("looking up index entries", err)
		}
		for rows.Next() {
			var id string
			if err := rows.Scan(&id); err != nil {
				rows.Close()
				return nil, storageErr("scanning index entry", err)
			}
			found[id] = true
		}
		err = rows.Err()
		rows.Close()
		if err != nil {
			return nil, storageErr("iterating index entries", err)
		}
	}
	return found, nil
}

// Insert stores entries in one transaction. Existing chunk ids are ignored.
func (s *vectorStore) Insert(ctx context.Context, index string, entries []domain.IndexEntry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return storageErr("beginning transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO index_entries (index_name, chunk_id, text, source_name, embedding)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(index_name, chunk_id) DO NOTHING
	`)
	if err != nil {
		return storageErr("preparing insert", err)
	}
	defer stmt.Close()

	for _, entry := range entries {
		blob, err := vector.EncodeEmbedding(entry.Embedding)
		if err != nil {
			return fmt.Errorf("%w: encoding embedding for %s: %w", domain.ErrStorage, entry.ChunkID, err)
		}
		if _, err := stmt.ExecContext(ctx, index, entry.ChunkID, entry.Text, entry.SourceName, nonNilBytes(blob)); err != nil {
			return storageErr("inserting index entry", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return storageErr("committing index entries", err)
	}
	return nil
}

// Search ranks the index's entries by cosine similarity to query.
func (s *vectorStore) Search(ctx context.Context, index string, query []float32, k int) ([]domain.SearchHit, error) {
	if k <= 0 {
		return nil, nil
	}

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT chunk_id, text, source_name, embedding
		FROM index_entries WHERE index_name = ?
		ORDER BY seq
	`, index)
	if err != nil {
		return nil, storageErr("loading index entries", err)
	}
	defer rows.Close()

	var entries []domain.IndexEntry
	for rows.Next() {
		var entry domain.IndexEntry
		var blob []byte
		if err := rows.Scan(&entry.ChunkID, &entry.Text, &entry.SourceName, &blob); err != nil {
			return nil, storageErr("scanning index entry", err)
		}
		entry.Embedding, err = vector.DecodeEmbedding(blob)
		if err != nil {
			return nil, fmt.Errorf("%w: decoding embedding for %s: %w", domain.ErrStorage, entry.ChunkID, err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterating index entries", err)
	}

	return similarity.TopK(entries, query, k), nil
}

// Count returns how many entries the index holds.
func (s *vectorStore) Count(ctx context.Context, index string) (int, error) {
	var count int
	row := s.store.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM index_entries WHERE index_name = ?", index)
	if err := row.Scan(&count); err != nil {
		return 0, storageErr("counting index entries", err)
	}
	return count, nil
}

// Clear removes every entry of the index.
func (s *vectorStore) Clear(ctx context.Context, index string) error {
	if _, err := s.store.db.ExecContext(ctx, "DELETE FROM index_entries WHERE index_name = ?", index); err != nil {
		return storageErr("clearing index", err)
	}
	return nil
}
