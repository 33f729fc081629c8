package services

import (
	"strconv"

	"github.com/custodia-labs/riskrag/internal/core/domain"
)

// AssignChunkIDs returns a copy of chunks with deterministic IDs of the form
// "{source}:{page}:{seq}". The sequence counter restarts at 0 whenever the
// (source, page) pair differs from the previous chunk's, so identical input
// order always yields identical IDs. The format is persisted; changing it
// invalidates dedup for already indexed chunks.
func AssignChunkIDs(chunks []domain.Chunk) []domain.Chunk {
	out := make([]domain.Chunk, len(chunks))

	var lastKey string
	seq := 0
	for i, chunk := range chunks {
		if chunk.PageNumber <= 0 {
			chunk.PageNumber = 1
		}
		key := chunk.SourceName + ":" + strconv.Itoa(chunk.PageNumber)
		if i > 0 && key == lastKey {
			seq++
		} else {
			seq = 0
		}
		lastKey = key

		chunk.SequenceIndex = seq
		chunk.ID = key + ":" + strconv.Itoa(seq)
		out[i] = chunk
	}

	return out
}
