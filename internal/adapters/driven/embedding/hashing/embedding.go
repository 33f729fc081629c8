// Package hashing provides an in-process embedding service based on the
// hashing trick. It needs no model server, so it serves offline use and tests.
//
// Each lower-cased token is hashed into one of Dimensions buckets with a sign
// taken from a second hash bit. Vectors are L2-normalised term frequencies.
// Retrieval quality is lexical, not semantic.
package hashing

import (
	"context"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/custodia-labs/riskrag/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// Default configuration values.
const (
	DefaultDimensions = 512
	DefaultModel      = "hashing-512"
)

var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}]+(?:['’][\p{L}]+)*`)

// EmbeddingService embeds text without any external dependency.
type EmbeddingService struct {
	dimensions int
	model      string
}

// NewEmbeddingService creates a hashing embedder with the given dimensions.
// Non-positive dimensions use DefaultDimensions.
func NewEmbeddingService(dimensions int) *EmbeddingService {
	if dimensions <= 0 {
		dimensions = DefaultDimensions
	}
	model := DefaultModel
	if dimensions != DefaultDimensions {
		model = "hashing-" + strconv.Itoa(dimensions)
	}
	return &EmbeddingService{dimensions: dimensions, model: model}
}

// Embed returns the normalised hashed term-frequency vector of text.
// Text without tokens yields a zero vector.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	acc := make([]float64, s.dimensions)
	for _, token := range tokenPattern.FindAllString(strings.ToLower(text), -1) {
		h := xxhash.Sum64String(token)
		bucket := int(h % uint64(s.dimensions))
		if h>>63 == 1 {
			acc[bucket]--
		} else {
			acc[bucket]++
		}
	}

	var norm float64
	for _, v := range acc {
		norm += v * v
	}
	norm = math.Sqrt(norm)

	vec := make([]float32, s.dimensions)
	if norm == 0 {
		return vec, nil
	}
	for i, v := range acc {
		vec[i] = float32(v / norm)
	}
	return vec, nil
}

// EmbedBatch embeds each text in order.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := s.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

// Dimensions returns the embedding vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

// ModelName returns "hashing-{dimensions}".
func (s *EmbeddingService) ModelName() string {
	return s.model
}

// Ping always succeeds.
func (s *EmbeddingService) Ping(context.Context) error {
	return nil
}

// Close releases resources.
func (s *EmbeddingService) Close() error {
	return nil
}

