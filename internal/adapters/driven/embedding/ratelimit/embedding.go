// Package ratelimit throttles calls to a remote embedding service.
package ratelimit

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/riskrag/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// DefaultBurst lets a short run of calls through before throttling starts.
const DefaultBurst = 2

// EmbeddingService wraps another embedding service with a token bucket.
// Every Embed and EmbedBatch call takes one token.
type EmbeddingService struct {
	next    driven.EmbeddingService
	limiter *rate.Limiter
}

// Wrap returns next throttled to requestsPerSecond. A non-positive rate
// returns next unchanged.
func Wrap(next driven.EmbeddingService, requestsPerSecond float64, burst int) driven.EmbeddingService {
	if requestsPerSecond <= 0 {
		return next
	}
	if burst <= 0 {
		burst = DefaultBurst
	}
	return &EmbeddingService{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burst),
	}
}

// Embed waits for a token, then delegates.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return s.next.Embed(ctx, text)
}

// EmbedBatch waits for a token, then delegates.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return s.next.EmbedBatch(ctx, texts)
}

// Dimensions returns the wrapped service's vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.next.Dimensions()
}

// ModelName returns the wrapped service's model name.
func (s *EmbeddingService) ModelName() string {
	return s.next.ModelName()
}

// Ping is not throttled.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	return s.next.Ping(ctx)
}

// Close closes the wrapped service.
func (s *EmbeddingService) Close() error {
	return s.next.Close()
}
