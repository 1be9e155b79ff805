package provider

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/mattpocock/evalite-sub000/api"
)

// newLimiter returns a limiter for requestsPerSecond; non-positive rates are unlimited
func newLimiter(requestsPerSecond float64, burst int) *rate.Limiter {
	if burst <= 0 {
		burst = 1
	}
	if requestsPerSecond <= 0 {
		return rate.NewLimiter(rate.Inf, burst)
	}
	return rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
}

// RateLimitedGenerator waits for limiter clearance before each generation
type RateLimitedGenerator struct {
	next    api.LLMGenerator
	limiter *rate.Limiter
}

// NewRateLimitedGenerator limits next to requestsPerSecond with the given burst
func NewRateLimitedGenerator(next api.LLMGenerator, requestsPerSecond float64, burst int) *RateLimitedGenerator {
	return &RateLimitedGenerator{next: next, limiter: newLimiter(requestsPerSecond, burst)}
}

// StructuredGenerate implements LLMGenerator.StructuredGenerate
func (g *RateLimitedGenerator) StructuredGenerate(ctx context.Context, prompt string, schema map[string]interface{}) (map[string]interface{}, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return g.next.StructuredGenerate(ctx, prompt, schema)
}

// RateLimitedEmbedder waits for limiter clearance before each batched embedding call
type RateLimitedEmbedder struct {
	next    api.Embedder
	limiter *rate.Limiter
}

// NewRateLimitedEmbedder limits next to requestsPerSecond with the given burst
func NewRateLimitedEmbedder(next api.Embedder, requestsPerSecond float64, burst int) *RateLimitedEmbedder {
	return &RateLimitedEmbedder{next: next, limiter: newLimiter(requestsPerSecond, burst)}
}

// EmbedMany implements Embedder.EmbedMany
func (e *RateLimitedEmbedder) EmbedMany(ctx context.Context, values []string) ([][]float64, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return e.next.EmbedMany(ctx, values)
}

var (
	_ api.LLMGenerator = (*RateLimitedGenerator)(nil)
	_ api.Embedder     = (*RateLimitedEmbedder)(nil)
)
