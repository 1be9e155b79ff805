// Package provider decorates judge and embedding capabilities with caching and rate limiting.
package provider

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/mattpocock/evalite-sub000/api"
)

// DefaultCleanupInterval is how often expired cache entries are purged
const DefaultCleanupInterval = 10 * time.Minute

// CachedGenerator memoizes structured generations by prompt and schema.
// Responses are stored as JSON so every hit returns a fresh map.
type CachedGenerator struct {
	next  api.LLMGenerator
	cache *gocache.Cache
}

// NewCachedGenerator wraps next with an in-memory cache. ttl <= 0 keeps entries forever.
func NewCachedGenerator(next api.LLMGenerator, ttl time.Duration) *CachedGenerator {
	return &CachedGenerator{
		next:  next,
		cache: gocache.New(expiration(ttl), DefaultCleanupInterval),
	}
}

// StructuredGenerate implements LLMGenerator.StructuredGenerate
func (g *CachedGenerator) StructuredGenerate(ctx context.Context, prompt string, schema map[string]interface{}) (map[string]interface{}, error) {
	key, err := generationKey(prompt, schema)
	if err != nil {
		return g.next.StructuredGenerate(ctx, prompt, schema)
	}

	if val, found := g.cache.Get(key); found {
		var result map[string]interface{}
		if err := json.Unmarshal(val.([]byte), &result); err == nil {
			return result, nil
		}
	}

	result, err := g.next.StructuredGenerate(ctx, prompt, schema)
	if err != nil {
		return nil, err
	}
	if raw, err := json.Marshal(result); err == nil {
		g.cache.SetDefault(key, raw)
	}
	return result, nil
}

func generationKey(prompt string, schema map[string]interface{}) (string, error) {
	rawSchema, err := json.Marshal(schema)
	if err != nil {
		return "", fmt.Errorf("failed to encode schema: %w", err)
	}
	h := sha256.New()
	h.Write([]byte(prompt))
	h.Write([]byte{0})
	h.Write(rawSchema)
	return hex.EncodeToString(h.Sum(nil)), nil
}

// CachedEmbedder memoizes embeddings per text. Only uncached texts are sent to the wrapped embedder,
// in one batched call.
type CachedEmbedder struct {
	next  api.Embedder
	cache *gocache.Cache
}

// NewCachedEmbedder wraps next with an in-memory cache. ttl <= 0 keeps entries forever.
func NewCachedEmbedder(next api.Embedder, ttl time.Duration) *CachedEmbedder {
	return &CachedEmbedder{
		next:  next,
		cache: gocache.New(expiration(ttl), DefaultCleanupInterval),
	}
}

// EmbedMany implements Embedder.EmbedMany
func (e *CachedEmbedder) EmbedMany(ctx context.Context, values []string) ([][]float64, error) {
	out := make([][]float64, len(values))

	var (
		missing []string
		slots   = make(map[string][]int)
	)
	for i, v := range values {
		if val, found := e.cache.Get(v); found {
			out[i] = append([]float64(nil), val.([]float64)...)
			continue
		}
		if _, queued := slots[v]; !queued {
			missing = append(missing, v)
		}
		slots[v] = append(slots[v], i)
	}
	if len(missing) == 0 {
		return out, nil
	}

	embedded, err := e.next.EmbedMany(ctx, missing)
	if err != nil {
		return nil, err
	}

	for j, v := range missing {
		if j >= len(embedded) || embedded[j] == nil {
			continue
		}
		e.cache.SetDefault(v, embedded[j])
		for _, i := range slots[v] {
			out[i] = append([]float64(nil), embedded[j]...)
		}
	}
	return out, nil
}

func expiration(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return gocache.NoExpiration
	}
	return ttl
}

var (
	_ api.LLMGenerator = (*CachedGenerator)(nil)
	_ api.Embedder     = (*CachedEmbedder)(nil)
)
