package provider

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingGenerator struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (g *countingGenerator) StructuredGenerate(ctx context.Context, prompt string, schema map[string]interface{}) (map[string]interface{}, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	return map[string]interface{}{"prompt": prompt, "title": schema["title"]}, nil
}

type countingEmbedder struct {
	mu      sync.Mutex
	batches [][]string
	err     error
}

func (e *countingEmbedder) EmbedMany(ctx context.Context, values []string) ([][]float64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.batches = append(e.batches, values)
	if e.err != nil {
		return nil, e.err
	}
	out := make([][]float64, len(values))
	for i, v := range values {
		out[i] = []float64{float64(len(v))}
	}
	return out, nil
}

func TestCachedGenerator(t *testing.T) {
	ctx := context.Background()
	next := &countingGenerator{}
	gen := NewCachedGenerator(next, time.Minute)

	schema := map[string]interface{}{"title": "statements"}

	first, err := gen.StructuredGenerate(ctx, "prompt a", schema)
	require.NoError(t, err)
	second, err := gen.StructuredGenerate(ctx, "prompt a", schema)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, next.calls)

	// a hit returns a fresh map
	second["prompt"] = "changed"
	third, err := gen.StructuredGenerate(ctx, "prompt a", schema)
	require.NoError(t, err)
	assert.Equal(t, "prompt a", third["prompt"])

	_, err = gen.StructuredGenerate(ctx, "prompt a", map[string]interface{}{"title": "verdicts"})
	require.NoError(t, err)
	_, err = gen.StructuredGenerate(ctx, "prompt b", schema)
	require.NoError(t, err)
	assert.Equal(t, 3, next.calls)
}

func TestCachedGenerator_ErrorsAreNotCached(t *testing.T) {
	ctx := context.Background()
	next := &countingGenerator{err: errors.New("unavailable")}
	gen := NewCachedGenerator(next, 0)

	_, err := gen.StructuredGenerate(ctx, "p", nil)
	assert.Error(t, err)
	_, err = gen.StructuredGenerate(ctx, "p", nil)
	assert.Error(t, err)
	assert.Equal(t, 2, next.calls)
}

func TestCachedEmbedder(t *testing.T) {
	ctx := context.Background()
	next := &countingEmbedder{}
	emb := NewCachedEmbedder(next, 0)

	got, err := emb.EmbedMany(ctx, []string{"a", "bb", "a"})
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{1}, {2}, {1}}, got)

	got, err = emb.EmbedMany(ctx, []string{"ccc", "bb"})
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{3}, {2}}, got)

	got, err = emb.EmbedMany(ctx, []string{"a", "ccc"})
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{1}, {3}}, got)

	// only misses are sent, deduplicated, one batch per call
	assert.Equal(t, [][]string{{"a", "bb"}, {"ccc"}}, next.batches)
}

func TestCachedEmbedder_Error(t *testing.T) {
	next := &countingEmbedder{err: errors.New("quota")}
	_, err := NewCachedEmbedder(next, time.Minute).EmbedMany(context.Background(), []string{"a"})
	assert.Error(t, err)
}

func TestRateLimitedGenerator(t *testing.T) {
	next := &countingGenerator{}
	gen := NewRateLimitedGenerator(next, 0, 0)

	for i := 0; i < 5; i++ {
		_, err := gen.StructuredGenerate(context.Background(), "p", nil)
		require.NoError(t, err)
	}
	assert.Equal(t, 5, next.calls)
}

func TestRateLimitedGenerator_ContextCanceled(t *testing.T) {
	next := &countingGenerator{}
	// one token per hour: the second call cannot be served before the deadline
	gen := NewRateLimitedGenerator(next, 1.0/3600, 1)

	_, err := gen.StructuredGenerate(context.Background(), "p", nil)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = gen.StructuredGenerate(ctx, "p", nil)
	assert.Error(t, err)
	assert.Equal(t, 1, next.calls)
}

func TestRateLimitedEmbedder(t *testing.T) {
	next := &countingEmbedder{}
	emb := NewRateLimitedEmbedder(next, 1000, 10)

	got, err := emb.EmbedMany(context.Background(), []string{"a", "bb"})
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{1}, {2}}, got)
	assert.Len(t, next.batches, 1)
}
