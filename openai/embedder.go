package openai

import (
	"context"
	"fmt"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/mattpocock/evalite-sub000/api"
)

// Embedder wraps a go-openai client to implement the Embedder interface
type Embedder struct {
	client    *goopenai.Client
	modelName string
}

// NewEmbedder creates a new OpenAI embedder
// modelName: the embedding model to use; empty uses text-embedding-3-small
func NewEmbedder(client *goopenai.Client, modelName string) *Embedder {
	if modelName == "" {
		modelName = string(goopenai.SmallEmbedding3)
	}
	return &Embedder{
		client:    client,
		modelName: modelName,
	}
}

// EmbedMany implements Embedder.EmbedMany with a single embeddings request
func (e *Embedder) EmbedMany(ctx context.Context, values []string) ([][]float64, error) {
	if len(values) == 0 {
		return [][]float64{}, nil
	}

	resp, err := e.client.CreateEmbeddings(ctx, goopenai.EmbeddingRequestStrings{
		Input: values,
		Model: goopenai.EmbeddingModel(e.modelName),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}

	out := make([][]float64, len(values))
	for _, d := range resp.Data {
		if d.Index < 0 || d.Index >= len(values) {
			return nil, fmt.Errorf("embedding index %d out of range", d.Index)
		}
		if len(d.Embedding) == 0 {
			continue
		}
		vec := make([]float64, len(d.Embedding))
		for i, v := range d.Embedding {
			vec[i] = float64(v)
		}
		out[d.Index] = vec
	}
	return out, nil
}

// Verify that Embedder implements Embedder
var _ api.Embedder = (*Embedder)(nil)
