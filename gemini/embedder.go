package gemini

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/mattpocock/evalite-sub000/api"
)

// DefaultBatchSize is the number of texts sent per EmbedContent request
const DefaultBatchSize = 100

// Embedder wraps a genai.Client to implement the Embedder interface
type Embedder struct {
	client    *genai.Client
	modelName string
	batchSize int
}

// NewEmbedder creates a new Gemini embedder
// client: genai.Client from google.golang.org/genai
// modelName: the embedding model to use (e.g., "text-embedding-005")
func NewEmbedder(client *genai.Client, modelName string) *Embedder {
	return &Embedder{
		client:    client,
		modelName: modelName,
		batchSize: DefaultBatchSize,
	}
}

// EmbedMany implements Embedder.EmbedMany
// Texts are sent in batches; the result is aligned with values.
func (e *Embedder) EmbedMany(ctx context.Context, values []string) ([][]float64, error) {
	out := make([][]float64, 0, len(values))

	for start := 0; start < len(values); start += e.batchSize {
		end := min(start+e.batchSize, len(values))

		contents := make([]*genai.Content, 0, end-start)
		for _, v := range values[start:end] {
			contents = append(contents, genai.NewContentFromText(v, genai.RoleUser))
		}

		result, err := e.client.Models.EmbedContent(ctx, e.modelName, contents, &genai.EmbedContentConfig{})
		if err != nil {
			return nil, fmt.Errorf("failed to generate embedding: %w", err)
		}

		if len(result.Embeddings) != len(contents) {
			return nil, fmt.Errorf("got %d embeddings for %d texts", len(result.Embeddings), len(contents))
		}

		for _, emb := range result.Embeddings {
			out = append(out, toFloat64(emb))
		}
	}

	return out, nil
}

// toFloat64 converts a genai embedding; an empty vector becomes nil
func toFloat64(emb *genai.ContentEmbedding) []float64 {
	if emb == nil || len(emb.Values) == 0 {
		return nil
	}
	values := make([]float64, len(emb.Values))
	for i, v := range emb.Values {
		values[i] = float64(v)
	}
	return values
}

// Verify that Embedder implements Embedder
var _ api.Embedder = (*Embedder)(nil)
