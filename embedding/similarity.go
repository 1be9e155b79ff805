package embedding

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/mattpocock/evalite-sub000/api"
)

// AnswerSimilarityOptions configures the AnswerSimilarity scorer
type AnswerSimilarityOptions struct {
	// Logger receives debug output; nil disables logging
	Logger *zap.Logger
}

// AnswerSimilarity returns a scorer that measures semantic similarity using embeddings
// It computes cosine similarity between the output and expected text embeddings
func AnswerSimilarity(embedder api.Embedder, opts AnswerSimilarityOptions) api.Scorer {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &answerSimilarityScorer{
		opts:     opts,
		embedder: embedder,
		logger:   logger,
	}
}

type answerSimilarityScorer struct {
	opts     AnswerSimilarityOptions
	embedder api.Embedder
	logger   *zap.Logger
}

func (s *answerSimilarityScorer) Score(ctx context.Context, in api.ScoreInputs) api.Score {
	result := api.Score{
		Name:     "AnswerSimilarity",
		Metadata: make(map[string]any),
	}

	expected := in.ReferenceAnswer()
	if expected == "" {
		result.Error = api.ErrNoExpectedValue
		result.Score = 0
		return result
	}

	if in.IsMultiTurn() {
		result.Error = api.ErrSingleTurnRequired
		result.Score = 0
		return result
	}

	if s.embedder == nil {
		result.Error = fmt.Errorf("embedder is required")
		result.Score = 0
		return result
	}

	embeddings, err := s.embedder.EmbedMany(ctx, []string{expected, in.Output})
	if err != nil {
		result.Error = fmt.Errorf("%w: %v", api.ErrEmbeddingFailed, err)
		result.Score = 0
		return result
	}

	expectedEmbed, outputEmbed := Pair(embeddings)
	if expectedEmbed == nil || outputEmbed == nil {
		result.Error = fmt.Errorf("%w: embedder returned no vector", api.ErrEmbeddingFailed)
		result.Score = 0
		return result
	}

	similarity := CosineSimilarity(outputEmbed, expectedEmbed)

	// Normalize from [-1, 1] to [0, 1]
	normalizedScore := (similarity + 1.0) / 2.0
	if normalizedScore < 0 {
		normalizedScore = 0
	}
	if normalizedScore > 1 {
		normalizedScore = 1
	}

	s.logger.Debug("answer similarity scored", zap.Float64("cosine", similarity), zap.Int("dim", len(outputEmbed)))

	result.Score = normalizedScore
	result.Metadata["cosine_similarity"] = similarity
	result.Metadata["embedding_dim"] = len(outputEmbed)

	return result
}

// Pair returns the first two vectors of a batched embedding result; missing entries are nil.
func Pair(embeddings [][]float64) ([]float64, []float64) {
	var a, b []float64
	if len(embeddings) > 0 {
		a = embeddings[0]
	}
	if len(embeddings) > 1 {
		b = embeddings[1]
	}
	return a, b
}

// CosineSimilarity computes the cosine similarity between two vectors
// Returns a value between -1 and 1, where 1 means identical direction.
// Mismatched lengths, empty vectors and zero vectors yield 0.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	normA = math.Sqrt(normA)
	normB = math.Sqrt(normB)

	if normA == 0 || normB == 0 {
		return 0
	}

	return dotProduct / (normA * normB)
}
