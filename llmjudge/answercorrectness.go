package llmjudge

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mattpocock/evalite-sub000/api"
	"github.com/mattpocock/evalite-sub000/embedding"
	"github.com/mattpocock/evalite-sub000/internal/aggregate"
	"github.com/mattpocock/evalite-sub000/internal/judge"
)

// DefaultAnswerCorrectnessWeights are the [factuality, similarity] weights used when none are set
var DefaultAnswerCorrectnessWeights = []float64{0.75, 0.25}

// AnswerCorrectnessOptions configures the AnswerCorrectness scorer
type AnswerCorrectnessOptions struct {
	// Weights is [factualityWeight, similarityWeight]; nil uses DefaultAnswerCorrectnessWeights.
	// Weights are relative proportions: both >= 0 and not both 0.
	// A similarity weight of 0 means the embedder is never called.
	Weights []float64

	// Beta trades recall against precision in the F-beta factuality score.
	// nil means 1.0; zero, negative and non-finite values are rejected. See Beta.
	Beta *float64

	Logger *zap.Logger
}

// Validate checks weights and beta without touching any model.
func (o AnswerCorrectnessOptions) Validate() error {
	if o.Weights != nil {
		if len(o.Weights) != 2 {
			return fmt.Errorf("%w: expected 2 weights, got %d", api.ErrInvalidWeights, len(o.Weights))
		}
		for _, w := range o.Weights {
			if math.IsNaN(w) || math.IsInf(w, 0) {
				return fmt.Errorf("%w: weights must be finite, got %v", api.ErrInvalidWeights, o.Weights)
			}
		}
		if o.Weights[0] < 0 || o.Weights[1] < 0 {
			return fmt.Errorf("%w: weights must be non-negative", api.ErrInvalidWeights)
		}
		if o.Weights[0] == 0 && o.Weights[1] == 0 {
			return fmt.Errorf("%w: at least one weight must be positive", api.ErrInvalidWeights)
		}
	}
	if o.Beta != nil {
		if b := *o.Beta; !(b > 0) || math.IsInf(b, 1) {
			return fmt.Errorf("%w: got %v", api.ErrInvalidBeta, b)
		}
	}
	return nil
}

func (o AnswerCorrectnessOptions) weights() []float64 {
	if o.Weights == nil {
		return DefaultAnswerCorrectnessWeights
	}
	return o.Weights
}

func (o AnswerCorrectnessOptions) beta() float64 {
	if o.Beta == nil {
		return 1.0
	}
	return *o.Beta
}

// Beta returns a pointer to v for AnswerCorrectnessOptions.Beta
func Beta(v float64) *float64 {
	return &v
}

// AnswerCorrectness returns a scorer that blends statement-level factuality (F-beta over a
// TP/FP/FN classification of answer vs reference statements) with embedding similarity.
// Input is the question, Output the answer and Expected (or Reference.Answer) the reference.
func AnswerCorrectness(llm api.LLMGenerator, embedder api.Embedder, opts AnswerCorrectnessOptions) api.Scorer {
	return &answerCorrectnessScorer{
		opts:     opts,
		llm:      llm,
		embedder: embedder,
		judge:    judge.New(llm, opts.Logger),
	}
}

type answerCorrectnessScorer struct {
	opts     AnswerCorrectnessOptions
	llm      api.LLMGenerator
	embedder api.Embedder
	judge    *judge.Judge
}

func (s *answerCorrectnessScorer) Score(ctx context.Context, in api.ScoreInputs) api.Score {
	result := api.Score{
		Name:     "AnswerCorrectness",
		Metadata: make(map[string]any),
	}

	ctx, span := startSpan(ctx, result.Name)
	defer span.End()

	if err := s.opts.Validate(); err != nil {
		return fail(span, &result, err)
	}
	reference := in.ReferenceAnswer()
	if reference == "" {
		return fail(span, &result, api.ErrNoExpectedValue)
	}
	if in.IsMultiTurn() {
		return fail(span, &result, api.ErrSingleTurnRequired)
	}
	if s.llm == nil {
		return fail(span, &result, fmt.Errorf("LLM generator is required"))
	}

	weights := s.opts.weights()
	beta := s.opts.beta()
	needSimilarity := weights[1] > 0
	if needSimilarity && s.embedder == nil {
		return fail(span, &result, fmt.Errorf("embedder is required when similarity weight is positive"))
	}

	question := in.Question()
	var (
		answerStatements    []string
		referenceStatements []string
		embeddings          [][]float64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		answerStatements, err = s.judge.Decompose(gctx, question, in.Output)
		return err
	})
	g.Go(func() error {
		var err error
		referenceStatements, err = s.judge.Decompose(gctx, question, reference)
		return err
	})
	if needSimilarity {
		g.Go(func() error {
			var err error
			embeddings, err = s.embedder.EmbedMany(gctx, []string{reference, in.Output})
			if err != nil {
				return fmt.Errorf("%w: %v", api.ErrEmbeddingFailed, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fail(span, &result, err)
	}

	var (
		classification  api.Classification
		factualityScore float64
	)
	switch {
	case len(answerStatements) == 0 && len(referenceStatements) == 0:
		factualityScore = 1.0
	case len(answerStatements) == 0 || len(referenceStatements) == 0:
		factualityScore = 0.0
	default:
		var err error
		classification, err = s.judge.Classify(ctx, question, answerStatements, referenceStatements)
		if err != nil {
			return fail(span, &result, err)
		}
		factualityScore = aggregate.FBeta(classification, beta)
	}

	similarityScore := 0.0
	if needSimilarity {
		referenceEmbedding, answerEmbedding := embedding.Pair(embeddings)
		if referenceEmbedding != nil && answerEmbedding != nil {
			similarityScore = embedding.CosineSimilarity(referenceEmbedding, answerEmbedding)
		}
	}

	result.Score = aggregate.Clamp01(aggregate.WeightedMean([]float64{factualityScore, similarityScore}, weights))
	result.Metadata["classification"] = classification
	result.Metadata["factuality_score"] = factualityScore
	result.Metadata["similarity_score"] = similarityScore
	result.Metadata["answer_statements"] = answerStatements
	result.Metadata["reference_statements"] = referenceStatements
	result.Metadata["weights"] = weights
	result.Metadata["beta"] = beta

	return result
}
