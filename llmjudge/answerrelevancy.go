package llmjudge

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mattpocock/evalite-sub000/api"
	"github.com/mattpocock/evalite-sub000/embedding"
	"github.com/mattpocock/evalite-sub000/internal/aggregate"
	"github.com/mattpocock/evalite-sub000/internal/judge"
)

// DefaultStrictness is the number of questions generated per answer
const DefaultStrictness = 3

// AnswerRelevancyOptions configures the AnswerRelevancy scorer
type AnswerRelevancyOptions struct {
	// Strictness is the number of questions generated from the answer; 0 means DefaultStrictness.
	Strictness int

	Logger *zap.Logger
}

func (o AnswerRelevancyOptions) strictness() int {
	if o.Strictness <= 0 {
		return DefaultStrictness
	}
	return o.Strictness
}

// AnswerRelevancy returns a scorer that reverse-engineers questions from the answer and
// compares them to the original question with embeddings. Evasive answers score 0.
//
// Individual question generations may fail; a failed generation contributes a similarity
// of 0 and is counted in the failed_generations metadata. The score is an error only
// when every generation fails.
func AnswerRelevancy(llm api.LLMGenerator, embedder api.Embedder, opts AnswerRelevancyOptions) api.Scorer {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &answerRelevancyScorer{
		opts:     opts,
		llm:      llm,
		embedder: embedder,
		judge:    judge.New(llm, logger),
		logger:   logger,
	}
}

type answerRelevancyScorer struct {
	opts     AnswerRelevancyOptions
	llm      api.LLMGenerator
	embedder api.Embedder
	judge    *judge.Judge
	logger   *zap.Logger
}

func (s *answerRelevancyScorer) Score(ctx context.Context, in api.ScoreInputs) api.Score {
	result := api.Score{
		Name:     "AnswerRelevancy",
		Metadata: make(map[string]any),
	}

	ctx, span := startSpan(ctx, result.Name)
	defer span.End()

	question := in.Question()
	if question == "" {
		return fail(span, &result, fmt.Errorf("question is required"))
	}
	if in.IsMultiTurn() {
		return fail(span, &result, api.ErrSingleTurnRequired)
	}
	if s.llm == nil {
		return fail(span, &result, fmt.Errorf("LLM generator is required"))
	}
	if s.embedder == nil {
		return fail(span, &result, fmt.Errorf("embedder is required"))
	}

	n := s.opts.strictness()
	attempts := make([]judge.Result[judge.GeneratedQuestion], n)

	// every attempt runs to completion; failures are kept in attempts, not returned
	var g errgroup.Group
	for i := range attempts {
		g.Go(func() error {
			attempts[i] = judge.Try(ctx, func(ctx context.Context) (judge.GeneratedQuestion, error) {
				return s.judge.GenerateQuestion(ctx, in.Output)
			})
			return nil
		})
	}
	_ = g.Wait()

	var (
		generated    []string
		noncommittal bool
		failed       int
		lastErr      error
	)
	for _, a := range attempts {
		if !a.OK() {
			failed++
			lastErr = a.Err
			continue
		}
		generated = append(generated, a.Value.Question)
		if a.Value.IsNoncommittal() {
			noncommittal = true
		}
	}
	if failed > 0 {
		s.logger.Warn("question generations failed", zap.Int("failed", failed), zap.Int("attempts", n), zap.Error(lastErr))
	}
	if len(generated) == 0 {
		return fail(span, &result, fmt.Errorf("%w: all %d question generations failed: %v", api.ErrLLMGenerationFailed, n, lastErr))
	}

	embeddings, err := s.embedder.EmbedMany(ctx, append([]string{question}, generated...))
	if err != nil {
		return fail(span, &result, fmt.Errorf("%w: %v", api.ErrEmbeddingFailed, err))
	}
	if len(embeddings) == 0 || embeddings[0] == nil {
		return fail(span, &result, fmt.Errorf("%w: embedder returned no vector for the question", api.ErrEmbeddingFailed))
	}

	similarities := make([]float64, len(generated))
	var total float64
	for i := range generated {
		if i+1 < len(embeddings) && embeddings[i+1] != nil {
			similarities[i] = embedding.CosineSimilarity(embeddings[0], embeddings[i+1])
		}
		total += similarities[i]
	}

	score := aggregate.Clamp01(total / float64(n))
	if noncommittal {
		score = 0
	}
	span.SetAttributes(attribute.Int("attempts", n), attribute.Int("failed_generations", failed))

	result.Score = score
	result.Metadata["generated_questions"] = generated
	result.Metadata["similarities"] = similarities
	result.Metadata["noncommittal"] = noncommittal
	result.Metadata["failed_generations"] = failed
	result.Metadata["strictness"] = n

	return result
}
