package llmjudge

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/mattpocock/evalite-sub000/api"
	"github.com/mattpocock/evalite-sub000/internal/aggregate"
	"github.com/mattpocock/evalite-sub000/internal/judge"
)

// FaithfulnessOptions configures the Faithfulness scorer
type FaithfulnessOptions struct {
	Logger *zap.Logger
}

// Faithfulness returns a scorer that measures how many statements of the output
// can be inferred from the retrieved contexts of ScoreInputs.Sample.
func Faithfulness(llm api.LLMGenerator, opts FaithfulnessOptions) api.Scorer {
	return &faithfulnessScorer{
		llm:   llm,
		judge: judge.New(llm, opts.Logger),
	}
}

type faithfulnessScorer struct {
	llm   api.LLMGenerator
	judge *judge.Judge
}

func (s *faithfulnessScorer) Score(ctx context.Context, in api.ScoreInputs) api.Score {
	result := api.Score{
		Name:     "Faithfulness",
		Metadata: make(map[string]any),
	}

	ctx, span := startSpan(ctx, result.Name)
	defer span.End()

	if in.Sample == nil || in.Sample.RetrievedContexts == nil {
		return fail(span, &result, api.ErrMissingContexts)
	}
	if in.IsMultiTurn() {
		return fail(span, &result, api.ErrSingleTurnRequired)
	}
	if s.llm == nil {
		return fail(span, &result, fmt.Errorf("LLM generator is required"))
	}

	statements, err := s.judge.Decompose(ctx, in.Question(), in.Output)
	if err != nil {
		return fail(span, &result, err)
	}
	if len(statements) == 0 {
		return fail(span, &result, api.ErrNoStatements)
	}

	verdicts, err := s.judge.EvaluateDetailed(ctx, joinContexts(in.Sample.RetrievedContexts), statements)
	if err != nil {
		return fail(span, &result, err)
	}

	faithful := 0
	for _, v := range verdicts {
		if v.Verdict == 1 {
			faithful++
		}
	}
	span.SetAttributes(attribute.Int("statements", len(statements)), attribute.Int("faithful", faithful))

	result.Score = aggregate.Ratio(float64(faithful), float64(len(statements)))
	result.Metadata["statements"] = statements
	result.Metadata["verdicts"] = verdicts
	result.Metadata["faithful_count"] = faithful

	return result
}
