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

// ContextRecallOptions configures the ContextRecall scorer
type ContextRecallOptions struct {
	Logger *zap.Logger
}

// ContextRecall returns a scorer that measures how much of the reference answer
// can be attributed to the retrieved contexts of ScoreInputs.Sample.
func ContextRecall(llm api.LLMGenerator, opts ContextRecallOptions) api.Scorer {
	return &contextRecallScorer{
		llm:   llm,
		judge: judge.New(llm, opts.Logger),
	}
}

type contextRecallScorer struct {
	llm   api.LLMGenerator
	judge *judge.Judge
}

func (s *contextRecallScorer) Score(ctx context.Context, in api.ScoreInputs) api.Score {
	result := api.Score{
		Name:     "ContextRecall",
		Metadata: make(map[string]any),
	}

	ctx, span := startSpan(ctx, result.Name)
	defer span.End()

	if in.Sample == nil || in.Sample.RetrievedContexts == nil {
		return fail(span, &result, api.ErrMissingContexts)
	}
	reference := in.ReferenceAnswer()
	if reference == "" {
		return fail(span, &result, api.ErrNoExpectedValue)
	}
	if s.llm == nil {
		return fail(span, &result, fmt.Errorf("LLM generator is required"))
	}

	attributions, err := s.judge.Attribute(ctx, in.Question(), joinContexts(in.Sample.RetrievedContexts), reference)
	if err != nil {
		return fail(span, &result, err)
	}
	if len(attributions) == 0 {
		return fail(span, &result, api.ErrNoStatements)
	}

	attributed := 0
	for _, a := range attributions {
		if a.Attributed == 1 {
			attributed++
		}
	}
	span.SetAttributes(attribute.Int("statements", len(attributions)), attribute.Int("attributed", attributed))

	result.Score = aggregate.Ratio(float64(attributed), float64(len(attributions)))
	result.Metadata["classifications"] = attributions
	result.Metadata["attributed_count"] = attributed

	return result
}
