package llmjudge

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mattpocock/evalite-sub000/api"
	"github.com/mattpocock/evalite-sub000/internal/aggregate"
	"github.com/mattpocock/evalite-sub000/internal/judge"
)

// Noise sensitivity modes
const (
	NoiseModeRelevant   = "relevant"
	NoiseModeIrrelevant = "irrelevant"
)

// NoiseSensitivityOptions configures the NoiseSensitivity scorer
type NoiseSensitivityOptions struct {
	// Mode selects which incorrect claims are counted: those supported by relevant
	// contexts ("relevant", the default) or those only supported by irrelevant ones ("irrelevant").
	Mode string

	Logger *zap.Logger
}

func (o NoiseSensitivityOptions) mode() (string, error) {
	switch o.Mode {
	case "":
		return NoiseModeRelevant, nil
	case NoiseModeRelevant, NoiseModeIrrelevant:
		return o.Mode, nil
	default:
		return "", fmt.Errorf("%w: %q", api.ErrInvalidMode, o.Mode)
	}
}

// NoiseSensitivity returns a scorer that measures how often the answer makes incorrect
// claims that are nonetheless supported by the retrieved contexts. Lower is better.
// It needs Reference.Answer, Reference.GroundTruth (the retrieved contexts) and Output.
func NoiseSensitivity(llm api.LLMGenerator, opts NoiseSensitivityOptions) api.Scorer {
	return &noiseSensitivityScorer{
		opts:  opts,
		llm:   llm,
		judge: judge.New(llm, opts.Logger),
	}
}

type noiseSensitivityScorer struct {
	opts  NoiseSensitivityOptions
	llm   api.LLMGenerator
	judge *judge.Judge
}

func (s *noiseSensitivityScorer) Score(ctx context.Context, in api.ScoreInputs) api.Score {
	result := api.Score{
		Name:     "NoiseSensitivity",
		Metadata: make(map[string]any),
	}

	ctx, span := startSpan(ctx, result.Name)
	defer span.End()

	mode, err := s.opts.mode()
	if err != nil {
		return fail(span, &result, err)
	}
	if in.Reference == nil || in.Reference.Answer == "" {
		return fail(span, &result, fmt.Errorf("%w: reference answer is required", api.ErrNoExpectedValue))
	}
	if len(in.Reference.GroundTruth) == 0 {
		return fail(span, &result, fmt.Errorf("%w: ground truth contexts are required", api.ErrNoExpectedValue))
	}
	if in.IsMultiTurn() {
		return fail(span, &result, api.ErrSingleTurnRequired)
	}
	if s.llm == nil {
		return fail(span, &result, fmt.Errorf("LLM generator is required"))
	}

	question := in.Question()
	reference := in.Reference.Answer
	contexts := in.Reference.GroundTruth

	var referenceStatements, answerStatements []string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		referenceStatements, err = s.judge.Decompose(gctx, question, reference)
		return err
	})
	g.Go(func() error {
		var err error
		answerStatements, err = s.judge.Decompose(gctx, question, in.Output)
		return err
	})
	if err := g.Wait(); err != nil {
		return fail(span, &result, err)
	}
	if len(referenceStatements) == 0 || len(answerStatements) == 0 {
		return fail(span, &result, api.ErrNoStatements)
	}

	// retrievedToGroundTruth[c][r]: reference statement r is supported by context c.
	// retrievedToAnswer[c][a]: answer statement a is supported by context c.
	// groundTruthToAnswer[a]: answer statement a is supported by the reference answer.
	retrievedToGroundTruth := make([][]bool, len(contexts))
	retrievedToAnswer := make([][]bool, len(contexts))
	var groundTruthToAnswer []bool

	g, gctx = errgroup.WithContext(ctx)
	for i, c := range contexts {
		g.Go(func() error {
			verdicts, err := s.judge.EvaluateSimple(gctx, c, referenceStatements)
			if err != nil {
				return err
			}
			retrievedToGroundTruth[i] = toBools(verdicts)
			return nil
		})
		g.Go(func() error {
			verdicts, err := s.judge.EvaluateSimple(gctx, c, answerStatements)
			if err != nil {
				return err
			}
			retrievedToAnswer[i] = toBools(verdicts)
			return nil
		})
	}
	g.Go(func() error {
		verdicts, err := s.judge.EvaluateSimple(gctx, reference, answerStatements)
		if err != nil {
			return err
		}
		groundTruthToAnswer = toBools(verdicts)
		return nil
	})
	if err := g.Wait(); err != nil {
		return fail(span, &result, err)
	}

	relevantContexts := make([]bool, len(contexts))
	for c := range contexts {
		relevantContexts[c] = aggregate.Any(retrievedToGroundTruth[c])
	}

	// byAnswer[a][c] is retrievedToAnswer transposed
	byAnswer := aggregate.Transpose(retrievedToAnswer, len(answerStatements))
	incorrect := 0
	numerator := 0
	for a := range answerStatements {
		var faithfulToRelevant, faithfulToIrrelevant bool
		for c, supported := range byAnswer[a] {
			if !supported {
				continue
			}
			if relevantContexts[c] {
				faithfulToRelevant = true
			} else {
				faithfulToIrrelevant = true
			}
		}
		if groundTruthToAnswer[a] {
			continue
		}
		incorrect++

		switch mode {
		case NoiseModeRelevant:
			if faithfulToRelevant {
				numerator++
			}
		case NoiseModeIrrelevant:
			if faithfulToIrrelevant && !faithfulToRelevant {
				numerator++
			}
		}
	}

	span.SetAttributes(
		attribute.String("mode", mode),
		attribute.Int("answer_statements", len(answerStatements)),
		attribute.Int("noisy_statements", numerator),
	)

	result.Score = aggregate.Ratio(float64(numerator), float64(len(answerStatements)))
	result.Metadata["mode"] = mode
	result.Metadata["reference_statements"] = referenceStatements
	result.Metadata["answer_statements"] = answerStatements
	result.Metadata["retrieved_to_ground_truth"] = retrievedToGroundTruth
	result.Metadata["retrieved_to_answer"] = retrievedToAnswer
	result.Metadata["ground_truth_to_answer"] = groundTruthToAnswer
	result.Metadata["relevant_contexts"] = relevantContexts
	result.Metadata["incorrect_count"] = incorrect
	result.Metadata["noisy_count"] = numerator

	return result
}

func toBools(verdicts []int) []bool {
	out := make([]bool, len(verdicts))
	for i, v := range verdicts {
		out[i] = v == 1
	}
	return out
}
