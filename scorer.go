package evalite

import (
	"fmt"
	"sort"

	"github.com/mattpocock/evalite-sub000/api"
)

type Score = api.Score
type ScoreInputs = api.ScoreInputs
type Scorer = api.Scorer

// ScorerKind names one scorer implementation
type ScorerKind string

const (
	KindAnswerCorrectness ScorerKind = "answer_correctness"
	KindFaithfulness      ScorerKind = "faithfulness"
	KindNoiseSensitivity  ScorerKind = "noise_sensitivity"
	KindAnswerRelevancy   ScorerKind = "answer_relevancy"
	KindContextRecall     ScorerKind = "context_recall"
	KindAnswerSimilarity  ScorerKind = "answer_similarity"
	KindExactMatch        ScorerKind = "exact_match"
	KindToolCallAccuracy  ScorerKind = "tool_call_accuracy"
)

var scorerKinds = map[ScorerKind]bool{
	KindAnswerCorrectness: true,
	KindFaithfulness:      true,
	KindNoiseSensitivity:  true,
	KindAnswerRelevancy:   true,
	KindContextRecall:     true,
	KindAnswerSimilarity:  true,
	KindExactMatch:        true,
	KindToolCallAccuracy:  true,
}

// ScorerKinds returns every known kind, sorted.
func ScorerKinds() []string {
	kinds := make([]string, 0, len(scorerKinds))
	for k := range scorerKinds {
		kinds = append(kinds, string(k))
	}
	sort.Strings(kinds)
	return kinds
}

// ParseScorerKind validates a kind name
func ParseScorerKind(s string) (ScorerKind, error) {
	k := ScorerKind(s)
	if !scorerKinds[k] {
		return "", fmt.Errorf("%w: %q", ErrUnknownScorer, s)
	}
	return k, nil
}

// NeedsJudge reports whether the kind calls a judge model
func (k ScorerKind) NeedsJudge() bool {
	switch k {
	case KindAnswerCorrectness, KindFaithfulness, KindNoiseSensitivity, KindAnswerRelevancy, KindContextRecall:
		return true
	}
	return false
}

// ScorerConfig selects one scorer and carries its options. Only the options of Kind are read.
type ScorerConfig struct {
	Kind ScorerKind

	AnswerCorrectness AnswerCorrectnessOptions
	Faithfulness      FaithfulnessOptions
	NoiseSensitivity  NoiseSensitivityOptions
	AnswerRelevancy   AnswerRelevancyOptions
	ContextRecall     ContextRecallOptions
	AnswerSimilarity  AnswerSimilarityOptions
	ExactMatch        ExactMatchOptions
	ToolCallAccuracy  ToolCallAccuracyOptions
}

// NewScorer builds the scorer selected by cfg.Kind. judge is required for judge-backed
// kinds and embedding for AnswerSimilarity; either may be nil otherwise.
func NewScorer(judge *LLMJudge, embedding *Embedding, cfg ScorerConfig) (Scorer, error) {
	if cfg.Kind.NeedsJudge() && judge == nil {
		return nil, fmt.Errorf("scorer %q requires an LLM judge", cfg.Kind)
	}

	switch cfg.Kind {
	case KindAnswerCorrectness:
		return judge.AnswerCorrectness(cfg.AnswerCorrectness), nil
	case KindFaithfulness:
		return judge.Faithfulness(cfg.Faithfulness), nil
	case KindNoiseSensitivity:
		return judge.NoiseSensitivity(cfg.NoiseSensitivity), nil
	case KindAnswerRelevancy:
		return judge.AnswerRelevancy(cfg.AnswerRelevancy), nil
	case KindContextRecall:
		return judge.ContextRecall(cfg.ContextRecall), nil
	case KindAnswerSimilarity:
		if embedding == nil {
			return nil, fmt.Errorf("scorer %q requires an embedding", cfg.Kind)
		}
		return embedding.Similarity(cfg.AnswerSimilarity), nil
	case KindExactMatch:
		return NewHeuristic().ExactMatch(cfg.ExactMatch), nil
	case KindToolCallAccuracy:
		return NewHeuristic().ToolCallAccuracy(cfg.ToolCallAccuracy), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownScorer, cfg.Kind)
	}
}
