package heuristic

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mattpocock/evalite-sub000/api"
	"github.com/mattpocock/evalite-sub000/internal/aggregate"
)

// Tool call matching modes
const (
	ToolCallModeExact    = "exact"
	ToolCallModeFlexible = "flexible"
)

// ToolCallWeights overrides the tool call scoring weights. Nil fields keep their defaults.
type ToolCallWeights struct {
	// Exact is the credit for a call matching name and arguments (default 1)
	Exact *float64 `json:"exact,omitempty" yaml:"exact"`
	// NameOnly is the credit for a call matching only the name (default 0.5)
	NameOnly *float64 `json:"name_only,omitempty" yaml:"name_only"`
	// ExtraPenalty is subtracted per unexpected call in flexible mode (default 0.25)
	ExtraPenalty *float64 `json:"extra_penalty,omitempty" yaml:"extra_penalty"`
	// WrongPenalty is subtracted per mismatched call in exact mode (default 0.25)
	WrongPenalty *float64 `json:"wrong_penalty,omitempty" yaml:"wrong_penalty"`
}

// Weight is a helper for setting ToolCallWeights fields.
func Weight(v float64) *float64 {
	return &v
}

type toolCallWeights struct {
	exact, nameOnly, extraPenalty, wrongPenalty float64
}

func (w ToolCallWeights) resolve() (toolCallWeights, error) {
	out := toolCallWeights{exact: 1, nameOnly: 0.5, extraPenalty: 0.25, wrongPenalty: 0.25}
	for _, f := range []struct {
		src *float64
		dst *float64
	}{
		{w.Exact, &out.exact},
		{w.NameOnly, &out.nameOnly},
		{w.ExtraPenalty, &out.extraPenalty},
		{w.WrongPenalty, &out.wrongPenalty},
	} {
		if f.src == nil {
			continue
		}
		if *f.src < 0 {
			return out, fmt.Errorf("%w: tool call weights must be non-negative", api.ErrInvalidWeights)
		}
		*f.dst = *f.src
	}
	return out, nil
}

// ToolCallAccuracyOptions configures the ToolCallAccuracy scorer
type ToolCallAccuracyOptions struct {
	// Mode is "exact" (positional, the default) or "flexible" (order-independent)
	Mode    string
	Weights ToolCallWeights
	Logger  *zap.Logger
}

// ToolCallAccuracy returns a scorer that compares the tool calls made in a multi-turn
// Conversation against Reference.ToolCalls.
func ToolCallAccuracy(opts ToolCallAccuracyOptions) api.Scorer {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &toolCallAccuracyScorer{opts: opts, logger: logger}
}

type toolCallAccuracyScorer struct {
	opts   ToolCallAccuracyOptions
	logger *zap.Logger
}

// toolCallTally counts how output calls were matched against reference calls
type toolCallTally struct {
	Exact    int `json:"exact"`
	NameOnly int `json:"name_only"`
	Wrong    int `json:"wrong"`
	Extra    int `json:"extra"`
	Missing  int `json:"missing"`
}

func (s *toolCallAccuracyScorer) Score(ctx context.Context, in api.ScoreInputs) api.Score {
	result := api.Score{
		Name:     "ToolCallAccuracy",
		Metadata: make(map[string]any),
	}

	mode := s.opts.Mode
	if mode == "" {
		mode = ToolCallModeExact
	}
	if mode != ToolCallModeExact && mode != ToolCallModeFlexible {
		result.Error = fmt.Errorf("%w: %q", api.ErrInvalidMode, s.opts.Mode)
		return result
	}
	weights, err := s.opts.Weights.resolve()
	if err != nil {
		result.Error = err
		return result
	}
	if !in.IsMultiTurn() {
		result.Error = api.ErrMultiTurnRequired
		return result
	}
	if in.Reference == nil || in.Reference.ToolCalls == nil {
		result.Error = fmt.Errorf("%w: reference tool calls are required", api.ErrNoExpectedValue)
		return result
	}

	actual := ExtractToolCalls(in.Conversation)
	expected := in.Reference.ToolCalls
	result.Metadata["mode"] = mode
	result.Metadata["actual_calls"] = len(actual)
	result.Metadata["expected_calls"] = len(expected)

	switch {
	case len(actual) == 0 && len(expected) == 0:
		result.Score = 1
		return result
	case len(actual) == 0 || len(expected) == 0:
		result.Score = 0
		return result
	}

	var tally toolCallTally
	if mode == ToolCallModeExact {
		tally = matchExact(actual, expected)
	} else {
		tally = matchFlexible(actual, expected)
	}

	denom := float64(max(len(expected), 1))
	credit := float64(tally.Exact)*weights.exact + float64(tally.NameOnly)*weights.nameOnly
	penalty := float64(tally.Wrong) * weights.wrongPenalty
	if mode == ToolCallModeFlexible {
		penalty = float64(tally.Extra) * weights.extraPenalty
	}

	result.Score = aggregate.Clamp01(credit/denom - penalty/denom)
	result.Metadata["tally"] = tally

	s.logger.Debug("tool calls matched",
		zap.String("mode", mode),
		zap.Int("exact", tally.Exact),
		zap.Int("name_only", tally.NameOnly),
		zap.Int("wrong", tally.Wrong),
		zap.Int("extra", tally.Extra),
		zap.Int("missing", tally.Missing),
	)

	return result
}

// matchExact compares calls position by position. Trailing actual calls are wrong,
// trailing expected calls are missing.
func matchExact(actual, expected []api.ToolCall) toolCallTally {
	var t toolCallTally
	for i := 0; i < max(len(actual), len(expected)); i++ {
		switch {
		case i >= len(expected):
			t.Wrong++
		case i >= len(actual):
			t.Missing++
		case actual[i].ToolName != expected[i].ToolName:
			t.Wrong++
		case argumentsKey(actual[i]) == argumentsKey(expected[i]):
			t.Exact++
		default:
			t.NameOnly++
		}
	}
	return t
}

// matchFlexible ignores order. Each expected call is consumed at most once: first by an
// identical call, then by a call with the same name. Unconsumed actual calls are extra.
func matchFlexible(actual, expected []api.ToolCall) toolCallTally {
	var t toolCallTally

	byKey := make(map[string]int)
	for _, c := range expected {
		byKey[argumentsKey(c)]++
	}

	var unmatched []api.ToolCall
	for _, c := range actual {
		key := argumentsKey(c)
		if byKey[key] > 0 {
			byKey[key]--
			t.Exact++
			continue
		}
		unmatched = append(unmatched, c)
	}

	byName := make(map[string]int)
	for _, c := range expected {
		if n := byKey[argumentsKey(c)]; n > 0 {
			byName[c.ToolName]++
			byKey[argumentsKey(c)]--
		}
	}

	for _, c := range unmatched {
		if byName[c.ToolName] > 0 {
			byName[c.ToolName]--
			t.NameOnly++
			continue
		}
		t.Extra++
	}
	for _, n := range byName {
		t.Missing += n
	}
	return t
}
