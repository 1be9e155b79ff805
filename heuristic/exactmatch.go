package heuristic

import (
	"context"
	"strings"

	"github.com/mattpocock/evalite-sub000/api"
)

// ExactMatchOptions configures the ExactMatch scorer
type ExactMatchOptions struct {
	// CaseInsensitive determines if the comparison should ignore case
	CaseInsensitive bool
	// TrimWhitespace determines if leading and trailing whitespace should be trimmed
	TrimWhitespace bool
}

// ExactMatch returns a scorer that checks if the output exactly matches the expected value.
// For a multi-turn output the last assistant text is compared.
func ExactMatch(opts ExactMatchOptions) api.Scorer {
	return &exactMatchScorer{opts: opts}
}

type exactMatchScorer struct {
	opts ExactMatchOptions
}

func (s *exactMatchScorer) Score(ctx context.Context, in api.ScoreInputs) api.Score {
	result := api.Score{
		Name:     "ExactMatch",
		Metadata: make(map[string]any),
	}

	expected := in.ReferenceAnswer()
	if expected == "" {
		result.Error = api.ErrNoExpectedValue
		result.Score = 0
		return result
	}

	output := in.Output
	if in.IsMultiTurn() {
		output = LastAssistantText(in.Conversation)
	}

	outputToCompare := output
	expectedToCompare := expected

	if s.opts.TrimWhitespace {
		outputToCompare = strings.TrimSpace(outputToCompare)
		expectedToCompare = strings.TrimSpace(expectedToCompare)
	}

	if s.opts.CaseInsensitive {
		outputToCompare = strings.ToLower(outputToCompare)
		expectedToCompare = strings.ToLower(expectedToCompare)
	}

	if outputToCompare == expectedToCompare {
		result.Score = 1.0
	} else {
		result.Score = 0.0
	}

	result.Metadata["case_insensitive"] = s.opts.CaseInsensitive
	result.Metadata["trim_whitespace"] = s.opts.TrimWhitespace
	result.Metadata["multi_turn"] = in.IsMultiTurn()
	result.Metadata["output_length"] = len(output)
	result.Metadata["expected_length"] = len(expected)

	return result
}
