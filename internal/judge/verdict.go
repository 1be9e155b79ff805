package judge

import (
	"context"
	"fmt"

	"github.com/mattpocock/evalite-sub000/api"
	"github.com/mattpocock/evalite-sub000/internal/prompt"
)

const verdictInstruction = `Your task is to judge the faithfulness of a series of statements based on a given context.
For each statement return verdict 1 if the statement can be directly inferred from the context,
or 0 if the statement can not be directly inferred from the context.
Return exactly one verdict per statement, in the same order as the statements.`

var verdictExampleInput = []prompt.Field{
	{Name: "context", Value: "Lena studies marine biology at a coastal university. She spends her weekends volunteering at an aquarium and is writing a thesis on coral bleaching."},
	{Name: "statements", Value: []string{
		"Lena is a marine biology student.",
		"Lena works full time at an aquarium.",
		"Lena is researching coral bleaching.",
		"Lena grew up near the coast.",
	}},
}

var detailedVerdictTemplate = prompt.Template{
	Instruction: verdictInstruction,
	Examples: []prompt.Example{
		{
			Input: verdictExampleInput,
			Output: map[string]any{
				"statements": []map[string]any{
					{"statement": "Lena is a marine biology student.", "reason": "The context says Lena studies marine biology.", "verdict": 1},
					{"statement": "Lena works full time at an aquarium.", "reason": "The context only mentions weekend volunteering.", "verdict": 0},
					{"statement": "Lena is researching coral bleaching.", "reason": "Her thesis is on coral bleaching.", "verdict": 1},
					{"statement": "Lena grew up near the coast.", "reason": "The context says nothing about where Lena grew up.", "verdict": 0},
				},
			},
		},
	},
	Fields: []string{"context", "statements"},
}

var simpleVerdictTemplate = prompt.Template{
	Instruction: verdictInstruction,
	Examples: []prompt.Example{
		{
			Input:  verdictExampleInput,
			Output: map[string]any{"verdicts": []int{1, 0, 1, 0}},
		},
	},
	Fields: []string{"context", "statements"},
}

var detailedVerdictSchema = map[string]interface{}{
	"title": "statement_verdicts",
	"type":  "object",
	"properties": map[string]interface{}{
		"statements": map[string]interface{}{
			"type": "array",
			"items": map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"statement": map[string]interface{}{"type": "string"},
					"reason":    map[string]interface{}{"type": "string"},
					"verdict":   map[string]interface{}{"type": "integer", "enum": []int{0, 1}},
				},
				"required": []string{"statement", "reason", "verdict"},
			},
		},
	},
	"required": []string{"statements"},
}

var simpleVerdictSchema = map[string]interface{}{
	"title": "verdicts",
	"type":  "object",
	"properties": map[string]interface{}{
		"verdicts": map[string]interface{}{
			"type":  "array",
			"items": map[string]interface{}{"type": "integer", "enum": []int{0, 1}},
		},
	},
	"required": []string{"verdicts"},
}

type detailedVerdictResponse struct {
	Statements []api.StatementVerdict `mapstructure:"statements"`
}

type simpleVerdictResponse struct {
	Verdicts []int `mapstructure:"verdicts"`
}

// EvaluateDetailed returns one verdict with reason per statement, in statement order.
func (j *Judge) EvaluateDetailed(ctx context.Context, contextText string, statements []string) ([]api.StatementVerdict, error) {
	if len(statements) == 0 {
		return []api.StatementVerdict{}, nil
	}

	var resp detailedVerdictResponse
	err := j.Generate(ctx, "verdicts_detailed", detailedVerdictTemplate, map[string]any{
		"context":    contextText,
		"statements": statements,
	}, detailedVerdictSchema, &resp)
	if err != nil {
		return nil, err
	}
	if err := checkCount(len(resp.Statements), len(statements)); err != nil {
		return nil, err
	}
	return resp.Statements, nil
}

// EvaluateSimple returns one 0/1 verdict per statement, in statement order, without reasons.
func (j *Judge) EvaluateSimple(ctx context.Context, contextText string, statements []string) ([]int, error) {
	if len(statements) == 0 {
		return []int{}, nil
	}

	var resp simpleVerdictResponse
	err := j.Generate(ctx, "verdicts_simple", simpleVerdictTemplate, map[string]any{
		"context":    contextText,
		"statements": statements,
	}, simpleVerdictSchema, &resp)
	if err != nil {
		return nil, err
	}
	if err := checkCount(len(resp.Verdicts), len(statements)); err != nil {
		return nil, err
	}
	return resp.Verdicts, nil
}

// checkCount enforces the positional correlation between statements and verdicts.
func checkCount(got, want int) error {
	if got != want {
		return fmt.Errorf("%w: got %d verdicts for %d statements", api.ErrVerdictCountMismatch, got, want)
	}
	return nil
}
