package judge

import (
	"context"

	"github.com/mattpocock/evalite-sub000/internal/prompt"
)

var decomposeTemplate = prompt.Template{
	Instruction: `Given a question and an answer, analyze the complexity of each sentence in the answer.
Break down each sentence into one or more fully understandable statements.
Every statement must stand on its own: replace all pronouns with the entities they refer to.
Do not add information that is not in the answer. Format the output as JSON.`,
	Examples: []prompt.Example{
		{
			Input: []prompt.Field{
				{Name: "question", Value: "Who was Marie Curie and what is she remembered for?"},
				{Name: "answer", Value: "She was a Polish-born physicist and chemist who worked in France. She is remembered for her research on radioactivity, and she was the first person to win Nobel Prizes in two different sciences."},
			},
			Output: map[string]any{
				"statements": []string{
					"Marie Curie was a Polish-born physicist and chemist.",
					"Marie Curie worked in France.",
					"Marie Curie is remembered for her research on radioactivity.",
					"Marie Curie was the first person to win Nobel Prizes in two different sciences.",
				},
			},
		},
	},
	Fields: []string{"question", "answer"},
}

var decomposeSchema = map[string]interface{}{
	"title": "statements",
	"type":  "object",
	"properties": map[string]interface{}{
		"statements": map[string]interface{}{
			"type":        "array",
			"items":       map[string]interface{}{"type": "string"},
			"description": "Self-contained statements extracted from the answer, in answer order",
		},
	},
	"required": []string{"statements"},
}

type decomposeResponse struct {
	Statements []string `mapstructure:"statements"`
}

// Decompose splits text into atomic, pronoun-free statements in the judge's order.
// An empty list is a valid result.
func (j *Judge) Decompose(ctx context.Context, question, text string) ([]string, error) {
	var resp decomposeResponse
	err := j.Generate(ctx, "decompose", decomposeTemplate, map[string]any{
		"question": question,
		"answer":   text,
	}, decomposeSchema, &resp)
	if err != nil {
		return nil, err
	}
	if resp.Statements == nil {
		return []string{}, nil
	}
	return resp.Statements, nil
}
