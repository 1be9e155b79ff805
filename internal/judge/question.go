package judge

import (
	"context"

	"github.com/mattpocock/evalite-sub000/internal/prompt"
)

var questionTemplate = prompt.Template{
	Instruction: `Generate a question for the given answer and identify if the answer is noncommittal.
Give noncommittal as 1 if the answer is noncommittal and 0 if the answer is committal.
A noncommittal answer is one that is evasive, vague, or ambiguous. For example, "I don't know" or "I'm not sure" are noncommittal answers.`,
	Examples: []prompt.Example{
		{
			Input: []prompt.Field{
				{Name: "response", Value: "The Great Barrier Reef lies off the coast of Queensland in northeastern Australia."},
			},
			Output: map[string]any{
				"question":     "Where is the Great Barrier Reef located?",
				"noncommittal": 0,
			},
		},
		{
			Input: []prompt.Field{
				{Name: "response", Value: "I can't say for sure which company will release the first commercial fusion reactor."},
			},
			Output: map[string]any{
				"question":     "Which company will release the first commercial fusion reactor?",
				"noncommittal": 1,
			},
		},
	},
	Fields: []string{"response"},
}

var questionSchema = map[string]interface{}{
	"title": "question_generation",
	"type":  "object",
	"properties": map[string]interface{}{
		"question":     map[string]interface{}{"type": "string"},
		"noncommittal": map[string]interface{}{"type": "integer", "enum": []int{0, 1}},
	},
	"required": []string{"question", "noncommittal"},
}

// GeneratedQuestion is a question reverse-engineered from an answer.
type GeneratedQuestion struct {
	Question     string `mapstructure:"question" json:"question"`
	Noncommittal int    `mapstructure:"noncommittal" json:"noncommittal"`
}

// IsNoncommittal reports whether the judge flagged the answer as evasive.
func (q GeneratedQuestion) IsNoncommittal() bool {
	return q.Noncommittal == 1
}

// GenerateQuestion asks the judge for a question the answer would respond to.
func (j *Judge) GenerateQuestion(ctx context.Context, answer string) (GeneratedQuestion, error) {
	var resp GeneratedQuestion
	err := j.Generate(ctx, "question_generation", questionTemplate, map[string]any{
		"response": answer,
	}, questionSchema, &resp)
	if err != nil {
		return GeneratedQuestion{}, err
	}
	return resp, nil
}
