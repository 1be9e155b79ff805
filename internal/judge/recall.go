package judge

import (
	"context"

	"github.com/mattpocock/evalite-sub000/internal/prompt"
)

var recallTemplate = prompt.Template{
	Instruction: `Given a context and an answer, analyze each sentence in the answer and classify if the sentence can be attributed to the given context or not.
Use only 'Yes' (1) or 'No' (0) as a binary classification. Output JSON with reason.`,
	Examples: []prompt.Example{
		{
			Input: []prompt.Field{
				{Name: "question", Value: "What can you tell me about the Amazon rainforest?"},
				{Name: "context", Value: "The Amazon rainforest covers much of the Amazon basin of South America. The majority of the forest is contained within Brazil. It is home to an estimated 390 billion individual trees."},
				{Name: "answer", Value: "The Amazon rainforest is located in South America. Most of it lies within Brazil. It produces a fifth of the world's oxygen."},
			},
			Output: map[string]any{
				"classifications": []map[string]any{
					{"statement": "The Amazon rainforest is located in South America.", "reason": "The context says the forest covers the Amazon basin of South America.", "attributed": 1},
					{"statement": "Most of it lies within Brazil.", "reason": "The context says the majority of the forest is within Brazil.", "attributed": 1},
					{"statement": "It produces a fifth of the world's oxygen.", "reason": "The context does not mention oxygen production.", "attributed": 0},
				},
			},
		},
	},
	Fields: []string{"question", "context", "answer"},
}

var recallSchema = map[string]interface{}{
	"title": "context_recall",
	"type":  "object",
	"properties": map[string]interface{}{
		"classifications": map[string]interface{}{
			"type": "array",
			"items": map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"statement":  map[string]interface{}{"type": "string"},
					"reason":     map[string]interface{}{"type": "string"},
					"attributed": map[string]interface{}{"type": "integer", "enum": []int{0, 1}},
				},
				"required": []string{"statement", "reason", "attributed"},
			},
		},
	},
	"required": []string{"classifications"},
}

// Attribution records whether a reference sentence is supported by the contexts.
type Attribution struct {
	Statement  string `mapstructure:"statement" json:"statement"`
	Reason     string `mapstructure:"reason" json:"reason"`
	Attributed int    `mapstructure:"attributed" json:"attributed"`
}

type recallResponse struct {
	Classifications []Attribution `mapstructure:"classifications"`
}

// Attribute classifies each sentence of reference as attributable to contextText or not.
func (j *Judge) Attribute(ctx context.Context, question, contextText, reference string) ([]Attribution, error) {
	var resp recallResponse
	err := j.Generate(ctx, "context_recall", recallTemplate, map[string]any{
		"question": question,
		"context":  contextText,
		"answer":   reference,
	}, recallSchema, &resp)
	if err != nil {
		return nil, err
	}
	if resp.Classifications == nil {
		return []Attribution{}, nil
	}
	return resp.Classifications, nil
}
