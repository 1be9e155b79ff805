package judge

import (
	"context"

	"github.com/mattpocock/evalite-sub000/api"
	"github.com/mattpocock/evalite-sub000/internal/prompt"
)

var classifyTemplate = prompt.Template{
	Instruction: `Given ground truth statements and answer statements, analyze each statement and classify it into one of the following categories:
- TP (true positive): statements present in the answer that are directly supported by one or more ground truth statements,
- FP (false positive): statements present in the answer that are not directly supported by any ground truth statement,
- FN (false negative): ground truth statements that are not present in the answer.
Each statement can only belong to one of the categories. Provide a reason for each classification.`,
	Examples: []prompt.Example{
		{
			// hallucination: the answer adds a claim the ground truth does not support
			Input: []prompt.Field{
				{Name: "question", Value: "What powers a hydroelectric dam?"},
				{Name: "answer", Value: []string{
					"A hydroelectric dam is powered by flowing water.",
					"A hydroelectric dam burns coal to heat its turbines.",
				}},
				{Name: "ground_truth", Value: []string{
					"A hydroelectric dam converts the energy of flowing water into electricity.",
				}},
			},
			Output: map[string]any{
				"classification": map[string]any{
					"TP": []map[string]string{
						{"statement": "A hydroelectric dam is powered by flowing water.", "reason": "The ground truth says the dam converts the energy of flowing water."},
					},
					"FP": []map[string]string{
						{"statement": "A hydroelectric dam burns coal to heat its turbines.", "reason": "The ground truth does not mention coal; the claim contradicts it."},
					},
					"FN": []map[string]string{},
				},
			},
		},
		{
			// omission: the answer leaves out part of the ground truth
			Input: []prompt.Field{
				{Name: "question", Value: "Which gases make up most of Earth's atmosphere?"},
				{Name: "answer", Value: []string{
					"Nitrogen makes up most of Earth's atmosphere.",
				}},
				{Name: "ground_truth", Value: []string{
					"Nitrogen makes up about 78 percent of Earth's atmosphere.",
					"Oxygen makes up about 21 percent of Earth's atmosphere.",
				}},
			},
			Output: map[string]any{
				"classification": map[string]any{
					"TP": []map[string]string{
						{"statement": "Nitrogen makes up most of Earth's atmosphere.", "reason": "The ground truth states nitrogen is about 78 percent of the atmosphere."},
					},
					"FP": []map[string]string{},
					"FN": []map[string]string{
						{"statement": "Oxygen makes up about 21 percent of Earth's atmosphere.", "reason": "The answer does not mention oxygen."},
					},
				},
			},
		},
	},
	Fields: []string{"question", "answer", "ground_truth"},
}

var classifiedListSchema = map[string]interface{}{
	"type": "array",
	"items": map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"statement": map[string]interface{}{"type": "string"},
			"reason":    map[string]interface{}{"type": "string"},
		},
		"required": []string{"statement", "reason"},
	},
}

var classifySchema = map[string]interface{}{
	"title": "classification",
	"type":  "object",
	"properties": map[string]interface{}{
		"classification": map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"TP": classifiedListSchema,
				"FP": classifiedListSchema,
				"FN": classifiedListSchema,
			},
			"required": []string{"TP", "FP", "FN"},
		},
	},
	"required": []string{"classification"},
}

type classifyResponse struct {
	Classification api.Classification `mapstructure:"classification"`
}

// Classify buckets answer statements into TP/FP and unmatched reference statements into FN.
// Callers must only invoke it with two non-empty statement lists.
func (j *Judge) Classify(ctx context.Context, question string, answer, reference []string) (api.Classification, error) {
	var resp classifyResponse
	err := j.Generate(ctx, "classify", classifyTemplate, map[string]any{
		"question":     question,
		"answer":       answer,
		"ground_truth": reference,
	}, classifySchema, &resp)
	if err != nil {
		return api.Classification{}, err
	}
	return resp.Classification, nil
}
