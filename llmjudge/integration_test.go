package llmjudge

import (
	"context"
	"testing"

	"github.com/mattpocock/evalite-sub000/api"
	"github.com/mattpocock/evalite-sub000/internal/testutils"
)

const integrationModel = "publishers/google/models/gemini-2.5-flash"

// TestAnswerCorrectness_Integration runs AnswerCorrectness against Gemini
// This test requires valid Google Cloud credentials and uses hypert to cache requests
func TestAnswerCorrectness_Integration(t *testing.T) {
	ctx := context.Background()

	config := testutils.DefaultGeminiTestConfig("answer_correctness")
	llm := testutils.NewGeminiGenerator(t, config, integrationModel)
	embedder := testutils.NewGeminiEmbedder(t, config, "text-embedding-005")

	tests := []struct {
		name     string
		input    string
		output   string
		expected string
		minScore float64
		maxScore float64
	}{
		{
			name:     "correct answer",
			input:    "What is the capital of France?",
			output:   "The capital of France is Paris.",
			expected: "Paris is the capital of France.",
			minScore: 0.8,
			maxScore: 1.0,
		},
		{
			name:     "incorrect answer",
			input:    "What is the capital of France?",
			output:   "The capital of France is London.",
			expected: "Paris is the capital of France.",
			minScore: 0.0,
			maxScore: 0.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := AnswerCorrectness(llm, embedder, AnswerCorrectnessOptions{}).Score(ctx, api.ScoreInputs{
				Input:    tt.input,
				Output:   tt.output,
				Expected: tt.expected,
			})

			if result.Error != nil {
				t.Fatalf("AnswerCorrectness.Score() unexpected error = %v", result.Error)
			}
			if result.Score < tt.minScore || result.Score > tt.maxScore {
				t.Errorf("AnswerCorrectness.Score() score = %v, want between %v and %v", result.Score, tt.minScore, tt.maxScore)
			}
		})
	}
}

// TestFaithfulness_Integration runs Faithfulness against Gemini
func TestFaithfulness_Integration(t *testing.T) {
	ctx := context.Background()

	llm := testutils.NewGeminiGenerator(t, testutils.DefaultGeminiTestConfig("faithfulness"), integrationModel)

	result := Faithfulness(llm, FaithfulnessOptions{}).Score(ctx, api.ScoreInputs{
		Output: "Einstein was born in Germany in 1879.",
		Sample: &api.Sample{
			Query:             "Where and when was Einstein born?",
			RetrievedContexts: []string{"Albert Einstein was a German-born theoretical physicist, born on 14 March 1879 in Ulm."},
		},
	})

	if result.Error != nil {
		t.Fatalf("Faithfulness.Score() unexpected error = %v", result.Error)
	}
	if result.Score < 0.9 {
		t.Errorf("Faithfulness.Score() score = %v, want >= 0.9", result.Score)
	}
}
