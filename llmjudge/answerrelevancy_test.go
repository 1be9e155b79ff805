package llmjudge

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattpocock/evalite-sub000/api"
)

const (
	arQuestion = "How tall is Mount Kilimanjaro?"
	arAnswer   = "Mount Kilimanjaro rises 5,895 metres above sea level."
)

func TestAnswerRelevancy_Unit(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name         string
		response     string
		failFirst    int
		strictness   int
		embeddings   map[string][]float64
		wantScore    float64
		wantFailed   int
		wantAttempts int
	}{
		{
			name:         "generated question matches",
			response:     `{"question": "What is the height of Mount Kilimanjaro?", "noncommittal": 0}`,
			wantScore:    1.0,
			wantAttempts: 3,
		},
		{
			name:     "generated question is unrelated",
			response: `{"question": "Who first climbed Mount Kilimanjaro?", "noncommittal": 0}`,
			embeddings: map[string][]float64{
				"Who first climbed Mount Kilimanjaro?": {0, 1, 0},
			},
			wantScore:    0,
			wantAttempts: 3,
		},
		{
			name:         "noncommittal answer",
			response:     `{"question": "What is the height of Mount Kilimanjaro?", "noncommittal": 1}`,
			wantScore:    0,
			wantAttempts: 3,
		},
		{
			name:         "failed generation contributes zero",
			response:     `{"question": "What is the height of Mount Kilimanjaro?", "noncommittal": 0}`,
			failFirst:    1,
			wantScore:    2.0 / 3.0,
			wantFailed:   1,
			wantAttempts: 3,
		},
		{
			name:     "opposite generated question",
			response: `{"question": "How deep is Lake Tanganyika?", "noncommittal": 0}`,
			embeddings: map[string][]float64{
				"How deep is Lake Tanganyika?": {-1, 0, 0},
			},
			wantScore:    0,
			wantAttempts: 3,
		},
		{
			name:         "custom strictness",
			response:     `{"question": "What is the height of Mount Kilimanjaro?", "noncommittal": 0}`,
			strictness:   5,
			wantScore:    1.0,
			wantAttempts: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			llm := &scriptedLLM{
				failFirst: tt.failFirst,
				routes: []route{
					{title: "question_generation", contains: []string{arAnswer}, response: tt.response},
				},
			}
			embedder := &mockEmbedder{embeddings: tt.embeddings}

			result := AnswerRelevancy(llm, embedder, AnswerRelevancyOptions{Strictness: tt.strictness}).Score(ctx, api.ScoreInputs{
				Input:  arQuestion,
				Output: arAnswer,
			})

			require.NoError(t, result.Error)
			assert.Equal(t, "AnswerRelevancy", result.Name)
			assert.InDelta(t, tt.wantScore, result.Score, 1e-9)
			assert.Equal(t, tt.wantFailed, result.Metadata["failed_generations"])
			assert.Equal(t, tt.wantAttempts, llm.count("question_generation"))
			assert.Equal(t, 1, embedder.callCount())
			assert.Equal(t, arQuestion, embedder.lastValues[0])
			assert.Len(t, embedder.lastValues, tt.wantAttempts-tt.wantFailed+1)
		})
	}
}

func TestAnswerRelevancy_Errors(t *testing.T) {
	ctx := context.Background()
	valid := api.ScoreInputs{Input: arQuestion, Output: arAnswer}

	t.Run("all generations fail", func(t *testing.T) {
		llm := &scriptedLLM{failFirst: DefaultStrictness}
		embedder := &mockEmbedder{}

		result := AnswerRelevancy(llm, embedder, AnswerRelevancyOptions{}).Score(ctx, valid)

		assert.ErrorIs(t, result.Error, api.ErrLLMGenerationFailed)
		assert.Equal(t, 0.0, result.Score)
		assert.Equal(t, 0, embedder.callCount())
	})

	t.Run("missing question", func(t *testing.T) {
		result := AnswerRelevancy(&scriptedLLM{}, &mockEmbedder{}, AnswerRelevancyOptions{}).Score(ctx, api.ScoreInputs{Output: arAnswer})
		assert.Error(t, result.Error)
	})

	t.Run("question from sample", func(t *testing.T) {
		llm := &scriptedLLM{routes: []route{
			{title: "question_generation", response: `{"question": "What is the height of Mount Kilimanjaro?", "noncommittal": 0}`},
		}}
		embedder := &mockEmbedder{}
		result := AnswerRelevancy(llm, embedder, AnswerRelevancyOptions{}).Score(ctx, api.ScoreInputs{
			Output: arAnswer,
			Sample: &api.Sample{Query: arQuestion},
		})
		require.NoError(t, result.Error)
		assert.Equal(t, arQuestion, embedder.lastValues[0])
	})

	t.Run("multi-turn output", func(t *testing.T) {
		result := AnswerRelevancy(&scriptedLLM{}, &mockEmbedder{}, AnswerRelevancyOptions{}).Score(ctx, api.ScoreInputs{
			Input:        arQuestion,
			Conversation: []api.Message{{Role: api.RoleAssistant, Content: arAnswer}},
		})
		assert.ErrorIs(t, result.Error, api.ErrSingleTurnRequired)
	})

	t.Run("no embedder", func(t *testing.T) {
		result := AnswerRelevancy(&scriptedLLM{}, nil, AnswerRelevancyOptions{}).Score(ctx, valid)
		assert.Error(t, result.Error)
	})

	t.Run("embedder failure", func(t *testing.T) {
		llm := &scriptedLLM{routes: []route{
			{title: "question_generation", response: `{"question": "What is the height of Mount Kilimanjaro?", "noncommittal": 0}`},
		}}
		result := AnswerRelevancy(llm, &mockEmbedder{err: assert.AnError}, AnswerRelevancyOptions{}).Score(ctx, valid)
		assert.ErrorIs(t, result.Error, api.ErrEmbeddingFailed)
	})
}
