package api

import "context"

// LLMGenerator is the judge model capability used by LLM-as-a-judge scorers.
// This interface must be implemented by library consumers
// Gemini and OpenAI implementations are provided in the gemini and openai subpackages
type LLMGenerator interface {
	// StructuredGenerate generates structured data based on the provided prompt and JSON schema
	// schema must be a valid JSON schema (map[string]interface{})
	// Returns the generated data as a map[string]interface{} or an error
	StructuredGenerate(ctx context.Context, prompt string, schema map[string]interface{}) (map[string]interface{}, error)
}

// Embedder generates vector embeddings for text
type Embedder interface {
	// EmbedMany generates one embedding per value, in input order, in a single batched call.
	// An entry may be nil when the provider returned no vector for that value.
	EmbedMany(ctx context.Context, values []string) ([][]float64, error)
}

// Score represents the result of an evaluation
type Score struct {
	// Name identifies the scorer that produced this result
	Name string
	// Score is a value between 0 and 1, where 1 is the best possible score
	Score float64
	// Metadata contains additional information about the scoring process
	Metadata map[string]any
	// Error contains any error that occurred during scoring
	Error error
}

// ScoreInputs carries inputs for scoring across different scorers.
//
// Fields usage conventions:
// - Output:       the actual single-turn output produced by the model
// - Expected:     the reference/expected output (optional depending on scorer)
// - Input:        the original prompt/question given to the model (optional)
// - Sample:       structured single-turn sample with retrieved contexts (RAG scorers)
// - Conversation: multi-turn output transcript; when non-nil the output is multi-turn and Output is ignored
// - Reference:    structured expectations (reference answer, ground-truth contexts, reference tool calls)
type ScoreInputs struct {
	Output   string
	Expected string
	Input    string

	Sample       *Sample
	Conversation []Message
	Reference    *Reference
}

// IsMultiTurn reports whether the output is a role-tagged message transcript.
func (in ScoreInputs) IsMultiTurn() bool {
	return in.Conversation != nil
}

// Question returns the question text, preferring the structured sample query.
func (in ScoreInputs) Question() string {
	if in.Sample != nil && in.Sample.Query != "" {
		return in.Sample.Query
	}
	return in.Input
}

// ReferenceAnswer returns the reference answer, preferring Reference.Answer over Expected.
func (in ScoreInputs) ReferenceAnswer() string {
	if in.Reference != nil && in.Reference.Answer != "" {
		return in.Reference.Answer
	}
	return in.Expected
}

// Scorer evaluates the quality of an output
type Scorer interface {
	// Score evaluates the output and returns a score
	// in: container for output/expected/input depending on scorer needs
	Score(ctx context.Context, in ScoreInputs) Score
}

// Sample is a single-turn question/context sample.
type Sample struct {
	Query             string   `json:"query" yaml:"query"`
	RetrievedContexts []string `json:"retrieved_contexts" yaml:"retrieved_contexts"`
}

// Reference holds structured expected values.
type Reference struct {
	Answer      string     `json:"answer,omitempty" yaml:"answer"`
	GroundTruth []string   `json:"ground_truth,omitempty" yaml:"ground_truth"`
	ToolCalls   []ToolCall `json:"tool_calls,omitempty" yaml:"tool_calls"`
}

// Message roles
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// Part types
const (
	PartText       = "text"
	PartToolCall   = "tool-call"
	PartToolResult = "tool-result"
)

// Message is one role-tagged turn of a multi-turn transcript.
// Content holds plain text; Parts holds structured content such as tool calls.
type Message struct {
	Role    string `json:"role" yaml:"role"`
	Content string `json:"content,omitempty" yaml:"content"`
	Parts   []Part `json:"parts,omitempty" yaml:"parts"`
}

// Part is a piece of structured message content.
type Part struct {
	Type       string         `json:"type" yaml:"type"`
	Text       string         `json:"text,omitempty" yaml:"text"`
	ToolCallID string         `json:"tool_call_id,omitempty" yaml:"tool_call_id"`
	ToolName   string         `json:"tool_name,omitempty" yaml:"tool_name"`
	Input      map[string]any `json:"input,omitempty" yaml:"input"`
}

// ToolCall is a normalized view of one function invocation.
// A nil Input means the call carried no arguments.
type ToolCall struct {
	ToolName string         `json:"tool_name" yaml:"tool_name"`
	Input    map[string]any `json:"input,omitempty" yaml:"input"`
}

// ClassifiedStatement is a statement placed in a classification bucket by the judge.
type ClassifiedStatement struct {
	Statement string `json:"statement" mapstructure:"statement"`
	Reason    string `json:"reason" mapstructure:"reason"`
}

// Classification buckets response and reference statements.
// TP: answer statements supported by the reference
// FP: answer statements not supported by the reference
// FN: reference statements missing from the answer
type Classification struct {
	TP []ClassifiedStatement `json:"TP" mapstructure:"TP"`
	FP []ClassifiedStatement `json:"FP" mapstructure:"FP"`
	FN []ClassifiedStatement `json:"FN" mapstructure:"FN"`
}

// StatementVerdict is the judge's verdict for one statement against a context.
// Verdict is 1 when the statement can be inferred from the context, 0 otherwise.
type StatementVerdict struct {
	Statement string `json:"statement" mapstructure:"statement"`
	Reason    string `json:"reason" mapstructure:"reason"`
	Verdict   int    `json:"verdict" mapstructure:"verdict"`
}
