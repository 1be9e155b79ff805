// Package gemini adapts google.golang.org/genai clients to the judge and embedding capabilities.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/genai"

	"github.com/mattpocock/evalite-sub000/api"
)

// Generator wraps a genai.Client to implement the LLMGenerator interface
type Generator struct {
	client    *genai.Client
	modelName string
}

// NewGenerator creates a new Gemini generator
// client: genai.Client from google.golang.org/genai
// modelName: the model to use (e.g., "gemini-2.5-flash")
func NewGenerator(client *genai.Client, modelName string) *Generator {
	return &Generator{
		client:    client,
		modelName: modelName,
	}
}

// StructuredGenerate implements LLMGenerator.StructuredGenerate
// The schema is passed as a JSON schema and the model is asked for a JSON response.
func (g *Generator) StructuredGenerate(ctx context.Context, prompt string, schema map[string]interface{}) (map[string]interface{}, error) {
	config := &genai.GenerateContentConfig{
		ResponseMIMEType:   "application/json",
		ResponseJsonSchema: withoutTitle(schema),
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, genai.Text(prompt), config)
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("no candidates returned")
	}

	text := resp.Text()
	if text == "" {
		return nil, fmt.Errorf("no parts in response")
	}

	var result map[string]interface{}
	if err := json.Unmarshal([]byte(text), &result); err != nil {
		return nil, fmt.Errorf("failed to parse structured response: %w", err)
	}
	return result, nil
}

// withoutTitle drops the top-level title, which only names the task
func withoutTitle(schema map[string]interface{}) map[string]interface{} {
	if _, ok := schema["title"]; !ok {
		return schema
	}
	out := make(map[string]interface{}, len(schema))
	for k, v := range schema {
		if k != "title" {
			out[k] = v
		}
	}
	return out
}

// Verify that Generator implements LLMGenerator
var _ api.LLMGenerator = (*Generator)(nil)
