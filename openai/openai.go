// Package openai adapts github.com/sashabaranov/go-openai clients to the judge and embedding
// capabilities. Any OpenAI-compatible endpoint can be used through the base URL.
package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/mattpocock/evalite-sub000/api"
)

// NewClient creates a go-openai client. An empty baseURL uses the OpenAI API.
func NewClient(apiKey, baseURL string) (*goopenai.Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	config := goopenai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return goopenai.NewClientWithConfig(config), nil
}

// Generator wraps a go-openai client to implement the LLMGenerator interface
type Generator struct {
	client    *goopenai.Client
	modelName string
}

// NewGenerator creates a new OpenAI generator
// modelName: the chat model to use (e.g., "gpt-4o-mini"); empty uses gpt-4o-mini
func NewGenerator(client *goopenai.Client, modelName string) *Generator {
	if modelName == "" {
		modelName = goopenai.GPT4oMini
	}
	return &Generator{
		client:    client,
		modelName: modelName,
	}
}

// StructuredGenerate implements LLMGenerator.StructuredGenerate using a json_schema response format
func (g *Generator) StructuredGenerate(ctx context.Context, prompt string, schema map[string]interface{}) (map[string]interface{}, error) {
	req := goopenai.ChatCompletionRequest{
		Model: g.modelName,
		Messages: []goopenai.ChatCompletionMessage{
			{
				Role:    goopenai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		Temperature: 0,
		ResponseFormat: &goopenai.ChatCompletionResponseFormat{
			Type: goopenai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &goopenai.ChatCompletionResponseFormatJSONSchema{
				Name:   schemaName(schema),
				Schema: jsonSchema(schema),
			},
		},
	}

	resp, err := g.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return nil, fmt.Errorf("empty response from OpenAI")
	}

	var result map[string]interface{}
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return nil, fmt.Errorf("failed to parse structured response: %w", err)
	}
	return result, nil
}

// jsonSchema lets a schema map satisfy the json.Marshaler the request expects
type jsonSchema map[string]interface{}

func (s jsonSchema) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]interface{}(s))
}

var invalidNameChars = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

// schemaName derives the response format name from the schema title
func schemaName(schema map[string]interface{}) string {
	title, _ := schema["title"].(string)
	name := invalidNameChars.ReplaceAllString(title, "_")
	if name == "" {
		return "response"
	}
	return name
}

// Verify that Generator implements LLMGenerator
var _ api.LLMGenerator = (*Generator)(nil)
