// Package testutils wires Gemini clients to hypert record/replay HTTP clients for integration tests.
package testutils

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/areknoster/hypert"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/genai"

	"github.com/mattpocock/evalite-sub000/gemini"
)

const testDataDir = "testdata"

// ShouldUpdate returns true if tests should update cached HTTP responses
// Set UPDATE_TESTS=true environment variable to update cached responses
func ShouldUpdate() bool {
	return os.Getenv("UPDATE_TESTS") == "true"
}

// RequireRecordings skips the test in short mode, and in replay mode when no
// recorded responses exist for subDir.
func RequireRecordings(t *testing.T, subDir string) {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	if ShouldUpdate() {
		if os.Getenv("GOOGLE_PROJECT_ID") == "" {
			t.Skip("GOOGLE_PROJECT_ID is required to record responses")
		}
		return
	}
	if _, err := os.Stat(filepath.Join(testDataDir, subDir)); err != nil {
		t.Skipf("no recorded responses in %s; run with UPDATE_TESTS=true to record", filepath.Join(testDataDir, subDir))
	}
}

// HypertClientConfig configures hypert client creation
type HypertClientConfig struct {
	TestDataDir string
	SubDir      string // Optional subdirectory for organizing test data
}

// NewHypertClient creates a new hypert client for caching HTTP requests
// In record mode the client authenticates with application default credentials.
func NewHypertClient(t *testing.T, config HypertClientConfig) *http.Client {
	dir := config.TestDataDir
	if config.SubDir != "" {
		dir = filepath.Join(dir, config.SubDir)
	}

	namingScheme, err := hypert.NewContentHashNamingScheme(dir)
	if err != nil {
		t.Fatalf("failed to create naming scheme: %v", err)
	}

	hypertClient := hypert.TestClient(t, ShouldUpdate(),
		hypert.WithNamingScheme(namingScheme),
		hypert.WithRequestValidator(hypert.ComposedRequestValidator(
			hypert.PathValidator(),
			hypert.QueryParamsValidator(),
			hypert.MethodValidator(),
		)),
	)

	if ShouldUpdate() {
		ctx := context.Background()
		creds, err := google.FindDefaultCredentials(ctx, "https://www.googleapis.com/auth/cloud-platform")
		if err != nil {
			t.Fatalf("failed to get default credentials: %v", err)
		}
		return oauth2.NewClient(context.WithValue(ctx, oauth2.HTTPClient, hypertClient), creds.TokenSource)
	}

	return hypertClient
}

// GeminiTestConfig configures Gemini client creation for tests
type GeminiTestConfig struct {
	Project  string
	Location string
	SubDir   string // Subdirectory for hypert test data
}

// DefaultGeminiTestConfig returns a default configuration for Gemini testing
func DefaultGeminiTestConfig(subDir string) GeminiTestConfig {
	location := os.Getenv("GOOGLE_REGION")
	if location == "" {
		location = "us-central1"
	}
	return GeminiTestConfig{
		Project:  os.Getenv("GOOGLE_PROJECT_ID"),
		Location: location,
		SubDir:   subDir,
	}
}

// NewGeminiClient creates a new Vertex AI Gemini client backed by hypert
func NewGeminiClient(t *testing.T, config GeminiTestConfig) *genai.Client {
	RequireRecordings(t, config.SubDir)

	genaiClient, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		Backend:  genai.BackendVertexAI,
		Project:  config.Project,
		Location: config.Location,
		HTTPClient: NewHypertClient(t, HypertClientConfig{
			TestDataDir: testDataDir,
			SubDir:      config.SubDir,
		}),
	})
	if err != nil {
		t.Fatalf("failed to create genai client: %v", err)
	}

	return genaiClient
}

// NewGeminiGenerator creates a new Gemini generator for testing
func NewGeminiGenerator(t *testing.T, config GeminiTestConfig, modelName string) *gemini.Generator {
	return gemini.NewGenerator(NewGeminiClient(t, config), modelName)
}

// NewGeminiEmbedder creates a new Gemini embedder for testing
func NewGeminiEmbedder(t *testing.T, config GeminiTestConfig, modelName string) *gemini.Embedder {
	return gemini.NewEmbedder(NewGeminiClient(t, config), modelName)
}
