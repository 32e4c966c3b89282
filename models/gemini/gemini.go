package gemini

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"google.golang.org/genai"
)

func init() {
	// Load .env file if it exists (not present in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
}

// DefaultModel is used when no model name is configured.
const DefaultModel = "gemini-1.5-flash"

// GeminiModel generates chat replies via the Gemini API. Each call is a
// single stateless request; the remote side keeps no conversation context
// between calls.
type GeminiModel struct {
	Model  string
	client *genai.Client
}

// NewGeminiModel builds the client. The API key is required up front: every
// feature depends on the model client, so a missing key refuses to
// initialize rather than running degraded.
func NewGeminiModel(ctx context.Context, model string) (*GeminiModel, error) {
	if os.Getenv("GEMINI_API_KEY") == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}

	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	if model == "" {
		model = DefaultModel
	}

	return &GeminiModel{
		Model:  model,
		client: client,
	}, nil
}

// Generate sends the prompt text and returns the generated reply.
func (g *GeminiModel) Generate(ctx context.Context, prompt string) (string, error) {
	result, err := g.client.Models.GenerateContent(
		ctx,
		g.Model,
		genai.Text(prompt),
		nil, // config
	)
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}

	text := result.Text()
	if text == "" {
		return "", fmt.Errorf("gemini returned an empty response")
	}

	return text, nil
}
