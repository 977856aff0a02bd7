package script

import (
	"context"
	"fmt"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiGenerator is the production TextGenerator backed by the Gemini
// API.
type GeminiGenerator struct {
	model   *genai.GenerativeModel
	timeout time.Duration
}

// NewGeminiGenerator creates a Gemini-backed text generator. modelName
// defaults to gemini-2.0-flash when empty; a zero timeout defaults to
// thirty seconds.
func NewGeminiGenerator(ctx context.Context, apiKey, modelName string, timeout time.Duration) (*GeminiGenerator, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("could not create genai client: %w", err)
	}

	if modelName == "" {
		modelName = "gemini-2.0-flash"
	}
	model := client.GenerativeModel(modelName)
	// Low temperature keeps the output close to the requested JSON shape.
	model.SetTemperature(0.4)

	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &GeminiGenerator{model: model, timeout: timeout}, nil
}

// GenerateText sends one prompt and returns the raw response text.
func (g *GeminiGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	res, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini content generation failed: %w", err)
	}

	if len(res.Candidates) == 0 || res.Candidates[0].Content == nil || len(res.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini returned no content")
	}

	if textPart, ok := res.Candidates[0].Content.Parts[0].(genai.Text); ok {
		return string(textPart), nil
	}

	return "", fmt.Errorf("gemini response did not contain text")
}
