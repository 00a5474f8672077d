package score

import (
	"context"
	"fmt"
	"os"

	"google.golang.org/genai"
)

// GeminiScorer asks a Gemini model to rate each image
type GeminiScorer struct {
	client *genai.Client
	model  string
}

// NewGeminiScorer creates a scorer using the Gemini API
func NewGeminiScorer(ctx context.Context, apiKey, model string) (*GeminiScorer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Gemini API key not found. Set GEMINI_API_KEY or keys.gemini in .themegrid.yaml")
	}
	if model == "" {
		model = DefaultGeminiModel
	}

	return newGeminiScorer(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}, model)
}

func newGeminiScorer(ctx context.Context, config *genai.ClientConfig, model string) (*GeminiScorer, error) {
	client, err := genai.NewClient(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiScorer{client: client, model: model}, nil
}

// Name returns "gemini"
func (s *GeminiScorer) Name() string {
	return Gemini
}

// Score sends the image bytes inline together with the rating prompt
func (s *GeminiScorer) Score(ctx context.Context, path, query string) (float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read image: %w", err)
	}

	parts := []*genai.Part{
		genai.NewPartFromBytes(data, mimeType(path)),
		genai.NewPartFromText(Prompt(query)),
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	resp, err := s.client.Models.GenerateContent(ctx, s.model, contents, nil)
	if err != nil {
		return 0, fmt.Errorf("Gemini API error: %w", err)
	}

	return ParseScore(resp.Text())
}
