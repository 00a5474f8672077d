package score

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"

	"github.com/sashabaranov/go-openai"
)

// OpenAIScorer asks an OpenAI vision model to rate each image
type OpenAIScorer struct {
	client *openai.Client
	model  string
}

// NewOpenAIScorer creates a scorer using the chat completion API
func NewOpenAIScorer(apiKey, model string) (*OpenAIScorer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key not found. Set OPENAI_API_KEY or keys.openai in .themegrid.yaml")
	}
	return newOpenAIScorer(openai.DefaultConfig(apiKey), model), nil
}

func newOpenAIScorer(config openai.ClientConfig, model string) *OpenAIScorer {
	if model == "" {
		model = DefaultOpenAIModel
	}
	return &OpenAIScorer{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}
}

// Name returns "openai"
func (s *OpenAIScorer) Name() string {
	return OpenAI
}

// Score sends the image as a base64 data URL together with the rating prompt
func (s *OpenAIScorer) Score(ctx context.Context, path, query string) (float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read image: %w", err)
	}
	dataURL := fmt.Sprintf("data:%s;base64,%s", mimeType(path), base64.StdEncoding.EncodeToString(data))

	req := openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: Prompt(query)},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL:    dataURL,
							Detail: openai.ImageURLDetailLow,
						},
					},
				},
			},
		},
		MaxTokens: 10,
	}

	resp, err := s.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return 0, fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return 0, fmt.Errorf("no score returned")
	}

	return ParseScore(resp.Choices[0].Message.Content)
}
