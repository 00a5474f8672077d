package models

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// Lister handles listing available OpenAI models
type Lister struct {
	apiKey string
	client *openai.Client
}

// NewLister creates a new model lister
func NewLister(apiKey string) *Lister {
	return newLister(apiKey, openai.DefaultConfig(apiKey))
}

func newLister(apiKey string, config openai.ClientConfig) *Lister {
	return &Lister{
		apiKey: apiKey,
		client: openai.NewClientWithConfig(config),
	}
}

// Categories groups model IDs by what themegrid can use them for
type Categories struct {
	Vision      []string // image scoring
	Translation []string // label translation
}

// Categorize sorts model IDs into vision and translation candidates
func Categorize(ids []string) Categories {
	var c Categories
	for _, id := range ids {
		switch {
		case strings.Contains(id, "tts"), strings.Contains(id, "audio"),
			strings.Contains(id, "realtime"), strings.Contains(id, "transcribe"),
			strings.Contains(id, "image"), strings.Contains(id, "dall-e"):
			continue
		case strings.HasPrefix(id, "gpt-4o"), strings.HasPrefix(id, "gpt-4.1"),
			strings.HasPrefix(id, "gpt-5"), strings.HasPrefix(id, "o1"),
			strings.HasPrefix(id, "o3"), strings.HasPrefix(id, "o4"):
			c.Vision = append(c.Vision, id)
			c.Translation = append(c.Translation, id)
		case strings.Contains(id, "gpt"):
			c.Translation = append(c.Translation, id)
		}
	}

	sort.Strings(c.Vision)
	sort.Strings(c.Translation)
	return c
}

// ListAvailableModels prints the OpenAI models usable for scoring and translation
func (l *Lister) ListAvailableModels(ctx context.Context) error {
	if l.apiKey == "" {
		return fmt.Errorf("OpenAI API key not found. Set OPENAI_API_KEY environment variable or configure in .themegrid.yaml")
	}

	models, err := l.client.ListModels(ctx)
	if err != nil {
		return fmt.Errorf("failed to list models: %w", err)
	}

	ids := make([]string, 0, len(models.Models))
	for _, model := range models.Models {
		ids = append(ids, model.ID)
	}
	c := Categorize(ids)

	fmt.Println("Available OpenAI Models:")
	fmt.Println("\nVision Models (for --scorer openai):")
	if len(c.Vision) == 0 {
		fmt.Println("  No vision models found")
	} else {
		for _, model := range c.Vision {
			fmt.Printf("  %s\n", model)
		}
	}

	fmt.Println("\nChat/Translation Models (for init --translate):")
	if len(c.Translation) == 0 {
		fmt.Println("  No chat models found")
	} else {
		for _, model := range c.Translation {
			fmt.Printf("  %s\n", model)
		}
	}

	return nil
}
