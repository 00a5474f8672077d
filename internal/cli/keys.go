package cli

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/viper"

	"codeberg.org/snonux/themegrid/internal/image"
)

// Keys holds every API credential the pipeline may use
type Keys struct {
	Images image.Keys
	OpenAI string
	Gemini string
}

type envKeys struct {
	Unsplash  string `env:"UNSPLASH_API_KEY"`
	Pexels    string `env:"PEXELS_API_KEY"`
	Pixabay   string `env:"PIXABAY_API_KEY"`
	Wikimedia string `env:"WIKIMEDIA_API_KEY"`
	OpenAI    string `env:"OPENAI_API_KEY"`
	Gemini    string `env:"GEMINI_API_KEY"`
}

// LoadKeys reads the API keys from the environment first, then from the
// keys section of the config file
func LoadKeys() (Keys, error) {
	var raw envKeys
	if err := env.Parse(&raw); err != nil {
		return Keys{}, fmt.Errorf("failed to parse API keys from environment: %w", err)
	}

	return Keys{
		Images: image.Keys{
			Unsplash:  firstNonEmpty(raw.Unsplash, viper.GetString("keys.unsplash")),
			Pexels:    firstNonEmpty(raw.Pexels, viper.GetString("keys.pexels")),
			Pixabay:   firstNonEmpty(raw.Pixabay, viper.GetString("keys.pixabay")),
			Wikimedia: firstNonEmpty(raw.Wikimedia, viper.GetString("keys.wikimedia")),
		},
		OpenAI: firstNonEmpty(raw.OpenAI, viper.GetString("keys.openai")),
		Gemini: firstNonEmpty(raw.Gemini, viper.GetString("keys.gemini")),
	}, nil
}

// GetOpenAIKey retrieves the OpenAI API key from environment or config
func GetOpenAIKey() string {
	keys, err := LoadKeys()
	if err != nil {
		return ""
	}
	return keys.OpenAI
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
