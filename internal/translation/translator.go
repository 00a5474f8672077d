package translation

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/sashabaranov/go-openai"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"codeberg.org/snonux/themegrid/internal/theme"
)

// Service translates a word between two language codes
type Service interface {
	Translate(ctx context.Context, text, fromLang, toLang string) (string, error)
}

// Translator translates words with the OpenAI chat API
type Translator struct {
	apiKey string
	model  string
	client *openai.Client
}

// NewTranslator creates a new translator instance
func NewTranslator(apiKey, model string) *Translator {
	return newTranslator(apiKey, model, openai.DefaultConfig(apiKey))
}

func newTranslator(apiKey, model string, config openai.ClientConfig) *Translator {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &Translator{
		apiKey: apiKey,
		model:  model,
		client: openai.NewClientWithConfig(config),
	}
}

// Translate translates a single word or short phrase
func (t *Translator) Translate(ctx context.Context, text, fromLang, toLang string) (string, error) {
	if t.apiKey == "" {
		return "", fmt.Errorf("OpenAI API key not found")
	}

	req := openai.ChatCompletionRequest{
		Model: t.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				Content: fmt.Sprintf("Translate the %s word '%s' to %s. Respond with only the %s translation, nothing else.",
					LanguageName(fromLang), text, LanguageName(toLang), LanguageName(toLang)),
			},
		},
		MaxTokens:   50,
		Temperature: 0.3,
	}

	resp, err := t.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no translation returned")
	}

	return strings.Trim(strings.TrimSpace(resp.Choices[0].Message.Content), `"'.`), nil
}

// LanguageName returns the English name of a language code, "mk" -> "Macedonian"
func LanguageName(code string) string {
	tag, err := language.Parse(code)
	if err != nil {
		return code
	}
	if name := display.English.Languages().Name(tag); name != "" {
		return name
	}
	return code
}

// TranslationCache stores translations in memory for batch operations
type TranslationCache struct {
	mu           sync.RWMutex
	translations map[string]string
}

// NewTranslationCache creates a new translation cache
func NewTranslationCache() *TranslationCache {
	return &TranslationCache{
		translations: make(map[string]string),
	}
}

// Add adds a translation to the cache
func (tc *TranslationCache) Add(word, translation string) {
	tc.mu.Lock()
	tc.translations[word] = translation
	tc.mu.Unlock()
}

// Get retrieves a translation from the cache
func (tc *TranslationCache) Get(word string) (string, bool) {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	translation, ok := tc.translations[word]
	return translation, ok
}

// GetAll returns all cached translations
func (tc *TranslationCache) GetAll() map[string]string {
	tc.mu.RLock()
	defer tc.mu.RUnlock()

	// Return a copy to prevent external modification
	result := make(map[string]string, len(tc.translations))
	for k, v := range tc.translations {
		result[k] = v
	}
	return result
}

// Cached wraps a service so each (word, from, to) is translated once
type Cached struct {
	Service Service
	Cache   *TranslationCache
}

// Translate returns the cached translation or asks the wrapped service
func (c *Cached) Translate(ctx context.Context, text, fromLang, toLang string) (string, error) {
	key := fromLang + ":" + toLang + ":" + text
	if tr, ok := c.Cache.Get(key); ok {
		return tr, nil
	}
	tr, err := c.Service.Translate(ctx, text, fromLang, toLang)
	if err != nil {
		return "", err
	}
	c.Cache.Add(key, tr)
	return tr, nil
}

// FillTargets translates the label of every element without a target into
// toLang. Failures are reported and the element is left untouched.
func FillTargets(ctx context.Context, tr Service, t *theme.Theme, toLang string) (int, []error) {
	var errs []error
	filled := 0
	for _, e := range t.MissingTargets() {
		target, err := tr.Translate(ctx, e.Label, t.Language, toLang)
		if err != nil {
			errs = append(errs, fmt.Errorf("translating %q: %w", e.Label, err))
			continue
		}
		e.Target = target
		filled++
		fmt.Printf("Translated '%s' to %s: %s\n", e.Label, LanguageName(toLang), target)
	}
	return filled, errs
}

// FillLabels adds lang display labels and a lang title where they are missing
func FillLabels(ctx context.Context, tr Service, t *theme.Theme, lang string) (int, []error) {
	if lang == t.Language {
		return 0, nil
	}

	var errs []error
	filled := 0
	for i := range t.Elements {
		e := &t.Elements[i]
		if e.Labels[lang] != "" {
			continue
		}
		label, err := tr.Translate(ctx, e.Label, t.Language, lang)
		if err != nil {
			errs = append(errs, fmt.Errorf("translating %q: %w", e.Label, err))
			continue
		}
		if e.Labels == nil {
			e.Labels = make(map[string]string)
		}
		e.Labels[lang] = label
		filled++
	}

	if t.Titles[lang] == "" {
		title, err := tr.Translate(ctx, t.TitleFor(t.Language), t.Language, lang)
		if err != nil {
			errs = append(errs, fmt.Errorf("translating title: %w", err))
		} else {
			if t.Titles == nil {
				t.Titles = make(map[string]string)
			}
			t.Titles[lang] = title
		}
	}
	return filled, errs
}
