package testutil

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
)

// MockTranslator mocks translation service
type MockTranslator struct {
	Translations map[string]string
	Errors       map[string]error

	mu    sync.Mutex
	Calls []string
}

// Translate mocks translating text
func (m *MockTranslator) Translate(ctx context.Context, text, fromLang, toLang string) (string, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, fmt.Sprintf("Translate: %s (%s->%s)", text, fromLang, toLang))
	m.mu.Unlock()

	if err, ok := m.Errors[text]; ok {
		return "", err
	}

	if translation, ok := m.Translations[text]; ok {
		return translation, nil
	}

	return fmt.Sprintf("mock translation of %s", text), nil
}

// MockScorer returns fixed scores keyed by file base name
type MockScorer struct {
	Scores map[string]float64
	Errors map[string]error

	mu    sync.Mutex
	Calls []string
}

// Score returns the configured score for the base name of path
func (m *MockScorer) Score(ctx context.Context, path, query string) (float64, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, path)
	m.mu.Unlock()

	base := filepath.Base(path)
	if err, ok := m.Errors[base]; ok {
		return 0, err
	}
	return m.Scores[base], nil
}

// Name returns the scorer name
func (m *MockScorer) Name() string {
	return "mock"
}
