package score

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// Scorer rates how well the image at path illustrates query, from 0 to 1
type Scorer interface {
	Score(ctx context.Context, path, query string) (float64, error)
	Name() string
}

const (
	Heuristic = "heuristic"
	OpenAI    = "openai"
	Gemini    = "gemini"

	DefaultOpenAIModel = "gpt-4o-mini"
	DefaultGeminiModel = "gemini-2.0-flash"
)

// Names lists the available scorers
var Names = []string{Heuristic, OpenAI, Gemini}

// Config selects and configures a scorer
type Config struct {
	Name        string
	OpenAIKey   string
	OpenAIModel string
	GeminiKey   string
	GeminiModel string
}

// New returns the scorer named in cfg
func New(ctx context.Context, cfg Config) (Scorer, error) {
	switch cfg.Name {
	case "", Heuristic:
		return NewHeuristicScorer(), nil
	case OpenAI:
		return NewOpenAIScorer(cfg.OpenAIKey, cfg.OpenAIModel)
	case Gemini:
		return NewGeminiScorer(ctx, cfg.GeminiKey, cfg.GeminiModel)
	default:
		return nil, fmt.Errorf("unknown scorer %q (available: %s)", cfg.Name, strings.Join(Names, ", "))
	}
}

// Prompt asks a vision model for a single relevance number
func Prompt(query string) string {
	return fmt.Sprintf("Rate from 0 to 1 how well this image works as a professional, clean "+
		"picture clearly showing %q for a vocabulary worksheet. Respond with only the number.", query)
}

var (
	numberPattern   = regexp.MustCompile(`\d*\.?\d+`)
	fractionPattern = regexp.MustCompile(`(\d*\.?\d+)\s*(?:/|out of)\s*(\d+)`)
	percentPattern  = regexp.MustCompile(`(\d*\.?\d+)\s*%`)
)

// ParseScore extracts the score of a model reply. Ratings on another scale
// ("8/10", "8 out of 10", "80%") are rescaled and clamped to 0..1; a bare
// number outside 0..1 is rejected.
func ParseScore(reply string) (float64, error) {
	if m := fractionPattern.FindStringSubmatch(reply); m != nil {
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return 0, fmt.Errorf("invalid score %q: %w", m[0], err)
		}
		scale, err := strconv.ParseFloat(m[2], 64)
		if err != nil || scale == 0 {
			return 0, fmt.Errorf("invalid scale in score %q", m[0])
		}
		return Clamp(v / scale), nil
	}
	if m := percentPattern.FindStringSubmatch(reply); m != nil {
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return 0, fmt.Errorf("invalid score %q: %w", m[0], err)
		}
		return Clamp(v / 100), nil
	}

	m := numberPattern.FindString(reply)
	if m == "" {
		return 0, fmt.Errorf("no score in reply %q", reply)
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid score %q: %w", m, err)
	}
	if v > 1 {
		return 0, fmt.Errorf("score %s in reply %q is outside 0..1", m, reply)
	}
	return v, nil
}

// Clamp limits v to 0..1
func Clamp(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(1, v))
}

func mimeType(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".png") {
		return "image/png"
	}
	return "image/jpeg"
}
