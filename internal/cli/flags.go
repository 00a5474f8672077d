package cli

import (
	"codeberg.org/snonux/themegrid/internal/document"
	"codeberg.org/snonux/themegrid/internal/image"
	"codeberg.org/snonux/themegrid/internal/score"
)

// Flags holds all command-line flag values
type Flags struct {
	// General flags
	CfgFile    string
	ThemesRoot string
	LogLevel   string
	DryRun     bool

	// init flags
	Preset           string
	WordList         string
	Title            string
	Columns          int
	ImagesPerElement int
	QueryPrefix      string
	Translate        bool
	TargetLang       string
	LabelLangs       []string
	TranslationModel string

	// fetch flags
	Sources  []string
	Workers  int // 0 uses the theme's max_workers
	MaxBytes int64
	Fresh    bool

	// score flags
	Scorer      string
	OpenAIModel string
	GeminiModel string

	// select flags
	Picks []string
	GUI   bool

	// render flags
	Lang       string
	AllLangs   bool
	CSV        bool
	NoTitle    bool
	NoBorders  bool
	ImageWidth float64
	Output     string
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		ThemesRoot:       "themes",
		LogLevel:         "warn",
		TargetLang:       "mk",
		TranslationModel: "gpt-4o-mini",
		Sources:          append([]string(nil), image.DefaultSources...),
		MaxBytes:         image.DefaultMaxBytes,
		Scorer:           score.Heuristic,
		OpenAIModel:      score.DefaultOpenAIModel,
		GeminiModel:      score.DefaultGeminiModel,
		ImageWidth:       document.DefaultOptions().ImageWidthInches,
	}
}
