package processor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/gofrs/flock"

	"codeberg.org/snonux/themegrid/internal/cli"
	"codeberg.org/snonux/themegrid/internal/gui"
	"codeberg.org/snonux/themegrid/internal/image"
	"codeberg.org/snonux/themegrid/internal/picker"
	"codeberg.org/snonux/themegrid/internal/score"
	"codeberg.org/snonux/themegrid/internal/theme"
	"codeberg.org/snonux/themegrid/internal/translation"
)

// Processor runs the pipeline stages of a theme
type Processor struct {
	flags            *cli.Flags
	translationCache *translation.TranslationCache

	// Constructors of the external collaborators
	newSearchers  func(names []string, keys image.Keys) ([]image.ImageSearcher, []string, error)
	newScorer     func(ctx context.Context, cfg score.Config) (score.Scorer, error)
	newTranslator func(apiKey, model string) translation.Service
	newPicker     func() (*picker.Picker, error)
	runGUI        func(cfg *gui.Config) bool
}

// NewProcessor creates a new processor
func NewProcessor(flags *cli.Flags) *Processor {
	return &Processor{
		flags:            flags,
		translationCache: translation.NewTranslationCache(),
		newSearchers:     image.NewSearchers,
		newScorer:        score.New,
		newTranslator:    newOpenAITranslator,
		newPicker:        picker.NewTerminal,
		runGUI:           runPickerWindow,
	}
}

func newOpenAITranslator(apiKey, model string) translation.Service {
	return translation.NewTranslator(apiKey, model)
}

func runPickerWindow(cfg *gui.Config) bool {
	return gui.New(cfg).Run()
}

var _ cli.Runner = (*Processor)(nil)

// loadTheme reads and validates a theme
func (p *Processor) loadTheme(name string) (*theme.Theme, theme.Paths, error) {
	paths := theme.NewPaths(p.flags.ThemesRoot, name)
	t, err := theme.Load(p.flags.ThemesRoot, name)
	if err != nil {
		return nil, paths, err
	}
	if err := t.Validate(); err != nil {
		return nil, paths, err
	}
	return t, paths, nil
}

// lock takes the theme directory lock so that two stages never mutate the
// same theme at once. The returned function releases it.
func (p *Processor) lock(paths theme.Paths) (func(), error) {
	if err := os.MkdirAll(paths.Dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create theme directory: %w", err)
	}

	l := flock.New(paths.Lock)
	ok, err := l.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to lock %s: %w", paths.Dir, err)
	}
	if !ok {
		return nil, fmt.Errorf("theme %s is in use by another themegrid process", paths.Dir)
	}

	return func() {
		if err := l.Unlock(); err != nil {
			slog.Warn("Failed to release theme lock", "path", paths.Lock, "error", err)
		}
	}, nil
}

func (p *Processor) workers(t *theme.Theme) int {
	if p.flags.Workers > 0 {
		return p.flags.Workers
	}
	return t.MaxWorkers
}

func (p *Processor) readManifest(paths theme.Paths) (*image.Manifest, error) {
	m, err := image.ReadManifest(paths.Candidates)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("no candidates at %s; run themegrid fetch first", paths.Candidates)
	}
	return m, err
}

// Summary counts the outcome of a stage
type Summary struct {
	Stage     string
	Total     int
	Processed int
	Skipped   int
	Failed    int
}

// Print writes the summary block shown at the end of every stage
func (s Summary) Print() {
	fmt.Printf("\n=== %s Summary ===\n", s.Stage)
	fmt.Printf("Total: %d\n", s.Total)
	fmt.Printf("Processed: %d\n", s.Processed)
	fmt.Printf("Skipped: %d\n", s.Skipped)
	if s.Failed > 0 {
		fmt.Printf("Errors: %d\n", s.Failed)
	}
	fmt.Println(strings.Repeat("=", len(s.Stage)+16))
}
