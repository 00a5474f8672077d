package theme

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"codeberg.org/snonux/themegrid/internal"
)

const (
	DefaultColumns          = 3
	DefaultImagesPerElement = 10
	DefaultMaxWorkers       = 20
	DefaultScript           = "Cyrillic"
	DefaultLanguage         = "fr"

	MaxColumns = 8
)

// ErrThemeNotFound is returned when a theme has no config.json
var ErrThemeNotFound = errors.New("theme not found")

// Theme is the config.json of a theme directory
type Theme struct {
	Name             string            `json:"name"`
	Title            string            `json:"title"`
	Titles           map[string]string `json:"titles,omitempty"`
	Language         string            `json:"language,omitempty"`
	Columns          int               `json:"columns"`
	ImagesPerElement int               `json:"images_per_element"`
	MaxWorkers       int               `json:"max_workers"`
	QueryPrefix      string            `json:"query_prefix,omitempty"`
	Script           string            `json:"script,omitempty"`
	Elements         []Element         `json:"elements"`
}

// Element is one word of a theme
type Element struct {
	Query  string            `json:"query"`
	Label  string            `json:"label"`
	Target string            `json:"target"`
	Labels map[string]string `json:"labels,omitempty"`
	Images int               `json:"images,omitempty"`
}

// Options tweak a theme created by Create
type Options struct {
	Preset           string
	WordList         string
	Title            string
	Columns          int
	ImagesPerElement int
	QueryPrefix      string
}

// New returns a theme with every default filled in. The target script
// defaults to Cyrillic; a loaded theme with an empty script skips the check.
func New(name string, elements []Element) *Theme {
	t := &Theme{Name: name, Script: DefaultScript, Elements: elements}
	t.applyDefaults()
	return t
}

// Load reads root/name/config.json
func Load(root, name string) (*Theme, error) {
	paths := NewPaths(root, name)

	var t Theme
	if err := internal.ReadJSON(paths.Config, &t); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s (expected %s)", ErrThemeNotFound, name, paths.Config)
		}
		return nil, fmt.Errorf("failed to load theme %s: %w", name, err)
	}

	if t.Name == "" {
		t.Name = name
	}
	t.applyDefaults()
	return &t, nil
}

// Save writes the theme to root/<name>/config.json and creates its photos directory
func Save(root string, t *Theme) error {
	if err := t.Validate(); err != nil {
		return err
	}

	paths := NewPaths(root, t.Name)
	if err := os.MkdirAll(paths.Photos, 0755); err != nil {
		return fmt.Errorf("failed to create theme directory: %w", err)
	}
	return internal.WriteJSON(paths.Config, t)
}

// Create builds a theme from a preset or a word list and saves it.
// An existing config.json is never overwritten.
func Create(root, name string, opts Options) (*Theme, error) {
	paths := NewPaths(root, name)
	if _, err := os.Stat(paths.Config); err == nil {
		return nil, fmt.Errorf("theme %s already exists at %s", name, paths.Config)
	}

	var t *Theme
	switch {
	case opts.WordList != "":
		elements, err := ReadWordList(opts.WordList)
		if err != nil {
			return nil, err
		}
		t = New(name, elements)
	case opts.Preset != "" || IsPreset(name):
		preset := opts.Preset
		if preset == "" {
			preset = name
		}
		p, ok := Preset(preset)
		if !ok {
			return nil, fmt.Errorf("unknown preset %q (available: %s)", preset, strings.Join(PresetNames(), ", "))
		}
		t = p
		t.Name = name
	default:
		return nil, fmt.Errorf("theme %s needs a preset or a word list", name)
	}

	if opts.Title != "" {
		t.Title = opts.Title
	}
	if opts.Columns > 0 {
		t.Columns = opts.Columns
	}
	if opts.ImagesPerElement > 0 {
		t.ImagesPerElement = opts.ImagesPerElement
	}
	if opts.QueryPrefix != "" {
		t.QueryPrefix = opts.QueryPrefix
	}

	if err := Save(root, t); err != nil {
		return nil, err
	}
	return t, nil
}

// List returns the names of the theme directories under root holding a config.json
func List(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list themes: %w", err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, err := os.Stat(filepath.Join(root, e.Name(), configFile)); err == nil {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// DefaultTitle turns "corps_humain" into "Corps Humain"
func DefaultTitle(name string) string {
	return internal.TitleFromName(name)
}

// TitleFor returns the document title in lang, falling back to Title
func (t *Theme) TitleFor(lang string) string {
	if title, ok := t.Titles[lang]; ok && title != "" {
		return title
	}
	return t.Title
}

// Languages lists the label language followed by every translated language, sorted
func (t *Theme) Languages() []string {
	seen := map[string]bool{t.Language: true}
	var extra []string
	add := func(lang string) {
		if lang != "" && !seen[lang] {
			seen[lang] = true
			extra = append(extra, lang)
		}
	}
	for lang := range t.Titles {
		add(lang)
	}
	for _, e := range t.Elements {
		for lang := range e.Labels {
			add(lang)
		}
	}
	sort.Strings(extra)
	return append([]string{t.Language}, extra...)
}

// ImagesFor returns the number of images wanted for e
func (t *Theme) ImagesFor(e Element) int {
	if e.Images > 0 {
		return e.Images
	}
	return t.ImagesPerElement
}

// Element returns the element with the given label, or nil
func (t *Theme) Element(label string) *Element {
	for i := range t.Elements {
		if t.Elements[i].Label == label {
			return &t.Elements[i]
		}
	}
	return nil
}

// LabelFor returns the display label in lang, falling back to Label
func (e Element) LabelFor(lang string) string {
	if l, ok := e.Labels[lang]; ok && l != "" {
		return l
	}
	return e.Label
}

func (t *Theme) applyDefaults() {
	if t.Title == "" {
		t.Title = DefaultTitle(t.Name)
	}
	if t.Language == "" {
		t.Language = DefaultLanguage
	}
	if t.Columns == 0 {
		t.Columns = DefaultColumns
	}
	if t.ImagesPerElement == 0 {
		t.ImagesPerElement = DefaultImagesPerElement
	}
	if t.MaxWorkers == 0 {
		t.MaxWorkers = DefaultMaxWorkers
	}
	for i := range t.Elements {
		if t.Elements[i].Query == "" {
			t.Elements[i].Query = t.Elements[i].Label
		}
	}
}
