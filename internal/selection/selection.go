package selection

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"codeberg.org/snonux/themegrid/internal"
	"codeberg.org/snonux/themegrid/internal/image"
	"codeberg.org/snonux/themegrid/internal/theme"
)

var (
	// ErrMissingImage is returned when a selected image is not on disk
	ErrMissingImage = errors.New("selected image does not exist")
	// ErrIncomplete is returned when theme elements have no chosen image
	ErrIncomplete = errors.New("selection is missing theme elements")
)

// Selection is the selection.json file: one chosen image per element
type Selection struct {
	Theme    string            `json:"theme"`
	Title    string            `json:"title"`
	Titles   map[string]string `json:"titles,omitempty"`
	Language string            `json:"language,omitempty"`
	Columns  int               `json:"columns"`
	Elements []Entry           `json:"elements"`
}

// Entry is the chosen image of one element
type Entry struct {
	Label       string            `json:"label"`
	Target      string            `json:"target"`
	Labels      map[string]string `json:"labels,omitempty"`
	Image       string            `json:"image"` // relative to the photos directory
	Source      string            `json:"source,omitempty"`
	Score       *float64          `json:"score,omitempty"`
	Attribution string            `json:"attribution,omitempty"`
}

// New returns an empty selection carrying the theme's layout
func New(t *theme.Theme) *Selection {
	return &Selection{
		Theme:    t.Name,
		Title:    t.Title,
		Titles:   t.Titles,
		Language: t.Language,
		Columns:  t.Columns,
	}
}

// FromManifest picks the best candidate of every element in theme order.
// Elements without candidates are omitted and their labels returned.
func FromManifest(t *theme.Theme, m *image.Manifest) (*Selection, []string) {
	s := New(t)
	var missing []string

	for _, e := range t.Elements {
		result := m.Element(e.Label)
		if result == nil {
			missing = append(missing, e.Label)
			continue
		}
		best, ok := result.Best()
		if !ok {
			missing = append(missing, e.Label)
			continue
		}

		entry := Entry{Label: e.Label, Target: e.Target, Labels: e.Labels}
		entry.use(best)
		s.Elements = append(s.Elements, entry)
	}
	return s, missing
}

func (e *Entry) use(c image.Candidate) {
	e.Image = c.Path
	e.Source = c.Source
	e.Score = c.Score
	e.Attribution = c.Attribution
}

// Entry returns the entry for label, or nil
func (s *Selection) Entry(label string) *Entry {
	for i := range s.Elements {
		if s.Elements[i].Label == label {
			return &s.Elements[i]
		}
	}
	return nil
}

// Set replaces the image chosen for label
func (s *Selection) Set(label, img string) error {
	e := s.Entry(label)
	if e == nil {
		return fmt.Errorf("no element %q in selection", label)
	}
	e.Image = img
	e.Source = ""
	e.Score = nil
	e.Attribution = ""
	return nil
}

// SetCandidate replaces the image chosen for label with a manifest candidate
func (s *Selection) SetCandidate(label string, c image.Candidate) error {
	e := s.Entry(label)
	if e == nil {
		return fmt.Errorf("no element %q in selection", label)
	}
	e.use(c)
	return nil
}

// Remove drops label from the selection
func (s *Selection) Remove(label string) {
	for i := range s.Elements {
		if s.Elements[i].Label == label {
			s.Elements = append(s.Elements[:i], s.Elements[i+1:]...)
			return
		}
	}
}

// Restore adds label back from the theme, keeping theme order, and returns
// its entry. An entry already present is returned as is.
func (s *Selection) Restore(t *theme.Theme, label string) (*Entry, error) {
	if e := s.Entry(label); e != nil {
		return e, nil
	}
	el := t.Element(label)
	if el == nil {
		return nil, fmt.Errorf("no element %q in theme %s", label, t.Name)
	}

	pos := make(map[string]int, len(t.Elements))
	for i, e := range t.Elements {
		pos[e.Label] = i
	}
	at := len(s.Elements)
	for i, e := range s.Elements {
		if pos[e.Label] > pos[label] {
			at = i
			break
		}
	}
	s.Elements = slices.Insert(s.Elements, at, Entry{Label: el.Label, Target: el.Target, Labels: el.Labels})
	return &s.Elements[at], nil
}

// Missing returns the labels of theme elements that have no entry, in theme order
func (s *Selection) Missing(t *theme.Theme) []string {
	var missing []string
	for _, e := range t.Elements {
		if s.Entry(e.Label) == nil {
			missing = append(missing, e.Label)
		}
	}
	return missing
}

// Complete fails with ErrIncomplete unless every theme element has an entry
func (s *Selection) Complete(t *theme.Theme) error {
	if missing := s.Missing(t); len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrIncomplete, strings.Join(missing, ", "))
	}
	return nil
}

// Validate checks that every selected image exists under photosDir
func (s *Selection) Validate(photosDir string) error {
	var errs []error
	for _, e := range s.Elements {
		if e.Image == "" {
			errs = append(errs, fmt.Errorf("%w: %s has no image", ErrMissingImage, e.Label))
			continue
		}
		info, err := os.Stat(filepath.Join(photosDir, e.Image))
		if err != nil || info.IsDir() {
			errs = append(errs, fmt.Errorf("%w: %s (%s)", ErrMissingImage, e.Image, e.Label))
		}
	}
	return errors.Join(errs...)
}

// Write validates the selection against photosDir and stores it
func (s *Selection) Write(path, photosDir string) error {
	if err := s.Validate(photosDir); err != nil {
		return err
	}
	return internal.WriteJSON(path, s)
}

// Read loads a selection.json file
func Read(path string) (*Selection, error) {
	var s Selection
	if err := internal.ReadJSON(path, &s); err != nil {
		return nil, fmt.Errorf("failed to read selection: %w", err)
	}
	return &s, nil
}

// TitleFor returns the title in lang, falling back to Title
func (s *Selection) TitleFor(lang string) string {
	if title, ok := s.Titles[lang]; ok && title != "" {
		return title
	}
	return s.Title
}

// LabelFor returns the display label in lang, falling back to Label
func (e Entry) LabelFor(lang string) string {
	if l, ok := e.Labels[lang]; ok && l != "" {
		return l
	}
	return e.Label
}

// Languages lists the selection language followed by the translated ones
func (s *Selection) Languages() []string {
	t := theme.Theme{Language: s.Language, Titles: s.Titles}
	for _, e := range s.Elements {
		t.Elements = append(t.Elements, theme.Element{Labels: e.Labels})
	}
	return t.Languages()
}
