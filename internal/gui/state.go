package gui

import (
	"fmt"

	"codeberg.org/snonux/themegrid/internal/image"
	"codeberg.org/snonux/themegrid/internal/selection"
)

// pickState tracks which element is shown and what was chosen,
// independent of any widget
type pickState struct {
	manifest *image.Manifest
	sel      *selection.Selection
	labels   []string
	index    int
	dirty    bool
}

func newPickState(m *image.Manifest, sel *selection.Selection) *pickState {
	s := &pickState{manifest: m, sel: sel}
	for _, e := range sel.Elements {
		s.labels = append(s.labels, e.Label)
	}
	return s
}

// current returns the shown entry and its ranked candidates
func (s *pickState) current() (*selection.Entry, []image.Candidate) {
	if len(s.labels) == 0 {
		return nil, nil
	}
	label := s.labels[s.index]
	entry := s.sel.Entry(label)
	elem := s.manifest.Element(label)
	if elem == nil {
		return entry, nil
	}
	return entry, elem.Ranked()
}

func (s *pickState) hasPrev() bool { return s.index > 0 }

func (s *pickState) hasNext() bool { return s.index < len(s.labels)-1 }

func (s *pickState) prev() bool {
	if !s.hasPrev() {
		return false
	}
	s.index--
	return true
}

func (s *pickState) next() bool {
	if !s.hasNext() {
		return false
	}
	s.index++
	return true
}

// choose selects the n-th ranked candidate (1-based) of the shown element
func (s *pickState) choose(n int) error {
	entry, ranked := s.current()
	if entry == nil {
		return fmt.Errorf("nothing to choose from")
	}
	if n < 1 || n > len(ranked) {
		return fmt.Errorf("candidate %d out of range 1-%d", n, len(ranked))
	}
	c := ranked[n-1]
	if c.Path == entry.Image {
		return nil
	}
	if err := s.sel.SetCandidate(entry.Label, c); err != nil {
		return err
	}
	s.dirty = true
	return nil
}

func (s *pickState) position() string {
	entry, _ := s.current()
	if entry == nil {
		return "No elements"
	}
	return fmt.Sprintf("Element %d/%d: %s (%s)", s.index+1, len(s.labels), entry.Target, entry.Label)
}

// save writes the selection and clears the dirty flag
func (s *pickState) save(path, photosDir string) error {
	if err := s.sel.Write(path, photosDir); err != nil {
		return err
	}
	s.dirty = false
	return nil
}

func candidateTooltip(c image.Candidate) string {
	score := "unscored"
	if c.Score != nil {
		score = fmt.Sprintf("score %.3f", *c.Score)
	}
	tip := fmt.Sprintf("%s, %s, %dx%d", c.Source, score, c.Width, c.Height)
	if c.Attribution != "" {
		tip += "\n" + c.Attribution
	}
	return tip
}
