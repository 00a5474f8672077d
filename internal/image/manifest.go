package image

import (
	"fmt"
	"sort"
	"time"

	"codeberg.org/snonux/themegrid/internal"
)

// Candidate is one downloaded, filtered and normalized image for an element
type Candidate struct {
	Path        string   `json:"path"` // relative to the photos directory
	Source      string   `json:"source"`
	Index       int      `json:"index"` // 1-based ordinal within the element
	URL         string   `json:"url"`
	Width       int      `json:"width"`
	Height      int      `json:"height"`
	Bytes       int64    `json:"bytes"`
	Author      string   `json:"author,omitempty"`
	Attribution string   `json:"attribution,omitempty"`
	SHA256      string   `json:"sha256"`
	Score       *float64 `json:"score,omitempty"`
}

// ElementResult holds the candidates and failures of one element
type ElementResult struct {
	Label      string      `json:"label"`
	Query      string      `json:"query"`
	Candidates []Candidate `json:"candidates"`
	Failures   []string    `json:"failures,omitempty"`
}

// Manifest is the candidates.json file written by fetch
type Manifest struct {
	Theme       string          `json:"theme"`
	RunID       string          `json:"run_id"`
	GeneratedAt time.Time       `json:"generated_at"`
	Skipped     int             `json:"skipped"`
	Elements    []ElementResult `json:"elements"`
}

// ReadManifest loads a candidates.json file
func ReadManifest(path string) (*Manifest, error) {
	var m Manifest
	if err := internal.ReadJSON(path, &m); err != nil {
		return nil, fmt.Errorf("failed to read candidate manifest: %w", err)
	}
	return &m, nil
}

// Write stores the manifest as candidates.json
func (m *Manifest) Write(path string) error {
	return internal.WriteJSON(path, m)
}

// Element returns the result for label, or nil
func (m *Manifest) Element(label string) *ElementResult {
	for i := range m.Elements {
		if m.Elements[i].Label == label {
			return &m.Elements[i]
		}
	}
	return nil
}

// CandidateCount returns the number of candidates across all elements
func (m *Manifest) CandidateCount() int {
	n := 0
	for _, e := range m.Elements {
		n += len(e.Candidates)
	}
	return n
}

// Empty lists the labels of elements without any candidate
func (m *Manifest) Empty() []string {
	var labels []string
	for _, e := range m.Elements {
		if len(e.Candidates) == 0 {
			labels = append(labels, e.Label)
		}
	}
	return labels
}

// Ranked returns the candidates ordered by score, highest first; unscored
// candidates count as zero and ties go to the lower index
func (e *ElementResult) Ranked() []Candidate {
	sorted := make([]Candidate, len(e.Candidates))
	copy(sorted, e.Candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		si, sj := sorted[i].ScoreValue(), sorted[j].ScoreValue()
		if si != sj {
			return si > sj
		}
		return sorted[i].Index < sorted[j].Index
	})
	return sorted
}

// Best returns the first ranked candidate. When nothing is scored the
// first candidate wins.
func (e *ElementResult) Best() (Candidate, bool) {
	if len(e.Candidates) == 0 {
		return Candidate{}, false
	}
	return e.Ranked()[0], true
}

// Candidate returns the candidate stored at path, or nil
func (e *ElementResult) Candidate(path string) *Candidate {
	for i := range e.Candidates {
		if e.Candidates[i].Path == path {
			return &e.Candidates[i]
		}
	}
	return nil
}

// CountBySource returns the number of candidates per source
func (e *ElementResult) CountBySource() map[string]int {
	counts := make(map[string]int)
	for _, c := range e.Candidates {
		counts[c.Source]++
	}
	return counts
}

// ScoreValue returns the score, or zero when unscored
func (c Candidate) ScoreValue() float64 {
	if c.Score == nil {
		return 0
	}
	return *c.Score
}
