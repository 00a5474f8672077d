package score

import (
	"math"
	"time"

	"codeberg.org/snonux/themegrid/internal"
	"codeberg.org/snonux/themegrid/internal/image"
	"codeberg.org/snonux/themegrid/internal/theme"
)

// Report is the scoring_report.json file
type Report struct {
	Theme       string          `json:"theme"`
	Title       string          `json:"title"`
	Scorer      string          `json:"scorer"`
	GeneratedAt time.Time       `json:"generated_at"`
	Elements    []ElementReport `json:"elements"`
}

// ElementReport lists the ranked candidates of one element
type ElementReport struct {
	Label    string       `json:"label"`
	Target   string       `json:"target"`
	Query    string       `json:"query"`
	Selected string       `json:"selected,omitempty"`
	Total    int          `json:"total"`
	Scores   []ScoreEntry `json:"scores"`
}

// ScoreEntry is one ranked candidate
type ScoreEntry struct {
	Path     string  `json:"path"`
	Source   string  `json:"source"`
	Score    float64 `json:"score"`
	Rank     int     `json:"rank"`
	Selected bool    `json:"selected"`
}

// BuildReport ranks the candidates of every element in theme order.
// Elements without candidates are left out.
func BuildReport(t *theme.Theme, m *image.Manifest, scorer string) *Report {
	r := &Report{
		Theme:       t.Name,
		Title:       t.Title,
		Scorer:      scorer,
		GeneratedAt: time.Now(),
	}

	for _, e := range t.Elements {
		result := m.Element(e.Label)
		if result == nil || len(result.Candidates) == 0 {
			continue
		}

		ranked := result.Ranked()
		er := ElementReport{
			Label:    e.Label,
			Target:   e.Target,
			Query:    result.Query,
			Selected: ranked[0].Path,
			Total:    len(ranked),
		}
		for i, c := range ranked {
			er.Scores = append(er.Scores, ScoreEntry{
				Path:     c.Path,
				Source:   c.Source,
				Score:    math.Round(c.ScoreValue()*10000) / 10000,
				Rank:     i + 1,
				Selected: i == 0,
			})
		}
		r.Elements = append(r.Elements, er)
	}
	return r
}

// Write stores the report as indented JSON
func (r *Report) Write(path string) error {
	return internal.WriteJSON(path, r)
}
