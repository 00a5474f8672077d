package image

import (
	"path/filepath"
	"testing"
)

func score(v float64) *float64 { return &v }

func TestBestAndRanked(t *testing.T) {
	tests := []struct {
		name       string
		candidates []Candidate
		want       string
	}{
		{
			name: "unscored picks first index",
			candidates: []Candidate{
				{Path: "b.jpg", Index: 2},
				{Path: "a.jpg", Index: 1},
			},
			want: "a.jpg",
		},
		{
			name: "highest score wins",
			candidates: []Candidate{
				{Path: "a.jpg", Index: 1, Score: score(0.2)},
				{Path: "b.jpg", Index: 2, Score: score(0.9)},
				{Path: "c.jpg", Index: 3},
			},
			want: "b.jpg",
		},
		{
			name: "tie goes to lower index",
			candidates: []Candidate{
				{Path: "c.jpg", Index: 3, Score: score(0.5)},
				{Path: "b.jpg", Index: 2, Score: score(0.5)},
			},
			want: "b.jpg",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &ElementResult{Candidates: tt.candidates}
			best, ok := e.Best()
			if !ok {
				t.Fatal("Expected a best candidate")
			}
			if best.Path != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, best.Path)
			}
			if len(e.Ranked()) != len(tt.candidates) {
				t.Errorf("Expected Ranked to keep every candidate")
			}
		})
	}

	if _, ok := (&ElementResult{}).Best(); ok {
		t.Error("Expected no best candidate for an empty element")
	}
}

func TestManifestRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "candidates.json")
	m := &Manifest{
		Theme: "meteo",
		RunID: "run-1",
		Elements: []ElementResult{
			{Label: "soleil", Query: "sun", Candidates: []Candidate{{Path: "soleil_unsplash_1.jpg", Source: "unsplash", Index: 1}}},
			{Label: "grêle", Query: "hail", Failures: []string{"pexels: boom"}},
		},
	}
	if err := m.Write(path); err != nil {
		t.Fatalf("Failed to write manifest: %v", err)
	}

	got, err := ReadManifest(path)
	if err != nil {
		t.Fatalf("Failed to read manifest: %v", err)
	}
	if got.CandidateCount() != 1 {
		t.Errorf("Expected 1 candidate, got %d", got.CandidateCount())
	}
	if empty := got.Empty(); len(empty) != 1 || empty[0] != "grêle" {
		t.Errorf("Expected [grêle] to be empty, got %v", empty)
	}
	if e := got.Element("soleil"); e == nil || e.Candidate("soleil_unsplash_1.jpg") == nil {
		t.Error("Expected to find soleil_unsplash_1.jpg")
	}
	if got.Element("nuage") != nil {
		t.Error("Expected no element for nuage")
	}
}
