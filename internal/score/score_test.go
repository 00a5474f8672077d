package score

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sashabaranov/go-openai"
	"google.golang.org/genai"

	"codeberg.org/snonux/themegrid/internal/image"
	"codeberg.org/snonux/themegrid/internal/testutil"
	"codeberg.org/snonux/themegrid/internal/theme"
)

func TestParseScore(t *testing.T) {
	tests := []struct {
		reply   string
		want    float64
		wantErr bool
	}{
		{"0.85", 0.85, false},
		{"Score: 0.7.", 0.7, false},
		{" .5\n", 0.5, false},
		{"1", 1, false},
		{"7", 0, true},
		{"8/10", 0.8, false},
		{"Rating: 7.5 / 10", 0.75, false},
		{"9 out of 10", 0.9, false},
		{"12/10", 1, false},
		{"80%", 0.8, false},
		{"0/0", 0, true},
		{"no idea", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.reply, func(t *testing.T) {
			got, err := ParseScore(tt.reply)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected error for %q", tt.reply)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestPoints(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		source        string
		size          int64
		want          int
	}{
		{"best case", 1000, 1000, "unsplash", 1000, 10},
		{"small landscape pexels", 600, 400, "pexels", 1000, 5},
		{"wide wikimedia", 1600, 400, "wikimedia", 1000, 4},
		{"big file", 1000, 900, "wikipedia", 6 * 1024 * 1024, 7},
		{"unknown source", 100, 100, "", 10, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Points(tt.width, tt.height, tt.source, tt.size); got != tt.want {
				t.Errorf("Expected %d points, got %d", tt.want, got)
			}
		})
	}
}

func TestSourceFromFilename(t *testing.T) {
	tests := map[string]string{
		"oeil_unsplash_1.jpg":                 "unsplash",
		"photos/table_d_appoint_pexels_3.jpg": "pexels",
		"nothing.jpg":                         "",
	}
	for in, want := range tests {
		if got := SourceFromFilename(in); got != want {
			t.Errorf("SourceFromFilename(%q): expected %q, got %q", in, want, got)
		}
	}
}

func TestHeuristicScorer(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "oeil_unsplash_1.jpg")
	testutil.CreateTestFile(t, path, testutil.JPEGBytes(t, 900, 900))

	got, err := NewHeuristicScorer().Score(context.Background(), path, "eye")
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}
	if got != 1.0 {
		t.Errorf("Expected 1.0, got %v", got)
	}

	if _, err := NewHeuristicScorer().Score(context.Background(), filepath.Join(dir, "missing.jpg"), "eye"); err == nil {
		t.Error("Expected error for a missing file")
	}
}

func TestOpenAIScorer(t *testing.T) {
	var gotReq openai.ChatCompletionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			http.NotFound(w, r)
			return
		}
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &gotReq)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"id":"1","object":"chat.completion","model":"gpt-4o-mini",
			"choices":[{"index":0,"message":{"role":"assistant","content":"0.85"},"finish_reason":"stop"}]}`)
	}))
	defer srv.Close()

	config := openai.DefaultConfig("test-key")
	config.BaseURL = srv.URL + "/v1"
	s := newOpenAIScorer(config, "")

	path := filepath.Join(t.TempDir(), "nez_pexels_1.jpg")
	testutil.CreateTestFile(t, path, testutil.JPEGBytes(t, 10, 10))

	got, err := s.Score(context.Background(), path, "nose")
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}
	if got != 0.85 {
		t.Errorf("Expected 0.85, got %v", got)
	}

	if gotReq.Model != DefaultOpenAIModel {
		t.Errorf("Expected model %s, got %s", DefaultOpenAIModel, gotReq.Model)
	}
	if len(gotReq.Messages) != 1 || len(gotReq.Messages[0].MultiContent) != 2 {
		t.Fatalf("Expected one message with two parts, got %+v", gotReq.Messages)
	}
	parts := gotReq.Messages[0].MultiContent
	if !strings.Contains(parts[0].Text, `"nose"`) {
		t.Errorf("Expected prompt to mention the query, got %q", parts[0].Text)
	}
	if parts[1].ImageURL == nil || !strings.HasPrefix(parts[1].ImageURL.URL, "data:image/jpeg;base64,") {
		t.Errorf("Expected a JPEG data URL, got %+v", parts[1].ImageURL)
	}
}

func TestGeminiScorer(t *testing.T) {
	tests := []struct {
		reply string
		want  float64
	}{
		{"0.6", 0.6},
		{"8/10", 0.8},
		{"12/10", 1},
	}

	for _, tt := range tests {
		t.Run(tt.reply, func(t *testing.T) {
			var gotPath string
			var gotReq struct {
				Contents []*genai.Content `json:"contents"`
			}
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				body, _ := io.ReadAll(r.Body)
				json.Unmarshal(body, &gotReq)
				w.Header().Set("Content-Type", "application/json")
				reply, _ := json.Marshal(tt.reply)
				fmt.Fprintf(w, `{"candidates":[{"content":{"role":"model","parts":[{"text":%s}]},"finishReason":"STOP"}]}`, reply)
			}))
			defer srv.Close()

			s, err := newGeminiScorer(context.Background(), &genai.ClientConfig{
				APIKey:      "test-key",
				Backend:     genai.BackendGeminiAPI,
				HTTPOptions: genai.HTTPOptions{BaseURL: srv.URL},
			}, DefaultGeminiModel)
			if err != nil {
				t.Fatalf("Failed to create scorer: %v", err)
			}

			payload := testutil.JPEGBytes(t, 10, 10)
			path := filepath.Join(t.TempDir(), "nez_pexels_1.jpg")
			testutil.CreateTestFile(t, path, payload)

			got, err := s.Score(context.Background(), path, "nose")
			if err != nil {
				t.Fatalf("Score failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}

			if !strings.HasSuffix(gotPath, DefaultGeminiModel+":generateContent") {
				t.Errorf("Expected a generateContent call for %s, got %s", DefaultGeminiModel, gotPath)
			}
			if len(gotReq.Contents) != 1 || len(gotReq.Contents[0].Parts) != 2 {
				t.Fatalf("Expected one content with two parts, got %+v", gotReq.Contents)
			}
			parts := gotReq.Contents[0].Parts
			if parts[0].InlineData == nil || parts[0].InlineData.MIMEType != "image/jpeg" || !bytes.Equal(parts[0].InlineData.Data, payload) {
				t.Errorf("Expected the JPEG bytes inline, got %+v", parts[0].InlineData)
			}
			if !strings.Contains(parts[1].Text, `"nose"`) {
				t.Errorf("Expected prompt to mention the query, got %q", parts[1].Text)
			}
		})
	}
}

func TestNewScorer(t *testing.T) {
	ctx := context.Background()

	s, err := New(ctx, Config{})
	if err != nil || s.Name() != Heuristic {
		t.Errorf("Expected heuristic default, got %v, %v", s, err)
	}
	if _, err := New(ctx, Config{Name: OpenAI}); err == nil {
		t.Error("Expected error for openai without key")
	}
	if _, err := New(ctx, Config{Name: Gemini}); err == nil {
		t.Error("Expected error for gemini without key")
	}
	if _, err := New(ctx, Config{Name: "clip"}); err == nil {
		t.Error("Expected error for unknown scorer")
	}
}

func testManifest() *image.Manifest {
	return &image.Manifest{
		Theme: "corps",
		Elements: []image.ElementResult{
			{
				Label: "oeil",
				Query: "eye",
				Candidates: []image.Candidate{
					{Path: "oeil_unsplash_1.jpg", Source: "unsplash", Index: 1},
					{Path: "oeil_pexels_2.jpg", Source: "pexels", Index: 2},
					{Path: "oeil_wikipedia_3.jpg", Source: "wikipedia", Index: 3},
				},
			},
			{Label: "nez", Query: "nose"},
		},
	}
}

func TestRank(t *testing.T) {
	m := testManifest()
	scorer := &testutil.MockScorer{
		Scores: map[string]float64{"oeil_unsplash_1.jpg": 0.4, "oeil_pexels_2.jpg": 0.9},
		Errors: map[string]error{"oeil_wikipedia_3.jpg": errors.New("model down")},
	}

	stats, err := Rank(context.Background(), scorer, m, t.TempDir(), 2)
	if err != nil {
		t.Fatalf("Rank failed: %v", err)
	}
	if stats.Scored != 2 || stats.Failed != 1 {
		t.Errorf("Expected 2 scored and 1 failed, got %+v", stats)
	}
	if len(scorer.Calls) != 3 {
		t.Errorf("Expected 3 scorer calls, got %d", len(scorer.Calls))
	}

	for _, c := range m.Elements[0].Candidates {
		if c.Score == nil {
			t.Errorf("Expected %s to be scored", c.Path)
		}
	}
	best, _ := m.Elements[0].Best()
	if best.Path != "oeil_pexels_2.jpg" {
		t.Errorf("Expected pexels image to win, got %s", best.Path)
	}
}

func TestRankCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := Rank(ctx, &testutil.MockScorer{}, testManifest(), t.TempDir(), 1); err == nil {
		t.Error("Expected error for a cancelled context")
	}
}

func TestBuildReport(t *testing.T) {
	m := testManifest()
	Rank(context.Background(), &testutil.MockScorer{
		Scores: map[string]float64{"oeil_unsplash_1.jpg": 0.123456, "oeil_wikipedia_3.jpg": 0.5},
	}, m, t.TempDir(), 1)

	th := theme.New("corps", []theme.Element{
		{Label: "oeil", Target: "око", Query: "eye"},
		{Label: "nez", Target: "нос", Query: "nose"},
	})

	r := BuildReport(th, m, "mock")
	if len(r.Elements) != 1 {
		t.Fatalf("Expected 1 element in report, got %d", len(r.Elements))
	}

	er := r.Elements[0]
	if er.Selected != "oeil_wikipedia_3.jpg" || er.Total != 3 || er.Target != "око" {
		t.Errorf("Unexpected element report: %+v", er)
	}
	if er.Scores[0].Rank != 1 || !er.Scores[0].Selected || er.Scores[1].Selected {
		t.Errorf("Unexpected ranking: %+v", er.Scores)
	}
	if er.Scores[1].Score != 0.1235 {
		t.Errorf("Expected score rounded to 0.1235, got %v", er.Scores[1].Score)
	}

	path := filepath.Join(t.TempDir(), "scoring_report.json")
	if err := r.Write(path); err != nil {
		t.Fatalf("Failed to write report: %v", err)
	}
	testutil.AssertFileContains(t, path, `"target": "око"`)
}
