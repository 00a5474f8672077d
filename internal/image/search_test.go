package image

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"sync/atomic"
	"testing"
)

// mockSearcher implements ImageSearcher for testing
type mockSearcher struct {
	name          string
	searchResults []SearchResult
	byQuery       map[string][]SearchResult // overrides searchResults when set
	searchErr     error
	downloadErr   error
	payloads      map[string][]byte // URL -> body, falls back to http when nil
	searches      atomic.Int64
}

func (m *mockSearcher) Search(ctx context.Context, opts *SearchOptions) ([]SearchResult, error) {
	m.searches.Add(1)
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	if m.byQuery != nil {
		return m.byQuery[opts.Query], nil
	}
	return m.searchResults, nil
}

func (m *mockSearcher) Download(ctx context.Context, url string) (io.ReadCloser, error) {
	if m.downloadErr != nil {
		return nil, m.downloadErr
	}
	if m.payloads != nil {
		data, ok := m.payloads[url]
		if !ok {
			return nil, fmt.Errorf("download failed with status %d", http.StatusNotFound)
		}
		return io.NopCloser(strings.NewReader(string(data))), nil
	}
	return io.NopCloser(strings.NewReader("mock image data")), nil
}

func (m *mockSearcher) GetAttribution(result *SearchResult) string {
	return result.Attribution
}

func (m *mockSearcher) Name() string {
	return m.name
}

func TestDefaultSearchOptions(t *testing.T) {
	opts := DefaultSearchOptions("eye")

	if opts.Query != "eye" {
		t.Errorf("Expected query 'eye', got '%s'", opts.Query)
	}

	if !opts.SafeSearch {
		t.Error("Expected SafeSearch to be true")
	}

	if opts.Page != 1 {
		t.Errorf("Expected Page 1, got %d", opts.Page)
	}

	if opts.Orientation != "squarish" {
		t.Errorf("Expected Orientation 'squarish', got '%s'", opts.Orientation)
	}
}

func TestSearchError(t *testing.T) {
	err := &SearchError{
		Provider: "test",
		Code:     "404",
		Message:  "Not found",
	}

	expected := "test: Not found"
	if err.Error() != expected {
		t.Errorf("Expected error '%s', got '%s'", expected, err.Error())
	}
}

func TestRateLimitError(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", &RateLimitError{Provider: "pexels", RetryAfter: 60})

	if !IsRateLimit(err) {
		t.Error("Expected IsRateLimit to see through wrapping")
	}
	if IsRateLimit(errors.New("other")) {
		t.Error("Expected plain error not to be a rate limit")
	}
	if !strings.Contains(err.Error(), "pexels: rate limit exceeded") {
		t.Errorf("Unexpected message: %s", err.Error())
	}
}

func TestSplitCounts(t *testing.T) {
	tests := []struct {
		total, n int
		want     []int
	}{
		{10, 4, []int{3, 3, 2, 2}},
		{10, 5, []int{2, 2, 2, 2, 2}},
		{3, 4, []int{1, 1, 1, 0}},
		{7, 1, []int{7}},
		{0, 2, []int{0, 0}},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d/%d", tt.total, tt.n), func(t *testing.T) {
			got := SplitCounts(tt.total, tt.n)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitCounts(%d, %d) = %v, want %v", tt.total, tt.n, got, tt.want)
			}
		})
	}

	if SplitCounts(5, 0) != nil {
		t.Error("Expected nil for zero sources")
	}
}

func TestNewSearchersSkipsMissingKeys(t *testing.T) {
	searchers, skipped, err := NewSearchers(DefaultSources, Keys{Pexels: "k"})
	if err != nil {
		t.Fatalf("NewSearchers failed: %v", err)
	}

	var names []string
	for _, s := range searchers {
		names = append(names, s.Name())
	}
	if want := []string{"pexels", "wikipedia", "wikimedia"}; !reflect.DeepEqual(names, want) {
		t.Errorf("Expected searchers %v, got %v", want, names)
	}
	if want := []string{"unsplash"}; !reflect.DeepEqual(skipped, want) {
		t.Errorf("Expected skipped %v, got %v", want, skipped)
	}
}

func TestNewSearchersUnknownSource(t *testing.T) {
	if _, _, err := NewSearchers([]string{"flickr"}, Keys{}); err == nil {
		t.Error("Expected error for unknown source")
	}
}

func TestAvailability(t *testing.T) {
	statuses := Availability(Keys{Unsplash: "u", Wikimedia: "w"})

	if len(statuses) != len(AllSources) {
		t.Fatalf("Expected %d statuses, got %d", len(AllSources), len(statuses))
	}

	want := map[string]bool{
		"unsplash":  true,
		"pexels":    false,
		"wikipedia": true,
		"wikimedia": true,
		"pixabay":   false,
	}
	for _, st := range statuses {
		if st.Available != want[st.Name] {
			t.Errorf("Expected %s available=%v, got %v", st.Name, want[st.Name], st.Available)
		}
	}
}
