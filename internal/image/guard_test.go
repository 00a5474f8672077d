package image

import (
	"context"
	"errors"
	"testing"
)

func TestGuardedSearcherOpensAfterConsecutiveFailures(t *testing.T) {
	inner := &mockSearcher{name: "pexels", searchErr: errors.New("boom")}
	g := NewGuardedSearcher(inner, nil)

	for i := 0; i < breakerFailures; i++ {
		if _, err := g.Search(context.Background(), DefaultSearchOptions("eye")); err == nil {
			t.Fatalf("Expected error on call %d", i+1)
		}
	}
	if !g.Open() {
		t.Fatal("Expected breaker to be open after consecutive failures")
	}

	if _, err := g.Search(context.Background(), DefaultSearchOptions("eye")); err == nil {
		t.Error("Expected open breaker to reject the call")
	}
	if got := inner.searches.Load(); got != breakerFailures {
		t.Errorf("Expected %d calls to reach the source, got %d", breakerFailures, got)
	}
}

func TestGuardedSearcherOpensOnRateLimit(t *testing.T) {
	inner := &mockSearcher{name: "unsplash", searchErr: &RateLimitError{Provider: "unsplash"}}
	g := NewGuardedSearcher(inner, nil)

	if _, err := g.Search(context.Background(), DefaultSearchOptions("eye")); !IsRateLimit(err) {
		t.Fatalf("Expected rate limit error, got %v", err)
	}
	if !g.Open() {
		t.Error("Expected a single 429 to open the breaker")
	}
}

func TestGuardedSearcherCachesResponses(t *testing.T) {
	inner := &mockSearcher{
		name:          "wikipedia",
		searchResults: []SearchResult{{URL: "https://x/1.jpg", Source: "wikipedia"}},
	}
	g := NewGuardedSearcher(inner, NewSearchCache())

	for i := 0; i < 3; i++ {
		results, err := g.Search(context.Background(), DefaultSearchOptions("eye"))
		if err != nil {
			t.Fatalf("Search failed: %v", err)
		}
		if len(results) != 1 {
			t.Fatalf("Expected 1 result, got %d", len(results))
		}
	}
	if got := inner.searches.Load(); got != 1 {
		t.Errorf("Expected one upstream search, got %d", got)
	}

	if _, err := g.Search(context.Background(), DefaultSearchOptions("ear")); err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if got := inner.searches.Load(); got != 2 {
		t.Errorf("Expected a different query to miss the cache, got %d upstream searches", got)
	}
}

func TestGuardedSearcherSuccessResetsFailures(t *testing.T) {
	inner := &mockSearcher{name: "pexels", searchErr: errors.New("flaky")}
	g := NewGuardedSearcher(inner, nil)

	g.Search(context.Background(), DefaultSearchOptions("a"))
	g.Search(context.Background(), DefaultSearchOptions("b"))
	inner.searchErr = nil
	g.Search(context.Background(), DefaultSearchOptions("c"))
	inner.searchErr = errors.New("flaky")
	g.Search(context.Background(), DefaultSearchOptions("d"))

	if g.Open() {
		t.Error("Expected non-consecutive failures to keep the breaker closed")
	}
}
