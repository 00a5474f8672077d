package image

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultSources is the set fetched when no --sources flag is given
var DefaultSources = []string{"unsplash", "pexels", "wikipedia", "wikimedia"}

// AllSources lists every provider in priority order
var AllSources = []string{"unsplash", "pexels", "wikipedia", "wikimedia", "pixabay"}

// Keys holds the API credentials of the image sources
type Keys struct {
	Unsplash  string
	Pexels    string
	Pixabay   string
	Wikimedia string
}

// SourceStatus describes whether a source can be used with the configured keys
type SourceStatus struct {
	Name      string
	Available bool
	KeyNeeded bool
	Note      string
}

// NewSearcher creates the provider called name
func NewSearcher(name string, keys Keys) (ImageSearcher, error) {
	switch name {
	case "unsplash":
		return NewUnsplashClient(keys.Unsplash)
	case "pexels":
		return NewPexelsClient(keys.Pexels)
	case "pixabay":
		return NewPixabayClient(keys.Pixabay)
	case "wikipedia":
		return NewWikipediaClient(), nil
	case "wikimedia":
		return NewWikimediaClient(keys.Wikimedia), nil
	default:
		return nil, fmt.Errorf("unknown image source: %s", name)
	}
}

// NewSearchers creates every named provider that is usable.
// Sources without a key are returned in skipped instead of failing.
func NewSearchers(names []string, keys Keys) (searchers []ImageSearcher, skipped []string, err error) {
	seen := make(map[string]bool)
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true

		s, err := NewSearcher(name, keys)
		if errors.Is(err, ErrSourceUnavailable) {
			skipped = append(skipped, name)
			continue
		}
		if err != nil {
			return nil, nil, err
		}
		searchers = append(searchers, s)
	}
	return searchers, skipped, nil
}

// Availability reports the usability of every known source
func Availability(keys Keys) []SourceStatus {
	statuses := make([]SourceStatus, 0, len(AllSources))
	for _, name := range AllSources {
		st := SourceStatus{Name: name, KeyNeeded: true}
		switch name {
		case "unsplash":
			st.Available = keys.Unsplash != ""
		case "pexels":
			st.Available = keys.Pexels != ""
		case "pixabay":
			st.Available = keys.Pixabay != ""
		case "wikipedia":
			st.Available, st.KeyNeeded = true, false
		case "wikimedia":
			st.Available, st.KeyNeeded = true, false
			if keys.Wikimedia != "" {
				st.Note = "token set, higher rate limit"
			}
		}
		if !st.Available {
			st.Note = "missing API key"
		}
		statuses = append(statuses, st)
	}
	return statuses
}

// SplitCounts spreads total over n sources; the remainder goes to the first ones.
// For ten images over four sources this gives 3/3/2/2.
func SplitCounts(total, n int) []int {
	if n <= 0 {
		return nil
	}
	counts := make([]int, n)
	for i := range counts {
		counts[i] = total / n
		if i < total%n {
			counts[i]++
		}
	}
	return counts
}
