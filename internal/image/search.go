package image

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// SearchResult represents a single image search result
type SearchResult struct {
	ID           string // Unique identifier
	URL          string // Direct URL to the image
	ThumbnailURL string // URL to thumbnail version
	Width        int    // Image width in pixels
	Height       int    // Image height in pixels
	Bytes        int64  // Reported file size, 0 when the source does not say
	Description  string // Image description or tags
	Author       string // Photographer or uploader
	Attribution  string // Attribution text if required
	Source       string // Source provider (e.g., "unsplash", "wikimedia")
}

// SearchOptions configures the image search
type SearchOptions struct {
	Query       string // Search query
	Prefix      string // Optional word some sources prepend ("human")
	SafeSearch  bool   // Enable safe search filtering
	PerPage     int    // Number of results per page
	Page        int    // Page number (1-based)
	Orientation string // "squarish", "horizontal", "vertical", "all"
}

// DefaultSearchOptions returns sensible defaults for vocabulary picture searches
func DefaultSearchOptions(query string) *SearchOptions {
	return &SearchOptions{
		Query:       query,
		SafeSearch:  true,
		PerPage:     3,
		Page:        1,
		Orientation: "squarish",
	}
}

// ImageSearcher defines the interface for image search providers
type ImageSearcher interface {
	// Search performs an image search with the given options
	Search(ctx context.Context, opts *SearchOptions) ([]SearchResult, error)

	// Download downloads an image from the given URL
	Download(ctx context.Context, url string) (io.ReadCloser, error)

	// GetAttribution returns the required attribution text for an image
	GetAttribution(result *SearchResult) string

	// Name returns the name of the search provider
	Name() string
}

// SearchError represents an error from an image search provider
type SearchError struct {
	Provider string
	Code     string
	Message  string
}

func (e *SearchError) Error() string {
	return e.Provider + ": " + e.Message
}

// RateLimitError indicates that the API rate limit has been exceeded
type RateLimitError struct {
	Provider     string
	RetryAfter   int // Seconds to wait before retry
	LimitPerHour int
	LimitPerDay  int
}

func (e *RateLimitError) Error() string {
	return e.Provider + ": rate limit exceeded"
}

var (
	// ErrRejected marks a payload the filter refused (type or size)
	ErrRejected = errors.New("image rejected")

	// ErrNoCandidates is returned when an element ends a fetch with nothing usable
	ErrNoCandidates = errors.New("no candidates")

	// ErrSourceUnavailable is returned for a source whose API key is missing
	ErrSourceUnavailable = errors.New("source unavailable")
)

// IsRateLimit reports whether err carries a RateLimitError
func IsRateLimit(err error) bool {
	var rl *RateLimitError
	return errors.As(err, &rl)
}

func rejectf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrRejected, fmt.Sprintf(format, args...))
}
