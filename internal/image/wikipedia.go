package image

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

const wikipediaAPIURL = "https://en.wikipedia.org/w/api.php"

// WikipediaClient looks up the lead image of the article named after the query.
// It needs no API key.
type WikipediaClient struct {
	apiClient
}

type wikipediaResponse struct {
	Query struct {
		Pages map[string]wikipediaPage `json:"pages"`
	} `json:"query"`
}

type wikipediaPage struct {
	Title    string `json:"title"`
	Original *struct {
		Source string `json:"source"`
		Width  int    `json:"width"`
		Height int    `json:"height"`
	} `json:"original"`
	Thumbnail *struct {
		Source string `json:"source"`
	} `json:"thumbnail"`
}

// NewWikipediaClient creates a new Wikipedia client
func NewWikipediaClient() *WikipediaClient {
	return &WikipediaClient{
		apiClient: newAPIClient("wikipedia", wikipediaAPIURL, 5, time.Second),
	}
}

// Search returns at most one result: the article's original lead image
func (w *WikipediaClient) Search(ctx context.Context, opts *SearchOptions) ([]SearchResult, error) {
	title := articleTitle(opts.Prefix, opts.Query)

	params := url.Values{}
	params.Set("action", "query")
	params.Set("format", "json")
	params.Set("redirects", "1")
	params.Set("titles", title)
	params.Set("prop", "pageimages")
	params.Set("piprop", "original|thumbnail")
	params.Set("pithumbsize", "1000")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	var resp wikipediaResponse
	if err := w.getJSON(ctx, req, &resp); err != nil {
		return nil, err
	}

	var results []SearchResult
	for id, page := range resp.Query.Pages {
		if page.Original == nil || len(results) >= max(opts.PerPage, 1) {
			continue
		}
		thumb := page.Original.Source
		if page.Thumbnail != nil {
			thumb = page.Thumbnail.Source
		}
		results = append(results, SearchResult{
			ID:           id,
			URL:          page.Original.Source,
			ThumbnailURL: thumb,
			Width:        page.Original.Width,
			Height:       page.Original.Height,
			Description:  "Lead image of the article " + page.Title,
			Author:       "Wikipedia",
			Attribution:  "Image from the Wikipedia article " + page.Title,
			Source:       "wikipedia",
		})
	}

	return results, nil
}

// GetAttribution returns the required attribution text for an image
func (w *WikipediaClient) GetAttribution(result *SearchResult) string {
	return result.Attribution
}

// articleTitle builds "Human eye" from prefix "human" and query "eye"
func articleTitle(prefix, query string) string {
	title := strings.TrimSpace(strings.TrimSpace(prefix) + " " + strings.TrimSpace(query))
	r, size := utf8.DecodeRuneInString(title)
	if r == utf8.RuneError {
		return title
	}
	return string(unicode.ToUpper(r)) + title[size:]
}
