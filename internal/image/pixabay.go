package image

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const pixabayAPIURL = "https://pixabay.com/api/"

// PixabayClient implements ImageSearcher for Pixabay API
type PixabayClient struct {
	apiClient
	apiKey string
}

// pixabayResponse represents the API response structure
type pixabayResponse struct {
	Total     int            `json:"total"`
	TotalHits int            `json:"totalHits"`
	Hits      []pixabayImage `json:"hits"`
}

// pixabayImage represents a single image in the response
type pixabayImage struct {
	ID              int    `json:"id"`
	Tags            string `json:"tags"`
	PreviewURL      string `json:"previewURL"`
	WebformatURL    string `json:"webformatURL"`
	WebformatWidth  int    `json:"webformatWidth"`
	WebformatHeight int    `json:"webformatHeight"`
	LargeImageURL   string `json:"largeImageURL"`
	ImageWidth      int    `json:"imageWidth"`
	ImageHeight     int    `json:"imageHeight"`
	ImageSize       int64  `json:"imageSize"`
	User            string `json:"user"`
}

// NewPixabayClient creates a new Pixabay API client
func NewPixabayClient(apiKey string) (*PixabayClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("pixabay API key is required: %w", ErrSourceUnavailable)
	}

	return &PixabayClient{
		// 100 requests per minute
		apiClient: newAPIClient("pixabay", pixabayAPIURL, 100, time.Minute),
		apiKey:    apiKey,
	}, nil
}

// Search performs an image search on Pixabay
func (p *PixabayClient) Search(ctx context.Context, opts *SearchOptions) ([]SearchResult, error) {
	params := url.Values{}
	params.Set("key", p.apiKey)
	params.Set("q", opts.Query)
	params.Set("image_type", "photo")
	params.Set("safesearch", fmt.Sprintf("%t", opts.SafeSearch))
	// Pixabay rejects per_page below 3
	params.Set("per_page", fmt.Sprintf("%d", max(opts.PerPage, 3)))
	params.Set("page", fmt.Sprintf("%d", opts.Page))
	if opts.Orientation == "horizontal" || opts.Orientation == "vertical" {
		params.Set("orientation", opts.Orientation)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	var pixResp pixabayResponse
	if err := p.getJSON(ctx, req, &pixResp); err != nil {
		return nil, err
	}

	results := make([]SearchResult, 0, len(pixResp.Hits))
	for _, hit := range pixResp.Hits {
		if len(results) == opts.PerPage {
			break
		}
		results = append(results, SearchResult{
			ID:           fmt.Sprintf("%d", hit.ID),
			URL:          hit.WebformatURL,
			ThumbnailURL: hit.PreviewURL,
			Width:        hit.WebformatWidth,
			Height:       hit.WebformatHeight,
			Description:  hit.Tags,
			Author:       hit.User,
			Attribution:  fmt.Sprintf("Image by %s from Pixabay", hit.User),
			Source:       "pixabay",
		})
	}

	return results, nil
}

// GetAttribution returns the required attribution text for an image
func (p *PixabayClient) GetAttribution(result *SearchResult) string {
	return result.Attribution
}
