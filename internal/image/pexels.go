package image

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const pexelsAPIURL = "https://api.pexels.com/v1"

// PexelsClient implements ImageSearcher for the Pexels API
type PexelsClient struct {
	apiClient
	apiKey string
}

type pexelsSearchResponse struct {
	TotalResults int           `json:"total_results"`
	Photos       []pexelsPhoto `json:"photos"`
}

type pexelsPhoto struct {
	ID           int       `json:"id"`
	Width        int       `json:"width"`
	Height       int       `json:"height"`
	Alt          string    `json:"alt"`
	Photographer string    `json:"photographer"`
	Src          pexelsSrc `json:"src"`
}

type pexelsSrc struct {
	Original string `json:"original"`
	Large    string `json:"large"`
	Medium   string `json:"medium"`
	Tiny     string `json:"tiny"`
}

// NewPexelsClient creates a new Pexels API client
func NewPexelsClient(apiKey string) (*PexelsClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("pexels API key is required: %w", ErrSourceUnavailable)
	}

	return &PexelsClient{
		// 200 requests per hour
		apiClient: newAPIClient("pexels", pexelsAPIURL, 200, time.Hour),
		apiKey:    apiKey,
	}, nil
}

// Search performs an image search on Pexels
func (p *PexelsClient) Search(ctx context.Context, opts *SearchOptions) ([]SearchResult, error) {
	params := url.Values{}
	params.Set("query", opts.Query)
	params.Set("per_page", strconv.Itoa(opts.PerPage))
	params.Set("page", strconv.Itoa(opts.Page))
	switch opts.Orientation {
	case "squarish", "square":
		params.Set("orientation", "square")
	case "horizontal":
		params.Set("orientation", "landscape")
	case "vertical":
		params.Set("orientation", "portrait")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", p.apiKey)

	var searchResp pexelsSearchResponse
	if err := p.getJSON(ctx, req, &searchResp); err != nil {
		return nil, err
	}

	results := make([]SearchResult, 0, len(searchResp.Photos))
	for _, photo := range searchResp.Photos {
		results = append(results, SearchResult{
			ID:           strconv.Itoa(photo.ID),
			URL:          photo.Src.Medium,
			ThumbnailURL: photo.Src.Tiny,
			Width:        photo.Width,
			Height:       photo.Height,
			Description:  photo.Alt,
			Author:       photo.Photographer,
			Attribution:  fmt.Sprintf("Photo by %s on Pexels", photo.Photographer),
			Source:       "pexels",
		})
	}

	return results, nil
}

// GetAttribution returns the required attribution text for an image
func (p *PexelsClient) GetAttribution(result *SearchResult) string {
	return result.Attribution
}
