package image

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const unsplashAPIURL = "https://api.unsplash.com"

// UnsplashClient implements ImageSearcher for Unsplash API
type UnsplashClient struct {
	apiClient
	accessKey string
}

// unsplashSearchResponse represents the search API response
type unsplashSearchResponse struct {
	Total      int             `json:"total"`
	TotalPages int             `json:"total_pages"`
	Results    []unsplashPhoto `json:"results"`
}

// unsplashPhoto represents a photo in the response
type unsplashPhoto struct {
	ID          string            `json:"id"`
	Width       int               `json:"width"`
	Height      int               `json:"height"`
	Description string            `json:"description"`
	AltDesc     string            `json:"alt_description"`
	URLs        unsplashPhotoURLs `json:"urls"`
	User        unsplashUser      `json:"user"`
}

// unsplashPhotoURLs contains various size URLs
type unsplashPhotoURLs struct {
	Raw     string `json:"raw"`
	Full    string `json:"full"`
	Regular string `json:"regular"`
	Small   string `json:"small"`
	Thumb   string `json:"thumb"`
}

// unsplashUser represents the photo author
type unsplashUser struct {
	Username string `json:"username"`
	Name     string `json:"name"`
}

// NewUnsplashClient creates a new Unsplash API client
func NewUnsplashClient(accessKey string) (*UnsplashClient, error) {
	if accessKey == "" {
		return nil, fmt.Errorf("unsplash access key is required: %w", ErrSourceUnavailable)
	}

	return &UnsplashClient{
		// 50 requests per hour on the demo tier
		apiClient: newAPIClient("unsplash", unsplashAPIURL, 50, time.Hour),
		accessKey: accessKey,
	}, nil
}

// Search performs an image search on Unsplash
func (u *UnsplashClient) Search(ctx context.Context, opts *SearchOptions) ([]SearchResult, error) {
	params := url.Values{}
	params.Set("query", opts.Query)
	params.Set("per_page", fmt.Sprintf("%d", opts.PerPage))
	params.Set("page", fmt.Sprintf("%d", opts.Page))
	if o := mapOrientation(opts.Orientation); o != "" {
		params.Set("orientation", o)
	}
	if opts.SafeSearch {
		params.Set("content_filter", "high")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.baseURL+"/search/photos?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Client-ID "+u.accessKey)
	req.Header.Set("Accept-Version", "v1")

	var searchResp unsplashSearchResponse
	if err := u.getJSON(ctx, req, &searchResp); err != nil {
		return nil, err
	}

	results := make([]SearchResult, 0, len(searchResp.Results))
	for _, photo := range searchResp.Results {
		description := photo.Description
		if description == "" {
			description = photo.AltDesc
		}

		results = append(results, SearchResult{
			ID:           photo.ID,
			URL:          photo.URLs.Regular,
			ThumbnailURL: photo.URLs.Thumb,
			Width:        photo.Width,
			Height:       photo.Height,
			Description:  description,
			Author:       photo.User.Name,
			Attribution:  fmt.Sprintf("Photo by %s on Unsplash", photo.User.Name),
			Source:       "unsplash",
		})
	}

	return results, nil
}

// GetAttribution returns the required attribution text for an image
func (u *UnsplashClient) GetAttribution(result *SearchResult) string {
	// Unsplash always requires attribution
	return result.Attribution
}

// mapOrientation maps our orientation values to Unsplash API values
func mapOrientation(orientation string) string {
	switch orientation {
	case "horizontal":
		return "landscape"
	case "vertical":
		return "portrait"
	case "squarish", "square":
		return "squarish"
	default:
		return ""
	}
}
