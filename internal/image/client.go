package image

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultTimeout = 30 * time.Second
	userAgent      = "themegrid/1.0 (vocabulary picture sheets)"
)

// apiClient is the HTTP plumbing shared by every provider
type apiClient struct {
	provider   string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// newAPIClient allows quota requests per window. The whole quota may be spent
// at once; it refills evenly over the window.
func newAPIClient(provider, baseURL string, quota int, window time.Duration) apiClient {
	return apiClient{
		provider: provider,
		baseURL:  baseURL,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Every(window/time.Duration(quota)), quota),
	}
}

// getJSON waits for the source's limiter, performs req and decodes a 200 body into v
func (c *apiClient) getJSON(ctx context.Context, req *http.Request, v interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		retryAfter := 60
		if s := resp.Header.Get("Retry-After"); s != "" {
			if n, err := strconv.Atoi(s); err == nil {
				retryAfter = n
			}
		}
		return &RateLimitError{
			Provider:   c.provider,
			RetryAfter: retryAfter,
		}
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return &SearchError{
			Provider: c.provider,
			Code:     strconv.Itoa(resp.StatusCode),
			Message:  "invalid or missing API key",
		}
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &SearchError{
			Provider: c.provider,
			Code:     strconv.Itoa(resp.StatusCode),
			Message:  string(body),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// Download downloads an image from the given URL
func (c *apiClient) Download(ctx context.Context, imageURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create download request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download failed: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("download failed with status %d", resp.StatusCode)
	}

	return resp.Body, nil
}

// Name returns the name of the search provider
func (c *apiClient) Name() string {
	return c.provider
}
