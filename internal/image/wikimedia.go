package image

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	wikimediaAPIURL = "https://commons.wikimedia.org/w/api.php"

	wikimediaMinBytes = 100 * 1024
	wikimediaMaxBytes = 10 * 1024 * 1024
)

// WikimediaClient implements ImageSearcher for Wikimedia Commons.
// The key is optional and only raises the rate limit.
type WikimediaClient struct {
	apiClient
	token string
}

type wikimediaSearchResponse struct {
	Query struct {
		Search []struct {
			Title string `json:"title"`
		} `json:"search"`
	} `json:"query"`
}

type wikimediaInfoResponse struct {
	Query struct {
		Pages map[string]struct {
			Title     string          `json:"title"`
			ImageInfo []wikimediaInfo `json:"imageinfo"`
		} `json:"pages"`
	} `json:"query"`
}

type wikimediaInfo struct {
	URL      string `json:"url"`
	ThumbURL string `json:"thumburl"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Size     int64  `json:"size"`
	Mime     string `json:"mime"`
	User     string `json:"user"`
}

// NewWikimediaClient creates a new Wikimedia Commons client
func NewWikimediaClient(token string) *WikimediaClient {
	perSecond := 2
	if token != "" {
		perSecond = 5
	}
	return &WikimediaClient{
		apiClient: newAPIClient("wikimedia", wikimediaAPIURL, perSecond, time.Second),
		token:     token,
	}
}

// Search finds JPEG and PNG files on Commons and resolves their 1000px renditions
func (w *WikimediaClient) Search(ctx context.Context, opts *SearchOptions) ([]SearchResult, error) {
	count := max(opts.PerPage, 1)
	query := strings.TrimSpace(strings.TrimSpace(opts.Prefix) + " " + opts.Query)

	params := url.Values{}
	params.Set("action", "query")
	params.Set("format", "json")
	params.Set("list", "search")
	params.Set("srsearch", "File:"+query)
	params.Set("srnamespace", "6")
	params.Set("srlimit", strconv.Itoa(count*2))

	req, err := w.newRequest(ctx, params)
	if err != nil {
		return nil, err
	}

	var search wikimediaSearchResponse
	if err := w.getJSON(ctx, req, &search); err != nil {
		return nil, err
	}

	var titles []string
	for _, item := range search.Query.Search {
		if hasImageExtension(item.Title) {
			titles = append(titles, item.Title)
		}
		if len(titles) >= count*2 {
			break
		}
	}
	if len(titles) == 0 {
		return nil, nil
	}

	params = url.Values{}
	params.Set("action", "query")
	params.Set("format", "json")
	params.Set("titles", strings.Join(titles, "|"))
	params.Set("prop", "imageinfo")
	params.Set("iiprop", "url|size|mime|user")
	params.Set("iiurlwidth", "1000")

	req, err = w.newRequest(ctx, params)
	if err != nil {
		return nil, err
	}

	var info wikimediaInfoResponse
	if err := w.getJSON(ctx, req, &info); err != nil {
		return nil, err
	}

	// Pages come back keyed by page id; keep the search order
	byTitle := make(map[string]wikimediaInfo)
	for _, page := range info.Query.Pages {
		if len(page.ImageInfo) > 0 {
			byTitle[page.Title] = page.ImageInfo[0]
		}
	}

	var results []SearchResult
	for _, title := range titles {
		ii, ok := byTitle[title]
		if !ok || !acceptWikimediaInfo(ii) {
			continue
		}
		imageURL := ii.ThumbURL
		if imageURL == "" {
			imageURL = ii.URL
		}
		author := ii.User
		if author == "" {
			author = "Wikimedia Commons"
		}
		results = append(results, SearchResult{
			ID:           title,
			URL:          imageURL,
			ThumbnailURL: imageURL,
			Width:        ii.Width,
			Height:       ii.Height,
			Bytes:        ii.Size,
			Description:  title,
			Author:       author,
			Attribution:  fmt.Sprintf("%s by %s, via Wikimedia Commons", strings.TrimPrefix(title, "File:"), author),
			Source:       "wikimedia",
		})
		if len(results) >= count {
			break
		}
	}

	return results, nil
}

// GetAttribution returns the required attribution text for an image
func (w *WikimediaClient) GetAttribution(result *SearchResult) string {
	return result.Attribution
}

func (w *WikimediaClient) newRequest(ctx context.Context, params url.Values) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if w.token != "" {
		req.Header.Set("Authorization", "Bearer "+w.token)
	}
	return req, nil
}

func hasImageExtension(title string) bool {
	lower := strings.ToLower(title)
	return strings.HasPrefix(lower, "file:") &&
		(strings.HasSuffix(lower, ".jpg") || strings.HasSuffix(lower, ".jpeg") || strings.HasSuffix(lower, ".png"))
}

func acceptWikimediaInfo(ii wikimediaInfo) bool {
	if ii.Mime != "image/jpeg" && ii.Mime != "image/png" {
		return false
	}
	return ii.Size >= wikimediaMinBytes && ii.Size <= wikimediaMaxBytes
}
