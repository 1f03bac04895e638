// Package unsplash resolves image keywords to photo URLs via the Unsplash
// search API.
package unsplash

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/autox-agent/pkg/logger"
	"github.com/autox-agent/pkg/ratelimit"
)

const defaultBaseURL = "https://api.unsplash.com"

// Photo represents an Unsplash photo
type Photo struct {
	ID   string `json:"id"`
	URLs URLs   `json:"urls"`
}

// URLs contains different size URLs for the photo
type URLs struct {
	Raw     string `json:"raw"`
	Full    string `json:"full"`
	Regular string `json:"regular"` // 1080px width, right size for a tweet card
	Small   string `json:"small"`
}

type searchResult struct {
	Total   int     `json:"total"`
	Results []Photo `json:"results"`
}

// Client is the Unsplash API client
type Client struct {
	apiKey      string
	baseURL     string
	httpClient  *http.Client
	rateLimiter *ratelimit.MultiLimiter
	log         *logger.Logger
}

// NewClient creates a new Unsplash client
func NewClient(apiKey string, rateLimiter *ratelimit.MultiLimiter, log *logger.Logger) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		rateLimiter: rateLimiter,
		log:         log.WithComponent("unsplash"),
	}
}

// WithBaseURL overrides the API endpoint, used in tests.
func (c *Client) WithBaseURL(base string) *Client {
	c.baseURL = base
	return c
}

// ResolveImage searches for photos matching the keyword and returns the URL
// of the first result. An empty keyword or an empty result set yields an
// empty URL without error.
func (c *Client) ResolveImage(ctx context.Context, keyword string) (string, error) {
	if keyword == "" {
		return "", nil
	}

	if c.rateLimiter != nil {
		if err := c.rateLimiter.Wait(ctx, ratelimit.LimiterUnsplash); err != nil {
			return "", fmt.Errorf("rate limiter wait failed: %w", err)
		}
	}

	params := url.Values{}
	params.Set("query", keyword)
	params.Set("per_page", "1")
	params.Set("orientation", "landscape")

	endpoint := c.baseURL + "/search/photos?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Client-ID "+c.apiKey)
	req.Header.Set("Accept-Version", "v1")

	c.log.Debug().Str("keyword", keyword).Msg("Searching Unsplash photos")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	var result searchResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if len(result.Results) == 0 {
		c.log.Debug().Str("keyword", keyword).Msg("No photos found")
		return "", nil
	}

	photo := result.Results[0]
	imageURL := photo.URLs.Regular
	if imageURL == "" {
		imageURL = photo.URLs.Full
	}

	c.log.Debug().
		Str("keyword", keyword).
		Str("photo_id", photo.ID).
		Msg("Resolved image")

	return imageURL, nil
}
