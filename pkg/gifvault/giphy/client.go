package giphy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"
)

// ErrUpstream indicates the search API could not be reached or returned
// an error. The wrapped detail never includes the API key.
var ErrUpstream = errors.New("gif search upstream error")

const defaultBaseURL = "https://api.giphy.com/v1/gifs"

// Client calls the external GIF search API
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient creates a search client. The API key comes from the
// GIPHY_API_KEY environment variable when empty.
func NewClient(apiKey string) *Client {
	if apiKey == "" {
		apiKey = os.Getenv("GIPHY_API_KEY")
	}
	baseURL := os.Getenv("GIPHY_BASE_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Search queries the upstream search endpoint and returns its envelope
// unchanged.
func (c *Client) Search(ctx context.Context, query string, limit, offset int) (*SearchResponse, error) {
	params := url.Values{}
	params.Set("api_key", c.apiKey)
	params.Set("q", query)
	params.Set("limit", strconv.Itoa(limit))
	params.Set("offset", strconv.Itoa(offset))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: building request: %v", ErrUpstream, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: request failed", ErrUpstream)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}

	var result SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: decoding response", ErrUpstream)
	}

	return &result, nil
}
