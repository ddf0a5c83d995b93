// Path: internal/uniprot/client.go
package uniprot

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"gene-catalog/internal/config"
)

// linkHeaderRegex is used to parse the 'Link' HTTP header for pagination.
var linkHeaderRegex = regexp.MustCompile(`<([^>]+)>;\s*rel="next"`)

// FetchResult holds the data returned from a single API call.
type FetchResult struct {
	Entries []Entry
	NextURL string
}

// Client is a client for the UniProtKB REST API.
type Client struct {
	client  *http.Client
	limiter *rate.Limiter
	baseURL string
}

// NewClient creates and configures a new Client.
func NewClient(cfg config.UniProtConfig) *Client {
	limit := rate.Limit(cfg.RequestsPerSecond)
	if cfg.RequestsPerSecond <= 0 {
		limit = rate.Inf
	}
	burst := cfg.BurstLimit
	if burst < 1 {
		burst = 1
	}
	return &Client{
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		limiter: rate.NewLimiter(limit, burst),
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
	}
}

// SearchURL builds the first-page URL for a UniProtKB query.
func (c *Client) SearchURL(q string, pageSize int) string {
	params := url.Values{}
	params.Set("query", q)
	params.Set("format", "json")
	if pageSize > 0 {
		params.Set("size", strconv.Itoa(pageSize))
	}
	return c.baseURL + "/uniprotkb/search?" + params.Encode()
}

// FetchEntries fetches a single page of entries from the given URL.
// It respects the rate limit and parses the 'Link' header for the next page.
func (c *Client) FetchEntries(ctx context.Context, pageURL string) (*FetchResult, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var page struct {
		Results []Entry `json:"results"`
	}
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("failed to unmarshal json response: %w", err)
	}

	nextURL := ""
	if matches := linkHeaderRegex.FindStringSubmatch(resp.Header.Get("Link")); len(matches) > 1 {
		nextURL = matches[1]
	}

	return &FetchResult{
		Entries: page.Results,
		NextURL: nextURL,
	}, nil
}
