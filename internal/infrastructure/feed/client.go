package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/pricelens/backend/internal/domain"
	"golang.org/x/time/rate"
)

const maxAttempts = 3

// Client fetches candidate product lists from the scraping-feed service.
// The matching engine itself never talks to the network; this client is
// the boundary to the out-of-process scraping collaborator.
type Client struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	rateLimiter *rate.Limiter
	debug       bool
}

// searchResponse is the feed service's search payload.
type searchResponse struct {
	Products []domain.Product `json:"products"`
	Total    int              `json:"total"`
}

// NewClient creates a new feed client. requestsPerMinute caps outbound
// traffic so a burst of comparisons cannot hammer the scraping service.
func NewClient(apiKey, baseURL string, requestsPerMinute int) *Client {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 60
	}
	limiter := rate.NewLimiter(rate.Limit(float64(requestsPerMinute)/60.0), 5)

	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		apiKey:      apiKey,
		baseURL:     baseURL,
		rateLimiter: limiter,
	}
}

// SetDebug enables request logging.
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// FetchCandidates returns the feed's product list for a site+query pair.
// Transient failures are retried with exponential backoff; an empty feed
// maps to ErrNoCandidates.
func (c *Client) FetchCandidates(ctx context.Context, site, query string) ([]domain.Product, error) {
	if c.debug {
		log.Printf("[FEED] FetchCandidates site=%q query=%q", site, query)
	}

	endpoint := fmt.Sprintf("%s/v1/products", c.baseURL)
	params := url.Values{}
	params.Add("site", site)
	params.Add("query", query)
	if c.apiKey != "" {
		params.Add("api_key", c.apiKey)
	}

	reqURL := fmt.Sprintf("%s?%s", endpoint, params.Encode())

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		resp, err := c.doRequest(ctx, reqURL)
		if err != nil {
			log.Printf("[FEED] Request error (attempt %d): %v", attempt, err)
			lastErr = err
			time.Sleep(exponentialBackoff(attempt))
			continue
		}

		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			if resp.StatusCode == http.StatusNotFound {
				return nil, domain.ErrNoCandidates
			}
			log.Printf("[FEED] API error (attempt %d) - Status: %d, Body: %s", attempt, resp.StatusCode, string(body))
			lastErr = fmt.Errorf("%w: status %d", domain.ErrFeedFailure, resp.StatusCode)
			time.Sleep(exponentialBackoff(attempt))
			continue
		}

		var searchResp searchResponse
		if err := json.Unmarshal(body, &searchResp); err != nil {
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}

		if len(searchResp.Products) == 0 {
			return nil, domain.ErrNoCandidates
		}

		if c.debug {
			log.Printf("[FEED] Got %d products for site=%q query=%q", len(searchResp.Products), site, query)
		}
		return searchResp.Products, nil
	}

	return nil, lastErr
}

// doRequest executes an HTTP GET request with proper headers.
func (c *Client) doRequest(ctx context.Context, reqURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "PriceLens/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrFeedFailure, err)
	}

	return resp, nil
}

// exponentialBackoff doubles the wait per attempt: 500ms, 1s, 2s.
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(500<<(attempt-1)) * time.Millisecond
}
