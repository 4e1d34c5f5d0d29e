package openalex

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/matsen/citegraph/internal/doi"
)

const (
	// BaseURL is the OpenAlex API base URL.
	BaseURL = "https://api.openalex.org"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 20 * time.Second

	// RateLimit is 2 requests per second, a polite default for the free
	// OpenAlex tier. Tunable via WithRateLimit for services that do their
	// own rate limiting.
	RateLimit = 2.0
)

// Client is a rate-limited HTTP client for the OpenAlex works API.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	mailto     string
	baseURL    string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithMailto sets the contact email sent with each request, which OpenAlex
// uses to route traffic into its polite pool.
func WithMailto(mailto string) ClientOption {
	return func(c *Client) {
		c.mailto = mailto
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(u string) ClientOption {
	return func(c *Client) {
		c.baseURL = u
	}
}

// WithRateLimit overrides the requests-per-second limit.
func WithRateLimit(rps float64) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// NewClient creates a new OpenAlex API client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(RateLimit), 1),
		baseURL:    BaseURL,
	}

	if mailto := os.Getenv("OPENALEX_MAILTO"); mailto != "" {
		c.mailto = mailto
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// FetchWork fetches the raw work document for a canonical DOI.
// Returns (nil, nil) when OpenAlex has no work for the DOI.
func (c *Client) FetchWork(ctx context.Context, canonical string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	// OpenAlex resolves works by full DOI URL.
	reqURL := c.baseURL + "/works/https://doi.org/" + canonical
	if c.mailto != "" {
		reqURL += "?mailto=" + url.QueryEscape(c.mailto)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", canonical, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", canonical, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: unexpected status %d", canonical, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response for %s: %w", canonical, err)
	}
	return body, nil
}

// FetchStats reports the outcome of a batch fetch.
type FetchStats struct {
	Requested int `json:"requested"`
	Fetched   int `json:"fetched"`
	Cached    int `json:"cached"`
	NotFound  int `json:"not_found"`
	Errors    int `json:"errors"`
}

// FetchWorks fetches work documents for a list of canonical DOIs into dir,
// one JSON file per work. Documents already cached on disk are not refetched.
// Fetch failures skip that one DOI and continue; the batch never aborts.
func (c *Client) FetchWorks(ctx context.Context, dois []string, dir string) (FetchStats, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return FetchStats{}, fmt.Errorf("creating cache dir: %w", err)
	}

	stats := FetchStats{Requested: len(dois)}
	for _, d := range dois {
		path := filepath.Join(dir, doi.Filename(d)+".json")
		if _, err := os.Stat(path); err == nil {
			stats.Cached++
			continue
		}

		body, err := c.FetchWork(ctx, d)
		if err != nil {
			if ctx.Err() != nil {
				return stats, ctx.Err()
			}
			log.WithField("doi", d).WithError(err).Warn("openalex fetch failed, skipping")
			stats.Errors++
			continue
		}
		if body == nil {
			log.WithField("doi", d).Warn("openalex has no work for DOI, skipping")
			stats.NotFound++
			continue
		}

		if err := os.WriteFile(path, body, 0644); err != nil {
			return stats, fmt.Errorf("writing %s: %w", path, err)
		}
		stats.Fetched++
	}

	log.WithFields(log.Fields{
		"requested": stats.Requested,
		"fetched":   stats.Fetched,
		"cached":    stats.Cached,
		"not_found": stats.NotFound,
		"errors":    stats.Errors,
	}).Info("openalex fetch complete")

	return stats, nil
}
