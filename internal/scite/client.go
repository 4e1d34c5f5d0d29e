package scite

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	// BaseURL is the scite.ai API base URL.
	BaseURL = "https://api.scite.ai"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 20 * time.Second

	// RateLimit is 3 requests per second, a polite default for the keyless tier.
	RateLimit = 3.0
)

// Client is a rate-limited HTTP client for the scite.ai tallies API.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	apiKey     string
	baseURL    string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithAPIKey sets the API key. Keyless requests work with limited data.
func WithAPIKey(key string) ClientOption {
	return func(c *Client) {
		c.apiKey = key
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

// NewClient creates a new scite.ai API client. The SCITE_API_KEY environment
// variable is picked up when set.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(RateLimit), 1),
		baseURL:    BaseURL,
	}

	if key := os.Getenv("SCITE_API_KEY"); key != "" {
		c.apiKey = key
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// FetchTallies fetches the tallies for one canonical DOI.
// Returns (nil, nil) when scite has no data for the DOI.
func (c *Client) FetchTallies(ctx context.Context, canonical string) (*Tallies, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/tallies/"+canonical, nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", canonical, err)
	}
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching tallies for %s: %w", canonical, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching tallies for %s: unexpected status %d", canonical, resp.StatusCode)
	}

	var t Tallies
	if err := json.NewDecoder(resp.Body).Decode(&t); err != nil {
		return nil, fmt.Errorf("decoding tallies for %s: %w", canonical, err)
	}
	return &t, nil
}

// FetchAll fetches tallies for every DOI, persisting the combined result as
// one JSON artifact at outPath. An existing artifact is loaded first and only
// DOIs it does not cover are fetched, so reruns do not duplicate work. A DOI
// scite has no data for is recorded as an explicit null, never omitted. Fetch
// failures skip that one DOI and continue.
func (c *Client) FetchAll(ctx context.Context, dois []string, outPath string) (map[string]*Tallies, error) {
	tallies := make(map[string]*Tallies)

	if data, err := os.ReadFile(outPath); err == nil {
		if err := json.Unmarshal(data, &tallies); err != nil {
			log.WithField("file", outPath).WithError(err).Warn("unreadable tallies cache, refetching all")
			tallies = make(map[string]*Tallies)
		}
	}

	var fetched, cached, misses, failures int
	for _, d := range dois {
		if _, ok := tallies[d]; ok {
			cached++
			continue
		}

		t, err := c.FetchTallies(ctx, d)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log.WithField("doi", d).WithError(err).Warn("scite fetch failed, skipping")
			failures++
			continue
		}
		if t == nil {
			misses++
		}
		tallies[d] = t
		fetched++
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return nil, fmt.Errorf("creating tallies dir: %w", err)
	}
	data, err := json.MarshalIndent(tallies, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding tallies: %w", err)
	}
	if err := os.WriteFile(outPath, data, 0644); err != nil {
		return nil, fmt.Errorf("writing %s: %w", outPath, err)
	}

	log.WithFields(log.Fields{
		"requested": len(dois),
		"fetched":   fetched,
		"cached":    cached,
		"no_data":   misses,
		"failures":  failures,
	}).Info("scite fetch complete")

	return tallies, nil
}

// sortedKeys returns the map keys in lexicographic order.
func sortedKeys(m map[string]*Tallies) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
