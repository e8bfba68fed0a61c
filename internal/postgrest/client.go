// Package postgrest implements news.Store over the hosted REST endpoint of the
// analytics database, authenticated with the public anon key.
package postgrest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/TobiSchelling/trendboard/internal/news"
)

var _ news.Store = (*Client)(nil)

// Options tunes the HTTP client.
type Options struct {
	Timeout    time.Duration
	RateLimit  float64 // requests per second, 0 disables limiting
	Burst      int
	HTTPClient *http.Client
}

// Client is a read-only REST client.
type Client struct {
	base    *url.URL
	anonKey string
	http    *http.Client
	limiter *rate.Limiter
}

// APIError is a non-2xx response from the REST endpoint.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	if e.Code != "" {
		return fmt.Sprintf("rest api %d (%s): %s", e.Status, e.Code, msg)
	}
	return fmt.Sprintf("rest api %d: %s", e.Status, msg)
}

// New creates a client for the project at baseURL (e.g. https://xyz.supabase.co).
func New(baseURL, anonKey string, opts Options) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("rest base url is empty")
	}
	if strings.TrimSpace(anonKey) == "" {
		return nil, errors.New("rest anon key is empty")
	}
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing rest base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("rest base url must be http(s), got %q", baseURL)
	}

	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if opts.RateLimit > 0 {
		burst := opts.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}

	return &Client{base: u, anonKey: anonKey, http: hc, limiter: limiter}, nil
}

// get fetches rows of a table into dest.
func (c *Client) get(ctx context.Context, table string, params url.Values, dest any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	u := *c.base
	u.Path = u.Path + "/rest/v1/" + table
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Authorization", "Bearer "+c.anonKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("querying %s: %w", table, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		if json.Unmarshal(body, apiErr) != nil || apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(body))
		}
		return fmt.Errorf("querying %s: %w", table, apiErr)
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decoding %s: %w", table, err)
	}
	return nil
}
