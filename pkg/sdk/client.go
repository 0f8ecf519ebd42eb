package neurodex

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultTimeout = 30 * time.Second

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	apiKey     string
	httpClient *http.Client
}

// WithAPIKey sets the bearer token sent with every request.
func WithAPIKey(key string) Option {
	return optionFunc(func(c *clientConfig) {
		c.apiKey = key
	})
}

// WithHTTPClient replaces the underlying HTTP client.
// Defaults to a client with a 30s timeout.
func WithHTTPClient(hc *http.Client) Option {
	return optionFunc(func(c *clientConfig) {
		c.httpClient = hc
	})
}

// Client is the neurodex SDK entry point.
type Client struct {
	baseURL string
	apiKey  string
	hc      *http.Client
}

// New creates a Client for the service at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("neurodex: base URL required")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("neurodex: invalid base URL: %w", err)
	}

	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}
	if cfg.httpClient == nil {
		cfg.httpClient = &http.Client{Timeout: defaultTimeout}
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  cfg.apiKey,
		hc:      cfg.httpClient,
	}, nil
}

// TermStudies returns the studies annotated with the given term, strongest
// first. The term is canonicalized server-side, so raw forms like
// "Posterior Cingulate" are fine.
func (c *Client) TermStudies(ctx context.Context, term string) (*TermStudiesResult, error) {
	var out TermStudiesResult
	path := "/terms/" + url.PathEscape(term) + "/studies"
	if err := c.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// LocationStudies returns the studies reporting activation nearest to the
// given coordinates, closest first.
func (c *Client) LocationStudies(ctx context.Context, coords Coords) (*LocationStudiesResult, error) {
	var out LocationStudiesResult
	path := "/locations/" + url.PathEscape(coords.String()) + "/studies"
	if err := c.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DissociateTerms splits the studies matching two terms into a-only, b-only
// and overlap sets.
func (c *Client) DissociateTerms(ctx context.Context, termA, termB string) (*TermDissociation, error) {
	var out TermDissociation
	path := "/dissociate/terms/" + url.PathEscape(termA) + "/" + url.PathEscape(termB)
	if err := c.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DissociateLocations splits the studies nearest to two locations into
// a-only, b-only and overlap sets.
func (c *Client) DissociateLocations(ctx context.Context, a, b Coords) (*LocationDissociation, error) {
	var out LocationDissociation
	path := "/dissociate/locations/" + url.PathEscape(a.String()) + "/" + url.PathEscape(b.String())
	if err := c.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CorpusStatus returns corpus-wide row counts.
func (c *Client) CorpusStatus(ctx context.Context) (*CorpusStatus, error) {
	var out CorpusStatus
	if err := c.get(ctx, "/corpus/status", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// HealthCheck returns the service health report. A degraded service answers
// with HTTP 503, which surfaces here as an *APIError.
func (c *Client) HealthCheck(ctx context.Context) (*Health, error) {
	var out Health
	if err := c.get(ctx, "/health", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, http.NoBody)
	if err != nil {
		return fmt.Errorf("neurodex: build request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("neurodex: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return parseAPIError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("neurodex: decode %s response: %w", path, err)
	}
	return nil
}

func parseAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	var body struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		apiErr.Code = body.Code
		apiErr.Message = body.Message
	}
	if apiErr.Code == "" {
		apiErr.Code = http.StatusText(resp.StatusCode)
	}
	return apiErr
}
