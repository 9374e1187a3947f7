// Package sanity is a small GROQ query client for the Sanity content API.
// It uses raw HTTP calls against the query endpoint.
package sanity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// DefaultAPIVersion is the dated API version used when none is configured.
const DefaultAPIVersion = "2024-09-01"

var (
	// ErrNotConfigured is returned when project id or dataset is missing.
	ErrNotConfigured = errors.New("sanity: not configured")
	// ErrNoResult is returned when a query yields null, e.g. an unknown slug.
	ErrNoResult = errors.New("sanity: no result")
)

// Config identifies the project and dataset to query.
type Config struct {
	ProjectID  string
	Dataset    string
	Token      string
	APIVersion string
	UseCDN     bool
}

// Client runs GROQ queries.
type Client struct {
	cfg        Config
	baseURL    string
	httpClient *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL replaces https://{project}.api.sanity.io. Used in tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient replaces the default client with a 30s timeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient creates a Client.
func NewClient(cfg Config, opts ...Option) *Client {
	if cfg.APIVersion == "" {
		cfg.APIVersion = DefaultAPIVersion
	}
	host := "api"
	if cfg.UseCDN && cfg.Token == "" {
		host = "apicdn"
	}
	c := &Client{
		cfg:        cfg,
		baseURL:    fmt.Sprintf("https://%s.%s.sanity.io", cfg.ProjectID, host),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Configured reports whether queries can be sent.
func (c *Client) Configured() bool {
	return c.cfg.ProjectID != "" && c.cfg.Dataset != ""
}

type queryResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *struct {
		Description string `json:"description"`
		Type        string `json:"type"`
	} `json:"error"`
}

// Fetch runs query with params bound as $name and decodes the result into out.
func (c *Client) Fetch(ctx context.Context, query string, params map[string]any, out any) error {
	if !c.Configured() {
		return ErrNotConfigured
	}
	endpoint, err := c.queryURL(query, params)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sanity query: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("sanity read body: %w", err)
	}
	var result queryResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return fmt.Errorf("sanity decode (status %d): %w", resp.StatusCode, err)
	}
	if result.Error != nil {
		return fmt.Errorf("sanity query: %s: %s", result.Error.Type, result.Error.Description)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sanity query: unexpected status %d", resp.StatusCode)
	}
	if len(result.Result) == 0 || bytes.Equal(result.Result, []byte("null")) {
		return ErrNoResult
	}
	if err := json.Unmarshal(result.Result, out); err != nil {
		return fmt.Errorf("sanity decode result: %w", err)
	}
	return nil
}

func (c *Client) queryURL(query string, params map[string]any) (string, error) {
	v := url.Values{}
	v.Set("query", query)
	for name, val := range params {
		b, err := json.Marshal(val)
		if err != nil {
			return "", fmt.Errorf("sanity param %s: %w", name, err)
		}
		v.Set("$"+name, string(b))
	}
	return fmt.Sprintf("%s/v%s/data/query/%s?%s", c.baseURL, c.cfg.APIVersion, url.PathEscape(c.cfg.Dataset), v.Encode()), nil
}
