// Package client talks to a pas service over HTTP
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/clarete/pas"
)

const defaultUserAgent = "pas-client"

// Client sends match requests to a pas service
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

// Option customizes a Client
type Option func(*Client)

// WithHTTPClient replaces the http.Client requests are sent with
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.http = c }
}

// WithUserAgent sets the User-Agent header of the requests
func WithUserAgent(ua string) Option {
	return func(cl *Client) { cl.userAgent = ua }
}

// New creates a client for the service at `baseURL`
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base url: %q isn't absolute", baseURL)
	}
	c := &Client{baseURL: u, http: http.DefaultClient, userAgent: defaultUserAgent}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Result is a successful match answered by the service
type Result struct {
	Rule   string
	Text   string
	Output pas.Output
}

// APIError is returned when the service answers with an error
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("pas service error (%d): %s", e.StatusCode, e.Message)
}

type singleRequest struct {
	Grammar string `json:"grammar"`
	Rule    string `json:"rule,omitempty"`
	Text    string `json:"text"`
}

type singleResponse struct {
	Rule   string `json:"rule"`
	Text   string `json:"text"`
	Output any    `json:"output"`
	Error  string `json:"error"`
}

// SingleParse matches `text` against `rule` of `grammar`.  An empty
// rule uses the default rule of the grammar.
func (c *Client) SingleParse(ctx context.Context, grammar, rule, text string) (*Result, error) {
	body, err := json.Marshal(singleRequest{Grammar: grammar, Rule: rule, Text: text})
	if err != nil {
		return nil, err
	}
	endpoint := c.baseURL.ResolveReference(&url.URL{Path: "v1/single"})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("can't read response: %w", err)
	}
	var out singleResponse
	decodeErr := json.Unmarshal(data, &out)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := out.Error
		if decodeErr != nil || msg == "" {
			msg = string(bytes.TrimSpace(data))
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Message: msg}
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("can't decode response: %w", decodeErr)
	}
	output, err := pas.OutputFromJSON(out.Output)
	if err != nil {
		return nil, fmt.Errorf("can't decode output: %w", err)
	}
	return &Result{Rule: out.Rule, Text: out.Text, Output: output}, nil
}
