// Package httpjson is a small JSON-over-HTTP request wrapper shared by the
// manifest fetcher, the update checker, and REST-based cloud providers. It
// normalizes every non-2xx response into one error shape so callers never
// have to inspect vendor-specific failure bodies.
package httpjson

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultTimeout = 30 * time.Second

// APIError is the uniform error raised for any response outside the 2xx
// range. Body carries the vendor's message (decoded from JSON when
// possible, raw text otherwise).
type APIError struct {
	Method string
	Path   string
	Status int
	Body   string
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("%s %s returned %d", e.Method, e.Path, e.Status)
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// Response is the decoded result of a successful request.
type Response struct {
	OK     bool
	Status int
	Data   json.RawMessage
}

// Decode unmarshals the response body into dest.
func (r *Response) Decode(dest any) error {
	if len(r.Data) == 0 {
		return nil
	}
	return json.Unmarshal(r.Data, dest)
}

// Client issues authenticated JSON requests against one API base URL.
type Client struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

// New returns a client for the given base URL with a bearer token.
func New(baseURL, token string) *Client {
	return &Client{
		BaseURL:    strings.TrimSuffix(baseURL, "/"),
		Token:      token,
		HTTPClient: &http.Client{Timeout: defaultTimeout},
	}
}

// Request performs an HTTP call against BaseURL+path. The body is
// serialized to JSON for mutating methods only; GET requests never carry
// one even when a body argument is supplied. Any status outside the 2xx
// range returns an *APIError.
func (c *Client) Request(ctx context.Context, method, path string, body any) (*Response, error) {
	var reqBody io.Reader
	if body != nil && method != http.MethodGet && method != http.MethodHead {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("httpjson: failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("httpjson: failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	client := c.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpjson: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("httpjson: failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{
			Method: method,
			Path:   path,
			Status: resp.StatusCode,
			Body:   errorBody(data),
		}
	}

	return &Response{OK: true, Status: resp.StatusCode, Data: data}, nil
}

// errorBody extracts a human-readable message from an error response.
// Vendors commonly wrap it as {"message": ...} or {"error": ...}; anything
// unparsable is returned as trimmed raw text.
func errorBody(data []byte) string {
	var wrapper struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(data, &wrapper); err == nil {
		if wrapper.Message != "" {
			return wrapper.Message
		}
		if wrapper.Error != "" {
			return wrapper.Error
		}
	}
	return strings.TrimSpace(string(data))
}
