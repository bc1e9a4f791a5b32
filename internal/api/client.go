// Package api is the HTTP gateway to the remote mail service. Every request
// except login carries the session's bearer token.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultTimeout bounds a single request when none is configured.
const DefaultTimeout = 30 * time.Second

// TokenSource supplies the bearer token for authenticated requests. It
// returns an error when there is no signed-in session.
type TokenSource interface {
	Token() (string, error)
}

// Client is a thin JSON client for the mail service REST API.
type Client struct {
	baseURL    string
	tokens     TokenSource
	httpClient *http.Client
}

// NewClient creates a client for the service at origin (for example
// http://localhost:5000). The /api prefix is appended unless already present.
// A zero timeout uses DefaultTimeout.
func NewClient(origin string, tokens TokenSource, timeout time.Duration) *Client {
	base := strings.TrimRight(origin, "/")
	if !strings.HasSuffix(base, "/api") {
		base += "/api"
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		baseURL: base,
		tokens:  tokens,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// BaseURL returns the resolved API root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) get(ctx context.Context, path string, query url.Values, result any) error {
	if len(query) > 0 {
		path += "?" + query.Encode()
	}
	return c.do(ctx, http.MethodGet, path, nil, result, true)
}

func (c *Client) post(ctx context.Context, path string, body, result any) error {
	return c.do(ctx, http.MethodPost, path, body, result, true)
}

func (c *Client) put(ctx context.Context, path string, body, result any) error {
	return c.do(ctx, http.MethodPut, path, body, result, true)
}

func (c *Client) delete(ctx context.Context, path string, result any) error {
	return c.do(ctx, http.MethodDelete, path, nil, result, true)
}

// do builds the request, attaches auth, and decodes the JSON response.
// Non-2xx responses become *Error.
func (c *Client) do(
	ctx context.Context,
	method string,
	path string,
	body any,
	result any,
	auth bool,
) error {
	var token string
	if auth {
		t, err := c.tokens.Token()
		if err != nil {
			return err
		}
		token = t
	}

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request %s %s: %w", method, path, err)
	}

	respBody, readErr := io.ReadAll(resp.Body)
	resp.Body.Close()
	if readErr != nil {
		return fmt.Errorf("reading response body: %w", readErr)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newError(resp.StatusCode, method, path, respBody)
	}

	if result == nil || resp.StatusCode == http.StatusNoContent || len(respBody) == 0 {
		return nil
	}

	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("unmarshaling response from %s %s: %w", method, path, err)
	}
	return nil
}

// escape encodes an identifier for use as a single path segment.
func escape[T ~string](id T) string {
	return url.PathEscape(string(id))
}
