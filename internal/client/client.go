// Package client is a Go consumer of the HTTP API. It keeps the session
// cookie in a jar, unwraps the {success, data, message} envelope, and
// surfaces failures as typed errors.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/mdpreview/mdpreview/internal/types"
)

// APIError is a non-2xx response from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api error %d", e.Status)
}

// IsNotFound reports whether err is an APIError with status 404.
func IsNotFound(err error) bool {
	apiErr, ok := err.(*APIError)
	return ok && apiErr.Status == http.StatusNotFound
}

type Client struct {
	baseURL string
	http    *http.Client

	// onUnauthorized runs when any request other than an auth check comes
	// back 401, so the caller can drop its session state once instead of
	// handling the status at every call site.
	onUnauthorized func()
}

type Option func(*Client)

// WithHTTPClient swaps the underlying transport. The cookie jar is still
// installed if the given client has none.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithUnauthorizedHandler installs the session-expired hook.
func WithUnauthorizedHandler(fn func()) Option {
	return func(c *Client) {
		c.onUnauthorized = fn
	}
}

func New(baseURL string, opts ...Option) (*Client, error) {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.http.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create cookie jar: %w", err)
		}
		c.http.Jar = jar
	}

	return c, nil
}

// envelope mirrors the server's uniform response shape.
type envelope struct {
	Success    bool              `json:"success"`
	Data       json.RawMessage   `json:"data"`
	Message    string            `json:"message"`
	Pagination *types.Pagination `json:"pagination"`
}

// authCheckPaths are requests where a 401 is an expected answer (wrong
// credentials, probing for an existing session), not an expired session.
// The unauthorized hook stays quiet for these.
var authCheckPaths = map[string]bool{
	"/api/auth/login":    true,
	"/api/auth/register": true,
	"/api/auth/profile":  true,
}

// do sends a request and decodes the envelope. body may be nil. out may be
// nil when the caller only cares about success.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, contentType string, body io.Reader, out any) (*types.Pagination, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var env envelope
	if len(raw) > 0 {
		// Non-JSON error bodies (rate limiter plain text) fall through to
		// the status check below.
		_ = json.Unmarshal(raw, &env)
	}

	if resp.StatusCode == http.StatusUnauthorized && c.onUnauthorized != nil && !authCheckPaths[path] {
		c.onUnauthorized()
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := env.Message
		if msg == "" {
			msg = strings.TrimSpace(string(raw))
		}
		return nil, &APIError{Status: resp.StatusCode, Message: msg}
	}

	if out != nil && len(env.Data) > 0 {
		err = json.Unmarshal(env.Data, out)
		if err != nil {
			return nil, fmt.Errorf("failed to decode response data: %w", err)
		}
	}

	return env.Pagination, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) (*types.Pagination, error) {
	return c.do(ctx, http.MethodGet, path, query, "", nil, out)
}

func (c *Client) postJSON(ctx context.Context, path string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}
	_, err = c.do(ctx, http.MethodPost, path, nil, "application/json", bytes.NewReader(payload), out)
	return err
}

func (c *Client) putJSON(ctx context.Context, path string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}
	_, err = c.do(ctx, http.MethodPut, path, nil, "application/json", bytes.NewReader(payload), out)
	return err
}

func (c *Client) delete(ctx context.Context, path string, out any) error {
	_, err := c.do(ctx, http.MethodDelete, path, nil, "", nil, out)
	return err
}

func (c *Client) deleteJSON(ctx context.Context, path string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}
	_, err = c.do(ctx, http.MethodDelete, path, nil, "application/json", bytes.NewReader(payload), out)
	return err
}
