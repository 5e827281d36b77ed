// Package httpclient is the single point of configuration for all backend
// calls. It owns the base URL, the request timeout, bearer-token injection
// from durable storage, and the global 401 handler. Resource services are
// thin typed mappings over this client and never talk to the network
// directly.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mediconnect/mediconnect/internal/platform/storage"
)

// RequestIDHeader is attached to every outgoing request.
const RequestIDHeader = "X-Request-ID"

// Config configures a Client.
type Config struct {
	// BaseURL is the absolute prefix every resource path is resolved
	// against, e.g. "http://localhost:8081/api".
	BaseURL string

	// Timeout bounds each request end to end. Zero means 10 seconds.
	Timeout time.Duration

	// Store holds the bearer token and current user. The token is read
	// before every request; both keys are cleared on a 401.
	Store *storage.Store

	// OnUnauthorized runs after a 401 response has cleared the session,
	// exactly once per response. The CLI uses it to tell the user to log
	// in again; a UI would redirect to its login entry point.
	OnUnauthorized func()

	Logger zerolog.Logger
}

// Client wraps net/http for the backend REST contract. It performs no
// retries: network failures, timeouts, and non-2xx statuses all surface to
// the caller.
type Client struct {
	baseURL        string
	http           *http.Client
	store          *storage.Store
	onUnauthorized func()
	logger         zerolog.Logger
}

// New builds a Client. The store may be nil, in which case requests go out
// unauthenticated and 401 handling only invokes the hook.
func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		http:           &http.Client{Timeout: timeout},
		store:          cfg.Store,
		onUnauthorized: cfg.OnUnauthorized,
		logger:         cfg.Logger,
	}
}

// Get issues a GET and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// Post issues a POST with a JSON body and decodes the response into out.
func (c *Client) Post(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

// Put issues a PUT with a JSON body and decodes the response into out.
func (c *Client) Put(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPut, path, body, out)
}

// Patch issues a PATCH. Body and out may both be nil for bare transitions.
func (c *Client) Patch(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPatch, path, body, out)
}

// Delete issues a DELETE. Any 2xx response, including an empty 204, counts
// as success.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	u := c.baseURL + "/" + strings.TrimLeft(path, "/")
	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	rid := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(RequestIDHeader, rid)
	if c.store != nil {
		if token, err := c.store.Get(storage.KeyAuthToken); err == nil && token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug().
			Str("request_id", rid).
			Str("method", method).
			Str("path", path).
			Err(err).
			Msg("request failed")
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	c.logger.Debug().
		Str("request_id", rid).
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("request")

	if resp.StatusCode == http.StatusUnauthorized {
		c.handleUnauthorized()
		return newAPIError(resp, rid)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp, rid)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response for %s %s: %w", method, path, err)
	}
	return nil
}

// handleUnauthorized clears the persisted session and fires the hook. It
// runs once per 401 response; the error itself still reaches the caller.
func (c *Client) handleUnauthorized() {
	if c.store != nil {
		_ = c.store.Delete(storage.KeyAuthToken)
		_ = c.store.Delete(storage.KeyCurrentUser)
	}
	if c.onUnauthorized != nil {
		c.onUnauthorized()
	}
}
