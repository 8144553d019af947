package gateway

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

	apperrors "github.com/Paul200287/GradeTracker/internal/errors"
	"github.com/rs/zerolog/log"
)

// DefaultTimeout bounds every backend call unless overridden.
const DefaultTimeout = 30 * time.Second

// maxErrorBody caps how much of a failure response is kept for message extraction.
const maxErrorBody = 64 << 10

// Credentials is the token source the gateway reads before each request and
// clears when the backend rejects the token.
type Credentials interface {
	Token(ctx context.Context) (string, bool)
	Clear(ctx context.Context)
}

// Navigator sends the user somewhere else after a forced logout.
type Navigator interface {
	Navigate(path string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(path string)

func (f NavigatorFunc) Navigate(path string) { f(path) }

// RootPath is where a forced logout sends the user.
const RootPath = "/"

// Client performs authenticated JSON calls against the backend.
type Client struct {
	baseURL    *url.URL
	creds      Credentials
	nav        Navigator
	httpClient *http.Client
	timeout    time.Duration
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

// WithTimeout bounds each call; zero or negative disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(cl *Client) {
		cl.timeout = d
	}
}

// New builds a client for baseURL. With nil creds requests go out
// unauthenticated; with a nil nav a forced logout only clears credentials.
func New(baseURL string, creds Credentials, nav Navigator, options ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidConfig, "[gateway New] backend url %q is not absolute", baseURL)
	}

	c := &Client{
		baseURL:    u,
		creds:      creds,
		nav:        nav,
		httpClient: http.DefaultClient,
		timeout:    DefaultTimeout,
	}
	for _, opt := range options {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the backend root the client resolves paths against.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// HTTPClient exposes the transport so unauthenticated calls share it.
func (c *Client) HTTPClient() *http.Client {
	return c.httpClient
}

// URL resolves an API path against the backend root.
func (c *Client) URL(path string) string {
	return c.baseURL.String() + "/" + strings.TrimLeft(path, "/")
}

func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPut, path, body, out)
}

func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodDelete, path, nil, out)
}

// Do sends body as JSON (nil sends none) and decodes a 2xx response into out
// (nil discards it). A 401 clears the credentials and navigates to the root
// before the error is returned.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("[gateway Do] failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.URL(path), reader)
	if err != nil {
		return fmt.Errorf("[gateway Do] failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.creds != nil {
		if tok, ok := c.creds.Token(ctx); ok {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %w", apperrors.ErrTransport, method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil || resp.StatusCode == http.StatusNoContent {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !apperrors.Is(err, io.EOF) {
			return fmt.Errorf("[gateway Do] failed to decode %s %s response: %w", method, path, err)
		}
		return nil
	}

	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	respErr := &ResponseError{Method: method, Path: path, StatusCode: resp.StatusCode, Body: data}

	if resp.StatusCode == http.StatusUnauthorized {
		c.forceLogout(ctx)
	}
	return respErr
}

// forceLogout runs even when the caller's context is already done.
func (c *Client) forceLogout(ctx context.Context) {
	log.Info().Msg("Backend rejected the access token, forcing logout")
	if c.creds != nil {
		c.creds.Clear(context.WithoutCancel(ctx))
	}
	if c.nav != nil {
		c.nav.Navigate(RootPath)
	}
}
