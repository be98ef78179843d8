package api

import (
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// TokenSource supplies the session token for authenticated requests.
type TokenSource interface {
	AuthToken() (string, error)
}

// Client provides access to the marketplace REST API.
type Client struct {
	baseURL    string
	platform   string
	language   string
	httpClient *http.Client
	logger     *slog.Logger

	tokenMu sync.RWMutex
	tokens  TokenSource

	maxRetries   int
	retryBackoff time.Duration
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// NewClient creates a new REST API client.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:  baseURL,
		platform: "pc",
		language: "en",
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger:       slog.Default(),
		maxRetries:   3,
		retryBackoff: time.Second,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithRetries sets the retry configuration.
func WithRetries(max int, backoff time.Duration) ClientOption {
	return func(c *Client) {
		c.maxRetries = max
		c.retryBackoff = backoff
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithPlatform sets the Platform header sent with every request.
func WithPlatform(platform string) ClientOption {
	return func(c *Client) {
		c.platform = platform
	}
}

// WithLanguage sets the Language header sent with every request.
func WithLanguage(language string) ClientOption {
	return func(c *Client) {
		c.language = language
	}
}

// WithTokenSource sets the source of the session token.
func WithTokenSource(ts TokenSource) ClientOption {
	return func(c *Client) {
		c.tokens = ts
	}
}

// SetTokenSource replaces the token source after construction. The session
// manager is built on top of the client, so it is attached here.
func (c *Client) SetTokenSource(ts TokenSource) {
	c.tokenMu.Lock()
	c.tokens = ts
	c.tokenMu.Unlock()
}

// Platform returns the platform this client queries.
func (c *Client) Platform() string {
	return c.platform
}

func (c *Client) tokenSource() TokenSource {
	c.tokenMu.RLock()
	defer c.tokenMu.RUnlock()
	return c.tokens
}

// optionalToken returns the session token, or "" when there is no usable session.
func (c *Client) optionalToken() string {
	ts := c.tokenSource()
	if ts == nil {
		return ""
	}
	token, err := ts.AuthToken()
	if err != nil {
		return ""
	}
	return token
}
