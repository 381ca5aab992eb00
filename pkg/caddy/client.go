package caddy

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/caddyadm/caddyadm/pkg/logging"
)

// DefaultAdminURL is where Caddy's admin endpoint listens unless its
// config says otherwise.
const DefaultAdminURL = "http://localhost:2019"

// Client talks to one Caddy admin endpoint. Its configuration is fixed
// at construction; a Client is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	username   string
	password   string
	basicAuth  bool
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBasicAuth sends HTTP Basic credentials with every request.
func WithBasicAuth(username, password string) Option {
	return func(c *Client) {
		c.username = username
		c.password = password
		c.basicAuth = true
	}
}

// WithTimeout sets the HTTP timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithHTTPClient replaces the underlying *http.Client, for callers that
// need transport control (TLS settings, proxies). Apply before
// WithTimeout if both are used.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger enables debug logging of each exchange.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New creates a client for the admin endpoint at baseURL. An empty
// baseURL targets DefaultAdminURL.
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultAdminURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logging.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the admin endpoint this client targets.
func (c *Client) BaseURL() string {
	return c.baseURL
}
