package github

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/go-github/v68/github"
	"golang.org/x/oauth2"
)

const (
	// DefaultBaseURL is the default GitHub API base URL
	DefaultBaseURL = "https://api.github.com"

	// DefaultUserAgent is sent with every request
	DefaultUserAgent = "fresheyes"

	// DefaultTimeout is the default HTTP timeout
	DefaultTimeout = 30 * time.Second

	mediaTypeV3 = "application/vnd.github.v3+json"
)

// ClientOption configures a Client
type ClientOption func(*Client)

// WithBaseURL sets a custom base URL for the GitHub API
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = strings.TrimSuffix(baseURL, "/")
		}
	}
}

// WithTimeout sets a custom HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithTransport sets the base transport that authenticated requests are sent through
func WithTransport(transport http.RoundTripper) ClientOption {
	return func(c *Client) {
		c.transport = transport
	}
}

// WithUserAgent overrides the User-Agent header
func WithUserAgent(userAgent string) ClientOption {
	return func(c *Client) {
		if userAgent != "" {
			c.userAgent = userAgent
		}
	}
}

// Client talks to the GitHub REST API on behalf of a single credential.
//
// Requests are authenticated with a bearer token through an oauth2 transport
// and always carry the v3 Accept header and the configured User-Agent. Most
// operations go through a lazily built go-github client; NewRequest/Do give
// direct access for calls whose request body go-github cannot express.
//
// A Client is safe for concurrent use. Its token never changes after
// construction; build a new Client for a different credential.
type Client struct {
	token      string
	baseURL    string
	userAgent  string
	timeout    time.Duration
	transport  http.RoundTripper
	httpClient *http.Client

	githubOnce   sync.Once
	githubClient *github.Client
}

// NewClient creates a new GitHub API client with the given token
func NewClient(token string, opts ...ClientOption) *Client {
	c := &Client{
		token:     token,
		baseURL:   DefaultBaseURL,
		userAgent: DefaultUserAgent,
		timeout:   DefaultTimeout,
	}

	for _, opt := range opts {
		opt(c)
	}

	base := c.transport
	if base == nil {
		base = http.DefaultTransport
	}

	var rt http.RoundTripper = base
	if c.token != "" {
		rt = &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: c.token, TokenType: "Bearer"}),
			Base:   base,
		}
	}

	c.httpClient = &http.Client{
		Transport: rt,
		Timeout:   c.timeout,
	}

	return c
}

// BaseURL returns the API base URL without a trailing slash
func (c *Client) BaseURL() string {
	return c.baseURL
}

// GitHubClient returns the underlying go-github client (lazy-loaded)
func (c *Client) GitHubClient() *github.Client {
	c.githubOnce.Do(func() {
		gh := github.NewClient(c.httpClient)
		gh.UserAgent = c.userAgent

		if c.baseURL != DefaultBaseURL {
			// go-github requires a trailing slash on the base URL
			parsedURL, err := url.Parse(c.baseURL + "/")
			if err == nil {
				gh.BaseURL = parsedURL
			}
		}
		c.githubClient = gh
	})
	return c.githubClient
}

// NewRequest creates a new API request. urlStr may be absolute or relative to
// the base URL. A non-nil body is encoded as JSON.
func (c *Client) NewRequest(ctx context.Context, method, urlStr string, body interface{}) (*http.Request, error) {
	if !strings.HasPrefix(urlStr, "http://") && !strings.HasPrefix(urlStr, "https://") {
		urlStr = c.baseURL + "/" + strings.TrimPrefix(urlStr, "/")
	}

	var reader io.Reader
	if body != nil {
		buf := &bytes.Buffer{}
		if err := json.NewEncoder(buf).Encode(body); err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = buf
	}

	req, err := http.NewRequestWithContext(ctx, method, urlStr, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	c.setHeaders(req)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// Do sends an HTTP request and decodes a successful JSON response into result.
//
// Non-2xx responses are returned as *APIError and failures to reach GitHub
// as *TransportError. When result is nil the caller owns the response body.
func (c *Client) Do(req *http.Request, result interface{}) (*ClientResponse, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Method: req.Method, URL: req.URL.String(), Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, parseErrorResponse(resp.StatusCode, body)
	}

	clientResp := &ClientResponse{Response: resp}
	if result != nil {
		if err := clientResp.DecodeJSON(result); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return clientResp, nil
}

// setHeaders sets common headers for GitHub API requests
func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Accept", mediaTypeV3)
	req.Header.Set("User-Agent", c.userAgent)
}

// ClientResponse wraps an HTTP response with additional methods
type ClientResponse struct {
	*http.Response
	closeOnce sync.Once
}

// DecodeJSON decodes the response body as JSON
func (r *ClientResponse) DecodeJSON(v interface{}) error {
	defer r.Close()
	return json.NewDecoder(r.Response.Body).Decode(v)
}

// Close closes the response body (idempotent)
func (r *ClientResponse) Close() error {
	var err error
	r.closeOnce.Do(func() {
		if r.Response != nil && r.Response.Body != nil {
			err = r.Response.Body.Close()
		}
	})
	return err
}
