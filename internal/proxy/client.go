package proxy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"
)

// Retriever fetches a remote document through the retrieval proxy.
// This interface is implemented by *Client and can be used for testing.
type Retriever interface {
	Fetch(ctx context.Context, feedURL string) (string, error)
}

// Ensure Client implements Retriever at compile time.
var _ Retriever = (*Client)(nil)

// Client talks to a retrieval proxy that wraps the target document in a JSON
// envelope.
type Client struct {
	endpoint  string
	http      *http.Client
	limiter   *rate.Limiter
	userAgent string
	logger    *log.Logger
}

const (
	// DefaultEndpoint is the public proxy the panel was built against.
	DefaultEndpoint = "http://cors-proxy.htmldriven.com/?url={url}"

	urlPlaceholder   = "{url}"
	defaultUserAgent = "rsspanel/0.1"
	requestTimeout   = 15 * time.Second
	maxEnvelopeBytes = 8 << 20
	defaultRate      = 2
	defaultBurst     = 2
)

// Options configure a Client. Zero values select defaults.
type Options struct {
	Endpoint  string        // URL template, "{url}" is replaced by the escaped feed URL
	Timeout   time.Duration // per-request ceiling
	RateLimit float64       // requests per second; negative disables limiting
	Logger    *log.Logger
}

// NewClient builds a Client from opts.
func NewClient(opts Options) (*Client, error) {
	endpoint := strings.TrimSpace(opts.Endpoint)
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if _, err := expandEndpoint(endpoint, "http://example.com/feed.xml"); err != nil {
		return nil, err
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = requestTimeout
	}

	limit := rate.Limit(defaultRate)
	burst := defaultBurst
	switch {
	case opts.RateLimit < 0:
		limit = rate.Inf
		burst = 1
	case opts.RateLimit > 0:
		limit = rate.Limit(opts.RateLimit)
		burst = max(1, int(opts.RateLimit))
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return &Client{
		endpoint: endpoint,
		http: &http.Client{
			Timeout: timeout,
		},
		limiter:   rate.NewLimiter(limit, burst),
		userAgent: defaultUserAgent,
		logger:    logger,
	}, nil
}

// Fetch retrieves feedURL through the proxy and returns the unwrapped body.
// Every failure is reported immediately; the client never retries.
func (c *Client) Fetch(ctx context.Context, feedURL string) (string, error) {
	if c == nil {
		return "", fmt.Errorf("client is nil")
	}
	feedURL = strings.TrimSpace(feedURL)
	if feedURL == "" {
		return "", fmt.Errorf("feed url is empty")
	}

	reqURL, err := expandEndpoint(c.endpoint, feedURL)
	if err != nil {
		return "", err
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("wait for proxy slot: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.Debug("proxy response", "feed", feedURL, "status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("proxy returned status %d", resp.StatusCode)
	}

	var env Envelope
	decoder := json.NewDecoder(io.LimitReader(resp.Body, maxEnvelopeBytes))
	if err := decoder.Decode(&env); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedEnvelope, err)
	}
	if env.Success == nil {
		return "", fmt.Errorf("%w: missing success field", ErrMalformedEnvelope)
	}
	if !*env.Success {
		return "", &EnvelopeError{Message: env.Error}
	}
	return env.Body, nil
}

// expandEndpoint substitutes the escaped feed URL into the template. A
// template without a placeholder gets a url query parameter instead.
func expandEndpoint(template, feedURL string) (string, error) {
	if strings.Contains(template, urlPlaceholder) {
		expanded := strings.ReplaceAll(template, urlPlaceholder, url.QueryEscape(feedURL))
		if _, err := url.ParseRequestURI(expanded); err != nil {
			return "", fmt.Errorf("parse proxy endpoint %q: %w", template, err)
		}
		return expanded, nil
	}

	u, err := url.Parse(template)
	if err != nil || u.Scheme == "" || u.Host == "" {
		if err == nil {
			err = errors.New("scheme and host required")
		}
		return "", fmt.Errorf("parse proxy endpoint %q: %w", template, err)
	}
	values := u.Query()
	values.Set("url", feedURL)
	u.RawQuery = values.Encode()
	return u.String(), nil
}
