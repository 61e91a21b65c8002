// Package httpclient provides the browser-like HTTP client shared by all fetchers.
package httpclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// UserAgent is the desktop browser User-Agent sent with every request.
const UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// DefaultTimeout bounds a single fetch when no timeout is configured.
const DefaultTimeout = 15 * time.Second

const maxRedirects = 10

// maxBodySize caps how much of a response body is read.
const maxBodySize = 10 << 20

// DefaultHeaders returns the headers attached to every request.
// Accept-Encoding is left to the transport so compressed bodies are decoded transparently.
func DefaultHeaders() http.Header {
	h := http.Header{}
	h.Set("User-Agent", UserAgent)
	h.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	h.Set("Accept-Language", "en-US,en;q=0.9")
	h.Set("DNT", "1")
	h.Set("Upgrade-Insecure-Requests", "1")
	h.Set("Sec-Fetch-Dest", "document")
	h.Set("Sec-Fetch-Mode", "navigate")
	h.Set("Sec-Fetch-Site", "none")
	h.Set("Cache-Control", "max-age=0")
	return h
}

// Option configures New.
type Option func(*config)

type config struct {
	transport http.RoundTripper
	headers   http.Header
}

// WithTransport sets the underlying transport (defaults to http.DefaultTransport).
func WithTransport(rt http.RoundTripper) Option {
	return func(c *config) { c.transport = rt }
}

// WithHeader adds or replaces a default header.
func WithHeader(key, value string) Option {
	return func(c *config) { c.headers.Set(key, value) }
}

// New creates an HTTP client that follows redirects, enforces timeout per request
// and attaches the default headers. The header set is fixed once New returns.
func New(timeout time.Duration, opts ...Option) *http.Client {
	cfg := &config{transport: http.DefaultTransport, headers: DefaultHeaders()}
	for _, opt := range opts {
		opt(cfg)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: &headerTransport{base: cfg.transport, headers: cfg.headers.Clone()},
		CheckRedirect: func(_ *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("stopped after %d redirects", maxRedirects)
			}
			return nil
		},
	}
}

type headerTransport struct {
	base    http.RoundTripper
	headers http.Header // read-only after construction
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	for k, v := range t.headers {
		r.Header[k] = append([]string(nil), v...)
	}
	return t.base.RoundTrip(r)
}

// HTTPError represents a non-2xx HTTP response.
type HTTPError struct {
	URL        string
	StatusCode int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d fetching %s", e.StatusCode, e.URL)
}

// IsHTTPError reports whether err carries an HTTP status failure.
func IsHTTPError(err error) bool {
	var httpErr *HTTPError
	return errors.As(err, &httpErr)
}

// Get fetches rawURL and returns the body of a 2xx response.
// Non-2xx responses return *HTTPError; transport failures and timeouts are returned as is.
func Get(ctx context.Context, client *http.Client, rawURL string, logger *slog.Logger) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close() //nolint:errcheck // intentional

	if logger != nil {
		logger.DebugContext(ctx, "fetched", "url", rawURL, "status", resp.StatusCode, "elapsed", time.Since(start).Round(time.Millisecond))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HTTPError{StatusCode: resp.StatusCode, URL: rawURL}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}

// ResolveReference resolves a potentially relative URL against a base URL.
// Returns "" when either URL cannot be parsed.
func ResolveReference(baseURL, ref string) string {
	ref = strings.TrimSpace(ref)
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return ""
	}

	// Protocol-relative
	if strings.HasPrefix(ref, "//") {
		scheme := base.Scheme
		if scheme == "" {
			scheme = "https"
		}
		return scheme + ":" + ref
	}

	refURL, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	return base.ResolveReference(refURL).String()
}
